// Package report implements the report assembler (C7): it drains the
// poller's queue and synthesizes USB HID keyboard/mouse reports, grounded
// on the original firmware's send_hid_report/prvUsbHidTask in src/main.cc.
package report

import (
	"context"
	"time"

	"github.com/mirage-fw/core/internal/obslog"
	"github.com/mirage-fw/core/internal/queue"
	"github.com/mirage-fw/core/internal/runtimestate"
	"github.com/mirage-fw/core/internal/transport"
)

// Modifier bit assignments for HID usage codes 0xE0-0xE7.
const (
	modLeftCtrl   = 1 << 0
	modLeftShift  = 1 << 1
	modLeftAlt    = 1 << 2
	modLeftGUI    = 1 << 3
	modRightCtrl  = 1 << 4
	modRightShift = 1 << 5
	modRightAlt   = 1 << 6
	modRightGUI   = 1 << 7
)

func modifierBit(code byte) (bit byte, isModifier bool) {
	switch code {
	case 0xE0:
		return modLeftCtrl, true
	case 0xE1:
		return modLeftShift, true
	case 0xE2:
		return modLeftAlt, true
	case 0xE3:
		return modLeftGUI, true
	case 0xE4:
		return modRightCtrl, true
	case 0xE5:
		return modRightShift, true
	case 0xE6:
		return modRightAlt, true
	case 0xE7:
		return modRightGUI, true
	}
	return 0, false
}

// Assembler drains q, maintaining the keycode[6]+modifier keyboard slot
// state and the mouse button mask, and submits reports through gadget.
type Assembler struct {
	q      *queue.Queue
	gadget transport.USBGadget
	bus    transport.BusTransport
	state  *runtimestate.State
	period time.Duration

	keycodes     [queue.KeyRollOver]byte
	modifier     byte
	mouseButtons byte

	// OnLayerSwitch, if set, is invoked after the active layer changes.
	OnLayerSwitch func(layer uint32)
}

// New creates an Assembler.
func New(q *queue.Queue, gadget transport.USBGadget, bus transport.BusTransport, state *runtimestate.State, period time.Duration) *Assembler {
	return &Assembler{q: q, gadget: gadget, bus: bus, state: state, period: period}
}

// Run blocks, ticking every a.period until ctx is cancelled: each tick, if
// hidSendComplete is set, it pops at most one message and processes it.
func (a *Assembler) Run(ctx context.Context) {
	ticker := time.NewTicker(a.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !a.state.HidSendComplete() {
				continue
			}
			msg, ok := a.q.TryDequeue()
			if !ok {
				continue
			}
			a.process(ctx, msg)
		}
	}
}

func (a *Assembler) process(ctx context.Context, msg queue.Message) {
	switch msg.Type {
	case queue.Reboot:
		if err := a.bus.Reboot(); err != nil {
			obslog.Warnf("report: reboot requested: %v", err)
		}
	case queue.RebootBootloader:
		if err := a.bus.RebootBootloader(); err != nil {
			obslog.Warnf("report: bootloader reboot requested: %v", err)
		}
	case queue.MouseMoveUpDown:
		a.sendMouse(0, 0, msg.MouseDelta, 0)
	case queue.MouseMoveLeftRight:
		a.sendMouse(0, msg.MouseDelta, 0, 0)
	case queue.MouseScrollUpDown:
		a.sendMouse(0, 0, 0, msg.MouseDelta)
	case queue.MouseScrollLeftRight:
		// Corrected: the original shadows this case with a duplicate
		// MOUSE_MOVE_LEFT_RIGHT check, so a scroll-left/right message never
		// reaches its own branch on real hardware. Implemented here as the
		// evidently intended horizontal-scroll (AC Pan) delta.
		a.sendMouse(msg.MouseDelta, 0, 0, 0)
	case queue.MouseClick:
		a.mouseButtons |= msg.MouseClick
		a.sendMouse(0, 0, 0, 0)
	case queue.MouseRelease:
		a.mouseButtons &^= msg.MouseClick
		a.sendMouse(0, 0, 0, 0)
	case queue.LayerSwitch:
		a.state.SetLayer(msg.Layer)
		if a.OnLayerSwitch != nil {
			a.OnLayerSwitch(msg.Layer)
		}
		return // no HID side-effect; does not clear hidSendComplete
	case queue.Delay:
		a.delay(ctx, msg.DelayMs)
		return // no report submitted
	case queue.Press:
		a.applyKeys(msg, true)
		a.sendKeyboard()
	case queue.Release:
		a.applyKeys(msg, false)
		a.sendKeyboard()
	}
}

func (a *Assembler) delay(ctx context.Context, ms uint32) {
	timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func (a *Assembler) applyKeys(msg queue.Message, pressed bool) {
	for i := 0; i < int(msg.Length); i++ {
		code := msg.Codes[i]
		if bit, ok := modifierBit(code); ok {
			if pressed {
				a.modifier |= bit
			} else {
				a.modifier &^= bit
			}
			continue
		}

		if pressed {
			for j := range a.keycodes {
				if a.keycodes[j] == 0 {
					a.keycodes[j] = code
					break
				}
			}
		} else {
			for j := range a.keycodes {
				if a.keycodes[j] == code {
					a.keycodes[j] = 0
					break
				}
			}
		}
	}
}

// mouseReportID/keyboardReportID mirror the original's REPORT_ID_MOUSE and
// REPORT_ID_KEYBOARD HID report descriptor IDs.
const (
	mouseReportID    = 2
	keyboardReportID = 1
)

func (a *Assembler) sendMouse(pan, x, y, wheel int8) {
	report := []byte{
		mouseReportID,
		a.mouseButtons,
		byte(x),
		byte(y),
		byte(wheel),
		byte(pan),
	}
	if err := a.gadget.WriteMouseReport(report); err != nil {
		obslog.Warnf("report: failed to write mouse report: %v", err)
		return
	}
	a.state.SetHidSendComplete(false)
}

func (a *Assembler) sendKeyboard() {
	report := make([]byte, 2+len(a.keycodes))
	report[0] = keyboardReportID
	report[1] = a.modifier
	copy(report[2:], a.keycodes[:])

	if err := a.gadget.WriteKeyboardReport(report); err != nil {
		obslog.Warnf("report: failed to write keyboard report: %v", err)
		return
	}
	a.state.SetHidSendComplete(false)
}

// ReportComplete is invoked by the USB stack's report-complete callback to
// reopen the single-shot send gate.
func (a *Assembler) ReportComplete() {
	a.state.SetHidSendComplete(true)
}
