package action

import (
	"context"
	"fmt"

	"github.com/mirage-fw/core/internal/queue"
)

// Keys covers the Press/Release/Click/Generic keycode actions.
type Keys struct {
	Mode     KeysMode
	Keycodes []byte
}

func (k *Keys) Print() string { return fmt.Sprintf("Keys(mode=%d, codes=%v)", k.Mode, k.Keycodes) }

func (k *Keys) Enqueue(ctx context.Context, dir Direction, q *queue.Queue) {
	if dir == UNDO {
		if k.Mode == KeysGeneric {
			enqueueAll(ctx, q, queue.NewRelease(k.Keycodes))
		}
		return
	}
	switch k.Mode {
	case KeysGeneric, KeysPress:
		enqueueAll(ctx, q, queue.NewPress(k.Keycodes))
	case KeysRelease:
		enqueueAll(ctx, q, queue.NewRelease(k.Keycodes))
	case KeysClick:
		enqueueAll(ctx, q, queue.NewPress(k.Keycodes), queue.NewRelease(k.Keycodes))
	}
}

func (k *Keys) Equal(other BoundAction) bool {
	o, ok := other.(*Keys)
	if !ok || o.Mode != k.Mode || len(o.Keycodes) != len(k.Keycodes) {
		return false
	}
	for i := range k.Keycodes {
		if k.Keycodes[i] != o.Keycodes[i] {
			return false
		}
	}
	return true
}

// Sequence fires each child as DO-then-UNDO within one parent DO; the
// parent's own UNDO does nothing.
type Sequence struct {
	Items []BoundAction
}

func (s *Sequence) Print() string { return fmt.Sprintf("Sequence(%d items)", len(s.Items)) }

func (s *Sequence) Enqueue(ctx context.Context, dir Direction, q *queue.Queue) {
	if dir == UNDO {
		return
	}
	for _, item := range s.Items {
		item.Enqueue(ctx, DO, q)
		item.Enqueue(ctx, UNDO, q)
	}
}

func (s *Sequence) Equal(other BoundAction) bool {
	o, ok := other.(*Sequence)
	if !ok || len(o.Items) != len(s.Items) {
		return false
	}
	for i := range s.Items {
		if !s.Items[i].Equal(o.Items[i]) {
			return false
		}
	}
	return true
}

// Delay only responds to DO.
type Delay struct {
	DurationMs uint32
}

func (d *Delay) Print() string { return fmt.Sprintf("Delay(%dms)", d.DurationMs) }

func (d *Delay) Enqueue(ctx context.Context, dir Direction, q *queue.Queue) {
	if dir == DO {
		enqueueAll(ctx, q, queue.NewDelay(d.DurationMs))
	}
}

func (d *Delay) Equal(other BoundAction) bool {
	o, ok := other.(*Delay)
	return ok && o.DurationMs == d.DurationMs
}

// LayerOp covers SwitchTo/Temporary/Leave/Toggle/Home. Only SwitchTo and
// Home produce a runtime message; Temporary/Leave/Toggle are no-ops at
// runtime per the base spec's open questions (§9).
type LayerOp struct {
	Kind            LayerOpKind
	TargetLayerHash uint32
}

func (l *LayerOp) Print() string {
	return fmt.Sprintf("LayerOp(kind=%d, target=%#x)", l.Kind, l.TargetLayerHash)
}

func (l *LayerOp) Enqueue(ctx context.Context, dir Direction, q *queue.Queue) {
	if dir != DO {
		return
	}
	switch l.Kind {
	case LayerSwitchTo, LayerHome:
		enqueueAll(ctx, q, queue.NewLayerSwitch(l.TargetLayerHash))
	default:
		// Temporary/Leave/Toggle: no runtime message, per §9.
	}
}

func (l *LayerOp) Equal(other BoundAction) bool {
	o, ok := other.(*LayerOp)
	return ok && o.Kind == l.Kind && o.TargetLayerHash == l.TargetLayerHash
}

// Typer faithfully preserves the original's alphabetic-only char-to-keycode
// hack (0x04 + (upper(c)-'A')); non-letters produce out-of-range codes, per
// §9's explicit flag-don't-fix guidance.
type Typer struct {
	Payload        []byte
	KeystrokeDelay uint32
	RepeatDelayMs  uint32
	Repeating      bool
}

func (t *Typer) Print() string { return fmt.Sprintf("Typer(%q, repeating=%v)", t.Payload, t.Repeating) }

func charToKeycode(c byte) byte {
	upper := c
	if c >= 'a' && c <= 'z' {
		upper = c - 'a' + 'A'
	}
	return 0x04 + (upper - 'A')
}

func (t *Typer) Enqueue(ctx context.Context, dir Direction, q *queue.Queue) {
	if dir != DO {
		return
	}
	for _, c := range t.Payload {
		code := charToKeycode(c)
		enqueueAll(ctx, q,
			queue.NewPress([]byte{code}),
			queue.NewRelease([]byte{code}),
			queue.NewDelay(t.KeystrokeDelay),
		)
	}
	// The payload is typed once per DO. Repeating and RepeatDelayMs are
	// stored on the variant but have no runtime effect: nothing re-fires the
	// payload while the key stays held, and the matrix poller sends no
	// repeat-while-held signal (see internal/matrix).
}

func (t *Typer) Equal(other BoundAction) bool {
	o, ok := other.(*Typer)
	if !ok || string(o.Payload) != string(t.Payload) || o.KeystrokeDelay != t.KeystrokeDelay ||
		o.RepeatDelayMs != t.RepeatDelayMs || o.Repeating != t.Repeating {
		return false
	}
	return true
}

// MouseMove emits a MOUSE_MOVE_* message on DO only.
type MouseMove struct {
	Axis  MouseAxis
	Speed int8
}

func (m *MouseMove) Print() string { return fmt.Sprintf("MouseMove(axis=%d, speed=%d)", m.Axis, m.Speed) }

func (m *MouseMove) Enqueue(ctx context.Context, dir Direction, q *queue.Queue) {
	if dir == DO {
		enqueueAll(ctx, q, queue.NewMouseMove(m.Axis == AxisLeftRight, m.Speed))
	}
}

func (m *MouseMove) Equal(other BoundAction) bool {
	o, ok := other.(*MouseMove)
	return ok && o.Axis == m.Axis && o.Speed == m.Speed
}

// MouseScroll emits a MOUSE_SCROLL_* message on DO only.
type MouseScroll struct {
	Axis  MouseAxis
	Speed int8
}

func (m *MouseScroll) Print() string {
	return fmt.Sprintf("MouseScroll(axis=%d, speed=%d)", m.Axis, m.Speed)
}

func (m *MouseScroll) Enqueue(ctx context.Context, dir Direction, q *queue.Queue) {
	if dir == DO {
		enqueueAll(ctx, q, queue.NewMouseScroll(m.Axis == AxisLeftRight, m.Speed))
	}
}

func (m *MouseScroll) Equal(other BoundAction) bool {
	o, ok := other.(*MouseScroll)
	return ok && o.Axis == m.Axis && o.Speed == m.Speed
}

// MouseClick emits MOUSE_CLICK on DO and MOUSE_RELEASE on UNDO.
type MouseClick struct {
	ButtonMask uint8
}

func (m *MouseClick) Print() string { return fmt.Sprintf("MouseClick(mask=%#x)", m.ButtonMask) }

func (m *MouseClick) Enqueue(ctx context.Context, dir Direction, q *queue.Queue) {
	if dir == DO {
		enqueueAll(ctx, q, queue.NewMouseClick(m.ButtonMask))
	} else {
		enqueueAll(ctx, q, queue.NewMouseRelease(m.ButtonMask))
	}
}

func (m *MouseClick) Equal(other BoundAction) bool {
	o, ok := other.(*MouseClick)
	return ok && o.ButtonMask == m.ButtonMask
}

// Terminal effects: ResetKeeb, KeebBootloader, ResetLayer, Nothing,
// PassThrough, ReloadKeymap. Only the first two produce a message.

type terminalKind int

const (
	termResetKeeb terminalKind = iota
	termKeebBootloader
	termResetLayer
	termNothing
	termPassThrough
	termReloadKeymap
)

// Terminal is the shared representation for the six nullary action
// variants; distinguished by Kind, matching the base spec's tag-first
// equality rule (no payload to compare beyond the tag).
type Terminal struct {
	Kind terminalKind
}

var (
	ResetKeeb      = &Terminal{Kind: termResetKeeb}
	KeebBootloader = &Terminal{Kind: termKeebBootloader}
	ResetLayer     = &Terminal{Kind: termResetLayer}
	Nothing        = &Terminal{Kind: termNothing}
	PassThrough    = &Terminal{Kind: termPassThrough}
	ReloadKeymap   = &Terminal{Kind: termReloadKeymap}
)

func (t *Terminal) Print() string { return fmt.Sprintf("Terminal(kind=%d)", t.Kind) }

func (t *Terminal) Enqueue(ctx context.Context, dir Direction, q *queue.Queue) {
	if dir != DO {
		return
	}
	switch t.Kind {
	case termResetKeeb:
		enqueueAll(ctx, q, queue.NewReboot())
	case termKeebBootloader:
		enqueueAll(ctx, q, queue.NewRebootBootloader())
	}
}

func (t *Terminal) Equal(other BoundAction) bool {
	o, ok := other.(*Terminal)
	return ok && o.Kind == t.Kind
}
