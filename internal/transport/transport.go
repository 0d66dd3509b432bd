// Package transport implements the HID gadget write path (C13): a
// USBGadget interface with a real /dev/hidg*-backed implementation,
// grounded on chul81-go-hidproxy's SendKeyboardReports/SendMouseReports
// (direct O_WRONLY writes to the kernel USB gadget character devices), and
// an in-memory simulator default for tests and non-root development runs.
package transport

import (
	"os"

	"github.com/mirage-fw/core/internal/obslog"
	"golang.org/x/sys/unix"
)

// USBGadget writes assembled HID reports to their kernel gadget endpoints.
type USBGadget interface {
	WriteKeyboardReport(report []byte) error
	WriteMouseReport(report []byte) error
	Close() error
}

// BusTransport stands in for the shared I²C bus the matrix poller's two
// I/O expanders sit on, plus the watchdog/bootloader primitive that the
// Terminal ResetKeeb/KeebBootloader actions invoke (C13).
type BusTransport interface {
	// ReadExpanders returns the 10 active-low bytes covering both I/O
	// expanders (5 bytes each), one bit per matrix cell: 0 = pressed.
	ReadExpanders() ([10]byte, error)
	Reboot() error
	RebootBootloader() error
}

// ErrSimulatedReboot is returned by SimulatedBus.Reboot/RebootBootloader so
// tests can observe a reboot request without the process actually exiting,
// unlike real hardware where these calls never return.
var ErrSimulatedReboot = simulatedRebootError{}

type simulatedRebootError struct{}

func (simulatedRebootError) Error() string { return "simulated reboot requested" }

// SimulatedBus is an in-memory BusTransport: Cells holds the current
// active-low matrix state for tests to mutate directly.
type SimulatedBus struct {
	Cells [10]byte
}

// NewSimulatedBus creates a SimulatedBus with all cells released (all bits
// set, active-low).
func NewSimulatedBus() *SimulatedBus {
	b := &SimulatedBus{}
	for i := range b.Cells {
		b.Cells[i] = 0xFF
	}
	return b
}

func (b *SimulatedBus) ReadExpanders() ([10]byte, error) { return b.Cells, nil }
func (b *SimulatedBus) Reboot() error { return ErrSimulatedReboot }
func (b *SimulatedBus) RebootBootloader() error { return ErrSimulatedReboot }

// HIDGadget is a real gadget backed by the /dev/hidg0 (keyboard) and
// /dev/hidg1 (mouse) character devices that a configured USB HID gadget
// function exposes.
type HIDGadget struct {
	keyboard *os.File
	mouse    *os.File
}

// OpenHIDGadget opens the keyboard and mouse gadget device nodes for
// writing, the same O_WRONLY append-mode open the teacher's hidproxy uses.
func OpenHIDGadget(keyboardPath, mousePath string) (*HIDGadget, error) {
	kb, err := os.OpenFile(keyboardPath, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	mouse, err := os.OpenFile(mousePath, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		kb.Close()
		return nil, err
	}
	return &HIDGadget{keyboard: kb, mouse: mouse}, nil
}

func (g *HIDGadget) WriteKeyboardReport(report []byte) error {
	n, err := g.keyboard.Write(report)
	if err != nil {
		return err
	}
	obslog.Debugf("wrote %d bytes to keyboard gadget", n)
	return nil
}

func (g *HIDGadget) WriteMouseReport(report []byte) error {
	n, err := g.mouse.Write(report)
	if err != nil {
		return err
	}
	obslog.Debugf("wrote %d bytes to mouse gadget", n)
	return nil
}

func (g *HIDGadget) Close() error {
	kbErr := g.keyboard.Close()
	mErr := g.mouse.Close()
	if kbErr != nil {
		return kbErr
	}
	return mErr
}

// Fsync forces a gadget device's pending writes out, using a direct
// unix.Fsync syscall rather than the os.File convenience wrapper, since the
// gadget function driver does not expose Sync() on every kernel version.
func Fsync(f *os.File) error {
	return unix.Fsync(int(f.Fd()))
}

// Simulator is a no-op in-memory USBGadget for tests and for running the
// core's pipeline on a development machine with no real gadget attached.
// It records the last report written on each endpoint for assertions.
type Simulator struct {
	LastKeyboardReport []byte
	LastMouseReport    []byte
}

// NewSimulator creates an empty Simulator.
func NewSimulator() *Simulator { return &Simulator{} }

func (s *Simulator) WriteKeyboardReport(report []byte) error {
	s.LastKeyboardReport = append([]byte(nil), report...)
	return nil
}

func (s *Simulator) WriteMouseReport(report []byte) error {
	s.LastMouseReport = append([]byte(nil), report...)
	return nil
}

func (s *Simulator) Close() error { return nil }
