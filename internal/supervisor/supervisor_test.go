package supervisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mirage-fw/core/internal/action"
	"github.com/mirage-fw/core/internal/config"
	"github.com/mirage-fw/core/internal/errs"
	"github.com/mirage-fw/core/internal/fs"
	"github.com/mirage-fw/core/internal/layer"
	"github.com/mirage-fw/core/internal/layerid"
	"github.com/mirage-fw/core/internal/queue"
	"github.com/mirage-fw/core/internal/transport"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Board.Name = "MiRage"
	cfg.Timing.MatrixPollMs = 1
	cfg.Timing.AssemblerTickMs = 1
	cfg.Timing.HoldThresholdMs = 200
	cfg.Timing.EnqueueTimeoutTicks = 2
	cfg.Queue.Capacity = 16
	return cfg
}

func newTestSupervisor(t *testing.T, fsys fs.Filesystem) *Supervisor {
	t.Helper()
	return New(testConfig(), fsys, transport.NewSimulatedBus(), transport.NewSimulator())
}

func TestCompileSourceClickBinding(t *testing.T) {
	l, err := CompileSource("BaseLayer", "R0,K1: click A\n")
	if err != nil {
		t.Fatalf("CompileSource: %v", err)
	}
	if l.ID() != layerid.BaseLayer {
		t.Fatalf("got layer id %#x", l.ID())
	}
	if !l.Bound(layer.KeyIndex(1), layer.OpPress) {
		t.Fatalf("expected (0,1)/PRESS to be bound")
	}

	q := queue.New(8, time.Millisecond, 1, nil)
	l.Enqueue(context.Background(), layer.KeyIndex(1), layer.OpPress, action.DO, q)

	press, _ := q.TryDequeue()
	release, _ := q.TryDequeue()
	if press.Type != queue.Press || press.Codes[0] != 0x04 {
		t.Fatalf("got press %+v", press)
	}
	if release.Type != queue.Release || release.Codes[0] != 0x04 {
		t.Fatalf("got release %+v", release)
	}
}

func TestCompileSourceDirectives(t *testing.T) {
	l, err := CompileSource("Nav", "other keys fall through\nR0,K0: nothing\n")
	if err != nil {
		t.Fatalf("CompileSource: %v", err)
	}
	if !l.UnassignedKeysFallThrough() {
		t.Fatalf("expected fall-through directive to be applied")
	}
}

func TestCompileSourceHoldBinding(t *testing.T) {
	l, err := CompileSource("BaseLayer", "R2,K3: on hold: switch to NavLayer until released\n")
	if err != nil {
		t.Fatalf("CompileSource: %v", err)
	}
	if !l.OnHoldBound() {
		t.Fatalf("expected on_hold_bound to be set")
	}
	if !l.Bound(layer.KeyIndex(2*12+3), layer.OpHold) {
		t.Fatalf("expected (2,3)/HOLD to be bound")
	}
}

func TestCompileSourceErrorClasses(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   error
	}{
		{"lex", "R0,K0: type \"unterminated\n", errs.ErrLex},
		{"parse", "R0,K0: press LEFTCTRL +  + A\n", errs.ErrParse},
		{"semantic", "R0,K0: mouse move up 150\n", errs.ErrSemantic},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CompileSource("BaseLayer", tc.source)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestBootCompilesKeymapsAndCreatesReadme(t *testing.T) {
	fsys := fs.NewMemory()
	fsys.AddFile("BaseLayer.kmf", "R0,K1: click A\n")
	fsys.AddFile("Nav.kmf", "R0,K0: mouse move up 50\n")
	fsys.AddFile("notes.txt", "not a keymap")

	s := newTestSupervisor(t, fsys)
	if err := s.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}

	if !fsys.FileExists("README.txt") {
		t.Fatalf("expected README.txt to be created on first boot")
	}
	if s.Table().Base() == nil {
		t.Fatalf("expected BaseLayer to be loaded")
	}
	if s.Table().Get(layerid.Hash("Nav")) == nil {
		t.Fatalf("expected Nav layer to be loaded")
	}
	if s.Status().CurrentLayer() != "BaseLayer" {
		t.Fatalf("got current layer %q", s.Status().CurrentLayer())
	}
	if s.Status().LastError() != "" {
		t.Fatalf("unexpected error recorded: %q", s.Status().LastError())
	}
}

func TestBootSkipsBrokenKeymapAndRecordsError(t *testing.T) {
	fsys := fs.NewMemory()
	fsys.AddFile("BaseLayer.kmf", "R0,K1: click A\n")
	fsys.AddFile("Broken.kmf", "R0,K0: mouse move up 150\n")

	s := newTestSupervisor(t, fsys)
	if err := s.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}

	if s.Table().Base() == nil {
		t.Fatalf("good keymap should still load")
	}
	if s.Table().Get(layerid.Hash("Broken")) != nil {
		t.Fatalf("broken keymap should be skipped")
	}
	if s.Status().LastError() == "" {
		t.Fatalf("expected last error to be recorded")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	fsys := fs.NewMemory()
	fsys.AddFile("BaseLayer.kmf", "R0,K1: click A\n")

	s := newTestSupervisor(t, fsys)
	if err := s.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
}
