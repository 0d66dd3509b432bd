// Package supervisor owns the boot sequence: it initializes and mounts the
// keymap storage, compiles every *.kmf file into a layer, and starts the
// poller/assembler pipeline. Grounded on the original firmware's main()
// and on the teacher-style load-wire-start-shutdown orchestration.
package supervisor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mirage-fw/core/internal/config"
	"github.com/mirage-fw/core/internal/dsl/build"
	"github.com/mirage-fw/core/internal/dsl/parse"
	"github.com/mirage-fw/core/internal/dsl/token"
	"github.com/mirage-fw/core/internal/errs"
	"github.com/mirage-fw/core/internal/fs"
	"github.com/mirage-fw/core/internal/layer"
	"github.com/mirage-fw/core/internal/layerid"
	"github.com/mirage-fw/core/internal/matrix"
	"github.com/mirage-fw/core/internal/obslog"
	"github.com/mirage-fw/core/internal/queue"
	"github.com/mirage-fw/core/internal/report"
	"github.com/mirage-fw/core/internal/runtimestate"
	"github.com/mirage-fw/core/internal/transport"
)

// columns is the physical column count the KeyIndex encoding flattens over.
const columns = 12

const readmeName = "README.txt"

const readmeContents = "Copy .kmf (keymap file) files into this directory to assign key maps.\n\n" +
	"After copying over the keymaps power cycle the keyboard for them to take effect.\n" +
	"The layer named BaseLayer is active at power-on."

// Supervisor wires the storage façade, the compiled layer table, and the
// runtime pipeline together.
type Supervisor struct {
	cfg    *config.Config
	fsys   fs.Filesystem
	bus    transport.BusTransport
	gadget transport.USBGadget
	status *Status

	busMu     sync.Mutex
	table     *layer.Table
	state     *runtimestate.State
	q         *queue.Queue
	poller    *matrix.Poller
	assembler *report.Assembler
}

// New creates a Supervisor over the given collaborators.
func New(cfg *config.Config, fsys fs.Filesystem, bus transport.BusTransport, gadget transport.USBGadget) *Supervisor {
	return &Supervisor{
		cfg:    cfg,
		fsys:   fsys,
		bus:    bus,
		gadget: gadget,
		status: NewStatus(),
		table:  layer.NewTable(),
	}
}

// Status exposes the diagnostics surface.
func (s *Supervisor) Status() *Status { return s.status }

// Table exposes the compiled layer table.
func (s *Supervisor) Table() *layer.Table { return s.table }

// Boot mounts the storage, compiles every keymap into the layer table, and
// constructs the runtime pipeline. It does not start the pipeline; call Run.
func (s *Supervisor) Boot() error {
	obslog.Infof("boot %s: initializing storage", s.status.BootID())

	if err := s.fsys.Initialize(); err != nil {
		return fmt.Errorf("%w: initialize storage: %v", errs.ErrFatalSetup, err)
	}
	if err := s.fsys.Mount(); err != nil {
		return fmt.Errorf("%w: mount storage: %v", errs.ErrFatalSetup, err)
	}

	if !s.fsys.FileExists(readmeName) {
		if err := s.fsys.AddFile(readmeName, readmeContents); err != nil {
			obslog.Warnf("boot: failed to create %s: %v", readmeName, err)
		}
	}

	if err := s.compileKeymaps(); err != nil {
		return err
	}

	if err := s.fsys.Unmount(); err != nil {
		obslog.Warnf("boot: unmount: %v", err)
	}

	pollPeriod := time.Duration(s.cfg.Timing.MatrixPollMs) * time.Millisecond
	tickPeriod := time.Duration(s.cfg.Timing.AssemblerTickMs) * time.Millisecond

	s.q = queue.New(s.cfg.Queue.Capacity, tickPeriod, s.cfg.Timing.EnqueueTimeoutTicks, s.status.MessageDropped)
	s.state = runtimestate.New(layerid.BaseLayer)
	s.poller = matrix.New(s.bus, &s.busMu, s.table, s.state, s.q, pollPeriod)
	s.assembler = report.New(s.q, s.gadget, s.bus, s.state, tickPeriod)
	s.assembler.OnLayerSwitch = func(id uint32) {
		if l := s.table.Get(id); l != nil {
			s.status.SetCurrentLayer(l.Name())
		}
	}

	if base := s.table.Base(); base != nil {
		s.status.SetCurrentLayer(base.Name())
	}

	return nil
}

// compileKeymaps enumerates *.kmf files and compiles each into a layer.
// A file that fails to compile is skipped; only the last error is kept on
// the status surface.
func (s *Supervisor) compileKeymaps() error {
	files, err := s.fsys.List("")
	if err != nil {
		return fmt.Errorf("%w: list storage: %v", errs.ErrFatalSetup, err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file, ".kmf") {
			continue
		}
		name := strings.TrimSuffix(file, ".kmf")

		source, err := s.fsys.ReadFile(file)
		if err != nil {
			obslog.Warnf("boot: read %s: %v", file, err)
			s.status.SetLastError(err.Error())
			continue
		}

		l, err := CompileSource(name, source)
		if err != nil {
			obslog.Warnf("boot: compile %s: %v", file, err)
			s.status.SetLastError(err.Error())
			continue
		}

		s.table.Add(l)
		obslog.Infof("boot: loaded layer %q (id %#x)", name, l.ID())
	}

	return nil
}

// CompileSource runs the full DSL pipeline over one keymap source and
// returns the populated layer named name.
func CompileSource(name, source string) (*layer.Layer, error) {
	toks, err := token.Tokenize(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrLex, err)
	}

	file, err := parse.Parse(toks)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrParse, err)
	}

	l := layer.New(name)
	for _, d := range file.Directives {
		switch d {
		case parse.OtherKeysFallThrough:
			l.SetUnassignedKeysFallThrough(true)
		case parse.BlockOtherKeys:
			l.SetUnassignedKeysFallThrough(false)
		}
	}

	for _, b := range file.Bindings {
		act, err := build.Build(b.Run, b.Operation)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrSemantic, err)
		}
		l.Bind(layer.KeyIndex(b.Row*columns+b.Key), layerOperation(b.Operation), act)
	}

	return l, nil
}

func layerOperation(op parse.Operation) layer.Operation {
	switch op {
	case parse.OpClick:
		return layer.OpClick
	case parse.OpHold:
		return layer.OpHold
	case parse.OpDoubleClick:
		return layer.OpDoubleClick
	case parse.OpRelease:
		return layer.OpRelease
	default:
		return layer.OpPress
	}
}

// Run starts the poller and assembler goroutines and blocks until ctx is
// cancelled, then waits for both to stop.
func (s *Supervisor) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		s.poller.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		s.assembler.Run(ctx)
	}()

	obslog.Infof("boot %s: pipeline running, layer %q", s.status.BootID(), s.status.CurrentLayer())

	<-ctx.Done()
	wg.Wait()
}
