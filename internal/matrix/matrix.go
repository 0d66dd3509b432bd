// Package matrix implements the matrix poller (C6): it reads the 10 bytes of
// the two I/O expanders over the shared bus transport, edge-detects each of the 80
// cells against the previous frame, and enqueues PRESS/HOLD messages
// through the bound layer's actions. Grounded on the original firmware's
// prvPollKeysTask in src/main.cc for the edge-detection algorithm, the
// 80-element keys[] permutation table, and the 200ms hold threshold; the
// per-cell tap/hold discrimination is expressed as a qmuntal/stateless
// machine, grounded on u-bmc-u-bmc's pkg/state usage of the same library.
package matrix

import (
	"context"
	"sync"
	"time"

	"github.com/qmuntal/stateless"

	"github.com/mirage-fw/core/internal/action"
	"github.com/mirage-fw/core/internal/layer"
	"github.com/mirage-fw/core/internal/obslog"
	"github.com/mirage-fw/core/internal/queue"
	"github.com/mirage-fw/core/internal/runtimestate"
	"github.com/mirage-fw/core/internal/transport"
)

// NoKey and ReservedButton are the two sentinel keys[] values: a cell with
// no physical key wired to it, and a cell wired to a non-keymap board
// button.
const (
	NoKey         = -1
	ReservedButton = -2
)

// width is the column count used to derive the (row*width+col) KeyIndex
// encoding baked into the keys[] table below.
const width = 12

// cellKeys is the fixed 80-element (byte,bit) -> KeyIndex permutation
// encoding the split keyboard's physical wiring, transcribed verbatim from
// the original firmware's prvPollKeysTask.
var cellKeys = [80]int{
	NoKey, NoKey, NoKey, NoKey, NoKey, 0*width + 1, 0*width + 2, 0*width + 3,
	2*width + 4, 1*width + 4, 0*width + 4, 3*width + 5, 2*width + 5, 1*width + 5, 0*width + 5, 4*width + 4,
	3*width + 6, 2*width + 6, 1*width + 6, 0*width + 6, NoKey, 3*width + 4, 4*width + 3, 4*width + 2,
	1*width + 3, 2*width + 3, 3*width + 3, NoKey, 1*width + 2, 2*width + 2, 3*width + 2, 4*width + 1,
	1*width + 1, 2*width + 1, 0*width + 0, 3*width + 1, 1*width + 0, 2*width + 0, 3*width + 0, 4*width + 0,
	1*width + 11, 1*width + 10, 1*width + 9, 1*width + 8, 1*width + 7, 2*width + 11, 2*width + 10, 2*width + 9,
	2*width + 8, 2*width + 7, 3*width + 11, 4*width + 8, NoKey, 4*width + 7, 4*width + 6, 4*width + 5,
	3*width + 7, 3*width + 8, 3*width + 9, 3*width + 10, NoKey, NoKey, NoKey, NoKey,
	NoKey, 0*width + 7, 0*width + 8, 0*width + 9, 0*width + 10, 0*width + 11, ReservedButton, ReservedButton,
	ReservedButton, NoKey, NoKey, NoKey, NoKey, ReservedButton, ReservedButton, ReservedButton,
}

// HoldThreshold is the duration a cell must stay pressed before it is
// considered a hold rather than a tap.
const HoldThreshold = 200 * time.Millisecond

type cellPhase int

const (
	phaseIdle cellPhase = iota
	phasePending
	phaseHolding
)

const (
	triggerPress   = "press"
	triggerRelease = "release"
	triggerTimeout = "timeout"
)

// cell tracks one matrix position's gesture state, only meaningfully
// engaged while its layer has on_hold_bound set; otherwise the poller
// bypasses the state machine entirely and fires PRESS DO/UNDO immediately.
type cell struct {
	key       int
	sm        *stateless.StateMachine
	pressedAt time.Time
}

func (c *cell) inPhase(ctx context.Context, phase cellPhase) bool {
	st, err := c.sm.State(ctx)
	if err != nil {
		return false
	}
	return st.(cellPhase) == phase
}

func newCell(key int) *cell {
	c := &cell{key: key}
	c.sm = stateless.NewStateMachine(phaseIdle)
	c.sm.Configure(phaseIdle).
		Permit(triggerPress, phasePending)
	c.sm.Configure(phasePending).
		OnEntry(func(ctx context.Context, args ...any) error {
			c.pressedAt = time.Now()
			return nil
		}).
		Permit(triggerRelease, phaseIdle).
		Permit(triggerTimeout, phaseHolding)
	c.sm.Configure(phaseHolding).
		Permit(triggerRelease, phaseIdle)
	return c
}

// Poller drives the matrix scan loop.
type Poller struct {
	bus      transport.BusTransport
	busMu    *sync.Mutex
	table    *layer.Table
	state    *runtimestate.State
	q        *queue.Queue
	cells    [80]*cell
	previous [10]byte
	period   time.Duration
}

// New creates a Poller. busMu is the mutex shared with the display task,
// guarding all access to bus.
func New(bus transport.BusTransport, busMu *sync.Mutex, table *layer.Table, state *runtimestate.State, q *queue.Queue, period time.Duration) *Poller {
	p := &Poller{
		bus:    bus,
		busMu:  busMu,
		table:  table,
		state:  state,
		q:      q,
		period: period,
	}
	for i, k := range cellKeys {
		p.cells[i] = newCell(k)
	}
	for i := range p.previous {
		p.previous[i] = 0xFF
	}
	return p
}

// Run blocks, ticking every p.period until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	p.busMu.Lock()
	current, err := p.bus.ReadExpanders()
	p.busMu.Unlock()
	if err != nil {
		obslog.Warnf("matrix: failed to read expanders: %v", err)
		return
	}

	l := p.table.Get(p.state.Layer())
	if l == nil {
		p.previous = current
		return
	}

	now := time.Now()

	// Timeout pass: any cell still holding past the threshold fires HOLD DO.
	for _, c := range p.cells {
		if c.key == NoKey || c.key == ReservedButton {
			continue
		}
		if l.Bound(layer.KeyIndex(c.key), layer.OpHold) && c.inPhase(ctx, phasePending) &&
			now.Sub(c.pressedAt) > HoldThreshold {
			_ = c.sm.FireCtx(ctx, triggerTimeout)
			l.Enqueue(ctx, layer.KeyIndex(c.key), layer.OpHold, action.DO, p.q)
		}
	}

	// Edge-detection pass.
	for i := 0; i < 10; i++ {
		prev := p.previous[i]
		curr := current[i]
		for j := 0; j < 8; j++ {
			if (prev & 1) != (curr & 1) {
				pressed := curr&1 == 0
				idx := i*8 + j
				p.handleEdge(ctx, l, idx, pressed, now)
			}
			prev >>= 1
			curr >>= 1
		}
	}

	p.previous = current
}

func (p *Poller) handleEdge(ctx context.Context, l *layer.Layer, idx int, pressed bool, now time.Time) {
	c := p.cells[idx]
	if c.key == NoKey || c.key == ReservedButton {
		return
	}
	key := layer.KeyIndex(c.key)

	if !l.OnHoldBound() {
		dir := action.UNDO
		if pressed {
			dir = action.DO
		}
		l.Enqueue(ctx, key, layer.OpPress, dir, p.q)
		return
	}

	if pressed {
		_ = c.sm.FireCtx(ctx, triggerPress)
		return
	}

	// Release.
	wasPending := c.inPhase(ctx, phasePending)
	short := wasPending && now.Sub(c.pressedAt) < HoldThreshold
	_ = c.sm.FireCtx(ctx, triggerRelease)

	if short {
		l.Enqueue(ctx, key, layer.OpPress, action.DO, p.q)
		l.Enqueue(ctx, key, layer.OpPress, action.UNDO, p.q)
	} else {
		l.Enqueue(ctx, key, layer.OpHold, action.UNDO, p.q)
	}
}
