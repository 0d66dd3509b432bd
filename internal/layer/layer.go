// Package layer implements a single keymap layer's key bindings and the
// table of all loaded layers, grounded on the original firmware's
// include/layer.h and src/layer.cc.
package layer

import (
	"context"

	"github.com/mirage-fw/core/internal/action"
	"github.com/mirage-fw/core/internal/layerid"
	"github.com/mirage-fw/core/internal/obslog"
	"github.com/mirage-fw/core/internal/queue"
)

// KeyIndex is a flattened row*12+key index into a layer's bindings (12 is
// the physical column count).
type KeyIndex int

// Layer holds one keymap's bindings: a flattened key index to
// operation-to-action table, insert-only per key+operation pair.
type Layer struct {
	name                      string
	id                        uint32
	onHoldBound               bool
	unassignedKeysFallThrough bool
	bindings                  map[KeyIndex]map[Operation]action.BoundAction
}

// Operation mirrors parse.Operation without importing the dsl packages, so
// this package has no dependency on the DSL front end.
type Operation int

const (
	OpPress Operation = iota
	OpClick
	OpHold
	OpDoubleClick
	OpRelease
)

// New creates an empty Layer with the given name; its LayerId is computed
// from the name via internal/layerid.
func New(name string) *Layer {
	return &Layer{
		name:     name,
		id:       layerid.Hash(name),
		bindings: make(map[KeyIndex]map[Operation]action.BoundAction),
	}
}

func (l *Layer) Name() string { return l.name }
func (l *Layer) ID() uint32 { return l.id }
func (l *Layer) OnHoldBound() bool { return l.onHoldBound }

func (l *Layer) UnassignedKeysFallThrough() bool { return l.unassignedKeysFallThrough }
func (l *Layer) SetUnassignedKeysFallThrough(v bool) { l.unassignedKeysFallThrough = v }

// Bound reports whether key has a binding for operation.
func (l *Layer) Bound(key KeyIndex, op Operation) bool {
	ops, ok := l.bindings[key]
	if !ok {
		return false
	}
	_, ok = ops[op]
	return ok
}

// Bind registers act for (key, op). Insert-only: a key+operation pair that
// already has a binding keeps its original action. This faithfully
// preserves the original's use of unordered_map::insert for both the outer
// and inner maps — a deliberate non-replace behavior, not a bug fix
// candidate (see the DESIGN.md Open Question resolution).
func (l *Layer) Bind(key KeyIndex, op Operation, act action.BoundAction) {
	if op == OpHold {
		l.onHoldBound = true
	}

	ops, ok := l.bindings[key]
	if !ok {
		l.bindings[key] = map[Operation]action.BoundAction{op: act}
		return
	}
	if _, exists := ops[op]; exists {
		return
	}
	ops[op] = act
}

// Enqueue fires the bound action for (key, op) in direction dir, logging
// diagnostics the way the original's printf calls did, routed through
// obslog instead.
func (l *Layer) Enqueue(ctx context.Context, key KeyIndex, op Operation, dir action.Direction, q *queue.Queue) {
	obslog.Debugf("firing action: layer=%s key=%d op=%d", l.name, key, op)

	ops, ok := l.bindings[key]
	if !ok {
		obslog.Debugf("unbound key: layer=%s key=%d", l.name, key)
		return
	}
	act, ok := ops[op]
	if !ok {
		obslog.Debugf("unbound operation: layer=%s key=%d op=%d", l.name, key, op)
		return
	}

	obslog.Debugf("%s", act.Print())
	act.Enqueue(ctx, dir, q)
}

// Table is the set of all loaded layers, keyed by LayerId.
type Table struct {
	layers map[uint32]*Layer
}

// NewTable creates an empty layer table.
func NewTable() *Table {
	return &Table{layers: make(map[uint32]*Layer)}
}

// Add registers l under its own LayerId.
func (t *Table) Add(l *Layer) {
	t.layers[l.ID()] = l
}

// Get returns the layer for id, or nil if none is loaded.
func (t *Table) Get(id uint32) *Layer {
	return t.layers[id]
}

// Base returns the distinguished "BaseLayer", or nil if it hasn't been
// loaded.
func (t *Table) Base() *Layer {
	return t.layers[layerid.BaseLayer]
}
