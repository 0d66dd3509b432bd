// Package action implements the closed BoundAction variant family and its
// DO/UNDO dispatch to the message queue, grounded on the original firmware's
// actions.h/actions.cc, reexpressed as a Go interface + small variant
// structs instead of a class hierarchy.
package action

import (
	"context"

	"github.com/mirage-fw/core/internal/queue"
)

// Direction selects which half of a binding's behavior fires.
type Direction int

const (
	DO Direction = iota
	UNDO
)

// KeysMode distinguishes the four flavors of a Keys action.
type KeysMode int

const (
	KeysGeneric KeysMode = iota
	KeysPress
	KeysRelease
	KeysClick
)

// LayerOpKind distinguishes the five flavors of a LayerOp action.
type LayerOpKind int

const (
	LayerSwitchTo LayerOpKind = iota
	LayerTemporary
	LayerLeave
	LayerToggle
	LayerHome
)

// MouseAxis distinguishes the two axes a MouseMove/MouseScroll action moves.
type MouseAxis int

const (
	AxisUpDown MouseAxis = iota
	AxisLeftRight
)

// BoundAction is the shared behavior every action variant implements:
// diagnostic printing, DO/UNDO dispatch to the queue, and structural
// equality (tag-first, then field-wise; no cross-variant equality).
type BoundAction interface {
	Print() string
	Enqueue(ctx context.Context, dir Direction, q *queue.Queue)
	Equal(other BoundAction) bool
}

func enqueueAll(ctx context.Context, q *queue.Queue, msgs ...queue.Message) {
	for _, m := range msgs {
		q.Enqueue(ctx, m)
	}
}
