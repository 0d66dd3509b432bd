package layer

import (
	"context"
	"testing"

	"github.com/mirage-fw/core/internal/action"
	"github.com/mirage-fw/core/internal/layerid"
	"github.com/mirage-fw/core/internal/queue"
	"time"
)

func TestNewLayerID(t *testing.T) {
	l := New("BaseLayer")
	if l.ID() != layerid.BaseLayer {
		t.Fatalf("got %#x want %#x", l.ID(), layerid.BaseLayer)
	}
}

func TestBindAndBound(t *testing.T) {
	l := New("Test")
	act := &action.Keys{Mode: action.KeysPress, Keycodes: []byte{0x04}}
	l.Bind(5, OpPress, act)

	if !l.Bound(5, OpPress) {
		t.Fatalf("expected key 5/OpPress to be bound")
	}
	if l.Bound(5, OpHold) {
		t.Fatalf("expected key 5/OpHold to be unbound")
	}
	if l.Bound(6, OpPress) {
		t.Fatalf("expected key 6 to be unbound")
	}
}

func TestBindInsertOnly(t *testing.T) {
	l := New("Test")
	first := &action.Keys{Mode: action.KeysPress, Keycodes: []byte{0x04}}
	second := &action.Keys{Mode: action.KeysPress, Keycodes: []byte{0x05}}

	l.Bind(1, OpPress, first)
	l.Bind(1, OpPress, second)

	q := queue.New(4, time.Millisecond, 1, nil)
	l.Enqueue(context.Background(), 1, OpPress, action.DO, q)

	msg, ok := q.TryDequeue()
	if !ok {
		t.Fatalf("expected an enqueued message")
	}
	if msg.Codes[0] != 0x04 {
		t.Fatalf("expected the first bind to win (insert-only), got code %#x", msg.Codes[0])
	}
}

func TestBindSetsOnHoldBound(t *testing.T) {
	l := New("Test")
	if l.OnHoldBound() {
		t.Fatalf("fresh layer should not have on_hold_bound set")
	}
	l.Bind(1, OpHold, &action.Keys{Mode: action.KeysPress, Keycodes: []byte{0x04}})
	if !l.OnHoldBound() {
		t.Fatalf("expected on_hold_bound to be set after an OpHold bind")
	}
}

func TestEnqueueUnboundKeyIsNoop(t *testing.T) {
	l := New("Test")
	q := queue.New(4, time.Millisecond, 1, nil)
	l.Enqueue(context.Background(), 99, OpPress, action.DO, q)

	if _, ok := q.TryDequeue(); ok {
		t.Fatalf("expected no message for an unbound key")
	}
}

func TestTableGetAndBase(t *testing.T) {
	tbl := NewTable()
	base := New(layerid.BaseLayerName)
	other := New("Symbols")
	tbl.Add(base)
	tbl.Add(other)

	if tbl.Base() != base {
		t.Fatalf("expected Base() to return the BaseLayer layer")
	}
	if tbl.Get(other.ID()) != other {
		t.Fatalf("expected Get(other.ID()) to return other")
	}
	if tbl.Get(0xDEADBEEF) != nil {
		t.Fatalf("expected Get of an unknown id to return nil")
	}
}
