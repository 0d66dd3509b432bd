// Package runtimestate holds the two cross-goroutine variables the
// concurrency model names outside the message queue: the currently active
// LayerId and the single-shot hidSendComplete flag. Both are single-writer,
// lock-free-read, mirroring the word-atomic integer loads the original
// firmware relies on for the same variables on its target platform.
package runtimestate

import "sync/atomic"

// State is the shared, atomically-guarded runtime state read by the matrix
// poller and written by the report assembler.
type State struct {
	layer           atomic.Uint32
	hidSendComplete atomic.Bool
}

// New creates a State with hidSendComplete initialized true (the HID stack
// starts ready to accept a report) and layer set to base.
func New(base uint32) *State {
	s := &State{}
	s.layer.Store(base)
	s.hidSendComplete.Store(true)
	return s
}

func (s *State) Layer() uint32 { return s.layer.Load() }
func (s *State) SetLayer(id uint32) { s.layer.Store(id) }

func (s *State) HidSendComplete() bool { return s.hidSendComplete.Load() }
func (s *State) SetHidSendComplete(v bool) { s.hidSendComplete.Store(v) }
