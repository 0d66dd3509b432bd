package supervisor

import (
	"sync"

	"github.com/google/uuid"
)

// Status is the diagnostics surface: the last keymap compile error, the
// live layer name, the dropped-message counter, and the boot session id
// that the supervisor's boot and pipeline-start log lines carry.
type Status struct {
	mu              sync.Mutex
	lastError       string
	currentLayer    string
	droppedMessages uint64
	bootID          uuid.UUID
}

// NewStatus creates a Status stamped with a fresh boot id.
func NewStatus() *Status {
	return &Status{bootID: uuid.New()}
}

func (s *Status) BootID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bootID
}

// SetLastError records err; only the most recent error is kept, matching
// the original firmware's single parse_status string.
func (s *Status) SetLastError(err string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = err
}

func (s *Status) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

func (s *Status) SetCurrentLayer(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentLayer = name
}

func (s *Status) CurrentLayer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLayer
}

// MessageDropped bumps the dropped-message counter; wired as the queue's
// drop callback.
func (s *Status) MessageDropped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.droppedMessages++
}

func (s *Status) DroppedMessages() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.droppedMessages
}
