package run

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Scheduler manages concurrently scheduled runs for a host. Each run keeps
// its own isolated Context, diagnostics and environment chain; the Scheduler
// only tracks identities and cancellation handles.
type Scheduler struct {
	mu      sync.Mutex
	cancels map[uuid.UUID]context.CancelFunc
}

// NewScheduler creates a Scheduler with no runs.
func NewScheduler() *Scheduler {
	return &Scheduler{cancels: make(map[uuid.UUID]context.CancelFunc)}
}

// Start schedules a run of the source text and returns its identity and a
// channel that delivers the run's single terminal outcome.
func (s *Scheduler) Start(src string, cfg Config) (uuid.UUID, <-chan Outcome) {
	id := uuid.New()
	parent := cfg.Ctx
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	cfg.Ctx = ctx

	s.mu.Lock()
	s.cancels[id] = cancel
	s.mu.Unlock()

	out := make(chan Outcome, 1)
	go func() {
		defer func() {
			cancel()
			s.mu.Lock()
			delete(s.cancels, id)
			s.mu.Unlock()
		}()
		out <- runWithID(id, src, cfg)
	}()
	return id, out
}

// Cancel requests cancellation of a running run. It reports whether the run
// was still tracked; the cancellation itself takes effect at the run's next
// suspension point.
func (s *Scheduler) Cancel(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cancel, ok := s.cancels[id]
	if ok {
		cancel()
	}
	return ok
}

// Running returns the number of runs that have not reached their outcome.
func (s *Scheduler) Running() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cancels)
}
