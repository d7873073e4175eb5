// Package debounce coalesces bursts of triggers into a single delayed action.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period used for search input
const DefaultDelay = 400 * time.Millisecond

// Scheduler runs at most one pending action. Re-arming replaces the pending action
// and restarts the countdown.
type Scheduler struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// New creates an idle scheduler
func New() *Scheduler {
	return &Scheduler{}
}

// Arm cancels any pending action and schedules action to run after delay.
// Of several Arm calls with no fire in between, only the last action runs.
func (s *Scheduler) Arm(delay time.Duration, action func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	gen := s.gen
	s.timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		// A Stop that lost the race with the runtime leaves us here; the generation
		// tells us whether this timer is still the armed one.
		if gen != s.gen {
			s.mu.Unlock()
			return
		}
		s.timer = nil
		s.gen++
		s.mu.Unlock()

		action()
	})
}

// Cancel discards the pending action, if any
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Pending reports whether an action is armed and has not fired yet
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

func (s *Scheduler) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}
