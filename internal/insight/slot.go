package insight

import "sync"

// Slot holds the latest outcome for one report view. Each Begin issues a new
// generation; Complete only lands if its generation is still the newest, so
// a slow earlier request cannot overwrite a later one.
type Slot struct {
	mu      sync.Mutex
	gen     uint64
	state   State
	outcome Outcome
}

// Begin marks a new request in flight and returns its generation.
func (s *Slot) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.state = StateRequesting
	return s.gen
}

// Complete stores o if gen is still current and reports whether it did.
func (s *Slot) Complete(gen uint64, o Outcome) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.state = o.State
	s.outcome = o
	return true
}

// Reset returns the slot to idle and invalidates any request in flight.
func (s *Slot) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.state = StateIdle
	s.outcome = Outcome{}
}

// Current returns the slot state and the last landed outcome.
func (s *Slot) Current() (State, Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == "" {
		return StateIdle, s.outcome
	}
	return s.state, s.outcome
}
