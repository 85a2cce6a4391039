package status

import "fmt"

// Active tracks one applied status on an actor.
type Active struct {
	Def       *Def
	Remaining int // turns left; decremented by Tick, removed at 0
}

// ActiveSet tracks all statuses currently applied to one actor.
// It is not safe for concurrent use; the caller must serialise access.
type ActiveSet struct {
	active map[string]*Active
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{active: make(map[string]*Active)}
}

// Apply adds or refreshes a status on this actor. Durations never stack
// additively: re-applying keeps the longer of the existing and new duration.
//
// Precondition: def must not be nil; duration must be >= 1.
// Postcondition: Has(def.ID) is true; Remaining(def.ID) == max(existing, duration).
func (s *ActiveSet) Apply(def *Def, duration int) error {
	if def == nil {
		return fmt.Errorf("Apply: def must not be nil")
	}
	if duration < 1 {
		return fmt.Errorf("Apply: duration must be >= 1, got %d", duration)
	}

	if existing, ok := s.active[def.ID]; ok {
		if duration > existing.Remaining {
			existing.Remaining = duration
		}
		return nil
	}
	s.active[def.ID] = &Active{Def: def, Remaining: duration}
	return nil
}

// Remove deletes the status with the given ID from the set.
// If the status is not present, Remove is a no-op.
//
// Postcondition: Has(id) is false.
func (s *ActiveSet) Remove(id string) {
	delete(s.active, id)
}

// Tick decrements the Remaining duration of every active status by 1.
// Statuses that reach 0 are removed and reported.
//
// Postcondition: For every id in the returned slice, Has(id) is false.
func (s *ActiveSet) Tick() []string {
	var expired []string
	// Deleting map entries during range iteration is safe per the Go specification.
	for id, a := range s.active {
		a.Remaining--
		if a.Remaining <= 0 {
			expired = append(expired, id)
			delete(s.active, id)
		}
	}
	return expired
}

// Clear removes every active status.
func (s *ActiveSet) Clear() {
	s.active = make(map[string]*Active)
}

// Has reports whether the status with id is currently active.
func (s *ActiveSet) Has(id string) bool {
	_, ok := s.active[id]
	return ok
}

// Remaining returns the turns left for status id, or 0 if not present.
func (s *ActiveSet) Remaining(id string) int {
	if a, ok := s.active[id]; ok {
		return a.Remaining
	}
	return 0
}

// Len returns the number of active statuses.
func (s *ActiveSet) Len() int {
	return len(s.active)
}

// All returns a slice of pointers to the active statuses.
// The slice itself is a new allocation, but the pointed-to Active values are
// shared; callers must not modify them.
func (s *ActiveSet) All() []*Active {
	out := make([]*Active, 0, len(s.active))
	for _, a := range s.active {
		out = append(out, a)
	}
	return out
}

// Restricted reports whether any active status prevents the bearer from acting.
func (s *ActiveSet) Restricted() bool {
	for _, a := range s.active {
		if a.Def.RestrictsAction {
			return true
		}
	}
	return false
}
