package actor

import (
	"fmt"

	"github.com/jens-ohlsson/bastion/internal/game/status"
)

// Expiry records one status that expired during an end-of-turn pass.
type Expiry struct {
	Actor  ID
	Status string
}

// Store is a fixed-capacity pool of actors for one combat.
// It is not safe for concurrent use; exactly one logical thread of control
// touches a combat's store at a time.
type Store struct {
	capacity int
	actors   []*Actor
}

// NewStore creates an empty Store with the given fixed capacity.
//
// Precondition: capacity must be 1-256.
func NewStore(capacity int) *Store {
	if capacity < 1 || capacity > 256 {
		panic(fmt.Sprintf("actor.NewStore: capacity must be 1-256, got %d", capacity))
	}
	return &Store{capacity: capacity, actors: make([]*Actor, 0, capacity)}
}

// Allocate creates a new living actor and returns its ID.
// Exhausting the pool is a configuration error, not a combat event: the
// returned error is the one fatal condition in the pipeline's error taxonomy.
//
// Precondition: maxHP must be >= 1.
// Postcondition: On success the actor is alive with HP == maxHP and zero
// block/charge, and IDs are assigned in allocation order starting at 0.
func (s *Store) Allocate(kind Kind, name string, maxHP int) (ID, error) {
	if maxHP < 1 {
		return 0, fmt.Errorf("actor: maxHP must be >= 1, got %d", maxHP)
	}
	if len(s.actors) >= s.capacity {
		return 0, fmt.Errorf("actor: pool capacity %d exceeded", s.capacity)
	}
	a := &Actor{
		ID:       ID(len(s.actors)),
		Kind:     kind,
		Name:     name,
		MaxHP:    maxHP,
		HP:       maxHP,
		Statuses: status.NewActiveSet(),
		alive:    true,
	}
	s.actors = append(s.actors, a)
	return a.ID, nil
}

// Get returns the actor with the given ID, dead or alive.
//
// Postcondition: Returns (actor, true) if id was ever allocated, (nil, false) otherwise.
func (s *Store) Get(id ID) (*Actor, bool) {
	if int(id) >= len(s.actors) {
		return nil, false
	}
	return s.actors[int(id)], true
}

// IsAlive reports whether id names a living actor.
func (s *Store) IsAlive(id ID) bool {
	a, ok := s.Get(id)
	return ok && a.alive
}

// CanAct reports whether id names a living actor able to act.
func (s *Store) CanAct(id ID) bool {
	a, ok := s.Get(id)
	return ok && a.CanAct()
}

// ByKind returns the IDs of all living actors of the given kind, in
// allocation order.
func (s *Store) ByKind(kind Kind) []ID {
	var ids []ID
	for _, a := range s.actors {
		if a.alive && a.Kind == kind {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// Living returns the number of living actors of the given kind.
func (s *Store) Living(kind Kind) int {
	n := 0
	for _, a := range s.actors {
		if a.alive && a.Kind == kind {
			n++
		}
	}
	return n
}

// EndOfTurn runs the end-of-turn pass over all living actors: block is zeroed
// and status durations tick down, dropping expired statuses.
//
// Postcondition: Every living actor has Block == 0; returned expiries name
// statuses that are no longer active.
func (s *Store) EndOfTurn() []Expiry {
	var expired []Expiry
	for _, a := range s.actors {
		if !a.alive {
			continue
		}
		a.Block = 0
		for _, id := range a.Statuses.Tick() {
			expired = append(expired, Expiry{Actor: a.ID, Status: id})
		}
	}
	return expired
}

// Remove deactivates the actor with the given ID, resetting its combat state.
// Removing an already-removed or unknown actor is a no-op.
//
// Postcondition: IsAlive(id) is false.
func (s *Store) Remove(id ID) {
	a, ok := s.Get(id)
	if !ok || !a.alive {
		return
	}
	a.alive = false
	a.HP = 0
	a.Block = 0
	a.Charge = 0
	a.Statuses.Clear()
}

// Reset empties the pool.
//
// Postcondition: Len() == 0; previously returned IDs are invalid.
func (s *Store) Reset() {
	s.actors = s.actors[:0]
}

// Len returns the number of allocated actors, dead or alive.
func (s *Store) Len() int {
	return len(s.actors)
}
