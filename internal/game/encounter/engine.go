package encounter

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Engine manages all active encounters, keyed by encounter ID.
// All methods are safe for concurrent use; each encounter itself remains
// single-threaded and must be driven from one goroutine.
type Engine struct {
	mu         sync.RWMutex
	encounters map[uuid.UUID]*Encounter
}

// NewEngine creates an empty encounter Engine.
//
// Postcondition: Returns a non-nil Engine ready for use.
func NewEngine() *Engine {
	return &Engine{encounters: make(map[uuid.UUID]*Encounter)}
}

// Start assembles a new encounter and registers it.
//
// Postcondition: Returns the new Encounter or an assembly error.
func (e *Engine) Start(params Params) (*Encounter, error) {
	enc, err := New(params)
	if err != nil {
		return nil, fmt.Errorf("starting encounter: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.encounters[enc.ID()] = enc
	return enc, nil
}

// Get returns the encounter with the given ID.
//
// Postcondition: Returns (encounter, true) if found, or (nil, false) otherwise.
func (e *Engine) Get(id uuid.UUID) (*Encounter, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	enc, ok := e.encounters[id]
	return enc, ok
}

// End removes the encounter record for id.
func (e *Engine) End(id uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.encounters, id)
}

// Len returns the number of active encounters.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.encounters)
}
