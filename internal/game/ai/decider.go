// Package ai implements the enemy decision collaborator: given an enemy and
// its foes, pick the tactic it declares this turn. The pipeline treats the
// decider as an opaque function called once per living enemy per intent
// phase; everything that *executes* the decision lives elsewhere.
package ai

import (
	"github.com/jens-ohlsson/bastion/internal/game/actor"
)

// Decision is one enemy's choice for the turn.
type Decision struct {
	Tactic string
	Target actor.ID
}

// Decider picks a tactic for one enemy.
type Decider interface {
	// Decide returns the tactic the enemy declares against one of foes.
	// foes holds the living opposing actors; it must not be empty.
	Decide(enemy *actor.Actor, foes []*actor.Actor) Decision
}

// Source yields values in [0, n). A local interface keeps deciders
// deterministic under test with a fixed source.
type Source interface {
	Intn(n int) int
}

// weakestFoe returns the living foe with the lowest HP, preferring earlier
// entries on ties.
func weakestFoe(foes []*actor.Actor) *actor.Actor {
	var weakest *actor.Actor
	for _, f := range foes {
		if !f.Alive() {
			continue
		}
		if weakest == nil || f.HP < weakest.HP {
			weakest = f
		}
	}
	return weakest
}
