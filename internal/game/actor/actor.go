// Package actor implements the fixed-capacity combatant pool the resolution
// pipeline mutates. Actors are allocated once per combat and deactivated via
// the death cascade; they are never freed individually.
package actor

import (
	"github.com/jens-ohlsson/bastion/internal/game/status"
)

// Kind distinguishes player combatants from enemy combatants.
type Kind int

const (
	KindPlayer Kind = iota
	KindEnemy
)

// String returns a human-readable kind label.
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// ID identifies one actor within a single combat's pool.
type ID uint8

// Actor represents one participant in a combat.
// Invariants: 0 <= HP <= MaxHP; 0 <= Block <= ceiling; 0 <= Charge <= ceiling.
// All mutation happens through the command executor; everything else reads.
type Actor struct {
	ID       ID
	Kind     Kind
	Name     string
	MaxHP    int
	HP       int
	Block    int // per-turn armor, zeroed at every turn end
	Charge   int // consumed in full by the next qualifying action
	Statuses *status.ActiveSet

	alive bool
}

// Alive reports whether this actor is still in active enumeration.
func (a *Actor) Alive() bool { return a.alive }

// CanAct reports whether this actor may perform actions: alive and not
// restricted by any active status.
func (a *Actor) CanAct() bool {
	return a.alive && !a.Statuses.Restricted()
}

// ConsumeCharge zeroes the actor's charge and returns the consumed amount.
// A second immediate call returns 0.
//
// Postcondition: Charge == 0; returns the prior charge value.
func (a *Actor) ConsumeCharge() int {
	c := a.Charge
	a.Charge = 0
	return c
}
