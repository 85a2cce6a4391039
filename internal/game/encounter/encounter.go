// Package encounter assembles the resolution pipeline for one combat (actor
// pool, command queue and executor, translator, reaction table, intent
// ledger, and phase machine) as explicitly owned state, so multiple
// independent combats can run side by side with no hidden globals.
package encounter

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jens-ohlsson/bastion/internal/config"
	"github.com/jens-ohlsson/bastion/internal/game/actor"
	"github.com/jens-ohlsson/bastion/internal/game/ai"
	"github.com/jens-ohlsson/bastion/internal/game/command"
	"github.com/jens-ohlsson/bastion/internal/game/phase"
	"github.com/jens-ohlsson/bastion/internal/game/reaction"
	"github.com/jens-ohlsson/bastion/internal/game/status"
	"github.com/jens-ohlsson/bastion/internal/game/tactic"
)

// Member describes one combatant to allocate at combat start.
type Member struct {
	Kind  actor.Kind
	Name  string
	MaxHP int
}

// Params carries everything needed to assemble one encounter.
type Params struct {
	Combat   config.CombatConfig
	Statuses *status.Registry
	Tactics  *tactic.Registry
	Decider  ai.Decider
	Logger   *zap.Logger
	Roster   []Member
}

// Encounter owns the full pipeline state for one combat.
type Encounter struct {
	id        uuid.UUID
	store     *actor.Store
	exec      *command.Executor
	reactions *reaction.Engine
	machine   *phase.Machine
	logger    *zap.Logger
}

// New assembles an Encounter from params, allocating the roster into a fresh
// actor pool.
//
// Precondition: params.Statuses, Tactics, Decider, and Logger must not be
// nil; the roster must contain at least one player and one enemy.
// Postcondition: Returns a ready Encounter at turn 1, enemy intent phase, or
// an error (pool exhaustion is fatal by design).
func New(params Params) (*Encounter, error) {
	if params.Statuses == nil || params.Tactics == nil || params.Decider == nil || params.Logger == nil {
		return nil, fmt.Errorf("encounter: statuses, tactics, decider, and logger must not be nil")
	}
	players, enemies := 0, 0
	for _, m := range params.Roster {
		switch m.Kind {
		case actor.KindPlayer:
			players++
		case actor.KindEnemy:
			enemies++
		}
	}
	if players == 0 || enemies == 0 {
		return nil, fmt.Errorf("encounter: roster needs at least one player and one enemy, got %d/%d", players, enemies)
	}

	id := uuid.New()
	logger := params.Logger.With(zap.String("encounter", id.String()))

	store := actor.NewStore(params.Combat.PoolCapacity)
	for _, m := range params.Roster {
		if _, err := store.Allocate(m.Kind, m.Name, m.MaxHP); err != nil {
			return nil, fmt.Errorf("encounter: allocating %q: %w", m.Name, err)
		}
	}

	queue := command.NewQueue()
	exec := command.NewExecutor(store, params.Statuses, queue, command.Constants{
		ChargeBonusPerPoint: params.Combat.ChargeBonusPerPoint,
		BlockCeiling:        params.Combat.BlockCeiling,
		ChargeCeiling:       params.Combat.ChargeCeiling,
	}, logger)

	translator := tactic.NewTranslator(params.Tactics)
	reactions := reaction.NewEngine(queue, store, params.Statuses, translator, logger)
	exec.SetSink(reactions)

	machine := phase.NewMachine(store, exec, translator, reactions, params.Decider, phase.NewLedger(), logger)

	return &Encounter{
		id:        id,
		store:     store,
		exec:      exec,
		reactions: reactions,
		machine:   machine,
		logger:    logger,
	}, nil
}

// ID returns the encounter's unique identifier.
func (e *Encounter) ID() uuid.UUID { return e.id }

// Store returns the actor pool for inspection.
func (e *Encounter) Store() *actor.Store { return e.store }

// Reactions returns the reaction rule table, for registering combat-wide
// rules (relics, auras) before driving the machine.
func (e *Encounter) Reactions() *reaction.Engine { return e.reactions }

// Machine returns the phase machine.
func (e *Encounter) Machine() *phase.Machine { return e.machine }

// Advance performs one sub-step transition of the turn cycle.
func (e *Encounter) Advance() phase.AdvanceResult { return e.machine.Advance() }

// SetPlayerAction supplies the player input the machine is suspended on.
func (e *Encounter) SetPlayerAction(tacticID string, target actor.ID) error {
	return e.machine.SetPlayerAction(tacticID, target)
}

// Over reports whether the combat has ended and with what outcome.
func (e *Encounter) Over() (bool, phase.Outcome) { return e.machine.Over() }
