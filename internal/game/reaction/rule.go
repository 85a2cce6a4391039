// Package reaction implements the condition→effect rule engine driven by the
// executor's event stream. Rules are data, not code: registering,
// unregistering, and resetting the table are the only structural operations,
// and dispatch order is insertion order.
package reaction

import (
	"github.com/jens-ohlsson/bastion/internal/game/actor"
	"github.com/jens-ohlsson/bastion/internal/game/command"
)

// Condition is the structural filter a rule matches against events. The
// event kind is compared exactly; every other filter is opt-in: a nil or
// zero filter matches anything.
type Condition struct {
	Kind command.EventKind
	// Source, when non-nil, requires the event source to match.
	Source *actor.ID
	// Target, when non-nil, requires the event target to match.
	Target *actor.ID
	// MinValue, when > 0, requires the event value to be at least this much.
	MinValue int
	// Op, when non-nil, requires the originating operation to match.
	Op *command.OpCode
}

// Matches reports whether ev satisfies this condition.
func (c Condition) Matches(ev command.Event) bool {
	if ev.Kind != c.Kind {
		return false
	}
	if c.Source != nil && ev.Source != *c.Source {
		return false
	}
	if c.Target != nil && ev.Target != *c.Target {
		return false
	}
	if c.MinValue > 0 && ev.Value < c.MinValue {
		return false
	}
	if c.Op != nil && ev.Op != *c.Op {
		return false
	}
	return true
}

// TargetSelector picks how an effect resolves its target actor.
type TargetSelector int

const (
	// SelectEventSource resolves to the source of the matched event.
	SelectEventSource TargetSelector = iota
	// SelectEventTarget resolves to the target of the matched event.
	SelectEventTarget
	// SelectLiteral resolves to SymbolicTarget.ID.
	SelectLiteral
)

// SymbolicTarget names an effect target symbolically; it is resolved against
// the matched event at fire time.
type SymbolicTarget struct {
	Select TargetSelector
	ID     actor.ID
}

// EventSource returns a SymbolicTarget resolving to the event's source.
func EventSource() SymbolicTarget { return SymbolicTarget{Select: SelectEventSource} }

// EventTarget returns a SymbolicTarget resolving to the event's target.
func EventTarget() SymbolicTarget { return SymbolicTarget{Select: SelectEventTarget} }

// Literal returns a SymbolicTarget resolving to the given actor.
func Literal(id actor.ID) SymbolicTarget { return SymbolicTarget{Select: SelectLiteral, ID: id} }

// Resolve maps the symbolic target to a concrete actor for the given event.
func (s SymbolicTarget) Resolve(ev command.Event) actor.ID {
	switch s.Select {
	case SelectEventSource:
		return ev.Source
	case SelectEventTarget:
		return ev.Target
	default:
		return s.ID
	}
}

// EffectKind identifies what a fired rule does.
type EffectKind int

const (
	// EffectDamage deals reflected damage to the resolved target.
	EffectDamage EffectKind = iota
	// EffectHeal heals the resolved target.
	EffectHeal
	// EffectBlock grants block to the resolved target.
	EffectBlock
	// EffectCharge grants charge to the resolved target.
	EffectCharge
	// EffectStatusAdd applies a status to the resolved target.
	EffectStatusAdd
	// EffectStatusRemove clears a status from the resolved target.
	EffectStatusRemove
	// EffectDeferredTactic resolves the attack component of a declared
	// tactic, re-entering the translator's attack-only sub-path.
	EffectDeferredTactic
)

// Effect is what happens when a rule's condition matches. Payload fields are
// explicit per kind: Value for numeric effects, Status+Duration for status
// effects, Tactic+TacticTarget for the deferred-tactic effect.
type Effect struct {
	Kind     EffectKind
	Target   SymbolicTarget
	Value    int
	Status   string
	Duration int
	// Tactic is the declared tactic whose attack component fires.
	Tactic string
	// TacticTarget is the declared target of that attack.
	TacticTarget actor.ID
}

// Rule pairs one condition with one effect. A rule with Once set fires at
// most one time per combat; exhaustion is tracked by rule ID.
type Rule struct {
	ID        string
	Condition Condition
	Effect    Effect
	Once      bool
}
