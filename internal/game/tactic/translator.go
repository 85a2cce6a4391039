package tactic

import (
	"github.com/jens-ohlsson/bastion/internal/game/actor"
	"github.com/jens-ohlsson/bastion/internal/game/command"
)

// Mode selects how a tactic's attack component is scheduled.
type Mode int

const (
	// ModeFlat emits the whole tactic as one immediate sequence. Used for
	// direct player actions.
	ModeFlat Mode = iota
	// ModeSplit emits the non-attack steps immediately and carries the
	// attack component in Plan.Deferred, to be registered as a one-time
	// phase-start reaction. Used for enemy intents, so the defensive half of
	// a tactic is visible before the player acts while the attack commits
	// only when the enemy phase fires.
	ModeSplit
)

// AttackPlan describes a deferred attack: the tactic it came from and the
// declared source and target, carried as explicit fields rather than a
// packed payload.
type AttackPlan struct {
	Tactic string
	Source actor.ID
	Target actor.ID
	Value  int
}

// Plan is the translation of one tactic for one source/target pair.
type Plan struct {
	// Immediate is the ordered primitive sequence to push now.
	Immediate []command.Command
	// Deferred is the attack component postponed to a later trigger, or nil.
	Deferred *AttackPlan
}

// Empty reports whether the plan carries nothing at all, which is how an
// unknown tactic translates.
func (p Plan) Empty() bool {
	return len(p.Immediate) == 0 && p.Deferred == nil
}

// Translator maps tactic identifiers to primitive sequences. It is pure: it
// never mutates state, only the executor does.
type Translator struct {
	reg *Registry
}

// NewTranslator creates a Translator over the given registry.
//
// Precondition: reg must not be nil.
func NewTranslator(reg *Registry) *Translator {
	if reg == nil {
		panic("tactic.NewTranslator: reg must not be nil")
	}
	return &Translator{reg: reg}
}

// Translate maps a tactic to its primitive sequence for the given source and
// target. An unknown tactic yields an empty Plan, treated by callers as a
// no-op rather than an error. Output length is bounded by the definition.
//
// Self-directed steps (block, charge, heal) apply to source; status steps
// apply to target; the attack component applies to target.
func (t *Translator) Translate(id string, mode Mode, source, target actor.ID) Plan {
	def, ok := t.reg.Get(id)
	if !ok {
		return Plan{}
	}

	var plan Plan
	for _, st := range def.Steps {
		plan.Immediate = append(plan.Immediate, stepCommand(st, source, target))
	}

	if def.DeferredAttack == nil {
		return plan
	}
	atk := command.Command{
		Op:     command.OpAttack,
		Source: source,
		Target: target,
		Value:  def.DeferredAttack.Value,
	}
	switch mode {
	case ModeFlat:
		plan.Immediate = append(plan.Immediate, atk)
	case ModeSplit:
		plan.Deferred = &AttackPlan{
			Tactic: def.ID,
			Source: source,
			Target: target,
			Value:  def.DeferredAttack.Value,
		}
	}
	return plan
}

// AttackCommands returns only the attack component of a tactic, the sub-path
// the reaction engine re-invokes when a deferred-tactic effect fires. A
// tactic without an attack component, or an unknown tactic, yields nil.
func (t *Translator) AttackCommands(id string, source, target actor.ID) []command.Command {
	def, ok := t.reg.Get(id)
	if !ok || def.DeferredAttack == nil {
		return nil
	}
	return []command.Command{{
		Op:     command.OpAttack,
		Source: source,
		Target: target,
		Value:  def.DeferredAttack.Value,
	}}
}

// Describe returns a short intent description for the ledger: what the
// tactic will visibly do when it resolves.
func (t *Translator) Describe(id string) string {
	def, ok := t.reg.Get(id)
	if !ok {
		return ""
	}
	if def.DeferredAttack != nil {
		return def.Name + " (attack)"
	}
	return def.Name
}

func stepCommand(st Step, source, target actor.ID) command.Command {
	switch st.Op {
	case StepBlock:
		return command.Command{Op: command.OpBlock, Source: source, Target: source, Value: st.Value}
	case StepCharge:
		return command.Command{Op: command.OpCharge, Source: source, Target: source, Value: st.Value}
	case StepHeal:
		return command.Command{Op: command.OpHeal, Source: source, Target: source, Value: st.Value}
	case StepStatusAdd:
		return command.Command{Op: command.OpStatusAdd, Source: source, Target: target, Status: st.Status, Duration: st.Duration}
	case StepStatusRemove:
		return command.Command{Op: command.OpStatusRemove, Source: source, Target: target, Status: st.Status}
	default:
		// Validate rejects unknown ops at registration; this is unreachable
		// for registered defs.
		return command.Command{}
	}
}
