package reaction

import (
	"go.uber.org/zap"

	"github.com/jens-ohlsson/bastion/internal/game/actor"
	"github.com/jens-ohlsson/bastion/internal/game/command"
	"github.com/jens-ohlsson/bastion/internal/game/status"
)

// CommandSink receives the primitives a fired effect produces. Effects never
// execute synchronously: deferring through the queue preserves the
// cascade-via-queue ordering invariant.
type CommandSink interface {
	Defer(cmd command.Command)
}

// TacticResolver is the translator sub-path a deferred-tactic effect
// re-invokes. A local interface avoids a package cycle with the translator.
type TacticResolver interface {
	AttackCommands(id string, source, target actor.ID) []command.Command
}

// Engine is the condition→effect rule table for one combat.
// Not safe for concurrent use; a combat has one thread of control.
type Engine struct {
	rules    []Rule
	consumed map[string]struct{}

	sink     CommandSink
	store    *actor.Store
	statuses *status.Registry
	resolver TacticResolver
	logger   *zap.Logger
}

// NewEngine creates an empty rule table wired to its collaborators.
//
// Precondition: sink, store, statuses, resolver, and logger must not be nil.
func NewEngine(sink CommandSink, store *actor.Store, statuses *status.Registry, resolver TacticResolver, logger *zap.Logger) *Engine {
	if sink == nil || store == nil || statuses == nil || resolver == nil || logger == nil {
		panic("reaction.NewEngine: all collaborators must not be nil")
	}
	return &Engine{
		consumed: make(map[string]struct{}),
		sink:     sink,
		store:    store,
		statuses: statuses,
		resolver: resolver,
		logger:   logger,
	}
}

// Register appends r to the rule table. Ordering is insertion order; there is
// no priority. Re-registering an ID that was consumed clears its exhaustion.
func (e *Engine) Register(r Rule) {
	delete(e.consumed, r.ID)
	e.rules = append(e.rules, r)
}

// Unregister removes the rule with the given ID, preserving the order of the
// remaining rules. Unknown IDs are a no-op.
func (e *Engine) Unregister(id string) {
	for i, r := range e.rules {
		if r.ID == id {
			e.rules = append(e.rules[:i], e.rules[i+1:]...)
			return
		}
	}
}

// Reset clears the rule table and the consumed set.
func (e *Engine) Reset() {
	e.rules = e.rules[:0]
	e.consumed = make(map[string]struct{})
}

// Len returns the number of registered rules, exhausted ones included.
func (e *Engine) Len() int {
	return len(e.rules)
}

// Emit implements command.Sink by dispatching the event through Trigger.
func (e *Engine) Emit(ev command.Event) {
	e.Trigger(ev)
}

// Trigger iterates the rule table once in insertion order, applying the
// effect of every non-exhausted rule whose condition matches ev, and marks
// one-time rules exhausted. Rules registered by a firing effect are not
// visited in the same pass. Returns the number of rules fired.
func (e *Engine) Trigger(ev command.Event) int {
	fired := 0
	n := len(e.rules)
	for i := 0; i < n; i++ {
		r := e.rules[i]
		if _, done := e.consumed[r.ID]; done && r.Once {
			continue
		}
		if !r.Condition.Matches(ev) {
			continue
		}
		if r.Once {
			e.consumed[r.ID] = struct{}{}
		}
		e.apply(r, ev)
		fired++
	}
	return fired
}

// apply executes one rule effect. Numeric effects push freshly built
// primitives; status effects mutate the actor store directly; the
// deferred-tactic effect re-enters the translator.
func (e *Engine) apply(r Rule, ev command.Event) {
	target := r.Effect.Target.Resolve(ev)

	switch r.Effect.Kind {
	case EffectDamage:
		// Reflected damage: the event's target strikes back at the
		// resolved actor.
		e.sink.Defer(command.Command{
			Op:     command.OpDeflect,
			Source: ev.Target,
			Target: target,
			Value:  r.Effect.Value,
		})
	case EffectHeal:
		e.sink.Defer(command.Command{
			Op:     command.OpHeal,
			Source: ev.Target,
			Target: target,
			Value:  r.Effect.Value,
		})
	case EffectBlock:
		e.sink.Defer(command.Command{
			Op:     command.OpBlock,
			Source: target,
			Target: target,
			Value:  r.Effect.Value,
		})
	case EffectCharge:
		e.sink.Defer(command.Command{
			Op:     command.OpCharge,
			Source: target,
			Target: target,
			Value:  r.Effect.Value,
		})
	case EffectStatusAdd:
		e.applyStatus(r, target)
	case EffectStatusRemove:
		if a, ok := e.store.Get(target); ok && a.Alive() {
			a.Statuses.Remove(r.Effect.Status)
		}
	case EffectDeferredTactic:
		cmds := e.resolver.AttackCommands(r.Effect.Tactic, ev.Source, r.Effect.TacticTarget)
		if len(cmds) == 0 {
			e.logger.Warn("deferred tactic resolved to nothing",
				zap.String("rule", r.ID),
				zap.String("tactic", r.Effect.Tactic))
			return
		}
		for _, cmd := range cmds {
			e.sink.Defer(cmd)
		}
	}
}

func (e *Engine) applyStatus(r Rule, target actor.ID) {
	a, ok := e.store.Get(target)
	if !ok || !a.Alive() {
		return
	}
	def, ok := e.statuses.Get(r.Effect.Status)
	if !ok {
		e.logger.Warn("rule effect names unknown status",
			zap.String("rule", r.ID),
			zap.String("status", r.Effect.Status))
		return
	}
	if err := a.Statuses.Apply(def, r.Effect.Duration); err != nil {
		e.logger.Warn("rule status apply failed",
			zap.String("rule", r.ID),
			zap.Error(err))
	}
}
