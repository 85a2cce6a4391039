package reaction_test

import (
	"testing"

	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/jens-ohlsson/bastion/internal/game/actor"
	"github.com/jens-ohlsson/bastion/internal/game/command"
	"github.com/jens-ohlsson/bastion/internal/game/reaction"
	"github.com/jens-ohlsson/bastion/internal/game/status"
	"github.com/jens-ohlsson/bastion/internal/game/tactic"
)

// recordingSink captures deferred commands in arrival order.
type recordingSink struct {
	deferred []command.Command
}

func (s *recordingSink) Defer(cmd command.Command) { s.deferred = append(s.deferred, cmd) }

func newFixture(t *testing.T) (*reaction.Engine, *recordingSink, *actor.Store) {
	t.Helper()
	store := actor.NewStore(8)
	statuses := status.NewRegistry()
	statuses.Register(&status.Def{ID: "stunned", Name: "Stunned", RestrictsAction: true})

	tactics := tactic.NewRegistry()
	if err := tactics.Register(&tactic.Def{
		ID:             "shield_bash",
		Name:           "Shield Bash",
		Steps:          []tactic.Step{{Op: tactic.StepBlock, Value: 3}},
		DeferredAttack: &tactic.DeferredAttack{Value: 8},
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	sink := &recordingSink{}
	eng := reaction.NewEngine(sink, store, statuses, tactic.NewTranslator(tactics), zap.NewNop())
	return eng, sink, store
}

func TestCondition_OptInFilters(t *testing.T) {
	src := actor.ID(1)
	op := command.OpAttack

	cases := []struct {
		name string
		cond reaction.Condition
		ev   command.Event
		want bool
	}{
		{"kind only matches", reaction.Condition{Kind: command.EventActorDamaged},
			command.Event{Kind: command.EventActorDamaged, Source: 5, Value: 0}, true},
		{"kind mismatch", reaction.Condition{Kind: command.EventActorDamaged},
			command.Event{Kind: command.EventActorHealed}, false},
		{"source filter matches", reaction.Condition{Kind: command.EventActorDamaged, Source: &src},
			command.Event{Kind: command.EventActorDamaged, Source: 1}, true},
		{"source filter rejects", reaction.Condition{Kind: command.EventActorDamaged, Source: &src},
			command.Event{Kind: command.EventActorDamaged, Source: 2}, false},
		{"min value passes at threshold", reaction.Condition{Kind: command.EventActorDamaged, MinValue: 5},
			command.Event{Kind: command.EventActorDamaged, Value: 5}, true},
		{"min value rejects below", reaction.Condition{Kind: command.EventActorDamaged, MinValue: 5},
			command.Event{Kind: command.EventActorDamaged, Value: 4}, false},
		{"op filter", reaction.Condition{Kind: command.EventActorDamaged, Op: &op},
			command.Event{Kind: command.EventActorDamaged, Op: command.OpDeflect}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cond.Matches(tc.ev); got != tc.want {
				t.Errorf("Matches = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSymbolicTarget_Resolve(t *testing.T) {
	ev := command.Event{Source: 3, Target: 7}
	if got := reaction.EventSource().Resolve(ev); got != 3 {
		t.Errorf("EventSource resolved to %d", got)
	}
	if got := reaction.EventTarget().Resolve(ev); got != 7 {
		t.Errorf("EventTarget resolved to %d", got)
	}
	if got := reaction.Literal(5).Resolve(ev); got != 5 {
		t.Errorf("Literal resolved to %d", got)
	}
}

// TestTrigger_DamageReflection: a thorns-style rule defers a deflect from the
// damaged actor back at the attacker; nothing executes synchronously.
func TestTrigger_DamageReflection(t *testing.T) {
	eng, sink, _ := newFixture(t)

	eng.Register(reaction.Rule{
		ID:        "thorns",
		Condition: reaction.Condition{Kind: command.EventActorDamaged, MinValue: 1},
		Effect:    reaction.Effect{Kind: reaction.EffectDamage, Target: reaction.EventSource(), Value: 2},
	})

	fired := eng.Trigger(command.Event{Kind: command.EventActorDamaged, Source: 1, Target: 0, Value: 6})
	if fired != 1 {
		t.Fatalf("expected 1 rule fired, got %d", fired)
	}
	if len(sink.deferred) != 1 {
		t.Fatalf("expected 1 deferred command, got %d", len(sink.deferred))
	}
	got := sink.deferred[0]
	if got.Op != command.OpDeflect || got.Source != 0 || got.Target != 1 || got.Value != 2 {
		t.Errorf("unexpected reflection %+v", got)
	}
}

func TestTrigger_InsertionOrder(t *testing.T) {
	eng, sink, _ := newFixture(t)

	eng.Register(reaction.Rule{
		ID:        "first",
		Condition: reaction.Condition{Kind: command.EventActorDamaged},
		Effect:    reaction.Effect{Kind: reaction.EffectBlock, Target: reaction.EventTarget(), Value: 1},
	})
	eng.Register(reaction.Rule{
		ID:        "second",
		Condition: reaction.Condition{Kind: command.EventActorDamaged},
		Effect:    reaction.Effect{Kind: reaction.EffectCharge, Target: reaction.EventTarget(), Value: 1},
	})

	eng.Trigger(command.Event{Kind: command.EventActorDamaged, Source: 1, Target: 0, Value: 3})
	if len(sink.deferred) != 2 {
		t.Fatalf("expected 2 deferred commands, got %d", len(sink.deferred))
	}
	if sink.deferred[0].Op != command.OpBlock || sink.deferred[1].Op != command.OpCharge {
		t.Errorf("rules must fire in insertion order, got %v then %v",
			sink.deferred[0].Op, sink.deferred[1].Op)
	}
}

func TestTrigger_StatusEffectMutatesDirectly(t *testing.T) {
	eng, sink, store := newFixture(t)
	id, _ := store.Allocate(actor.KindEnemy, "e", 20)

	eng.Register(reaction.Rule{
		ID:        "concussion",
		Condition: reaction.Condition{Kind: command.EventActorDamaged, MinValue: 10},
		Effect: reaction.Effect{
			Kind:     reaction.EffectStatusAdd,
			Target:   reaction.EventTarget(),
			Status:   "stunned",
			Duration: 1,
		},
	})

	eng.Trigger(command.Event{Kind: command.EventActorDamaged, Source: 1, Target: id, Value: 12})
	a, _ := store.Get(id)
	if !a.Statuses.Has("stunned") {
		t.Fatal("status effect must apply directly to the store")
	}
	if len(sink.deferred) != 0 {
		t.Errorf("status effects must not defer commands, got %v", sink.deferred)
	}

	eng.Register(reaction.Rule{
		ID:        "cleanse",
		Condition: reaction.Condition{Kind: command.EventActorHealed},
		Effect: reaction.Effect{
			Kind:   reaction.EffectStatusRemove,
			Target: reaction.EventTarget(),
			Status: "stunned",
		},
	})
	eng.Trigger(command.Event{Kind: command.EventActorHealed, Target: id, Value: 1})
	if a.Statuses.Has("stunned") {
		t.Fatal("status remove effect must clear the status")
	}
}

// TestTrigger_DeferredTactic: a phase-start rule re-enters the translator's
// attack-only sub-path with the declared source and target.
func TestTrigger_DeferredTactic(t *testing.T) {
	eng, sink, _ := newFixture(t)

	src := actor.ID(1)
	eng.Register(reaction.Rule{
		ID:        "intent:1:1",
		Condition: reaction.Condition{Kind: command.EventPhaseStarted, Source: &src},
		Effect: reaction.Effect{
			Kind:         reaction.EffectDeferredTactic,
			Tactic:       "shield_bash",
			TacticTarget: 0,
		},
		Once: true,
	})

	eng.Trigger(command.Event{Kind: command.EventPhaseStarted, Source: src, Target: 0})
	if len(sink.deferred) != 1 {
		t.Fatalf("expected 1 deferred attack, got %d", len(sink.deferred))
	}
	atk := sink.deferred[0]
	if atk.Op != command.OpAttack || atk.Source != src || atk.Target != 0 || atk.Value != 8 {
		t.Errorf("unexpected deferred attack %+v", atk)
	}

	// A different enemy's phase start must not fire this rule.
	sink.deferred = nil
	eng2, sink2, _ := newFixture(t)
	eng2.Register(reaction.Rule{
		ID:        "intent:1:1",
		Condition: reaction.Condition{Kind: command.EventPhaseStarted, Source: &src},
		Effect:    reaction.Effect{Kind: reaction.EffectDeferredTactic, Tactic: "shield_bash"},
		Once:      true,
	})
	eng2.Trigger(command.Event{Kind: command.EventPhaseStarted, Source: 2})
	if len(sink2.deferred) != 0 {
		t.Errorf("source filter must gate the intent rule, got %v", sink2.deferred)
	}
}

func TestUnregister_PreservesOrder(t *testing.T) {
	eng, sink, _ := newFixture(t)

	for i, id := range []string{"a", "b", "c"} {
		eng.Register(reaction.Rule{
			ID:        id,
			Condition: reaction.Condition{Kind: command.EventActorDamaged},
			Effect:    reaction.Effect{Kind: reaction.EffectBlock, Target: reaction.EventTarget(), Value: i + 1},
		})
	}
	eng.Unregister("b")
	eng.Unregister("missing")
	if eng.Len() != 2 {
		t.Fatalf("expected 2 rules after unregister, got %d", eng.Len())
	}

	eng.Trigger(command.Event{Kind: command.EventActorDamaged})
	if len(sink.deferred) != 2 || sink.deferred[0].Value != 1 || sink.deferred[1].Value != 3 {
		t.Errorf("expected rules a then c, got %v", sink.deferred)
	}
}

func TestReset(t *testing.T) {
	eng, sink, _ := newFixture(t)
	eng.Register(reaction.Rule{
		ID:        "r",
		Condition: reaction.Condition{Kind: command.EventActorDamaged},
		Effect:    reaction.Effect{Kind: reaction.EffectBlock, Target: reaction.EventTarget(), Value: 1},
	})
	eng.Reset()
	if eng.Len() != 0 {
		t.Fatalf("expected empty table, got %d", eng.Len())
	}
	eng.Trigger(command.Event{Kind: command.EventActorDamaged})
	if len(sink.deferred) != 0 {
		t.Error("reset table must fire nothing")
	}
}

// TestOnce_ExactlyOnce (property): a one-time rule fires exactly once across
// any number of matching events, and re-registering re-arms it.
func TestOnce_ExactlyOnce(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		store := actor.NewStore(2)
		statuses := status.NewRegistry()
		tactics := tactic.NewRegistry()
		sink := &recordingSink{}
		eng := reaction.NewEngine(sink, store, statuses, tactic.NewTranslator(tactics), zap.NewNop())

		eng.Register(reaction.Rule{
			ID:        "oneshot",
			Condition: reaction.Condition{Kind: command.EventActorDamaged},
			Effect:    reaction.Effect{Kind: reaction.EffectHeal, Target: reaction.EventTarget(), Value: 1},
			Once:      true,
		})

		n := rapid.IntRange(1, 20).Draw(rt, "events")
		total := 0
		for i := 0; i < n; i++ {
			total += eng.Trigger(command.Event{Kind: command.EventActorDamaged, Value: i})
		}
		if total != 1 {
			rt.Fatalf("one-time rule fired %d times over %d events", total, n)
		}
		if len(sink.deferred) != 1 {
			rt.Fatalf("expected 1 deferred command, got %d", len(sink.deferred))
		}

		// Re-registering the same ID clears the exhaustion.
		eng.Register(reaction.Rule{
			ID:        "oneshot",
			Condition: reaction.Condition{Kind: command.EventActorDamaged},
			Effect:    reaction.Effect{Kind: reaction.EffectHeal, Target: reaction.EventTarget(), Value: 1},
			Once:      true,
		})
		if got := eng.Trigger(command.Event{Kind: command.EventActorDamaged}); got != 1 {
			rt.Fatalf("re-registered rule fired %d times, want 1", got)
		}
	})
}
