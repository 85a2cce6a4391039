package tactic_test

import (
	"testing"

	"github.com/jens-ohlsson/bastion/internal/game/actor"
	"github.com/jens-ohlsson/bastion/internal/game/command"
	"github.com/jens-ohlsson/bastion/internal/game/tactic"
)

func newRegistry(t *testing.T, defs ...*tactic.Def) *tactic.Registry {
	t.Helper()
	reg := tactic.NewRegistry()
	for _, d := range defs {
		if err := reg.Register(d); err != nil {
			t.Fatalf("Register %q: %v", d.ID, err)
		}
	}
	return reg
}

var shieldBash = &tactic.Def{
	ID:             "shield_bash",
	Name:           "Shield Bash",
	Steps:          []tactic.Step{{Op: tactic.StepBlock, Value: 3}},
	DeferredAttack: &tactic.DeferredAttack{Value: 8},
}

func TestTranslate_Flat(t *testing.T) {
	tr := tactic.NewTranslator(newRegistry(t, shieldBash))

	src, tgt := actor.ID(1), actor.ID(0)
	plan := tr.Translate("shield_bash", tactic.ModeFlat, src, tgt)
	if plan.Deferred != nil {
		t.Fatal("flat mode must not defer the attack")
	}
	if len(plan.Immediate) != 2 {
		t.Fatalf("expected 2 immediate commands, got %d", len(plan.Immediate))
	}

	// Steps precede the attack, and self-directed steps target the source.
	block := plan.Immediate[0]
	if block.Op != command.OpBlock || block.Source != src || block.Target != src || block.Value != 3 {
		t.Errorf("unexpected block command %+v", block)
	}
	atk := plan.Immediate[1]
	if atk.Op != command.OpAttack || atk.Source != src || atk.Target != tgt || atk.Value != 8 {
		t.Errorf("unexpected attack command %+v", atk)
	}
}

func TestTranslate_Split(t *testing.T) {
	tr := tactic.NewTranslator(newRegistry(t, shieldBash))

	src, tgt := actor.ID(1), actor.ID(0)
	plan := tr.Translate("shield_bash", tactic.ModeSplit, src, tgt)
	if len(plan.Immediate) != 1 || plan.Immediate[0].Op != command.OpBlock {
		t.Fatalf("expected only the block step immediately, got %+v", plan.Immediate)
	}
	if plan.Deferred == nil {
		t.Fatal("split mode must carry the attack in Deferred")
	}
	want := tactic.AttackPlan{Tactic: "shield_bash", Source: src, Target: tgt, Value: 8}
	if *plan.Deferred != want {
		t.Errorf("deferred plan %+v, want %+v", *plan.Deferred, want)
	}
}

func TestTranslate_StatusStepsTargetEnemy(t *testing.T) {
	reg := newRegistry(t, &tactic.Def{
		ID:    "hex",
		Name:  "Hex",
		Steps: []tactic.Step{{Op: tactic.StepStatusAdd, Status: "stunned", Duration: 1}},
	})
	tr := tactic.NewTranslator(reg)

	plan := tr.Translate("hex", tactic.ModeFlat, 1, 0)
	if len(plan.Immediate) != 1 {
		t.Fatalf("expected 1 command, got %d", len(plan.Immediate))
	}
	cmd := plan.Immediate[0]
	if cmd.Op != command.OpStatusAdd || cmd.Target != 0 || cmd.Status != "stunned" || cmd.Duration != 1 {
		t.Errorf("unexpected status command %+v", cmd)
	}
}

func TestTranslate_UnknownIsNoOp(t *testing.T) {
	tr := tactic.NewTranslator(newRegistry(t))
	plan := tr.Translate("no_such", tactic.ModeFlat, 0, 1)
	if !plan.Empty() {
		t.Fatalf("unknown tactic must yield an empty plan, got %+v", plan)
	}
}

func TestAttackCommands(t *testing.T) {
	reg := newRegistry(t, shieldBash, &tactic.Def{
		ID:    "guard",
		Name:  "Guard",
		Steps: []tactic.Step{{Op: tactic.StepBlock, Value: 5}},
	})
	tr := tactic.NewTranslator(reg)

	cmds := tr.AttackCommands("shield_bash", 1, 0)
	if len(cmds) != 1 {
		t.Fatalf("expected 1 attack command, got %d", len(cmds))
	}
	if cmds[0].Op != command.OpAttack || cmds[0].Source != 1 || cmds[0].Target != 0 || cmds[0].Value != 8 {
		t.Errorf("unexpected attack command %+v", cmds[0])
	}

	if tr.AttackCommands("guard", 1, 0) != nil {
		t.Error("tactic without attack component must yield nil")
	}
	if tr.AttackCommands("no_such", 1, 0) != nil {
		t.Error("unknown tactic must yield nil")
	}
}

func TestDescribe(t *testing.T) {
	tr := tactic.NewTranslator(newRegistry(t, shieldBash, &tactic.Def{
		ID:    "guard",
		Name:  "Guard",
		Steps: []tactic.Step{{Op: tactic.StepBlock, Value: 5}},
	}))

	if got := tr.Describe("shield_bash"); got != "Shield Bash (attack)" {
		t.Errorf("Describe(shield_bash) = %q", got)
	}
	if got := tr.Describe("guard"); got != "Guard" {
		t.Errorf("Describe(guard) = %q", got)
	}
	if got := tr.Describe("no_such"); got != "" {
		t.Errorf("Describe(no_such) = %q", got)
	}
}

func TestDefValidate(t *testing.T) {
	cases := []struct {
		name string
		def  *tactic.Def
		ok   bool
	}{
		{"empty id", &tactic.Def{Steps: []tactic.Step{{Op: tactic.StepBlock, Value: 1}}}, false},
		{"no components", &tactic.Def{ID: "x"}, false},
		{"unknown op", &tactic.Def{ID: "x", Steps: []tactic.Step{{Op: "attack", Value: 5}}}, false},
		{"zero block", &tactic.Def{ID: "x", Steps: []tactic.Step{{Op: tactic.StepBlock}}}, false},
		{"status without id", &tactic.Def{ID: "x", Steps: []tactic.Step{{Op: tactic.StepStatusAdd, Duration: 1}}}, false},
		{"status without duration", &tactic.Def{ID: "x", Steps: []tactic.Step{{Op: tactic.StepStatusAdd, Status: "s"}}}, false},
		{"zero attack", &tactic.Def{ID: "x", DeferredAttack: &tactic.DeferredAttack{}}, false},
		{"attack only", &tactic.Def{ID: "x", DeferredAttack: &tactic.DeferredAttack{Value: 6}}, true},
		{"steps only", &tactic.Def{ID: "x", Steps: []tactic.Step{{Op: tactic.StepHeal, Value: 4}}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.def.Validate()
			if tc.ok && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
