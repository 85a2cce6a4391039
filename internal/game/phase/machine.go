package phase

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jens-ohlsson/bastion/internal/game/actor"
	"github.com/jens-ohlsson/bastion/internal/game/ai"
	"github.com/jens-ohlsson/bastion/internal/game/command"
	"github.com/jens-ohlsson/bastion/internal/game/reaction"
	"github.com/jens-ohlsson/bastion/internal/game/tactic"
)

// playerAction is the externally supplied input the player phase waits for.
type playerAction struct {
	Tactic string
	Target actor.ID
}

// Machine drives the turn cycle for one combat:
//
//	EnemyIntent → PlayerPhase → EnemyPhase → Cleanup → (loop, turn++)
//
// It is cooperative, non-reentrant, and synchronous: each Advance call
// performs exactly one sub-step transition and returns control to the
// driver. The only suspension is the explicit WaitInput result, at which
// point the driver must call SetPlayerAction before the next Advance is
// meaningful; re-polling without input re-returns WaitInput.
//
// Exactly one Machine exists per combat; it owns no shared global state.
type Machine struct {
	store      *actor.Store
	exec       *command.Executor
	translator *tactic.Translator
	reactions  *reaction.Engine
	decider    ai.Decider
	ledger     *Ledger
	logger     *zap.Logger

	phase        Phase
	step         Step
	waiting      bool
	currentActor actor.ID
	turn         int

	pending *playerAction
}

// NewMachine creates a Machine wired to its collaborators, reset to combat
// start.
//
// Precondition: no collaborator may be nil.
func NewMachine(store *actor.Store, exec *command.Executor, translator *tactic.Translator, reactions *reaction.Engine, decider ai.Decider, ledger *Ledger, logger *zap.Logger) *Machine {
	if store == nil || exec == nil || translator == nil || reactions == nil || decider == nil || ledger == nil || logger == nil {
		panic("phase.NewMachine: all collaborators must not be nil")
	}
	m := &Machine{
		store:      store,
		exec:       exec,
		translator: translator,
		reactions:  reactions,
		decider:    decider,
		ledger:     ledger,
		logger:     logger,
	}
	m.Reset()
	return m
}

// Reset returns the machine to combat start: turn 1, enemy intent phase,
// empty ledger, no pending input.
func (m *Machine) Reset() {
	m.phase = EnemyIntent
	m.step = StepInit
	m.waiting = false
	m.pending = nil
	m.turn = 1
	m.ledger.Clear()
}

// CurrentPhase returns the active phase.
func (m *Machine) CurrentPhase() Phase { return m.phase }

// CurrentStep returns the active sub-step.
func (m *Machine) CurrentStep() Step { return m.step }

// Turn returns the current turn number, starting at 1.
func (m *Machine) Turn() int { return m.turn }

// Waiting reports whether the machine is suspended on player input.
func (m *Machine) Waiting() bool { return m.waiting }

// Ledger returns the intent ledger for inspection.
func (m *Machine) Ledger() *Ledger { return m.ledger }

// Over reports whether the combat has ended and with what outcome. It is a
// pure query over living-actor counts, independent of phase state, so the
// driver may poll it between Advance calls. A combat with no living actors
// on either side counts as a defeat.
func (m *Machine) Over() (bool, Outcome) {
	if m.store.Living(actor.KindPlayer) == 0 {
		return true, Defeat
	}
	if m.store.Living(actor.KindEnemy) == 0 {
		return true, Victory
	}
	return false, Ongoing
}

// SetPlayerAction supplies the externally chosen tactic and target the
// player phase is suspended on.
//
// Precondition: the machine must be at PlayerPhase/StepInput.
// Postcondition: The next Advance call consumes the action.
func (m *Machine) SetPlayerAction(tacticID string, target actor.ID) error {
	if m.phase != PlayerPhase || m.step != StepInput {
		return fmt.Errorf("phase: not waiting for input (at %v/%v)", m.phase, m.step)
	}
	m.pending = &playerAction{Tactic: tacticID, Target: target}
	return nil
}

// Advance performs exactly one sub-step transition and reports what
// happened. Once either side has no living actors it returns CombatEnd on
// every call. An undefined phase/step combination returns ErrorResult, which
// the driver must treat as unrecoverable for this combat instance.
func (m *Machine) Advance() AdvanceResult {
	if over, outcome := m.Over(); over {
		m.logger.Info("combat over",
			zap.Stringer("outcome", outcome),
			zap.Int("turn", m.turn))
		return CombatEnd
	}

	m.exec.SetContext(int(m.phase), m.turn)

	switch m.phase {
	case EnemyIntent:
		return m.advanceIntent()
	case PlayerPhase:
		return m.advancePlayer()
	case EnemyPhase:
		return m.advanceEnemy()
	case Cleanup:
		return m.advanceCleanup()
	default:
		return m.fail()
	}
}

func (m *Machine) advanceIntent() AdvanceResult {
	switch m.step {
	case StepInit:
		m.logger.Debug("turn start", zap.Int("turn", m.turn))
		m.step = StepProcess
		return NextStep
	case StepProcess:
		m.declareIntents()
		m.step = StepEnd
		return NextStep
	case StepEnd:
		m.phase = PlayerPhase
		m.step = StepInit
		return NextPhase
	default:
		return m.fail()
	}
}

func (m *Machine) advancePlayer() AdvanceResult {
	switch m.step {
	case StepInit:
		m.step = StepInput
		return NextStep
	case StepInput:
		if m.pending == nil {
			m.waiting = true
			return WaitInput
		}
		m.waiting = false
		m.step = StepProcess
		return NextStep
	case StepProcess:
		m.translatePlayerAction()
		m.step = StepExecute
		return NextStep
	case StepExecute:
		m.exec.ExecuteAll()
		m.step = StepEnd
		return NextStep
	case StepEnd:
		m.phase = EnemyPhase
		m.step = StepInit
		return NextPhase
	default:
		return m.fail()
	}
}

func (m *Machine) advanceEnemy() AdvanceResult {
	switch m.step {
	case StepInit:
		m.step = StepProcess
		return NextStep
	case StepProcess:
		m.resolveIntents()
		m.step = StepExecute
		return NextStep
	case StepExecute:
		m.exec.ExecuteAll()
		m.step = StepEnd
		return NextStep
	case StepEnd:
		m.phase = Cleanup
		m.step = StepInit
		return NextPhase
	default:
		return m.fail()
	}
}

func (m *Machine) advanceCleanup() AdvanceResult {
	switch m.step {
	case StepInit:
		m.step = StepProcess
		return NextStep
	case StepProcess:
		m.exec.Queue().Push(command.Command{Op: command.OpTurnEndCleanup})
		m.exec.ExecuteAll()
		// Intent rules that never fired (dead source or target) are stale
		// once the ledger clears; drop them so the table does not grow
		// turn over turn.
		for _, in := range m.ledger.All() {
			m.reactions.Unregister(intentRuleID(in.Enemy, m.turn))
		}
		m.ledger.Clear()
		m.turn++
		m.step = StepEnd
		return NextStep
	case StepEnd:
		m.phase = EnemyIntent
		m.step = StepInit
		return NextPhase
	default:
		return m.fail()
	}
}

func (m *Machine) fail() AdvanceResult {
	m.logger.Error("no handler for phase/step combination",
		zap.Stringer("phase", m.phase),
		zap.Stringer("step", m.step))
	return ErrorResult
}

// declareIntents obtains a tactic decision for every living, able enemy,
// records it in the ledger, executes the tactic's immediate (non-attack)
// half now, and registers its attack half as a one-time phase-start rule.
// The attack commits only when the enemy phase fires the trigger: intent
// known is decoupled from intent resolved.
func (m *Machine) declareIntents() {
	var foes []*actor.Actor
	for _, id := range m.store.ByKind(actor.KindPlayer) {
		if a, ok := m.store.Get(id); ok {
			foes = append(foes, a)
		}
	}

	for _, id := range m.store.ByKind(actor.KindEnemy) {
		enemy, ok := m.store.Get(id)
		if !ok {
			continue
		}
		if !enemy.CanAct() {
			m.logger.Debug("enemy cannot act, no intent declared",
				zap.String("enemy", enemy.Name))
			continue
		}
		m.currentActor = id

		dec := m.decider.Decide(enemy, foes)
		plan := m.translator.Translate(dec.Tactic, tactic.ModeSplit, id, dec.Target)
		if plan.Empty() {
			m.logger.Warn("decider chose unknown tactic, treating as no-op",
				zap.String("enemy", enemy.Name),
				zap.String("tactic", dec.Tactic))
			continue
		}

		// Immediate half: visible in actor state before the player acts.
		for _, c := range plan.Immediate {
			m.exec.Queue().Push(c)
		}
		m.exec.ExecuteAll()

		note := m.translator.Describe(dec.Tactic)
		if plan.Deferred != nil {
			src := id
			m.reactions.Register(reaction.Rule{
				ID: intentRuleID(id, m.turn),
				Condition: reaction.Condition{
					Kind:   command.EventPhaseStarted,
					Source: &src,
				},
				Effect: reaction.Effect{
					Kind:         reaction.EffectDeferredTactic,
					Tactic:       plan.Deferred.Tactic,
					TacticTarget: plan.Deferred.Target,
				},
				Once: true,
			})
			note = fmt.Sprintf("%s for %d", note, plan.Deferred.Value)
		}
		m.ledger.Record(Intent{Enemy: id, Tactic: dec.Tactic, Target: dec.Target, Note: note})

		m.logger.Info("intent declared",
			zap.String("enemy", enemy.Name),
			zap.String("tactic", dec.Tactic),
			zap.Uint8("target", uint8(dec.Target)))
	}
}

// translatePlayerAction expands the pending player input and pushes it for
// the execute step. Player actions translate flat: their attack component is
// not deferred.
func (m *Machine) translatePlayerAction() {
	act := m.pending
	m.pending = nil

	players := m.store.ByKind(actor.KindPlayer)
	if len(players) == 0 {
		return
	}
	src := players[0]
	m.currentActor = src

	plan := m.translator.Translate(act.Tactic, tactic.ModeFlat, src, act.Target)
	if plan.Empty() {
		m.logger.Warn("player chose unknown tactic, treating as no-op",
			zap.String("tactic", act.Tactic))
		return
	}
	for _, c := range plan.Immediate {
		m.exec.Queue().Push(c)
	}
}

// resolveIntents emits the phase-start trigger for every ledger entry whose
// source and target are both still alive, firing the deferred attack rules.
// Entries with a dead source or target are skipped without error.
func (m *Machine) resolveIntents() {
	for _, in := range m.ledger.All() {
		if !m.store.IsAlive(in.Enemy) || !m.store.IsAlive(in.Target) {
			m.logger.Debug("skipping stale intent",
				zap.Uint8("enemy", uint8(in.Enemy)),
				zap.Uint8("target", uint8(in.Target)))
			continue
		}
		m.currentActor = in.Enemy
		m.reactions.Trigger(command.Event{
			Kind:   command.EventPhaseStarted,
			Source: in.Enemy,
			Target: in.Target,
			Phase:  int(EnemyPhase),
			Turn:   m.turn,
		})
	}
}

func intentRuleID(id actor.ID, turn int) string {
	return fmt.Sprintf("intent:%d:%d", id, turn)
}
