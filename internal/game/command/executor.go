package command

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jens-ohlsson/bastion/internal/game/actor"
	"github.com/jens-ohlsson/bastion/internal/game/status"
)

// maxPerPass bounds one ExecuteAll drain. Well-formed content enqueues a
// bounded number of follow-ups per primitive, so a pass always terminates;
// the cap converts a content bug (a self-sustaining reaction loop) into a
// logged error instead of a hang.
const maxPerPass = 4096

// Constants holds the fixed numeric rules the executor applies. They are
// configuration data (config.CombatConfig), not resolution logic.
type Constants struct {
	// ChargeBonusPerPoint is the flat bonus added per consumed charge point.
	ChargeBonusPerPoint int
	// BlockCeiling clamps accumulated block.
	BlockCeiling int
	// ChargeCeiling clamps accumulated charge.
	ChargeCeiling int
}

// Executor consumes primitives one at a time, applies game rules, and may
// enqueue follow-up primitives on the deferred queue. It is the single
// mutation path for actor state.
type Executor struct {
	store  *actor.Store
	status *status.Registry
	queue  *Queue
	cons   Constants
	sink   Sink
	logger *zap.Logger

	// phase and turn stamp emitted events; the phase machine updates them.
	phase int
	turn  int
}

// NewExecutor creates an Executor over the given store and queue.
//
// Precondition: store, statuses, queue, and logger must not be nil.
// Postcondition: Returns a ready Executor with no sink; events are dropped
// until SetSink is called.
func NewExecutor(store *actor.Store, statuses *status.Registry, queue *Queue, cons Constants, logger *zap.Logger) *Executor {
	if store == nil || statuses == nil || queue == nil || logger == nil {
		panic("command.NewExecutor: store, statuses, queue, and logger must not be nil")
	}
	return &Executor{
		store:  store,
		status: statuses,
		queue:  queue,
		cons:   cons,
		logger: logger,
	}
}

// SetSink installs the event sink. A nil sink drops events.
func (e *Executor) SetSink(sink Sink) {
	e.sink = sink
}

// SetContext stamps subsequent events with the current phase and turn.
func (e *Executor) SetContext(phase, turn int) {
	e.phase = phase
	e.turn = turn
}

// Queue returns the executor's command queue.
func (e *Executor) Queue() *Queue {
	return e.queue
}

// Execute applies one primitive and returns its Result. Dispatch is an
// exhaustive switch over the closed OpCode set. A failed Result (dead or
// unknown actor, unknown status) is reported, not propagated: callers
// draining the queue continue past it.
func (e *Executor) Execute(cmd Command) Result {
	switch cmd.Op {
	case OpAttack, OpDeflect:
		return e.applyDamage(cmd)
	case OpBlock:
		return e.applyBlock(cmd)
	case OpCharge:
		return e.applyCharge(cmd)
	case OpHeal:
		return e.applyHeal(cmd)
	case OpStatusAdd:
		return e.applyStatusAdd(cmd)
	case OpStatusRemove:
		return e.applyStatusRemove(cmd)
	case OpTurnEndCleanup:
		return e.applyTurnEnd(cmd)
	case OpActorDeath:
		return e.applyDeath(cmd)
	case OpUnknown:
		return Result{Message: "unknown operation"}
	default:
		return Result{Message: fmt.Sprintf("unhandled operation %v", cmd.Op)}
	}
}

// ExecuteAll drains the primary and deferred queues to fixpoint and returns
// the number of primitives executed. The pass is complete only when both
// queues are empty. This is the only entry point the rest of the pipeline
// calls after pushing primitives.
func (e *Executor) ExecuteAll() int {
	count := 0
	for {
		cmd, ok := e.queue.pop()
		if !ok {
			return count
		}
		count++
		if count > maxPerPass {
			e.logger.Error("command cascade exceeded per-pass bound, dropping remainder",
				zap.Int("executed", count),
				zap.Int("pending", e.queue.Len()))
			e.queue.Reset()
			return count
		}
		res := e.Execute(cmd)
		if !res.Success {
			e.logger.Warn("primitive failed",
				zap.Stringer("op", cmd.Op),
				zap.Uint8("source", uint8(cmd.Source)),
				zap.Uint8("target", uint8(cmd.Target)),
				zap.String("reason", res.Message))
		}
	}
}

func (e *Executor) emit(ev Event) {
	if e.sink == nil {
		return
	}
	ev.Phase = e.phase
	ev.Turn = e.turn
	e.sink.Emit(ev)
}

// applyDamage handles OpAttack and OpDeflect. The two share rules: the source
// consumes 100% of its charge for a flat bonus, block absorbs 1:1 before HP,
// and death is enqueued deferred, never applied synchronously.
func (e *Executor) applyDamage(cmd Command) Result {
	src, ok := e.store.Get(cmd.Source)
	if !ok || !src.CanAct() {
		return Result{Message: fmt.Sprintf("source %d cannot act", cmd.Source)}
	}
	tgt, ok := e.store.Get(cmd.Target)
	if !ok || !tgt.Alive() {
		return Result{Message: fmt.Sprintf("target %d is not alive", cmd.Target)}
	}

	bonus := src.ConsumeCharge() * e.cons.ChargeBonusPerPoint
	total := cmd.Value + bonus

	absorbed := total
	if absorbed > tgt.Block {
		absorbed = tgt.Block
	}
	tgt.Block -= absorbed
	loss := total - absorbed

	e.emit(Event{Kind: EventActorDamaged, Source: cmd.Source, Target: cmd.Target, Value: loss, Op: cmd.Op})

	if loss == 0 {
		return Result{Success: true, Value: 0,
			Message: fmt.Sprintf("%s blocks all %d damage", tgt.Name, total)}
	}

	hpBefore := tgt.HP
	tgt.HP -= loss
	if tgt.HP <= 0 {
		tgt.HP = 0
		// Death resolves as its own deferred primitive so every direct
		// effect of the current cascade level lands first. Only the hit
		// that crosses zero enqueues it; later hits on a not-yet-removed
		// actor must not double-fire the cascade.
		if hpBefore > 0 {
			e.queue.Defer(Command{Op: OpActorDeath, Source: cmd.Source, Target: cmd.Target})
			e.emit(Event{Kind: EventActorDied, Source: cmd.Source, Target: cmd.Target, Value: loss, Op: cmd.Op})
		}
	}
	return Result{Success: true, Value: loss,
		Message: fmt.Sprintf("%s takes %d damage from %s", tgt.Name, loss, src.Name)}
}

func (e *Executor) applyBlock(cmd Command) Result {
	src, ok := e.store.Get(cmd.Source)
	if !ok || !src.CanAct() {
		return Result{Message: fmt.Sprintf("source %d cannot act", cmd.Source)}
	}

	bonus := src.ConsumeCharge() * e.cons.ChargeBonusPerPoint
	gained := cmd.Value + bonus
	src.Block += gained
	if src.Block > e.cons.BlockCeiling {
		gained -= src.Block - e.cons.BlockCeiling
		src.Block = e.cons.BlockCeiling
	}
	return Result{Success: true, Value: gained,
		Message: fmt.Sprintf("%s gains %d block", src.Name, gained)}
}

func (e *Executor) applyCharge(cmd Command) Result {
	tgt, ok := e.store.Get(cmd.Target)
	if !ok || !tgt.Alive() {
		return Result{Message: fmt.Sprintf("target %d is not alive", cmd.Target)}
	}

	gained := cmd.Value
	tgt.Charge += gained
	if tgt.Charge > e.cons.ChargeCeiling {
		gained -= tgt.Charge - e.cons.ChargeCeiling
		tgt.Charge = e.cons.ChargeCeiling
	}
	return Result{Success: true, Value: gained,
		Message: fmt.Sprintf("%s gains %d charge", tgt.Name, gained)}
}

func (e *Executor) applyHeal(cmd Command) Result {
	tgt, ok := e.store.Get(cmd.Target)
	if !ok || !tgt.Alive() {
		return Result{Message: fmt.Sprintf("target %d is not alive", cmd.Target)}
	}

	healed := cmd.Value
	tgt.HP += healed
	if tgt.HP > tgt.MaxHP {
		healed -= tgt.HP - tgt.MaxHP
		tgt.HP = tgt.MaxHP
	}
	e.emit(Event{Kind: EventActorHealed, Source: cmd.Source, Target: cmd.Target, Value: healed, Op: cmd.Op})
	return Result{Success: true, Value: healed,
		Message: fmt.Sprintf("%s heals %d", tgt.Name, healed)}
}

func (e *Executor) applyStatusAdd(cmd Command) Result {
	tgt, ok := e.store.Get(cmd.Target)
	if !ok || !tgt.Alive() {
		return Result{Message: fmt.Sprintf("target %d is not alive", cmd.Target)}
	}
	def, ok := e.status.Get(cmd.Status)
	if !ok {
		return Result{Message: fmt.Sprintf("unknown status %q", cmd.Status)}
	}
	if err := tgt.Statuses.Apply(def, cmd.Duration); err != nil {
		return Result{Message: err.Error()}
	}
	return Result{Success: true, Value: tgt.Statuses.Remaining(cmd.Status),
		Message: fmt.Sprintf("%s gains %s (%d turns)", tgt.Name, def.Name, tgt.Statuses.Remaining(cmd.Status))}
}

func (e *Executor) applyStatusRemove(cmd Command) Result {
	tgt, ok := e.store.Get(cmd.Target)
	if !ok || !tgt.Alive() {
		return Result{Message: fmt.Sprintf("target %d is not alive", cmd.Target)}
	}
	tgt.Statuses.Remove(cmd.Status)
	return Result{Success: true,
		Message: fmt.Sprintf("%s loses %s", tgt.Name, cmd.Status)}
}

func (e *Executor) applyTurnEnd(_ Command) Result {
	expired := e.store.EndOfTurn()
	for _, x := range expired {
		e.logger.Debug("status expired",
			zap.Uint8("actor", uint8(x.Actor)),
			zap.String("status", x.Status))
	}
	e.emit(Event{Kind: EventTurnEnded, Value: len(expired), Op: OpTurnEndCleanup})
	return Result{Success: true, Value: len(expired), Message: "turn end cleanup"}
}

func (e *Executor) applyDeath(cmd Command) Result {
	// Idempotent: Remove is a no-op for already-removed actors.
	name := fmt.Sprintf("actor %d", cmd.Target)
	if a, ok := e.store.Get(cmd.Target); ok {
		name = a.Name
	}
	e.store.Remove(cmd.Target)
	return Result{Success: true, Message: fmt.Sprintf("%s is removed from combat", name)}
}
