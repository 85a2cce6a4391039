// Package command implements the primitive command executor: the only path
// that mutates actor state. Primitives are immutable values consumed exactly
// once; cascades (death cleanup, reaction counter-effects) resolve through a
// double-buffered queue drained to fixpoint, never through recursion.
package command

import (
	"github.com/jens-ohlsson/bastion/internal/game/actor"
)

// OpCode identifies one primitive operation. The set is closed: every code is
// dispatched by an exhaustive switch in the executor, so adding a code is a
// compile-visible change.
type OpCode int

const (
	OpUnknown OpCode = iota // zero value; intentionally invalid
	OpAttack
	OpBlock
	OpCharge
	OpHeal
	OpStatusAdd
	OpStatusRemove
	OpDeflect
	OpTurnEndCleanup
	OpActorDeath
)

// String returns the human-readable name of the OpCode.
func (o OpCode) String() string {
	switch o {
	case OpAttack:
		return "attack"
	case OpBlock:
		return "block"
	case OpCharge:
		return "charge"
	case OpHeal:
		return "heal"
	case OpStatusAdd:
		return "status-add"
	case OpStatusRemove:
		return "status-remove"
	case OpDeflect:
		return "deflect"
	case OpTurnEndCleanup:
		return "turn-end-cleanup"
	case OpActorDeath:
		return "actor-death"
	default:
		return "unknown"
	}
}

// Command is one immutable primitive operation. Payload fields are explicit
// per operation rather than packed into a single overloaded value:
// Value carries damage/block/charge/heal amounts, Status and Duration carry
// the status payload for OpStatusAdd/OpStatusRemove.
type Command struct {
	Op       OpCode
	Source   actor.ID
	Target   actor.ID
	Value    int
	Status   string
	Duration int
}

// Result reports the outcome of executing one primitive. A failed Result is
// not fatal: the executor logs it and continues draining the queue.
type Result struct {
	Success bool
	Value   int
	Message string
}

// EventKind identifies one kind of reaction event.
type EventKind int

const (
	EventActorDamaged EventKind = iota
	EventActorHealed
	EventActorDied
	EventTurnEnded
	EventPhaseStarted
)

// String returns the human-readable name of the EventKind.
func (k EventKind) String() string {
	switch k {
	case EventActorDamaged:
		return "actor-damaged"
	case EventActorHealed:
		return "actor-healed"
	case EventActorDied:
		return "actor-died"
	case EventTurnEnded:
		return "turn-ended"
	case EventPhaseStarted:
		return "phase-started"
	default:
		return "unknown"
	}
}

// Event is a transient reaction event. It exists only for the duration of a
// dispatch pass and is never persisted. For EventActorDamaged, Value is the
// actual HP loss after block absorption, not the nominal damage.
type Event struct {
	Kind   EventKind
	Source actor.ID
	Target actor.ID
	Value  int
	Op     OpCode
	Phase  int
	Turn   int
}

// Sink receives events emitted by the executor during command execution.
type Sink interface {
	Emit(ev Event)
}
