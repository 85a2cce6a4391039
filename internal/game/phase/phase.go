// Package phase implements the four-phase turn state machine that sequences
// the resolution pipeline, and the intent ledger bridging "tactic decided"
// and "tactic executed" for enemies.
package phase

// Phase is one of the four turn phases.
type Phase int

const (
	EnemyIntent Phase = iota
	PlayerPhase
	EnemyPhase
	Cleanup
)

// String returns a human-readable phase label.
func (p Phase) String() string {
	switch p {
	case EnemyIntent:
		return "enemy-intent"
	case PlayerPhase:
		return "player"
	case EnemyPhase:
		return "enemy"
	case Cleanup:
		return "cleanup"
	default:
		return "unknown"
	}
}

// Step is one sub-step within a phase. The sub-step set is phase-specific:
// only PlayerPhase has StepInput, and only PlayerPhase and EnemyPhase have
// StepExecute.
type Step int

const (
	StepInit Step = iota
	StepInput
	StepProcess
	StepExecute
	StepEnd
)

// String returns a human-readable step label.
func (s Step) String() string {
	switch s {
	case StepInit:
		return "init"
	case StepInput:
		return "input"
	case StepProcess:
		return "process"
	case StepExecute:
		return "execute"
	case StepEnd:
		return "end"
	default:
		return "unknown"
	}
}

// AdvanceResult is what one Advance call reports back to the driver.
type AdvanceResult int

const (
	// NextStep: one sub-step transition completed within the current phase.
	NextStep AdvanceResult = iota
	// NextPhase: the phase ended and the machine moved to the next phase.
	NextPhase
	// WaitInput: the machine is suspended until the driver supplies a
	// player action. Re-polling without input re-returns WaitInput.
	WaitInput
	// CombatEnd: one side has no living actors; stop driving.
	CombatEnd
	// ErrorResult: the machine reached a phase/step combination with no
	// defined handler. Unrecoverable for this combat instance.
	ErrorResult
)

// String returns a human-readable result label.
func (r AdvanceResult) String() string {
	switch r {
	case NextStep:
		return "next-step"
	case NextPhase:
		return "next-phase"
	case WaitInput:
		return "wait-input"
	case CombatEnd:
		return "combat-end"
	case ErrorResult:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the terminal combat result, pollable at any time.
type Outcome int

const (
	// Ongoing: both sides still have living actors.
	Ongoing Outcome = iota
	// Victory: no living enemies remain.
	Victory
	// Defeat: no living players remain.
	Defeat
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case Ongoing:
		return "ongoing"
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	default:
		return "unknown"
	}
}
