package phase

import (
	"github.com/jens-ohlsson/bastion/internal/game/actor"
)

// Intent is one enemy's declared-but-unexecuted tactic. It is created during
// the intent phase, read unchanged during the player phase, consumed during
// the enemy phase, and invalidated by the next Clear.
type Intent struct {
	Enemy  actor.ID
	Tactic string
	Target actor.ID
	// Note is the player-visible estimate of what the intent will do.
	Note string
}

// Ledger stores declared enemy intents for the current turn, in declaration
// order.
type Ledger struct {
	entries []Intent
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Record appends one declared intent.
func (l *Ledger) Record(in Intent) {
	l.entries = append(l.entries, in)
}

// Get returns the intent declared by the given enemy this turn.
//
// Postcondition: Returns (intent, true) if found, or (Intent{}, false) otherwise.
func (l *Ledger) Get(enemy actor.ID) (Intent, bool) {
	for _, in := range l.entries {
		if in.Enemy == enemy {
			return in, true
		}
	}
	return Intent{}, false
}

// All returns a copy of the intents in declaration order.
func (l *Ledger) All() []Intent {
	out := make([]Intent, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded intents.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Clear discards all recorded intents.
func (l *Ledger) Clear() {
	l.entries = l.entries[:0]
}
