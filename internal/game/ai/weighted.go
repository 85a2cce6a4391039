package ai

import (
	"github.com/jens-ohlsson/bastion/internal/game/actor"
)

// WeightedTactic is one entry in a WeightedDecider's behavior table.
type WeightedTactic struct {
	Tactic string
	Weight int
}

// WeightedDecider picks a tactic by weighted selection over a fixed table
// and always targets the weakest living foe. With a fixed Source it is fully
// deterministic.
type WeightedDecider struct {
	table []WeightedTactic
	src   Source
	total int
}

// NewWeightedDecider creates a WeightedDecider.
//
// Precondition: table must be non-empty with all weights >= 1; src must not be nil.
func NewWeightedDecider(table []WeightedTactic, src Source) *WeightedDecider {
	if len(table) == 0 {
		panic("ai.NewWeightedDecider: table must not be empty")
	}
	if src == nil {
		panic("ai.NewWeightedDecider: src must not be nil")
	}
	total := 0
	for _, wt := range table {
		if wt.Weight < 1 {
			panic("ai.NewWeightedDecider: weights must be >= 1")
		}
		total += wt.Weight
	}
	return &WeightedDecider{table: table, src: src, total: total}
}

// Decide implements Decider.
//
// Postcondition: the returned tactic is one of the table entries; the target
// is the weakest living foe, or the zero ID if foes is empty.
func (d *WeightedDecider) Decide(_ *actor.Actor, foes []*actor.Actor) Decision {
	pick := d.src.Intn(d.total)
	tactic := d.table[len(d.table)-1].Tactic
	for _, wt := range d.table {
		if pick < wt.Weight {
			tactic = wt.Tactic
			break
		}
		pick -= wt.Weight
	}

	dec := Decision{Tactic: tactic}
	if foe := weakestFoe(foes); foe != nil {
		dec.Target = foe.ID
	}
	return dec
}
