// Package main provides the arena binary: it assembles one encounter from
// configuration and content, then drives the phase machine as an external
// driver, answering WaitInput with a fixed player policy, until the combat
// ends.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/jens-ohlsson/bastion/internal/config"
	"github.com/jens-ohlsson/bastion/internal/game/actor"
	"github.com/jens-ohlsson/bastion/internal/game/ai"
	"github.com/jens-ohlsson/bastion/internal/game/encounter"
	"github.com/jens-ohlsson/bastion/internal/game/phase"
	"github.com/jens-ohlsson/bastion/internal/game/status"
	"github.com/jens-ohlsson/bastion/internal/game/tactic"
	"github.com/jens-ohlsson/bastion/internal/observability"
)

func main() {
	configPath := flag.String("config", "content/configs/dev.yaml", "path to configuration file")
	seed := flag.Int64("seed", 1, "seed for the enemy decider fallback")
	playerTactic := flag.String("player-tactic", "strike", "tactic the auto-player answers WaitInput with")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	statuses, err := status.LoadDirectory(cfg.Content.StatusesDir)
	if err != nil {
		logger.Fatal("loading statuses", zap.Error(err))
	}
	tactics, err := tactic.LoadDirectory(cfg.Content.TacticsDir)
	if err != nil {
		logger.Fatal("loading tactics", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("statuses", len(statuses.All())),
		zap.Int("tactics", len(tactics.All())))

	decider, closeDecider, err := buildDecider(cfg, tactics, *seed, logger)
	if err != nil {
		logger.Fatal("building decider", zap.Error(err))
	}
	defer closeDecider()

	roster := []encounter.Member{
		{Kind: actor.KindPlayer, Name: cfg.Arena.PlayerName, MaxHP: cfg.Arena.PlayerHP},
	}
	for i := 0; i < cfg.Arena.EnemyCount; i++ {
		roster = append(roster, encounter.Member{
			Kind:  actor.KindEnemy,
			Name:  fmt.Sprintf("%s %d", cfg.Arena.EnemyName, i+1),
			MaxHP: cfg.Arena.EnemyHP,
		})
	}

	engine := encounter.NewEngine()
	enc, err := engine.Start(encounter.Params{
		Combat:   cfg.Combat,
		Statuses: statuses,
		Tactics:  tactics,
		Decider:  decider,
		Logger:   logger,
		Roster:   roster,
	})
	if err != nil {
		logger.Fatal("starting encounter", zap.Error(err))
	}
	defer engine.End(enc.ID())

	outcome := drive(enc, cfg, *playerTactic, logger)
	logger.Info("arena finished", zap.Stringer("outcome", outcome))
	if outcome != phase.Victory {
		os.Exit(1)
	}
}

// drive runs the external driver loop: one Advance per iteration, answering
// WaitInput with the auto-player policy, until CombatEnd or the turn limit.
func drive(enc *encounter.Encounter, cfg config.Config, playerTactic string, logger *zap.Logger) phase.Outcome {
	for {
		if enc.Machine().Turn() > cfg.Combat.MaxTurns {
			logger.Warn("turn limit reached, abandoning combat",
				zap.Int("max_turns", cfg.Combat.MaxTurns))
			_, outcome := enc.Over()
			return outcome
		}

		switch res := enc.Advance(); res {
		case phase.WaitInput:
			for _, in := range enc.Machine().Ledger().All() {
				logger.Info("enemy intent", zap.String("note", in.Note))
			}
			target, ok := firstLivingEnemy(enc.Store())
			if !ok {
				// No targets left; the next Advance reports CombatEnd.
				continue
			}
			if err := enc.SetPlayerAction(playerTactic, target); err != nil {
				logger.Error("setting player action", zap.Error(err))
				_, outcome := enc.Over()
				return outcome
			}
		case phase.CombatEnd:
			_, outcome := enc.Over()
			return outcome
		case phase.ErrorResult:
			logger.Error("phase machine error, abandoning combat")
			_, outcome := enc.Over()
			return outcome
		case phase.NextStep, phase.NextPhase:
			// keep driving
		}
	}
}

func firstLivingEnemy(store *actor.Store) (actor.ID, bool) {
	ids := store.ByKind(actor.KindEnemy)
	if len(ids) == 0 {
		return 0, false
	}
	return ids[0], true
}

// buildDecider wires the Lua script decider when configured, always backed
// by the deterministic weighted fallback.
func buildDecider(cfg config.Config, tactics *tactic.Registry, seed int64, logger *zap.Logger) (ai.Decider, func(), error) {
	fallback := ai.NewWeightedDecider(behaviorTable(tactics), ai.NewSeededSource(seed))
	if cfg.Content.AIScriptsDir == "" {
		return fallback, func() {}, nil
	}
	sd, err := ai.NewScriptDecider(cfg.Content.AIScriptsDir, fallback, logger)
	if err != nil {
		return nil, nil, err
	}
	return sd, sd.Close, nil
}

// behaviorTable weights every registered tactic, favoring ones with an
// attack component so the fallback decider stays aggressive.
func behaviorTable(tactics *tactic.Registry) []ai.WeightedTactic {
	var table []ai.WeightedTactic
	for _, def := range tactics.All() {
		w := 1
		if def.DeferredAttack != nil {
			w = 3
		}
		table = append(table, ai.WeightedTactic{Tactic: def.ID, Weight: w})
	}
	// Registry iteration order is map order; sort so a fixed seed replays
	// the same combat.
	sort.Slice(table, func(i, j int) bool { return table[i].Tactic < table[j].Tactic })
	return table
}
