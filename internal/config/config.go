// Package config provides Viper-based configuration loading for the combat engine.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// CombatConfig holds the numeric constants consumed by the executor and the
// actor store. These are configuration data, not resolution logic: changing
// them never changes the ordering or cascade guarantees of the pipeline.
type CombatConfig struct {
	// BlockCeiling is the maximum block an actor can accumulate.
	BlockCeiling int `mapstructure:"block_ceiling"`
	// ChargeCeiling is the maximum charge an actor can accumulate.
	ChargeCeiling int `mapstructure:"charge_ceiling"`
	// ChargeBonusPerPoint is the flat bonus added per consumed charge point.
	ChargeBonusPerPoint int `mapstructure:"charge_bonus_per_point"`
	// PoolCapacity is the fixed capacity of the actor pool.
	PoolCapacity int `mapstructure:"pool_capacity"`
	// MaxTurns is the turn limit the external driver enforces before calling a combat stuck.
	MaxTurns int `mapstructure:"max_turns"`
}

// ContentConfig holds paths to the YAML/Lua content directories.
type ContentConfig struct {
	// StatusesDir is the directory of status definition YAML files.
	StatusesDir string `mapstructure:"statuses_dir"`
	// TacticsDir is the directory of tactic definition YAML files.
	TacticsDir string `mapstructure:"tactics_dir"`
	// AIScriptsDir is the directory of Lua decider scripts; empty = weighted fallback only.
	AIScriptsDir string `mapstructure:"ai_scripts_dir"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ArenaConfig holds the demo roster the arena binary builds its encounter from.
type ArenaConfig struct {
	// PlayerName is the display name of the player combatant.
	PlayerName string `mapstructure:"player_name"`
	// PlayerHP is the player's maximum hit points.
	PlayerHP int `mapstructure:"player_hp"`
	// EnemyCount is how many enemies to allocate.
	EnemyCount int `mapstructure:"enemy_count"`
	// EnemyHP is each enemy's maximum hit points.
	EnemyHP int `mapstructure:"enemy_hp"`
	// EnemyName is the base display name for enemies.
	EnemyName string `mapstructure:"enemy_name"`
}

// Config is the top-level application configuration.
type Config struct {
	Combat  CombatConfig  `mapstructure:"combat"`
	Content ContentConfig `mapstructure:"content"`
	Logging LoggingConfig `mapstructure:"logging"`
	Arena   ArenaConfig   `mapstructure:"arena"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateCombat(c.Combat); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateArena(c.Arena); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateCombat(c CombatConfig) error {
	var errs []string
	if c.BlockCeiling < 1 {
		errs = append(errs, fmt.Sprintf("combat.block_ceiling must be >= 1, got %d", c.BlockCeiling))
	}
	if c.ChargeCeiling < 1 {
		errs = append(errs, fmt.Sprintf("combat.charge_ceiling must be >= 1, got %d", c.ChargeCeiling))
	}
	if c.ChargeBonusPerPoint < 0 {
		errs = append(errs, fmt.Sprintf("combat.charge_bonus_per_point must be >= 0, got %d", c.ChargeBonusPerPoint))
	}
	if c.PoolCapacity < 2 || c.PoolCapacity > 256 {
		errs = append(errs, fmt.Sprintf("combat.pool_capacity must be 2-256, got %d", c.PoolCapacity))
	}
	if c.MaxTurns < 1 {
		errs = append(errs, fmt.Sprintf("combat.max_turns must be >= 1, got %d", c.MaxTurns))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateArena(a ArenaConfig) error {
	var errs []string
	if a.PlayerHP < 1 {
		errs = append(errs, fmt.Sprintf("arena.player_hp must be >= 1, got %d", a.PlayerHP))
	}
	if a.EnemyCount < 1 {
		errs = append(errs, fmt.Sprintf("arena.enemy_count must be >= 1, got %d", a.EnemyCount))
	}
	if a.EnemyHP < 1 {
		errs = append(errs, fmt.Sprintf("arena.enemy_hp must be >= 1, got %d", a.EnemyHP))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with BASTION_ prefix
	v.SetEnvPrefix("BASTION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("combat.block_ceiling", 30)
	v.SetDefault("combat.charge_ceiling", 10)
	v.SetDefault("combat.charge_bonus_per_point", 5)
	v.SetDefault("combat.pool_capacity", 8)
	v.SetDefault("combat.max_turns", 50)

	v.SetDefault("content.statuses_dir", "content/statuses")
	v.SetDefault("content.tactics_dir", "content/tactics")
	v.SetDefault("content.ai_scripts_dir", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("arena.player_name", "Vanguard")
	v.SetDefault("arena.player_hp", 100)
	v.SetDefault("arena.enemy_count", 2)
	v.SetDefault("arena.enemy_hp", 40)
	v.SetDefault("arena.enemy_name", "Husk")
}
