// Package config provides YAML-based configuration loading for t2048,
// with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tile2048/internal/core"
)

// Config contains all configuration for the engine, storage and accounts.
type Config struct {
	Game        GameConfig        `yaml:"game"`
	Storage     StorageConfig     `yaml:"storage"`
	Session     SessionConfig     `yaml:"session"`
	Log         LogConfig         `yaml:"log"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
}

// GameConfig defines engine parameters.
type GameConfig struct {
	Seed       int64   `yaml:"seed"        env:"T2048_SEED"`
	Spawn4Prob float64 `yaml:"spawn4_prob" env:"T2048_SPAWN4_PROB"`
}

// StorageConfig defines where scores and accounts are kept.
type StorageConfig struct {
	DBPath string `yaml:"db_path" env:"T2048_DB_PATH"`
}

// SessionConfig defines sign-in persistence.
type SessionConfig struct {
	Path       string        `yaml:"path"        env:"T2048_SESSION_PATH"`
	KeyPath    string        `yaml:"key_path"    env:"T2048_SESSION_KEY_PATH"`
	Secret     string        `yaml:"secret"      env:"T2048_SESSION_SECRET"`
	TTL        time.Duration `yaml:"ttl"         env:"T2048_SESSION_TTL"`
	BcryptCost int           `yaml:"bcrypt_cost" env:"T2048_BCRYPT_COST"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"T2048_LOG_LEVEL"`
	Prefix string `yaml:"prefix" env:"T2048_LOG_PREFIX"`
}

// LeaderboardConfig defines leaderboard display.
type LeaderboardConfig struct {
	Limit int `yaml:"limit" env:"T2048_LEADERBOARD_LIMIT"`
}

// Runtime returns the engine configuration.
func (c Config) Runtime() core.RuntimeConfig {
	return core.RuntimeConfig{
		Seed:       c.Game.Seed,
		Spawn4Prob: c.Game.Spawn4Prob,
	}
}

// LogLevel parses the configured log level.
func (c Config) LogLevel() (log.Level, error) {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(c.Log.Level)))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("config: %w", err)
	}
	return lvl, nil
}

// Validate reports configuration values the program cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Game.Spawn4Prob < 0 || c.Game.Spawn4Prob > 1 {
		errs = append(errs, fmt.Errorf("game.spawn4_prob must be within [0,1], got %v", c.Game.Spawn4Prob))
	}
	if strings.TrimSpace(c.Storage.DBPath) == "" {
		errs = append(errs, errors.New("storage.db_path is required"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, fmt.Errorf("session.ttl must be positive, got %v", c.Session.TTL))
	}
	if c.Session.Secret == "" && c.Session.Path != "" && c.Session.KeyPath == "" {
		errs = append(errs, errors.New("session.secret or session.key_path is required"))
	}
	if c.Leaderboard.Limit <= 0 {
		errs = append(errs, fmt.Errorf("leaderboard.limit must be positive, got %d", c.Leaderboard.Limit))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}
