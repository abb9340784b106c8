package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/tile2048/internal/core"
)

//go:embed defaults/t2048.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	rt := core.DefaultConfig()
	return Config{
		Game: GameConfig{
			Seed:       rt.Seed,
			Spawn4Prob: rt.Spawn4Prob,
		},
		Storage: StorageConfig{
			DBPath: "~/.t2048/scores.db",
		},
		Session: SessionConfig{
			Path:       "~/.t2048/session",
			KeyPath:    "~/.t2048/session.key",
			TTL:        30 * 24 * time.Hour,
			BcryptCost: 10,
		},
		Log: LogConfig{
			Level:  "info",
			Prefix: "t2048",
		},
		Leaderboard: LeaderboardConfig{
			Limit: 10,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
