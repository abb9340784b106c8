// Package core holds the runtime parameters handed to the 2048 engine.
package core

// DefaultSpawn4Prob is the chance that a spawned tile is a 4 instead of a 2.
const DefaultSpawn4Prob = 0.10

// RuntimeConfig contains configuration passed to the engine at initialization.
// The seed makes spawn sequences reproducible. The zero value is not the
// default: a zero Spawn4Prob spawns only 2s. Start from DefaultConfig.
type RuntimeConfig struct {
	Seed       int64   // RNG seed; 0 means use current time
	Spawn4Prob float64 // Probability of spawning 4 instead of 2 (0.0-1.0)
}

// DefaultConfig returns a RuntimeConfig with a time-based seed and the
// standard 90/10 spawn odds.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		Seed:       0,
		Spawn4Prob: DefaultSpawn4Prob,
	}
}
