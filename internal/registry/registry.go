// Package registry provides a global registry for autoplay strategy factories.
// Strategies register themselves in init() functions, allowing the CLI
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/vovakirdan/tile2048/internal/games/t2048"
)

// Strategy chooses moves for a 2048 board.
// Strategies contain pure logic; the caller applies the chosen move.
type Strategy interface {
	ID() string

	// Choose picks the next direction for board.
	// ok is false when no direction changes the board.
	Choose(board t2048.Board) (dir t2048.Direction, ok bool)
}

// StrategyInfo describes a registered strategy.
type StrategyInfo struct {
	ID          string
	Title       string
	Description string
	Seeded      bool // Choices depend on the seed passed to Create
}

// Factory creates a new strategy instance seeded with seed.
type Factory func(seed int64) Strategy

type entry struct {
	info    StrategyInfo
	factory Factory
}

var (
	mu         sync.RWMutex
	strategies = make(map[string]entry)
)

// Register adds a strategy under info.ID. The factory is not called until
// Create. Panics on an empty or duplicate ID.
func Register(info StrategyInfo, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if info.ID == "" {
		panic("registry: strategy id is empty")
	}
	if _, exists := strategies[info.ID]; exists {
		panic(fmt.Sprintf("registry: strategy %q already registered", info.ID))
	}
	if info.Title == "" {
		info.Title = info.ID
	}

	strategies[info.ID] = entry{info: info, factory: f}
}

// List returns all registered strategies, sorted by ID.
func List() []StrategyInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]StrategyInfo, 0, len(strategies))
	for _, e := range strategies {
		result = append(result, e.info)
	}
	slices.SortFunc(result, func(a, b StrategyInfo) int {
		return strings.Compare(a.ID, b.ID)
	})
	return result
}

// Create instantiates a strategy by its ID.
func Create(id string, seed int64) (Strategy, error) {
	mu.RLock()
	e, ok := strategies[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown strategy %q", id)
	}
	return e.factory(seed), nil
}

// Exists checks if a strategy with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := strategies[id]
	return ok
}
