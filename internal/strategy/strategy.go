// Package strategy provides built-in autoplay strategies for the 2048 engine.
// Importing the package registers them with the registry.
package strategy

import (
	"math/rand"

	"github.com/vovakirdan/tile2048/internal/games/t2048"
	"github.com/vovakirdan/tile2048/internal/registry"
)

func init() {
	registry.Register(registry.StrategyInfo{
		ID:          "random",
		Title:       "Random",
		Description: "uniform over moves that change the board",
		Seeded:      true,
	}, func(seed int64) registry.Strategy {
		return NewRandom(seed)
	})
	registry.Register(registry.StrategyInfo{
		ID:          "greedy",
		Title:       "Greedy",
		Description: "highest merge score, then most empty cells",
	}, func(int64) registry.Strategy {
		return Greedy{}
	})
	registry.Register(registry.StrategyInfo{
		ID:          "corner",
		Title:       "Corner",
		Description: "keeps big tiles bottom-left: down, left, right, up",
	}, func(int64) registry.Strategy {
		return Corner{}
	})
}

// Random picks uniformly among directions that change the board.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a Random strategy with its own seeded stream.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) ID() string { return "random" }

func (r *Random) Choose(board t2048.Board) (t2048.Direction, bool) {
	var legal []t2048.Direction
	for _, dir := range t2048.Directions {
		if t2048.Slide(board, dir).Changed {
			legal = append(legal, dir)
		}
	}
	if len(legal) == 0 {
		return 0, false
	}
	return legal[r.rng.Intn(len(legal))], true
}

// Greedy maximizes the immediate merge score, then the number of empty
// cells left behind. Ties go to the earlier direction in t2048.Directions.
type Greedy struct{}

func (Greedy) ID() string { return "greedy" }

func (Greedy) Choose(board t2048.Board) (t2048.Direction, bool) {
	var (
		best      t2048.Direction
		bestScore = -1
		bestEmpty = -1
		found     bool
	)
	for _, dir := range t2048.Directions {
		res := t2048.Slide(board, dir)
		if !res.Changed {
			continue
		}
		empty := len(t2048.EmptyCells(res.Board))
		if res.Score > bestScore || (res.Score == bestScore && empty > bestEmpty) {
			best, bestScore, bestEmpty, found = dir, res.Score, empty, true
		}
	}
	return best, found
}

// cornerOrder keeps large tiles in the bottom-left corner.
var cornerOrder = [...]t2048.Direction{t2048.DirDown, t2048.DirLeft, t2048.DirRight, t2048.DirUp}

// Corner takes the first changing direction in the order down, left, right, up.
type Corner struct{}

func (Corner) ID() string { return "corner" }

func (Corner) Choose(board t2048.Board) (t2048.Direction, bool) {
	for _, dir := range cornerOrder {
		if t2048.Slide(board, dir).Changed {
			return dir, true
		}
	}
	return 0, false
}
