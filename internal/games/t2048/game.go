// Package t2048 implements the classic 2048 puzzle engine: a 4x4 board that
// slides, merges and spawns tiles in response to directional moves.
//
// The engine is a synchronous state machine with no I/O. A Game must not be
// used from more than one goroutine without external serialization.
package t2048

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tile2048/internal/core"
)

// Game implements the 2048 puzzle game.
type Game struct {
	rng        *rand.Rand
	seed       int64
	spawn4Prob float64

	board    Board
	score    int
	moves    int // State-changing moves since reset
	won      bool
	gameOver bool
}

// New creates a game and deals the two starting tiles.
func New(cfg core.RuntimeConfig) *Game {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Game{
		rng:        rand.New(rand.NewSource(seed)),
		seed:       seed,
		spawn4Prob: cfg.Spawn4Prob,
	}
	g.Reset()
	return g
}

// Seed returns the seed the game's random stream was created with.
func (g *Game) Seed() int64 {
	return g.seed
}

// Reset clears the board, score and flags and spawns two tiles.
// The random stream continues; it is not reseeded.
func (g *Game) Reset() {
	g.board = Board{}
	g.score = 0
	g.moves = 0
	g.won = false
	g.gameOver = false

	g.spawnTile()
	g.spawnTile()
}

// Move slides the board in dir. It reports whether the board changed.
// After a change one tile is spawned and the game-over condition is checked.
func (g *Game) Move(dir Direction) bool {
	if g.gameOver {
		return false
	}

	res := Slide(g.board, dir)
	if !res.Changed {
		// Board didn't change - don't spawn new tile
		return false
	}

	g.board = res.Board
	g.score += res.Score
	g.moves++
	if res.Reached2048 {
		g.won = true
	}

	g.spawnTile()

	if IsGameOver(g.board) {
		g.gameOver = true
	}

	return true
}

// spawnTile places a 2 (or a 4 with probability spawn4Prob) in a random empty cell.
// It returns false when the board is full.
func (g *Game) spawnTile() (Cell, bool) {
	emptyCells := EmptyCells(g.board)
	if len(emptyCells) == 0 {
		return Cell{}, false
	}

	cell := emptyCells[g.rng.Intn(len(emptyCells))]

	value := 2
	if g.rng.Float64() < g.spawn4Prob {
		value = 4
	}

	g.board[cell.Y][cell.X] = value
	return cell, true
}

// Restore replaces the game state with a previously taken snapshot.
// The board must hold only zeros and powers of two >= 2.
func (g *Game) Restore(s Snapshot) error {
	for y := range BoardSize {
		for x := range BoardSize {
			if v := s.Board[y][x]; v != 0 && !isTileValue(v) {
				return fmt.Errorf("t2048: invalid tile %d at (%d,%d)", v, x, y)
			}
		}
	}
	if s.Score < 0 {
		return fmt.Errorf("t2048: negative score %d", s.Score)
	}

	g.board = s.Board
	g.score = s.Score
	g.moves = s.Moves
	g.won = s.Won
	g.gameOver = s.GameOver || IsGameOver(s.Board)
	return nil
}

// isTileValue reports whether v is a power of two >= 2.
func isTileValue(v int) bool {
	return v >= 2 && v&(v-1) == 0
}
