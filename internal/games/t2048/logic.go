package t2048

import (
	"fmt"
	"strings"
)

// Direction represents a move direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists all move directions in a fixed order.
var Directions = [...]Direction{DirUp, DirDown, DirLeft, DirRight}

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection parses a direction name ("up", "left", ...) or its first letter.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return DirUp, nil
	case "down", "d":
		return DirDown, nil
	case "left", "l":
		return DirLeft, nil
	case "right", "r":
		return DirRight, nil
	default:
		return 0, fmt.Errorf("t2048: unknown direction %q", s)
	}
}

// BoardSize is the board dimension.
const BoardSize = 4

// WinTile is the tile value that sets the won flag when produced by a merge.
const WinTile = 2048

// Board represents a 4x4 game board, indexed [row][col].
type Board [BoardSize][BoardSize]int

// Cell is a board coordinate.
type Cell struct {
	X, Y int // column, row
}

// line is the sequence of cells of one row or column, ordered from the
// leading edge of a move toward its trailing edge.
type line [BoardSize]Cell

// lineFor returns the i-th line traversed by a move in dir.
func lineFor(dir Direction, i int) line {
	var l line
	for k := range BoardSize {
		switch dir {
		case DirLeft:
			l[k] = Cell{X: k, Y: i}
		case DirRight:
			l[k] = Cell{X: BoardSize - 1 - k, Y: i}
		case DirUp:
			l[k] = Cell{X: i, Y: k}
		case DirDown:
			l[k] = Cell{X: i, Y: BoardSize - 1 - k}
		}
	}
	return l
}

// slideLine compacts and merges values toward index 0.
// A merged tile never merges again in the same move.
func slideLine(in [BoardSize]int) (out [BoardSize]int, score int, reached bool) {
	var tiles [BoardSize]int
	n := 0
	for _, v := range in {
		if v != 0 {
			tiles[n] = v
			n++
		}
	}

	w := 0
	for i := 0; i < n; {
		if i+1 < n && tiles[i] == tiles[i+1] {
			merged := tiles[i] * 2
			out[w] = merged
			score += merged
			if merged == WinTile {
				reached = true
			}
			i += 2
		} else {
			out[w] = tiles[i]
			i++
		}
		w++
	}

	return out, score, reached
}

// SlideResult is the outcome of sliding a board in one direction.
type SlideResult struct {
	Board       Board
	Score       int  // Sum of all merged tile values
	Changed     bool // Whether any cell differs from the input
	Reached2048 bool // Whether some merge produced WinTile
}

// Slide performs a move in the given direction without spawning.
// Unknown directions leave the board unchanged.
func Slide(board Board, dir Direction) SlideResult {
	res := SlideResult{Board: board}
	if dir < DirUp || dir > DirRight {
		return res
	}

	for i := range BoardSize {
		cells := lineFor(dir, i)

		var values [BoardSize]int
		for k, c := range cells {
			values[k] = board[c.Y][c.X]
		}

		slid, score, reached := slideLine(values)
		res.Score += score
		res.Reached2048 = res.Reached2048 || reached

		for k, c := range cells {
			if board[c.Y][c.X] != slid[k] {
				res.Changed = true
			}
			res.Board[c.Y][c.X] = slid[k]
		}
	}

	return res
}

// EmptyCells returns coordinates of all empty cells in row-major order.
func EmptyCells(board Board) []Cell {
	var cells []Cell
	for y := range BoardSize {
		for x := range BoardSize {
			if board[y][x] == 0 {
				cells = append(cells, Cell{X: x, Y: y})
			}
		}
	}
	return cells
}

// HasEmptyCell returns true if there's at least one empty cell.
func HasEmptyCell(board Board) bool {
	for y := range BoardSize {
		for x := range BoardSize {
			if board[y][x] == 0 {
				return true
			}
		}
	}
	return false
}

// HasPossibleMerge returns true if any two adjacent tiles hold the same value.
func HasPossibleMerge(board Board) bool {
	for y := range BoardSize {
		for x := range BoardSize {
			val := board[y][x]
			// Check right neighbor
			if x < BoardSize-1 && board[y][x+1] == val {
				return true
			}
			// Check bottom neighbor
			if y < BoardSize-1 && board[y+1][x] == val {
				return true
			}
		}
	}
	return false
}

// CanMove returns true if any move is possible.
func CanMove(board Board) bool {
	return HasEmptyCell(board) || HasPossibleMerge(board)
}

// IsGameOver returns true if no moves are possible.
func IsGameOver(board Board) bool {
	return !CanMove(board)
}

// MaxTile returns the maximum tile value on the board.
func MaxTile(board Board) int {
	maxVal := 0
	for y := range BoardSize {
		for x := range BoardSize {
			if board[y][x] > maxVal {
				maxVal = board[y][x]
			}
		}
	}
	return maxVal
}
