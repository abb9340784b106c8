package t2048

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying  GameStateType = "playing"
	StateWon      GameStateType = "won"
	StateGameOver GameStateType = "game_over"
)

// Snapshot is an independent copy of the game state.
// Board is an array, so modifying it never affects the game.
type Snapshot struct {
	Board    Board         `yaml:"board"`
	Score    int           `yaml:"score"`
	Won      bool          `yaml:"won"`
	GameOver bool          `yaml:"game_over"`
	MaxTile  int           `yaml:"max_tile"`
	Moves    int           `yaml:"moves"`
	State    GameStateType `yaml:"state"`
}

// Snapshot returns the current game state.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.gameOver:
		state = StateGameOver
	case g.won:
		state = StateWon
	}

	return Snapshot{
		Board:    g.board,
		Score:    g.score,
		Won:      g.won,
		GameOver: g.gameOver,
		MaxTile:  MaxTile(g.board),
		Moves:    g.moves,
		State:    state,
	}
}
