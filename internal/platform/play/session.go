// Package play runs a 2048 game on behalf of a signed-in (or anonymous)
// player and persists the final score when a game ends.
package play

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tile2048/internal/games/t2048"
	"github.com/vovakirdan/tile2048/internal/identity"
)

// ErrStorageUnavailable wraps every score store failure surfaced by a Session.
var ErrStorageUnavailable = errors.New("play: storage unavailable")

// Identity delivers the current account, then every change to it.
type Identity interface {
	Subscribe(fn identity.Listener) (unsubscribe func())
}

// ScoreStore persists finished games.
type ScoreStore interface {
	SaveScore(ctx context.Context, userID string, score int, board t2048.Board) (int64, error)
	BestScore(ctx context.Context, userID string) (int, error)
}

// Result describes the outcome of one move.
type Result struct {
	Changed  bool
	Snapshot t2048.Snapshot
	Saved    bool // The move ended the game and the score was stored
}

// Session couples a game with the player's identity and the score store.
type Session struct {
	game   *t2048.Game
	scores ScoreStore
	logger *log.Logger

	mu        sync.Mutex
	user      *identity.User
	best      int
	bestKnown bool

	unsubscribe func()
}

// New creates a session for game. The session follows identity changes
// until Close is called.
func New(game *t2048.Game, ids Identity, scores ScoreStore, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}

	s := &Session{
		game:   game,
		scores: scores,
		logger: logger,
	}
	s.unsubscribe = ids.Subscribe(s.identityChanged)
	return s
}

func (s *Session) identityChanged(u *identity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = u
	s.best = 0
	s.bestKnown = false
}

// Move applies dir to the game. When the move ends the game and a player is
// signed in, the final score and board are saved. A failed save is returned
// as an error wrapping ErrStorageUnavailable; the move itself stands.
func (s *Session) Move(ctx context.Context, dir t2048.Direction) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := Result{Changed: s.game.Move(dir)}
	res.Snapshot = s.game.Snapshot()

	if !res.Changed || !res.Snapshot.GameOver {
		return res, nil
	}

	if s.user == nil {
		s.logger.Debug("game over", "score", res.Snapshot.Score, "saved", false)
		return res, nil
	}

	if _, err := s.scores.SaveScore(ctx, s.user.ID, res.Snapshot.Score, res.Snapshot.Board); err != nil {
		s.logger.Error("failed to save score", "user", s.user.ID, "score", res.Snapshot.Score, "error", err)
		return res, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	res.Saved = true

	if s.bestKnown && res.Snapshot.Score > s.best {
		s.best = res.Snapshot.Score
	}
	s.logger.Info("score saved", "user", s.user.ID, "score", res.Snapshot.Score, "max_tile", res.Snapshot.MaxTile)
	return res, nil
}

// NewGame starts over with a fresh board.
func (s *Session) NewGame() t2048.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.game.Reset()
	return s.game.Snapshot()
}

// Restore continues from a saved position, for example the YAML printed by a
// previous game. Invalid positions are rejected and the game is left as is.
func (s *Session) Restore(snap t2048.Snapshot) (t2048.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.game.Restore(snap); err != nil {
		return s.game.Snapshot(), err
	}
	s.logger.Debug("position restored", "score", snap.Score, "max_tile", t2048.MaxTile(snap.Board))
	return s.game.Snapshot(), nil
}

// Snapshot returns the current game state.
func (s *Session) Snapshot() t2048.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot()
}

// User returns the player the session saves for, or nil when anonymous.
func (s *Session) User() *identity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// PersonalBest returns the larger of the player's stored best and the
// current score. Anonymous players only have the current score.
func (s *Session) PersonalBest(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.game.Snapshot().Score
	if s.user == nil {
		return current, nil
	}

	if !s.bestKnown {
		best, err := s.scores.BestScore(ctx, s.user.ID)
		if err != nil {
			return current, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		}
		s.best = best
		s.bestKnown = true
	}

	return max(s.best, current), nil
}

// Close stops following identity changes.
func (s *Session) Close() {
	s.unsubscribe()
}
