// Package storage provides SQLite-based persistence for accounts and 2048 scores.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/vovakirdan/tile2048/internal/games/t2048"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("storage: not found")

	// ErrEmailTaken is returned when an account with the same email exists.
	ErrEmailTaken = errors.New("storage: email already registered")
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// User is a stored account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// ScoreEntry represents a single stored score.
type ScoreEntry struct {
	ID        int64
	UserID    string
	Email     string // Owner's display label
	Score     int
	Board     t2048.Board
	CreatedAt time.Time
}

// UserStats contains aggregated statistics for one account.
type UserStats struct {
	UserID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, errors.New("storage: database path is required")
	}

	// Expand ~ to home directory
	if dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	dsn := filepath.Clean(dbPath) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			score INTEGER NOT NULL,
			board TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_scores_user_id ON scores(user_id, score DESC);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(score DESC, id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

// CreateUser inserts a new account. Email comparison is case-insensitive.
func (s *Store) CreateUser(ctx context.Context, u User) error {
	if u.ID == "" || u.Email == "" {
		return errors.New("storage: user id and email are required")
	}
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
		u.ID, normalizeEmail(u.Email), u.PasswordHash, toMillis(createdAt),
	)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("storage: cannot create user: %w", err)
	}
	return nil
}

// UserByEmail looks up an account by email.
func (s *Store) UserByEmail(ctx context.Context, email string) (User, error) {
	return s.queryUser(ctx, "SELECT id, email, password_hash, created_at FROM users WHERE email = ?", normalizeEmail(email))
}

// UserByID looks up an account by id.
func (s *Store) UserByID(ctx context.Context, id string) (User, error) {
	return s.queryUser(ctx, "SELECT id, email, password_hash, created_at FROM users WHERE id = ?", id)
}

func (s *Store) queryUser(ctx context.Context, query string, arg any) (User, error) {
	var u User
	var createdAt int64
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("storage: cannot query user: %w", err)
	}
	u.CreatedAt = fromMillis(createdAt)
	return u, nil
}

// SaveScore records a finished game for the given account.
// The board is stored opaquely as JSON. Returns the ID of the inserted record.
func (s *Store) SaveScore(ctx context.Context, userID string, score int, board t2048.Board) (int64, error) {
	if score < 0 {
		return 0, fmt.Errorf("storage: negative score %d", score)
	}
	boardJSON, err := json.Marshal(board)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot encode board: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO scores (user_id, score, board, created_at) VALUES (?, ?, ?, ?)",
		userID, score, string(boardJSON), toMillis(time.Now()),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// BestScore returns the highest stored score of an account.
// Returns 0 if the account has no scores.
func (s *Store) BestScore(ctx context.Context, userID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(score) FROM scores WHERE user_id = ?",
		userID,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// TopScores retrieves the top N scores across all accounts, each annotated
// with the owner's email. Equal scores keep insertion order.
func (s *Store) TopScores(ctx context.Context, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.user_id, u.email, s.score, s.board, s.created_at
		 FROM scores s
		 JOIN users u ON u.id = s.user_id
		 ORDER BY s.score DESC, s.id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	return scanScores(rows)
}

// UserScores retrieves the top N scores of one account.
func (s *Store) UserScores(ctx context.Context, userID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.user_id, u.email, s.score, s.board, s.created_at
		 FROM scores s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.user_id = ?
		 ORDER BY s.score DESC, s.id ASC
		 LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query user scores: %w", err)
	}
	defer rows.Close()

	return scanScores(rows)
}

func scanScores(rows *sql.Rows) ([]ScoreEntry, error) {
	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var boardJSON string
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.UserID, &e.Email, &e.Score, &boardJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if err := json.Unmarshal([]byte(boardJSON), &e.Board); err != nil {
			return nil, fmt.Errorf("storage: cannot decode board of score %d: %w", e.ID, err)
		}
		e.CreatedAt = fromMillis(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// Stats retrieves aggregated statistics for one account.
func (s *Store) Stats(ctx context.Context, userID string) (*UserStats, error) {
	stats := &UserStats{UserID: userID}

	var lastPlayed sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), MAX(created_at)
		 FROM scores WHERE user_id = ?`,
		userID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get user stats: %w", err)
	}
	if lastPlayed.Valid {
		stats.LastPlayed = fromMillis(lastPlayed.Int64)
	}

	return stats, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
