package leaderboard

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteBoard keeps each player's best score per difficulty in a SQLite database
type SQLiteBoard struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteBoard opens (creating if needed) the leaderboard database at path and migrates it
func NewSQLiteBoard(path string) (*SQLiteBoard, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open leaderboard database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	b := &SQLiteBoard{db: db, now: time.Now}
	if err := b.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

// Close closes the database connection
func (b *SQLiteBoard) Close() error {
	return b.db.Close()
}

// Migrate creates the scores table and its indexes
func (b *SQLiteBoard) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS scores (
			id TEXT PRIMARY KEY,
			player_key TEXT NOT NULL,
			name TEXT NOT NULL,
			score INTEGER NOT NULL,
			difficulty INTEGER NOT NULL,
			moves INTEGER NOT NULL,
			elapsed TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			UNIQUE (player_key, difficulty)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_difficulty_score ON scores(difficulty, score DESC)`,
	}

	for _, migration := range migrations {
		if _, err := b.db.Exec(migration); err != nil {
			return fmt.Errorf("leaderboard migration failed: %w", err)
		}
	}
	return nil
}

// Submit records entry if it beats the player's existing best for the difficulty
func (b *SQLiteBoard) Submit(ctx context.Context, entry Entry) (bool, error) {
	entry = Normalize(entry)
	if err := Validate(entry); err != nil {
		return false, err
	}

	key := PlayerKey(entry.Name)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = b.now().UTC()
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer tx.Rollback()

	var best int
	err = tx.QueryRowContext(ctx,
		`SELECT score FROM scores WHERE player_key = ? AND difficulty = ?`,
		key, entry.Difficulty).Scan(&best)
	switch {
	case err == sql.ErrNoRows:
		_, err = tx.ExecContext(ctx,
			`INSERT INTO scores (id, player_key, name, score, difficulty, moves, elapsed, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), key, entry.Name, entry.Score, entry.Difficulty, entry.Moves, entry.Elapsed, entry.CreatedAt)
	case err != nil:
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	case entry.Score <= best:
		return false, nil
	default:
		_, err = tx.ExecContext(ctx,
			`UPDATE scores SET name = ?, score = ?, moves = ?, elapsed = ?, created_at = ?
			 WHERE player_key = ? AND difficulty = ?`,
			entry.Name, entry.Score, entry.Moves, entry.Elapsed, entry.CreatedAt, key, entry.Difficulty)
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return true, nil
}

// Top returns the best scores for a difficulty, highest first
func (b *SQLiteBoard) Top(ctx context.Context, difficulty, limit int) ([]Entry, error) {
	if !ValidDifficulty(difficulty) {
		return nil, fmt.Errorf("%w: difficulty must be 1, 2 or 4, got %d", ErrInvalidEntry, difficulty)
	}

	rows, err := b.db.QueryContext(ctx,
		`SELECT id, name, score, difficulty, moves, elapsed, created_at
		 FROM scores WHERE difficulty = ?
		 ORDER BY score DESC, created_at ASC
		 LIMIT ?`,
		difficulty, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.Score, &e.Difficulty, &e.Moves, &e.Elapsed, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return entries, nil
}
