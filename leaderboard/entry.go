package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
)

// TopN is the number of entries shown per difficulty
const TopN = 10

// DefaultName is used when a player submits without a name
const DefaultName = "Spooder"

const maxNameLength = 32

var (
	ErrInvalidEntry = errors.New("invalid leaderboard entry")
	ErrUnavailable  = errors.New("leaderboard unavailable")
)

// Entry is a single leaderboard score
type Entry struct {
	ID         string    `json:"id,omitempty"`
	Name       string    `json:"name"`
	Score      int       `json:"score"`
	Difficulty int       `json:"difficulty"`
	Moves      int       `json:"moves"`
	Elapsed    string    `json:"elapsed"`
	CreatedAt  time.Time `json:"created_at"`
}

// Board stores and ranks scores. Submit reports whether the entry was recorded;
// a submission that does not beat the player's existing best returns false.
type Board interface {
	Submit(ctx context.Context, entry Entry) (bool, error)
	Top(ctx context.Context, difficulty, limit int) ([]Entry, error)
}

// PlayerKey normalizes a display name into the identity used for deduplication:
// lowercased with all whitespace removed.
func PlayerKey(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, name)
}

// Normalize fills defaults: a blank name becomes DefaultName and long names are truncated
func Normalize(entry Entry) Entry {
	entry.Name = strings.TrimSpace(entry.Name)
	if entry.Name == "" {
		entry.Name = DefaultName
	}
	if r := []rune(entry.Name); len(r) > maxNameLength {
		entry.Name = string(r[:maxNameLength])
	}
	if entry.Elapsed == "" {
		entry.Elapsed = "00:00"
	}
	return entry
}

// Validate checks an entry after normalization
func Validate(entry Entry) error {
	if PlayerKey(entry.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidEntry)
	}
	if !ValidDifficulty(entry.Difficulty) {
		return fmt.Errorf("%w: difficulty must be 1, 2 or 4, got %d", ErrInvalidEntry, entry.Difficulty)
	}
	if entry.Score < 0 {
		return fmt.Errorf("%w: score must not be negative", ErrInvalidEntry)
	}
	if entry.Moves < 0 {
		return fmt.Errorf("%w: moves must not be negative", ErrInvalidEntry)
	}
	return nil
}

// ValidDifficulty reports whether difficulty is a supported suit count
func ValidDifficulty(difficulty int) bool {
	return difficulty == 1 || difficulty == 2 || difficulty == 4
}

// clampLimit bounds a requested page size to 1..TopN
func clampLimit(limit int) int {
	if limit <= 0 || limit > TopN {
		return TopN
	}
	return limit
}

// rank sorts entries by score descending, earliest first on ties, and truncates to limit
func rank(entries []Entry, limit int) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
