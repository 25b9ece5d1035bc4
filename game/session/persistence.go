package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/wricardo/spooder-solitaire/game/engine"
	"github.com/wricardo/spooder-solitaire/game/service"
)

// ErrCorruptSession is returned when a stored game fails validation on load
var ErrCorruptSession = errors.New("corrupt session")

// saveFormat is written into every session file and checked on load
const saveFormat = 1

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// SavedGame is the on-disk form of a session. Seed and Status are stored next to the
// state so a file can be inspected, and so a state that disagrees with them is caught.
type SavedGame struct {
	Format         int               `json:"format"`
	ID             string            `json:"id"`
	ConfigID       string            `json:"config_id"`
	Seed           int64             `json:"seed"`
	Status         engine.Status     `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	State          *engine.GameState `json:"state"`

	// Undo is the undo stack, oldest first, so undo keeps working after a restart
	Undo []engine.Snapshot `json:"undo,omitempty"`
}

// newSavedGame captures a session. The caller must keep the engine from changing meanwhile.
func newSavedGame(sess *service.Session, configID string) SavedGame {
	state := sess.Engine.GetState()
	return SavedGame{
		Format:         saveFormat,
		ID:             sess.ID,
		ConfigID:       configID,
		Seed:           state.Seed,
		Status:         state.Status,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		State:          state,
		Undo:           sess.Engine.GetHistory().Snapshots(),
	}
}

// validate checks that a decoded game is playable: every card of the deck is present in the
// state and in each undo snapshot, and the status matches the completed runs.
func (g *SavedGame) validate() error {
	if g.Format != saveFormat {
		return fmt.Errorf("%w: unknown format %d", ErrCorruptSession, g.Format)
	}
	if g.State == nil {
		return fmt.Errorf("%w: no game state", ErrCorruptSession)
	}
	if g.State.Seed != g.Seed {
		return fmt.Errorf("%w: state seed %d does not match saved seed %d", ErrCorruptSession, g.State.Seed, g.Seed)
	}

	switch g.Status {
	case engine.StatusPlaying:
		if len(g.State.CompletedRuns) >= engine.TotalRuns {
			return fmt.Errorf("%w: game in progress with every run completed", ErrCorruptSession)
		}
	case engine.StatusWon:
		if len(g.State.CompletedRuns) != engine.TotalRuns {
			return fmt.Errorf("%w: won game with %d/%d runs", ErrCorruptSession, len(g.State.CompletedRuns), engine.TotalRuns)
		}
	default:
		return fmt.Errorf("%w: status %q", ErrCorruptSession, g.Status)
	}

	for i, snap := range g.Undo {
		if n := snap.CardCount(); n != engine.DeckSize {
			return fmt.Errorf("%w: undo snapshot %d holds %d cards", ErrCorruptSession, i, n)
		}
	}
	return nil
}

// restore builds an engine for the saved game and checks its card count
func (g *SavedGame) restore(config *engine.GameConfig) (*engine.GameEngine, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create game engine: %w", err)
	}

	g.State.Seed = g.Seed
	g.State.Status = g.Status
	if err := eng.SetState(g.State); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}
	if n := eng.CardCount(); n != engine.DeckSize {
		return nil, fmt.Errorf("%w: %d cards on the table, want %d", ErrCorruptSession, n, engine.DeckSize)
	}
	eng.RestoreHistory(g.Undo)

	return eng, nil
}
