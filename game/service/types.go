package service

import (
	"time"

	"github.com/wricardo/spooder-solitaire/game/engine"
	"github.com/wricardo/spooder-solitaire/leaderboard"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// RetentionPolicy decides when idle sessions are expired. A game still in progress is
// abandoned once idle for Idle and removed from memory and storage. A won game is evicted
// from memory once idle for Won, but its file is kept so the result can be reloaded.
// A zero Won keeps won games loaded.
type RetentionPolicy struct {
	Idle time.Duration
	Won  time.Duration
}

// DefaultRetention is the policy the server runs with
var DefaultRetention = RetentionPolicy{
	Idle: 24 * time.Hour,
	Won:  7 * 24 * time.Hour,
}

// MoveResult contains the result of a move, deal or undo
type MoveResult struct {
	Success       bool                `json:"success"`
	GameState     *engine.GameState   `json:"game_state"`
	Message       string              `json:"message"`
	Events        []GameEvent         `json:"events,omitempty"`
	PossibleMoves []engine.MoveOption `json:"possible_moves,omitempty"`
}

// Event types reported in MoveResult.Events
const (
	EventMove         = "move"
	EventDeal         = "deal"
	EventRunCompleted = "run_completed"
	EventUndo         = "undo"
	EventVictory      = "victory"
	EventReset        = "reset"
)

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Column    *int      `json:"column,omitempty"`
}

// HintResponse lists legal moves, most promising first
type HintResponse struct {
	Moves      []engine.MoveOption `json:"moves"`
	CanDeal    bool                `json:"can_deal"`
	StockDeals int                 `json:"stock_deals"`
	FaceDown   int                 `json:"face_down"`
	Suggestion string              `json:"suggestion"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a difficulty configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Suits       int    `json:"suits"`
	StrictDeal  bool   `json:"strict_deal"`
	RunBonus    int    `json:"run_bonus"`
}

// SubmitResult reports the outcome of a leaderboard submission
type SubmitResult struct {
	Success bool              `json:"success"`
	Entry   leaderboard.Entry `json:"entry"`
	Message string            `json:"message"`
}

// LeaderboardResponse is the ranked list for one difficulty
type LeaderboardResponse struct {
	Difficulty int                 `json:"difficulty"`
	Entries    []leaderboard.Entry `json:"entries"`
}
