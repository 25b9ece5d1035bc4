package engine

import "time"

// Suit identifies one of the four card suits
type Suit string

const (
	Spades   Suit = "spades"
	Hearts   Suit = "hearts"
	Clubs    Suit = "clubs"
	Diamonds Suit = "diamonds"
)

// Status is the lifecycle state of a game
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusPlaying    Status = "playing"
	StatusWon        Status = "won"
)

const (
	NumColumns    = 10
	RunLength     = 13
	DeckSize      = 104
	TotalRuns     = DeckSize / RunLength
	InitialDealt  = 54
	MaxRankValue  = 13
	MinRankValue  = 1
	MaxUndoLimit  = 100
	DefaultSuits  = 1
	DefaultScore  = 500
	DefaultCost   = 1
	DefaultBonus  = 100
	DefaultUndo   = 10
	DefaultLimit  = 20
	MaxStartScore = 100000
)

// InitialDealCounts is the number of cards dealt into each column at game start.
var InitialDealCounts = [NumColumns]int{6, 6, 6, 6, 5, 5, 5, 5, 5, 5}

// Card is a single playing card. Only FaceUp ever changes after the deck is built.
type Card struct {
	ID     string `json:"id"`
	Suit   Suit   `json:"suit"`
	Rank   string `json:"rank"`
	Value  int    `json:"value"`
	FaceUp bool   `json:"face_up"`
}

// GameConfig represents a difficulty configuration loaded from JSON
type GameConfig struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Suits        int    `json:"suits"`
	InitialScore int    `json:"initial_score"`
	MoveCost     int    `json:"move_cost"`
	RunBonus     int    `json:"run_bonus"`
	UndoPenalty  int    `json:"undo_penalty"`
	HistoryLimit int    `json:"history_limit"`
	// StrictDeal blocks dealing while any column is empty (traditional Spider rule).
	StrictDeal bool           `json:"strict_deal"`
	Messages   ConfigMessages `json:"messages"`
}

// ConfigMessages holds the player-facing messages for a configuration
type ConfigMessages struct {
	Welcome       string `json:"welcome"`
	Moved         string `json:"moved"`
	InvalidMove   string `json:"invalid_move"`
	Dealt         string `json:"dealt"`
	StockEmpty    string `json:"stock_empty"`
	DealBlocked   string `json:"deal_blocked"`
	RunCompleted  string `json:"run_completed"`
	Undone        string `json:"undone"`
	NothingToUndo string `json:"nothing_to_undo"`
	Victory       string `json:"victory"`
}

// GameState represents the complete game state
type GameState struct {
	Columns       [][]Card   `json:"columns"`
	Stock         []Card     `json:"stock"`
	CompletedRuns []Suit     `json:"completed_runs"`
	Score         int        `json:"score"`
	Moves         int        `json:"moves"`
	Status        Status     `json:"status"`
	Difficulty    int        `json:"difficulty"`
	Seed          int64      `json:"seed"`
	Message       string     `json:"message"`
	ConfigName    string     `json:"config_name"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	UndoDepth     int        `json:"undo_depth"`

	MoveHistory  []MoveHistoryEntry `json:"move_history"`
	TotalActions int                `json:"total_actions"`

	// Computed helper views (not required for core game logic)
	StockDeals int    `json:"stock_deals"`
	Elapsed    string `json:"elapsed,omitempty"`
}

// MoveOption is a legal run move from one column to another
type MoveOption struct {
	From  int `json:"from"`
	To    int `json:"to"`
	Count int `json:"count"`
}

// MoveHistoryEntry represents a single player action in the game history
type MoveHistoryEntry struct {
	Action       string `json:"action"` // "move", "deal", "undo"
	From         int    `json:"from"`
	To           int    `json:"to"`
	Count        int    `json:"count"`
	Score        int    `json:"score"`
	Timestamp    int64  `json:"timestamp"`
	Success      bool   `json:"success"`
	ActionNumber int    `json:"action_number"`
	RunsSealed   int    `json:"runs_sealed,omitempty"`
}
