package service

import (
	"context"
	"time"

	"github.com/wricardo/spooder-solitaire/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error
	ExpireSessions(ctx context.Context, policy RetentionPolicy) int

	// Game Operations
	Move(ctx context.Context, sessionID string, from, to, count int) (*MoveResult, error)
	MoveFrom(ctx context.Context, sessionID string, from, index, to int) (*MoveResult, error)
	Deal(ctx context.Context, sessionID string) (*MoveResult, error)
	Undo(ctx context.Context, sessionID string) (*MoveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetHints(ctx context.Context, sessionID string) (*HintResponse, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error

	// Leaderboard
	SubmitScore(ctx context.Context, sessionID, name string) (*SubmitResult, error)
	FetchLeaderboard(ctx context.Context, difficulty int) (*LeaderboardResponse, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.GameConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
	CleanupExpiredSessions(policy RetentionPolicy) int
}

// ConfigManager handles difficulty configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session. The engine and LastAccessedAt are guarded by
// the service lock; readers must not modify either.
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
