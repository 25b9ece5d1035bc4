package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/spooder-solitaire/game/engine"
	"github.com/wricardo/spooder-solitaire/leaderboard"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	board    leaderboard.Board
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance. board may be nil, in which case
// leaderboard operations report leaderboard.ErrUnavailable.
func NewGameService(sessions SessionManager, configs ConfigManager, board leaderboard.Board) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		board:    board,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "one_suit"
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.CopyState(),
		GameConfig:     sess.Config,
	}
}

// CreateSession creates a new game session and deals a fresh game
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, configIDs)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations", configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.sessionInfo(sess, configName), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	return s.sessionInfo(sess, ""), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, ""))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// ExpireSessions applies the retention policy. It takes the write lock because telling won
// games apart reads their engines.
func (s *gameServiceImpl) ExpireSessions(ctx context.Context, policy RetentionPolicy) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.CleanupExpiredSessions(policy)
}

// Move moves the top count cards of column from onto column to
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, from, to, count int) (*MoveResult, error) {
	return s.mutate(sessionID, "move", func(eng *engine.GameEngine) (bool, []GameEvent) {
		ok := eng.Move(from, to, count)
		if !ok {
			return false, nil
		}
		col := to
		return true, []GameEvent{{
			Type:      EventMove,
			Message:   fmt.Sprintf("Moved %d card(s) from column %d to column %d", count, from, to),
			Timestamp: time.Now(),
			Column:    &col,
		}}
	})
}

// MoveFrom moves the cards of column from starting at index onto column to. The count is
// derived from the column under the same lock as the move.
func (s *gameServiceImpl) MoveFrom(ctx context.Context, sessionID string, from, index, to int) (*MoveResult, error) {
	return s.mutate(sessionID, "move", func(eng *engine.GameEngine) (bool, []GameEvent) {
		count := 0
		if columns := eng.GetState().Columns; from >= 0 && from < len(columns) {
			count = len(columns[from]) - index
		}
		if !eng.MoveFrom(from, index, to) {
			return false, nil
		}
		col := to
		return true, []GameEvent{{
			Type:      EventMove,
			Message:   fmt.Sprintf("Moved %d card(s) from column %d to column %d", count, from, to),
			Timestamp: time.Now(),
			Column:    &col,
		}}
	})
}

// Deal deals one row from the stock
func (s *gameServiceImpl) Deal(ctx context.Context, sessionID string) (*MoveResult, error) {
	return s.mutate(sessionID, "deal", func(eng *engine.GameEngine) (bool, []GameEvent) {
		ok := eng.Deal()
		if !ok {
			return false, nil
		}
		return true, []GameEvent{{
			Type:      EventDeal,
			Message:   fmt.Sprintf("Dealt a row, %d deal(s) left", eng.GetState().StockDeals),
			Timestamp: time.Now(),
		}}
	})
}

// Undo restores the previous snapshot
func (s *gameServiceImpl) Undo(ctx context.Context, sessionID string) (*MoveResult, error) {
	return s.mutate(sessionID, "undo", func(eng *engine.GameEngine) (bool, []GameEvent) {
		ok := eng.Undo()
		if !ok {
			return false, nil
		}
		return true, []GameEvent{{
			Type:      EventUndo,
			Message:   fmt.Sprintf("Undone, score is now %d", eng.GetScore()),
			Timestamp: time.Now(),
		}}
	})
}

// mutate runs op against a session under the write lock, derives run and victory events
// from the state change, and auto-saves the session
func (s *gameServiceImpl) mutate(sessionID, action string, op func(*engine.GameEngine) (bool, []GameEvent)) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	eng := sess.Engine
	runsBefore := len(eng.GetState().CompletedRuns)
	wonBefore := eng.IsWon()

	success, events := op(eng)
	state := eng.GetState()

	if success {
		if sealed := len(state.CompletedRuns) - runsBefore; sealed > 0 {
			events = append(events, GameEvent{
				Type:      EventRunCompleted,
				Message:   fmt.Sprintf("%d run(s) completed, %d/%d", sealed, len(state.CompletedRuns), engine.TotalRuns),
				Timestamp: time.Now(),
			})
		}
		if !wonBefore && eng.IsWon() {
			events = append(events, GameEvent{
				Type:      EventVictory,
				Message:   state.Message,
				Timestamp: time.Now(),
			})
		}

		// Auto-save session after every mutation
		if err := s.sessions.Save(sessionID); err != nil {
			log.Printf("Warning: Failed to persist session %s after %s: %v", sessionID, action, err)
		}
	}

	// The result is encoded and broadcast after the lock is released
	return &MoveResult{
		Success:       success,
		GameState:     eng.CopyState(),
		Message:       state.Message,
		Events:        events,
		PossibleMoves: eng.GetPossibleMoves(),
	}, nil
}

// Reset re-deals the session's seed
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	sess.Engine.Reset()
	state := sess.Engine.CopyState()

	// Auto-save session after reset
	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: Failed to persist session %s after reset: %v", sessionID, err)
	}

	return state, nil
}

// GetGameState retrieves a copy of the current game state. Reads do not count as access
// for expiry.
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	return sess.Engine.CopyState(), nil
}

// GetHints returns legal moves ranked by how much progress they make
func (s *gameServiceImpl) GetHints(ctx context.Context, sessionID string) (*HintResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	eng := sess.Engine
	state := eng.GetState()
	ranked := engine.RankMoves(state, eng.GetPossibleMoves())

	resp := &HintResponse{
		Moves:      ranked,
		CanDeal:    eng.CanDeal(),
		StockDeals: state.StockDeals,
		FaceDown:   engine.CountFaceDown(state),
	}
	if resp.Moves == nil {
		resp.Moves = []engine.MoveOption{}
	}

	switch {
	case state.Status == engine.StatusWon:
		resp.Suggestion = "The game is won. Submit your score!"
	case len(ranked) > 0:
		m := ranked[0]
		resp.Suggestion = fmt.Sprintf("Move %d card(s) from column %d to column %d", m.Count, m.From, m.To)
	case resp.CanDeal:
		resp.Suggestion = "No useful moves. Deal from the stock"
	default:
		resp.Suggestion = "No useful moves left. Try undo or reset"
	}

	return resp, nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = append(moves, history[start:end]...)
	}

	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available difficulty configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific difficulty configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a difficulty configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// SubmitScore posts the session's current score to the leaderboard. The game state is read
// under the lock; the network call happens outside it and never modifies the game.
func (s *gameServiceImpl) SubmitScore(ctx context.Context, sessionID, name string) (*SubmitResult, error) {
	s.mu.RLock()
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		s.mu.RUnlock()
		return nil, fmt.Errorf("session not found: %w", err)
	}
	state := sess.Engine.GetState()
	entry := leaderboard.Normalize(leaderboard.Entry{
		Name:       name,
		Score:      state.Score,
		Difficulty: state.Difficulty,
		Moves:      state.Moves,
		Elapsed:    engine.FormatElapsed(sess.Engine.Elapsed()),
		CreatedAt:  time.Now().UTC(),
	})
	s.mu.RUnlock()

	if s.board == nil {
		return nil, fmt.Errorf("%w: no leaderboard configured", leaderboard.ErrUnavailable)
	}

	ok, err := s.board.Submit(ctx, entry)
	if err != nil {
		return nil, err
	}

	result := &SubmitResult{Success: ok, Entry: entry}
	if ok {
		result.Message = fmt.Sprintf("Saved %d points for %s", entry.Score, entry.Name)
	} else {
		result.Message = fmt.Sprintf("%s already has a better score on this difficulty", entry.Name)
	}
	return result, nil
}

// FetchLeaderboard returns the top scores for a difficulty
func (s *gameServiceImpl) FetchLeaderboard(ctx context.Context, difficulty int) (*LeaderboardResponse, error) {
	if s.board == nil {
		return nil, fmt.Errorf("%w: no leaderboard configured", leaderboard.ErrUnavailable)
	}

	entries, err := s.board.Top(ctx, difficulty, leaderboard.TopN)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []leaderboard.Entry{}
	}

	return &LeaderboardResponse{Difficulty: difficulty, Entries: entries}, nil
}
