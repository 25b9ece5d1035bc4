package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/spooder-solitaire/game/config"
	"github.com/wricardo/spooder-solitaire/game/engine"
	"github.com/wricardo/spooder-solitaire/game/service"
	"github.com/wricardo/spooder-solitaire/game/session"
	"github.com/wricardo/spooder-solitaire/leaderboard"
	"github.com/wricardo/spooder-solitaire/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, configName string) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Game Operations
	MoveFunc     func(ctx context.Context, sessionID string, from, to, count int) (*service.MoveResult, error)
	MoveFromFunc func(ctx context.Context, sessionID string, from, index, to int) (*service.MoveResult, error)
	DealFunc     func(ctx context.Context, sessionID string) (*service.MoveResult, error)
	UndoFunc     func(ctx context.Context, sessionID string) (*service.MoveResult, error)
	ResetFunc    func(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameStateFunc   func(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetHintsFunc       func(ctx context.Context, sessionID string) (*service.HintResponse, error)
	GetMoveHistoryFunc func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error)

	// Configuration
	ListConfigsFunc func(ctx context.Context) ([]*service.ConfigInfo, error)
	LoadConfigFunc  func(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfigFunc  func(ctx context.Context, configName string, config *engine.GameConfig) error

	// Leaderboard
	SubmitScoreFunc      func(ctx context.Context, sessionID, name string) (*service.SubmitResult, error)
	FetchLeaderboardFunc func(ctx context.Context, difficulty int) (*service.LeaderboardResponse, error)
}

// Session Management
func (m *MockGameService) CreateSession(ctx context.Context, configName string) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, configName)
	}
	return &service.SessionInfo{
		ID:         "test-session",
		ConfigName: configName,
		CreatedAt:  time.Now(),
		GameState:  &engine.GameState{},
	}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{
		ID:         sessionID,
		ConfigName: "one_suit",
		CreatedAt:  time.Now(),
		GameState:  &engine.GameState{},
	}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

// Game Operations
func (m *MockGameService) Move(ctx context.Context, sessionID string, from, to, count int) (*service.MoveResult, error) {
	if m.MoveFunc != nil {
		return m.MoveFunc(ctx, sessionID, from, to, count)
	}
	return &service.MoveResult{
		Success:   true,
		GameState: &engine.GameState{},
	}, nil
}

func (m *MockGameService) MoveFrom(ctx context.Context, sessionID string, from, index, to int) (*service.MoveResult, error) {
	if m.MoveFromFunc != nil {
		return m.MoveFromFunc(ctx, sessionID, from, index, to)
	}
	return &service.MoveResult{
		Success:   true,
		GameState: &engine.GameState{},
	}, nil
}

func (m *MockGameService) ExpireSessions(ctx context.Context, policy service.RetentionPolicy) int {
	return 0
}

func (m *MockGameService) Deal(ctx context.Context, sessionID string) (*service.MoveResult, error) {
	if m.DealFunc != nil {
		return m.DealFunc(ctx, sessionID)
	}
	return &service.MoveResult{
		Success:   true,
		GameState: &engine.GameState{},
	}, nil
}

func (m *MockGameService) Undo(ctx context.Context, sessionID string) (*service.MoveResult, error) {
	if m.UndoFunc != nil {
		return m.UndoFunc(ctx, sessionID)
	}
	return &service.MoveResult{
		Success:   true,
		GameState: &engine.GameState{},
	}, nil
}

func (m *MockGameService) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

// Game State
func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

func (m *MockGameService) GetHints(ctx context.Context, sessionID string) (*service.HintResponse, error) {
	if m.GetHintsFunc != nil {
		return m.GetHintsFunc(ctx, sessionID)
	}
	return &service.HintResponse{Moves: []engine.MoveOption{}}, nil
}

func (m *MockGameService) GetMoveHistory(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
	if m.GetMoveHistoryFunc != nil {
		return m.GetMoveHistoryFunc(ctx, sessionID, opts)
	}
	return &service.HistoryResponse{
		Moves:      []engine.MoveHistoryEntry{},
		TotalMoves: 0,
		Page:       opts.Page,
		PageSize:   opts.Limit,
		TotalPages: 1,
	}, nil
}

// Configuration
func (m *MockGameService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*service.ConfigInfo{}, nil
}

func (m *MockGameService) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configName)
	}
	return &engine.GameConfig{
		Name:        configName,
		Description: "Test config",
	}, nil
}

func (m *MockGameService) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, configName, config)
	}
	return nil
}

// Leaderboard
func (m *MockGameService) SubmitScore(ctx context.Context, sessionID, name string) (*service.SubmitResult, error) {
	if m.SubmitScoreFunc != nil {
		return m.SubmitScoreFunc(ctx, sessionID, name)
	}
	return &service.SubmitResult{Success: true, Entry: leaderboard.Entry{Name: name}}, nil
}

func (m *MockGameService) FetchLeaderboard(ctx context.Context, difficulty int) (*service.LeaderboardResponse, error) {
	if m.FetchLeaderboardFunc != nil {
		return m.FetchLeaderboardFunc(ctx, difficulty)
	}
	return &service.LeaderboardResponse{Difficulty: difficulty, Entries: []leaderboard.Entry{}}, nil
}

// Test helpers
func setupTestServer(mockService *MockGameService) *Server {
	hub := websocket.NewHub()
	go hub.Run()
	return NewServer(mockService, hub)
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

func serve(server *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

// Session Management Tests

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]string
		setupMock      func(*MockGameService)
		expectedStatus int
		expectedConfig string
	}{
		{
			name:           "Create session with default config",
			requestBody:    nil,
			expectedStatus: http.StatusCreated,
			expectedConfig: "",
		},
		{
			name:           "Create session with config_id",
			requestBody:    map[string]string{"config_id": "two_suits"},
			expectedStatus: http.StatusCreated,
			expectedConfig: "two_suits",
		},
		{
			name:           "Create session with deprecated config_name",
			requestBody:    map[string]string{"config_name": "four_suits"},
			expectedStatus: http.StatusCreated,
			expectedConfig: "four_suits",
		},
		{
			name:        "Unknown config",
			requestBody: map[string]string{"config_id": "eight_suits"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("config '%s' not found. Available configs: [one_suit]", configName)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "Service failure",
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					return nil, errors.New("disk full")
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			var gotConfig string
			mockService.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
				gotConfig = configName
				return &service.SessionInfo{ID: "ab12", ConfigName: configName, GameState: &engine.GameState{}}, nil
			}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			w := serve(setupTestServer(mockService), makeRequest("POST", "/api/sessions", tt.requestBody))

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedStatus == http.StatusCreated {
				if gotConfig != tt.expectedConfig {
					t.Errorf("Expected config %q, got %q", tt.expectedConfig, gotConfig)
				}
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "ab12" {
					t.Errorf("Expected session ID ab12, got %s", resp.ID)
				}
			} else {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] == "" {
					t.Error("Expected error message in response")
				}
			}
		})
	}
}

func TestListSessions(t *testing.T) {
	now := time.Now()
	mockService := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "old", CreatedAt: now.Add(-2 * time.Hour), LastAccessedAt: now.Add(-time.Minute)},
				{ID: "new", CreatedAt: now, LastAccessedAt: now.Add(-time.Hour)},
				{ID: "mid", CreatedAt: now.Add(-time.Hour), LastAccessedAt: now},
			}, nil
		},
	}
	server := setupTestServer(mockService)

	tests := []struct {
		name      string
		query     string
		wantOrder []string
		wantTotal int
	}{
		{"default sorts by last access desc", "", []string{"mid", "old", "new"}, 3},
		{"created asc", "?sort=created&order=asc", []string{"old", "mid", "new"}, 3},
		{"limit", "?sort=created&limit=2", []string{"new", "mid"}, 3},
		{"bad limit ignored", "?limit=zero", []string{"mid", "old", "new"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(server, makeRequest("GET", "/api/sessions"+tt.query, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}

			var resp struct {
				Count    int                    `json:"count"`
				Total    int                    `json:"total"`
				Sessions []*service.SessionInfo `json:"sessions"`
			}
			parseResponse(t, w, &resp)

			if resp.Total != tt.wantTotal || resp.Count != len(tt.wantOrder) {
				t.Errorf("Expected count %d of %d, got %d of %d", len(tt.wantOrder), tt.wantTotal, resp.Count, resp.Total)
			}
			for i, id := range tt.wantOrder {
				if resp.Sessions[i].ID != id {
					t.Errorf("Position %d: expected %s, got %s", i, id, resp.Sessions[i].ID)
				}
			}
		})
	}
}

func TestGetAndDeleteSession(t *testing.T) {
	mockService := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			if sessionID != "ab12" {
				return nil, errors.New("session not found")
			}
			return &service.SessionInfo{ID: "ab12", GameState: &engine.GameState{Score: 500}}, nil
		},
		DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
			if sessionID != "ab12" {
				return errors.New("session not found")
			}
			return nil
		},
	}
	server := setupTestServer(mockService)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/api/sessions/ab12", http.StatusOK},
		{"GET", "/api/sessions/zzzz", http.StatusNotFound},
		{"DELETE", "/api/sessions/ab12", http.StatusOK},
		{"DELETE", "/api/sessions/zzzz", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := serve(server, makeRequest(tt.method, tt.path, nil))
			if w.Code != tt.want {
				t.Errorf("Expected status %d, got %d", tt.want, w.Code)
			}
		})
	}
}

// Game Operation Tests

func TestMove(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		wantCall       string
	}{
		{"count form", map[string]int{"from": 2, "to": 5, "count": 3}, http.StatusOK, "Move(2, 5, 3)"},
		{"count defaults to one", map[string]int{"from": 0, "to": 9}, http.StatusOK, "Move(0, 9, 1)"},
		{"index form", map[string]int{"from": 2, "index": 4, "to": 1}, http.StatusOK, "MoveFrom(2, 4, 1)"},
		{"index zero", map[string]int{"from": 3, "index": 0, "to": 7}, http.StatusOK, "MoveFrom(3, 0, 7)"},
		{"missing to", map[string]int{"from": 2}, http.StatusBadRequest, ""},
		{"invalid body", "not json", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []string
			mockService := &MockGameService{
				GetGameStateFunc: func(ctx context.Context, sessionID string) (*engine.GameState, error) {
					calls = append(calls, "GetGameState")
					return &engine.GameState{}, nil
				},
				MoveFunc: func(ctx context.Context, sessionID string, from, to, count int) (*service.MoveResult, error) {
					calls = append(calls, fmt.Sprintf("Move(%d, %d, %d)", from, to, count))
					return &service.MoveResult{Success: true, GameState: &engine.GameState{Moves: 1}}, nil
				},
				MoveFromFunc: func(ctx context.Context, sessionID string, from, index, to int) (*service.MoveResult, error) {
					calls = append(calls, fmt.Sprintf("MoveFrom(%d, %d, %d)", from, index, to))
					return &service.MoveResult{Success: true, GameState: &engine.GameState{Moves: 1}}, nil
				},
			}

			w := serve(setupTestServer(mockService), makeRequest("POST", "/api/sessions/ab12/move", tt.body))

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.wantCall == "" {
				if len(calls) != 0 {
					t.Errorf("Expected no service calls, got %v", calls)
				}
				return
			}
			// one call only: the count for the index form is resolved inside the service
			if len(calls) != 1 || calls[0] != tt.wantCall {
				t.Errorf("Expected [%s], got %v", tt.wantCall, calls)
			}
		})
	}

	t.Run("index form on a missing session", func(t *testing.T) {
		mockService := &MockGameService{
			MoveFromFunc: func(ctx context.Context, sessionID string, from, index, to int) (*service.MoveResult, error) {
				return nil, fmt.Errorf("session not found: %s", sessionID)
			},
		}
		w := serve(setupTestServer(mockService), makeRequest("POST", "/api/sessions/zz99/move", map[string]int{"from": 1, "index": 2, "to": 3}))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}

func TestMoveBroadcastsEvents(t *testing.T) {
	mockService := &MockGameService{
		MoveFunc: func(ctx context.Context, sessionID string, from, to, count int) (*service.MoveResult, error) {
			return &service.MoveResult{
				Success:   true,
				GameState: &engine.GameState{Status: engine.StatusWon},
				Events: []service.GameEvent{
					{Type: service.EventMove},
					{Type: service.EventRunCompleted},
					{Type: service.EventVictory},
				},
			}, nil
		},
	}
	server := setupTestServer(mockService)

	w := serve(server, makeRequest("POST", "/api/sessions/ab12/move", map[string]int{"from": 1, "to": 0, "count": 1}))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp service.MoveResult
	parseResponse(t, w, &resp)
	if len(resp.Events) != 3 || resp.GameState.Status != engine.StatusWon {
		t.Errorf("Unexpected move result: %+v", resp)
	}
}

func TestDealUndoReset(t *testing.T) {
	calls := map[string]int{}
	mockService := &MockGameService{
		DealFunc: func(ctx context.Context, sessionID string) (*service.MoveResult, error) {
			calls["deal"]++
			return &service.MoveResult{Success: false, Message: "No cards left to deal", GameState: &engine.GameState{}}, nil
		},
		UndoFunc: func(ctx context.Context, sessionID string) (*service.MoveResult, error) {
			calls["undo"]++
			return &service.MoveResult{Success: true, GameState: &engine.GameState{Score: 490}}, nil
		},
		ResetFunc: func(ctx context.Context, sessionID string) (*engine.GameState, error) {
			calls["reset"]++
			if sessionID == "gone" {
				return nil, errors.New("session not found")
			}
			return &engine.GameState{Score: 500}, nil
		},
	}
	server := setupTestServer(mockService)

	w := serve(server, makeRequest("POST", "/api/sessions/ab12/deal", nil))
	var deal service.MoveResult
	parseResponse(t, w, &deal)
	if w.Code != http.StatusOK || deal.Success || deal.Message == "" {
		t.Errorf("Expected rejected deal reported in body, got %d %+v", w.Code, deal)
	}

	w = serve(server, makeRequest("POST", "/api/sessions/ab12/undo", nil))
	var undo service.MoveResult
	parseResponse(t, w, &undo)
	if w.Code != http.StatusOK || undo.GameState.Score != 490 {
		t.Errorf("Unexpected undo response: %d %+v", w.Code, undo)
	}

	w = serve(server, makeRequest("POST", "/api/sessions/ab12/reset", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Game reset successfully") {
		t.Errorf("Unexpected reset response: %d %s", w.Code, w.Body.String())
	}

	w = serve(server, makeRequest("POST", "/api/sessions/gone/reset", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing session, got %d", w.Code)
	}

	if calls["deal"] != 1 || calls["undo"] != 1 || calls["reset"] != 2 {
		t.Errorf("Unexpected call counts: %v", calls)
	}
}

func TestGetHistory(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantOpts service.HistoryOptions
	}{
		{"defaults", "", service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
		{"explicit", "?page=3&limit=5&order=asc", service.HistoryOptions{Page: 3, Limit: 5, Order: "asc"}},
		{"invalid values ignored", "?page=-1&limit=abc&order=sideways", service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got service.HistoryOptions
			mockService := &MockGameService{
				GetMoveHistoryFunc: func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
					got = opts
					return &service.HistoryResponse{Moves: []engine.MoveHistoryEntry{}}, nil
				},
			}

			w := serve(setupTestServer(mockService), makeRequest("GET", "/api/sessions/ab12/history"+tt.query, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			if got != tt.wantOpts {
				t.Errorf("Expected options %+v, got %+v", tt.wantOpts, got)
			}
		})
	}
}

func TestGetHints(t *testing.T) {
	mockService := &MockGameService{
		GetHintsFunc: func(ctx context.Context, sessionID string) (*service.HintResponse, error) {
			return &service.HintResponse{
				Moves:      []engine.MoveOption{{From: 3, To: 7, Count: 2}},
				CanDeal:    true,
				StockDeals: 5,
				Suggestion: "Move 2 card(s) from column 3 to column 7",
			}, nil
		},
	}

	w := serve(setupTestServer(mockService), makeRequest("GET", "/api/sessions/ab12/hints", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp service.HintResponse
	parseResponse(t, w, &resp)
	if len(resp.Moves) != 1 || resp.Moves[0].To != 7 || !resp.CanDeal {
		t.Errorf("Unexpected hints: %+v", resp)
	}
}

func TestGetGameState(t *testing.T) {
	mockService := &MockGameService{
		GetGameStateFunc: func(ctx context.Context, sessionID string) (*engine.GameState, error) {
			if sessionID == "missing" {
				return nil, errors.New("session not found")
			}
			return &engine.GameState{Score: 512, Moves: 30, Status: engine.StatusPlaying}, nil
		},
	}
	server := setupTestServer(mockService)

	w := serve(server, makeRequest("GET", "/api/sessions/ab12/state", nil))
	var state engine.GameState
	parseResponse(t, w, &state)
	if w.Code != http.StatusOK || state.Score != 512 {
		t.Errorf("Unexpected state response: %d %+v", w.Code, state)
	}

	w = serve(server, makeRequest("GET", "/api/sessions/missing/state", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

// Leaderboard Tests

func TestSubmitScore(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"accepted", nil, http.StatusOK},
		{"invalid entry", fmt.Errorf("%w: difficulty must be 1, 2 or 4", leaderboard.ErrInvalidEntry), http.StatusBadRequest},
		{"board unavailable", fmt.Errorf("%w: no leaderboard configured", leaderboard.ErrUnavailable), http.StatusServiceUnavailable},
		{"missing session", errors.New("session not found: gone"), http.StatusNotFound},
		{"upstream failure", errors.New("dreamlo returned 500"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotName string
			mockService := &MockGameService{
				SubmitScoreFunc: func(ctx context.Context, sessionID, name string) (*service.SubmitResult, error) {
					gotName = name
					if tt.err != nil {
						return nil, tt.err
					}
					return &service.SubmitResult{Success: true, Entry: leaderboard.Entry{Name: name, Score: 612}}, nil
				},
			}

			w := serve(setupTestServer(mockService), makeRequest("POST", "/api/sessions/ab12/score", map[string]string{"name": "Alice"}))
			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if gotName != "Alice" {
				t.Errorf("Expected name Alice, got %q", gotName)
			}
		})
	}
}

func TestLeaderboard(t *testing.T) {
	mockService := &MockGameService{
		FetchLeaderboardFunc: func(ctx context.Context, difficulty int) (*service.LeaderboardResponse, error) {
			if difficulty == 4 {
				return nil, fmt.Errorf("%w: timeout", leaderboard.ErrUnavailable)
			}
			return &service.LeaderboardResponse{
				Difficulty: difficulty,
				Entries:    []leaderboard.Entry{{Name: "Alice", Score: 700, Difficulty: difficulty}},
			}, nil
		},
	}
	server := setupTestServer(mockService)

	tests := []struct {
		path string
		want int
	}{
		{"/api/leaderboard/1", http.StatusOK},
		{"/api/leaderboard/2", http.StatusOK},
		{"/api/leaderboard/3", http.StatusBadRequest},
		{"/api/leaderboard/hard", http.StatusBadRequest},
		{"/api/leaderboard/4", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := serve(server, makeRequest("GET", tt.path, nil))
			if w.Code != tt.want {
				t.Errorf("Expected status %d, got %d", tt.want, w.Code)
			}
		})
	}
}

// Configuration Tests

func TestConfigs(t *testing.T) {
	saved := map[string]*engine.GameConfig{}
	mockService := &MockGameService{
		ListConfigsFunc: func(ctx context.Context) ([]*service.ConfigInfo, error) {
			return []*service.ConfigInfo{{ConfigID: "one_suit", Name: "One Suit", Suits: 1}}, nil
		},
		LoadConfigFunc: func(ctx context.Context, configName string) (*engine.GameConfig, error) {
			if configName != "one_suit" {
				return nil, errors.New("configuration not found")
			}
			return engine.DefaultConfig(), nil
		},
		SaveConfigFunc: func(ctx context.Context, configName string, config *engine.GameConfig) error {
			if err := engine.ValidateGameConfig(config); err != nil {
				return err
			}
			saved[configName] = config
			return nil
		},
	}
	server := setupTestServer(mockService)

	w := serve(server, makeRequest("GET", "/api/configs", nil))
	var configs []*service.ConfigInfo
	parseResponse(t, w, &configs)
	if len(configs) != 1 || configs[0].ConfigID != "one_suit" {
		t.Errorf("Unexpected config list: %s", w.Body.String())
	}

	if w := serve(server, makeRequest("GET", "/api/configs/one_suit.json", nil)); w.Code != http.StatusOK {
		t.Errorf("Expected .json suffix to be stripped, got %d", w.Code)
	}
	if w := serve(server, makeRequest("GET", "/api/configs/nope", nil)); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing config, got %d", w.Code)
	}

	custom := engine.DefaultConfig()
	custom.Name = "Custom"
	custom.Suits = 4
	body := map[string]interface{}{}
	raw, _ := json.Marshal(custom)
	json.Unmarshal(raw, &body)
	body["config_id"] = "custom"

	w = serve(server, makeRequest("POST", "/api/configs", body))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if saved["custom"] == nil || saved["custom"].Suits != 4 {
		t.Errorf("Expected config saved under custom, got %v", saved)
	}

	w = serve(server, makeRequest("POST", "/api/configs", map[string]interface{}{"name": "Broken", "suits": 3}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid config, got %d", w.Code)
	}

	w = serve(server, makeRequest("POST", "/api/configs", map[string]interface{}{"suits": 1}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without a name, got %d", w.Code)
	}
}

func TestUnifiedSessions(t *testing.T) {
	mockService := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "a", ConfigName: "one_suit", GameState: &engine.GameState{Score: 500, CompletedRuns: []engine.Suit{engine.Spades}}},
				{ID: "b", ConfigName: "two_suits", GameState: &engine.GameState{Score: 480}},
			}, nil
		},
	}
	server := setupTestServer(mockService)

	tests := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"?configName=two_suits", 1},
		{"?sessionIds=a,b,,c", 3},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := serve(server, makeRequest("GET", "/api/sessions/unified"+tt.query, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			var resp struct {
				TotalRuns int                      `json:"total_runs"`
				Sessions  []map[string]interface{} `json:"sessions"`
			}
			parseResponse(t, w, &resp)
			if resp.TotalRuns != engine.TotalRuns {
				t.Errorf("Expected total_runs %d, got %d", engine.TotalRuns, resp.TotalRuns)
			}
			if len(resp.Sessions) != tt.want {
				t.Errorf("Expected %d sessions, got %d", tt.want, len(resp.Sessions))
			}
		})
	}
}

func TestHealthAndMiddleware(t *testing.T) {
	server := setupTestServer(&MockGameService{})

	w := serve(server, makeRequest("GET", "/health", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "healthy") {
		t.Errorf("Unexpected health response: %d %s", w.Code, w.Body.String())
	}

	panicking := &MockGameService{
		GetGameStateFunc: func(ctx context.Context, sessionID string) (*engine.GameState, error) {
			panic("boom")
		},
	}
	w = serve(setupTestServer(panicking), makeRequest("GET", "/api/sessions/ab12/state", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected recovered panic to return 500, got %d", w.Code)
	}
}

func TestWebSocket(t *testing.T) {
	mockService := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			if sessionID != "ab12" {
				return nil, errors.New("session not found")
			}
			return &service.SessionInfo{ID: sessionID}, nil
		},
	}
	server := setupTestServer(mockService)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"missing session parameter", "/ws", http.StatusBadRequest},
		{"unknown session", "/ws?session=zzzz", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(server, makeRequest("GET", tt.path, nil))
			if w.Code != tt.want {
				t.Errorf("Expected status %d, got %d", tt.want, w.Code)
			}
		})
	}

	noHub := NewServer(mockService, nil)
	if w := serve(noHub, makeRequest("GET", "/ws?session=ab12", nil)); w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 without a hub, got %d", w.Code)
	}
}

// TestConcurrentPlayAndBroadcast plays one session from several clients over the real service
// while the hub encodes every state it is handed. Run with -race.
func TestConcurrentPlayAndBroadcast(t *testing.T) {
	configs, err := config.NewManager("../configs")
	if err != nil {
		t.Skipf("Skipping test - configs directory not available: %v", err)
	}
	svc := service.NewGameService(session.NewManager(), configs, nil)
	hub := websocket.NewHub()
	go hub.Run()
	server := NewServer(svc, hub)

	w := serve(server, makeRequest("POST", "/api/sessions", map[string]string{"config_id": "two_suits"}))
	var info service.SessionInfo
	parseResponse(t, w, &info)
	base := "/api/sessions/" + info.ID

	requests := []struct {
		method, path string
		body         interface{}
	}{
		{"POST", base + "/deal", nil},
		{"POST", base + "/move", map[string]int{"from": 0, "index": 5, "to": 1}},
		{"POST", base + "/move", map[string]int{"from": 3, "to": 4, "count": 1}},
		{"POST", base + "/undo", nil},
		{"GET", base + "/state", nil},
		{"GET", base + "/hints", nil},
		{"GET", base, nil},
	}

	var wg sync.WaitGroup
	for c := 0; c < 6; c++ {
		wg.Add(1)
		go func(c int) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				req := requests[(c+i)%len(requests)]
				if w := serve(server, makeRequest(req.method, req.path, req.body)); w.Code != http.StatusOK {
					t.Errorf("%s %s: status %d", req.method, req.path, w.Code)
				}
			}
		}(c)
	}
	wg.Wait()

	w = serve(server, makeRequest("GET", base+"/state", nil))
	var state engine.GameState
	parseResponse(t, w, &state)
	total := len(state.Stock) + engine.RunLength*len(state.CompletedRuns)
	for _, col := range state.Columns {
		total += len(col)
	}
	if total != engine.DeckSize {
		t.Errorf("Expected a full deck after concurrent play, got %d cards", total)
	}
}
