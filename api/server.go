package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	"github.com/wricardo/spooder-solitaire/game/engine"
	"github.com/wricardo/spooder-solitaire/game/service"
	"github.com/wricardo/spooder-solitaire/leaderboard"
	"github.com/wricardo/spooder-solitaire/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. hub may be nil when no live updates are wanted.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)

	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	// Table overview (must be before {id} pattern)
	api.HandleFunc("/sessions/unified", s.handleUnifiedSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Game operations
	api.HandleFunc("/sessions/{id}/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/sessions/{id}/move", s.handleMove).Methods("POST")
	api.HandleFunc("/sessions/{id}/deal", s.handleDeal).Methods("POST")
	api.HandleFunc("/sessions/{id}/undo", s.handleUndo).Methods("POST")
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods("POST")
	api.HandleFunc("/sessions/{id}/history", s.handleGetHistory).Methods("GET")
	api.HandleFunc("/sessions/{id}/hints", s.handleGetHints).Methods("GET")
	api.HandleFunc("/sessions/{id}/score", s.handleSubmitScore).Methods("POST")

	// Leaderboard
	api.HandleFunc("/leaderboard/{difficulty}", s.handleLeaderboard).Methods("GET")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs", s.handleCreateConfig).Methods("POST")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// leaderboardStatus maps leaderboard failures to HTTP status codes
func leaderboardStatus(err error) int {
	switch {
	case errors.Is(err, leaderboard.ErrInvalidEntry):
		return http.StatusBadRequest
	case errors.Is(err, leaderboard.ErrUnavailable):
		return http.StatusServiceUnavailable
	case strings.Contains(err.Error(), "session not found"):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// publish pushes the new state and any notable events to table watchers
func (s *Server) publish(sessionID string, result *service.MoveResult) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToSession(sessionID, result.GameState)
	for _, ev := range result.Events {
		switch ev.Type {
		case service.EventRunCompleted:
			s.hub.BroadcastEvent(sessionID, websocket.EventRunCompleted, ev)
		case service.EventVictory:
			s.hub.BroadcastEvent(sessionID, websocket.EventVictory, ev)
		}
	}
}

// logAction writes the compact per-action server log line
func logAction(r *http.Request, sessionID, action string, result *service.MoveResult) {
	status := "FAIL"
	if result.Success {
		status = "OK"
	}
	state := result.GameState
	log.Printf("[%s] session=%s req=%s score=%d moves=%d runs=%d/%d stock=%d status=%s",
		action, sessionID, middleware.GetReqID(r.Context()), state.Score, state.Moves,
		len(state.CompletedRuns), engine.TotalRuns, len(state.Stock), status)
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID   string `json:"config_id,omitempty"`
		ConfigName string `json:"config_name,omitempty"` // Deprecated, use config_id
	}

	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	// Support both new and old parameter names, but prefer config_id
	configID := req.ConfigID
	if configID == "" && req.ConfigName != "" {
		configID = req.ConfigName
	}

	session, err := s.service.CreateSession(r.Context(), configID)
	if err != nil {
		status := http.StatusInternalServerError
		if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Parse query parameters
	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	limit := total
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < total {
			limit = l
		}
	}
	sessions = sessions[:limit]

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Game Operation Handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.GetGameState(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, state)
}

// moveRequest accepts either a card count or the index of the first card to move
type moveRequest struct {
	From  *int `json:"from"`
	To    *int `json:"to"`
	Count int  `json:"count,omitempty"`
	Index *int `json:"index,omitempty"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.From == nil || req.To == nil {
		respondError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	var (
		result *service.MoveResult
		err    error
		action string
	)
	if req.Index != nil {
		result, err = s.service.MoveFrom(r.Context(), sessionID, *req.From, *req.Index, *req.To)
		action = fmt.Sprintf("MOVE %d[%d:]->%d", *req.From, *req.Index, *req.To)
	} else {
		count := req.Count
		if count == 0 {
			count = 1
		}
		result, err = s.service.Move(r.Context(), sessionID, *req.From, *req.To, count)
		action = fmt.Sprintf("MOVE %d->%d x%d", *req.From, *req.To, count)
	}
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	s.publish(sessionID, result)
	logAction(r, sessionID, action, result)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleDeal(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	result, err := s.service.Deal(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	s.publish(sessionID, result)
	logAction(r, sessionID, "DEAL", result)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	result, err := s.service.Undo(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	s.publish(sessionID, result)
	logAction(r, sessionID, "UNDO", result)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.Reset(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	if s.hub != nil {
		s.hub.BroadcastToSession(sessionID, state)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Game reset successfully",
		"state":   state,
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			opts.Page = p
		}
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}
	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetMoveHistory(r.Context(), sessionID, opts)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, history)
}

func (s *Server) handleGetHints(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	hints, err := s.service.GetHints(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, hints)
}

// Leaderboard Handlers

func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Name string `json:"name"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	result, err := s.service.SubmitScore(r.Context(), sessionID, req.Name)
	if err != nil {
		log.Printf("[SCORE] session=%s req=%s error=%v", sessionID, middleware.GetReqID(r.Context()), err)
		respondError(w, leaderboardStatus(err), err.Error())
		return
	}

	if s.hub != nil && result.Success {
		s.hub.BroadcastEvent(sessionID, websocket.EventScoreSubmitted, result.Entry)
	}
	log.Printf("[SCORE] session=%s name=%q score=%d accepted=%v", sessionID, result.Entry.Name, result.Entry.Score, result.Success)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	difficulty, err := strconv.Atoi(mux.Vars(r)["difficulty"])
	if err != nil || !leaderboard.ValidDifficulty(difficulty) {
		respondError(w, http.StatusBadRequest, "difficulty must be 1, 2 or 4")
		return
	}

	board, err := s.service.FetchLeaderboard(r.Context(), difficulty)
	if err != nil {
		respondError(w, leaderboardStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, board)
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	configName := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	config, err := s.service.LoadConfig(r.Context(), configName)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, config)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID string `json:"config_id,omitempty"`
		engine.GameConfig
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Config name is required")
		return
	}

	configID := req.ConfigID
	if configID == "" {
		configID = req.Name
	}

	gameConfig := req.GameConfig
	if err := s.service.SaveConfig(r.Context(), configID, &gameConfig); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to save config: %v", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Configuration saved successfully",
		"config_id": configID,
	})
}

// handleUnifiedSessions returns a compact overview of several tables at once
func (s *Server) handleUnifiedSessions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var sessions []*service.SessionInfo

	if sessionIDs := query.Get("sessionIds"); sessionIDs != "" {
		for _, id := range strings.Split(sessionIDs, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if session, err := s.service.GetSession(r.Context(), id); err == nil {
				sessions = append(sessions, session)
			}
		}
	} else {
		allSessions, err := s.service.ListSessions(r.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		configName := query.Get("configName")
		for _, session := range allSessions {
			if configName == "" || session.ConfigName == configName {
				sessions = append(sessions, session)
			}
		}
	}

	summaries := make([]map[string]interface{}, 0, len(sessions))
	for _, session := range sessions {
		state := session.GameState
		summaries = append(summaries, map[string]interface{}{
			"session_id":     session.ID,
			"config_name":    session.ConfigName,
			"status":         state.Status,
			"score":          state.Score,
			"moves":          state.Moves,
			"completed_runs": len(state.CompletedRuns),
			"stock_deals":    state.StockDeals,
			"elapsed":        state.Elapsed,
			"created_at":     session.CreatedAt,
			"last_accessed":  session.LastAccessedAt,
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"total_runs": engine.TotalRuns,
		"sessions":   summaries,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "live updates disabled", http.StatusServiceUnavailable)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
