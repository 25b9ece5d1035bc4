// Package service provides the business logic layer for Spooder Solitaire.
//
// The service package implements:
//   - Multi-session game management
//   - Difficulty configuration loading
//   - Move, deal and undo processing with derived events
//   - Move hints and paginated move history
//   - Leaderboard submission and retrieval
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages difficulty configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Every mutating operation runs under a single write lock and
// auto-saves the session when it succeeds. Leaderboard calls read the game state
// under the lock and talk to the board outside it, so a slow or failing board
// never blocks play or changes a game.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr := config.NewManager("configs")
//	board, _ := leaderboard.NewSQLiteBoard("leaderboard.db")
//	gameService := service.NewGameService(sessionMgr, configMgr, board)
//
//	sessionInfo, err := gameService.CreateSession(ctx, "two_suits")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, sessionInfo.ID, 3, 7, 2)
//
// Session Management:
//
// Sessions are identified by unique 4-character IDs and hold their own engine
// and seed. Reset re-deals the same seed.
package service
