// Package api provides the HTTP REST API for Spooder Solitaire.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"config_id": "two_suits"})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/unified - Compact overview of several tables
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/move - {"from": 3, "to": 7, "count": 2} or {"from": 3, "index": 4, "to": 7}
//   - POST /api/sessions/{id}/deal - Deal one row from the stock
//   - POST /api/sessions/{id}/undo - Undo the last move or deal
//   - POST /api/sessions/{id}/reset - Re-deal the same seed
//   - GET /api/sessions/{id}/history - Paginated move history (?page&limit&order)
//   - GET /api/sessions/{id}/hints - Legal moves, most useful first
//
// Leaderboard:
//   - POST /api/sessions/{id}/score - Submit the current score ({"name": "Alice"})
//   - GET /api/leaderboard/{difficulty} - Top scores for 1, 2 or 4 suits
//
// Configuration:
//   - GET /api/configs - List difficulty configurations
//   - POST /api/configs - Save a configuration
//   - GET /api/configs/{name} - Get one configuration
//
// Other:
//   - GET /health
//   - GET /ws?session={id} - WebSocket state updates
//
// A rejected move, deal or undo is not an HTTP error: the response is 200 with
// "success": false and the reason in "message". Errors are JSON objects with an
// "error" field. Leaderboard failures map to 400 (invalid entry), 503 (no board
// configured) or 502 (upstream failure).
//
// Every request passes through request ID, real IP and panic recovery middleware.
package api
