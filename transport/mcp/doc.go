// Package mcp exposes Spooder Solitaire to AI agents over the Model Context Protocol.
//
// The Client registers MCP tools and forwards every call to the REST API, so an
// agent always sees the same state as the browser or any other HTTP client.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session management
//   - game_state: the tableau rendered as text, one column per line
//   - move: move the last count cards of one column onto another
//   - deal, undo, reset_game: stock and history actions
//   - hints: legal moves ranked by usefulness
//   - describe_column: detail for one column (face-down cards, movable run)
//   - move_history: paginated action log
//   - list_configs: difficulty configurations
//   - submit_score, leaderboard: record and read high scores
//   - game_instructions: rules and strategy notes
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: POST /mcp on the main server, dispatched through HandleMessage
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
