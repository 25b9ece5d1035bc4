// Package websocket pushes live table updates for Spooder Solitaire.
//
// A central Hub tracks the clients watching each session. Every client gets a
// read pump, which only keeps the connection alive, and a write pump, which
// sends queued messages and pings the peer.
//
// Message Protocol:
//
// Outgoing frames are one JSON Message each:
//   - {"session_id": "ab12", "event": "state_update", "game_state": {...}} after every change
//   - {"session_id": "ab12", "event": "run_completed", "data": {...}} and the
//     "victory" and "score_submitted" events
//
// Clients connect with the session ID in the query string (/ws?session=ab12).
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	hub.BroadcastToSession(sessionID, state)
//	hub.BroadcastEvent(sessionID, websocket.EventVictory, result)
package websocket
