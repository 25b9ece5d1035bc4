// Package session keeps Spooder Solitaire games between requests.
//
// Manager holds the loaded sessions, each with its own engine, and writes them through to a
// SessionPersistence. FilePersistence stores one JSON file per session in a directory. A
// file carries the deal seed, the game status, the full state and the undo stack, so a game
// resumes after a restart with the same deal and the same undo depth.
//
// Loading:
//
// A stored game is rejected with ErrCorruptSession unless its state and every undo snapshot
// account for all 104 cards, its status is "playing" or "won" and agrees with the number of
// completed runs, and the seed in the file matches the state. LoadPersistedSessions skips
// such files at startup and renames them to <id>.json.corrupt.
//
// Expiry:
//
// CleanupExpiredSessions takes a service.RetentionPolicy. A game still in progress that has
// not been played for policy.Idle is abandoned: it is unloaded and its file deleted. A won
// game is only unloaded, after policy.Won, and its file is kept so the result can be reloaded
// by ID. Reading a game does not count as playing it.
//
// Concurrency:
//
// The manager's lock guards the session map. Engines are not guarded here; the game service
// serializes changes to them, and CleanupExpiredSessions and SaveAllSessions must run where
// no change can happen concurrently.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions", configs)
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(persistence)
//	if err := manager.LoadPersistedSessions(); err != nil {
//		log.Printf("Warning: %v", err)
//	}
//
//	sess, err := manager.CreateWithSeed("", config, 42)
package session
