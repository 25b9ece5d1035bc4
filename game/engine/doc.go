// Package engine provides the core game logic for Spooder Solitaire, a Spider solitaire variant.
//
// The engine package implements the game mechanics including:
//   - Deck construction and seeded shuffling for one, two or four suits
//   - Run validation and column drop rules
//   - Stock deals, completed-run removal and victory detection
//   - Scoring and a bounded undo history
//   - Configuration loading and validation
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState represents the tableau, stock and
// score, while GameConfig defines the difficulty and scoring rules loaded
// from JSON files.
//
// Usage:
//
//	config, err := engine.LoadConfigByName("two_suits")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := gameEngine.Start(42); err != nil {
//		log.Fatal(err)
//	}
//
//	// Move the top two cards of column 3 onto column 7
//	success := gameEngine.Move(3, 7, 2)
//	state := gameEngine.GetState()
//
// Game Rules:
//
// 104 cards are dealt into ten columns, 54 on the tableau and 50 in the stock.
// A face-up run of one suit in descending rank may be moved onto any card one
// rank higher, or onto an empty column. A King-to-Ace run of one suit is
// removed as soon as it forms, earning a bonus. The game is won once all eight
// runs have been removed.
package engine
