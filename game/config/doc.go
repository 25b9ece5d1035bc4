// Package config provides difficulty configuration management for Spooder Solitaire.
//
// The config package handles:
//   - Loading difficulty configurations from JSON files
//   - Caching loaded configurations
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Each JSON file in the configs directory defines one difficulty: the suit
// count (1, 2 or 4), the scoring constants (starting score, move cost, run
// bonus, undo penalty), the undo history depth, whether dealing is blocked by
// empty columns, and the player-facing messages.
//
// Available Configurations:
//   - one_suit: eight sets of spades (default)
//   - two_suits: four sets each of spades and hearts
//   - four_suits: two sets of every suit
//   - classic_strict: two suits with the traditional empty-column deal rule
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("two_suits")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
package config
