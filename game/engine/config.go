package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateGameConfig validates a difficulty configuration for correctness
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if _, err := SuitsFor(config.Suits); err != nil {
		return fmt.Errorf("config validation: %v", err)
	}

	// Validate scoring
	if config.InitialScore < 0 || config.InitialScore > MaxStartScore {
		return fmt.Errorf("config validation: initial_score must be between 0 and %d, got %d", MaxStartScore, config.InitialScore)
	}
	if config.MoveCost < 0 {
		return fmt.Errorf("config validation: move_cost must not be negative, got %d", config.MoveCost)
	}
	if config.RunBonus < 0 {
		return fmt.Errorf("config validation: run_bonus must not be negative, got %d", config.RunBonus)
	}
	if config.UndoPenalty < 0 {
		return fmt.Errorf("config validation: undo_penalty must not be negative, got %d", config.UndoPenalty)
	}
	if config.HistoryLimit < 1 || config.HistoryLimit > MaxUndoLimit {
		return fmt.Errorf("config validation: history_limit must be between 1 and %d, got %d", MaxUndoLimit, config.HistoryLimit)
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Victory == "" {
		return fmt.Errorf("config validation: messages.victory is required")
	}
	if config.StrictDeal && config.Messages.DealBlocked == "" {
		return fmt.Errorf("config validation: messages.deal_blocked is required when strict_deal is true")
	}

	// Validate format strings
	if !strings.Contains(config.Messages.Victory, "%d") {
		return fmt.Errorf("config validation: messages.victory must contain %%d for the final score")
	}
	if config.Messages.RunCompleted != "" && !strings.Contains(config.Messages.RunCompleted, "%d") {
		return fmt.Errorf("config validation: messages.run_completed must contain %%d for the bonus")
	}

	return nil
}

// DefaultConfig returns the built-in one-suit configuration
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:         "One Suit",
		Description:  "Eight sets of spades. The gentlest spider.",
		Suits:        DefaultSuits,
		InitialScore: DefaultScore,
		MoveCost:     DefaultCost,
		RunBonus:     DefaultBonus,
		UndoPenalty:  DefaultUndo,
		HistoryLimit: DefaultLimit,
		Messages: ConfigMessages{
			Welcome:       "Welcome to Spooder Solitaire! Build King-to-Ace runs of one suit.",
			Moved:         "Moved.",
			InvalidMove:   "That run can't go there.",
			Dealt:         "Dealt a new row.",
			StockEmpty:    "The stock is empty.",
			DealBlocked:   "Fill every column before dealing.",
			RunCompleted:  "Run completed! +%d",
			Undone:        "Move undone.",
			NothingToUndo: "Nothing to undo.",
			Victory:       "You won with %d points!",
		},
	}
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// InitGameStateFromConfig creates an undealt game state for the configuration
func InitGameStateFromConfig(config *GameConfig) *GameState {
	if config == nil {
		config = DefaultConfig()
	}

	return &GameState{
		Columns:       make([][]Card, NumColumns),
		Stock:         []Card{},
		CompletedRuns: []Suit{},
		Score:         config.InitialScore,
		Moves:         0,
		Status:        StatusNotStarted,
		Difficulty:    config.Suits,
		Message:       config.Messages.Welcome,
		ConfigName:    config.Name,
		MoveHistory:   []MoveHistoryEntry{},
	}
}

// LoadConfigByName loads a difficulty configuration by name from the configs directory
func LoadConfigByName(configName string) (*GameConfig, error) {
	if !strings.HasSuffix(configName, ".json") {
		configName = configName + ".json"
	}

	configPath := filepath.Join("configs", configName)
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		configPath = filepath.Join(configDir, configName)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file '%s' not found", configName)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %v", configName, err)
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %v", configName, err)
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config '%s': %v", configName, err)
	}

	return &config, nil
}
