// Command validate lints the difficulty configuration JSON files in a configs
// directory (../configs by default, or the first argument). Unlike the loader,
// which stops at the first problem, it reports every issue it finds:
//   - JSON structure and unknown keys
//   - Suit count (1, 2 or 4) and deck accounting
//   - Scoring constants (start score, move cost, run bonus, undo penalty, history limit)
//   - Required message keys and their format verbs
//
// A config that passes is also dealt once to confirm the engine accepts it.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/spooder-solitaire/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// requiredMessages are the message keys every configuration must define
var requiredMessages = []string{
	"welcome",
	"moved",
	"invalid_move",
	"dealt",
	"stock_empty",
	"run_completed",
	"undone",
	"nothing_to_undo",
	"victory",
}

// validateConfig loads and validates a single configuration JSON file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			result.fail("Unknown key: %v", err)
		} else {
			result.fail("Invalid JSON: %v", err)
		}
		return result
	}

	var raw struct {
		Messages map[string]string `json:"messages"`
	}
	json.Unmarshal(data, &raw)

	if config.Name == "" {
		result.fail("name is required")
	}
	if config.Description == "" {
		result.fail("description is required")
	}

	// Suits and deck accounting
	if _, err := engine.SuitsFor(config.Suits); err != nil {
		result.fail("suits: %v", err)
	} else if engine.TotalRuns%config.Suits != 0 {
		result.fail("suits: %d suits cannot share %d runs evenly", config.Suits, engine.TotalRuns)
	}

	// Scoring
	if config.InitialScore < 0 || config.InitialScore > engine.MaxStartScore {
		result.fail("initial_score must be between 0 and %d, got %d", engine.MaxStartScore, config.InitialScore)
	}
	if config.MoveCost < 0 {
		result.fail("move_cost must not be negative, got %d", config.MoveCost)
	}
	if config.RunBonus < 0 {
		result.fail("run_bonus must not be negative, got %d", config.RunBonus)
	}
	if config.UndoPenalty < 0 {
		result.fail("undo_penalty must not be negative, got %d", config.UndoPenalty)
	}
	if config.HistoryLimit < 1 || config.HistoryLimit > engine.MaxUndoLimit {
		result.fail("history_limit must be between 1 and %d, got %d", engine.MaxUndoLimit, config.HistoryLimit)
	}
	if config.RunBonus > 0 && config.MoveCost > config.RunBonus {
		result.fail("move_cost (%d) exceeds run_bonus (%d): completing a run could never pay off", config.MoveCost, config.RunBonus)
	}

	// Messages
	for _, key := range requiredMessages {
		if strings.TrimSpace(raw.Messages[key]) == "" {
			result.fail("Missing required message: %s", key)
		}
	}
	if config.StrictDeal && strings.TrimSpace(raw.Messages["deal_blocked"]) == "" {
		result.fail("Missing required message: deal_blocked (strict_deal is on)")
	}
	if config.Messages.Victory != "" && !strings.Contains(config.Messages.Victory, "%d") {
		result.fail("messages.victory must contain %%d for the final score")
	}
	if config.Messages.RunCompleted != "" && !strings.Contains(config.Messages.RunCompleted, "%d") {
		result.fail("messages.run_completed must contain %%d for the bonus")
	}

	if !result.Valid {
		return result
	}

	// Deal once to confirm the engine agrees
	if err := checkDeal(&config); err != nil {
		result.fail("Engine rejected config: %v", err)
		return result
	}

	result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Suits: %d (%d cards per suit)", config.Suits, engine.DeckSize/config.Suits))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Scoring: start %d, move -%d, run +%d, undo -%d", config.InitialScore, config.MoveCost, config.RunBonus, config.UndoPenalty))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Undo depth: %d", config.HistoryLimit))
	if config.StrictDeal {
		result.Errors = append(result.Errors, "✓ Strict deal: columns must be filled before dealing")
	}

	return result
}

// checkDeal starts a game with the config and verifies the card accounting
func checkDeal(config *engine.GameConfig) error {
	eng, err := engine.NewEngine(config)
	if err != nil {
		return err
	}
	if err := eng.Start(1); err != nil {
		return err
	}
	if n := eng.CardCount(); n != engine.DeckSize {
		return fmt.Errorf("deal accounts for %d cards, want %d", n, engine.DeckSize)
	}
	return nil
}

// main scans the configs directory for *.json files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}
	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No config files found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
