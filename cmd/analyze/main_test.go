package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/spooder-solitaire/game/engine"
)

func TestAnalyzeDeal(t *testing.T) {
	for _, suits := range []int{1, 2, 4} {
		config := engine.DefaultConfig()
		config.Suits = suits

		a, err := analyzeDeal(config, 7)
		if err != nil {
			t.Fatalf("analyzeDeal(%d suits) failed: %v", suits, err)
		}

		if len(a.FaceUp) != engine.NumColumns {
			t.Errorf("Expected %d face-up cards, got %d", engine.NumColumns, len(a.FaceUp))
		}
		if a.UsefulMoves > a.LegalMoves {
			t.Errorf("Useful moves (%d) cannot exceed legal moves (%d)", a.UsefulMoves, a.LegalMoves)
		}
		if a.SameSuitMoves > a.LegalMoves {
			t.Errorf("Same-suit moves (%d) cannot exceed legal moves (%d)", a.SameSuitMoves, a.LegalMoves)
		}

		total := 0
		for suit, n := range a.SuitCounts {
			total += n
			if suits == 1 && suit != engine.Spades {
				t.Errorf("One-suit deal shows %s", suit)
			}
		}
		if total != engine.NumColumns {
			t.Errorf("Suit counts should add up to %d, got %d", engine.NumColumns, total)
		}
		if len(a.SuitCounts) > suits {
			t.Errorf("Expected at most %d suits, got %d", suits, len(a.SuitCounts))
		}
	}
}

func TestAnalyzeDeal_Deterministic(t *testing.T) {
	config := engine.DefaultConfig()
	config.Suits = 4

	a, err := analyzeDeal(config, 42)
	if err != nil {
		t.Fatal(err)
	}
	b, err := analyzeDeal(config, 42)
	if err != nil {
		t.Fatal(err)
	}

	if formatAnalysis(a) != formatAnalysis(b) {
		t.Errorf("Same seed should analyze identically:\n%s\n%s", formatAnalysis(a), formatAnalysis(b))
	}
}

func TestFormatAnalysis(t *testing.T) {
	a := DealAnalysis{
		Seed: 3,
		FaceUp: []engine.Card{
			{Suit: engine.Spades, Rank: "K", Value: 13, FaceUp: true},
			{Suit: engine.Hearts, Rank: "Q", Value: 12, FaceUp: true},
		},
		LegalMoves:    4,
		UsefulMoves:   1,
		SameSuitMoves: 0,
		Kings:         1,
		SuitCounts:    map[engine.Suit]int{engine.Spades: 1, engine.Hearts: 1},
	}

	got := formatAnalysis(a)
	for _, want := range []string{"Seed 3:", "[K♠ Q♥]", "legal=4", "useful=1", "kings=1", "suits{hearts=1 spades=1}"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in %q", want, got)
		}
	}
}

func TestAnalyzeConfig_Files(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("analyzeConfig panicked: %v", r)
		}
	}()

	// Missing file and invalid JSON are reported, not fatal
	analyzeConfig("/non/existent/file.json", 2)

	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte(`{"name": "test", invalid json}`), 0644); err != nil {
		t.Fatal(err)
	}
	analyzeConfig(path, 2)

	shipped := filepath.Join("..", "..", "configs", "two_suits.json")
	if _, err := os.Stat(shipped); err == nil {
		analyzeConfig(shipped, 3)
	}
}
