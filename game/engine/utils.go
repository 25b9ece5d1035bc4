package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// FormatElapsed renders a duration as mm:ss, the format used on the leaderboard
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// CountFaceDown counts the face-down cards left on the tableau
func CountFaceDown(state *GameState) int {
	count := 0
	for _, col := range state.Columns {
		for _, c := range col {
			if !c.FaceUp {
				count++
			}
		}
	}
	return count
}

// CountEmptyColumns counts the columns without cards
func CountEmptyColumns(state *GameState) int {
	count := 0
	for _, col := range state.Columns {
		if len(col) == 0 {
			count++
		}
	}
	return count
}

// MoveRevealsCard reports whether taking the run leaves a face-down card on top of the source column
func MoveRevealsCard(state *GameState, m MoveOption) bool {
	col := state.Columns[m.From]
	rest := len(col) - m.Count
	return rest > 0 && !col[rest-1].FaceUp
}

// moveWeight scores a move for hinting. Higher is better; zero or below means the move
// only shuffles cards around without progress.
func moveWeight(state *GameState, m MoveOption) int {
	src := state.Columns[m.From]
	dst := state.Columns[m.To]
	rest := len(src) - m.Count
	weight := 0

	if MoveRevealsCard(state, m) {
		weight += 50
	}
	if rest == 0 && len(dst) > 0 {
		weight += 30
	}
	if len(dst) > 0 && dst[len(dst)-1].Suit == src[rest].Suit {
		weight += 20 + m.Count
	}
	if len(dst) == 0 {
		if rest == 0 {
			return 0
		}
		weight -= 10
	}
	// A run already sitting on its natural parent gains nothing by moving to an off-suit parent
	if rest > 0 && src[rest-1].FaceUp && src[rest-1].Value == src[rest].Value+1 {
		if len(dst) == 0 || dst[len(dst)-1].Suit != src[rest].Suit || src[rest-1].Suit == src[rest].Suit {
			return 0
		}
	}
	return weight + 1
}

// RankMoves orders moves from most to least promising and drops moves that make no progress
func RankMoves(state *GameState, moves []MoveOption) []MoveOption {
	type weighted struct {
		move   MoveOption
		weight int
	}
	var ranked []weighted
	for _, m := range moves {
		if w := moveWeight(state, m); w > 0 {
			ranked = append(ranked, weighted{m, w})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].weight > ranked[j].weight
	})

	out := make([]MoveOption, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.move)
	}
	return out
}

// DescribeColumn renders one column from bottom to top, e.g. "3: ## ## 9♠ 8♠"
func DescribeColumn(state *GameState, index int) string {
	if index < 0 || index >= len(state.Columns) {
		return fmt.Sprintf("%d: (no such column)", index)
	}
	col := state.Columns[index]
	if len(col) == 0 {
		return fmt.Sprintf("%d: (empty)", index)
	}
	parts := make([]string, len(col))
	for i, c := range col {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%d: %s", index, strings.Join(parts, " "))
}

// RenderTableau renders the whole board as text, one column per line
func RenderTableau(state *GameState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Score: %d  Moves: %d  Stock deals: %d  Runs: %d/%d\n",
		state.Score, state.Moves, (len(state.Stock)+NumColumns-1)/NumColumns, len(state.CompletedRuns), TotalRuns)
	for i := range state.Columns {
		b.WriteString(DescribeColumn(state, i))
		b.WriteByte('\n')
	}
	return b.String()
}
