package engine

// Snapshot is a deep copy of the mutable game state saved before every mutating action
type Snapshot struct {
	Columns       [][]Card `json:"columns"`
	Stock         []Card   `json:"stock"`
	CompletedRuns []Suit   `json:"completed_runs"`
	Score         int      `json:"score"`
	Moves         int      `json:"moves"`
}

// CardCount returns the number of cards the snapshot accounts for
func (s Snapshot) CardCount() int {
	total := len(s.Stock) + RunLength*len(s.CompletedRuns)
	for _, col := range s.Columns {
		total += len(col)
	}
	return total
}

// History is a bounded undo stack. When full, the oldest snapshot is discarded.
type History struct {
	limit     int
	snapshots []Snapshot
}

// NewHistory creates an undo stack holding at most limit snapshots
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{limit: limit}
}

// Push saves a snapshot, evicting the oldest one beyond the limit
func (h *History) Push(s Snapshot) {
	h.snapshots = append(h.snapshots, s)
	if len(h.snapshots) > h.limit {
		h.snapshots = h.snapshots[len(h.snapshots)-h.limit:]
	}
}

// Pop removes and returns the most recent snapshot
func (h *History) Pop() (Snapshot, bool) {
	if len(h.snapshots) == 0 {
		return Snapshot{}, false
	}
	last := h.snapshots[len(h.snapshots)-1]
	h.snapshots = h.snapshots[:len(h.snapshots)-1]
	return last, true
}

// Len returns the number of saved snapshots
func (h *History) Len() int {
	return len(h.snapshots)
}

// Limit returns the maximum number of snapshots kept
func (h *History) Limit() int {
	return h.limit
}

// Clear drops all snapshots
func (h *History) Clear() {
	h.snapshots = nil
}

// Snapshots returns a copy of the saved snapshots, oldest first
func (h *History) Snapshots() []Snapshot {
	out := make([]Snapshot, len(h.snapshots))
	copy(out, h.snapshots)
	return out
}

// Restore replaces the stack contents, keeping only the newest snapshots within the limit
func (h *History) Restore(snapshots []Snapshot) {
	h.snapshots = nil
	for _, s := range snapshots {
		h.Push(s)
	}
}

// takeSnapshot deep copies the parts of state that undo restores
func takeSnapshot(state *GameState) Snapshot {
	return Snapshot{
		Columns:       cloneColumns(state.Columns),
		Stock:         cloneCards(state.Stock),
		CompletedRuns: append([]Suit(nil), state.CompletedRuns...),
		Score:         state.Score,
		Moves:         state.Moves,
	}
}

func cloneCards(cards []Card) []Card {
	if cards == nil {
		return []Card{}
	}
	out := make([]Card, len(cards))
	copy(out, cards)
	return out
}

func cloneColumns(columns [][]Card) [][]Card {
	out := make([][]Card, len(columns))
	for i, col := range columns {
		out[i] = cloneCards(col)
	}
	return out
}
