package engine

import (
	"fmt"
	"math/rand"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	Start(seed int64) error
	Reset() *GameState
	GetState() *GameState
	CopyState() *GameState
	SetState(state *GameState) error
	IsWon() bool
	GetScore() int
	GetMoves() int
	Elapsed() time.Duration
	CardCount() int

	// Tableau operations
	Move(from, to, count int) bool
	MoveFrom(from, index, to int) bool
	CanMove(from, to, count int) bool
	Deal() bool
	CanDeal() bool
	Undo() bool
	GetPossibleMoves() []MoveOption

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// History
	GetHistory() *History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine implements the Engine interface
type GameEngine struct {
	state   *GameState
	config  *GameConfig
	history *History
	now     func() time.Time
}

// NewEngine creates a new, undealt game engine with the provided configuration
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	return &GameEngine{
		config:  config,
		state:   InitGameStateFromConfig(config),
		history: NewHistory(config.HistoryLimit),
		now:     time.Now,
	}, nil
}

// NewEngineWithDefaults creates a new game engine with the built-in one-suit configuration
func NewEngineWithDefaults() *GameEngine {
	config := DefaultConfig()
	return &GameEngine{
		config:  config,
		state:   InitGameStateFromConfig(config),
		history: NewHistory(config.HistoryLimit),
		now:     time.Now,
	}
}

// Start shuffles a fresh deck with seed and deals the opening tableau
func (e *GameEngine) Start(seed int64) error {
	deck, err := NewDeck(e.config.Suits, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}

	prevHistory := e.state.MoveHistory
	prevTotal := e.state.TotalActions

	state := InitGameStateFromConfig(e.config)
	state.Seed = seed
	state.MoveHistory = prevHistory
	state.TotalActions = prevTotal
	if state.MoveHistory == nil {
		state.MoveHistory = []MoveHistoryEntry{}
	}

	// Deal from the end of the deck, the last card of each column face up
	for col, count := range InitialDealCounts {
		state.Columns[col] = make([]Card, 0, count)
		for i := 0; i < count; i++ {
			card := deck[len(deck)-1]
			deck = deck[:len(deck)-1]
			card.FaceUp = i == count-1
			state.Columns[col] = append(state.Columns[col], card)
		}
	}
	state.Stock = deck
	state.Status = StatusPlaying
	state.StartedAt = e.now()

	e.state = state
	e.history.Clear()
	e.refresh()
	return nil
}

// Reset re-deals the current seed, keeping the cumulative action log
func (e *GameEngine) Reset() *GameState {
	if err := e.Start(e.state.Seed); err != nil {
		e.state.Message = err.Error()
	}
	return e.state
}

// GetState returns the live game state. It does not modify the engine; callers that hand
// the state to another goroutine should use CopyState instead.
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// CopyState returns a deep copy of the state with the derived fields (undo depth, stock
// deals, elapsed time) computed for the current moment
func (e *GameEngine) CopyState() *GameState {
	c := *e.state
	c.Columns = cloneColumns(e.state.Columns)
	c.Stock = cloneCards(e.state.Stock)
	c.CompletedRuns = append([]Suit{}, e.state.CompletedRuns...)
	c.MoveHistory = append([]MoveHistoryEntry{}, e.state.MoveHistory...)
	if e.state.FinishedAt != nil {
		finished := *e.state.FinishedAt
		c.FinishedAt = &finished
	}
	c.UndoDepth = e.history.Len()
	c.StockDeals = stockDeals(len(c.Stock))
	if !c.StartedAt.IsZero() {
		c.Elapsed = FormatElapsed(e.Elapsed())
	}
	return &c
}

// SetState sets the game state (used for persistence loading)
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if len(state.Columns) > NumColumns {
		return fmt.Errorf("state has %d columns, want %d", len(state.Columns), NumColumns)
	}
	for len(state.Columns) < NumColumns {
		state.Columns = append(state.Columns, []Card{})
	}
	if state.Stock == nil {
		state.Stock = []Card{}
	}
	if state.CompletedRuns == nil {
		state.CompletedRuns = []Suit{}
	}
	if state.MoveHistory == nil {
		state.MoveHistory = []MoveHistoryEntry{}
	}
	e.state = state
	e.refresh()
	return nil
}

// IsWon returns whether every run has been completed
func (e *GameEngine) IsWon() bool {
	return e.state.Status == StatusWon
}

// GetScore returns the current score
func (e *GameEngine) GetScore() int {
	return e.state.Score
}

// GetMoves returns the number of executed moves
func (e *GameEngine) GetMoves() int {
	return e.state.Moves
}

// Elapsed returns the play time since the deal, frozen once the game is won
func (e *GameEngine) Elapsed() time.Duration {
	if e.state.StartedAt.IsZero() {
		return 0
	}
	end := e.now()
	if e.state.FinishedAt != nil {
		end = *e.state.FinishedAt
	}
	if end.Before(e.state.StartedAt) {
		return 0
	}
	return end.Sub(e.state.StartedAt)
}

// CardCount returns the number of cards accounted for: tableau, stock and completed runs
func (e *GameEngine) CardCount() int {
	total := len(e.state.Stock) + RunLength*len(e.state.CompletedRuns)
	for _, col := range e.state.Columns {
		total += len(col)
	}
	return total
}

// CanMove checks if the top count cards of column from may be moved onto column to
func (e *GameEngine) CanMove(from, to, count int) bool {
	if e.state.Status != StatusPlaying {
		return false
	}
	if !validColumn(from) || !validColumn(to) || from == to {
		return false
	}

	src := e.state.Columns[from]
	if count < 1 || count > len(src) {
		return false
	}

	run := src[len(src)-count:]
	return allFaceUp(run) && IsValidSequence(run) && CanDropOnto(e.state.Columns[to], run)
}

// Move relocates the last count cards of column from onto column to.
// It returns false, leaving the tableau untouched, when the move is not legal.
func (e *GameEngine) Move(from, to, count int) bool {
	if !e.CanMove(from, to, count) {
		if e.state.Status == StatusPlaying {
			e.state.Message = e.config.Messages.InvalidMove
		}
		e.addToHistory("move", from, to, count, false, 0)
		return false
	}

	e.history.Push(takeSnapshot(e.state))

	src := e.state.Columns[from]
	run := cloneCards(src[len(src)-count:])
	e.state.Columns[from] = src[:len(src)-count]
	e.state.Columns[to] = append(e.state.Columns[to], run...)
	revealTop(e.state.Columns[from])

	e.state.Moves++
	e.state.Score = max(0, e.state.Score-e.config.MoveCost)
	e.state.Message = e.config.Messages.Moved

	sealed := e.scanRuns()
	e.addToHistory("move", from, to, count, true, sealed)
	e.refresh()
	return true
}

// MoveFrom moves the cards of column from, starting at index, onto column to
func (e *GameEngine) MoveFrom(from, index, to int) bool {
	if !validColumn(from) {
		return e.Move(from, to, 0)
	}
	return e.Move(from, to, len(e.state.Columns[from])-index)
}

// CanDeal reports whether a row can be dealt from the stock
func (e *GameEngine) CanDeal() bool {
	if e.state.Status != StatusPlaying || len(e.state.Stock) == 0 {
		return false
	}
	if e.config.StrictDeal && e.hasEmptyColumn() {
		return false
	}
	return true
}

// Deal places one face-up card from the stock on every column
func (e *GameEngine) Deal() bool {
	if !e.CanDeal() {
		if e.state.Status == StatusPlaying {
			if len(e.state.Stock) == 0 {
				e.state.Message = e.config.Messages.StockEmpty
			} else {
				e.state.Message = e.config.Messages.DealBlocked
			}
		}
		e.addToHistory("deal", -1, -1, 0, false, 0)
		return false
	}

	e.history.Push(takeSnapshot(e.state))

	dealt := 0
	for i := 0; i < NumColumns && len(e.state.Stock) > 0; i++ {
		card := e.state.Stock[len(e.state.Stock)-1]
		e.state.Stock = e.state.Stock[:len(e.state.Stock)-1]
		card.FaceUp = true
		e.state.Columns[i] = append(e.state.Columns[i], card)
		dealt++
	}
	e.state.Message = e.config.Messages.Dealt

	sealed := e.scanRuns()
	e.addToHistory("deal", -1, -1, dealt, true, sealed)
	e.refresh()
	return true
}

// Undo restores the most recent snapshot, charging the undo penalty
func (e *GameEngine) Undo() bool {
	if e.state.Status != StatusPlaying {
		return false
	}

	snap, ok := e.history.Pop()
	if !ok {
		e.state.Message = e.config.Messages.NothingToUndo
		return false
	}

	e.state.Columns = snap.Columns
	e.state.Stock = snap.Stock
	e.state.CompletedRuns = snap.CompletedRuns
	e.state.Moves = snap.Moves
	e.state.Score = max(0, snap.Score-e.config.UndoPenalty)
	e.state.Message = e.config.Messages.Undone

	e.addToHistory("undo", -1, -1, 0, true, 0)
	e.refresh()
	return true
}

// GetPossibleMoves returns every legal run move on the current tableau
func (e *GameEngine) GetPossibleMoves() []MoveOption {
	var moves []MoveOption
	if e.state.Status != StatusPlaying {
		return moves
	}

	for from, col := range e.state.Columns {
		maxRun := MovableRunLength(col)
		for count := 1; count <= maxRun; count++ {
			for to := 0; to < NumColumns; to++ {
				if e.CanMove(from, to, count) {
					moves = append(moves, MoveOption{From: from, To: to, Count: count})
				}
			}
		}
	}

	return moves
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig sets a new game configuration and returns the game to its undealt state
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}

	e.config = config
	e.state = InitGameStateFromConfig(config)
	e.history = NewHistory(config.HistoryLimit)
	return nil
}

// GetHistory returns the undo stack
func (e *GameEngine) GetHistory() *History {
	return e.history
}

// RestoreHistory replaces the undo stack, used when loading a persisted game
func (e *GameEngine) RestoreHistory(snapshots []Snapshot) {
	e.history.Restore(snapshots)
	e.refresh()
}

// GetMoveHistory returns the complete action log
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.state.MoveHistory
}

// GetLastMove returns the last action taken, or nil if none
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	return &e.state.MoveHistory[len(e.state.MoveHistory)-1]
}

// scanRuns removes at most one completed run from every column, then checks for victory.
// It returns the number of runs removed.
func (e *GameEngine) scanRuns() int {
	sealed := 0
	for i, col := range e.state.Columns {
		if !completedRunAtTop(col) {
			continue
		}
		suit := col[len(col)-1].Suit
		e.state.Columns[i] = col[:len(col)-RunLength]
		revealTop(e.state.Columns[i])
		e.state.CompletedRuns = append(e.state.CompletedRuns, suit)
		e.state.Score += e.config.RunBonus
		sealed++
	}

	if sealed > 0 && e.config.Messages.RunCompleted != "" {
		e.state.Message = fmt.Sprintf(e.config.Messages.RunCompleted, e.config.RunBonus*sealed)
	}

	if len(e.state.Stock) == 0 && !e.hasCards() {
		e.state.Status = StatusWon
		finished := e.now()
		e.state.FinishedAt = &finished
		e.state.Message = fmt.Sprintf(e.config.Messages.Victory, e.state.Score)
	}

	return sealed
}

func (e *GameEngine) hasCards() bool {
	for _, col := range e.state.Columns {
		if len(col) > 0 {
			return true
		}
	}
	return false
}

func (e *GameEngine) hasEmptyColumn() bool {
	for _, col := range e.state.Columns {
		if len(col) == 0 {
			return true
		}
	}
	return false
}

// refresh recomputes the derived counters of the state. Only mutating operations call it;
// the time-dependent Elapsed field is filled in by CopyState.
func (e *GameEngine) refresh() {
	e.state.UndoDepth = e.history.Len()
	e.state.StockDeals = stockDeals(len(e.state.Stock))
}

func stockDeals(stock int) int {
	return (stock + NumColumns - 1) / NumColumns
}

// addToHistory appends an action to the cumulative action log
func (e *GameEngine) addToHistory(action string, from, to, count int, success bool, sealed int) {
	e.state.MoveHistory = append(e.state.MoveHistory, MoveHistoryEntry{
		Action:       action,
		From:         from,
		To:           to,
		Count:        count,
		Score:        e.state.Score,
		Timestamp:    e.now().Unix(),
		Success:      success,
		ActionNumber: e.state.TotalActions + 1,
		RunsSealed:   sealed,
	})
	e.state.TotalActions++
}

func validColumn(i int) bool {
	return i >= 0 && i < NumColumns
}
