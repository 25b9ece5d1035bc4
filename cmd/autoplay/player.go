package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/wricardo/spooder-solitaire/game/engine"
	"github.com/wricardo/spooder-solitaire/game/service"
)

// GameAPI is the subset of the REST API the player needs
type GameAPI interface {
	State(ctx context.Context) (*engine.GameState, error)
	Hints(ctx context.Context) (*service.HintResponse, error)
	Move(ctx context.Context, m engine.MoveOption) (*service.MoveResult, error)
	Deal(ctx context.Context) (*service.MoveResult, error)
	Undo(ctx context.Context) (*service.MoveResult, error)
}

// Report summarizes one autoplay run
type Report struct {
	Actions int // moves and deals sent
	Moves   int
	Deals   int
	Undos   int
	Score   int
	Runs    int
	Won     bool
	Stuck   bool
}

func (r Report) String() string {
	outcome := "stopped"
	switch {
	case r.Won:
		outcome = "🎉 won"
	case r.Stuck:
		outcome = "stuck"
	}
	return fmt.Sprintf("%s: actions=%d moves=%d deals=%d undos=%d score=%d runs=%d/%d",
		outcome, r.Actions, r.Moves, r.Deals, r.Undos, r.Score, r.Runs, engine.TotalRuns)
}

// Player follows the server's ranked hints, deals when no hint is left and
// undoes any move that returns the tableau to a position it has already seen.
type Player struct {
	api        GameAPI
	maxActions int
	delay      time.Duration
	verbose    bool
}

func NewPlayer(api GameAPI, maxActions int) *Player {
	return &Player{api: api, maxActions: maxActions}
}

// Play runs until the game is won, no move or deal is left, or the action budget is spent
func (p *Player) Play(ctx context.Context) (Report, error) {
	var report Report

	state, err := p.api.State(ctx)
	if err != nil {
		return report, err
	}

	seen := map[string]bool{positionKey(state): true}
	tried := map[string]map[engine.MoveOption]bool{}

	for report.Actions < p.maxActions && state.Status == engine.StatusPlaying {
		if err := ctx.Err(); err != nil {
			return p.finish(report, state), err
		}

		key := positionKey(state)
		hints, err := p.api.Hints(ctx)
		if err != nil {
			return p.finish(report, state), err
		}

		move, ok := nextUntried(hints.Moves, tried[key])
		if ok {
			if tried[key] == nil {
				tried[key] = map[engine.MoveOption]bool{}
			}
			tried[key][move] = true

			result, err := p.api.Move(ctx, move)
			if err != nil {
				return p.finish(report, state), err
			}
			report.Actions++
			if !result.Success {
				continue
			}
			report.Moves++

			next := positionKey(result.GameState)
			if seen[next] {
				if p.verbose {
					log.Printf("Move %d→%d x%d repeats a position, undoing", move.From, move.To, move.Count)
				}
				undo, err := p.api.Undo(ctx)
				if err != nil {
					return p.finish(report, result.GameState), err
				}
				report.Undos++
				state = undo.GameState
				continue
			}
			seen[next] = true
			state = result.GameState
			p.pause()
			continue
		}

		if !hints.CanDeal {
			report.Stuck = true
			break
		}

		result, err := p.api.Deal(ctx)
		if err != nil {
			return p.finish(report, state), err
		}
		report.Actions++
		if !result.Success {
			report.Stuck = true
			break
		}
		report.Deals++
		state = result.GameState
		seen[positionKey(state)] = true
		if p.verbose {
			log.Printf("Dealt a row, %d card(s) left in stock", len(state.Stock))
		}
		p.pause()
	}

	return p.finish(report, state), nil
}

func (p *Player) finish(report Report, state *engine.GameState) Report {
	if state != nil {
		report.Score = state.Score
		report.Runs = len(state.CompletedRuns)
		report.Won = state.Status == engine.StatusWon
	}
	if report.Won {
		report.Stuck = false
	}
	return report
}

func (p *Player) pause() {
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
}

func nextUntried(moves []engine.MoveOption, tried map[engine.MoveOption]bool) (engine.MoveOption, bool) {
	for _, m := range moves {
		if !tried[m] {
			return m, true
		}
	}
	return engine.MoveOption{}, false
}

// positionKey identifies a tableau regardless of score and move counters
func positionKey(state *engine.GameState) string {
	var b strings.Builder
	for i := range state.Columns {
		b.WriteString(engine.DescribeColumn(state, i))
		b.WriteByte('|')
	}
	fmt.Fprintf(&b, "stock=%d", len(state.Stock))
	return b.String()
}
