// Command autoplay plays a Spooder Solitaire session against a running server.
//
// It follows the server's ranked hints, deals a row when no useful move is left,
// and can submit the final score to the leaderboard:
//
//	autoplay --config two_suits --max-actions 3000 --submit --name Bot
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v3"
)

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "autoplay",
		Usage: "play a Spooder Solitaire session over the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Value:   "http://localhost:8080",
				Usage:   "game server URL",
				Sources: cli.EnvVars("SPOODER_URL"),
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "difficulty configuration (one_suit, two_suits, four_suits)",
			},
			&cli.StringFlag{
				Name:  "session",
				Usage: "resume an existing session by ID instead of creating one",
			},
			&cli.IntFlag{
				Name:  "max-actions",
				Value: 2000,
				Usage: "maximum moves and deals to send",
			},
			&cli.IntFlag{
				Name:  "delay",
				Usage: "delay between actions in milliseconds",
			},
			&cli.BoolFlag{
				Name:  "submit",
				Usage: "submit the final score to the leaderboard",
			},
			&cli.StringFlag{
				Name:  "name",
				Value: "Autoplay",
				Usage: "leaderboard name used with --submit",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log every deal and undone move",
			},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	client := NewClient(cmd.String("url"))
	log.Printf("Connecting to game server at %s", cmd.String("url"))

	if id := cmd.String("session"); id != "" {
		if _, err := client.Resume(ctx, id); err != nil {
			return fmt.Errorf("resume session %s: %w", id, err)
		}
		log.Printf("🔄 Resuming session: %s", id)
	} else {
		state, err := client.CreateSession(ctx, cmd.String("config"))
		if err != nil {
			return err
		}
		log.Printf("✨ Session created: %s (%s, %d suit(s))", client.SessionID(), state.ConfigName, state.Difficulty)
	}

	player := NewPlayer(client, int(cmd.Int("max-actions")))
	player.delay = time.Duration(cmd.Int("delay")) * time.Millisecond
	player.verbose = cmd.Bool("verbose")

	report, err := player.Play(ctx)
	if err != nil {
		return fmt.Errorf("session %s: %w", client.SessionID(), err)
	}
	log.Printf("Session %s %s", client.SessionID(), report)

	if cmd.Bool("submit") {
		result, err := client.SubmitScore(ctx, cmd.String("name"))
		if err != nil {
			return err
		}
		log.Printf("Leaderboard: %s", result.Message)
	}

	if !report.Won {
		return cli.Exit(fmt.Sprintf("❌ no victory in session %s", client.SessionID()), 1)
	}
	return nil
}
