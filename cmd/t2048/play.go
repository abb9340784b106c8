package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tile2048/internal/games/t2048"
	"github.com/vovakirdan/tile2048/internal/platform/play"
	"github.com/vovakirdan/tile2048/internal/registry"
)

var (
	flagMoves    string
	flagStrategy string
	flagMaxMoves int
	flagBoard    string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play one game",
	Long: `Play one game of 2048 and print the final board as YAML.

Moves come either from a script (--moves) or from an autoplay strategy
(--strategy). A script is a list of directions: words (up, down, left, right)
separated by commas or spaces, or a run of first letters such as "lurd".

A game can start from a saved position with --board: a YAML file holding at
least "board" (4 rows of 4 tiles, 0 for empty) and optionally "score" and
"moves". The output of a previous play is accepted as is.

When you are signed in, the score is saved once the game is over.

Examples:
  t2048 play
  t2048 play --strategy corner --max-moves 500
  t2048 play --moves "left,left,down" --seed 42
  t2048 play --moves lldr
  t2048 play --board last.yaml --strategy corner`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagMoves, "moves", "", "Move script (e.g. \"lurd\" or \"left,up\")")
	playCmd.Flags().StringVar(&flagStrategy, "strategy", "greedy", "Autoplay strategy, see 't2048 list'")
	playCmd.Flags().IntVar(&flagMaxMoves, "max-moves", 10000, "Stop autoplay after this many moves")
	playCmd.Flags().StringVar(&flagBoard, "board", "", "Start from the position in this YAML file")
}

// playReport is what play prints.
type playReport struct {
	t2048.Snapshot `yaml:",inline"`

	Seed         int64  `yaml:"seed"`
	Driver       string `yaml:"driver"`
	Player       string `yaml:"player,omitempty"`
	PersonalBest int    `yaml:"personal_best"`
	Saved        bool   `yaml:"saved"`
}

func runPlay(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	var script []t2048.Direction
	if flagMoves != "" {
		var err error
		if script, err = parseMoves(flagMoves); err != nil {
			return err
		}
	} else if !registry.Exists(flagStrategy) {
		return fmt.Errorf("unknown strategy %q, run 't2048 list' to see available strategies", flagStrategy)
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	game := t2048.New(cfg.Runtime())
	session := play.New(game, a.ids, a.store, logger)
	defer session.Close()

	if flagBoard != "" {
		start, err := loadPosition(flagBoard)
		if err != nil {
			return err
		}
		if _, err := session.Restore(start); err != nil {
			return fmt.Errorf("bad position in %s: %w", flagBoard, err)
		}
	}

	report := playReport{Seed: game.Seed()}
	if u := session.User(); u != nil {
		report.Player = u.Email
	}

	var saveErr error
	record := func(res play.Result, err error) {
		if err != nil {
			saveErr = err
		}
		report.Saved = report.Saved || res.Saved
	}

	if script != nil {
		report.Driver = "script"
		for _, dir := range script {
			record(session.Move(ctx, dir))
			if session.Snapshot().GameOver {
				break
			}
		}
	} else {
		report.Driver = flagStrategy
		strat, err := registry.Create(flagStrategy, game.Seed())
		if err != nil {
			return err
		}
		for range flagMaxMoves {
			dir, ok := strat.Choose(session.Snapshot().Board)
			if !ok {
				break
			}
			record(session.Move(ctx, dir))
		}
	}

	report.Snapshot = session.Snapshot()
	best, err := session.PersonalBest(ctx)
	if err != nil {
		logger.Warn("could not read personal best", "error", err)
	}
	report.PersonalBest = best

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("could not write result: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}

	if saveErr != nil {
		return fmt.Errorf("score not saved: %w", saveErr)
	}
	if report.Snapshot.GameOver && report.Player == "" {
		logger.Info("game over; sign in with 't2048 login' to keep your scores")
	}
	return nil
}

// parseMoves reads a move script: direction words or letters separated by
// commas or spaces, or a run of letters such as "lurd".
func parseMoves(script string) ([]t2048.Direction, error) {
	fields := strings.FieldsFunc(script, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(fields) == 0 {
		return nil, errors.New("empty move script")
	}

	var dirs []t2048.Direction
	for _, f := range fields {
		if dir, err := t2048.ParseDirection(f); err == nil {
			dirs = append(dirs, dir)
			continue
		}

		for _, r := range f {
			dir, err := t2048.ParseDirection(string(r))
			if err != nil {
				return nil, fmt.Errorf("bad move %q in script: %w", f, err)
			}
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}

// loadPosition reads a starting position from a YAML file.
func loadPosition(path string) (t2048.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return t2048.Snapshot{}, fmt.Errorf("could not read position: %w", err)
	}

	var snap t2048.Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return t2048.Snapshot{}, fmt.Errorf("could not parse position %s: %w", path, err)
	}
	return snap, nil
}
