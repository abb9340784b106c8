package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tile2048/internal/games/t2048"
	"github.com/vovakirdan/tile2048/internal/storage"
)

var (
	flagLimit int
	flagMine  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the top scores across all accounts, or your own with --mine.

Examples:
  t2048 scores
  t2048 scores --limit 5
  t2048 scores --mine`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 0, "Number of scores to show (0 = config default)")
	scoresCmd.Flags().BoolVar(&flagMine, "mine", false, "Show only your own scores")
}

func runScores(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	limit := flagLimit
	if limit <= 0 {
		limit = cfg.Leaderboard.Limit
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var scores []storage.ScoreEntry
	title := "High Scores"
	if flagMine {
		u, err := a.ids.RequireUser()
		if err != nil {
			return fmt.Errorf("%w: run 't2048 login' first", err)
		}
		title = "Your Scores - " + u.Email
		scores, err = a.store.UserScores(ctx, u.ID, limit)
		if err != nil {
			return err
		}
	} else {
		scores, err = a.store.TopScores(ctx, limit)
		if err != nil {
			return err
		}
	}

	fmt.Println(title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 't2048 play' while signed in to set the first high score!")
		return nil
	}

	maxEmailLen := len("Player")
	for _, entry := range scores {
		maxEmailLen = max(maxEmailLen, len(entry.Email))
	}

	fmt.Printf("  %-4s  %-10s  %-7s  %-*s  %s\n", "Rank", "Score", "Tile", maxEmailLen, "Player", "Date")
	fmt.Printf("  %-4s  %-10s  %-7s  %-*s  %s\n", "----", "-----", "----", maxEmailLen, "------", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Local().Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-10d  %-7d  %-*s  %s\n",
			i+1, entry.Score, t2048.MaxTile(entry.Board), maxEmailLen, entry.Email, dateStr)
	}

	return nil
}
