// t2048 plays the 2048 sliding-tile puzzle from the command line and keeps
// per-account high scores.
//
// Usage:
//
//	t2048 play                  - Play one game with an autoplay strategy or a move script
//	t2048 list                  - List autoplay strategies
//	t2048 scores                - Show the leaderboard
//	t2048 signup | login        - Create an account or sign in
//	t2048 logout | whoami       - Sign out or show the current account
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.t2048/config.yaml)
//	--db <path>         - Database path (default: ~/.t2048/scores.db)
//	--seed <value>      - RNG seed for reproducible games
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tile2048/internal/config"

	// Import strategies to register them
	_ "github.com/vovakirdan/tile2048/internal/strategy"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagSeed     int64
	flagLogLevel string

	// Set by the root command before any subcommand runs
	cfg    config.Config
	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 - Slide and merge tiles in your terminal",
	Long: `t2048 runs the 2048 puzzle: slide the 4x4 board up, down, left or right,
merge equal tiles and reach 2048.

Available commands:
  play     - Play one game
  list     - Show autoplay strategies
  scores   - View high scores
  signup   - Create an account
  login    - Sign in
  logout   - Sign out
  whoami   - Show the signed-in account

Examples:
  t2048 play --strategy corner --seed 42
  t2048 play --moves lldrdru
  t2048 signup --email me@example.com
  t2048 scores --limit 5`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (overrides config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

// loadConfig resolves the configuration, applies flag overrides and builds
// the logger.
func loadConfig(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(flagConfig)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		if cfg.Storage.DBPath, err = config.ExpandHome(flagDBPath); err != nil {
			return err
		}
	}
	if flags.Changed("seed") {
		cfg.Game.Seed = flagSeed
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := cfg.LogLevel()
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          cfg.Log.Prefix,
		Level:           level,
	})
	logger.Debug("config loaded", "db", cfg.Storage.DBPath, "seed", cfg.Game.Seed)
	return nil
}
