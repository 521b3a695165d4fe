// glowroutes runs the Glow Routes mini-game engine headlessly and manages
// the persisted player progress.
//
// Usage:
//
//	glowroutes list                   - List the mini-games
//	glowroutes stats [kind]           - Show global and per-game progress
//	glowroutes history <kind>         - Show recent or top plays
//	glowroutes reset --yes            - Reset all progress
//	glowroutes onboarding [--complete] - Show or complete onboarding
//	glowroutes simulate <kind>        - Play sessions with a bot
//
// Global flags:
//
//	--fps <rate>         - Clock tick rate (default: 60)
//	--seed <value>       - RNG seed for reproducible challenges
//	--db <path>          - Stats database (default: ~/.glowroutes/stats.db)
//	--config <path>      - Game tuning file (.yaml or .toml)
//	--log-level <level>  - debug, info, warn or error
//
// Every global flag also reads a GLOWROUTES_* environment variable.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/glow-routes/internal/config"

	// Import games to register them
	_ "github.com/vovakirdan/glow-routes/internal/games/crossway"
	_ "github.com/vovakirdan/glow-routes/internal/games/lanedash"
	_ "github.com/vovakirdan/glow-routes/internal/games/signalflow"
	_ "github.com/vovakirdan/glow-routes/internal/games/timingarcs"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfigPath string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "glowroutes",
	Short: "Glow Routes - mini-game round engine and progress tools",
	Long: `Glow Routes runs four eight-round mini-games (Lane Dash, Signal Flow,
Crossway Split, Timing Arcs) on a logical clock and keeps lifetime progress
in a local SQLite database.

Available commands:
  list        - Show all mini-games
  stats       - View progress and glow shards
  history     - View recent or best plays
  reset       - Reset all progress
  onboarding  - Show or complete onboarding
  simulate    - Let a bot play sessions

Examples:
  glowroutes list
  glowroutes stats
  glowroutes history timing_arcs --top
  glowroutes simulate signal_flow --sessions 20 --skill 0.7`,
}

func init() {
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring environment: %v\n", err)
		settings = config.DefaultSettings()
	}

	// Global persistent flags, defaulting to the environment
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", settings.TickRate, "Clock tick rate (ticks per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", settings.Seed, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", settings.DBPath, "Path to stats database")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", settings.ConfigPath, "Path to game tuning file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", settings.LogLevel, "Log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(onboardingCmd)
	rootCmd.AddCommand(simulateCmd)
}
