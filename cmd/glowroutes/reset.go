package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagResetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset all progress",
	Long: `Zero the global progress and every game's stats. The onboarding flag
and the play history are kept. Requires --yes.

Examples:
  glowroutes reset --yes`,
	Run: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&flagResetYes, "yes", false, "Confirm the reset")
}

func runReset(cmd *cobra.Command, args []string) {
	if !flagResetYes {
		fmt.Fprintln(os.Stderr, "This erases all progress. Re-run with --yes to confirm.")
		os.Exit(1)
	}

	ctx := context.Background()
	store, db := openStats(ctx, newLogger())
	defer db.Close()

	if err := store.ResetAll(ctx); err != nil {
		fatalf("resetting progress: %v", err)
	}
	fmt.Println("All progress has been reset.")
}
