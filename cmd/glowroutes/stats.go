package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/glow-routes/internal/core"
)

var statsCmd = &cobra.Command{
	Use:   "stats [kind]",
	Short: "Show progress and glow shards",
	Long: `Display global progress and the per-game bests. With a game id only
that game's stats are shown.

Examples:
  glowroutes stats
  glowroutes stats lane_dash`,
	Args: cobra.MaximumNArgs(1),
	Run:  runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	logger := newLogger()

	kinds := core.Kinds()
	if len(args) == 1 {
		kinds = []core.Kind{parseKind(args[0])}
	}

	store, db := openStats(ctx, logger)
	defer db.Close()

	snap := store.Snapshot()

	if len(args) == 0 {
		printTitle("Glow Routes - Progress")
		printTable(
			[]string{"Glow Shards", "Routes Played", "Longest Streak"},
			[][]string{{
				strconv.Itoa(snap.Global.TotalGlowShards),
				strconv.Itoa(snap.Global.TotalRoutesPlayed),
				strconv.Itoa(snap.Global.LongestStreakOverall),
			}},
		)
		fmt.Println()
	}

	rows := make([][]string, 0, len(kinds))
	for _, k := range kinds {
		g := snap.Game(k)
		rows = append(rows, []string{
			k.String(),
			strconv.Itoa(g.BestScore),
			strconv.Itoa(g.TotalPlays),
			strconv.Itoa(g.BestStreak),
		})
	}
	printTable([]string{"Game", "Best Score", "Plays", "Best Streak"}, rows)

	if !store.OnboardingComplete() {
		fmt.Println()
		fmt.Println("Onboarding not completed. Run 'glowroutes onboarding --complete' to finish it.")
	}
}
