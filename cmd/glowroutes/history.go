package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/glow-routes/internal/core"
	"github.com/vovakirdan/glow-routes/internal/storage"
)

var (
	flagHistoryLimit int
	flagHistoryTop   bool
)

var historyCmd = &cobra.Command{
	Use:   "history <kind>",
	Short: "Show recent or best plays for a game",
	Long: `Display the most recent sessions of a game, or its best sessions with --top.

Examples:
  glowroutes history signal_flow
  glowroutes history crossway_split --top --limit 5`,
	Args: cobra.ExactArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of plays to show (1-100)")
	historyCmd.Flags().BoolVar(&flagHistoryTop, "top", false, "Order by score instead of date")
}

func runHistory(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	kind := parseKind(args[0])
	limit := core.Clamp(flagHistoryLimit, 1, 100)

	store, db := openStats(ctx, newLogger())
	defer db.Close()

	var (
		plays []storage.Play
		err   error
		title string
	)
	if flagHistoryTop {
		plays, err = store.TopScores(ctx, kind, limit)
		title = "Best Plays - " + kind.String()
	} else {
		plays, err = store.History(ctx, kind, limit)
		title = "Recent Plays - " + kind.String()
	}
	if err != nil {
		fatalf("retrieving plays: %v", err)
	}

	printTitle(title)

	if len(plays) == 0 {
		fmt.Println("No plays recorded yet.")
		fmt.Println()
		fmt.Printf("Run 'glowroutes simulate %s' to record some.\n", kind.ID())
		return
	}

	rows := make([][]string, 0, len(plays))
	for i, p := range plays {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(p.Score),
			strconv.Itoa(p.GlowShards),
			strconv.Itoa(p.Streak),
			p.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	printTable([]string{"#", "Score", "Shards", "Streak", "Date"}, rows)

	fmt.Println()
	fmt.Printf("Best: %d\n", store.Game(kind).BestScore)
}
