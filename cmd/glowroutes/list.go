package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/glow-routes/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all mini-games",
	Long:  `Shows every mini-game registered with the engine.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	kinds := registry.List()

	if len(kinds) == 0 {
		fmt.Println("No games available.")
		return
	}

	fmt.Println("Available games:")
	fmt.Println()

	// Calculate column widths
	maxIDLen, maxLabelLen := 2, 5 // "ID", "Title" headers
	for _, k := range kinds {
		maxIDLen = max(maxIDLen, len(k.ID()))
		maxLabelLen = max(maxLabelLen, len(k.String()))
	}

	// Print header
	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "ID", maxLabelLen, "Title", "Goal")
	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "--", maxLabelLen, "-----", "----")

	for _, k := range kinds {
		fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, k.ID(), maxLabelLen, k.String(), k.Description())
	}

	fmt.Println()
	fmt.Println("Run 'glowroutes simulate <id>' to let a bot play a game.")
}
