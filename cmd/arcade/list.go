package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-hub/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available games",
	Long:  `Shows every game in the arcade with its score type, win reward and modes.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	fmt.Println("Available games:")
	fmt.Println()

	// Calculate column widths
	maxIDLen, maxTitleLen := 2, 5 // "ID", "Title" headers
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
		maxTitleLen = max(maxTitleLen, len(g.Title))
	}

	// Print header
	fmt.Printf("  %-*s  %-*s  %-6s  %-4s  %s\n", maxIDLen, "ID", maxTitleLen, "Title", "Score", "Win", "Modes")
	fmt.Printf("  %-*s  %-*s  %-6s  %-4s  %s\n", maxIDLen, "--", maxTitleLen, "-----", "-----", "---", "-----")

	// Print games
	for _, g := range games {
		modes := "-"
		if len(g.Modes) > 0 {
			modes = strings.Join(g.Modes, ", ")
		}
		fmt.Printf("  %-*s  %-*s  %-6s  +%-3d  %s\n",
			maxIDLen, g.ID, maxTitleLen, g.Title, g.ScoreType, g.TokensOnWin, modes)
	}

	fmt.Println()
	fmt.Println("Run 'arcade play <id>' to play a game (1 token).")
}
