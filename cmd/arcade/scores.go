package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-hub/internal/hub"
	"github.com/vovakirdan/arcade-hub/internal/registry"
)

var (
	flagClear  bool
	flagExport string
	flagImport string
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show and manage leaderboards",
	Long: `Display the leaderboard for a game, or every game when none is given.

Quickshot ranks reaction times, fastest first; every other game ranks
highest first.

Examples:
  arcade scores
  arcade scores geo-dash
  arcade scores quickshot --clear
  arcade scores --export boards.json
  arcade scores --import boards.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Clear the game's board (all boards without a game)")
	scoresCmd.Flags().StringVar(&flagExport, "export", "", "Write all boards to a JSON file ('-' for stdout)")
	scoresCmd.Flags().StringVar(&flagImport, "import", "", "Replace all boards from a JSON file")
}

func runScores(cmd *cobra.Command, args []string) error {
	gameID := ""
	if len(args) == 1 {
		gameID = args[0]
		if !registry.Exists(gameID) {
			return fmt.Errorf("unknown game %q, run 'arcade list' to see available games", gameID)
		}
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	h := hub.New(store, hubOptions())

	switch {
	case flagImport != "":
		f, err := os.Open(flagImport)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := h.ImportLeaderboards(f); err != nil {
			return err
		}
		fmt.Printf("Imported leaderboards from %s\n", flagImport)
		return nil

	case flagExport != "":
		if flagExport == "-" {
			return h.ExportLeaderboards(os.Stdout)
		}
		f, err := os.Create(flagExport)
		if err != nil {
			return err
		}
		if err := h.ExportLeaderboards(f); err != nil {
			f.Close()
			return err
		}
		fmt.Printf("Exported leaderboards to %s\n", flagExport)
		return f.Close()

	case flagClear:
		if err := h.ClearLeaderboard(gameID); err != nil {
			return err
		}
		if gameID == "" {
			fmt.Println("All leaderboards cleared.")
		} else {
			fmt.Printf("Leaderboard for %s cleared.\n", gameID)
		}
		return nil
	}

	games := registry.List()
	if gameID != "" {
		info, _ := registry.Info(gameID)
		games = []registry.GameInfo{info}
	}
	for i, info := range games {
		if i > 0 {
			fmt.Println()
		}
		if err := printBoard(h, info); err != nil {
			return err
		}
	}
	return nil
}

func printBoard(h *hub.Hub, info registry.GameInfo) error {
	scores, err := h.Leaderboard(info.ID)
	if err != nil {
		return fmt.Errorf("cannot retrieve scores: %w", err)
	}

	fmt.Printf("Leaderboard - %s\n", info.Title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("  No scores recorded yet.")
		fmt.Printf("  Play 'arcade play %s' to set the first high score!\n", info.ID)
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-12s  %-10s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Printf("  %-4s  %-12s  %-10s  %s\n", "----", "------", "-----", "----")

	for i, entry := range scores {
		fmt.Printf("  %-4d  %-12s  %-10s  %s\n",
			i+1,
			hub.TruncateName(entry.Player),
			hub.FormatScore(entry.Score, info.ScoreType),
			humanize.Time(entry.CreatedAt),
		)
	}
	return nil
}
