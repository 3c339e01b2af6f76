package main

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-hub/internal/hub"
	"github.com/vovakirdan/arcade-hub/internal/registry"
)

var (
	flagLogin   string
	flagLogout  bool
	flagGrant   int
	flagReset   bool
	flagHistory int
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Show or manage the player's wallet",
	Long: `Show the logged-in player's tokens, game stats and recent rounds.

A new player starts with 3 tokens. The first login of each day adds one
token, up to 10. Placing in the top 3 pays a game's full win reward; 4th
and 5th pay half.

Examples:
  arcade tokens
  arcade tokens --login ann
  arcade tokens --logout
  arcade tokens --grant 2
  arcade tokens --history 20`,
	RunE: runTokens,
}

func init() {
	tokensCmd.Flags().StringVar(&flagLogin, "login", "", "Log in as NAME and remember them")
	tokensCmd.Flags().BoolVar(&flagLogout, "logout", false, "Log out and forget the player's wallet")
	tokensCmd.Flags().IntVar(&flagGrant, "grant", 0, "Add tokens (capped at the maximum)")
	tokensCmd.Flags().BoolVar(&flagReset, "reset", false, "Reset the wallet to the starting amount")
	tokensCmd.Flags().IntVar(&flagHistory, "history", 5, "Number of recent rounds to show")
}

func runTokens(_ *cobra.Command, _ []string) error {
	if flagLogin != "" {
		flagPlayer = flagLogin
	}
	store, h, err := openHub()
	if err != nil {
		return err
	}
	defer store.Close()

	if h.Player() == "" {
		fmt.Println("Nobody is logged in. Use 'arcade tokens --login NAME'.")
		return nil
	}

	switch {
	case flagLogout:
		name := h.Player()
		if err := h.Logout(); err != nil {
			return err
		}
		fmt.Printf("Logged out %s.\n", name)
		return nil
	case flagReset:
		if err := h.ResetTokens(); err != nil {
			return err
		}
	case flagGrant > 0:
		if err := h.Grant(flagGrant); err != nil {
			return err
		}
	}

	fmt.Printf("Player: %s\n", hub.TruncateName(h.Player()))
	fmt.Printf("Tokens: %d\n", h.Tokens())

	stats, err := store.GetAllGamesStats()
	if err != nil {
		return err
	}
	if len(stats) > 0 {
		ids := make([]string, 0, len(stats))
		for id := range stats {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		fmt.Println()
		fmt.Println("Arcade totals:")
		fmt.Printf("  %-14s  %-6s  %-4s  %-6s  %-4s  %s\n", "Game", "Rounds", "Wins", "Losses", "Ties", "Last played")
		for _, id := range ids {
			s := stats[id]
			fmt.Printf("  %-14s  %-6d  %-4d  %-6d  %-4d  %s\n",
				id, s.Rounds, s.Wins, s.Losses, s.Ties, humanize.Time(s.LastPlayed))
		}
	}

	if flagHistory <= 0 {
		return nil
	}
	rounds, err := store.RecentRounds(h.Player(), flagHistory)
	if err != nil {
		return err
	}
	if len(rounds) == 0 {
		return nil
	}
	fmt.Println()
	fmt.Println("Recent rounds:")
	for _, r := range rounds {
		st := registry.ScorePoints
		if info, ok := registry.Info(r.GameID); ok {
			st = info.ScoreType
		}
		fmt.Printf("  %-14s  %-5s  %-10s  %s\n",
			r.GameID, r.Class, hub.FormatScore(r.Score, st), humanize.Time(r.CreatedAt))
	}
	return nil
}
