package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-hub/internal/platform/tui"
)

var flagMenuUnlockAll bool

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the arcade hub with login and game picker",
	Long: `Start the arcade in interactive mode.

If no player is known a login screen comes first. The menu shows your
tokens and every game card; pick a game to spend a token on it. After
a game ends you return to the menu.

Controls:
  Up/Down      - Choose a game
  Left/Right   - Choose a mode
  +/-          - Change the game's option (level, song, rounds)
  Enter        - Play (1 token)
  Tab          - Leaderboards
  O            - Log out
  Q            - Quit

Examples:
  arcade menu
  arcade menu --player ann
  arcade menu --fps 30 --db ./arcade.db`,
	RunE: runMenu,
}

func init() {
	menuCmd.Flags().BoolVar(&flagMenuUnlockAll, "unlock-all", false, "Offer every level regardless of progress")
}

func runMenu(_ *cobra.Command, _ []string) error {
	store, h, err := openHub()
	if err != nil {
		return err
	}
	defer store.Close()

	sound := openSound()
	defer sound.Close()

	return tui.Run(tui.SessionOptions{
		Hub:       h,
		Sound:     sound,
		Config:    runtimeConfig(),
		UnlockAll: flagMenuUnlockAll,
	})
}
