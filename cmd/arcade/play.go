package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/arcade-hub/internal/audio"
	"github.com/vovakirdan/arcade-hub/internal/config"
	"github.com/vovakirdan/arcade-hub/internal/core"
	"github.com/vovakirdan/arcade-hub/internal/hub"
	"github.com/vovakirdan/arcade-hub/internal/platform/tui"
	"github.com/vovakirdan/arcade-hub/internal/registry"
)

var (
	flagMode      string
	flagLevel     int
	flagSong      string
	flagPattern   string
	flagRounds    int
	flagUnlockAll bool
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Pay a token and play a game",
	Long: `Start playing the specified game. Each play costs one token.

Controls:
  Space/Up   - Jump
  X          - Power jump (Geo Dash)
  A / L      - Fire (Quickshot player 1 / player 2)
  1-6        - Lanes (Rock & Roll), targets (Assassin Dice)
  P          - Pause (Geo Dash)
  R          - Play again (after game over, 1 token)
  B/Esc      - Leave the game
  Q/Ctrl+C   - Quit

Examples:
  arcade play geo-dash
  arcade play geo-dash --mode levels --level 3
  arcade play quickshot --mode tournament --rounds 5
  arcade play rock-and-roll --song "hot tea"
  arcade play rock-and-roll --pattern ./chart.json
  arcade play assassin-dice --rounds 3`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagMode, "mode", "", "Game mode (see 'arcade list')")
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Start level (Geo Dash levels mode)")
	playCmd.Flags().StringVar(&flagSong, "song", "", "Song name or unique prefix (Rock & Roll)")
	playCmd.Flags().StringVar(&flagPattern, "pattern", "", "Path to a JSON note chart (Rock & Roll)")
	playCmd.Flags().IntVar(&flagRounds, "rounds", 0, "Best-of rounds (Quickshot tournament) or opponents (Assassin Dice)")
	playCmd.Flags().BoolVar(&flagUnlockAll, "unlock-all", false, "Allow any level regardless of progress")
}

// variantFromFlags validates the play flags against the game's card.
func variantFromFlags(info registry.GameInfo) (core.Variant, error) {
	v := core.Variant{Level: flagLevel, Rounds: flagRounds, Track: flagSong}
	mode, err := info.ResolveMode(flagMode)
	if err != nil {
		return v, err
	}
	v.Mode = mode
	if flagPattern != "" {
		v.Track = flagPattern
	}
	if v.Level < 0 || v.Rounds < 0 {
		return v, errors.New("--level and --rounds must not be negative")
	}
	return v, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	gameID := args[0]

	// Check if game exists
	info, ok := registry.Info(gameID)
	if !ok {
		return fmt.Errorf("unknown game %q, run 'arcade list' to see available games", gameID)
	}
	variant, err := variantFromFlags(info)
	if err != nil {
		return err
	}

	store, h, err := openHub()
	if err != nil {
		return err
	}
	defer store.Close()

	if h.Player() == "" {
		return errors.New("no player logged in, use --player NAME or 'arcade tokens --login NAME'")
	}
	if variant.Level > 1 && !flagUnlockAll {
		if unlocked := h.UnlockedLevel(gameID); variant.Level > unlocked {
			return fmt.Errorf("level %d is locked, highest unlocked is %d (use --unlock-all)", variant.Level, unlocked)
		}
	}

	if err := h.StartGame(gameID, variant); err != nil {
		if errors.Is(err, hub.ErrNoTokens) {
			return errors.New("you need tokens to play, come back tomorrow for a free token")
		}
		return err
	}

	sound := openSound()
	defer sound.Close()

	return tui.Run(tui.SessionOptions{
		Hub:       h,
		Sound:     sound,
		Config:    runtimeConfig(),
		UnlockAll: flagUnlockAll,
		GameID:    gameID,
		Variant:   variant,
	})
}

// runtimeConfig sizes the screen from the terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openSound opens the speaker when audio is enabled. Sound is optional,
// so failures are logged and play continues silently.
func openSound() audio.Player {
	if !arcadeCfg.Audio.Enabled {
		return audio.Silent{}
	}
	p, err := audio.Open(config.ExpandHome(arcadeCfg.Audio.SongsDir))
	if err != nil {
		logger.Warn("audio disabled", "error", err)
	}
	return p
}
