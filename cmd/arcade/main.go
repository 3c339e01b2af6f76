// arcade is a terminal arcade hub: log in, spend tokens on mini-games,
// climb the leaderboards and win tokens back.
//
// Usage:
//
//	arcade list              - List available games
//	arcade play <game>       - Pay a token and play a game
//	arcade menu              - Log in and pick games interactively
//	arcade scores [game]     - Show, clear, export or import leaderboards
//	arcade tokens            - Show or manage the player's wallet
//	arcade pattern           - Check or generate rhythm charts
//	arcade serve             - Start the SSH arcade and the live score feed
//
// Global flags:
//
//	--fps <rate>      - Set tick rate (default: 60)
//	--seed <value>    - Set RNG seed for reproducible gameplay
//	--db <path>       - Override the database path
//	--config <path>   - Use a specific arcade.yaml
//	--player <name>   - Log in as this player
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-hub/internal/config"
	"github.com/vovakirdan/arcade-hub/internal/hub"
	"github.com/vovakirdan/arcade-hub/internal/storage"

	// Import games to register them
	_ "github.com/vovakirdan/arcade-hub/internal/games/assassindice"
	_ "github.com/vovakirdan/arcade-hub/internal/games/geodash"
	_ "github.com/vovakirdan/arcade-hub/internal/games/quickshot"
	_ "github.com/vovakirdan/arcade-hub/internal/games/rockandroll"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagConfig  string
	flagPlayer  string
	flagVerbose bool

	// Loaded in PersistentPreRunE
	arcadeCfg config.ArcadeConfig
	logger    *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arcade",
	Short: "Arcade Hub - token-operated mini-games in your terminal",
	Long: `Arcade Hub is a terminal arcade. Every play costs a token, good
results earn tokens back and the best runs make the leaderboards.

Available commands:
  list     - Show all available games
  play     - Play a specific game directly
  menu     - Interactive hub with login and game picker
  scores   - View and manage leaderboards
  tokens   - Show or manage the player's wallet
  pattern  - Check or generate Rock & Roll charts
  serve    - Start SSH server for remote play

Examples:
  arcade list
  arcade play geo-dash --mode levels --level 2
  arcade menu --player ann
  arcade serve --ssh :2222 --ws :8080
  arcade scores quickshot`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to arcade database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to arcade.yaml")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Player name (default: $ARCADE_PLAYER or last login)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(patternCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig resolves .env, arcade.yaml and flags, in increasing priority.
func loadConfig(_ *cobra.Command, _ []string) error {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "arcade",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	if err := config.LoadEnv(); err != nil {
		return fmt.Errorf("cannot read .env: %w", err)
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	logger.Debug("config loaded", "source", cfg.Source)
	if flagDBPath != "" {
		cfg.Storage.DB = flagDBPath
	}
	if flagPlayer == "" {
		flagPlayer = config.Player()
	}
	arcadeCfg = cfg
	return nil
}

// hubOptions turns the token section of the config into hub options.
func hubOptions() hub.Options {
	return hub.Options{
		StartTokens: arcadeCfg.Tokens.Start,
		MaxTokens:   arcadeCfg.Tokens.Max,
		DailyBonus:  arcadeCfg.Tokens.DailyBonus,
		PlayCost:    arcadeCfg.Tokens.PlayCost,
		Logger:      logger.WithPrefix("hub"),
	}
}

// openStore opens the configured database and applies the board size.
func openStore() (*storage.Store, error) {
	store, err := storage.Open(arcadeCfg.Storage.DB)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	store.SetLimit(arcadeCfg.Leaderboard.Size)
	return store, nil
}

// openHub opens the store and logs in --player, or resumes the last
// player. The hub may have no player when neither is known.
func openHub() (*storage.Store, *hub.Hub, error) {
	store, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	h := hub.New(store, hubOptions())
	if flagPlayer != "" {
		err = h.Login(flagPlayer)
	} else {
		_, err = h.Resume()
	}
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return store, h, nil
}
