package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/arcade.yaml
var defaultArcadeYAML []byte

// DefaultArcadeConfig returns the hardcoded configuration.
func DefaultArcadeConfig() ArcadeConfig {
	return ArcadeConfig{
		Tokens: TokenConfig{
			Start:      3,
			Max:        10,
			DailyBonus: 1,
			PlayCost:   1,
		},
		Leaderboard: LeaderboardConfig{
			Size: 10,
		},
		Storage: StorageConfig{
			DB: "~/.arcade/arcade.db",
		},
		Audio: AudioConfig{
			Enabled:  true,
			SongsDir: "~/.arcade/songs",
		},
		Server: ServerConfig{
			SSHAddr:     "0.0.0.0:2222",
			WSAddr:      "0.0.0.0:8080",
			HostKey:     ".ssh/arcade_ed25519",
			IdleTimeout: 30 * time.Minute,
			MaxSessions: 20,
		},
	}
}

// DefaultYAML returns the embedded default file, e.g. for `arcade config`.
func DefaultYAML() []byte {
	return defaultArcadeYAML
}
