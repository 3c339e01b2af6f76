// Package config loads the arcade hub configuration: the token policy,
// leaderboard size, storage and audio locations and server addresses.
// Game physics is compiled in and not configurable.
package config

import "time"

// ArcadeConfig is the whole hub configuration.
type ArcadeConfig struct {
	Tokens      TokenConfig       `yaml:"tokens"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Storage     StorageConfig     `yaml:"storage"`
	Audio       AudioConfig       `yaml:"audio"`
	Server      ServerConfig      `yaml:"server"`

	// Source is the file the config came from, or SourceEmbedded.
	Source string `yaml:"-"`
}

// TokenConfig is the wallet policy.
type TokenConfig struct {
	Start      int `yaml:"start"`
	Max        int `yaml:"max"`
	DailyBonus int `yaml:"daily_bonus"`
	PlayCost   int `yaml:"play_cost"`
}

// LeaderboardConfig sizes the per-game boards.
type LeaderboardConfig struct {
	Size int `yaml:"size"`
}

// StorageConfig locates the SQLite database.
type StorageConfig struct {
	DB string `yaml:"db"`
}

// AudioConfig controls sound output.
type AudioConfig struct {
	Enabled  bool   `yaml:"enabled"`
	SongsDir string `yaml:"songs_dir"`
}

// ServerConfig holds the SSH and websocket listeners.
type ServerConfig struct {
	SSHAddr     string        `yaml:"ssh_addr"`
	WSAddr      string        `yaml:"ws_addr"`
	HostKey     string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	MaxSessions int           `yaml:"max_sessions"`
}

// normalize fills zero values from the hardcoded defaults so a partial
// file still yields a usable config.
func (c *ArcadeConfig) normalize() {
	d := DefaultArcadeConfig()
	if c.Tokens.Start <= 0 {
		c.Tokens.Start = d.Tokens.Start
	}
	if c.Tokens.Max <= 0 {
		c.Tokens.Max = d.Tokens.Max
	}
	if c.Tokens.Start > c.Tokens.Max {
		c.Tokens.Start = c.Tokens.Max
	}
	if c.Tokens.DailyBonus < 0 {
		c.Tokens.DailyBonus = 0
	}
	if c.Tokens.PlayCost <= 0 {
		c.Tokens.PlayCost = d.Tokens.PlayCost
	}
	if c.Leaderboard.Size <= 0 {
		c.Leaderboard.Size = d.Leaderboard.Size
	}
	if c.Storage.DB == "" {
		c.Storage.DB = d.Storage.DB
	}
	if c.Audio.SongsDir == "" {
		c.Audio.SongsDir = d.Audio.SongsDir
	}
	if c.Server.SSHAddr == "" {
		c.Server.SSHAddr = d.Server.SSHAddr
	}
	if c.Server.WSAddr == "" {
		c.Server.WSAddr = d.Server.WSAddr
	}
	if c.Server.HostKey == "" {
		c.Server.HostKey = d.Server.HostKey
	}
	if c.Server.IdleTimeout <= 0 {
		c.Server.IdleTimeout = d.Server.IdleTimeout
	}
	if c.Server.MaxSessions <= 0 {
		c.Server.MaxSessions = d.Server.MaxSessions
	}
}
