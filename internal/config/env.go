package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables recognised on top of the YAML file. Flags still
// win over these.
const (
	EnvDB       = "ARCADE_DB"
	EnvPlayer   = "ARCADE_PLAYER"
	EnvSSHAddr  = "ARCADE_SSH_ADDR"
	EnvWSAddr   = "ARCADE_WS_ADDR"
	EnvSongsDir = "ARCADE_SONGS_DIR"
	EnvAudio    = "ARCADE_AUDIO"
)

// LoadEnv reads .env files into the process environment without
// overriding variables that are already set. A missing file is not an
// error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ApplyEnv copies ARCADE_* overrides into cfg.
func ApplyEnv(cfg *ArcadeConfig) {
	if v := os.Getenv(EnvDB); v != "" {
		cfg.Storage.DB = v
	}
	if v := os.Getenv(EnvSSHAddr); v != "" {
		cfg.Server.SSHAddr = v
	}
	if v := os.Getenv(EnvWSAddr); v != "" {
		cfg.Server.WSAddr = v
	}
	if v := os.Getenv(EnvSongsDir); v != "" {
		cfg.Audio.SongsDir = v
	}
	if v := os.Getenv(EnvAudio); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			cfg.Audio.Enabled = on
		}
	}
}

// Player returns the default player name from the environment.
func Player() string {
	return os.Getenv(EnvPlayer)
}
