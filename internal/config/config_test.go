package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	var cfg ArcadeConfig
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded yaml: %v", err)
	}
	if cfg != DefaultArcadeConfig() {
		t.Errorf("embedded = %+v\nhardcoded = %+v", cfg, DefaultArcadeConfig())
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arcade.yaml")
	data := []byte("tokens:\n  start: 5\n  max: 4\nleaderboard:\n  size: 20\nserver:\n  idle_timeout: 5m\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Tokens.Max != 4 || cfg.Tokens.Start != 4 {
		t.Errorf("tokens = %+v, start should clamp to max", cfg.Tokens)
	}
	if cfg.Tokens.PlayCost != 1 {
		t.Errorf("PlayCost = %d, want default 1", cfg.Tokens.PlayCost)
	}
	if cfg.Leaderboard.Size != 20 {
		t.Errorf("Size = %d, want 20", cfg.Leaderboard.Size)
	}
	if cfg.Server.IdleTimeout != 5*time.Minute {
		t.Errorf("IdleTimeout = %v, want 5m", cfg.Server.IdleTimeout)
	}
	if cfg.Server.SSHAddr != "0.0.0.0:2222" {
		t.Errorf("SSHAddr = %q, want default", cfg.Server.SSHAddr)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arcade.yaml")
	os.WriteFile(path, []byte("tokens: [oops"), 0o644)
	if _, err := Load(path); err == nil {
		t.Error("Load() of malformed yaml should fail")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvDB, "/tmp/x.db")
	t.Setenv(EnvWSAddr, ":9999")
	t.Setenv(EnvAudio, "false")
	t.Setenv(EnvPlayer, "ann")

	cfg := DefaultArcadeConfig()
	ApplyEnv(&cfg)
	if cfg.Storage.DB != "/tmp/x.db" || cfg.Server.WSAddr != ":9999" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Audio.Enabled {
		t.Error("ARCADE_AUDIO=false did not disable audio")
	}
	if Player() != "ann" {
		t.Errorf("Player() = %q", Player())
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	os.WriteFile(path, []byte("ARCADE_SONGS_DIR=/music\n"), 0o644)
	t.Setenv(EnvSongsDir, "")
	os.Unsetenv(EnvSongsDir)

	if err := LoadEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadEnv() failed: %v", err)
	}
	if got := os.Getenv(EnvSongsDir); got != "/music" {
		t.Errorf("%s = %q, want /music", EnvSongsDir, got)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandHome("~/songs"); got != filepath.Join(home, "songs") {
		t.Errorf("ExpandHome() = %q", got)
	}
	if got := ExpandHome("/abs"); got != "/abs" {
		t.Errorf("ExpandHome(/abs) = %q", got)
	}
}

func TestSearchSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.yaml")
	good := filepath.Join(dir, "good.yaml")
	os.WriteFile(broken, []byte("tokens: [oops"), 0o644)
	os.WriteFile(good, []byte("leaderboard:\n  size: 7\n"), 0o644)

	cfg := search([]string{filepath.Join(dir, "missing.yaml"), broken, good})
	if cfg.Source != good {
		t.Errorf("Source = %q, want %q", cfg.Source, good)
	}
	if cfg.Leaderboard.Size != 7 {
		t.Errorf("Size = %d, want 7", cfg.Leaderboard.Size)
	}
}

func TestSearchFallsBackToEmbedded(t *testing.T) {
	cfg := search([]string{filepath.Join(t.TempDir(), "missing.yaml")})
	if cfg.Source != SourceEmbedded {
		t.Errorf("Source = %q, want %q", cfg.Source, SourceEmbedded)
	}
	cfg.Source = ""
	if cfg != DefaultArcadeConfig() {
		t.Errorf("fallback = %+v, want defaults", cfg)
	}
}
