package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileName = "arcade.yaml"

// SourceEmbedded marks a config built from the compiled-in defaults.
const SourceEmbedded = "embedded"

// Load reads the hub configuration. An explicit path must exist and
// parse. Otherwise the first readable file of searchPaths wins, falling
// back to the embedded defaults. Environment overrides go on top.
func Load(customPath string) (ArcadeConfig, error) {
	var (
		cfg ArcadeConfig
		err error
	)
	if customPath != "" {
		cfg, err = readFile(customPath)
		if err != nil {
			return cfg, err
		}
	} else {
		cfg = search(searchPaths())
	}
	cfg.normalize()
	ApplyEnv(&cfg)
	return cfg, nil
}

// searchPaths lists the implicit config locations, most specific first.
func searchPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".arcade", "configs", fileName))
	}
	return append(paths, filepath.Join("configs", fileName))
}

// search returns the first candidate that reads and parses. Broken
// files are skipped rather than fatal since the user never named them.
func search(paths []string) ArcadeConfig {
	for _, p := range paths {
		cfg, err := readFile(p)
		if err == nil {
			return cfg
		}
	}
	var cfg ArcadeConfig
	if err := yaml.Unmarshal(defaultArcadeYAML, &cfg); err != nil {
		cfg = DefaultArcadeConfig()
	}
	cfg.Source = SourceEmbedded
	return cfg
}

func readFile(path string) (ArcadeConfig, error) {
	var cfg ArcadeConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("config %s not found", path)
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Source = path
	return cfg, nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
