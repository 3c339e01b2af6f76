package geodash

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/arcade-hub/internal/round"
)

//go:embed levels.yaml
var builtinLevels []byte

// ErrMalformedLevels is returned for level files that fail validation.
var ErrMalformedLevels = errors.New("geodash: malformed level file")

// Obstacle is one authored obstacle. X is the level distance at which it
// enters from the right edge. Width and Height are optional for blocks and
// platforms.
type Obstacle struct {
	X      float64 `yaml:"x"`
	Type   string  `yaml:"type"`
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`
}

// Level is an authored course.
type Level struct {
	Number    int        `yaml:"number"`
	Name      string     `yaml:"name"`
	Length    float64    `yaml:"length"`
	Obstacles []Obstacle `yaml:"obstacles"`
}

type levelFile struct {
	Levels []Level `yaml:"levels"`
}

var (
	loadOnce sync.Once
	builtin  []Level
)

// Levels returns the built-in courses.
func Levels() []Level {
	loadOnce.Do(func() {
		levels, err := ParseLevels(builtinLevels)
		if err != nil {
			panic(err)
		}
		builtin = levels
	})
	return builtin
}

// LevelCount returns the number of built-in levels.
func LevelCount() int {
	return len(Levels())
}

// ReadLevels loads a custom level pack from disk.
func ReadLevels(path string) ([]Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("geodash: read levels %s: %w", path, err)
	}
	return ParseLevels(data)
}

// ParseLevels decodes and validates a level pack.
func ParseLevels(data []byte) ([]Level, error) {
	var f levelFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedLevels, err)
	}
	if len(f.Levels) == 0 {
		return nil, fmt.Errorf("%w: no levels", ErrMalformedLevels)
	}
	for i, lvl := range f.Levels {
		if lvl.Length <= 0 {
			return nil, fmt.Errorf("%w: level %d has no length", ErrMalformedLevels, i+1)
		}
		last := -1.0
		for j, o := range lvl.Obstacles {
			if _, err := kindOf(o.Type); err != nil {
				return nil, fmt.Errorf("%w: level %d obstacle %d: %v", ErrMalformedLevels, i+1, j+1, err)
			}
			if o.X < last {
				return nil, fmt.Errorf("%w: level %d obstacles out of order at %d", ErrMalformedLevels, i+1, j+1)
			}
			if o.Width < 0 || o.Height < 0 {
				return nil, fmt.Errorf("%w: level %d obstacle %d has negative size", ErrMalformedLevels, i+1, j+1)
			}
			last = o.X
		}
		if lvl.Number == 0 {
			f.Levels[i].Number = i + 1
		}
	}
	return f.Levels, nil
}

func kindOf(name string) (round.Kind, error) {
	switch name {
	case "spike":
		return round.KindSpike, nil
	case "block":
		return round.KindBlock, nil
	case "platform":
		return round.KindPlatform, nil
	default:
		return 0, fmt.Errorf("unknown obstacle type %q", name)
	}
}
