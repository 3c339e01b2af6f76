// Package registry holds the arcade's game catalogue. Each game package
// registers a factory from init, so importing a game for side effects is
// enough for the hub, the menu and the CLI to see it.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/vovakirdan/arcade-hub/internal/core"
)

// ErrUnknownGame is returned for IDs nothing registered.
var ErrUnknownGame = errors.New("unknown game")

// ScoreType says how a game's scores compare.
type ScoreType string

const (
	ScorePoints ScoreType = "points" // higher is better
	ScoreTime   ScoreType = "time"   // milliseconds, lower is better
	ScoreWaves  ScoreType = "waves"  // higher is better
)

// Ascending reports whether lower scores rank first.
func (s ScoreType) Ascending() bool {
	return s == ScoreTime
}

// Meta is the hub card for a game.
type Meta struct {
	Description string
	Difficulty  int    // 1..5 stars
	Preview     string // single glyph shown on the card
	TokensOnWin int
	ScoreType   ScoreType
	Controls    string
	Modes       []string // selectable Variant.Mode values, default first
}

// Game is one arcade mini-game. It is pure logic: the platform owns the
// clock, maps keys to InputFrames and paints the Screen.
type Game interface {
	// ID is the stable key used by the CLI and the leaderboards.
	ID() string
	Title() string
	Meta() Meta

	// Reset starts a new round from the runtime config: screen size,
	// seed, variant and reporters.
	Reset(cfg core.RuntimeConfig)

	// Step advances one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws into a pre-cleared screen.
	Render(dst *core.Screen)

	State() core.GameState
}

// GameInfo is a registered game's card.
type GameInfo struct {
	ID    string
	Title string
	Meta
}

// ResolveMode checks mode against the card. An empty mode selects the
// default, which is the first listed; games without modes accept only "".
func (g GameInfo) ResolveMode(mode string) (string, error) {
	if mode == "" {
		if len(g.Modes) > 0 {
			return g.Modes[0], nil
		}
		return "", nil
	}
	if !slices.Contains(g.Modes, mode) {
		return "", fmt.Errorf("%s has no mode %q (modes: %v)", g.ID, mode, g.Modes)
	}
	return mode, nil
}

// Factory creates a fresh game instance.
type Factory func() Game

type entry struct {
	factory Factory
	info    GameInfo
}

var (
	mu      sync.RWMutex
	entries = make(map[string]entry)
)

// Register adds a game. It panics on a duplicate ID or when the factory's
// game reports a different ID, both of which are programming errors.
func Register(id string, f Factory) {
	g := f()
	if g.ID() != id {
		panic(fmt.Sprintf("registry: %q registered with a game reporting %q", id, g.ID()))
	}

	mu.Lock()
	defer mu.Unlock()
	if _, dup := entries[id]; dup {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	entries[id] = entry{
		factory: f,
		info:    GameInfo{ID: id, Title: g.Title(), Meta: g.Meta()},
	}
}

// List returns every game's card, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]GameInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Info returns one game's card.
func Info(id string) (GameInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := entries[id]
	return e.info, ok
}

// Create instantiates a game by ID.
func Create(id string) (Game, error) {
	mu.RLock()
	e, ok := entries[id]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("registry: %w %q", ErrUnknownGame, id)
	}
	return e.factory(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	_, ok := Info(id)
	return ok
}
