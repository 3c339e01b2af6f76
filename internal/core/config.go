package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay

	Variant Variant

	// Reporter receives the single Result of every round. Optional.
	Reporter Reporter
	// Listener receives live score updates. Optional.
	Listener ScoreListener
}

// Variant selects a game mode. Games ignore fields they don't use.
type Variant struct {
	Mode   string // e.g. "endless", "levels", "cpu", "versus", "pattern"
	Level  int    // 1-based level, 0 = default
	Track  string // song name or pattern path
	Rounds int    // tournament length
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// FramesFor converts milliseconds into whole ticks at the configured rate.
func (c RuntimeConfig) FramesFor(ms int) int {
	rate := c.TickRate
	if rate <= 0 {
		rate = 60
	}
	return (ms*rate + 999) / 1000
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int  // Current score
	GameOver bool // Whether the round has reached its terminal phase
	Paused   bool
	Message  string // Short status line shown by the platform
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}
