// Package tui is the terminal front end of the arcade hub: the login,
// menu, game and leaderboard screens as Bubble Tea models, and the Wish
// SSH server that hosts them for remote players.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	minTickRate = 10
	maxTickRate = 240
)

// TickMsg drives one fixed simulation step.
type TickMsg time.Time

// tickInterval converts a tick rate into a frame period. Games count
// frames, so the rate is clamped rather than trusted.
func tickInterval(tickRate int) time.Duration {
	switch {
	case tickRate <= 0:
		tickRate = 60
	case tickRate < minTickRate:
		tickRate = minTickRate
	case tickRate > maxTickRate:
		tickRate = maxTickRate
	}
	return time.Second / time.Duration(tickRate)
}

func tickCmd(tickRate int) tea.Cmd {
	return tea.Tick(tickInterval(tickRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
