package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/arcade-hub/internal/core"
)

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

var gameKeys = map[string]core.Action{
	" ":      core.ActionJump,
	"up":     core.ActionJump,
	"w":      core.ActionJump,
	"x":      core.ActionPowerJump,
	"down":   core.ActionDown,
	"s":      core.ActionDown,
	"left":   core.ActionLeft,
	"h":      core.ActionLeft,
	"right":  core.ActionRight,
	"enter":  core.ActionConfirm,
	"a":      core.ActionFire,
	"l":      core.ActionFire2,
	"1":      core.ActionSlot1,
	"2":      core.ActionSlot2,
	"3":      core.ActionSlot3,
	"4":      core.ActionSlot4,
	"5":      core.ActionSlot5,
	"6":      core.ActionSlot6,
	"p":      core.ActionPause,
	"esc":    core.ActionBack,
	"b":      core.ActionBack,
	"r":      core.ActionRestart,
	"ctrl+c": core.ActionQuit,
	"q":      core.ActionQuit,
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	a, ok := gameKeys[msg.String()]
	if !ok {
		return core.ActionNone, false
	}
	return a, a == core.ActionQuit
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionMore
	MenuActionLess
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionLogout
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "a", "left", "h":
		return MenuActionLeft
	case "d", "right", "l":
		return MenuActionRight
	case "+", "=", "]":
		return MenuActionMore
	case "-", "_", "[":
		return MenuActionLess
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	case "o":
		return MenuActionLogout
	}

	return MenuActionNone
}
