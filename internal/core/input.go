package core

import "time"

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone      Action = iota
	ActionUp               // Up arrow, W
	ActionDown             // Down arrow, S
	ActionLeft             // Left arrow, H - steer
	ActionRight            // Right arrow - steer
	ActionJump             // Space, mouse click - primary action (jump, roll)
	ActionPowerJump        // X - high jump
	ActionConfirm          // Enter - start round, end turn
	ActionFire             // A - player one trigger, attack
	ActionFire2            // L - player two trigger
	ActionSlot1            // 1..6 - lane hit, keep die
	ActionSlot2
	ActionSlot3
	ActionSlot4
	ActionSlot5
	ActionSlot6
	ActionBack    // Escape - back to menu
	ActionRestart // R - new round after game over
	ActionQuit    // Q, Ctrl+C
	ActionPause   // P
)

var actionNames = map[Action]string{
	ActionNone:      "None",
	ActionUp:        "Up",
	ActionDown:      "Down",
	ActionLeft:      "Left",
	ActionRight:     "Right",
	ActionJump:      "Jump",
	ActionPowerJump: "PowerJump",
	ActionConfirm:   "Confirm",
	ActionFire:      "Fire",
	ActionFire2:     "Fire2",
	ActionSlot1:     "Slot1",
	ActionSlot2:     "Slot2",
	ActionSlot3:     "Slot3",
	ActionSlot4:     "Slot4",
	ActionSlot5:     "Slot5",
	ActionSlot6:     "Slot6",
	ActionBack:      "Back",
	ActionRestart:   "Restart",
	ActionQuit:      "Quit",
	ActionPause:     "Pause",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// SlotAction returns the slot action for a 1-based index, or ActionNone.
func SlotAction(n int) Action {
	if n < 1 || n > 6 {
		return ActionNone
	}
	return ActionSlot1 + Action(n-1)
}

// Slot returns the 1-based slot index of a slot action, or 0.
func (a Action) Slot() int {
	if a < ActionSlot1 || a > ActionSlot6 {
		return 0
	}
	return int(a-ActionSlot1) + 1
}

// PlayerID identifies a seat at the keyboard.
type PlayerID int

const (
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// Owner returns the seat an action belongs to on a shared keyboard.
func (a Action) Owner() PlayerID {
	if a == ActionFire2 {
		return Player2
	}
	return Player1
}

// InputEvent is one action together with the moment it arrived.
type InputEvent struct {
	Action Action
	At     time.Time
}

// InputFrame represents the input collected during one simulation tick.
// Actions answers "did X happen", Events keeps the arrival order, which
// games use to break ties between presses landing in the same tick.
type InputFrame struct {
	Actions map[Action]bool
	Events  []InputEvent
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame without a timestamp.
func (f *InputFrame) Set(a Action) {
	f.Push(a, time.Time{})
}

// Push records an action and its arrival time.
func (f *InputFrame) Push(a Action, at time.Time) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
	f.Events = append(f.Events, InputEvent{Action: a, At: at})
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Events = f.Events[:0]
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	clone.Events = append(clone.Events, f.Events...)
	return clone
}
