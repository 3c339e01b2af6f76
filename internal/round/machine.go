package round

import "fmt"

// Phase is a named state within a round.
type Phase string

// Event drives a phase change. Inputs and timers both produce events.
type Event string

// Transition is one edge of a phase table.
type Transition struct {
	From Phase
	On   Event
	To   Phase
}

// Machine is a small table-driven state machine over a closed set of phases.
// Events that have no edge from the current phase are ignored.
type Machine struct {
	initial  Phase
	phase    Phase
	edges    map[Phase]map[Event]Phase
	terminal map[Phase]bool
}

// NewMachine builds a machine starting in initial. It panics if a terminal
// phase has an outgoing edge, since terminal phases are one-way.
func NewMachine(initial Phase, edges []Transition, terminal ...Phase) *Machine {
	m := &Machine{
		initial:  initial,
		phase:    initial,
		edges:    make(map[Phase]map[Event]Phase),
		terminal: make(map[Phase]bool, len(terminal)),
	}
	for _, p := range terminal {
		m.terminal[p] = true
	}
	for _, e := range edges {
		if m.terminal[e.From] {
			panic(fmt.Sprintf("round: terminal phase %q cannot have outgoing edge %q", e.From, e.On))
		}
		if m.edges[e.From] == nil {
			m.edges[e.From] = make(map[Event]Phase)
		}
		m.edges[e.From][e.On] = e.To
	}
	return m
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	return m.phase
}

// Target returns where ev would lead from the current phase.
func (m *Machine) Target(ev Event) (Phase, bool) {
	to, ok := m.edges[m.phase][ev]
	return to, ok
}

// Advance applies ev. It returns the resulting phase and whether it changed.
func (m *Machine) Advance(ev Event) (Phase, bool) {
	to, ok := m.Target(ev)
	if !ok {
		return m.phase, false
	}
	m.phase = to
	return to, true
}

// Terminal reports whether the current phase is terminal.
func (m *Machine) Terminal() bool {
	return m.terminal[m.phase]
}

// IsTerminal reports whether p is one of the terminal phases.
func (m *Machine) IsTerminal(p Phase) bool {
	return m.terminal[p]
}

// Reset returns to the initial phase. This is the only way out of a
// terminal phase.
func (m *Machine) Reset() {
	m.phase = m.initial
}
