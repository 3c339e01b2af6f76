// Package round is the shared game loop used by every arcade title.
//
// A Round owns its phase machine, score and deferred transitions. Each tick
// runs the game's Policy in a fixed order: input effects, then physics and
// timers, then collision/outcome evaluation, then any due scheduled
// transitions. Once the machine enters a terminal phase the round reports a
// single Result and ignores everything until Reset.
package round

import (
	"github.com/oklog/ulid/v2"

	"github.com/vovakirdan/arcade-hub/internal/core"
)

// Policy is the per-game part of the loop.
//
// Input may Advance or Finish the round. Evaluate inspects post-physics
// state and returns at most one outcome; a lethal outcome should be paired
// with a Finish call by the policy itself.
type Policy interface {
	Input(r *Round, in core.InputFrame)
	Physics(r *Round)
	Evaluate(r *Round) Outcome
}

type scheduled struct {
	due   int
	from  Phase
	event Event
}

// Round is one play-through of a game.
type Round struct {
	id       ulid.ULID
	gameID   string
	machine  *Machine
	reporter core.Reporter
	listener core.ScoreListener
	onEnter  func(from, to Phase)

	pending []scheduled
	ticks   int
	score   int
	sent    int
	result  *core.Result
}

// New creates a round for gameID driven by machine. Reporter and listener
// are taken from cfg and may be nil.
func New(gameID string, machine *Machine, cfg core.RuntimeConfig) *Round {
	r := &Round{
		gameID:   gameID,
		machine:  machine,
		reporter: cfg.Reporter,
		listener: cfg.Listener,
	}
	r.Reset()
	return r
}

// OnEnter registers a hook called after every phase change, including the
// terminal one. Games use it to stamp the moment a phase began.
func (r *Round) OnEnter(fn func(from, to Phase)) {
	r.onEnter = fn
}

// Reset starts a fresh round: new id, initial phase, zero score, no
// pending transitions and no result.
func (r *Round) Reset() {
	r.id = ulid.Make()
	r.machine.Reset()
	r.pending = r.pending[:0]
	r.ticks = 0
	r.score = 0
	r.sent = 0
	r.result = nil
}

// Step runs one tick of p. Nothing happens once the round is terminal.
func (r *Round) Step(p Policy, in core.InputFrame) Outcome {
	if r.Terminal() {
		return OutcomeNone
	}
	r.ticks++

	p.Input(r, in)
	if r.Terminal() {
		return OutcomeNone
	}

	p.Physics(r)
	if r.Terminal() {
		return OutcomeNone
	}

	out := p.Evaluate(r)
	if r.Terminal() {
		return out
	}

	r.fireDue()
	r.publish()
	return out
}

// Advance applies a non-terminal event. Events that lead into a terminal
// phase are refused here; use Finish so a Result is produced.
func (r *Round) Advance(ev Event) bool {
	if r.Terminal() {
		return false
	}
	to, ok := r.machine.Target(ev)
	if !ok || r.machine.IsTerminal(to) {
		return false
	}
	from := r.machine.Phase()
	r.machine.Advance(ev)
	r.entered(from, to)
	return true
}

// Finish moves the round into a terminal phase via ev and reports the
// Result. It returns false, and reports nothing, if the round is already
// terminal or ev does not lead to a terminal phase.
func (r *Round) Finish(ev Event, class core.Classification) bool {
	if r.Terminal() {
		return false
	}
	to, ok := r.machine.Target(ev)
	if !ok || !r.machine.IsTerminal(to) {
		return false
	}
	from := r.machine.Phase()
	r.machine.Advance(ev)
	r.pending = r.pending[:0]

	res := core.Result{
		RoundID: r.id.String(),
		GameID:  r.gameID,
		Score:   r.score,
		Class:   class,
		Ticks:   r.ticks,
	}
	r.result = &res
	if r.reporter != nil {
		r.reporter.Report(res)
	}
	r.entered(from, to)
	return true
}

// Schedule queues ev to fire after frames ticks, guarded on the current phase.
func (r *Round) Schedule(frames int, ev Event) {
	r.ScheduleFrom(frames, r.machine.Phase(), ev)
}

// ScheduleFrom queues ev to fire after frames ticks, but only if the round
// is in phase from at that moment.
func (r *Round) ScheduleFrom(frames int, from Phase, ev Event) {
	if frames < 1 {
		frames = 1
	}
	r.pending = append(r.pending, scheduled{due: r.ticks + frames, from: from, event: ev})
}

// Pending returns the number of queued transitions.
func (r *Round) Pending() int {
	return len(r.pending)
}

func (r *Round) fireDue() {
	if len(r.pending) == 0 {
		return
	}
	// Entries are applied in insertion order; an entry may enable a later
	// one in the same tick.
	keep := r.pending[:0]
	var due []scheduled
	for _, s := range r.pending {
		if s.due <= r.ticks {
			due = append(due, s)
		} else {
			keep = append(keep, s)
		}
	}
	r.pending = keep
	for _, s := range due {
		if r.machine.Phase() == s.from {
			r.Advance(s.event)
		}
	}
}

func (r *Round) entered(from, to Phase) {
	if r.onEnter != nil {
		r.onEnter(from, to)
	}
}

func (r *Round) publish() {
	if r.listener == nil || r.score == r.sent {
		return
	}
	r.sent = r.score
	r.listener.ScoreUpdate(r.gameID, r.score)
}

// AddScore adds n to the score, which never drops below zero.
func (r *Round) AddScore(n int) {
	r.SetScore(r.score + n)
}

// SetScore replaces the score. Ignored once terminal.
func (r *Round) SetScore(n int) {
	if r.Terminal() {
		return
	}
	if n < 0 {
		n = 0
	}
	r.score = n
}

// ID returns the round's unique id.
func (r *Round) ID() string { return r.id.String() }

// GameID returns the owning game's id.
func (r *Round) GameID() string { return r.gameID }

// Score returns the accumulated score.
func (r *Round) Score() int { return r.score }

// Ticks returns the number of ticks stepped.
func (r *Round) Ticks() int { return r.ticks }

// Phase returns the current phase.
func (r *Round) Phase() Phase { return r.machine.Phase() }

// Terminal reports whether the round has ended.
func (r *Round) Terminal() bool { return r.machine.Terminal() }

// Result returns the final result once the round has ended.
func (r *Round) Result() (core.Result, bool) {
	if r.result == nil {
		return core.Result{}, false
	}
	return *r.result, true
}
