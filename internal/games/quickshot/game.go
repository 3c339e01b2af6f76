// Package quickshot implements a quick-draw reaction duel.
//
// A round walks waiting → ready → set → go. Pressing the trigger before
// "GO!" loses on the spot; after it, the fastest reaction wins. The ready,
// set and go cues are scheduled transitions with random delays.
//
// Outside a tournament one paid round is one duel. A tournament plays
// duels until the series is decided and reports a single match result.
package quickshot

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/arcade-hub/internal/core"
	"github.com/vovakirdan/arcade-hub/internal/registry"
	"github.com/vovakirdan/arcade-hub/internal/round"
)

// Modes.
const (
	ModePractice   = "practice"   // solo, A or Space
	ModeCPU        = "cpu"        // against a bot
	ModeVersus     = "versus"     // A vs L on one keyboard
	ModeTournament = "tournament" // versus, best of N
)

// Timings in milliseconds.
const (
	readyMinMS   = 1000
	readySpanMS  = 1000
	setMinMS     = 1000
	setSpanMS    = 1000
	goMinMS      = 1000
	goSpanMS     = 2000
	answerWaitMS = 2000 // after the first reaction
	noShowMS     = 3000 // nobody reacted
	botMinMS     = 200
	botSpanMS    = 200

	defaultBestOf = 3
)

const (
	phaseWaiting  round.Phase = "waiting"
	phaseReady    round.Phase = "ready"
	phaseSet      round.Phase = "set"
	phaseGo       round.Phase = "go"
	phaseFinished round.Phase = "finished"

	evStart round.Event = "start"
	evSet   round.Event = "set"
	evGo    round.Event = "go"
	evEarly round.Event = "early"
	evDone  round.Event = "done"
)

func newMachine() *round.Machine {
	return round.NewMachine(phaseWaiting, []round.Transition{
		{From: phaseWaiting, On: evStart, To: phaseReady},
		{From: phaseReady, On: evSet, To: phaseSet},
		{From: phaseSet, On: evGo, To: phaseGo},
		{From: phaseReady, On: evEarly, To: phaseFinished},
		{From: phaseSet, On: evEarly, To: phaseFinished},
		{From: phaseGo, On: evDone, To: phaseFinished},
	}, phaseFinished)
}

// reaction is one player's shot after "GO!".
type reaction struct {
	ms    int
	order int // arrival order among reactions this round
	ok    bool
}

// Game implements the duel.
type Game struct {
	round   *round.Round
	runtime core.RuntimeConfig
	rng     *rand.Rand
	now     func() time.Time
	mode    string

	goAt      time.Time
	firstAt   time.Time
	botMS     int
	shots     [2]reaction
	shotCount int
	early     core.PlayerID
	outcome   string

	bestOf int
	wins   [2]int
	played int
	best   int // fastest winning reaction of the match, 0 if none
	ticks  int

	reporter core.Reporter
	sound    core.Sound
}

// New creates a new game instance using the wall clock.
func New() *Game {
	return &Game{now: time.Now}
}

// SetClock replaces the clock used to time reactions.
func (g *Game) SetClock(now func() time.Time) {
	g.now = now
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "quickshot"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Quick Draw Showdown"
}

// Meta returns the hub card.
func (g *Game) Meta() registry.Meta {
	return registry.Meta{
		Description: "Lightning-fast reflexes test - beat the computer!",
		Difficulty:  2,
		Preview:     "¤",
		TokensOnWin: 2,
		ScoreType:   registry.ScoreTime,
		Controls:    "Enter start, A/Space shoot (P2: L)",
		Modes:       []string{ModePractice, ModeCPU, ModeVersus, ModeTournament},
	}
}

// Reset starts a new match. Variant.Mode picks the opponent and
// Variant.Rounds the tournament length.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.runtime = cfg
	g.rng = rand.New(rand.NewSource(cfg.Seed))

	switch cfg.Variant.Mode {
	case ModeCPU, ModeVersus, ModeTournament:
		g.mode = cfg.Variant.Mode
	default:
		g.mode = ModePractice
	}
	g.bestOf = cfg.Variant.Rounds
	if g.bestOf <= 0 {
		g.bestOf = defaultBestOf
	}
	g.wins = [2]int{}
	g.played = 0
	g.best = 0
	g.ticks = 0

	// A tournament reports the match, not its duels.
	duelCfg := cfg
	g.reporter = cfg.Reporter
	if g.mode == ModeTournament {
		duelCfg.Reporter = core.ReporterFunc(g.duelFinished)
	}
	g.round = round.New(g.ID(), newMachine(), duelCfg)
	g.round.OnEnter(g.entered)
	g.clearDuel()
}

func (g *Game) clearDuel() {
	g.goAt = time.Time{}
	g.firstAt = time.Time{}
	g.botMS = 0
	g.shots = [2]reaction{}
	g.shotCount = 0
	g.early = 0
	g.outcome = ""
}

// nextDuel starts another duel of the same tournament.
func (g *Game) nextDuel() {
	g.round.Reset()
	g.clearDuel()
}

// Step advances the game by one tick. Once a duel is over ENTER only
// continues an undecided tournament; any other replay goes through the
// hub as a new paid game.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.sound = core.SoundNone
	if g.round.Terminal() {
		if g.mode == ModeTournament && in.Has(core.ActionConfirm) && !g.matchOver() {
			g.nextDuel()
		}
		return core.StepResult{State: g.State()}
	}
	g.round.Step(g, in)
	return core.StepResult{State: g.State()}
}

// entered schedules the countdown cues and stamps "GO!".
func (g *Game) entered(from, to round.Phase) {
	switch to {
	case phaseReady:
		ready := readyMinMS + g.rng.Intn(readySpanMS+1)
		set := setMinMS + g.rng.Intn(setSpanMS+1)
		goDelay := goMinMS + g.rng.Intn(goSpanMS+1)
		g.round.ScheduleFrom(g.runtime.FramesFor(ready), phaseReady, evSet)
		g.round.ScheduleFrom(g.runtime.FramesFor(ready+set+goDelay), phaseSet, evGo)
	case phaseGo:
		g.goAt = g.now()
		g.sound = core.SoundGo
		if g.mode == ModeCPU {
			g.botMS = botMinMS + g.rng.Intn(botSpanMS+1)
		}
	}
}

func (g *Game) trigger(a core.Action) (core.PlayerID, bool) {
	switch a {
	case core.ActionFire:
		return core.Player1, true
	case core.ActionJump:
		return core.Player1, g.mode == ModePractice || g.mode == ModeCPU
	case core.ActionFire2:
		return core.Player2, g.mode == ModeVersus || g.mode == ModeTournament
	}
	return 0, false
}

// Input applies presses in arrival order.
func (g *Game) Input(r *round.Round, in core.InputFrame) {
	for _, ev := range in.Events {
		if r.Terminal() {
			return
		}
		switch r.Phase() {
		case phaseWaiting:
			if ev.Action == core.ActionConfirm || ev.Action == core.ActionJump {
				r.Advance(evStart)
			}
		case phaseReady, phaseSet:
			if p, ok := g.trigger(ev.Action); ok {
				g.early = p
				class := core.Lose
				if p == core.Player2 {
					class = core.Win
				}
				g.outcome = fmt.Sprintf("Player %d shot too early!", p)
				r.Finish(evEarly, class)
			}
		case phaseGo:
			if p, ok := g.trigger(ev.Action); ok {
				g.shoot(p, ev.At)
			}
		}
	}
}

func (g *Game) shoot(p core.PlayerID, at time.Time) {
	s := &g.shots[p-1]
	if s.ok {
		return
	}
	if at.IsZero() {
		at = g.now()
	}
	ms := int(at.Sub(g.goAt) / time.Millisecond)
	if ms < 0 {
		ms = 0
	}
	g.shotCount++
	*s = reaction{ms: ms, order: g.shotCount, ok: true}
	if g.firstAt.IsZero() {
		g.firstAt = at
	}
}

// Physics lets the bot fire once its reaction time has elapsed.
func (g *Game) Physics(r *round.Round) {
	if r.Phase() != phaseGo || g.mode != ModeCPU || g.shots[1].ok {
		return
	}
	elapsed := g.now().Sub(g.goAt)
	if elapsed >= time.Duration(g.botMS)*time.Millisecond {
		g.shotCount++
		g.shots[1] = reaction{ms: g.botMS, order: g.shotCount, ok: true}
		if g.firstAt.IsZero() {
			g.firstAt = g.goAt.Add(time.Duration(g.botMS) * time.Millisecond)
		}
	}
}

// Evaluate decides the duel once enough has happened.
func (g *Game) Evaluate(r *round.Round) round.Outcome {
	if r.Phase() != phaseGo {
		return round.OutcomeNone
	}
	p1, p2 := g.shots[0], g.shots[1]
	now := g.now()

	solo := g.mode == ModePractice
	switch {
	case solo && p1.ok:
	case p1.ok && p2.ok:
	case (p1.ok || p2.ok) && now.Sub(g.firstAt) >= answerWaitMS*time.Millisecond:
	case !p1.ok && !p2.ok && now.Sub(g.goAt) >= noShowMS*time.Millisecond:
	default:
		return round.OutcomeNone
	}

	class := g.judge()
	if p1.ok {
		r.SetScore(p1.ms)
	}
	r.Finish(evDone, class)
	return round.OutcomeHit
}

// judge classifies the duel from player one's seat. Equal times go to
// whoever's shot arrived first.
func (g *Game) judge() core.Classification {
	p1, p2 := g.shots[0], g.shots[1]
	switch {
	case p1.ok && p2.ok:
		if p1.ms < p2.ms || (p1.ms == p2.ms && p1.order < p2.order) {
			g.outcome = "Player 1 wins!"
			return core.Win
		}
		g.outcome = fmt.Sprintf("%s wins!", g.opponentName())
		return core.Lose
	case p1.ok:
		g.outcome = "Player 1 wins by default!"
		return core.Win
	case p2.ok:
		g.outcome = fmt.Sprintf("%s wins by default!", g.opponentName())
		return core.Lose
	default:
		g.outcome = "No one reacted!"
		if g.mode == ModePractice {
			return core.Lose
		}
		return core.Tie
	}
}

// duelFinished tallies a tournament duel and, once the series is
// decided, reports the match: its class from the wins and its score the
// fastest winning reaction.
func (g *Game) duelFinished(res core.Result) {
	g.ticks += res.Ticks
	switch res.Class {
	case core.Win:
		g.wins[0]++
		g.played++
		if g.best == 0 || (res.Score > 0 && res.Score < g.best) {
			g.best = res.Score
		}
	case core.Lose:
		g.wins[1]++
		g.played++
	default:
		// A tie uses up a duel but counts for nobody.
		g.played++
	}
	if !g.matchOver() || g.reporter == nil {
		return
	}

	class := core.Tie
	switch {
	case g.wins[0] > g.wins[1]:
		class = core.Win
	case g.wins[0] < g.wins[1]:
		class = core.Lose
	}
	g.reporter.Report(core.Result{
		RoundID: res.RoundID,
		GameID:  res.GameID,
		Score:   g.best,
		Class:   class,
		Ticks:   g.ticks,
	})
}

func (g *Game) needed() int {
	return (g.bestOf + 1) / 2
}

// matchOver reports whether no further duel can be played.
func (g *Game) matchOver() bool {
	if g.mode != ModeTournament {
		return false
	}
	return g.wins[0] >= g.needed() || g.wins[1] >= g.needed() || g.played >= g.bestOf
}

func (g *Game) opponentName() string {
	if g.mode == ModeCPU {
		return "CPU"
	}
	return "Player 2"
}

// Reaction returns a player's reaction in ms, if any.
func (g *Game) Reaction(p core.PlayerID) (int, bool) {
	s := g.shots[p-1]
	return s.ms, s.ok
}

// LastSound returns the sound raised on the latest tick.
func (g *Game) LastSound() core.Sound {
	return g.sound
}

// Phase returns the current phase name.
func (g *Game) Phase() string {
	return string(g.round.Phase())
}

// State returns the current game state. In a tournament the game is only
// over once the series is decided.
func (g *Game) State() core.GameState {
	over := g.round.Terminal()
	if g.mode == ModeTournament {
		over = over && g.matchOver()
	}
	return core.GameState{
		Score:    g.round.Score(),
		GameOver: over,
		Message:  g.outcome,
	}
}

func init() {
	registry.Register("quickshot", func() registry.Game {
		return New()
	})
}
