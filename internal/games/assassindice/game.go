// Package assassindice implements a turn-based dice battler.
//
// Each turn the active fighter rolls six dice and must keep at least one new
// die before rolling again. Ending the turn compares the kept total with 30:
// exactly 30 is safe, less costs the difference in health, more opens an
// attack hunting for dice equal to the overshoot. The last fighter standing
// wins.
package assassindice

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/arcade-hub/internal/core"
	"github.com/vovakirdan/arcade-hub/internal/registry"
	"github.com/vovakirdan/arcade-hub/internal/round"
)

const (
	diceCount     = 6
	target        = 30
	startHealth   = 30
	healthPoints  = 10 // score per remaining health point
	maxLogEntries = 6

	rollMS       = 500
	aiStartMS    = 1000
	aiDelayMS    = 800
	aiDecisionMS = 1200
)

const (
	phasePlaying    round.Phase = "playing"
	phaseRolling    round.Phase = "rolling"
	phaseAttack     round.Phase = "attack"
	phaseAttackRoll round.Phase = "attack-rolling"
	phaseResolved   round.Phase = "resolved"

	evRoll       round.Event = "roll"
	evLanded     round.Event = "landed"
	evThink      round.Event = "think"
	evAttack     round.Event = "attack"
	evAttackDone round.Event = "attack-done"
	evResolve    round.Event = "resolve"
)

const (
	humanIndex       = 0
	defaultOpponents = 1
	maxOpponents     = 3
)

func newMachine() *round.Machine {
	return round.NewMachine(phasePlaying, []round.Transition{
		{From: phasePlaying, On: evRoll, To: phaseRolling},
		{From: phaseRolling, On: evLanded, To: phasePlaying},
		{From: phasePlaying, On: evThink, To: phasePlaying},
		{From: phasePlaying, On: evAttack, To: phaseAttack},
		{From: phasePlaying, On: evResolve, To: phaseResolved},

		{From: phaseAttack, On: evRoll, To: phaseAttackRoll},
		{From: phaseAttackRoll, On: evLanded, To: phaseAttack},
		{From: phaseAttack, On: evThink, To: phaseAttack},
		{From: phaseAttack, On: evAttackDone, To: phasePlaying},
		{From: phaseAttack, On: evResolve, To: phaseResolved},
	}, phaseResolved)
}

// Game implements the dice battler.
type Game struct {
	round   *round.Round
	runtime core.RuntimeConfig
	rng     *rand.Rand

	actors []*round.Actor
	turn   int

	dice         [diceCount]int
	kept         [diceCount]bool
	frozen       [diceCount]bool // kept before the latest roll
	keptThisRoll int
	rolled       bool
	hunt         int // attack target, 0 outside an attack
	dealt        int // damage dealt by the human

	log   []string
	sound core.Sound
}

// New creates a new game instance.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "assassin-dice"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Assassin Dice"
}

// Meta returns the hub card.
func (g *Game) Meta() registry.Meta {
	return registry.Meta{
		Description: "Roll to exactly 30 or bleed. Overshoot and go hunting.",
		Difficulty:  3,
		Preview:     "⚅",
		TokensOnWin: 2,
		ScoreType:   registry.ScorePoints,
		Controls:    "Space roll, 1-6 keep, Enter end turn/attack",
	}
}

// Reset starts a new battle. Variant.Rounds sets the number of AI
// opponents (1 to 3).
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.runtime = cfg
	g.rng = rand.New(rand.NewSource(cfg.Seed))

	opponents := cfg.Variant.Rounds
	if opponents < 1 {
		opponents = defaultOpponents
	}
	if opponents > maxOpponents {
		opponents = maxOpponents
	}
	g.actors = []*round.Actor{{Name: "PLAYER", Owner: round.Human, Health: startHealth}}
	for i := 1; i <= opponents; i++ {
		name := "AI OPPONENT"
		if opponents > 1 {
			name = fmt.Sprintf("AI OPPONENT %d", i)
		}
		g.actors = append(g.actors, &round.Actor{Name: name, Owner: round.AI, Health: startHealth})
	}

	g.turn = humanIndex
	g.dealt = 0
	g.log = nil
	g.clearTurn()

	g.round = round.New(g.ID(), newMachine(), cfg)
	g.round.OnEnter(g.entered)
	g.addLog("Your turn. Press SPACE to roll.")
}

func (g *Game) clearTurn() {
	for i := range g.dice {
		g.dice[i] = 1
	}
	g.kept = [diceCount]bool{}
	g.frozen = [diceCount]bool{}
	g.keptThisRoll = 0
	g.rolled = false
	g.hunt = 0
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.sound = core.SoundNone
	g.round.Step(g, in)
	return core.StepResult{State: g.State()}
}

// entered reacts to phase changes: dice landing, AI think ticks and the
// start of an attack.
func (g *Game) entered(from, to round.Phase) {
	switch {
	case from == phaseRolling || from == phaseAttackRoll:
		g.land()
		g.thinkAfter(aiDelayMS)
	case from == to:
		g.think()
	case to == phaseAttack:
		g.thinkAfter(aiDelayMS)
	}
}

func (g *Game) land() {
	for i := range g.dice {
		if !g.kept[i] {
			g.dice[i] = g.rng.Intn(6) + 1
		}
	}
	g.frozen = g.kept
	g.keptThisRoll = 0
	g.rolled = true
}

func (g *Game) current() *round.Actor {
	return g.actors[g.turn]
}

func (g *Game) humanTurn() bool {
	return g.current().Owner == round.Human
}

func (g *Game) thinkAfter(ms int) {
	if !g.humanTurn() {
		g.round.Schedule(g.runtime.FramesFor(ms), evThink)
	}
}

// Input applies the human's choices. AI turns ignore the keyboard.
func (g *Game) Input(r *round.Round, in core.InputFrame) {
	if !g.humanTurn() {
		return
	}
	for _, ev := range in.Events {
		if r.Terminal() || g.living() <= 1 {
			return
		}
		if slot := ev.Action.Slot(); slot > 0 {
			g.toggle(slot - 1)
			continue
		}
		switch ev.Action {
		case core.ActionJump, core.ActionFire:
			g.roll()
		case core.ActionConfirm:
			if r.Phase() == phaseAttack {
				g.endAttack()
			} else {
				g.endTurn()
			}
		}
	}
}

// Physics has no continuous state; dice and AI run on scheduled events.
func (g *Game) Physics(r *round.Round) {}

// Evaluate finishes the battle once a single fighter is left.
func (g *Game) Evaluate(r *round.Round) round.Outcome {
	if g.living() > 1 {
		return round.OutcomeNone
	}
	human := g.actors[humanIndex]
	r.SetScore(human.Health*healthPoints + g.dealt)
	if human.Alive() {
		g.addLog(human.Name + " is the last survivor and wins!")
		r.Finish(evResolve, core.Win)
		return round.OutcomeComplete
	}
	for _, a := range g.actors {
		if a.Alive() {
			g.addLog(a.Name + " is the last survivor and wins!")
		}
	}
	r.Finish(evResolve, core.Lose)
	return round.OutcomeLose
}

// canRoll reports whether another roll is allowed: the first roll of a
// turn is free, later ones need a newly kept die and something left to roll.
func (g *Game) canRoll() bool {
	if g.rolled && g.keptThisRoll == 0 {
		return false
	}
	return g.keptCount() < diceCount
}

func (g *Game) roll() bool {
	if !g.canRoll() {
		return false
	}
	if !g.round.Advance(evRoll) {
		return false
	}
	g.round.Schedule(g.runtime.FramesFor(rollMS), evLanded)
	g.sound = core.SoundRoll
	return true
}

// toggle keeps or releases die i. Dice frozen by an earlier roll stay put,
// and in an attack only dice showing the hunted value can be kept.
func (g *Game) toggle(i int) bool {
	if i < 0 || i >= diceCount || !g.rolled || g.frozen[i] {
		return false
	}
	switch g.round.Phase() {
	case phasePlaying:
	case phaseAttack:
		if g.dice[i] != g.hunt {
			return false
		}
	default:
		return false
	}
	if g.kept[i] {
		g.kept[i] = false
		g.keptThisRoll--
	} else {
		g.kept[i] = true
		g.keptThisRoll++
	}
	return true
}

func (g *Game) keptCount() int {
	n := 0
	for _, k := range g.kept {
		if k {
			n++
		}
	}
	return n
}

// Total returns the sum of the kept dice.
func (g *Game) Total() int {
	sum := 0
	for i, k := range g.kept {
		if k {
			sum += g.dice[i]
		}
	}
	return sum
}

// endTurn scores the kept dice against the target.
func (g *Game) endTurn() bool {
	if g.round.Phase() != phasePlaying || !g.rolled {
		return false
	}
	a := g.current()
	total := g.Total()
	out := round.Threshold(total, target)
	switch out.Verdict {
	case round.VerdictSafe:
		g.addLog(fmt.Sprintf("%s scores exactly %d - SAFE!", a.Name, target))
	case round.VerdictPenalty:
		a.Damage(out.Amount)
		msg := fmt.Sprintf("%s scores %d, loses %d health (%d left)", a.Name, total, out.Amount, a.Health)
		if !a.Alive() {
			msg += " - ELIMINATED!"
		}
		g.addLog(msg)
	case round.VerdictBonus:
		g.hunt = out.Amount
		g.kept = [diceCount]bool{}
		g.frozen = [diceCount]bool{}
		g.keptThisRoll = 0
		g.rolled = false
		g.addLog(fmt.Sprintf("%s scores %d and hunts for %d's", a.Name, total, g.hunt))
		g.round.Advance(evAttack)
		return true
	}
	g.nextTurn()
	return true
}

// endAttack deals the kept attack dice to the next living opponents.
func (g *Game) endAttack() bool {
	if g.round.Phase() != phaseAttack {
		return false
	}
	a := g.current()
	damage := g.Total()
	if damage == 0 {
		g.addLog(a.Name + "'s attack failed!")
	}
	victim := g.turn
	for damage > 0 && g.living() > 1 {
		victim = (victim + 1) % len(g.actors)
		v := g.actors[victim]
		if !v.Alive() || victim == g.turn {
			continue
		}
		applied := v.Damage(damage)
		damage -= applied
		if g.turn == humanIndex {
			g.dealt += applied
		}
		msg := fmt.Sprintf("%s deals %d damage to %s", a.Name, applied, v.Name)
		if !v.Alive() {
			msg += " - ELIMINATED!"
		}
		g.addLog(msg)
	}
	g.round.Advance(evAttackDone)
	g.nextTurn()
	return true
}

func (g *Game) living() int {
	n := 0
	for _, a := range g.actors {
		if a.Alive() {
			n++
		}
	}
	return n
}

// nextTurn hands the dice to the next living fighter. The battle itself is
// settled by Evaluate.
func (g *Game) nextTurn() {
	g.clearTurn()
	if g.living() <= 1 {
		return
	}
	for {
		g.turn = (g.turn + 1) % len(g.actors)
		if g.current().Alive() {
			break
		}
	}
	if g.humanTurn() {
		g.addLog("Your turn. Press SPACE to roll.")
		return
	}
	g.thinkAfter(aiStartMS)
}

func (g *Game) addLog(msg string) {
	g.log = append(g.log, msg)
	if len(g.log) > maxLogEntries {
		g.log = g.log[len(g.log)-maxLogEntries:]
	}
}

// Actors returns the fighters, human first.
func (g *Game) Actors() []round.Actor {
	out := make([]round.Actor, len(g.actors))
	for i, a := range g.actors {
		out[i] = *a
	}
	return out
}

// Turn returns the index of the active fighter.
func (g *Game) Turn() int {
	return g.turn
}

// Dice returns the current faces and which of them are kept.
func (g *Game) Dice() ([diceCount]int, [diceCount]bool) {
	return g.dice, g.kept
}

// Hunt returns the attack target, or 0 outside an attack.
func (g *Game) Hunt() int {
	return g.hunt
}

// LastSound returns the sound raised on the latest tick.
func (g *Game) LastSound() core.Sound {
	return g.sound
}

// Phase returns the current phase name.
func (g *Game) Phase() string {
	return string(g.round.Phase())
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	msg := ""
	if len(g.log) > 0 {
		msg = g.log[len(g.log)-1]
	}
	return core.GameState{
		Score:    g.round.Score(),
		GameOver: g.round.Terminal(),
		Message:  msg,
	}
}

func init() {
	registry.Register("assassin-dice", func() registry.Game {
		return New()
	})
}
