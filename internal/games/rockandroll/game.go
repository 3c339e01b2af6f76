// Package rockandroll implements a rhythm driving game. Notes fall down
// five lanes towards a hit line; press the lane's number as a note crosses
// the line. Steer the car clear of black blocks and of notes you let
// through. Every missed note drags the hit line closer to the car.
package rockandroll

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/vovakirdan/arcade-hub/internal/core"
	"github.com/vovakirdan/arcade-hub/internal/registry"
	"github.com/vovakirdan/arcade-hub/internal/round"
)

// Playfield and timing.
const (
	worldW = 400.0
	worldH = 600.0
	lanes  = 5
	laneW  = worldW / lanes

	carW     = 40.0
	carH     = 50.0
	carY     = worldH - 100
	carSpeed = 5.0
	// Terminals report presses but no releases, so one arrow press steers
	// for a few frames.
	steerFrames = 6

	noteH           = 40.0
	hitWindow       = 30.0
	hitScore        = 50
	defaultBaseline = 100.0
	missPenalty     = 10.0
	noteFallBeats   = 4
	defaultBPM      = 120

	spawnEvery  = 30
	patternLead = 2.0 // seconds a note is spawned ahead of its time
)

// Modes.
const (
	ModeRandom  = "random"
	ModePattern = "pattern"
)

const (
	phasePlaying round.Phase = "playing"
	phaseCrashed round.Phase = "crashed"
	phaseCleared round.Phase = "cleared"

	evCrash round.Event = "crash"
	evClear round.Event = "clear"
)

// Visual characters for rendering.
const (
	CarChar   = '▓'
	NoteChar  = '▬'
	BlockChar = '█'
	LineChar  = '─'
)

var laneColors = [lanes]core.Color{
	core.ColorGreen, core.ColorRed, core.ColorYellow, core.ColorBlue, core.ColorOrange,
}

func newMachine() *round.Machine {
	return round.NewMachine(phasePlaying, []round.Transition{
		{From: phasePlaying, On: evCrash, To: phaseCrashed},
		{From: phasePlaying, On: evClear, To: phaseCleared},
	}, phaseCrashed, phaseCleared)
}

// Game implements the rhythm driver.
type Game struct {
	round   *round.Round
	runtime core.RuntimeConfig
	rng     *rand.Rand

	song    Song
	pattern *Pattern
	next    int
	loadErr error

	car      round.Actor
	steer    int
	steerDir float64

	bpm      int
	baseline float64
	speed    float64
	items    []round.Item
	spawn    round.Countdown

	hits   int
	misses int
	paused bool
	last   round.Outcome
}

// New creates a new game instance.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "rock-and-roll"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Rock and Roll"
}

// Meta returns the hub card.
func (g *Game) Meta() registry.Meta {
	return registry.Meta{
		Description: "Drive to the beat. Hit the notes, dodge the blocks.",
		Difficulty:  4,
		Preview:     "♫",
		TokensOnWin: 3,
		ScoreType:   registry.ScorePoints,
		Controls:    "Arrow Keys + Number Keys 1-5",
		Modes:       []string{ModeRandom, ModePattern},
	}
}

// Reset starts a new drive. Variant.Track is a song name or a path to a
// JSON pattern; Variant.Mode "pattern" plays the song's chart when it has
// one. Unknown songs and unreadable patterns fall back to random notes.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.runtime = cfg
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.round = round.New(g.ID(), newMachine(), cfg)

	g.song = Song{Name: "Freestyle", BPM: defaultBPM}
	g.pattern = nil
	g.next = 0
	g.loadErr = nil
	g.selectTrack(cfg.Variant)

	g.bpm = g.song.BPM
	if g.pattern != nil {
		g.bpm = g.pattern.BPM
	}
	g.baseline = defaultBaseline
	g.speed = fallSpeed(g.baseline, g.bpm)

	g.car = round.Actor{
		Name:   "car",
		Owner:  round.Human,
		Health: 1,
		Body:   round.Body{X: worldW/2 - carW/2, Y: carY},
	}
	g.steer = 0
	g.items = g.items[:0]
	g.spawn = round.NewCountdown(spawnEvery)
	g.hits = 0
	g.misses = 0
	g.paused = false
	g.last = round.OutcomeNone
}

func (g *Game) selectTrack(v core.Variant) {
	track := v.Track
	if strings.HasSuffix(strings.ToLower(track), ".json") {
		g.usePattern(track)
		return
	}
	if s, ok := FindSong(track); ok {
		g.song = s
	}
	if v.Mode == ModePattern && g.song.Pattern != "" {
		g.usePattern(g.song.Pattern)
	}
}

func (g *Game) usePattern(path string) {
	p, err := ReadPattern(path)
	if err != nil {
		g.loadErr = err
		return
	}
	g.pattern = &p
}

// UsePattern plays p instead of random notes. It must be called right
// after Reset.
func (g *Game) UsePattern(p Pattern) {
	g.pattern = &p
	g.next = 0
	g.bpm = p.BPM
	g.speed = fallSpeed(g.baseline, g.bpm)
}

// fallSpeed is the per-frame speed that brings a note from just above the
// screen to the hit line in noteFallBeats beats.
func fallSpeed(baseline float64, bpm int) float64 {
	distance := (carY - baseline) + noteH
	seconds := float64(noteFallBeats*60) / float64(bpm)
	return distance / (seconds * 60)
}

// hitLine is the y coordinate notes are played against.
func (g *Game) hitLine() float64 {
	return carY - g.baseline + noteH/2
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionPause) && !g.round.Terminal() {
		g.paused = !g.paused
	}
	if !g.paused {
		g.last = g.round.Step(g, in)
	}
	return core.StepResult{State: g.State()}
}

// Input steers the car and plays notes.
func (g *Game) Input(r *round.Round, in core.InputFrame) {
	for _, ev := range in.Events {
		switch ev.Action {
		case core.ActionLeft:
			g.steer, g.steerDir = steerFrames, -1
		case core.ActionRight:
			g.steer, g.steerDir = steerFrames, 1
		default:
			if lane := ev.Action.Slot(); lane >= 1 && lane <= lanes {
				g.play(r, lane-1)
			}
		}
	}
}

// play hits the first live note in lane that sits inside the hit window.
func (g *Game) play(r *round.Round, lane int) bool {
	line := g.hitLine()
	for i := range g.items {
		it := &g.items[i]
		if it.Kind != round.KindNote || it.Lane != lane || it.Resolved() {
			continue
		}
		if math.Abs(it.Box.CenterY()-line) < hitWindow {
			it.Resolve(round.Hit)
			g.hits++
			r.AddScore(hitScore)
			return true
		}
	}
	return false
}

// Physics moves the car, spawns notes and lets everything fall.
func (g *Game) Physics(r *round.Round) {
	if g.steer > 0 {
		g.car.Body.X = core.ClampF(g.car.Body.X+g.steerDir*carSpeed, 0, worldW-carW)
		g.steer--
	}

	if g.pattern != nil {
		g.spawnPattern(r.Ticks())
	} else if g.spawn.Tick(1) > 0 {
		g.spawnRandom(r.Ticks())
	}

	kept := g.items[:0]
	for _, it := range g.items {
		it.Box.Y += g.speed
		if it.Box.Y >= worldH {
			continue
		}
		if it.Kind == round.KindNote && it.Resolved() {
			continue
		}
		kept = append(kept, it)
	}
	g.items = kept
}

func (g *Game) spawnPattern(tick int) {
	rate := g.runtime.TickRate
	if rate <= 0 {
		rate = 60
	}
	elapsed := float64(tick) / float64(rate)
	for g.next < len(g.pattern.Notes) {
		n := g.pattern.Notes[g.next]
		if n.Time > elapsed+patternLead {
			return
		}
		g.items = append(g.items, newNote(round.KindNote, n.Lane, tick))
		g.next++
	}
}

// spawnRandom drops a note in a random lane and a block in another lane
// whose top is clear.
func (g *Game) spawnRandom(tick int) {
	noteLane := g.rng.Intn(lanes)
	g.items = append(g.items, newNote(round.KindNote, noteLane, tick))

	var free []int
	for lane := 0; lane < lanes; lane++ {
		if lane == noteLane || g.laneBlockedAtTop(lane) {
			continue
		}
		free = append(free, lane)
	}
	if len(free) > 0 {
		lane := free[g.rng.Intn(len(free))]
		g.items = append(g.items, newNote(round.KindBlock, lane, tick))
	}
}

func (g *Game) laneBlockedAtTop(lane int) bool {
	for _, it := range g.items {
		if it.Lane == lane && it.Box.Y < noteH {
			return true
		}
	}
	return false
}

func newNote(kind round.Kind, lane, tick int) round.Item {
	return round.Item{
		Kind:      kind,
		Box:       core.Box{X: float64(lane) * laneW, Y: -noteH, W: laneW, H: noteH},
		Lane:      lane,
		SpawnTick: tick,
	}
}

// Evaluate checks for crashes, then for notes that slipped past the hit
// window, then for the end of the chart.
func (g *Game) Evaluate(r *round.Round) round.Outcome {
	if out, _ := round.CollideAll(g.carBox(), 0, g.items); out == round.OutcomeLose {
		g.car.Damage(1)
		r.Finish(evCrash, core.Lose)
		return round.OutcomeLose
	}

	out := round.OutcomeNone
	line := g.hitLine()
	for i := range g.items {
		it := &g.items[i]
		if it.Kind != round.KindNote || it.Box.CenterY()-line < hitWindow {
			continue
		}
		if it.Resolve(round.Missed) {
			g.miss()
			out = round.OutcomeMiss
		}
	}

	if g.pattern != nil && g.next >= len(g.pattern.Notes) && len(g.items) == 0 {
		r.AddScore(1)
		r.Finish(evClear, core.Win)
		return round.OutcomeComplete
	}

	r.AddScore(1)
	return out
}

// miss drags the hit line towards the car and retimes the fall so notes
// still arrive on the beat.
func (g *Game) miss() {
	g.misses++
	g.baseline = math.Max(0, g.baseline-missPenalty)
	g.speed = fallSpeed(g.baseline, g.bpm)
}

func (g *Game) carBox() core.Box {
	return core.Box{X: g.car.Body.X, Y: g.car.Body.Y, W: carW, H: carH}
}

// Song returns the selected track.
func (g *Game) Song() Song {
	return g.song
}

// Soundtrack returns the audio file to play alongside the round, if any.
func (g *Game) Soundtrack() string {
	return g.song.File
}

// Baseline returns the current hit-line offset above the car.
func (g *Game) Baseline() float64 {
	return g.baseline
}

// Speed returns the current fall speed in world units per tick.
func (g *Game) Speed() float64 {
	return g.speed
}

// LastOutcome returns what the evaluator reported on the latest tick.
func (g *Game) LastOutcome() round.Outcome {
	return g.last
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	st := core.GameState{
		Score:    g.round.Score(),
		GameOver: g.round.Terminal(),
		Paused:   g.paused,
	}
	if g.loadErr != nil {
		st.Message = fmt.Sprintf("%v (playing random notes)", g.loadErr)
	}
	return st
}

func init() {
	registry.Register("rock-and-roll", func() registry.Game {
		return New()
	})
}
