// Package geodash implements a side-scrolling platformer: jump over spikes
// and blocks, land on platforms, and survive to the end of the course.
//
// The simulation runs in a fixed 800x400 world; Render scales it onto
// whatever character screen the platform provides.
package geodash

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/vovakirdan/arcade-hub/internal/core"
	"github.com/vovakirdan/arcade-hub/internal/registry"
	"github.com/vovakirdan/arcade-hub/internal/round"
)

// World geometry and physics.
const (
	worldW     = 800.0
	worldH     = 400.0
	groundH    = 50.0
	groundY    = worldH - groundH
	playerX    = 100.0
	playerSize = 30.0

	gravity   = 0.6
	jumpPower = -12.0
	powerJump = -16.0

	endlessSpeed = 3.0
	levelSpeed   = 4.0
	speedStep    = 0.2

	spawnEvery   = 120
	speedUpEvery = 600
	passScore    = 10
	levelBonus   = 1000

	// Leeway when checking whether the player still stands on a platform.
	standTolerance = 5.0
)

// Modes.
const (
	ModeEndless = "endless"
	ModeLevels  = "levels"
)

const (
	phaseRunning  round.Phase = "running"
	phaseCrashed  round.Phase = "crashed"
	phaseComplete round.Phase = "complete"

	evCrash    round.Event = "crash"
	evComplete round.Event = "complete"
)

// Visual characters for rendering.
const (
	PlayerChar   = '■'
	SpikeChar    = '▲'
	BlockChar    = '█'
	PlatformChar = '▀'
	GroundChar   = '═'
)

// Game implements the platformer.
type Game struct {
	round    *round.Round
	runtime  core.RuntimeConfig
	rng      *rand.Rand
	mode     string
	levels   []Level
	level    *Level
	player   round.Actor
	grounded bool
	speed    float64
	items    []round.Item
	progress round.Progress
	next     int
	spawn    round.Countdown
	speedUp  round.Countdown
	passed   int
	paused   bool
	last     round.Outcome
	loadErr  error
}

// New creates a new game instance.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "geo-dash"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Geo Dash"
}

// Meta returns the hub card.
func (g *Game) Meta() registry.Meta {
	return registry.Meta{
		Description: "Jump over spikes and blocks, land on platforms, reach the end of the course.",
		Difficulty:  3,
		Preview:     "■",
		TokensOnWin: 2,
		ScoreType:   registry.ScorePoints,
		Controls:    "Space/Click jump, X power jump, P pause",
		Modes:       []string{ModeEndless, ModeLevels},
	}
}

func newMachine() *round.Machine {
	return round.NewMachine(phaseRunning, []round.Transition{
		{From: phaseRunning, On: evCrash, To: phaseCrashed},
		{From: phaseRunning, On: evComplete, To: phaseComplete},
	}, phaseCrashed, phaseComplete)
}

// Reset starts a new round. Variant.Mode selects endless or levels;
// Variant.Level picks the course and Variant.Track an optional level file.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.runtime = cfg
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.round = round.New(g.ID(), newMachine(), cfg)

	g.levels = Levels()
	g.loadErr = nil
	if cfg.Variant.Track != "" {
		custom, err := ReadLevels(cfg.Variant.Track)
		if err != nil {
			g.loadErr = err
		} else {
			g.levels = custom
		}
	}

	g.mode = cfg.Variant.Mode
	if g.mode == "" && cfg.Variant.Level > 0 {
		g.mode = ModeLevels
	}
	if g.mode != ModeLevels {
		g.mode = ModeEndless
	}

	g.level = nil
	g.progress = round.Progress{}
	if g.mode == ModeLevels {
		n := core.Clamp(cfg.Variant.Level, 1, len(g.levels))
		g.level = &g.levels[n-1]
		g.progress.Goal = g.level.Length
		g.speed = levelSpeed
	} else {
		g.speed = endlessSpeed
	}

	g.player = round.Actor{
		Name:   "player",
		Owner:  round.Human,
		Health: 1,
		Body:   round.Body{X: playerX, Y: groundY - playerSize},
	}
	g.grounded = true
	g.items = g.items[:0]
	g.next = 0
	g.spawn = round.NewCountdown(spawnEvery)
	g.speedUp = round.NewCountdown(speedUpEvery)
	g.passed = 0
	g.paused = false
	g.last = round.OutcomeNone
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

// Input starts a jump when the player stands on something.
func (g *Game) Input(r *round.Round, in core.InputFrame) {
	if !g.grounded {
		return
	}
	switch {
	case in.Has(core.ActionPowerJump):
		g.player.Body.VY = powerJump
	case in.Has(core.ActionJump):
		g.player.Body.VY = jumpPower
	default:
		return
	}
	g.grounded = false
}

// Physics moves the player and the course, then spawns what is due.
func (g *Game) Physics(r *round.Round) {
	g.movePlayer()

	var passed int
	g.items, passed = scroll(g.items, g.speed)
	g.passed = passed
	r.AddScore(passed * passScore)

	if g.mode == ModeLevels {
		g.progress.Tick(g.speed, 1)
		if g.progress.Done() {
			r.SetScore(r.Score() + g.level.Number*levelBonus)
			r.Finish(evComplete, core.Win)
			return
		}
		g.spawnAuthored(r.Ticks())
		return
	}

	if g.spawn.Tick(1) > 0 {
		g.items = append(g.items, randomObstacle(g.rng, r.Ticks()))
	}
	if g.speedUp.Tick(1) > 0 {
		g.speed += speedStep
	}
}

// Evaluate checks the player against every obstacle on screen.
func (g *Game) Evaluate(r *round.Round) round.Outcome {
	out, at := round.CollideAll(g.playerBox(), g.player.Body.VY, g.items)
	switch out {
	case round.OutcomeLose:
		g.player.Damage(1)
		r.Finish(evCrash, core.Lose)
	case round.OutcomeLand:
		// Only a falling player settles on top. Touching a platform from
		// the side while level is safe but does not lift the player.
		if g.player.Body.VY > 0 {
			g.standOn(g.items[at].Box.Y)
		}
	case round.OutcomeNone:
		if g.passed > 0 {
			return round.OutcomePass
		}
	}
	return out
}

func (g *Game) movePlayer() {
	b := &g.player.Body
	if !g.grounded {
		b.Integrate(gravity, 1)
	}

	floor := groundY - playerSize
	if b.Y >= floor {
		b.Y = floor
		b.VY = 0
		g.grounded = true
	}

	if !g.grounded && b.VY > 0 {
		g.landAhead()
	}

	// Walked off the end of a platform.
	if g.grounded && b.Y < floor && !g.onPlatform() {
		g.grounded = false
	}
}

// landAhead snaps the player onto a platform it would pass through on the
// next frame.
func (g *Game) landAhead() {
	p := g.playerBox()
	nextBottom := p.Bottom() + g.player.Body.VY
	for _, it := range g.items {
		if it.Kind != round.KindPlatform || !p.OverlapsX(it.Box) {
			continue
		}
		top := it.Box.Y
		if p.Bottom() <= top && nextBottom >= top {
			g.standOn(top)
			return
		}
	}
}

func (g *Game) onPlatform() bool {
	p := g.playerBox()
	for _, it := range g.items {
		if it.Kind == round.KindPlatform && p.OverlapsX(it.Box) &&
			math.Abs(p.Bottom()-it.Box.Y) < standTolerance {
			return true
		}
	}
	return false
}

func (g *Game) standOn(top float64) {
	g.player.Body.Y = top - playerSize
	g.player.Body.VY = 0
	g.grounded = true
}

func (g *Game) spawnAuthored(tick int) {
	for g.next < len(g.level.Obstacles) {
		o := g.level.Obstacles[g.next]
		if g.progress.Value < o.X-worldW {
			return
		}
		// Obstacles authored inside the first screen appear at their
		// distance rather than stacked on the right edge.
		kind, _ := kindOf(o.Type)
		x := o.X - g.progress.Value
		g.items = append(g.items, newObstacle(kind, x, o.Width, o.Height, tick))
		g.next++
	}
}

func (g *Game) playerBox() core.Box {
	return core.Box{X: g.player.Body.X, Y: g.player.Body.Y, W: playerSize, H: playerSize}
}

// CompletedLevel returns the level number finished by this round, or 0.
func (g *Game) CompletedLevel() int {
	if g.round.Phase() == phaseComplete && g.level != nil {
		return g.level.Number
	}
	return 0
}

// LastOutcome returns what the evaluator reported on the latest tick.
func (g *Game) LastOutcome() round.Outcome {
	return g.last
}

// Render draws the course scaled to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	w, h := dst.Width(), dst.Height()
	if w < 10 || h < 6 {
		return
	}

	// Row 0 is the HUD; the world fills the rest.
	cell := core.Viewport{
		Cells:  core.NewRect(0, 1, w, h-1),
		WorldW: worldW,
		WorldH: worldH,
	}.Cell

	ground := cell(core.Box{X: 0, Y: groundY, W: worldW, H: groundH})
	dst.DrawHLine(0, ground.Y, w, GroundChar, core.ColorGray)

	for _, it := range g.items {
		r := cell(it.Box)
		switch it.Kind {
		case round.KindSpike:
			dst.DrawRect(r, SpikeChar, core.ColorRed)
		case round.KindBlock:
			dst.DrawRect(r, BlockChar, core.ColorBlue)
		case round.KindPlatform:
			dst.DrawRect(r, PlatformChar, core.ColorGreen)
		}
	}
	dst.DrawRect(cell(g.playerBox()), PlayerChar, core.ColorYellow)

	hud := fmt.Sprintf(" Score: %d ", g.round.Score())
	dst.DrawText(1, 0, hud)
	if g.level != nil {
		label := fmt.Sprintf(" Level %d: %s ", g.level.Number, g.level.Name)
		dst.DrawText(len(hud)+2, 0, label)
		barW := max(0, w-len(hud)-len(label)-6)
		filled := int(g.progress.Fraction() * float64(barW))
		bar := "[" + strings.Repeat("=", filled) + strings.Repeat(" ", barW-filled) + "]"
		dst.DrawColorText(w-len(bar)-1, 0, bar, core.ColorCyan)
	} else {
		label := fmt.Sprintf(" Endless  Spd: %.1f ", g.speed)
		dst.DrawText(w-len(label)-1, 0, label)
	}

	switch {
	case g.paused:
		drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	case g.round.Phase() == phaseComplete:
		drawCenteredMessage(dst, "LEVEL COMPLETE", fmt.Sprintf("Score: %d  |  R to replay", g.round.Score()))
	case g.round.Phase() == phaseCrashed:
		drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("Score: %d  |  R to restart", g.round.Score()))
	}
}

func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	boxW := max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ', core.ColorDefault)
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))
	dst.DrawText(boxX+(boxW-len(title))/2, boxY+1, title)
	dst.DrawText(boxX+(boxW-len(subtitle))/2, boxY+3, subtitle)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	st := core.GameState{
		Score:    g.round.Score(),
		GameOver: g.round.Terminal(),
		Paused:   g.paused,
	}
	if g.loadErr != nil {
		st.Message = g.loadErr.Error()
	}
	return st
}

func init() {
	registry.Register("geo-dash", func() registry.Game {
		return New()
	})
}
