package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/arcade-hub/internal/audio"
	"github.com/vovakirdan/arcade-hub/internal/core"
	"github.com/vovakirdan/arcade-hub/internal/hub"
	"github.com/vovakirdan/arcade-hub/internal/registry"
	"github.com/vovakirdan/arcade-hub/internal/round"
)

// soundtracker is implemented by games that come with music.
type soundtracker interface {
	Soundtrack() string
}

// outcomer is implemented by games that expose per-tick outcomes.
type outcomer interface {
	LastOutcome() round.Outcome
}

// sounder is implemented by games that raise sound hints.
type sounder interface {
	LastSound() core.Sound
}

// GameModel runs one paid game: it feeds timestamped input, ticks the
// simulation and shows the hub's verdict when the round ends.
type GameModel struct {
	game       registry.Game
	hub        *hub.Hub
	sound      audio.Player
	screen     *core.Screen
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	now        func() time.Time

	award      *hub.Award
	notice     string
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a game model. The hub, when set, receives the
// round's result and live score; sound may be nil.
func NewGameModel(game registry.Game, h *hub.Hub, sound audio.Player, cfg core.RuntimeConfig) GameModel {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	cfg.TickRate = core.Clamp(cfg.TickRate, minTickRate, maxTickRate)
	if h != nil {
		cfg.Reporter = h
		cfg.Listener = h
	}
	if sound == nil {
		sound = audio.Silent{}
	}

	return GameModel{
		game:       game,
		hub:        h,
		sound:      sound,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		now:        time.Now,
	}
}

// Init initializes the model and starts the game.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	m.startSoundtrack()
	return tickCmd(m.config.TickRate)
}

func (m GameModel) startSoundtrack() {
	st, ok := m.game.(soundtracker)
	if !ok {
		return
	}
	//nolint:errcheck // Missing songs play silently
	m.sound.PlaySong(st.Soundtrack())
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// Games keep their own world coordinates, so a resize only
		// changes how the world is scaled onto the screen.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	switch {
	case isQuit:
		m.leave()
		m.quitting = true
		return m, tea.Quit

	case action == core.ActionBack:
		// Leaving mid-round forfeits the token.
		m.leave()
		m.backToMenu = true
		return m, nil

	case action == core.ActionRestart:
		if m.gameState.GameOver {
			m.restart()
		}
		return m, nil

	case action != core.ActionNone:
		m.inputFrame.Push(action, m.now())
	}

	return m, nil
}

// restart buys another round.
func (m *GameModel) restart() {
	if m.hub != nil {
		if err := m.hub.StartGame(m.game.ID(), m.config.Variant); err != nil {
			m.notice = noticeFor(err)
			return
		}
	}

	// Reset seed for new game
	m.config.Seed = time.Now().UnixNano()
	m.game.Reset(m.config)
	m.gameState = m.game.State()
	m.award = nil
	m.notice = ""
	m.inputFrame.Clear()
	m.startSoundtrack()
}

func (m *GameModel) leave() {
	m.sound.StopSong()
	if m.hub != nil && !m.gameState.GameOver {
		m.hub.EndSession()
	}
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}

	wasOver := m.gameState.GameOver
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if o, ok := m.game.(outcomer); ok {
		m.cue(o.LastOutcome())
	}
	if s, ok := m.game.(sounder); ok {
		m.cueSound(s.LastSound())
	}

	if m.gameState.GameOver && !wasOver {
		m.sound.StopSong()
		if m.hub != nil {
			if a, ok := m.hub.LastAward(); ok {
				m.award = &a
				if a.Class == core.Win {
					m.sound.Cue(audio.CueWin)
				} else {
					m.sound.Cue(audio.CueLose)
				}
			}
		}
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	// Continue ticking
	return m, tickCmd(m.config.TickRate)
}

func (m GameModel) cue(o round.Outcome) {
	switch o {
	case round.OutcomeHit, round.OutcomePass:
		m.sound.Cue(audio.CueScore)
	case round.OutcomeMiss:
		m.sound.Cue(audio.CueMiss)
	case round.OutcomeLose:
		m.sound.Cue(audio.CueDamage)
	}
}

func (m GameModel) cueSound(s core.Sound) {
	switch s {
	case core.SoundGo:
		m.sound.Cue(audio.CueGo)
	case core.SoundRoll:
		m.sound.Cue(audio.CueRoll)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	// Render current state
	m.game.Render(m.screen)

	// Create screenshots directory
	dir := filepath.Join(os.Getenv("HOME"), ".arcade", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	// Generate filename with timestamp
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	// Save screenshot
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	// Render game to screen buffer
	m.game.Render(m.screen)
	m.drawFooter()

	// Convert screen to string
	return RenderScreen(m.screen)
}

// drawFooter writes the award and hints over the bottom rows.
func (m GameModel) drawFooter() {
	var lines []string
	if !m.gameState.GameOver {
		if m.gameState.Message != "" {
			lines = append(lines, m.gameState.Message)
		}
		lines = append(lines, statusLine(m.hub, m.game.ID(), m.gameState.Score))
	}
	if m.gameState.GameOver {
		if m.award != nil {
			lines = append(lines, strings.Split(m.award.Summary(), "\n")...)
		}
		if m.notice != "" {
			lines = append(lines, m.notice)
		}
		hint := "R: play again  |  B: menu  |  Q: quit"
		if m.hub != nil {
			hint = fmt.Sprintf("R: play again (1 token, %d left)  |  B: menu  |  Q: quit", m.hub.Tokens())
		}
		lines = append(lines, hint)
	}
	h := m.screen.Height()
	for i, line := range lines {
		y := h - len(lines) + i
		if y < 0 {
			continue
		}
		m.screen.DrawTextCentered(y, line)
	}
}

// GameState returns the latest state.
func (m GameModel) GameState() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// noticeFor turns a hub refusal into a one-line message.
func noticeFor(err error) string {
	switch {
	case errors.Is(err, hub.ErrNoTokens):
		return "You need tokens to play! Come back tomorrow for a free token."
	case errors.Is(err, hub.ErrNotLoggedIn):
		return "Log in to play."
	default:
		return err.Error()
	}
}
