package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/arcade-hub/internal/audio"
	"github.com/vovakirdan/arcade-hub/internal/core"
	"github.com/vovakirdan/arcade-hub/internal/hub"
	"github.com/vovakirdan/arcade-hub/internal/registry"
)

type screenID int

const (
	screenLogin screenID = iota
	screenMenu
	screenGame
	screenScores
)

// SessionOptions configure a session.
type SessionOptions struct {
	Hub       *hub.Hub
	Sound     audio.Player
	Config    core.RuntimeConfig
	UnlockAll bool

	// GameID starts the session straight in a game; leaving the game ends
	// the session. The token must already be paid.
	GameID  string
	Variant core.Variant
}

// SessionModel manages the full arcade session flow:
// login -> menu -> game / leaderboard -> menu.
type SessionModel struct {
	opts   SessionOptions
	config core.RuntimeConfig
	screen screenID

	login  LoginModel
	menu   MenuModel
	scores ScoreboardModel
	game   *GameModel

	quitting bool
	err      error
}

// NewSessionModel creates a new session model.
func NewSessionModel(opts SessionOptions) SessionModel {
	if opts.Sound == nil {
		opts.Sound = audio.Silent{}
	}
	m := SessionModel{
		opts:   opts,
		config: opts.Config,
	}

	switch {
	case opts.GameID != "":
		m.screen = screenGame
	case opts.Hub != nil && opts.Hub.Player() == "":
		m.screen = screenLogin
		m.login = NewLoginModel(opts.Hub, m.config.ScreenW, m.config.ScreenH)
	default:
		m.screen = screenMenu
		m.menu = m.newMenu()
	}
	return m
}

func (m SessionModel) newMenu() MenuModel {
	return NewMenuModel(m.opts.Hub, m.config.ScreenW, m.config.ScreenH, m.opts.UnlockAll)
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	switch m.screen {
	case screenLogin:
		return m.login.Init()
	case screenGame:
		game, err := registry.Create(m.opts.GameID)
		if err != nil {
			return tea.Quit
		}
		cfg := m.config
		cfg.Variant = m.opts.Variant
		gm := NewGameModel(game, m.opts.Hub, m.opts.Sound, cfg)
		// Init runs on a copy, so the game is created in Update instead.
		return func() tea.Msg { return startGameMsg{model: gm} }
	}
	return nil
}

// startGameMsg hands a prepared game model to the session.
type startGameMsg struct {
	model GameModel
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}
	if sg, ok := msg.(startGameMsg); ok {
		gm := sg.model
		m.game = &gm
		m.screen = screenGame
		return m, m.game.Init()
	}

	switch m.screen {
	case screenLogin:
		return m.updateLogin(msg)
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.login.Update(msg)
	if lm, ok := next.(LoginModel); ok {
		m.login = lm
	}
	if m.login.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.login.Done() {
		m.screen = screenMenu
		m.menu = m.newMenu()
		return m, m.menu.Init()
	}
	return m, cmd
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menuModel, ok := next.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.screen = screenScores
		m.scores = NewScoreboardModel(m.opts.Hub, m.config.ScreenW, m.config.ScreenH)
		return m, m.scores.Init()

	case m.menu.WantsLogout():
		if m.opts.Hub != nil {
			if err := m.opts.Hub.Logout(); err != nil {
				m.err = err
			}
		}
		m.screen = screenLogin
		m.login = NewLoginModel(m.opts.Hub, m.config.ScreenW, m.config.ScreenH)
		return m, m.login.Init()

	case m.menu.Selected() != nil:
		return m.startGame(*m.menu.Selected())
	}

	return m, cmd
}

// startGame pays for and launches the selected game.
func (m SessionModel) startGame(item MenuItem) (tea.Model, tea.Cmd) {
	variant := m.menu.Variant(item)
	if m.opts.Hub != nil {
		if err := m.opts.Hub.StartGame(item.ID, variant); err != nil {
			m.menu.Notify(noticeFor(err))
			return m, nil
		}
	}

	game, err := registry.Create(item.ID)
	if err != nil {
		// Shouldn't happen since menu only shows registered games
		m.menu.Notify(err.Error())
		return m, nil
	}

	cfg := m.config
	cfg.Seed = 0
	cfg.Variant = variant
	gm := NewGameModel(game, m.opts.Hub, m.opts.Sound, cfg)
	m.game = &gm
	m.screen = screenGame
	return m, m.game.Init()
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.game == nil {
		return m, nil
	}
	next, cmd := m.game.Update(msg)
	if gameModel, ok := next.(GameModel); ok {
		m.game = &gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.game.BackToMenu() {
		m.game = nil
		if m.opts.GameID != "" {
			m.quitting = true
			return m, tea.Quit
		}
		m.screen = screenMenu
		m.menu = m.newMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	if sm, ok := next.(ScoreboardModel); ok {
		m.scores = sm
	}
	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scores.IsGoingBack() {
		m.screen = screenMenu
		m.menu = m.newMenu()
		return m, m.menu.Init()
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenLogin:
		return m.login.View()
	case screenGame:
		if m.game != nil {
			return m.game.View()
		}
		return ""
	case screenScores:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}

// Err returns the last hub error the session swallowed, if any.
func (m SessionModel) Err() error {
	return m.err
}

// Run starts a local session with the given options.
func Run(opts SessionOptions) error {
	p := tea.NewProgram(
		NewSessionModel(opts),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if sm, ok := final.(SessionModel); ok && sm.Err() != nil {
		return sm.Err()
	}
	return nil
}
