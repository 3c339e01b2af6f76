package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/arcade-hub/internal/hub"
	"github.com/vovakirdan/arcade-hub/internal/registry"
	"github.com/vovakirdan/arcade-hub/internal/storage"
)

const (
	boardChrome   = 10 // title, tabs, summary, help and borders
	minBoardRows  = 3
	dateColWidth  = 14
	scoreColWidth = 12
)

// boardKeys are the leaderboard bindings.
type boardKeys struct {
	Up      key.Binding
	Down    key.Binding
	Next    key.Binding
	Prev    key.Binding
	Clear   key.Binding
	Confirm key.Binding
	Back    key.Binding
	Quit    key.Binding
}

func (k boardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Up, k.Down, k.Clear, k.Back}
}

func (k boardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Prev, k.Next, k.Up, k.Down}, {k.Clear, k.Back, k.Quit}}
}

func newBoardKeys() boardKeys {
	return boardKeys{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll")),
		Next:    key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/tab", "next game")),
		Prev:    key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←", "prev game")),
		Clear:   key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear board")),
		Confirm: key.NewBinding(key.WithKeys("y", "Y")),
		Back:    key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel shows one game's leaderboard at a time.
type ScoreboardModel struct {
	hub    *hub.Hub
	games  []registry.GameInfo
	active int
	scores []storage.ScoreEntry
	err    error

	table  table.Model
	help   help.Model
	keys   boardKeys
	width  int
	height int

	confirmClear bool
	quitting     bool
	goingBack    bool
}

// NewScoreboardModel opens the leaderboards on the first game.
func NewScoreboardModel(h *hub.Hub, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		hub:    h,
		games:  registry.List(),
		help:   help.New(),
		keys:   newBoardKeys(),
		width:  width,
		height: height,
	}
	m.help.Width = width
	m.table = m.newTable()
	m.reload()
	return m
}

func (m ScoreboardModel) current() (registry.GameInfo, bool) {
	if len(m.games) == 0 {
		return registry.GameInfo{}, false
	}
	return m.games[m.active], true
}

func (m ScoreboardModel) newTable() table.Model {
	playerW := max(m.width-4-6-scoreColWidth-dateColWidth-8, 12)
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Player", Width: min(playerW, 16)},
			{Title: "Score", Width: scoreColWidth},
			{Title: "Date", Width: dateColWidth},
		}),
		table.WithFocused(true),
		table.WithHeight(max(m.height-boardChrome, minBoardRows)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// reload fetches the active board and refills the table.
func (m *ScoreboardModel) reload() {
	m.scores, m.err = nil, nil
	info, ok := m.current()
	if ok && m.hub != nil {
		m.scores, m.err = m.hub.Leaderboard(info.ID)
	}

	me := ""
	if m.hub != nil {
		me = m.hub.Player()
	}
	rows := make([]table.Row, len(m.scores))
	for i, e := range m.scores {
		rank := fmt.Sprintf("#%d", i+1)
		if me != "" && e.Player == me {
			rank += " *"
		}
		rows[i] = table.Row{
			rank,
			hub.TruncateName(e.Player),
			hub.FormatScore(e.Score, info.ScoreType),
			e.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// personalBest returns the player's best rank on the active board, 0 if
// they are not on it.
func (m ScoreboardModel) personalBest() (int, storage.ScoreEntry) {
	if m.hub == nil || m.hub.Player() == "" {
		return 0, storage.ScoreEntry{}
	}
	for i, e := range m.scores {
		if e.Player == m.hub.Player() {
			return i + 1, e
		}
	}
	return 0, storage.ScoreEntry{}
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmClear {
			m.confirmClear = false
			if key.Matches(msg, m.keys.Confirm) {
				var err error
				if info, ok := m.current(); ok && m.hub != nil {
					err = m.hub.ClearLeaderboard(info.ID)
				}
				m.reload()
				if err != nil {
					m.err = err
				}
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
		case key.Matches(msg, m.keys.Next):
			if n := len(m.games); n > 0 {
				m.active = (m.active + 1) % n
				m.reload()
			}
		case key.Matches(msg, m.keys.Prev):
			if n := len(m.games); n > 0 {
				m.active = (m.active + n - 1) % n
				m.reload()
			}
		case key.Matches(msg, m.keys.Clear):
			m.confirmClear = len(m.scores) > 0
		default:
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.newTable()
		m.reload()
	}
	return m, nil
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var b strings.Builder
	b.WriteString("\n")

	info, ok := m.current()
	title := "LEADERBOARD"
	if ok {
		title = fmt.Sprintf("LEADERBOARD - %s", info.Title)
	}
	b.WriteString(centerText(titleStyle.Render(title), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.tabs(), m.width))
	b.WriteString("\n\n")

	var body string
	switch {
	case m.err != nil:
		body = warnStyle.Render("Could not load scores: " + m.err.Error())
	case len(m.scores) == 0:
		body = dimStyle.Italic(true).Padding(1, 4).
			Render("No scores yet.\nPlace in the top 3 to win tokens!")
	default:
		body = m.table.View()
	}
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, boxStyle.Render(body)))
	b.WriteString("\n")

	b.WriteString(centerText(m.summary(info), m.width))
	b.WriteString("\n")

	if m.confirmClear {
		b.WriteString(centerText(warnStyle.Render(
			fmt.Sprintf("Clear all %d entries? y to confirm, any other key cancels", len(m.scores))), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render(m.help.View(m.keys)), m.width))
	return b.String()
}

// tabs renders the game switcher. When the titles don't fit only the
// active one is shown between arrows.
func (m ScoreboardModel) tabs() string {
	if len(m.games) == 0 {
		return ""
	}
	idle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	active := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	parts := make([]string, len(m.games))
	for i, g := range m.games {
		if i == m.active {
			parts[i] = active.Render(g.Title)
		} else {
			parts[i] = idle.Render(g.Title)
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if lipgloss.Width(line) > m.width-4 {
		return active.Render("< " + m.games[m.active].Title + " >")
	}
	return line
}

// summary is the one-line footer under the table: board fill, the
// scoring direction and the player's own standing.
func (m ScoreboardModel) summary(info registry.GameInfo) string {
	order := "highest first"
	if info.ScoreType.Ascending() {
		order = "fastest first"
	}
	parts := []string{fmt.Sprintf("%d entries, %s", len(m.scores), order)}
	if info.TokensOnWin > 0 {
		parts = append(parts, fmt.Sprintf("top 3 win %d tokens", info.TokensOnWin))
	}
	if rank, e := m.personalBest(); rank > 0 {
		parts = append(parts, fmt.Sprintf("your best: #%d (%s)", rank, hub.FormatScore(e.Score, info.ScoreType)))
	}
	return strings.Join(parts, "  |  ")
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}
