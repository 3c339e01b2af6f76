package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/arcade-hub/internal/core"
	"github.com/vovakirdan/arcade-hub/internal/games/geodash"
	"github.com/vovakirdan/arcade-hub/internal/games/quickshot"
	"github.com/vovakirdan/arcade-hub/internal/games/rockandroll"
	"github.com/vovakirdan/arcade-hub/internal/hub"
	"github.com/vovakirdan/arcade-hub/internal/registry"
)

// MenuItem is a game card together with the variant being chosen.
type MenuItem struct {
	registry.GameInfo
	mode   int
	option int
}

// Mode returns the selected mode, "" for games without modes.
func (it MenuItem) Mode() string {
	if len(it.Modes) == 0 {
		return ""
	}
	return it.Modes[it.mode]
}

// option is a game-specific setting adjusted with +/-.
type option struct {
	label  string
	values []string
	apply  func(v *core.Variant, i int)
}

// MenuModel is the Bubble Tea model for the game library.
type MenuModel struct {
	hub       *hub.Hub
	items     []MenuItem
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	unlockAll bool
	notice    string

	quitting       bool
	selected       *MenuItem
	openScoreboard bool
	logout         bool
}

// NewMenuModel creates a new menu model.
func NewMenuModel(h *hub.Hub, width, height int, unlockAll bool) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games))
	for _, g := range games {
		items = append(items, MenuItem{GameInfo: g})
	}

	return MenuModel{
		hub:       h,
		items:     items,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		unlockAll: unlockAll,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// optionFor lists the extra setting for a game in its current mode.
func (m MenuModel) optionFor(it MenuItem) *option {
	switch it.ID {
	case "geo-dash":
		if it.Mode() != geodash.ModeLevels {
			return nil
		}
		levels := geodash.Levels()
		unlocked := len(levels)
		if !m.unlockAll && m.hub != nil {
			unlocked = core.Clamp(m.hub.UnlockedLevel(it.ID), 1, len(levels))
		}
		vals := make([]string, unlocked)
		for i := range vals {
			vals[i] = fmt.Sprintf("%d. %s", levels[i].Number, levels[i].Name)
		}
		return &option{"Level", vals, func(v *core.Variant, i int) { v.Level = i + 1 }}

	case "quickshot":
		if it.Mode() != quickshot.ModeTournament {
			return nil
		}
		rounds := []int{3, 5, 7}
		return &option{"Best of", []string{"3", "5", "7"}, func(v *core.Variant, i int) { v.Rounds = rounds[i] }}

	case "rock-and-roll":
		songs := rockandroll.Songs()
		vals := make([]string, len(songs))
		for i, s := range songs {
			vals[i] = fmt.Sprintf("%s (%d BPM)", s.Name, s.BPM)
		}
		return &option{"Song", vals, func(v *core.Variant, i int) { v.Track = songs[i].Name }}

	case "assassin-dice":
		return &option{"Opponents", []string{"1", "2", "3"}, func(v *core.Variant, i int) { v.Rounds = i + 1 }}
	}
	return nil
}

// Variant builds the variant for a menu item.
func (m MenuModel) Variant(it MenuItem) core.Variant {
	v := core.Variant{Mode: it.Mode()}
	if opt := m.optionFor(it); opt != nil && len(opt.values) > 0 {
		opt.apply(&v, core.Clamp(it.option, 0, len(opt.values)-1))
	}
	return v
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)
	if len(m.items) == 0 && action != MenuActionQuit {
		return m, nil
	}
	m.notice = ""

	switch action {
	case MenuActionQuit:
		m.quitting = true

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionLeft, MenuActionRight:
		it := &m.items[m.cursor]
		if n := len(it.Modes); n > 0 {
			step := 1
			if action == MenuActionLeft {
				step = n - 1
			}
			it.mode = (it.mode + step) % n
			it.option = 0
		}

	case MenuActionMore, MenuActionLess:
		it := &m.items[m.cursor]
		if opt := m.optionFor(*it); opt != nil && len(opt.values) > 0 {
			n := len(opt.values)
			step := 1
			if action == MenuActionLess {
				step = n - 1
			}
			it.option = (it.option + step) % n
		}

	case MenuActionSelect:
		if m.hub != nil && !m.hub.CanPlay() {
			m.notice = noticeFor(hub.ErrNoTokens)
			return m, nil
		}
		selected := m.items[m.cursor]
		m.selected = &selected

	case MenuActionScoreboard:
		m.openScoreboard = true

	case MenuActionLogout:
		m.logout = true
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  A R C A D E   H U B  "), m.width))
	b.WriteString("\n\n")

	canPlay := true
	if m.hub != nil {
		canPlay = m.hub.CanPlay()
		b.WriteString(centerText(fmt.Sprintf("Player: %s   Tokens: %s",
			hub.TruncateName(m.hub.Player()), tokenBar(m.hub.Tokens())), m.width))
		b.WriteString("\n\n")
	}

	for i, it := range m.items {
		cost := "1 TOKEN"
		if !canPlay {
			cost = "NO TOKENS"
		}
		line := fmt.Sprintf("%s %-16s %s  %s", it.Preview, it.Title, stars(it.Difficulty), cost)
		if i == m.cursor {
			b.WriteString(centerText(activeStyle.Render("> "+line+" "), m.width))
		} else if !canPlay {
			b.WriteString(centerText(dimStyle.Render("  "+line+" "), m.width))
		} else {
			b.WriteString(centerText("  "+line+" ", m.width))
		}
		b.WriteString("\n")
	}

	if len(m.items) > 0 {
		it := m.items[m.cursor]
		b.WriteString("\n")
		b.WriteString(centerText(it.Description, m.width))
		b.WriteString("\n")
		b.WriteString(centerText(dimStyle.Render(it.Controls), m.width))
		b.WriteString("\n")
		settings := []string{fmt.Sprintf("Win: +%d tokens", it.TokensOnWin)}
		if it.Mode() != "" {
			settings = append(settings, fmt.Sprintf("< Mode: %s >", it.Mode()))
		}
		if opt := m.optionFor(it); opt != nil && len(opt.values) > 0 {
			idx := core.Clamp(it.option, 0, len(opt.values)-1)
			settings = append(settings, fmt.Sprintf("[ %s: %s ]", opt.label, opt.values[idx]))
		}
		b.WriteString(centerText(strings.Join(settings, "   "), m.width))
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(centerText(warnStyle.Render(m.notice), m.width))
		b.WriteString("\n")
	}

	// Footer with controls
	b.WriteString("\n")
	controls := "Up/Down: game  |  Left/Right: mode  |  +/-: option  |  Enter: play  |  Tab: scores  |  O: logout  |  Q: quit"
	b.WriteString(centerText(dimStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

func stars(n int) string {
	n = core.Clamp(n, 0, 5)
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func tokenBar(n int) string {
	if n > 10 {
		n = 10
	}
	if n < 0 {
		n = 0
	}
	return fmt.Sprintf("%s %d", strings.Repeat("●", n), n)
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// Notify shows a one-line message under the cards.
func (m *MenuModel) Notify(text string) {
	m.notice = text
	m.selected = nil
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// WantsLogout returns true if user asked to log out.
func (m MenuModel) WantsLogout() bool {
	return m.logout
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
