package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/arcade-hub/internal/hub"
)

// LoginModel asks for a player name.
type LoginModel struct {
	hub      *hub.Hub
	input    textinput.Model
	width    int
	height   int
	err      string
	done     bool
	quitting bool
}

// NewLoginModel creates the login prompt.
func NewLoginModel(h *hub.Hub, width, height int) LoginModel {
	ti := textinput.New()
	ti.Placeholder = "your name"
	ti.CharLimit = 32
	ti.Width = 24
	ti.Focus()

	return LoginModel{
		hub:    h,
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init starts the cursor blinking.
func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles typing and submission.
func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, nil
		case "enter":
			if err := m.hub.Login(m.input.Value()); err != nil {
				m.err = noticeFor(err)
				return m, nil
			}
			m.done = true
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the prompt.
func (m LoginModel) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(centerText(titleStyle.Render("  A R C A D E   H U B  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Enter your name to start with free tokens", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.input.View(), m.width))
	b.WriteString("\n\n")
	if m.err != "" {
		b.WriteString(centerText(errStyle.Render(m.err), m.width))
		b.WriteString("\n")
	}
	b.WriteString(centerText(hintStyle.Render("Enter: login  |  Esc: quit"), m.width))
	return b.String()
}

// Done reports whether a player logged in.
func (m LoginModel) Done() bool {
	return m.done
}

// IsQuitting returns true if user requested to quit.
func (m LoginModel) IsQuitting() bool {
	return m.quitting
}
