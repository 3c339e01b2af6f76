package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/arcade-hub/internal/audio"
	"github.com/vovakirdan/arcade-hub/internal/games/rockandroll"
)

const (
	editorRowsBefore = 4
	editorRowsAfter  = 12
	editorNudge      = 0.1 // seconds per arrow press
)

var editorLaneKeys = []string{"1", "2", "3", "4", "5"}

// editorKeys are the chart editor bindings.
type editorKeys struct {
	Lane    key.Binding
	Delete  key.Binding
	Play    key.Binding
	Back    key.Binding
	Forward key.Binding
	Rewind  key.Binding
	Faster  key.Binding
	Slower  key.Binding
	Clear   key.Binding
	Confirm key.Binding
	Save    key.Binding
	Quit    key.Binding
}

func (k editorKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Lane, k.Delete, k.Play, k.Back, k.Forward, k.Save, k.Quit}
}

func (k editorKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Lane, k.Delete, k.Play, k.Rewind},
		{k.Back, k.Forward, k.Faster, k.Slower},
		{k.Clear, k.Save, k.Quit},
	}
}

func newEditorKeys() editorKeys {
	return editorKeys{
		Lane:    key.NewBinding(key.WithKeys(editorLaneKeys...), key.WithHelp("1-5", "stamp lane")),
		Delete:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete mode")),
		Play:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Back:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "back")),
		Forward: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "forward")),
		Rewind:  key.NewBinding(key.WithKeys("home", "0"), key.WithHelp("0", "rewind")),
		Faster:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "bpm up")),
		Slower:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "bpm down")),
		Clear:   key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear")),
		Confirm: key.NewBinding(key.WithKeys("y", "Y")),
		Save:    key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// EditorOptions configures the chart editor.
type EditorOptions struct {
	// Path is where the chart is loaded from, if it exists, and saved to.
	Path string
	// Song plays along from the top of the chart; empty edits in silence.
	Song string
	// BPM seeds the tempo of a new chart.
	BPM      int
	Sound    audio.Player
	TickRate int
}

// EditorModel records Rock & Roll charts: the playhead runs on the tick
// clock and each lane key stamps a note at the current time.
type EditorModel struct {
	editor *rockandroll.Editor
	opts   EditorOptions
	keys   editorKeys
	help   help.Model

	deleting     bool
	confirmClear bool
	notice       string
	width        int
	height       int
	quitting     bool
}

// NewEditorModel opens opts.Path when it exists. A chart that fails to
// load is reported and editing starts from scratch.
func NewEditorModel(opts EditorOptions) EditorModel {
	if opts.Sound == nil {
		opts.Sound = audio.Silent{}
	}
	if opts.TickRate <= 0 {
		opts.TickRate = 60
	}
	m := EditorModel{
		editor: rockandroll.NewEditor(),
		opts:   opts,
		keys:   newEditorKeys(),
		help:   help.New(),
		width:  80,
		height: 24,
	}
	if f, err := os.Open(opts.Path); err == nil {
		defer f.Close()
		if err := m.editor.Import(f); err != nil {
			m.notice = err.Error()
		} else {
			m.notice = fmt.Sprintf("Loaded %d notes", m.editor.Len())
		}
	}
	if m.editor.Len() == 0 && opts.BPM > 0 {
		//nolint:errcheck // checked positive
		m.editor.SetBPM(opts.BPM)
	}
	return m
}

// Init starts the playhead clock.
func (m EditorModel) Init() tea.Cmd {
	return tickCmd(m.opts.TickRate)
}

// Update handles keys and ticks.
func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if m.quitting {
			return m, nil
		}
		m.editor.Advance(tickInterval(m.opts.TickRate).Seconds())
		return m, tickCmd(m.opts.TickRate)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m EditorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmClear {
		m.confirmClear = false
		if key.Matches(msg, m.keys.Confirm) {
			m.editor.Clear()
			m.notice = "Chart cleared"
		}
		return m, nil
	}

	e := m.editor
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.opts.Sound.StopSong()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Lane):
		lane := strings.Index("12345", msg.String())
		if m.deleting {
			if !e.Delete(lane) {
				m.notice = fmt.Sprintf("No note in lane %d near %s", lane+1, clockLabel(e.Playhead()))
			}
			return m, nil
		}
		//nolint:errcheck // lane keys are always in range
		e.Place(lane)

	case key.Matches(msg, m.keys.Delete):
		m.deleting = !m.deleting

	case key.Matches(msg, m.keys.Play):
		m.togglePlay()

	case key.Matches(msg, m.keys.Back):
		e.Seek(e.Playhead() - editorNudge)
	case key.Matches(msg, m.keys.Forward):
		e.Seek(e.Playhead() + editorNudge)
	case key.Matches(msg, m.keys.Rewind):
		e.Stop()
		m.opts.Sound.StopSong()

	case key.Matches(msg, m.keys.Faster):
		//nolint:errcheck // always positive
		e.SetBPM(e.BPM() + 1)
	case key.Matches(msg, m.keys.Slower):
		if err := e.SetBPM(e.BPM() - 1); err != nil {
			m.notice = err.Error()
		}

	case key.Matches(msg, m.keys.Clear):
		m.confirmClear = true

	case key.Matches(msg, m.keys.Save):
		m.notice = m.save()
	}
	return m, nil
}

// togglePlay starts or pauses the playhead. The song only follows a
// playhead that starts from the top.
func (m *EditorModel) togglePlay() {
	e := m.editor
	if e.Playing() {
		e.SetPlaying(false)
		m.opts.Sound.StopSong()
		return
	}
	e.SetPlaying(true)
	if m.opts.Song != "" && e.Playhead() == 0 {
		if err := m.opts.Sound.PlaySong(m.opts.Song); err != nil {
			m.notice = err.Error()
		}
	}
}

func (m EditorModel) save() string {
	if m.opts.Path == "" {
		return "No file to save to"
	}
	err := rockandroll.WritePattern(m.opts.Path, m.editor.Pattern())
	switch {
	case errors.Is(err, rockandroll.ErrEmptyPattern):
		return "No notes to export!"
	case err != nil:
		return err.Error()
	}
	return fmt.Sprintf("Saved %d notes to %s", m.editor.Len(), m.opts.Path)
}

// rowStep is the timeline resolution: an eighth note at the chart tempo.
func (m EditorModel) rowStep() float64 {
	return 60 / float64(m.editor.BPM()) / 2
}

// View renders the timeline around the playhead.
func (m EditorModel) View() string {
	if m.quitting {
		return ""
	}
	e := m.editor

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	headStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))

	state := "PAUSED"
	if e.Playing() {
		state = "REC"
	}
	mode := "stamp"
	if m.deleting {
		mode = "delete"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("CHART EDITOR"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %s  %d BPM  %s  %s  mode: %s  notes: %d",
		m.opts.Path, e.BPM(), clockLabel(e.Playhead()), state, mode, e.Len())))
	b.WriteString("\n\n")

	step := m.rowStep()
	at := float64(int(e.Playhead()/step)) * step
	for r := -editorRowsBefore; r <= editorRowsAfter; r++ {
		from := at + float64(r)*step
		if from < 0 {
			continue
		}
		cells := make([]string, len(editorLaneKeys))
		for i := range cells {
			cells[i] = "·"
		}
		for _, n := range e.Between(from, from+step) {
			cells[n.Lane] = "●"
		}
		line := fmt.Sprintf("%9s │ %s │", clockLabel(from), strings.Join(cells, " "))
		if r == 0 {
			line = headStyle.Render(line + " ◀")
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.confirmClear:
		b.WriteString(warnStyle.Render("Clear every note? (y/n)") + "\n")
	case m.notice != "":
		b.WriteString(dimStyle.Render(m.notice) + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// clockLabel formats seconds as mm:ss.t.
func clockLabel(sec float64) string {
	d := time.Duration(sec * float64(time.Second)).Round(100 * time.Millisecond)
	return fmt.Sprintf("%02d:%04.1f", int(d.Minutes()), (d % time.Minute).Seconds())
}

// Notice returns the last status line.
func (m EditorModel) Notice() string {
	return m.notice
}

// RunEditor runs the chart editor full screen.
func RunEditor(opts EditorOptions) error {
	p := tea.NewProgram(NewEditorModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
