package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/arcade-hub/internal/core"
	"github.com/vovakirdan/arcade-hub/internal/hub"
	"github.com/vovakirdan/arcade-hub/internal/registry"
)

// palette holds the ANSI 256 code for each cell color. ColorDefault has
// no entry and renders unstyled.
var palette = [...]string{
	core.ColorRed:     "9",
	core.ColorGreen:   "10",
	core.ColorYellow:  "11",
	core.ColorBlue:    "12",
	core.ColorMagenta: "13",
	core.ColorCyan:    "14",
	core.ColorWhite:   "15",
	core.ColorOrange:  "208",
	core.ColorGray:    "245",
}

var cellStyles = func() []lipgloss.Style {
	styles := make([]lipgloss.Style, len(palette))
	for i, code := range palette {
		styles[i] = lipgloss.NewStyle()
		if code != "" {
			styles[i] = styles[i].Foreground(lipgloss.Color(code))
		}
	}
	return styles
}()

func styleFor(c core.Color) lipgloss.Style {
	if int(c) < len(cellStyles) {
		return cellStyles[c]
	}
	return cellStyles[core.ColorDefault]
}

// RenderScreen converts a Screen buffer to a styled string, one escape
// sequence per run of same-colored cells.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < s.Width(); {
			color := s.GetCell(x, y).Color
			run.Reset()
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
			}
			if color == core.ColorDefault {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(styleFor(color).Render(run.String()))
		}
	}
	return sb.String()
}

// statusLine is the hub bar shown under a running game: who is playing,
// what is left in the wallet and the live score.
func statusLine(h *hub.Hub, gameID string, score int) string {
	st := registry.ScorePoints
	if info, ok := registry.Info(gameID); ok {
		st = info.ScoreType
	}
	if h == nil || h.Player() == "" {
		return fmt.Sprintf("Score: %s", hub.FormatScore(score, st))
	}
	return fmt.Sprintf("%s  |  Tokens: %d  |  Score: %s",
		hub.TruncateName(h.Player()), h.Tokens(), hub.FormatScore(score, st))
}
