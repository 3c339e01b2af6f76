package assassindice

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/arcade-hub/internal/core"
)

var pips = [7]string{"", "⚀", "⚁", "⚂", "⚃", "⚄", "⚅"}

// Render draws health bars, the dice row and the battle log.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	w, h := dst.Width(), dst.Height()

	dst.DrawTextCentered(0, "ASSASSIN DICE")

	for i, a := range g.actors {
		y := 2 + i
		marker := "  "
		if i == g.turn && !g.round.Terminal() {
			marker = "▶ "
		}
		dst.DrawText(2, y, marker+a.Name)
		g.drawHealth(dst, 22, y, a.Health)
	}

	top := 3 + len(g.actors)
	phase := "ROLL FOR 30"
	color := core.ColorCyan
	if g.hunt > 0 {
		phase = fmt.Sprintf("ATTACK! hunting %d's", g.hunt)
		color = core.ColorOrange
	}
	dst.DrawColorText(2, top, phase, color)
	dst.DrawText(w-14, top, fmt.Sprintf("Total: %2d", g.Total()))

	g.drawDice(dst, top+2)

	logTop := top + 6
	for i, line := range g.log {
		if logTop+i >= h-2 {
			break
		}
		dst.DrawText(2, logTop+i, truncate(line, w-4))
	}

	dst.DrawTextCentered(h-1, g.hint())
}

func (g *Game) drawHealth(dst *core.Screen, x, y, health int) {
	const width = startHealth
	c := core.ColorGreen
	switch {
	case health <= 10:
		c = core.ColorRed
	case health <= 20:
		c = core.ColorYellow
	}
	dst.DrawHLine(x, y, width, '░', core.ColorGray)
	dst.DrawHLine(x, y, health, '█', c)
	dst.DrawText(x+width+1, y, fmt.Sprintf("%2d", health))
}

func (g *Game) drawDice(dst *core.Screen, y int) {
	rolling := g.round.Phase() == phaseRolling || g.round.Phase() == phaseAttackRoll
	for i, v := range g.dice {
		x := 4 + i*8
		box := core.NewRect(x, y, 5, 3)
		c := core.ColorWhite
		if g.kept[i] {
			c = core.ColorGreen
		}
		dst.DrawBox(box)
		glyph := pips[v]
		if rolling && !g.kept[i] {
			glyph = "?"
			c = core.ColorGray
		}
		dst.DrawColorText(x+2, y+1, glyph, c)
		dst.DrawText(x+2, y+3, fmt.Sprintf("%d", i+1))
	}
}

func (g *Game) hint() string {
	switch {
	case g.round.Terminal():
		return "R restart  |  ESC menu"
	case !g.humanTurn():
		return "AI is thinking..."
	case g.hunt > 0:
		return "SPACE roll  1-6 keep " + fmt.Sprint(g.hunt) + "'s  ENTER strike"
	default:
		return "SPACE roll  1-6 keep  ENTER end turn"
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
