package quickshot

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/arcade-hub/internal/core"
)

var banners = map[string][]string{
	"ready": {
		"█▀█ █▀▀ ▄▀█ █▀▄ █▄█",
		"█▀▄ ██▄ █▀█ █▄▀  █ ",
	},
	"set": {
		"█▀ █▀▀ ▀█▀",
		"▄█ ██▄  █ ",
	},
	"go": {
		"█▀▀ █▀█ █",
		"█▄█ █▄█ ▄",
	},
}

// Render draws the duel.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	w, h := dst.Width(), dst.Height()

	dst.DrawTextCentered(1, "QUICK DRAW SHOWDOWN")
	dst.DrawTextCentered(2, strings.ToUpper(g.mode)+" MODE")

	mid := h / 2
	switch g.round.Phase() {
	case phaseWaiting:
		dst.DrawTextCentered(mid, "Press ENTER to start")
	case phaseReady:
		drawBanner(dst, mid-1, banners["ready"], core.ColorYellow)
	case phaseSet:
		drawBanner(dst, mid-1, banners["set"], core.ColorOrange)
	case phaseGo:
		frame := core.NewRect(2, mid-3, w-4, 6)
		dst.DrawRect(frame, '░', core.ColorGreen)
		drawBanner(dst, mid-1, banners["go"], core.ColorGreen)
	case phaseFinished:
		g.drawResults(dst, mid-2)
	}

	if g.mode == ModeTournament {
		line := fmt.Sprintf("Best of %d   Player 1: %d wins   Player 2: %d wins", g.bestOf, g.wins[0], g.wins[1])
		dst.DrawTextCentered(h-4, line)
		if g.matchOver() && g.round.Terminal() {
			winner := 1
			if g.wins[1] > g.wins[0] {
				winner = 2
			}
			dst.DrawTextCentered(h-3, fmt.Sprintf("Player %d wins the tournament!", winner))
		}
	}

	dst.DrawTextCentered(h-2, g.controlsHint())
}

func drawBanner(dst *core.Screen, y int, lines []string, c core.Color) {
	for i, line := range lines {
		x := (dst.Width() - len([]rune(line))) / 2
		dst.DrawColorText(x, y+i, line, c)
	}
}

func (g *Game) drawResults(dst *core.Screen, y int) {
	if g.early != 0 {
		dst.DrawTextCentered(y, "TOO EARLY!")
	}
	dst.DrawTextCentered(y+1, g.shotLine(core.Player1))
	if g.mode != ModePractice {
		dst.DrawTextCentered(y+2, g.shotLine(core.Player2))
	}
	color := core.ColorYellow
	if res, ok := g.round.Result(); ok {
		switch res.Class {
		case core.Win:
			color = core.ColorGreen
		case core.Lose:
			color = core.ColorRed
		}
	}
	x := (dst.Width() - len(g.outcome)) / 2
	dst.DrawColorText(x, y+4, g.outcome, color)
}

func (g *Game) shotLine(p core.PlayerID) string {
	name := fmt.Sprintf("Player %d", p)
	if p == core.Player2 && g.mode == ModeCPU {
		name = "CPU"
	}
	switch {
	case g.early == p:
		return name + ": Shot too early!"
	case g.early != 0:
		return name + ": Wins by default!"
	}
	if ms, ok := g.Reaction(p); ok {
		return fmt.Sprintf("%s: %dms", name, ms)
	}
	return name + ": No reaction"
}

func (g *Game) controlsHint() string {
	switch {
	case g.round.Terminal() && !g.matchOver():
		return "ENTER next round  |  R restart  |  ESC menu"
	case g.mode == ModeVersus || g.mode == ModeTournament:
		return "Player 1: A   Player 2: L"
	default:
		return "Shoot: A or SPACE"
	}
}
