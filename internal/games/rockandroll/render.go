package rockandroll

import (
	"fmt"

	"github.com/vovakirdan/arcade-hub/internal/core"
	"github.com/vovakirdan/arcade-hub/internal/round"
)

// Render draws the road scaled onto the screen. The playfield is centred
// and keeps a rough aspect ratio; the HUD sits to its right.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	w, h := dst.Width(), dst.Height()
	if w < 20 || h < 8 {
		return
	}

	fieldH := h - 1
	fieldW := min(w-22, fieldH*2)
	fieldW -= fieldW % lanes
	if fieldW < lanes {
		fieldW = lanes
	}
	left := 1
	cell := core.Viewport{
		Cells:  core.NewRect(left, 1, fieldW, fieldH),
		WorldW: worldW,
		WorldH: worldH,
	}.Cell

	laneCols := fieldW / lanes
	for lane := 0; lane <= lanes; lane++ {
		dst.DrawVLine(left+lane*laneCols-1, 1, fieldH, '│', core.ColorGray)
	}
	for lane := 0; lane < lanes; lane++ {
		x := left + lane*laneCols + laneCols/2
		dst.DrawColorText(x, h-1, fmt.Sprint(lane+1), laneColors[lane])
	}

	sy := worldH / float64(fieldH)
	lineY := int(g.hitLine()/sy) + 1
	dst.DrawHLine(left, lineY, fieldW-1, LineChar, core.ColorWhite)

	for _, it := range g.items {
		r := cell(it.Box)
		r.W = max(1, r.W-1)
		switch it.Kind {
		case round.KindNote:
			c := laneColors[it.Lane]
			if it.Resolved() {
				c = core.ColorGray
			}
			dst.DrawRect(r, NoteChar, c)
		case round.KindBlock:
			dst.DrawRect(r, BlockChar, core.ColorMagenta)
		}
	}
	dst.DrawRect(cell(g.carBox()), CarChar, core.ColorGreen)

	hud := left + fieldW + 2
	dst.DrawText(hud, 1, "ROCK AND ROLL")
	dst.DrawText(hud, 3, fmt.Sprintf("Score: %d", g.round.Score()))
	dst.DrawText(hud, 4, fmt.Sprintf("Hits:  %d", g.hits))
	dst.DrawText(hud, 5, fmt.Sprintf("Miss:  %d", g.misses))
	dst.DrawText(hud, 7, truncate(g.song.Name, w-hud-1))
	dst.DrawText(hud, 8, fmt.Sprintf("%d BPM", g.bpm))
	if g.pattern != nil {
		dst.DrawText(hud, 9, fmt.Sprintf("Notes: %d/%d", g.next, len(g.pattern.Notes)))
	}

	switch {
	case g.paused:
		drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	case g.round.Phase() == phaseCleared:
		drawCenteredMessage(dst, "SONG COMPLETE", fmt.Sprintf("Score: %d  |  R to replay", g.round.Score()))
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

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 3 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
