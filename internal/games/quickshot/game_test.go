package quickshot

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/arcade-hub/internal/core"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(ms int) { c.t = c.t.Add(time.Duration(ms) * time.Millisecond) }

type results struct {
	got []core.Result
}

func (r *results) Report(res core.Result) { r.got = append(r.got, res) }

func newDuel(mode string, rep *results) (*Game, *fakeClock) {
	clk := &fakeClock{t: time.Unix(1700000000, 0)}
	g := New()
	g.SetClock(clk.now)
	g.Reset(core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     3,
		Variant:  core.Variant{Mode: mode},
		Reporter: rep,
	})
	return g, clk
}

func press(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func reachGo(t *testing.T, g *Game, clk *fakeClock) {
	t.Helper()
	g.Step(press(core.ActionConfirm))
	if g.Phase() != "ready" {
		t.Fatalf("Phase() = %s after start, expected ready", g.Phase())
	}
	for i := 0; i < 500 && g.Phase() != "go"; i++ {
		clk.advance(16)
		g.Step(core.NewInputFrame())
	}
	if g.Phase() != "go" {
		t.Fatalf("never reached go, phase = %s", g.Phase())
	}
}

// shotAt builds a frame with presses stamped relative to GO.
func shotAt(g *Game, shots ...struct {
	a  core.Action
	ms int
}) core.InputFrame {
	in := core.NewInputFrame()
	for _, s := range shots {
		in.Push(s.a, g.goAt.Add(time.Duration(s.ms)*time.Millisecond))
	}
	return in
}

type shot = struct {
	a  core.Action
	ms int
}

func TestPhasesReachGo(t *testing.T) {
	g, clk := newDuel(ModePractice, &results{})
	if g.Phase() != "waiting" {
		t.Fatalf("Phase() = %s, expected waiting", g.Phase())
	}
	start := clk.t
	reachGo(t, g, clk)
	elapsed := clk.t.Sub(start)
	if elapsed < 3*time.Second || elapsed > 7*time.Second+100*time.Millisecond {
		t.Errorf("GO after %v, expected between 3s and 7s", elapsed)
	}
}

func TestWaitingIgnoresTrigger(t *testing.T) {
	g, _ := newDuel(ModeVersus, &results{})
	g.Step(press(core.ActionFire))
	g.Step(press(core.ActionFire2))
	if g.Phase() != "waiting" {
		t.Errorf("Phase() = %s, trigger before start should be ignored", g.Phase())
	}
}

func TestReactionBeatsCPU(t *testing.T) {
	rep := &results{}
	g, clk := newDuel(ModeCPU, rep)
	reachGo(t, g, clk)
	g.botMS = 220

	clk.t = g.goAt.Add(180 * time.Millisecond)
	g.Step(shotAt(g, shot{core.ActionFire, 180}))
	if len(rep.got) != 0 {
		t.Fatal("round should wait for the bot")
	}

	clk.t = g.goAt.Add(230 * time.Millisecond)
	g.Step(core.NewInputFrame())

	if len(rep.got) != 1 {
		t.Fatalf("reports = %d, expected 1", len(rep.got))
	}
	res := rep.got[0]
	if res.Score != 180 || res.Class != core.Win {
		t.Errorf("result = %+v, expected score 180 win", res)
	}
	if ms, ok := g.Reaction(core.Player2); !ok || ms != 220 {
		t.Errorf("bot reaction = %d/%v, expected 220", ms, ok)
	}
}

func TestWinWhenOpponentNeverReacts(t *testing.T) {
	rep := &results{}
	g, clk := newDuel(ModeVersus, rep)
	reachGo(t, g, clk)

	clk.t = g.goAt.Add(180 * time.Millisecond)
	g.Step(shotAt(g, shot{core.ActionFire, 180}))

	for i := 0; i < 200 && len(rep.got) == 0; i++ {
		clk.advance(16)
		g.Step(core.NewInputFrame())
	}
	if len(rep.got) != 1 {
		t.Fatalf("reports = %d, expected 1", len(rep.got))
	}
	if rep.got[0].Score != 180 || rep.got[0].Class != core.Win {
		t.Errorf("result = %+v, expected 180 win", rep.got[0])
	}
	if waited := clk.t.Sub(g.goAt); waited < 2180*time.Millisecond {
		t.Errorf("finished after %v, expected the answer window to elapse", waited)
	}
}

func TestSlowerPlayerLoses(t *testing.T) {
	rep := &results{}
	g, clk := newDuel(ModeVersus, rep)
	reachGo(t, g, clk)

	clk.t = g.goAt.Add(260 * time.Millisecond)
	g.Step(shotAt(g, shot{core.ActionFire2, 200}, shot{core.ActionFire, 250}))

	if len(rep.got) != 1 {
		t.Fatalf("reports = %d, expected 1", len(rep.got))
	}
	if rep.got[0].Score != 250 || rep.got[0].Class != core.Lose {
		t.Errorf("result = %+v, expected 250 lose", rep.got[0])
	}
}

func TestSameTickTieBreakByArrival(t *testing.T) {
	tests := []struct {
		name     string
		order    []core.Action
		expected core.Classification
	}{
		{"player one first", []core.Action{core.ActionFire, core.ActionFire2}, core.Win},
		{"player two first", []core.Action{core.ActionFire2, core.ActionFire}, core.Lose},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rep := &results{}
			g, clk := newDuel(ModeVersus, rep)
			reachGo(t, g, clk)

			clk.t = g.goAt.Add(210 * time.Millisecond)
			g.Step(shotAt(g, shot{tc.order[0], 200}, shot{tc.order[1], 200}))

			if len(rep.got) != 1 || rep.got[0].Class != tc.expected {
				t.Errorf("result = %+v, expected %s", rep.got, tc.expected)
			}
		})
	}
}

func TestEarlyShotLoses(t *testing.T) {
	rep := &results{}
	g, _ := newDuel(ModePractice, rep)
	g.Step(press(core.ActionConfirm))
	g.Step(press(core.ActionJump))

	if g.Phase() != "finished" {
		t.Fatalf("Phase() = %s, early shot should finish the round", g.Phase())
	}
	if len(rep.got) != 1 || rep.got[0].Class != core.Lose || rep.got[0].Score != 0 {
		t.Errorf("result = %+v, expected lose with 0", rep.got)
	}

	// Terminal is sticky and reports once.
	for i := 0; i < 5; i++ {
		g.Step(press(core.ActionFire, core.ActionJump))
	}
	if len(rep.got) != 1 {
		t.Errorf("reports = %d after extra input, expected 1", len(rep.got))
	}
}

func TestOpponentEarlyShotWins(t *testing.T) {
	rep := &results{}
	g, _ := newDuel(ModeVersus, rep)
	g.Step(press(core.ActionConfirm))
	g.Step(press(core.ActionFire2))

	if len(rep.got) != 1 || rep.got[0].Class != core.Win {
		t.Errorf("result = %+v, expected win by default", rep.got)
	}
}

func TestNoReactionInPractice(t *testing.T) {
	rep := &results{}
	g, clk := newDuel(ModePractice, rep)
	reachGo(t, g, clk)

	clk.t = g.goAt.Add(noShowMS * time.Millisecond)
	g.Step(core.NewInputFrame())
	if len(rep.got) != 1 || rep.got[0].Class != core.Lose {
		t.Errorf("result = %+v, expected lose after no reaction", rep.got)
	}
	if g.State().Message != "No one reacted!" {
		t.Errorf("Message = %q", g.State().Message)
	}
}

func TestStaleCueIgnoredAfterNextDuel(t *testing.T) {
	g, clk := newDuel(ModeTournament, &results{})
	g.Step(press(core.ActionConfirm))
	g.Step(press(core.ActionFire))
	if g.Phase() != "finished" {
		t.Fatalf("Phase() = %s, expected finished", g.Phase())
	}

	g.Step(press(core.ActionConfirm))
	if g.Phase() != "waiting" {
		t.Fatalf("Phase() = %s, ENTER should set up the next duel", g.Phase())
	}
	for i := 0; i < 600; i++ {
		clk.advance(16)
		g.Step(core.NewInputFrame())
	}
	if g.Phase() != "waiting" {
		t.Errorf("Phase() = %s, cues from the previous duel must not fire", g.Phase())
	}
}

func TestFinishedDuelNeedsNewGame(t *testing.T) {
	for _, mode := range []string{ModePractice, ModeCPU, ModeVersus} {
		rep := &results{}
		g, _ := newDuel(mode, rep)
		g.Step(press(core.ActionConfirm))
		g.Step(press(core.ActionFire))
		if !g.State().GameOver {
			t.Fatalf("%s: GameOver = false after an early shot", mode)
		}

		for i := 0; i < 3; i++ {
			g.Step(press(core.ActionConfirm))
		}
		if g.Phase() != "finished" || !g.State().GameOver {
			t.Errorf("%s: Phase() = %s, ENTER must not start a free duel", mode, g.Phase())
		}
		if len(rep.got) != 1 {
			t.Errorf("%s: reports = %d, expected 1", mode, len(rep.got))
		}
	}
}

func TestTournamentBestOfThree(t *testing.T) {
	rep := &results{}
	g, clk := newDuel(ModeTournament, rep)

	for duel := 0; duel < 2; duel++ {
		reachGo(t, g, clk)
		clk.t = g.goAt.Add(300 * time.Millisecond)
		g.Step(shotAt(g, shot{core.ActionFire, 150 + duel*20}, shot{core.ActionFire2, 290}))
		if duel == 0 {
			if g.State().GameOver {
				t.Fatal("series should continue after one win")
			}
			if len(rep.got) != 0 {
				t.Fatalf("duel reported on its own: %+v", rep.got)
			}
			g.Step(press(core.ActionConfirm))
		}
	}

	if !g.State().GameOver {
		t.Error("two wins should decide a best of three")
	}
	if g.wins[0] != 2 || g.wins[1] != 0 {
		t.Errorf("wins = %v, expected [2 0]", g.wins)
	}
	g.Step(press(core.ActionConfirm))
	if g.Phase() != "finished" {
		t.Error("no new duel after the series is decided")
	}
	if len(rep.got) != 1 {
		t.Fatalf("the match reports once, got %d", len(rep.got))
	}
	if res := rep.got[0]; res.Class != core.Win || res.Score != 150 {
		t.Errorf("match result = %+v, expected win with the fastest reaction 150", res)
	}
}

func TestGoRaisesSound(t *testing.T) {
	g, clk := newDuel(ModePractice, &results{})
	g.Step(core.NewInputFrame())
	if g.LastSound() != core.SoundNone {
		t.Errorf("LastSound() = %d before GO", g.LastSound())
	}
	reachGo(t, g, clk)
	if g.LastSound() != core.SoundGo {
		t.Fatalf("LastSound() = %d on the GO tick, expected SoundGo", g.LastSound())
	}
	clk.advance(16)
	g.Step(core.NewInputFrame())
	if g.LastSound() != core.SoundNone {
		t.Errorf("LastSound() = %d, the cue should last one tick", g.LastSound())
	}
}

func TestRenderShowsOutcome(t *testing.T) {
	rep := &results{}
	g, clk := newDuel(ModeCPU, rep)
	reachGo(t, g, clk)
	g.botMS = 400
	clk.t = g.goAt.Add(410 * time.Millisecond)
	g.Step(shotAt(g, shot{core.ActionFire, 190}))

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !containsText(screen, "Player 1: 190ms") || !containsText(screen, "CPU: 400ms") {
		t.Errorf("results missing from screen:\n%s", screen.String())
	}
}

func containsText(s *core.Screen, text string) bool {
	return strings.Contains(s.String(), text)
}
