package assassindice

import (
	"strings"
	"testing"

	"github.com/vovakirdan/arcade-hub/internal/core"
)

func newBattle(t *testing.T, seed int64) (*Game, *[]core.Result) {
	t.Helper()
	var got []core.Result
	g := New()
	g.Reset(core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     seed,
		Reporter: core.ReporterFunc(func(res core.Result) { got = append(got, res) }),
	})
	return g, &got
}

func tap(g *Game, actions ...core.Action) {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	g.Step(in)
}

func idle(g *Game, n int) {
	for i := 0; i < n; i++ {
		g.Step(core.NewInputFrame())
	}
}

// rollTo rolls and waits for the dice to land, then forces the faces.
func rollTo(t *testing.T, g *Game, faces [diceCount]int) {
	t.Helper()
	tap(g, core.ActionJump)
	if p := g.Phase(); p != string(phaseRolling) && p != string(phaseAttackRoll) {
		t.Fatalf("Phase() = %s after roll, expected a rolling phase", p)
	}
	idle(g, g.runtime.FramesFor(rollMS))
	if p := g.Phase(); p != string(phasePlaying) && p != string(phaseAttack) {
		t.Fatalf("Phase() = %s, dice never landed", p)
	}
	for i := range faces {
		if !g.kept[i] {
			g.dice[i] = faces[i]
		}
	}
}

func keepAll() []core.Action {
	out := make([]core.Action, 0, diceCount)
	for i := 1; i <= diceCount; i++ {
		out = append(out, core.SlotAction(i))
	}
	return out
}

func TestRollRaisesSound(t *testing.T) {
	g, _ := newBattle(t, 1)
	tap(g, core.ActionJump)
	if g.LastSound() != core.SoundRoll {
		t.Fatalf("LastSound() = %d after a roll, expected SoundRoll", g.LastSound())
	}
	idle(g, 1)
	if g.LastSound() != core.SoundNone {
		t.Errorf("LastSound() = %d, the cue should last one tick", g.LastSound())
	}

	// A roll refused mid-air makes no sound.
	tap(g, core.ActionJump)
	if g.LastSound() != core.SoundNone {
		t.Errorf("LastSound() = %d for a refused roll", g.LastSound())
	}
}

func TestRollLandsAfterDelay(t *testing.T) {
	g, _ := newBattle(t, 1)
	tap(g, core.ActionJump)
	if g.Phase() != string(phaseRolling) {
		t.Fatalf("Phase() = %s, expected rolling", g.Phase())
	}
	idle(g, g.runtime.FramesFor(rollMS)-1)
	if g.Phase() != string(phaseRolling) {
		t.Fatal("dice landed before the roll delay")
	}
	idle(g, 1)
	if g.Phase() != string(phasePlaying) || !g.rolled {
		t.Errorf("Phase() = %s rolled=%v, expected landed dice", g.Phase(), g.rolled)
	}
	for i, v := range g.dice {
		if v < 1 || v > 6 {
			t.Errorf("die %d = %d, out of range", i, v)
		}
	}
}

func TestRerollNeedsNewKeep(t *testing.T) {
	g, _ := newBattle(t, 2)
	rollTo(t, g, [diceCount]int{4, 2, 3, 1, 5, 6})

	tap(g, core.ActionJump)
	if g.Phase() != string(phasePlaying) {
		t.Fatal("rolled again without keeping a die")
	}

	tap(g, core.ActionSlot1)
	rollTo(t, g, [diceCount]int{0, 1, 1, 1, 1, 1})
	if g.dice[0] != 4 {
		t.Errorf("kept die changed to %d", g.dice[0])
	}
	if g.toggle(0) {
		t.Error("a die kept before the roll must stay frozen")
	}
}

func TestExactThirtyIsSafe(t *testing.T) {
	g, _ := newBattle(t, 3)
	rollTo(t, g, [diceCount]int{5, 6, 4, 6, 5, 4})
	tap(g, keepAll()...)
	if g.Total() != 30 {
		t.Fatalf("Total() = %d, expected 30", g.Total())
	}
	tap(g, core.ActionConfirm)

	if hp := g.actors[humanIndex].Health; hp != startHealth {
		t.Errorf("Health = %d, exact 30 should cost nothing", hp)
	}
	if g.Turn() != 1 {
		t.Errorf("Turn() = %d, expected the AI to move next", g.Turn())
	}
}

func TestUnderTargetDamagesSelf(t *testing.T) {
	g, results := newBattle(t, 4)
	rollTo(t, g, [diceCount]int{1, 1, 1, 1, 1, 1})
	tap(g, keepAll()...)
	tap(g, core.ActionConfirm)

	if hp := g.actors[humanIndex].Health; hp != 6 {
		t.Errorf("Health = %d, expected 30-24 = 6", hp)
	}
	if len(*results) != 0 {
		t.Error("battle should continue")
	}
}

func TestPenaltyClampsAndEliminates(t *testing.T) {
	g, results := newBattle(t, 5)
	g.actors[humanIndex].Health = 5
	rollTo(t, g, [diceCount]int{1, 1, 1, 1, 1, 1})
	tap(g, keepAll()...)
	tap(g, core.ActionConfirm)

	if hp := g.actors[humanIndex].Health; hp != 0 {
		t.Errorf("Health = %d, expected clamp at 0", hp)
	}
	if len(*results) != 1 {
		t.Fatalf("reports = %d, expected 1", len(*results))
	}
	if res := (*results)[0]; res.Class != core.Lose || res.Score != 0 {
		t.Errorf("result = %+v, expected lose with 0", res)
	}
	if g.Phase() != string(phaseResolved) {
		t.Errorf("Phase() = %s, expected resolved", g.Phase())
	}

	idle(g, 300)
	tap(g, core.ActionJump)
	if len(*results) != 1 {
		t.Error("a resolved battle must not report again")
	}
}

func TestOverTargetStartsAttack(t *testing.T) {
	g, _ := newBattle(t, 6)
	rollTo(t, g, [diceCount]int{6, 6, 6, 6, 6, 6})
	tap(g, keepAll()...)
	tap(g, core.ActionConfirm)

	if g.Phase() != string(phaseAttack) || g.Hunt() != 6 {
		t.Fatalf("Phase() = %s Hunt() = %d, expected attack hunting 6", g.Phase(), g.Hunt())
	}

	rollTo(t, g, [diceCount]int{6, 6, 1, 2, 3, 4})
	tap(g, core.ActionSlot1, core.ActionSlot2, core.ActionSlot3)
	if g.kept[2] {
		t.Error("only dice showing the hunted value can be kept")
	}
	tap(g, core.ActionConfirm)

	if hp := g.actors[1].Health; hp != 18 {
		t.Errorf("opponent Health = %d, expected 30-12 = 18", hp)
	}
	if g.Phase() != string(phasePlaying) || g.Turn() != 1 {
		t.Errorf("Phase() = %s Turn() = %d, expected the AI's normal turn", g.Phase(), g.Turn())
	}
}

func TestAttackFinishesOpponent(t *testing.T) {
	g, results := newBattle(t, 7)
	g.actors[1].Health = 5
	rollTo(t, g, [diceCount]int{6, 6, 6, 6, 6, 6})
	tap(g, keepAll()...)
	tap(g, core.ActionConfirm)
	rollTo(t, g, [diceCount]int{6, 6, 1, 2, 3, 4})
	tap(g, core.ActionSlot1, core.ActionSlot2)
	tap(g, core.ActionConfirm)

	if len(*results) != 1 {
		t.Fatalf("reports = %d, expected 1", len(*results))
	}
	res := (*results)[0]
	if res.Class != core.Win {
		t.Errorf("Class = %s, expected win", res.Class)
	}
	if res.Score != startHealth*healthPoints+5 {
		t.Errorf("Score = %d, expected health*10 + damage dealt", res.Score)
	}
}

func TestAIPlaysItsTurn(t *testing.T) {
	g, results := newBattle(t, 8)
	rollTo(t, g, [diceCount]int{5, 6, 4, 6, 5, 4})
	tap(g, keepAll()...)
	tap(g, core.ActionConfirm)
	if g.Turn() != 1 {
		t.Fatal("expected the AI's turn")
	}

	tap(g, core.ActionJump)
	if g.Phase() != string(phasePlaying) {
		t.Error("keyboard must be ignored during the AI's turn")
	}

	for i := 0; i < 5000 && g.Turn() == 1 && len(*results) == 0; i++ {
		idle(g, 1)
	}
	if g.Turn() == 1 && len(*results) == 0 {
		t.Fatal("AI never finished its turn")
	}
	found := false
	for _, line := range g.log {
		if strings.Contains(line, "AI OPPONENT") {
			found = true
		}
	}
	if !found {
		t.Errorf("log has no AI entry: %v", g.log)
	}
}

func TestPickDice(t *testing.T) {
	tests := []struct {
		name     string
		dice     [diceCount]int
		kept     [diceCount]bool
		expected []int
	}{
		{
			name:     "early keeps threes and up",
			dice:     [diceCount]int{1, 2, 3, 4, 5, 6},
			expected: []int{2, 3, 4, 5},
		},
		{
			name:     "mid keeps twos and up",
			dice:     [diceCount]int{6, 6, 4, 1, 2, 1},
			kept:     [diceCount]bool{true, true, true},
			expected: []int{4},
		},
		{
			name:     "late takes the exact finish",
			dice:     [diceCount]int{6, 6, 6, 6, 1, 5},
			kept:     [diceCount]bool{true, true, true, true, true},
			expected: []int{5},
		},
		{
			name:     "late settles for the smallest die",
			dice:     [diceCount]int{6, 6, 6, 6, 4, 6},
			kept:     [diceCount]bool{true, true, true, true, true},
			expected: []int{5},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, _ := newBattle(t, 1)
			g.dice = tc.dice
			g.kept = tc.kept
			got := g.pickDice()
			if len(got) != len(tc.expected) {
				t.Fatalf("pickDice() = %v, expected %v", got, tc.expected)
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("pickDice() = %v, expected %v", got, tc.expected)
				}
			}
		})
	}
}

func TestPickAttackDice(t *testing.T) {
	g, _ := newBattle(t, 9)
	g.hunt = 3
	g.dice = [diceCount]int{3, 1, 3, 3, 2, 6}
	picks := g.pickAttackDice()
	if len(picks) < 1 || len(picks) > 2 {
		t.Fatalf("pickAttackDice() = %v, expected one or two dice", picks)
	}
	for _, i := range picks {
		if g.dice[i] != 3 {
			t.Errorf("picked die %d showing %d", i, g.dice[i])
		}
	}

	g.dice = [diceCount]int{1, 1, 2, 2, 4, 6}
	if picks := g.pickAttackDice(); len(picks) != 0 {
		t.Errorf("pickAttackDice() = %v, expected none", picks)
	}
}

func TestResetDropsPendingRoll(t *testing.T) {
	g, _ := newBattle(t, 10)
	tap(g, core.ActionJump)
	g.Reset(g.runtime)
	idle(g, 120)
	if g.Phase() != string(phasePlaying) || g.rolled {
		t.Errorf("Phase() = %s rolled=%v, stale roll landed after reset", g.Phase(), g.rolled)
	}
}

func TestRender(t *testing.T) {
	g, _ := newBattle(t, 11)
	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()
	for _, want := range []string{"ASSASSIN DICE", "PLAYER", "AI OPPONENT", "SPACE roll"} {
		if !strings.Contains(out, want) {
			t.Errorf("screen missing %q", want)
		}
	}
}
