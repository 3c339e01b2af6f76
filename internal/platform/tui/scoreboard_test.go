package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/arcade-hub/internal/core"
	_ "github.com/vovakirdan/arcade-hub/internal/games/geodash"
)

func updateBoard(t *testing.T, m ScoreboardModel, key string) ScoreboardModel {
	t.Helper()
	next, _ := m.Update(keyMsg(key))
	sm, ok := next.(ScoreboardModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return sm
}

func TestScoreboardShowsPersonalBest(t *testing.T) {
	h := newTestHub(t)
	if err := h.Login("ann"); err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	if err := h.StartGame("geo-dash", core.Variant{Mode: "endless"}); err != nil {
		t.Fatalf("StartGame() failed: %v", err)
	}
	h.Report(core.Result{RoundID: "r1", GameID: "geo-dash", Score: 120, Class: core.Lose})

	m := NewScoreboardModel(h, 100, 30)
	for i := 0; i < len(m.games) && m.games[m.active].ID != "geo-dash"; i++ {
		m = updateBoard(t, m, "tab")
	}
	if m.games[m.active].ID != "geo-dash" {
		t.Fatal("geo-dash board not reachable")
	}

	view := m.View()
	for _, want := range []string{"LEADERBOARD - ", "#1 *", "your best: #1 (120)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestScoreboardClearNeedsConfirmation(t *testing.T) {
	h := newTestHub(t)
	if err := h.Login("ann"); err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	if err := h.StartGame("geo-dash", core.Variant{Mode: "endless"}); err != nil {
		t.Fatalf("StartGame() failed: %v", err)
	}
	h.Report(core.Result{RoundID: "r1", GameID: "geo-dash", Score: 40, Class: core.Lose})

	m := NewScoreboardModel(h, 100, 30)
	for m.games[m.active].ID != "geo-dash" {
		m = updateBoard(t, m, "tab")
	}

	m = updateBoard(t, m, "X")
	m = updateBoard(t, m, "n")
	if len(m.scores) != 1 {
		t.Fatalf("board cleared without confirmation: %d entries", len(m.scores))
	}

	m = updateBoard(t, m, "X")
	if !m.confirmClear {
		t.Fatal("X did not ask for confirmation")
	}
	m = updateBoard(t, m, "y")
	if len(m.scores) != 0 {
		t.Errorf("board not cleared: %d entries", len(m.scores))
	}
	if !strings.Contains(m.View(), "No scores yet") {
		t.Errorf("empty board view:\n%s", m.View())
	}
}
