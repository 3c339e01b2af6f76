package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/arcade-hub/internal/games/rockandroll"
)

func updateEditor(t *testing.T, m EditorModel, msg any) EditorModel {
	t.Helper()
	next, _ := m.Update(msg)
	em, ok := next.(EditorModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return em
}

func TestEditorRecordsAndSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.json")
	m := NewEditorModel(EditorOptions{Path: path, TickRate: 60})

	m = updateEditor(t, m, keyMsg(" "))
	for i := 0; i < 30; i++ {
		m = updateEditor(t, m, TickMsg{})
	}
	m = updateEditor(t, m, keyMsg("3"))
	m = updateEditor(t, m, keyMsg(" "))
	if m.editor.Playing() {
		t.Fatal("space should pause the playhead")
	}
	if m.editor.Len() != 1 || m.editor.Notes()[0].Lane != 2 {
		t.Fatalf("notes = %+v, want one in lane index 2", m.editor.Notes())
	}
	if !strings.Contains(m.View(), "●") {
		t.Errorf("timeline does not show the note:\n%s", m.View())
	}

	m = updateEditor(t, m, keyMsg("s"))
	p, err := rockandroll.ReadPattern(path)
	if err != nil {
		t.Fatalf("ReadPattern() failed: %v (notice %q)", err, m.Notice())
	}
	if len(p.Notes) != 1 || p.Notes[0].Time < 0.45 || p.Notes[0].Time > 0.55 {
		t.Errorf("saved chart = %+v", p)
	}
}

func TestEditorDeleteModeAndClear(t *testing.T) {
	m := NewEditorModel(EditorOptions{})
	m = updateEditor(t, m, keyMsg("1"))
	m = updateEditor(t, m, keyMsg("5"))

	m = updateEditor(t, m, keyMsg("x"))
	m = updateEditor(t, m, keyMsg("1"))
	if m.editor.Len() != 1 || m.editor.Notes()[0].Lane != 4 {
		t.Fatalf("notes = %+v after deleting lane 1", m.editor.Notes())
	}

	m = updateEditor(t, m, keyMsg("C"))
	m = updateEditor(t, m, keyMsg("n"))
	if m.editor.Len() != 1 {
		t.Fatal("chart cleared without confirmation")
	}
	m = updateEditor(t, m, keyMsg("C"))
	if !strings.Contains(m.View(), "Clear every note?") {
		t.Errorf("missing clear prompt:\n%s", m.View())
	}
	m = updateEditor(t, m, keyMsg("y"))
	if m.editor.Len() != 0 {
		t.Errorf("notes = %+v after clear", m.editor.Notes())
	}

	m = updateEditor(t, m, keyMsg("s"))
	if m.Notice() != "No file to save to" {
		t.Errorf("Notice() = %q", m.Notice())
	}
}

func TestEditorOpensExistingChart(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	os.WriteFile(good, []byte(`{"bpm":90,"notes":[{"time":1,"lane":0},{"time":2,"lane":1}]}`), 0o644)
	m := NewEditorModel(EditorOptions{Path: good})
	if m.editor.Len() != 2 || m.editor.BPM() != 90 {
		t.Errorf("loaded bpm %d notes %d", m.editor.BPM(), m.editor.Len())
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"bpm":90,"notes":[]}`), 0o644)
	m = NewEditorModel(EditorOptions{Path: bad})
	if m.editor.Len() != 0 || !strings.Contains(m.Notice(), "malformed") {
		t.Errorf("bad chart: %d notes, notice %q", m.editor.Len(), m.Notice())
	}

	m = updateEditor(t, m, keyMsg("+"))
	if m.editor.BPM() != 121 {
		t.Errorf("BPM() = %d after +, want 121", m.editor.BPM())
	}
}
