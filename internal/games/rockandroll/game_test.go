package rockandroll

import (
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/arcade-hub/internal/core"
	"github.com/vovakirdan/arcade-hub/internal/round"
)

func newDrive(t *testing.T, v core.Variant) (*Game, *[]core.Result) {
	t.Helper()
	var got []core.Result
	g := New()
	g.Reset(core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     42,
		Variant:  v,
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

func idle(g *Game) {
	g.Step(core.NewInputFrame())
}

func TestFallSpeed(t *testing.T) {
	tests := []struct {
		baseline float64
		bpm      int
		expected float64
	}{
		{100, 120, 440.0 / 120.0},
		{100, 166, 440.0 / (240.0 / 166.0 * 60)},
		{0, 120, 540.0 / 120.0},
	}
	for _, tc := range tests {
		got := fallSpeed(tc.baseline, tc.bpm)
		if math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("fallSpeed(%v, %d) = %v, expected %v", tc.baseline, tc.bpm, got, tc.expected)
		}
	}
}

func TestMissPenalizedOnce(t *testing.T) {
	g, results := newDrive(t, core.Variant{})
	g.UsePattern(Pattern{BPM: 120, Notes: []Note{{Time: 0, Lane: 0}}})

	misses := 0
	for i := 0; i < 400 && !g.State().GameOver; i++ {
		idle(g)
		if g.LastOutcome() == round.OutcomeMiss {
			misses++
		}
	}

	if misses != 1 || g.misses != 1 {
		t.Fatalf("miss outcomes = %d (counter %d), expected exactly 1", misses, g.misses)
	}
	if g.Baseline() != defaultBaseline-missPenalty {
		t.Errorf("Baseline() = %v, expected %v", g.Baseline(), defaultBaseline-missPenalty)
	}
	if math.Abs(g.Speed()-fallSpeed(g.Baseline(), 120)) > 1e-9 {
		t.Errorf("Speed() = %v, not recomputed after the miss", g.Speed())
	}
	if len(*results) != 1 || (*results)[0].Class != core.Win {
		t.Errorf("results = %+v, expected a win once the chart is exhausted", *results)
	}
}

func TestHitScores(t *testing.T) {
	g, results := newDrive(t, core.Variant{})
	g.UsePattern(Pattern{BPM: 120, Notes: []Note{{Time: 0, Lane: 3}}})

	for i := 0; i < 400; i++ {
		idle(g)
		if len(g.items) == 1 && math.Abs(g.items[0].Box.CenterY()-g.hitLine()) < 10 {
			break
		}
	}
	if len(g.items) != 1 {
		t.Fatal("note never reached the hit line")
	}
	before := g.round.Score()
	tap(g, core.ActionSlot4)

	if g.hits != 1 {
		t.Fatalf("hits = %d, expected 1", g.hits)
	}
	if len(*results) != 1 {
		t.Fatalf("reports = %d, expected the cleared chart to report", len(*results))
	}
	res := (*results)[0]
	if res.Class != core.Win || res.Score != before+hitScore+1 {
		t.Errorf("result = %+v, expected win with %d", res, before+hitScore+1)
	}
}

func TestMissBoundary(t *testing.T) {
	tests := []struct {
		offset   float64 // note centre below the hit line
		missed   bool
		playable bool
	}{
		{-30, false, false},
		{-29, false, true},
		{29, false, true},
		{30, true, false},
	}
	for _, tc := range tests {
		g, _ := newDrive(t, core.Variant{})
		note := newNote(round.KindNote, 2, 0)
		note.Box.Y = g.hitLine() + tc.offset - noteH/2
		g.items = []round.Item{note}

		out := g.Evaluate(g.round)
		if missed := out == round.OutcomeMiss; missed != tc.missed || (g.misses == 1) != tc.missed {
			t.Errorf("offset %v: Evaluate() = %v misses=%d, expected missed=%v", tc.offset, out, g.misses, tc.missed)
		}
		if got := g.play(g.round, 2); got != tc.playable {
			t.Errorf("offset %v: play() = %v, expected %v", tc.offset, got, tc.playable)
		}
	}
}

func TestWrongLaneDoesNotHit(t *testing.T) {
	g, _ := newDrive(t, core.Variant{})
	g.UsePattern(Pattern{BPM: 120, Notes: []Note{{Time: 0, Lane: 1}}})
	for i := 0; i < 400; i++ {
		idle(g)
		if len(g.items) == 1 && math.Abs(g.items[0].Box.CenterY()-g.hitLine()) < 10 {
			break
		}
	}
	tap(g, core.ActionSlot1, core.ActionSlot5)
	if g.hits != 0 {
		t.Errorf("hits = %d, other lanes must not play the note", g.hits)
	}
}

func TestBaselineFloor(t *testing.T) {
	g, _ := newDrive(t, core.Variant{})
	g.baseline = 5
	g.miss()
	if g.Baseline() != 0 {
		t.Errorf("Baseline() = %v, expected clamp at 0", g.Baseline())
	}
	g.miss()
	if g.Baseline() != 0 {
		t.Errorf("Baseline() = %v, must not go negative", g.Baseline())
	}
	if math.Abs(g.Speed()-fallSpeed(0, g.bpm)) > 1e-9 {
		t.Errorf("Speed() = %v, expected speed for a zero baseline", g.Speed())
	}
}

func TestLethalContact(t *testing.T) {
	tests := []struct {
		name string
		kind round.Kind
	}{
		{"block", round.KindBlock},
		{"live note", round.KindNote},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, results := newDrive(t, core.Variant{})
			it := newNote(tc.kind, 2, 0)
			it.Box.Y = carY - 20
			g.items = append(g.items, it)

			idle(g)
			if len(*results) != 1 || (*results)[0].Class != core.Lose {
				t.Fatalf("results = %+v, expected one lose", *results)
			}
			if g.round.Phase() != phaseCrashed {
				t.Errorf("Phase() = %s, expected crashed", g.round.Phase())
			}
			tap(g, core.ActionSlot3)
			idle(g)
			if len(*results) != 1 {
				t.Error("crashed round reported twice")
			}
		})
	}
}

func TestSteering(t *testing.T) {
	g, _ := newDrive(t, core.Variant{})
	start := g.car.Body.X
	tap(g, core.ActionRight)
	for i := 0; i < 10; i++ {
		idle(g)
	}
	if got := g.car.Body.X - start; got != steerFrames*carSpeed {
		t.Errorf("moved %v, expected %v for one press", got, steerFrames*carSpeed)
	}

	for i := 0; i < 50; i++ {
		tap(g, core.ActionLeft)
	}
	if g.car.Body.X != 0 {
		t.Errorf("X = %v, expected clamp at the left edge", g.car.Body.X)
	}
}

func TestRandomSpawnPairsNoteWithBlock(t *testing.T) {
	g, _ := newDrive(t, core.Variant{Mode: ModeRandom})
	for i := 0; i < spawnEvery; i++ {
		idle(g)
	}
	if len(g.items) != 2 {
		t.Fatalf("items = %d, expected a note and a block", len(g.items))
	}
	var note, block *round.Item
	for i := range g.items {
		switch g.items[i].Kind {
		case round.KindNote:
			note = &g.items[i]
		case round.KindBlock:
			block = &g.items[i]
		}
	}
	if note == nil || block == nil {
		t.Fatalf("items = %+v, expected one of each", g.items)
	}
	if note.Lane == block.Lane {
		t.Error("block spawned in the note's lane")
	}
}

func TestMissingPatternFallsBack(t *testing.T) {
	g, _ := newDrive(t, core.Variant{Track: filepath.Join(t.TempDir(), "missing.json")})
	if g.pattern != nil {
		t.Fatal("pattern should not be loaded")
	}
	if !strings.Contains(g.State().Message, "random notes") {
		t.Errorf("Message = %q, expected a fallback notice", g.State().Message)
	}
}

func TestSongSelection(t *testing.T) {
	g, _ := newDrive(t, core.Variant{Track: "willow"})
	if g.Song().BPM != 140 || g.bpm != 140 {
		t.Errorf("song = %+v bpm %d, expected Willow Tree at 140", g.Song(), g.bpm)
	}
	if g.Soundtrack() != "Willow Tree - Homephone.mp3" {
		t.Errorf("Soundtrack() = %q", g.Soundtrack())
	}
}

func TestFindSong(t *testing.T) {
	tests := []struct {
		query string
		name  string
		ok    bool
	}{
		{"Hot Tea - Homephone", "Hot Tea - Homephone", true},
		{"hot", "Hot Tea - Homephone", true},
		{"STRANGER", "Stranger - Jumpmonk", true},
		{"h", "", false},
		{"", "", false},
		{"nope", "", false},
	}
	for _, tc := range tests {
		s, ok := FindSong(tc.query)
		if ok != tc.ok || s.Name != tc.name {
			t.Errorf("FindSong(%q) = %q, %v; expected %q, %v", tc.query, s.Name, ok, tc.name, tc.ok)
		}
	}
}

func TestRender(t *testing.T) {
	g, _ := newDrive(t, core.Variant{Track: "stranger"})
	for i := 0; i < 60; i++ {
		idle(g)
	}
	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()
	for _, want := range []string{"ROCK AND ROLL", "Stranger - Jumpmonk", "120 BPM", string(CarChar)} {
		if !strings.Contains(out, want) {
			t.Errorf("screen missing %q:\n%s", want, out)
		}
	}
}

func TestParsePattern(t *testing.T) {
	p, err := ParsePattern([]byte(`{"notes":[{"time":2.5,"lane":4},{"time":1,"lane":0}]}`))
	if err != nil {
		t.Fatalf("ParsePattern() error = %v", err)
	}
	if p.BPM != defaultBPM {
		t.Errorf("BPM = %d, expected default %d", p.BPM, defaultBPM)
	}
	if p.Notes[0].Time != 1 || p.Notes[1].Lane != 4 {
		t.Errorf("Notes = %+v, expected sorted by time", p.Notes)
	}
	if p.Duration() != 2.5 {
		t.Errorf("Duration() = %v, expected 2.5", p.Duration())
	}
}

func TestParsePatternMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"bpm":`},
		{"lane out of range", `{"bpm":120,"notes":[{"time":1,"lane":5}]}`},
		{"negative lane", `{"bpm":120,"notes":[{"time":1,"lane":-1}]}`},
		{"negative time", `{"bpm":120,"notes":[{"time":-1,"lane":0}]}`},
		{"negative bpm", `{"bpm":-3,"notes":[{"time":1,"lane":0}]}`},
		{"empty notes", `{"bpm":120,"notes":[]}`},
		{"no notes field", `{"bpm":120}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParsePattern([]byte(tc.data)); !errors.Is(err, ErrMalformedPattern) {
				t.Errorf("ParsePattern() error = %v, expected ErrMalformedPattern", err)
			}
		})
	}
}

func TestWritePattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.json")
	if err := WritePattern(path, Pattern{BPM: 140}); !errors.Is(err, ErrEmptyPattern) {
		t.Errorf("WritePattern(empty) error = %v, expected ErrEmptyPattern", err)
	}

	src := Pattern{BPM: 140, Notes: []Note{{Time: 3, Lane: 1}, {Time: 0.5, Lane: 2}}}
	if err := WritePattern(path, src); err != nil {
		t.Fatalf("WritePattern() error = %v", err)
	}
	got, err := ReadPattern(path)
	if err != nil {
		t.Fatalf("ReadPattern() error = %v", err)
	}
	if got.BPM != 140 || len(got.Notes) != 2 || got.Notes[0].Time != 0.5 {
		t.Errorf("ReadPattern() = %+v", got)
	}
	if src.Notes[0].Time != 3 {
		t.Error("WritePattern must not reorder the caller's notes")
	}
}

func TestGenerate(t *testing.T) {
	p := Generate(166, 32, 2, 7)
	if p.BPM != 166 || len(p.Notes) != 32 {
		t.Fatalf("Generate() = %d notes at %d bpm", len(p.Notes), p.BPM)
	}
	for i := 1; i < len(p.Notes); i++ {
		if p.Notes[i].Lane == p.Notes[i-1].Lane {
			t.Errorf("notes %d and %d share lane %d", i-1, i, p.Notes[i].Lane)
		}
		if p.Notes[i].Time <= p.Notes[i-1].Time {
			t.Errorf("note %d not after note %d", i, i-1)
		}
	}
	if p.Notes[0].Time != 2 {
		t.Errorf("first note at %v, expected the lead", p.Notes[0].Time)
	}
}
