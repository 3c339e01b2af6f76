package core

import "testing"

func TestBoxOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Box
		expected bool
	}{
		{"overlapping", Box{0, 0, 10, 10}, Box{5, 5, 10, 10}, true},
		{"apart horizontally", Box{0, 0, 10, 10}, Box{15, 0, 10, 10}, false},
		{"apart vertically", Box{0, 0, 10, 10}, Box{0, 15, 10, 10}, false},
		{"touching edge", Box{0, 0, 10, 10}, Box{10, 0, 10, 10}, false},
		{"contained", Box{0, 0, 20, 20}, Box{5, 5, 5, 5}, true},
		{"fractional overlap", Box{0, 0, 10, 10}, Box{9.5, 9.5, 4, 4}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.expected {
				t.Errorf("Overlaps() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Overlaps(tc.a); got != tc.expected {
				t.Errorf("Overlaps() is not symmetric for %s", tc.name)
			}
		})
	}
}

func TestBoxEdges(t *testing.T) {
	b := Box{X: 100, Y: 20, W: 30, H: 40}
	if b.Right() != 130 {
		t.Errorf("Right() = %v, expected 130", b.Right())
	}
	if b.Bottom() != 60 {
		t.Errorf("Bottom() = %v, expected 60", b.Bottom())
	}
	if b.CenterY() != 40 {
		t.Errorf("CenterY() = %v, expected 40", b.CenterY())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-3, 0, 10, 0},
		{15, 0, 10, 10},
	}
	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
	if got := ClampF(-0.5, 0, 1); got != 0 {
		t.Errorf("ClampF(-0.5, 0, 1) = %v, expected 0", got)
	}
}

func TestFramesFor(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.FramesFor(1000); got != 60 {
		t.Errorf("FramesFor(1000) = %d, expected 60", got)
	}
	if got := cfg.FramesFor(10); got != 1 {
		t.Errorf("FramesFor(10) = %d, expected 1 (rounded up)", got)
	}
	cfg.TickRate = 0
	if got := cfg.FramesFor(500); got != 30 {
		t.Errorf("FramesFor(500) with zero rate = %d, expected 30", got)
	}
}

func TestViewportCell(t *testing.T) {
	v := Viewport{Cells: NewRect(0, 1, 80, 40), WorldW: 800, WorldH: 400}
	tests := []struct {
		name string
		box  Box
		want Rect
	}{
		{"ground strip", Box{X: 0, Y: 380, W: 800, H: 20}, NewRect(0, 39, 80, 2)},
		{"sub-cell box", Box{X: 12, Y: 100, W: 2, H: 2}, NewRect(1, 11, 1, 1)},
		{"above the top", Box{X: 5, Y: -30, W: 1, H: 1}, NewRect(0, 1, 1, 1)},
	}
	for _, tc := range tests {
		if got := v.Cell(tc.box); got != tc.want {
			t.Errorf("%s: Cell(%+v) = %+v, expected %+v", tc.name, tc.box, got, tc.want)
		}
	}
}
