package round

import "testing"

func TestIntegrateAdditive(t *testing.T) {
	tests := []struct {
		name    string
		body    Body
		gravity float64
	}{
		{"falling from rest", Body{Y: 100}, 0.6},
		{"jumping", Body{X: 100, Y: 320, VY: -12}, 0.6},
		{"drifting", Body{X: 5, VX: 3, VY: 1.5}, 0.25},
		{"no gravity", Body{VX: -4}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			twice := tc.body
			twice.Integrate(tc.gravity, 1)
			twice.Integrate(tc.gravity, 1)

			once := tc.body
			once.Integrate(tc.gravity, 2)

			if twice != once {
				t.Errorf("two single ticks %+v != one double tick %+v", twice, once)
			}
		})
	}
}

func TestIntegrateVelocityFirst(t *testing.T) {
	b := Body{Y: 0}
	b.Integrate(1, 1)
	// Acceleration reaches velocity before position moves.
	if b.VY != 1 || b.Y != 1 {
		t.Errorf("after one tick VY=%v Y=%v, expected 1 and 1", b.VY, b.Y)
	}
	b.Integrate(1, 1)
	if b.VY != 2 || b.Y != 3 {
		t.Errorf("after two ticks VY=%v Y=%v, expected 2 and 3", b.VY, b.Y)
	}
}

func TestCountdown(t *testing.T) {
	c := NewCountdown(3)
	fired := 0
	for i := 0; i < 9; i++ {
		fired += c.Tick(1)
	}
	if fired != 3 {
		t.Errorf("fired %d times in 9 ticks, expected 3", fired)
	}

	c = NewCountdown(3)
	if got := c.Tick(7); got != 2 {
		t.Errorf("Tick(7) = %d, expected 2", got)
	}

	var zero Countdown
	if zero.Tick(10) != 0 {
		t.Error("zero-period countdown must never fire")
	}
}

func TestProgress(t *testing.T) {
	p := Progress{Goal: 100}
	p.Tick(4, 20)
	if p.Done() {
		t.Error("80 of 100 should not be done")
	}
	if p.Fraction() != 0.8 {
		t.Errorf("Fraction() = %v, expected 0.8", p.Fraction())
	}
	p.Tick(4, 5)
	if !p.Done() {
		t.Error("100 of 100 should be done")
	}
	if (Progress{}).Done() {
		t.Error("progress without a goal never completes")
	}
}
