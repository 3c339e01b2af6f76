package round

// Body is a point mass in world units.
type Body struct {
	X, Y   float64
	VX, VY float64
}

// Integrate advances the body by frames ticks under a constant vertical
// acceleration. Each frame applies acceleration to velocity before velocity
// to position, so Integrate(g, 2) equals two Integrate(g, 1) calls.
func (b *Body) Integrate(gravity float64, frames int) {
	for i := 0; i < frames; i++ {
		b.VY += gravity
		b.X += b.VX
		b.Y += b.VY
	}
}

// Countdown fires every Period ticks. Spawners use it.
type Countdown struct {
	Period    int
	Remaining int
}

// NewCountdown returns a countdown that first fires after period ticks.
func NewCountdown(period int) Countdown {
	return Countdown{Period: period, Remaining: period}
}

// Tick advances the countdown and returns how many times it fired.
func (c *Countdown) Tick(frames int) int {
	if c.Period <= 0 {
		return 0
	}
	fired := 0
	for i := 0; i < frames; i++ {
		c.Remaining--
		if c.Remaining <= 0 {
			fired++
			c.Remaining = c.Period
		}
	}
	return fired
}

// Progress accumulates distance towards a goal.
type Progress struct {
	Value float64
	Goal  float64
}

// Tick adds rate for each frame.
func (p *Progress) Tick(rate float64, frames int) {
	p.Value += rate * float64(frames)
}

// Done reports whether the goal has been reached. A zero goal never completes.
func (p Progress) Done() bool {
	return p.Goal > 0 && p.Value >= p.Goal
}

// Fraction returns progress in [0, 1].
func (p Progress) Fraction() float64 {
	if p.Goal <= 0 {
		return 0
	}
	f := p.Value / p.Goal
	if f > 1 {
		return 1
	}
	return f
}
