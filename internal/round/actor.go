package round

// Owner says who drives an actor.
type Owner int

const (
	Human Owner = iota
	AI
)

// Actor is an entity under player or AI control.
type Actor struct {
	Name   string
	Owner  Owner
	Health int
	Body   Body
}

// Damage lowers health by n, never below zero, and returns the amount
// actually removed. Negative n is ignored.
func (a *Actor) Damage(n int) int {
	if n <= 0 || a.Health <= 0 {
		return 0
	}
	if n > a.Health {
		n = a.Health
	}
	a.Health -= n
	return n
}

// Alive reports whether the actor still has health left.
func (a *Actor) Alive() bool {
	return a.Health > 0
}
