package round

import (
	"fmt"

	"github.com/vovakirdan/arcade-hub/internal/core"
)

// Kind tags an item.
type Kind int

const (
	KindSpike Kind = iota
	KindBlock
	KindPlatform
	KindNote
)

func (k Kind) String() string {
	switch k {
	case KindSpike:
		return "spike"
	case KindBlock:
		return "block"
	case KindPlatform:
		return "platform"
	case KindNote:
		return "note"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Resolution records what happened to an item.
type Resolution int

const (
	Live Resolution = iota
	Hit
	Missed
	Passed
)

// Item is a transient obstacle or timed target spawned into a round.
type Item struct {
	Kind       Kind
	Box        core.Box
	Lane       int // notes only, 0-based
	SpawnTick  int
	Resolution Resolution
}

// Resolved reports whether the item has already been hit, missed or passed.
func (it *Item) Resolved() bool {
	return it.Resolution != Live
}

// Resolve marks the item once. A second call returns false and keeps the
// first resolution.
func (it *Item) Resolve(res Resolution) bool {
	if it.Resolved() || res == Live {
		return false
	}
	it.Resolution = res
	return true
}

// Outcome is what the evaluator saw this tick.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeHit
	OutcomePass
	OutcomeLand
	OutcomeMiss
	OutcomeLose
	OutcomeComplete
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeHit:
		return "hit"
	case OutcomePass:
		return "pass"
	case OutcomeLand:
		return "land"
	case OutcomeMiss:
		return "miss"
	case OutcomeLose:
		return "lose"
	case OutcomeComplete:
		return "complete"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Collide checks one actor box against one item.
// vy is the actor's vertical velocity; positive is downward.
func Collide(actor core.Box, vy float64, it *Item) Outcome {
	if !actor.Overlaps(it.Box) {
		return OutcomeNone
	}
	switch it.Kind {
	case KindSpike, KindBlock:
		return OutcomeLose
	case KindPlatform:
		if actor.Y < it.Box.Y && vy >= 0 {
			return OutcomeLand
		}
		return OutcomeLose
	case KindNote:
		if it.Resolved() {
			return OutcomeNone
		}
		return OutcomeLose
	default:
		panic(fmt.Sprintf("round: unhandled item kind %v", it.Kind))
	}
}

// CollideAll checks the actor against every item. A lethal contact wins over
// a landing. The index of the deciding item is returned, or -1.
func CollideAll(actor core.Box, vy float64, items []Item) (Outcome, int) {
	out, at := OutcomeNone, -1
	for i := range items {
		switch Collide(actor, vy, &items[i]) {
		case OutcomeLose:
			return OutcomeLose, i
		case OutcomeLand:
			if out == OutcomeNone {
				out, at = OutcomeLand, i
			}
		}
	}
	return out, at
}

// Verdict classifies a total against a target.
type Verdict int

const (
	VerdictSafe Verdict = iota
	VerdictPenalty
	VerdictBonus
)

func (v Verdict) String() string {
	switch v {
	case VerdictSafe:
		return "safe"
	case VerdictPenalty:
		return "penalty"
	default:
		return "bonus"
	}
}

// ThresholdOutcome is the result of Threshold. Amount is the penalty for
// VerdictPenalty and the overshoot for VerdictBonus.
type ThresholdOutcome struct {
	Verdict Verdict
	Amount  int
}

// Threshold compares an integer total with its target.
func Threshold(total, target int) ThresholdOutcome {
	switch {
	case total == target:
		return ThresholdOutcome{Verdict: VerdictSafe}
	case total < target:
		return ThresholdOutcome{Verdict: VerdictPenalty, Amount: target - total}
	default:
		return ThresholdOutcome{Verdict: VerdictBonus, Amount: total - target}
	}
}
