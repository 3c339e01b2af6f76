package assassindice

import "sort"

// think runs one AI decision. Every decision that keeps the turn going
// schedules the next one, so the AI plays at a readable pace.
func (g *Game) think() {
	if g.humanTurn() || g.round.Terminal() {
		return
	}
	attacking := g.round.Phase() == phaseAttack

	switch {
	case !g.rolled:
		g.roll()

	case g.keptThisRoll == 0:
		var picks []int
		if attacking {
			picks = g.pickAttackDice()
		} else {
			picks = g.pickDice()
		}
		if len(picks) == 0 {
			g.finishAITurn(attacking)
			return
		}
		for _, i := range picks {
			g.toggle(i)
		}
		g.thinkAfter(aiDecisionMS)

	case attacking:
		kept := g.keptCount()
		if kept < diceCount && (kept < 2 || g.rng.Float64() < 0.5) {
			g.roll()
			return
		}
		g.endAttack()

	default:
		total := g.Total()
		switch {
		case total >= target:
			g.endTurn()
		case g.shouldRollAgain(total):
			g.roll()
		default:
			g.endTurn()
		}
	}
}

func (g *Game) finishAITurn(attacking bool) {
	if attacking {
		g.endAttack()
		return
	}
	g.endTurn()
}

type face struct {
	value, index int
}

func (g *Game) freeDice() []face {
	var out []face
	for i, v := range g.dice {
		if !g.kept[i] {
			out = append(out, face{value: v, index: i})
		}
	}
	return out
}

func indices(fs []face) []int {
	out := make([]int, len(fs))
	for i, f := range fs {
		out[i] = f.index
	}
	return out
}

// pickDice chooses which free dice to keep. Low totals keep anything
// decent; close to 30 the AI looks for an exact finish, then for dice that
// stay under, then settles for the smallest die.
func (g *Game) pickDice() []int {
	free := g.freeDice()
	if len(free) == 0 {
		return nil
	}
	total := g.Total()

	atLeast := func(min, fallback int) []int {
		var keep []face
		for _, f := range free {
			if f.value >= min {
				keep = append(keep, f)
			}
		}
		if len(keep) > 0 {
			return indices(keep)
		}
		sort.Slice(free, func(i, j int) bool { return free[i].value > free[j].value })
		if fallback > len(free) {
			fallback = len(free)
		}
		return indices(free[:fallback])
	}

	switch {
	case total < 15:
		return atLeast(3, 3)
	case total < 25:
		return atLeast(2, 2)
	}

	needed := target - total
	for _, f := range free {
		if f.value == needed {
			return []int{f.index}
		}
	}
	var safe []face
	for _, f := range free {
		if f.value < needed {
			safe = append(safe, f)
		}
	}
	if len(safe) > 0 {
		sort.Slice(safe, func(i, j int) bool { return safe[i].value > safe[j].value })
		return indices(safe)
	}
	sort.Slice(free, func(i, j int) bool { return free[i].value < free[j].value })
	return []int{free[0].index}
}

// pickAttackDice keeps one, sometimes two, of the dice showing the hunted
// value.
func (g *Game) pickAttackDice() []int {
	var hits []int
	for i, v := range g.dice {
		if v == g.hunt && !g.kept[i] {
			hits = append(hits, i)
		}
	}
	if len(hits) == 0 {
		return nil
	}
	n := 1
	if g.rng.Float64() >= 0.7 {
		n = 2
	}
	if n > len(hits) {
		n = len(hits)
	}
	return hits[:n]
}

// shouldRollAgain gets more careful as the total nears 30.
func (g *Game) shouldRollAgain(total int) bool {
	remaining := diceCount - g.keptCount()
	if remaining <= 0 {
		return false
	}
	p := g.rng.Float64()
	switch {
	case total < 15:
		return p < 0.7
	case total < 22:
		return p < 0.6
	case total < 27:
		return remaining >= 2 && p < 0.4
	default:
		return remaining >= 3 && p < 0.3
	}
}
