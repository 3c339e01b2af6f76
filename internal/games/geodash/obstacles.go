package geodash

import (
	"math/rand"

	"github.com/vovakirdan/arcade-hub/internal/core"
	"github.com/vovakirdan/arcade-hub/internal/round"
)

// Default obstacle sizes in world units.
const (
	spikeW, spikeH       = 30.0, 40.0
	blockW, blockH       = 40.0, 60.0
	platformW, platformH = 60.0, 30.0
)

// newObstacle builds an item standing on the ground at x. Zero width or
// height falls back to the kind's default; spikes are always the same size.
func newObstacle(kind round.Kind, x, w, h float64, tick int) round.Item {
	switch kind {
	case round.KindSpike:
		w, h = spikeW, spikeH
	case round.KindPlatform:
		if w == 0 {
			w = platformW
		}
		if h == 0 {
			h = platformH
		}
	default:
		if w == 0 {
			w = blockW
		}
		if h == 0 {
			h = blockH
		}
	}
	return round.Item{
		Kind:      kind,
		Box:       core.Box{X: x, Y: groundY - h, W: w, H: h},
		SpawnTick: tick,
	}
}

// randomObstacle rolls the endless-mode spawn table:
// 40% spike, 30% block, 30% platform of random size.
func randomObstacle(rng *rand.Rand, tick int) round.Item {
	r := rng.Float64()
	switch {
	case r < 0.4:
		return newObstacle(round.KindSpike, worldW, 0, 0, tick)
	case r < 0.7:
		return newObstacle(round.KindBlock, worldW, 0, 0, tick)
	default:
		w := 40 + rng.Float64()*40
		h := 20 + rng.Float64()*40
		return newObstacle(round.KindPlatform, worldW, w, h, tick)
	}
}

// scroll moves every item left by speed and drops those that left the
// screen, returning how many passed.
func scroll(items []round.Item, speed float64) ([]round.Item, int) {
	kept := items[:0]
	passed := 0
	for _, it := range items {
		it.Box.X -= speed
		if it.Box.Right() < 0 {
			it.Resolve(round.Passed)
			passed++
			continue
		}
		kept = append(kept, it)
	}
	return kept, passed
}
