// Package forest places trees on the ground plane and assembles their
// meshes into one buffer set.
package forest

import (
	"math/rand"

	"github.com/scottkirkwood/arbor"
)

// DefaultMaxAttempts is how many draws a tree gets before it is dropped.
const DefaultMaxAttempts = 50

// Placement is where tree Index of the requested count was put.
type Placement struct {
	Index  int
	Offset arbor.XZ
}

// Place scatters count trees uniformly over the square of side areaSize
// centered on the origin, keeping every pair at least minDistance apart.
//
// Each tree is drawn up to maxAttempts times and dropped with a warning if
// no draw fits, so fewer than count placements may come back.
func Place(count int, areaSize, minDistance float64, maxAttempts int, rng *rand.Rand) []Placement {
	if count <= 0 {
		if count < 0 {
			arbor.Logger().Warn("negative tree count, placing none", "count", count)
		}
		return nil
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	log := arbor.Logger()
	area := arbor.Square(areaSize)
	placed := make([]Placement, 0, count)

	for i := 0; i < count; i++ {
		ok := false
		for try := 0; try < maxAttempts && !ok; try++ {
			p := area.Sample(rng.Float64)
			if fits(placed, p, minDistance) {
				placed = append(placed, Placement{Index: i, Offset: p})
				ok = true
			}
		}
		if !ok {
			log.Warn("dropped tree, no room left", "tree", i, "attempts", maxAttempts, "min_distance", minDistance)
		}
	}
	if len(placed) < count {
		log.Warn("placed fewer trees than requested", "placed", len(placed), "requested", count)
	}
	return placed
}

func fits(placed []Placement, p arbor.XZ, minDistance float64) bool {
	for _, o := range placed {
		if o.Offset.Within(p, minDistance) {
			return false
		}
	}
	return true
}
