// Package collision classifies a vehicle's footprint against the terrain and
// the level bounds.
package collision

import (
	"math"

	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/terrain"
	"github.com/vovakirdan/tui-lander/internal/vehicle"
)

// Footprint is the world-space boundary of a vehicle for one step.
type Footprint struct {
	Points []core.Vec2
	Bounds core.AABB
}

// FootprintOf rotates and translates the vehicle's boundary points.
func FootprintOf(v *vehicle.Vehicle) Footprint {
	pts := v.WorldBoundary()
	return Footprint{Points: pts, Bounds: core.BoundsOf(pts)}
}

// Escaped reports whether the footprint lies fully outside the level on one axis.
func (f Footprint) Escaped(t *terrain.Terrain) bool {
	return f.Bounds.OutsideRect(float64(t.Width()), float64(t.Height()))
}

// Hit returns the first in-bounds boundary point at or below the ground.
func (f Footprint) Hit(t *terrain.Terrain) (core.Vec2, bool) {
	w := float64(t.Width())
	h := float64(t.Height())
	for _, p := range f.Points {
		if p.X < 0 || p.X >= w {
			continue
		}
		if t.HeightAt(int(math.Floor(p.X))) >= h-p.Y {
			return p, true
		}
	}
	return core.Vec2{}, false
}

// Classify returns Escaped, Collided or InFlight. Escape is checked first.
func Classify(v *vehicle.Vehicle, t *terrain.Terrain) core.Outcome {
	return ClassifyFootprint(FootprintOf(v), t)
}

// ClassifyFootprint is Classify for a precomputed footprint.
func ClassifyFootprint(f Footprint, t *terrain.Terrain) core.Outcome {
	if f.Escaped(t) {
		return core.Escaped
	}
	if _, hit := f.Hit(t); hit {
		return core.Collided
	}
	return core.InFlight
}
