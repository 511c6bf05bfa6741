// Package landing evaluates the five landing-safety predicates and combines
// them with the collision classification into an episode outcome.
package landing

import (
	"math"

	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/terrain"
	"github.com/vovakirdan/tui-lander/internal/vehicle"
)

// Limits are the safety thresholds of a landing.
type Limits struct {
	Velocity float64 // Max |vx| and |vy|
	MinAngle float64 // Exclusive lower bound on the angle (degrees)
	MaxAngle float64 // Exclusive upper bound on the angle (degrees)
	Height   float64 // Max distance between the footprint bottom and the pad surface
	MaxTilt  float64 // Deviation from upright beyond which shaping penalties saturate
}

// DefaultLimits returns the standard landing thresholds.
func DefaultLimits() Limits {
	return Limits{
		Velocity: 12.5,
		MinAngle: 87,
		MaxAngle: 93,
		Height:   0.5,
		MaxTilt:  45,
	}
}

// Validate checks that the limits describe a non-empty window.
func (l Limits) Validate() error {
	switch {
	case l.Velocity <= 0:
		return core.ConfigErrorf("landing_velocity", "must be positive, got %g", l.Velocity)
	case l.MinAngle >= l.MaxAngle:
		return core.ConfigErrorf("landing_angle", "min %g must be below max %g", l.MinAngle, l.MaxAngle)
	case l.Height <= 0:
		return core.ConfigErrorf("landing_height", "must be positive, got %g", l.Height)
	case l.MaxTilt <= 0:
		return core.ConfigErrorf("landing_max_tilt", "must be positive, got %g", l.MaxTilt)
	}
	return nil
}

// SafeMargin is the allowed deviation from upright implied by the angle window.
func (l Limits) SafeMargin() float64 {
	return math.Abs(l.MaxAngle - 90)
}

// Criteria holds the five independent landing predicates.
type Criteria struct {
	HorizontalVelocity bool `json:"horizontal_velocity"`
	VerticalVelocity   bool `json:"vertical_velocity"`
	Angle              bool `json:"angle"`
	HorizontalPosition bool `json:"horizontal_position"`
	VerticalPosition   bool `json:"vertical_position"`
}

// All reports whether every predicate holds.
func (c Criteria) All() bool {
	return c.HorizontalVelocity && c.VerticalVelocity && c.Angle &&
		c.HorizontalPosition && c.VerticalPosition
}

// Count returns how many predicates hold.
func (c Criteria) Count() int {
	n := 0
	for _, ok := range []bool{c.HorizontalVelocity, c.VerticalVelocity, c.Angle, c.HorizontalPosition, c.VerticalPosition} {
		if ok {
			n++
		}
	}
	return n
}

// Evaluate computes the landing predicates for the current vehicle state.
// It does not look at collisions and is meaningful on every step.
func Evaluate(v *vehicle.Vehicle, t *terrain.Terrain, l Limits) Criteria {
	return EvaluateState(v.Params(), v.State(), t, l)
}

// EvaluateState is Evaluate for a bare state.
func EvaluateState(p vehicle.Params, s vehicle.State, t *terrain.Terrain, l Limits) Criteria {
	return Criteria{
		HorizontalVelocity: math.Abs(s.Vel.X) < l.Velocity,
		VerticalVelocity:   math.Abs(s.Vel.Y) < l.Velocity,
		Angle:              l.MinAngle < s.Angle && s.Angle < l.MaxAngle,
		HorizontalPosition: OverPad(p, s, t),
		VerticalPosition:   math.Abs(Clearance(p, s, t)) < l.Height,
	}
}

// OverPad reports whether the footprint's horizontal extent at the current
// angle lies strictly inside the pad.
func OverPad(p vehicle.Params, s vehicle.State, t *terrain.Terrain) bool {
	half := p.HalfWidthAt(s.Angle)
	return s.Pos.X-half > t.PadLeft() && s.Pos.X+half < t.PadRight()
}

// Clearance is the signed distance from the footprint bottom to the pad surface.
func Clearance(p vehicle.Params, s vehicle.State, t *terrain.Terrain) float64 {
	return float64(t.Height()) - s.Pos.Y - p.CollisionHeight/2 - t.PadCenter().Y
}

// Resolve combines a collision classification with the landing predicates.
// Escape and collision take precedence; a landing needs all five predicates.
func Resolve(classification core.Outcome, c Criteria) core.Outcome {
	switch classification {
	case core.Escaped, core.Collided:
		return classification
	}
	if c.All() {
		return core.Landed
	}
	return core.InFlight
}

// DeviationFromUpright returns how far angle is from pointing straight up,
// in [0, 180].
func DeviationFromUpright(angle float64) float64 {
	d := math.Abs(vehicle.NormalizeAngle(angle) - 90)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// Flipped reports whether the vehicle has turned more than a right angle
// away from upright.
func Flipped(angle float64) bool {
	return DeviationFromUpright(angle) > 90
}

// PadContact reports a collision that happened with the footprint over the pad.
// Such a touchdown counts as a success during evaluation.
func PadContact(classification core.Outcome, p vehicle.Params, s vehicle.State, t *terrain.Terrain) bool {
	return classification == core.Collided && OverPad(p, s, t)
}
