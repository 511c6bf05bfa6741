// Package vehicle implements the lander's rigid-body state and its
// semi-implicit Euler integrator.
//
// The body frame has +X along the nose and +Y across the hull. At angle 0 the
// nose points right; the spawn angle of 90 degrees points it straight up.
package vehicle

import (
	"math"

	"github.com/vovakirdan/tui-lander/internal/core"
)

// Params holds the physical constants of a vehicle. They never change during
// an episode.
type Params struct {
	MassEmpty      float64 // Dry mass (kg)
	FuelMass       float64 // Fuel on spawn (kg)
	Thrust         float64 // Main engine force (N)
	Torque         float64 // Attitude torque magnitude (N·m)
	TorqueDamping  float64 // Passive damping torque magnitude (N·m)
	BurnRateThrust float64 // Fuel burned per second of thrust (kg/s)
	BurnRateTorque float64 // Fuel burned per second of attitude control (kg/s)
	Gravity        float64 // Downward acceleration (m/s²)

	// Geometry used for the moment of inertia.
	GeomWidth  float64
	GeomHeight float64

	// Sprite size, for the rendering collaborator.
	RenderWidth  float64
	RenderHeight float64

	// Collision footprint measured with the vehicle upright:
	// CollisionWidth is the horizontal extent, CollisionHeight the vertical one.
	CollisionWidth  float64
	CollisionHeight float64
}

// DefaultParams returns the standard lander.
func DefaultParams() Params {
	return Params{
		MassEmpty:       1.0,
		FuelMass:        0.5,
		Thrust:          50,
		Torque:          40,
		TorqueDamping:   25,
		BurnRateThrust:  0.03,
		BurnRateTorque:  0.01,
		Gravity:         9.81,
		GeomWidth:       3,
		GeomHeight:      2,
		RenderWidth:     30,
		RenderHeight:    20,
		CollisionWidth:  20,
		CollisionHeight: 30,
	}
}

// Validate returns a config error for the first invalid constant.
func (p Params) Validate() error {
	checks := []struct {
		field string
		value float64
		ok    bool
	}{
		{"mass_empty", p.MassEmpty, p.MassEmpty > 0},
		{"fuel_mass", p.FuelMass, p.FuelMass >= 0},
		{"thrust", p.Thrust, p.Thrust >= 0},
		{"torque", p.Torque, p.Torque >= 0},
		{"torque_damping", p.TorqueDamping, p.TorqueDamping >= 0},
		{"burn_rate_thrust", p.BurnRateThrust, p.BurnRateThrust >= 0},
		{"burn_rate_torque", p.BurnRateTorque, p.BurnRateTorque >= 0},
		{"gravity", p.Gravity, !math.IsNaN(p.Gravity) && !math.IsInf(p.Gravity, 0)},
		{"geom_width", p.GeomWidth, p.GeomWidth > 0},
		{"geom_height", p.GeomHeight, p.GeomHeight > 0},
		{"render_width", p.RenderWidth, p.RenderWidth > 0},
		{"render_height", p.RenderHeight, p.RenderHeight > 0},
		{"collision_width", p.CollisionWidth, p.CollisionWidth > 0},
		{"collision_height", p.CollisionHeight, p.CollisionHeight > 0},
	}
	for _, c := range checks {
		if !c.ok {
			return core.ConfigErrorf(c.field, "invalid value %g", c.value)
		}
	}
	return nil
}

// HalfWidthAt returns half the horizontal extent of the collision footprint
// when the vehicle points at angle degrees.
func (p Params) HalfWidthAt(angle float64) float64 {
	sin, cos := math.Sincos(core.Radians(angle))
	return (math.Abs(cos)*p.CollisionHeight + math.Abs(sin)*p.CollisionWidth) / 2
}

// BoundaryPoints samples the perimeter of the collision footprint at unit
// spacing in the body frame. Corners appear once.
func (p Params) BoundaryPoints() []core.Vec2 {
	// The nose axis (+X) spans the upright vertical extent.
	x0, x1 := math.Ceil(-p.CollisionHeight/2), math.Floor(p.CollisionHeight/2)
	y0, y1 := math.Ceil(-p.CollisionWidth/2), math.Floor(p.CollisionWidth/2)

	var pts []core.Vec2
	for x := x0; x <= x1; x++ {
		pts = append(pts, core.V(x, y0))
		if y1 != y0 {
			pts = append(pts, core.V(x, y1))
		}
	}
	for y := y0 + 1; y < y1; y++ {
		pts = append(pts, core.V(x0, y))
		if x1 != x0 {
			pts = append(pts, core.V(x1, y))
		}
	}
	return pts
}
