package vehicle

import (
	"math"

	"github.com/vovakirdan/tui-lander/internal/core"
)

// dampingDeadzone is the angular speed below which no damping torque is applied.
const dampingDeadzone = 1e-6

// State is the mutable physical state of a vehicle.
// Angle is in degrees and accumulates without wrapping.
type State struct {
	Pos   core.Vec2 // Level coordinates, Y grows downward
	Vel   core.Vec2 // Positive Vel.Y means rising
	Angle float64   // Degrees, 90 = upright
	Omega float64   // Degrees per second, positive turns left
	Fuel  float64   // Remaining fuel (kg), never negative
}

// Forces records what the integrator applied during the last step.
type Forces struct {
	Mass      float64
	Inertia   float64
	Net       core.Vec2 // Net force, Y up
	Torque    float64
	Accel     core.Vec2
	Alpha     float64
	Thrusting bool // Main engine produced force
	TorqueDir int  // +1 left, -1 right, 0 when no attitude torque was applied
	Damping   bool // Damping torque was applied
}

// Mass returns the total mass for state s.
func (p Params) Mass(s State) float64 {
	return p.MassEmpty + s.Fuel
}

// Inertia treats the hull as a solid cylinder about the yaw axis.
func (p Params) Inertia(mass float64) float64 {
	r := p.GeomHeight * 0.5
	return mass*r*r/4 + mass*p.GeomWidth*p.GeomWidth/12
}

// Integrate advances s by dt seconds under input in and returns the new state.
// s is not modified. dt must be positive and finite.
func Integrate(p Params, s State, in core.ControlInput, dt float64) (State, Forces, error) {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return s, Forces{}, core.InvalidInputf("dt", "must be a positive finite duration, got %g", dt)
	}

	var f Forces

	// Fuel burn
	if in.Thrust {
		s.Fuel -= p.BurnRateThrust * dt
	}
	if in.AnyTorque() {
		s.Fuel -= p.BurnRateTorque * dt
	}
	s.Fuel = math.Max(s.Fuel, 0)
	f.Mass = p.Mass(s)

	f.Inertia = p.Inertia(f.Mass)

	// Forces
	gravity := f.Mass * p.Gravity
	var thrust core.Vec2
	if in.Thrust && s.Fuel > 0 {
		sin, cos := math.Sincos(core.Radians(s.Angle))
		thrust = core.V(p.Thrust*cos, p.Thrust*sin)
		f.Thrusting = true
	}
	f.Net = core.V(thrust.X, thrust.Y-gravity)

	// Torque
	switch dir := in.Torque(); {
	case dir != 0 && s.Fuel > 0:
		f.Torque = float64(dir) * p.Torque
		f.TorqueDir = dir
	case math.Abs(s.Omega) > dampingDeadzone:
		f.Torque = -core.Sign(s.Omega) * p.TorqueDamping
		f.Damping = true
	}

	f.Accel = f.Net.Scale(1 / f.Mass)
	f.Alpha = f.Torque / f.Inertia

	s.Vel = s.Vel.Add(f.Accel.Scale(dt))
	s.Omega += f.Alpha * dt

	s.Pos.X += s.Vel.X * dt
	s.Pos.Y -= s.Vel.Y * dt
	s.Angle += s.Omega * dt

	return s, f, nil
}
