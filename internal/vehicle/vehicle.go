package vehicle

import (
	"math"

	"github.com/vovakirdan/tui-lander/internal/core"
)

// SpawnAngle is the orientation of a freshly spawned vehicle (nose up).
const SpawnAngle = 90.0

// Angles treated as "vertical" when choosing a sprite.
const (
	UprightMinAngle = 89.0
	UprightMaxAngle = 91.0
)

// Vehicle couples immutable Params with the current State.
// A Vehicle must not be stepped from more than one goroutine at a time.
type Vehicle struct {
	params   Params
	boundary []core.Vec2
	state    State
	last     Forces
}

// New creates a vehicle at rest at pos, pointing up with a full tank.
func New(p Params, pos core.Vec2) (*Vehicle, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	v := &Vehicle{
		params:   p,
		boundary: p.BoundaryPoints(),
		state: State{
			Pos:   pos,
			Angle: SpawnAngle,
			Fuel:  p.FuelMass,
		},
	}
	v.last = Forces{Mass: p.Mass(v.state), Inertia: p.Inertia(p.Mass(v.state))}
	return v, nil
}

// Step integrates one step in place. On error the vehicle is unchanged.
func (v *Vehicle) Step(in core.ControlInput, dt float64) error {
	next, f, err := Integrate(v.params, v.state, in, dt)
	if err != nil {
		return err
	}
	v.state = next
	v.last = f
	return nil
}

// Params returns the vehicle constants.
func (v *Vehicle) Params() Params { return v.params }

// State returns a copy of the current state.
func (v *Vehicle) State() State { return v.state }

// SetState replaces the state; fuel is clamped to be non-negative.
func (v *Vehicle) SetState(s State) {
	s.Fuel = math.Max(s.Fuel, 0)
	v.state = s
}

// Last returns the forces applied by the most recent step.
func (v *Vehicle) Last() Forces { return v.last }

// Mass returns the current total mass.
func (v *Vehicle) Mass() float64 { return v.params.Mass(v.state) }

// FuelFraction returns remaining fuel relative to the spawn load, in [0, 1].
func (v *Vehicle) FuelFraction() float64 {
	if v.params.FuelMass <= 0 {
		return 0
	}
	return core.ClampF(v.state.Fuel/v.params.FuelMass, 0, 1)
}

// Boundary returns a copy of the body-frame boundary points.
func (v *Vehicle) Boundary() []core.Vec2 {
	out := make([]core.Vec2, len(v.boundary))
	copy(out, v.boundary)
	return out
}

// WorldBoundary rotates the boundary points by the current angle and
// translates them to the current position.
func (v *Vehicle) WorldBoundary() []core.Vec2 {
	out := make([]core.Vec2, len(v.boundary))
	for i, p := range v.boundary {
		out[i] = p.Rotate(v.state.Angle).Add(v.state.Pos)
	}
	return out
}

// Status is the small enumerated summary a renderer needs to pick a sprite.
type Status struct {
	Thrusting bool
	TorqueDir int // +1 left, -1 right, 0 none
	Upright   bool
}

// Status reports what the last step did and whether the hull is vertical.
func (v *Vehicle) Status() Status {
	a := NormalizeAngle(v.state.Angle)
	return Status{
		Thrusting: v.last.Thrusting,
		TorqueDir: v.last.TorqueDir,
		Upright:   a >= UprightMinAngle && a <= UprightMaxAngle,
	}
}

// NormalizeAngle maps an accumulated angle into [0, 360).
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	return a
}
