package episode

import (
	"math"

	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/vehicle"
)

// Normalization constants for the observation vector.
const (
	TerrainWindow = 60  // Columns on each side of the vehicle
	MaxVelocity   = 300 // Velocity scale
	MaxOmega      = 500 // Angular velocity scale (deg/s)
)

// ObservationSize is the length of the vector returned by Observation.
const ObservationSize = 10 + 2*TerrainWindow

// Snapshot is the pose and status a renderer or diagnostics view consumes.
type Snapshot struct {
	Seed         int64
	Step         int
	X, Y         float64
	VX, VY       float64
	Angle        float64
	Omega        float64
	FuelFraction float64
	Status       vehicle.Status
	Outcome      string
	PadDX        float64 // Pad center x minus vehicle x
	PadDY        float64 // Footprint bottom height above the pad surface
}

// Snapshot returns the current state in primitive form.
func (e *Episode) Snapshot() Snapshot {
	s := e.vehicle.State()
	dx, dy := e.padDelta()
	return Snapshot{
		Seed:         e.terrain.Seed(),
		Step:         e.steps,
		X:            s.Pos.X,
		Y:            s.Pos.Y,
		VX:           s.Vel.X,
		VY:           s.Vel.Y,
		Angle:        s.Angle,
		Omega:        s.Omega,
		FuelFraction: e.vehicle.FuelFraction(),
		Status:       e.vehicle.Status(),
		Outcome:      e.last.Outcome.String(),
		PadDX:        dx,
		PadDY:        dy,
	}
}

func (e *Episode) padDelta() (dx, dy float64) {
	s := e.vehicle.State()
	pad := e.terrain.PadCenter()
	h := float64(e.terrain.Height())
	dx = pad.X - s.Pos.X
	dy = h - s.Pos.Y - e.vehicle.Params().CollisionHeight/2 - pad.Y
	return dx, dy
}

// Observation returns the normalized state vector used by automated
// controllers: pose, velocities, attitude, fuel, pad offset and a terrain
// window around the vehicle.
func (e *Episode) Observation() []float64 {
	s := e.vehicle.State()
	w := float64(e.terrain.Width())
	h := float64(e.terrain.Height())
	sin, cos := math.Sincos(core.Radians(s.Angle))
	dx, dy := e.padDelta()

	obs := make([]float64, 0, ObservationSize)
	obs = append(obs,
		s.Pos.X/w,
		s.Pos.Y/h,
		s.Vel.X/MaxVelocity,
		s.Vel.Y/MaxVelocity,
		sin,
		cos,
		s.Omega/MaxOmega,
		e.vehicle.FuelFraction(),
		dx/w,
		dy/h,
	)
	for _, v := range e.terrain.Window(int(s.Pos.X), TerrainWindow) {
		obs = append(obs, v/h)
	}
	return obs
}
