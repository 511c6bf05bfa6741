package controller

import (
	"math"

	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/registry"
	"github.com/vovakirdan/tui-lander/internal/vehicle"
)

// AutopilotGains tune the heuristic lander.
type AutopilotGains struct {
	CruiseGain   float64 // Desired vx per unit of horizontal pad offset
	MaxCruise    float64 // Cap on desired |vx|
	TiltGain     float64 // Degrees of tilt per unit of vx error
	MaxTilt      float64 // Cap on commanded tilt (degrees)
	FinalTilt    float64 // Cap on commanded tilt close to the ground
	FinalHeight  float64 // Clearance below which FinalTilt applies
	AttitudeP    float64
	AttitudeD    float64
	Deadband     float64 // Attitude command below which no torque is used
	AlignRadius  float64 // |pad dx| under which the descent starts
	CruiseHeight float64 // Clearance held while traveling toward the pad
	DescentGain  float64 // Desired descent speed per unit of clearance
	MinDescent   float64
	MaxDescent   float64
	MaxBurnTilt  float64 // No thrust beyond this tilt
}

// DefaultAutopilotGains returns gains that land the default lander on most levels.
func DefaultAutopilotGains() AutopilotGains {
	return AutopilotGains{
		CruiseGain:   0.3,
		MaxCruise:    25,
		TiltGain:     1.5,
		MaxTilt:      25,
		FinalTilt:    2,
		FinalHeight:  25,
		AttitudeP:    0.8,
		AttitudeD:    0.4,
		Deadband:     1.5,
		AlignRadius:  12,
		CruiseHeight: 150,
		DescentGain:  0.12,
		MinDescent:   3,
		MaxDescent:   20,
		MaxBurnTilt:  60,
	}
}

// Autopilot is a PD heuristic: tilt toward the pad, hold altitude until
// aligned, then descend at a speed proportional to the remaining clearance.
type Autopilot struct {
	gains AutopilotGains
}

// NewAutopilot creates an autopilot with the default gains.
func NewAutopilot() *Autopilot {
	return &Autopilot{gains: DefaultAutopilotGains()}
}

// NewAutopilotWithGains creates an autopilot with custom gains.
func NewAutopilotWithGains(g AutopilotGains) *Autopilot {
	return &Autopilot{gains: g}
}

func (*Autopilot) ID() string    { return "autopilot" }
func (*Autopilot) Title() string { return "Autopilot (PD heuristic)" }
func (*Autopilot) Reset(int64)   {}

// Act chooses thrust and torque independently and merges them into one action.
func (a *Autopilot) Act(obs registry.Observation) core.Action {
	g := a.gains
	s := obs.Snapshot

	tilt := Tilt(s.Angle)
	clearance := s.PadDY
	aligned := math.Abs(s.PadDX) < g.AlignRadius

	// Horizontal: lean into the velocity error.
	desiredVX := core.ClampF(s.PadDX*g.CruiseGain, -g.MaxCruise, g.MaxCruise)
	maxTilt := g.MaxTilt
	if clearance < g.FinalHeight {
		maxTilt = g.FinalTilt
	}
	targetTilt := core.ClampF(-g.TiltGain*(desiredVX-s.VX), -maxTilt, maxTilt)

	cmd := g.AttitudeP*(targetTilt-tilt) - g.AttitudeD*s.Omega
	in := core.ControlInput{
		Left:  cmd > g.Deadband,
		Right: cmd < -g.Deadband,
	}

	// Vertical: hold altitude until aligned, then descend.
	var targetVY float64
	switch {
	case aligned:
		targetVY = -core.ClampF(clearance*g.DescentGain, g.MinDescent, g.MaxDescent)
	case clearance < g.CruiseHeight:
		targetVY = 0
	default:
		targetVY = -g.MinDescent
	}
	in.Thrust = s.VY < targetVY && math.Abs(tilt) < g.MaxBurnTilt

	return ActionFor(in)
}

// Tilt returns the signed deviation from upright in (-180, 180].
// Positive means the nose leans left.
func Tilt(angle float64) float64 {
	a := vehicle.NormalizeAngle(angle) - 90
	if a > 180 {
		a -= 360
	}
	return a
}

// ActionFor maps control flags back to the discrete action set.
// Conflicting torque flags are dropped.
func ActionFor(in core.ControlInput) core.Action {
	switch dir := in.Torque(); {
	case in.Thrust && dir > 0:
		return core.ActionThrustLeft
	case in.Thrust && dir < 0:
		return core.ActionThrustRight
	case in.Thrust:
		return core.ActionThrust
	case dir > 0:
		return core.ActionLeft
	case dir < 0:
		return core.ActionRight
	}
	return core.ActionNothing
}
