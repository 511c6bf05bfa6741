package reward

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/landing"
	"github.com/vovakirdan/tui-lander/internal/vehicle"
)

func newShaper() *Shaper {
	return NewShaper(DefaultConfig(), vehicle.DefaultParams(), landing.DefaultLimits(), 0.95)
}

func TestTerminal(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, 5000.0, c.Terminal(core.Landed))
	assert.Equal(t, -1500.0, c.Terminal(core.Escaped))
	assert.Equal(t, -1000.0, c.Terminal(core.Collided))
	assert.Equal(t, 0.0, c.Terminal(core.InFlight))
}

func TestStepBaseTerms(t *testing.T) {
	s := newShaper()
	far := Sample{Y: 0.5, DX: 0.6, DY: 0.8, Angle: 90}
	s.Reset(far)

	// Idle and stationary: only the time penalty.
	terms := s.Step(core.ControlInput{}, far, core.InFlight)
	assert.InDelta(t, -0.1, terms.Total(), 1e-12)

	// Thrust plus torque burns both fuel rates.
	terms = s.Step(core.ControlInput{Thrust: true, Left: true}, far, core.InFlight)
	assert.InDelta(t, -0.04, terms.Fuel, 1e-12)

	// Halving the distance to the pad (1.0 -> 0.5) earns 5 * 0.5.
	closer := Sample{Y: 0.5, DX: 0.3, DY: 0.4, Angle: 90}
	terms = s.Step(core.ControlInput{}, closer, core.InFlight)
	assert.InDelta(t, 2.5, terms.Proximity, 1e-12)

	// Moving away is penalized symmetrically.
	terms = s.Step(core.ControlInput{}, far, core.InFlight)
	assert.InDelta(t, -2.5, terms.Proximity, 1e-12)
}

func TestStepTopPenalty(t *testing.T) {
	s := newShaper()
	s.Reset(Sample{Y: 0.06, DX: 0.5, DY: 0.5, Angle: 90})

	terms := s.Step(core.ControlInput{}, Sample{Y: 0.06, DX: 0.5, DY: 0.5, Angle: 90}, core.InFlight)
	assert.Equal(t, 0.0, terms.Top)

	terms = s.Step(core.ControlInput{}, Sample{Y: 0.025, DX: 0.5, DY: 0.5, Angle: 90}, core.InFlight)
	assert.Less(t, terms.Top, 0.0)

	worst := s.Step(core.ControlInput{}, Sample{Y: -1, DX: 0.5, DY: 0.5, Angle: 90}, core.InFlight)
	assert.Less(t, worst.Top, terms.Top)
}

func TestStepNearPad(t *testing.T) {
	s := newShaper()
	fast := Sample{Y: 0.7, DX: 0.01, DY: 0.05, VY: -40, Angle: 100}
	slow := Sample{Y: 0.7, DX: 0.01, DY: 0.05, VY: -10, Angle: 92}

	s.Reset(fast)
	braking := s.Step(core.ControlInput{Thrust: true}, slow, core.InFlight)
	assert.Greater(t, braking.NearPad, 0.0)

	s.Reset(slow)
	accelerating := s.Step(core.ControlInput{}, fast, core.InFlight)
	assert.Less(t, accelerating.NearPad, 0.0)

	// Far from the pad the near-pad terms are off.
	s.Reset(Sample{DX: 0.5, DY: 0.5, VY: -40})
	off := s.Step(core.ControlInput{}, Sample{DX: 0.5, DY: 0.5, VY: -10}, core.InFlight)
	assert.Equal(t, 0.0, off.NearPad)
}

func TestTermsAccumulate(t *testing.T) {
	var total Terms
	total.Add(Terms{Time: -0.1, Terminal: 5000})
	total.Add(Terms{Time: -0.1, Proximity: 1})
	assert.InDelta(t, 5000.8, total.Total(), 1e-9)
}
