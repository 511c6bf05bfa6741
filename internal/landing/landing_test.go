package landing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-lander/internal/collision"
	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/terrain"
	"github.com/vovakirdan/tui-lander/internal/vehicle"
)

// padLevel is a 600x450 level with rough terrain and a 60-wide pad at (300, 100).
func padLevel(t *testing.T) *terrain.Terrain {
	t.Helper()
	l := terrain.Flat(600, 450, 100, 300, 60)
	for i := range l.Heights {
		if i < 270 || i >= 330 {
			l.Heights[i] = float64(40 + i%30)
		}
	}
	tr, err := terrain.New(l)
	require.NoError(t, err)
	return tr
}

// restingAt returns a vehicle whose footprint bottom sits gap units above the pad.
func restingAt(t *testing.T, tr *terrain.Terrain, x, gap float64) *vehicle.Vehicle {
	t.Helper()
	p := vehicle.DefaultParams()
	y := float64(tr.Height()) - p.CollisionHeight/2 - tr.PadCenter().Y - gap
	v, err := vehicle.New(p, core.V(x, y))
	require.NoError(t, err)
	s := v.State()
	s.Vel = core.V(0, -1)
	v.SetState(s)
	return v
}

func TestEvaluateAllCriteria(t *testing.T) {
	tr := padLevel(t)
	v := restingAt(t, tr, tr.PadCenter().X, 0)

	c := Evaluate(v, tr, DefaultLimits())
	assert.True(t, c.HorizontalVelocity)
	assert.True(t, c.VerticalVelocity)
	assert.True(t, c.Angle)
	assert.True(t, c.HorizontalPosition)
	assert.True(t, c.VerticalPosition)
	assert.True(t, c.All())
	assert.Equal(t, 5, c.Count())
}

func TestEvaluateIndividualCriteria(t *testing.T) {
	tr := padLevel(t)
	limits := DefaultLimits()

	tests := []struct {
		name   string
		mutate func(*vehicle.State)
		check  func(Criteria) bool
	}{
		{"fast sideways", func(s *vehicle.State) { s.Vel.X = 12.5 }, func(c Criteria) bool { return c.HorizontalVelocity }},
		{"fast descent", func(s *vehicle.State) { s.Vel.Y = -13 }, func(c Criteria) bool { return c.VerticalVelocity }},
		{"tilted left", func(s *vehicle.State) { s.Angle = 93 }, func(c Criteria) bool { return c.Angle }},
		{"tilted right", func(s *vehicle.State) { s.Angle = 86.9 }, func(c Criteria) bool { return c.Angle }},
		{"full turn is not upright", func(s *vehicle.State) { s.Angle = 450 }, func(c Criteria) bool { return c.Angle }},
		{"left of pad", func(s *vehicle.State) { s.Pos.X = 270 }, func(c Criteria) bool { return c.HorizontalPosition }},
		{"touching pad edge", func(s *vehicle.State) { s.Pos.X = 320 }, func(c Criteria) bool { return c.HorizontalPosition }},
		{"tilted corner past pad edge", func(s *vehicle.State) { s.Pos.X, s.Angle = 319.5, 92.9 }, func(c Criteria) bool { return c.HorizontalPosition }},
		{"hovering", func(s *vehicle.State) { s.Pos.Y -= 0.5 }, func(c Criteria) bool { return c.VerticalPosition }},
		{"sunk", func(s *vehicle.State) { s.Pos.Y += 0.6 }, func(c Criteria) bool { return c.VerticalPosition }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := restingAt(t, tr, 300, 0)
			s := v.State()
			tc.mutate(&s)
			v.SetState(s)

			c := Evaluate(v, tr, limits)
			assert.False(t, tc.check(c))
			assert.Equal(t, 4, c.Count())
			assert.False(t, c.All())
		})
	}
}

func TestOverPadUsesRotatedExtent(t *testing.T) {
	tr := padLevel(t)
	p := vehicle.DefaultParams()

	upright := vehicle.State{Pos: core.V(319.5, 300), Angle: 90}
	assert.True(t, OverPad(p, upright, tr))

	// The hull corner swings 0.75 units further out at 92.9 degrees.
	tilted := upright
	tilted.Angle = 92.9
	assert.False(t, OverPad(p, tilted, tr))

	tilted.Pos.X = 318
	assert.True(t, OverPad(p, tilted, tr))

	// Mirrored at the left edge.
	left := vehicle.State{Pos: core.V(280.5, 300), Angle: 87.1}
	assert.False(t, OverPad(p, left, tr))
}

func TestResolvePrecedence(t *testing.T) {
	all := Criteria{true, true, true, true, true}
	some := Criteria{HorizontalVelocity: true, Angle: true}

	tests := []struct {
		name           string
		classification core.Outcome
		criteria       Criteria
		want           core.Outcome
	}{
		{"landed", core.InFlight, all, core.Landed},
		{"flying", core.InFlight, some, core.InFlight},
		{"collision beats landing", core.Collided, all, core.Collided},
		{"escape beats landing", core.Escaped, all, core.Escaped},
		{"crash", core.Collided, some, core.Collided},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Resolve(tc.classification, tc.criteria))
		})
	}
}

func TestLandingWithClassifier(t *testing.T) {
	tr := padLevel(t)

	// Just above the pad: no terrain contact and all five criteria hold.
	v := restingAt(t, tr, 300, 0.25)
	cls := collision.Classify(v, tr)
	require.Equal(t, core.InFlight, cls)
	assert.Equal(t, core.Landed, Resolve(cls, Evaluate(v, tr, DefaultLimits())))

	// Exactly on the surface the footprint touches the pad and the crash wins.
	v = restingAt(t, tr, 300, 0)
	cls = collision.Classify(v, tr)
	require.Equal(t, core.Collided, cls)
	assert.Equal(t, core.Collided, Resolve(cls, Evaluate(v, tr, DefaultLimits())))
	assert.True(t, PadContact(cls, v.Params(), v.State(), tr))

	// A crash beside the pad is not pad contact.
	v = restingAt(t, tr, 100, -80)
	cls = collision.Classify(v, tr)
	require.Equal(t, core.Collided, cls)
	assert.False(t, PadContact(cls, v.Params(), v.State(), tr))
}

func TestDeviationFromUpright(t *testing.T) {
	tests := []struct {
		angle   float64
		want    float64
		flipped bool
	}{
		{90, 0, false},
		{0, 90, false},
		{180, 90, false},
		{270, 180, true},
		{-90, 180, true},
		{450, 0, false},
		{-271, 1, false},
		{181, 91, true},
		{-1, 91, true},
	}
	for _, tc := range tests {
		assert.InDelta(t, tc.want, DeviationFromUpright(tc.angle), 1e-9, "angle %g", tc.angle)
		assert.Equal(t, tc.flipped, Flipped(tc.angle), "angle %g", tc.angle)
	}
}

func TestLimitsValidate(t *testing.T) {
	require.NoError(t, DefaultLimits().Validate())
	assert.Equal(t, 3.0, DefaultLimits().SafeMargin())

	l := DefaultLimits()
	l.MinAngle = 95
	assert.True(t, errors.Is(l.Validate(), core.ErrConfig))

	l = DefaultLimits()
	l.Height = 0
	assert.True(t, errors.Is(l.Validate(), core.ErrConfig))
}
