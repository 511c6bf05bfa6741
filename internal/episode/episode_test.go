package episode

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/terrain"
)

const dt = 0.1

func TestEpisodeDeterminism(t *testing.T) {
	inputs := make([]core.ControlInput, 400)
	for i := range inputs {
		// Burn hard early, then coast with occasional corrections.
		switch {
		case i < 20:
			inputs[i] = core.ControlInput{Thrust: true}
		case i%7 == 0:
			inputs[i] = core.ControlInput{Thrust: true, Left: true}
		case i%11 == 0:
			inputs[i] = core.ControlInput{Right: true}
		}
	}

	run := func() (Snapshot, StepResult) {
		e, err := New(DefaultConfig(), 2024)
		require.NoError(t, err)
		var res StepResult
		for _, in := range inputs {
			res, err = e.Step(in, dt)
			require.NoError(t, err)
			if res.Done() {
				break
			}
		}
		return e.Snapshot(), res
	}

	snap1, res1 := run()
	snap2, res2 := run()
	assert.Equal(t, snap1, snap2)
	assert.Equal(t, res1, res2)
}

func TestFreeFallCrashes(t *testing.T) {
	e, err := New(DefaultConfig(), 5)
	require.NoError(t, err)
	assert.Equal(t, core.InFlight, e.Outcome())

	var res StepResult
	for i := 0; i < 500 && !res.Done(); i++ {
		res, err = e.Step(core.ControlInput{}, dt)
		require.NoError(t, err)
	}

	assert.Equal(t, core.Collided, res.Outcome)
	assert.Equal(t, core.Collided, res.Classification)
	assert.Equal(t, e.Steps(), res.Step)
	assert.True(t, e.Done())
}

func TestTerminalIsLatched(t *testing.T) {
	e, err := New(DefaultConfig(), 5)
	require.NoError(t, err)

	for !e.Done() {
		_, err = e.Step(core.ControlInput{}, dt)
		require.NoError(t, err)
	}
	final := e.Snapshot()
	last := e.Last()

	res, err := e.Step(core.ControlInput{Thrust: true}, dt)
	require.NoError(t, err)
	assert.Equal(t, last, res)
	assert.Equal(t, final, e.Snapshot())

	require.NoError(t, e.Reset())
	assert.False(t, e.Done())
	assert.Equal(t, 0, e.Steps())
	assert.Equal(t, e.Terrain().Start(), e.Vehicle().State().Pos)
	assert.Equal(t, 1.0, e.Vehicle().FuelFraction())
}

func TestStepInvalidDT(t *testing.T) {
	e, err := New(DefaultConfig(), 8)
	require.NoError(t, err)
	_, err = e.Step(core.ControlInput{Thrust: true}, dt)
	require.NoError(t, err)

	before := e.Snapshot()
	_, err = e.Step(core.ControlInput{Thrust: true}, -1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidInput))
	assert.Equal(t, before, e.Snapshot())
	assert.Equal(t, 1, e.Steps())
}

func TestLandingOnFlatPad(t *testing.T) {
	l := terrain.Flat(600, 450, 100, 300, 60)
	tr, err := terrain.New(l)
	require.NoError(t, err)

	e, err := NewWithTerrain(DefaultConfig(), tr)
	require.NoError(t, err)

	// Hover 2 units above the pad and drift down slowly.
	v := e.Vehicle()
	s := v.State()
	s.Pos = core.V(300, 450-15-100-2)
	s.Vel = core.V(0, -5)
	v.SetState(s)

	var res StepResult
	for i := 0; i < 50 && !res.Done(); i++ {
		res, err = e.Step(core.ControlInput{}, 0.01)
		require.NoError(t, err)
	}

	// Either the bottom lands within tolerance or it touches down a hair late.
	require.True(t, res.Done())
	if res.Outcome == core.Landed {
		assert.True(t, res.Criteria.All())
	} else {
		assert.Equal(t, core.Collided, res.Outcome)
		assert.True(t, res.PadContact)
	}
	assert.False(t, res.Flipped)
}

func TestNewLevel(t *testing.T) {
	e, err := New(DefaultConfig(), 1)
	require.NoError(t, err)
	first := e.Terrain().Heights()

	require.NoError(t, e.NewLevel(2))
	assert.Equal(t, int64(2), e.Terrain().Seed())
	assert.NotEqual(t, first, e.Terrain().Heights())
	assert.Equal(t, e.Terrain().Start(), e.Vehicle().State().Pos)
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Terrain.Width = 0
	_, err := New(cfg, 1)
	assert.True(t, errors.Is(err, core.ErrConfig))

	cfg = DefaultConfig()
	cfg.Landing.Velocity = 0
	_, err = New(cfg, 1)
	assert.True(t, errors.Is(err, core.ErrConfig))
}

func TestObservation(t *testing.T) {
	e, err := New(DefaultConfig(), 31)
	require.NoError(t, err)

	obs := e.Observation()
	require.Len(t, obs, ObservationSize)

	tr := e.Terrain()
	s := e.Vehicle().State()
	assert.InDelta(t, s.Pos.X/600, obs[0], 1e-12)
	assert.InDelta(t, s.Pos.Y/450, obs[1], 1e-12)
	assert.InDelta(t, 1, obs[4], 1e-12) // sin 90
	assert.InDelta(t, 0, obs[5], 1e-12) // cos 90
	assert.Equal(t, 1.0, obs[7])
	assert.InDelta(t, (tr.PadCenter().X-s.Pos.X)/600, obs[8], 1e-12)

	window := tr.Window(int(s.Pos.X), TerrainWindow)
	for i, h := range window {
		assert.InDelta(t, h/450, obs[10+i], 1e-12)
	}

	snap := e.Snapshot()
	assert.Equal(t, tr.Seed(), snap.Seed)
	assert.True(t, snap.Status.Upright)
	assert.Equal(t, "in_flight", snap.Outcome)
	assert.InDelta(t, obs[9]*450, snap.PadDY, 1e-9)
}

func TestSharedTerrain(t *testing.T) {
	tr, err := terrain.Generate(99, terrain.DefaultParams())
	require.NoError(t, err)
	heights := tr.Heights()

	a, err := NewWithTerrain(DefaultConfig(), tr)
	require.NoError(t, err)
	b, err := NewWithTerrain(DefaultConfig(), tr)
	require.NoError(t, err)

	for i := 0; i < 30; i++ {
		_, err = a.Step(core.ControlInput{Thrust: true}, dt)
		require.NoError(t, err)
	}
	assert.Equal(t, tr.Start(), b.Vehicle().State().Pos)
	assert.Equal(t, heights, tr.Heights())
}
