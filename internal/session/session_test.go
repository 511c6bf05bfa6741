package session

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-lander/internal/config"
	_ "github.com/vovakirdan/tui-lander/internal/controller"
	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/registry"
)

type memorySink struct {
	mu    sync.Mutex
	infos []EpisodeInfo
	err   error
}

func (m *memorySink) Record(_ context.Context, info EpisodeInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.infos = append(m.infos, info)
	return nil
}

func newController(t *testing.T, id string) registry.Controller {
	t.Helper()
	c, err := registry.Create(id)
	require.NoError(t, err)
	return c
}

func TestPlanSeedFor(t *testing.T) {
	assert.Equal(t, int64(0), Plan{}.SeedFor(3))
	assert.Equal(t, int64(13), Plan{Seed: 10}.SeedFor(3))
	pool := Plan{Seed: 10, Pool: []int64{7, 8}}
	assert.Equal(t, int64(7), pool.SeedFor(0))
	assert.Equal(t, int64(8), pool.SeedFor(1))
	assert.Equal(t, int64(7), pool.SeedFor(2))
}

func TestRollingWindow(t *testing.T) {
	r := NewRolling(3)
	assert.Equal(t, RollingStats{}, r.Stats())

	add := func(o core.Outcome, total float64) {
		var info EpisodeInfo
		info.Outcome = o
		info.Steps = 10
		info.Actions[core.ActionNothing] = 5
		info.Reward.Terminal = total
		r.Add(info)
	}
	add(core.Landed, 100)
	add(core.Collided, -100)
	add(core.Escaped, -200)

	s := r.Stats()
	assert.Equal(t, 3, s.Episodes)
	assert.InDelta(t, 1.0/3, s.LandingRate, 1e-12)
	assert.InDelta(t, 1.0/3, s.EscapeRate, 1e-12)
	assert.InDelta(t, -200.0/3, s.MeanReward, 1e-9)
	assert.InDelta(t, 0.5, s.NothingShare, 1e-12)

	// The landed episode falls out of the window.
	add(core.Collided, -100)
	s = r.Stats()
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 0.0, s.LandingRate)
	assert.InDelta(t, 2.0/3, s.CollisionRate, 1e-12)
}

func TestRangeAndSuccess(t *testing.T) {
	var r Range
	assert.Equal(t, 0.0, r.Mean())
	for _, v := range []float64{3, -1, 4} {
		r.Add(v)
	}
	assert.Equal(t, -1.0, r.Min)
	assert.Equal(t, 4.0, r.Max)
	assert.Equal(t, 4.0, r.Final)
	assert.InDelta(t, 2, r.Mean(), 1e-12)
	assert.Equal(t, 3, r.Count())

	var info EpisodeInfo
	info.Outcome = core.Collided
	assert.False(t, info.Success())
	info.PadContact = true
	assert.True(t, info.Success())
	info = EpisodeInfo{}
	info.Outcome = core.Landed
	assert.True(t, info.Success())
}

func TestRunnerIdleSession(t *testing.T) {
	sink := &memorySink{}
	var callbacks int
	r, err := NewRunner(config.DefaultLanderConfig(), newController(t, "idle"), Options{
		Sink:      sink,
		OnEpisode: func(EpisodeInfo, RollingStats) { callbacks++ },
	})
	require.NoError(t, err)

	sum, err := r.Run(context.Background(), Plan{Episodes: 4, Seed: 100})
	require.NoError(t, err)
	require.Len(t, sum.Episodes, 4)
	assert.Equal(t, 4, callbacks)
	assert.Len(t, sink.infos, 4)

	for i, info := range sum.Episodes {
		assert.Equal(t, i+1, info.Number)
		assert.Equal(t, int64(100+i), info.Seed)
		assert.Equal(t, "idle", info.Controller)
		assert.Equal(t, core.Collided, info.Outcome, "free fall always ends on the ground")
		assert.False(t, info.Truncated)
		assert.Equal(t, info.Steps, info.Actions[core.ActionNothing])
		assert.Equal(t, info.Steps, info.VY.Count())
		assert.Equal(t, 1.0, info.FuelLeft)
		assert.Equal(t, -1000.0, info.Reward.Terminal)
		assert.Less(t, info.VY.Min, -12.5)
	}
	assert.Equal(t, 1.0, sum.Rolling.CollisionRate)
	assert.Equal(t, 4, sum.Rolling.Episodes)
}

func TestRunnerDeterministic(t *testing.T) {
	run := func() []EpisodeInfo {
		r, err := NewRunner(config.DefaultLanderConfig(), newController(t, "random"), Options{})
		require.NoError(t, err)
		sum, err := r.Run(context.Background(), Plan{Episodes: 3, Pool: []int64{5, 6}})
		require.NoError(t, err)
		return sum.Episodes
	}

	a, b := run(), run()
	require.Len(t, a, 3)
	for i := range a {
		assert.Equal(t, a[i].Seed, b[i].Seed)
		assert.Equal(t, a[i].Outcome, b[i].Outcome)
		assert.Equal(t, a[i].Steps, b[i].Steps)
		assert.Equal(t, a[i].Actions, b[i].Actions)
		assert.Equal(t, a[i].Reward, b[i].Reward)
		assert.Equal(t, a[i].VY, b[i].VY)
	}
	assert.Equal(t, int64(5), a[2].Seed)
}

func TestRunnerStepLimit(t *testing.T) {
	cfg := config.DefaultLanderConfig()
	cfg.Simulation.MaxSteps = 5
	r, err := NewRunner(cfg, newController(t, "idle"), Options{})
	require.NoError(t, err)

	info, err := r.RunEpisode(context.Background(), 9)
	require.NoError(t, err)
	assert.True(t, info.Truncated)
	assert.Equal(t, core.InFlight, info.Outcome)
	assert.Equal(t, 5, info.Steps)
}

func TestRunnerTerminalAtSpawn(t *testing.T) {
	cfg := config.DefaultLanderConfig()
	cfg.Level.StartHeightFactor = 0
	r, err := NewRunner(cfg, newController(t, "idle"), Options{})
	require.NoError(t, err)

	info, err := r.RunEpisode(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, core.Collided, info.Outcome)
	assert.Equal(t, 0, info.Steps)
	assert.Equal(t, 0, info.VY.Count())
	assert.Equal(t, 0.0, info.VY.Min)
	assert.Equal(t, 0.0, info.VY.Max)

	stats := r.Rolling()
	assert.False(t, math.IsInf(stats.MeanVYMax, 0))
	assert.Equal(t, 0.0, stats.MeanVYMax)
}

func TestRunnerCancelled(t *testing.T) {
	r, err := NewRunner(config.DefaultLanderConfig(), newController(t, "idle"), Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx, Plan{Episodes: 2, Seed: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunnerSinkError(t *testing.T) {
	boom := errors.New("disk full")
	r, err := NewRunner(config.DefaultLanderConfig(), newController(t, "idle"), Options{Sink: &memorySink{err: boom}})
	require.NoError(t, err)

	_, err = r.RunEpisode(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
}

func TestRunnerCurriculum(t *testing.T) {
	cfg := config.DefaultLanderConfig()
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = 0
	cfg.Difficulty.Progression.MaxAt = 4

	r, err := NewRunner(cfg, newController(t, "idle"), Options{})
	require.NoError(t, err)
	sum, err := r.Run(context.Background(), Plan{Episodes: 6, Seed: 3})
	require.NoError(t, err)

	levels := make([]float64, len(sum.Episodes))
	for i, info := range sum.Episodes {
		levels[i] = info.StartLevel
	}
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1, 1}, levels)
}

func TestNewRunnerRejectsBadInput(t *testing.T) {
	cfg := config.DefaultLanderConfig()
	cfg.Simulation.TickRate = 0
	_, err := NewRunner(cfg, newController(t, "idle"), Options{})
	assert.True(t, errors.Is(err, core.ErrConfig))

	_, err = NewRunner(config.DefaultLanderConfig(), nil, Options{})
	assert.True(t, errors.Is(err, core.ErrConfig))
}

func TestEvaluate(t *testing.T) {
	var mu sync.Mutex
	var seen []int
	req := EvalRequest{
		Controller: "idle",
		Seeds:      []int64{1, 2, 3},
		Repeats:    2,
		Workers:    3,
		OnResult: func(done, total int, _ EpisodeInfo) {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, 6, total)
			seen = append(seen, done)
		},
	}

	report, err := Evaluate(context.Background(), config.DefaultLanderConfig(), req)
	require.NoError(t, err)
	require.Len(t, report.Results, 6)
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6}, seen)

	for i, info := range report.Results {
		assert.Equal(t, i+1, info.Number)
		assert.Equal(t, req.Seeds[i/2], info.Seed)
	}
	// Repeats of the same level with a deterministic controller match.
	for i := 0; i < 6; i += 2 {
		assert.Equal(t, report.Results[i].Steps, report.Results[i+1].Steps)
		assert.Equal(t, report.Results[i].Outcome, report.Results[i+1].Outcome)
	}

	wantSuccess := 0
	for _, info := range report.Results {
		if info.Success() {
			wantSuccess++
		}
	}
	assert.Equal(t, wantSuccess, report.Successes)
	assert.InDelta(t, float64(wantSuccess)/6, report.SuccessRate, 1e-12)
	assert.Equal(t, 6, report.Rolling.Episodes)
}

func TestEvaluateUnknownController(t *testing.T) {
	_, err := Evaluate(context.Background(), config.DefaultLanderConfig(), EvalRequest{Controller: "nope"})
	assert.Error(t, err)
}

func TestEvaluateDefaultPool(t *testing.T) {
	report, err := Evaluate(context.Background(), config.DefaultLanderConfig(), EvalRequest{Controller: "idle"})
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, int64(13), report.Results[0].Seed)
}
