package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/episode"
)

func TestEmbeddedMatchesDefaults(t *testing.T) {
	var cfg LanderConfig
	require.NoError(t, yaml.Unmarshal(defaultLanderYAML, &cfg))
	assert.Equal(t, DefaultLanderConfig(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestDefaultsMatchSimulationDefaults(t *testing.T) {
	cfg := DefaultLanderConfig()
	assert.Equal(t, episode.DefaultConfig(), cfg.Episode())
	assert.Equal(t, 0.1, cfg.Runtime(0).DT())
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	// Nothing on disk: embedded defaults.
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLanderConfig(), cfg)

	// User directory overrides the embedded file.
	dir := filepath.Join(home, ".lander", "configs")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lander.yaml"), []byte("vehicle:\n  thrust: 60\n"), 0o644))

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 60.0, cfg.Vehicle.Thrust)
	assert.Equal(t, 40.0, cfg.Vehicle.Torque, "unset keys keep their defaults")

	// An invalid user file is skipped.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lander.yaml"), []byte("level:\n  width: -5\n"), 0o644))
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 600, cfg.Level.Width)
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
level:
  terrain_step: 3
simulation:
  eval_seeds: [1, 2, 3]
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Level.TerrainStep)
	assert.Equal(t, []int64{1, 2, 3}, cfg.Simulation.EvalSeeds)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("landing:\n  min_angle: 95\n"), 0o644))
	_, err = Load(bad)
	assert.True(t, errors.Is(err, core.ErrConfig), "got %v", err)

	garbage := filepath.Join(t.TempDir(), "garbage.yaml")
	require.NoError(t, os.WriteFile(garbage, []byte("level: [unclosed"), 0o644))
	_, err = Load(garbage)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*LanderConfig)
	}{
		{"tick rate", func(c *LanderConfig) { c.Simulation.TickRate = 0 }},
		{"rolling window", func(c *LanderConfig) { c.Simulation.RollingWindow = 0 }},
		{"negative workers", func(c *LanderConfig) { c.Simulation.Workers = -1 }},
		{"progression type", func(c *LanderConfig) { c.Difficulty.Progression.Type = "score" }},
		{"start height range", func(c *LanderConfig) { c.Difficulty.Scaling.StartHeightMin = 0.99 }},
		{"step range", func(c *LanderConfig) { c.Difficulty.Scaling.StepMin = 20 }},
		{"vehicle mass", func(c *LanderConfig) { c.Vehicle.MassEmpty = 0 }},
		{"level height", func(c *LanderConfig) { c.Level.Height = 0 }},
		{"pad above terrain ceiling", func(c *LanderConfig) { c.Level.PadMaxHeightRatio = 0.9 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultLanderConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrConfig))
		})
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultLanderConfig()
	ApplyPreset(&cfg, DifficultyEasy)
	assert.True(t, cfg.Difficulty.Enabled)
	assert.Equal(t, 0.0, cfg.Difficulty.InitialLevel)
	assert.Equal(t, 0.15, cfg.Level.PadWidthRatio)

	cfg = DefaultLanderConfig()
	ApplyPreset(&cfg, DifficultyFixed)
	assert.False(t, cfg.Difficulty.Enabled)
	assert.Equal(t, DefaultLanderConfig().Level, cfg.Level)

	cfg = DefaultLanderConfig()
	ApplyPreset(&cfg, "")
	assert.Equal(t, DefaultLanderConfig(), cfg)

	_, err := ParsePreset("brutal")
	assert.True(t, errors.Is(err, core.ErrConfig))
	p, err := ParsePreset("hard")
	require.NoError(t, err)
	assert.Equal(t, DifficultyHard, p)
}

func TestDifficultyManager(t *testing.T) {
	dc := DefaultLanderConfig().Difficulty
	dc.Enabled = true
	dc.InitialLevel = 0
	dc.Progression.MaxAt = 100
	dm := NewDifficultyManager(dc)

	assert.Equal(t, 0.0, dm.Level(0, 0))
	assert.InDelta(t, 0.5, dm.Level(50, 0), 1e-12)
	assert.Equal(t, 1.0, dm.Level(500, 0))

	assert.InDelta(t, 0.4, dm.StartHeight(0), 1e-12)
	assert.InDelta(t, 0.95, dm.StartHeight(1), 1e-12)
	assert.Equal(t, 5, dm.TerrainStep(0))
	assert.Equal(t, 10, dm.TerrainStep(0.5))
	assert.Equal(t, 15, dm.TerrainStep(1))

	cfg := dm.Apply(DefaultLanderConfig(), 0, 0)
	assert.InDelta(t, 0.4, cfg.Level.StartHeightFactor, 1e-12)
	assert.Equal(t, 5, cfg.Level.TerrainStep)
	assert.InDelta(t, 0.3, cfg.Level.MaxHeightFactor, 1e-12)
	assert.InDelta(t, 0.3, cfg.Level.PadMaxHeightRatio, 1e-12)
	require.NoError(t, cfg.Validate())

	top := dm.Apply(DefaultLanderConfig(), 100, 0)
	assert.Equal(t, DefaultLanderConfig().Level.MaxHeightFactor, top.Level.MaxHeightFactor)
	assert.Equal(t, DefaultLanderConfig().Level.PadMaxHeightRatio, top.Level.PadMaxHeightRatio)

	dc.Progression.Type = "landings"
	dm = NewDifficultyManager(dc)
	assert.Equal(t, 0.0, dm.Level(1000, 0))
	assert.InDelta(t, 0.25, dm.Level(1000, 25), 1e-12)

	// Disabled progression keeps the configured level untouched.
	dm = NewDifficultyManager(DefaultLanderConfig().Difficulty)
	assert.False(t, dm.IsEnabled())
	assert.Equal(t, 1.0, dm.Level(1000, 1000))
	assert.Equal(t, DefaultLanderConfig(), dm.Apply(DefaultLanderConfig(), 10, 10))
}
