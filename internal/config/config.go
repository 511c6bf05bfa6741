// Package config provides YAML-based lander configuration loading and
// curriculum management.
package config

import (
	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/episode"
	"github.com/vovakirdan/tui-lander/internal/landing"
	"github.com/vovakirdan/tui-lander/internal/reward"
	"github.com/vovakirdan/tui-lander/internal/terrain"
	"github.com/vovakirdan/tui-lander/internal/vehicle"
)

// LanderConfig contains all configuration for the lander simulation.
type LanderConfig struct {
	Level      LevelConfig      `yaml:"level"`
	Vehicle    VehicleConfig    `yaml:"vehicle"`
	Landing    LandingConfig    `yaml:"landing"`
	Simulation SimulationConfig `yaml:"simulation"`
	Reward     reward.Config    `yaml:"reward"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// LevelConfig defines terrain generation parameters.
type LevelConfig struct {
	Width             int     `yaml:"width"`
	Height            int     `yaml:"height"`
	PadWidthRatio     float64 `yaml:"pad_width_ratio"`
	PadMinHeightRatio float64 `yaml:"pad_min_height_ratio"`
	PadMaxHeightRatio float64 `yaml:"pad_max_height_ratio"`
	TerrainStep       int     `yaml:"terrain_step"`
	MaxHeightFactor   float64 `yaml:"max_height_factor"`
	StartHeightFactor float64 `yaml:"start_height_factor"`
	StartMargin       float64 `yaml:"start_margin"`
}

// VehicleConfig defines the lander's physical constants.
type VehicleConfig struct {
	MassEmpty       float64 `yaml:"mass_empty"`
	FuelMass        float64 `yaml:"fuel_mass"`
	Thrust          float64 `yaml:"thrust"`
	Torque          float64 `yaml:"torque"`
	TorqueDamping   float64 `yaml:"torque_damping"`
	BurnRateThrust  float64 `yaml:"burn_rate_thrust"`
	BurnRateTorque  float64 `yaml:"burn_rate_torque"`
	Gravity         float64 `yaml:"gravity"`
	GeomWidth       float64 `yaml:"geom_width"`
	GeomHeight      float64 `yaml:"geom_height"`
	RenderWidth     float64 `yaml:"render_width"`
	RenderHeight    float64 `yaml:"render_height"`
	CollisionWidth  float64 `yaml:"collision_width"`
	CollisionHeight float64 `yaml:"collision_height"`
}

// LandingConfig defines the landing safety window.
type LandingConfig struct {
	Velocity float64 `yaml:"velocity"`
	MinAngle float64 `yaml:"min_angle"`
	MaxAngle float64 `yaml:"max_angle"`
	Height   float64 `yaml:"height"`
	MaxTilt  float64 `yaml:"max_tilt"`
}

// SimulationConfig defines how sessions are run.
type SimulationConfig struct {
	TickRate      int     `yaml:"tick_rate"`      // Steps per simulated second
	MaxSteps      int     `yaml:"max_steps"`      // Episode cutoff; 0 = unlimited
	RollingWindow int     `yaml:"rolling_window"` // Episodes in the rolling statistics
	EvalSeeds     []int64 `yaml:"eval_seeds"`     // Level pool for evaluation
	Workers       int     `yaml:"workers"`        // Parallel evaluation episodes
	StopOnFlip    bool    `yaml:"stop_on_flip"`   // End evaluation episodes that turn past 90 degrees
}

// DifficultyConfig defines the curriculum.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over a session.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "episodes", "landings", or "none"
	MaxAt int    `yaml:"max_at"` // Count at which max difficulty is reached
}

// ScalingConfig defines what difficulty changes.
type ScalingConfig struct {
	StartHeightMin float64 `yaml:"start_height_min"` // Spawn altitude factor at level 0
	StartHeightMax float64 `yaml:"start_height_max"` // Spawn altitude factor at level 1
	StepMin        int     `yaml:"step_min"`         // Terrain roughness at level 0
	StepMax        int     `yaml:"step_max"`         // Terrain roughness at level 1
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI string to a preset. Empty means no preset.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	}
	return "", core.ConfigErrorf("preset", "unknown preset %q (want easy, normal, hard or fixed)", s)
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// TerrainParams converts the level section.
func (c LanderConfig) TerrainParams() terrain.Params {
	l := c.Level
	return terrain.Params{
		Width:             l.Width,
		Height:            l.Height,
		PadWidthRatio:     l.PadWidthRatio,
		PadMinHeightRatio: l.PadMinHeightRatio,
		PadMaxHeightRatio: l.PadMaxHeightRatio,
		Step:              l.TerrainStep,
		MaxHeightFactor:   l.MaxHeightFactor,
		StartHeightFactor: l.StartHeightFactor,
		StartMargin:       l.StartMargin,
	}
}

// VehicleParams converts the vehicle section.
func (c LanderConfig) VehicleParams() vehicle.Params {
	v := c.Vehicle
	return vehicle.Params{
		MassEmpty:       v.MassEmpty,
		FuelMass:        v.FuelMass,
		Thrust:          v.Thrust,
		Torque:          v.Torque,
		TorqueDamping:   v.TorqueDamping,
		BurnRateThrust:  v.BurnRateThrust,
		BurnRateTorque:  v.BurnRateTorque,
		Gravity:         v.Gravity,
		GeomWidth:       v.GeomWidth,
		GeomHeight:      v.GeomHeight,
		RenderWidth:     v.RenderWidth,
		RenderHeight:    v.RenderHeight,
		CollisionWidth:  v.CollisionWidth,
		CollisionHeight: v.CollisionHeight,
	}
}

// LandingLimits converts the landing section.
func (c LanderConfig) LandingLimits() landing.Limits {
	return landing.Limits{
		Velocity: c.Landing.Velocity,
		MinAngle: c.Landing.MinAngle,
		MaxAngle: c.Landing.MaxAngle,
		Height:   c.Landing.Height,
		MaxTilt:  c.Landing.MaxTilt,
	}
}

// Episode returns the episode configuration.
func (c LanderConfig) Episode() episode.Config {
	return episode.Config{
		Terrain: c.TerrainParams(),
		Vehicle: c.VehicleParams(),
		Landing: c.LandingLimits(),
	}
}

// Runtime returns the per-run settings with the given seed.
func (c LanderConfig) Runtime(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{TickRate: c.Simulation.TickRate, Seed: seed}
}

// Validate checks every section and returns the first config error.
func (c LanderConfig) Validate() error {
	if err := c.Episode().Validate(); err != nil {
		return err
	}
	s := c.Simulation
	switch {
	case s.TickRate <= 0:
		return core.ConfigErrorf("simulation.tick_rate", "must be positive, got %d", s.TickRate)
	case s.MaxSteps < 0:
		return core.ConfigErrorf("simulation.max_steps", "must not be negative, got %d", s.MaxSteps)
	case s.RollingWindow <= 0:
		return core.ConfigErrorf("simulation.rolling_window", "must be positive, got %d", s.RollingWindow)
	case s.Workers < 0:
		return core.ConfigErrorf("simulation.workers", "must not be negative, got %d", s.Workers)
	}

	d := c.Difficulty
	switch {
	case d.InitialLevel < 0 || d.InitialLevel > 1:
		return core.ConfigErrorf("difficulty.initial_level", "must be in [0, 1], got %g", d.InitialLevel)
	case d.Progression.Type != "episodes" && d.Progression.Type != "landings" && d.Progression.Type != "none":
		return core.ConfigErrorf("difficulty.progression.type", "unknown type %q", d.Progression.Type)
	case d.Scaling.StartHeightMin < 0 || d.Scaling.StartHeightMax > 1 ||
		d.Scaling.StartHeightMin > d.Scaling.StartHeightMax:
		return core.ConfigErrorf("difficulty.scaling", "start height range [%g, %g] invalid",
			d.Scaling.StartHeightMin, d.Scaling.StartHeightMax)
	case d.Scaling.StepMin < 0 || d.Scaling.StepMin > d.Scaling.StepMax:
		return core.ConfigErrorf("difficulty.scaling", "terrain step range [%d, %d] invalid",
			d.Scaling.StepMin, d.Scaling.StepMax)
	}
	return nil
}
