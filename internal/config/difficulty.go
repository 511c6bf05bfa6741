package config

import "math"

// spawnClearance is the minimum gap, as a fraction of the level height,
// between the spawn altitude and the highest terrain or pad.
const spawnClearance = 0.1

// DifficultyManager maps session progress to level parameters.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0) after the given
// number of finished episodes and landings.
func (d *DifficultyManager) Level(episodes, landings int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "episodes":
		progress = float64(episodes) / maxAt
	case "landings":
		progress = float64(landings) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// StartHeight returns the spawn altitude factor for a difficulty level.
func (d *DifficultyManager) StartHeight(level float64) float64 {
	s := d.cfg.Scaling
	return s.StartHeightMin + clampF(level, 0, 1)*(s.StartHeightMax-s.StartHeightMin)
}

// TerrainStep returns the terrain roughness for a difficulty level.
func (d *DifficultyManager) TerrainStep(level float64) int {
	s := d.cfg.Scaling
	return s.StepMin + int(math.Round(clampF(level, 0, 1)*float64(s.StepMax-s.StepMin)))
}

// Apply returns cfg with the level section adjusted for the current progress.
// When progression is disabled cfg is returned unchanged.
func (d *DifficultyManager) Apply(cfg LanderConfig, episodes, landings int) LanderConfig {
	if !d.IsEnabled() {
		return cfg
	}
	level := d.Level(episodes, landings)
	cfg.Level.StartHeightFactor = d.StartHeight(level)
	cfg.Level.TerrainStep = d.TerrainStep(level)

	// Low spawns must not start inside the ground.
	if ceiling := cfg.Level.StartHeightFactor - spawnClearance; ceiling > 0 && ceiling >= cfg.Level.PadMinHeightRatio {
		cfg.Level.MaxHeightFactor = math.Min(cfg.Level.MaxHeightFactor, ceiling)
		cfg.Level.PadMaxHeightRatio = math.Min(cfg.Level.PadMaxHeightRatio, ceiling)
	}
	return cfg
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
