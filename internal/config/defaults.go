package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-lander/internal/reward"
)

//go:embed defaults/lander.yaml
var defaultLanderYAML []byte

// DefaultLanderConfig returns the default lander configuration.
func DefaultLanderConfig() LanderConfig {
	return LanderConfig{
		Level: LevelConfig{
			Width:             600,
			Height:            450,
			PadWidthRatio:     0.1,
			PadMinHeightRatio: 0.05,
			PadMaxHeightRatio: 0.4,
			TerrainStep:       15,
			MaxHeightFactor:   0.8,
			StartHeightFactor: 0.95,
			StartMargin:       30,
		},
		Vehicle: VehicleConfig{
			MassEmpty:       1.0,
			FuelMass:        0.5,
			Thrust:          50,
			Torque:          40,
			TorqueDamping:   25,
			BurnRateThrust:  0.03,
			BurnRateTorque:  0.01,
			Gravity:         9.81,
			GeomWidth:       3,
			GeomHeight:      2,
			RenderWidth:     30,
			RenderHeight:    20,
			CollisionWidth:  20,
			CollisionHeight: 30,
		},
		Landing: LandingConfig{
			Velocity: 12.5,
			MinAngle: 87,
			MaxAngle: 93,
			Height:   0.5,
			MaxTilt:  45,
		},
		Simulation: SimulationConfig{
			TickRate:      10,
			MaxSteps:      2000,
			RollingWindow: 100,
			EvalSeeds:     []int64{13},
			Workers:       4,
			StopOnFlip:    true,
		},
		Reward: reward.DefaultConfig(),
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 1.0,
			Progression: ProgressionConfig{
				Type:  "episodes",
				MaxAt: 500,
			},
			Scaling: ScalingConfig{
				StartHeightMin: 0.4,
				StartHeightMax: 0.95,
				StepMin:        5,
				StepMax:        15,
			},
		},
	}
}
