// Package episode couples one terrain with one vehicle and runs the per-step
// pipeline: integrate, classify, evaluate, resolve.
//
// An episode is single-threaded. Several episodes may share one *terrain.Terrain.
package episode

import (
	"github.com/vovakirdan/tui-lander/internal/collision"
	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/landing"
	"github.com/vovakirdan/tui-lander/internal/terrain"
	"github.com/vovakirdan/tui-lander/internal/vehicle"
)

// Config bundles the parameters of an episode.
type Config struct {
	Terrain terrain.Params
	Vehicle vehicle.Params
	Landing landing.Limits
}

// DefaultConfig returns the standard level, lander and landing limits.
func DefaultConfig() Config {
	return Config{
		Terrain: terrain.DefaultParams(),
		Vehicle: vehicle.DefaultParams(),
		Landing: landing.DefaultLimits(),
	}
}

// Validate checks all three parameter groups.
func (c Config) Validate() error {
	if err := c.Terrain.Validate(); err != nil {
		return err
	}
	if err := c.Vehicle.Validate(); err != nil {
		return err
	}
	return c.Landing.Validate()
}

// StepResult is what the caller needs after each step.
type StepResult struct {
	Step           int
	Outcome        core.Outcome
	Classification core.Outcome // InFlight, Collided or Escaped
	Criteria       landing.Criteria
	PadContact     bool
	Flipped        bool
}

// Done reports whether the episode has ended.
func (r StepResult) Done() bool {
	return r.Outcome.Terminal()
}

// Episode is one terrain and vehicle pair from spawn to a terminal outcome.
type Episode struct {
	cfg     Config
	terrain *terrain.Terrain
	vehicle *vehicle.Vehicle
	steps   int
	last    StepResult
}

// New generates a level from seed and spawns a vehicle at its start location.
func New(cfg Config, seed int64) (*Episode, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t, err := terrain.Generate(seed, cfg.Terrain)
	if err != nil {
		return nil, err
	}
	return NewWithTerrain(cfg, t)
}

// NewWithTerrain spawns a vehicle on an existing level. The terrain is only read.
func NewWithTerrain(cfg Config, t *terrain.Terrain) (*Episode, error) {
	if err := cfg.Vehicle.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Landing.Validate(); err != nil {
		return nil, err
	}
	e := &Episode{cfg: cfg, terrain: t}
	if err := e.Reset(); err != nil {
		return nil, err
	}
	return e, nil
}

// Reset respawns the vehicle at the level's start location with a full tank.
func (e *Episode) Reset() error {
	v, err := vehicle.New(e.cfg.Vehicle, e.terrain.Start())
	if err != nil {
		return err
	}
	e.vehicle = v
	e.steps = 0
	e.last = e.evaluate()
	return nil
}

// NewLevel generates a fresh level from seed and respawns the vehicle on it.
func (e *Episode) NewLevel(seed int64) error {
	t, err := terrain.Generate(seed, e.cfg.Terrain)
	if err != nil {
		return err
	}
	e.terrain = t
	return e.Reset()
}

// Step advances the vehicle by dt and classifies the result.
// Once the episode is terminal, Step returns the latched result unchanged.
func (e *Episode) Step(in core.ControlInput, dt float64) (StepResult, error) {
	if e.last.Done() {
		return e.last, nil
	}
	if err := e.vehicle.Step(in, dt); err != nil {
		return e.last, err
	}
	e.steps++
	e.last = e.evaluate()
	return e.last, nil
}

func (e *Episode) evaluate() StepResult {
	s := e.vehicle.State()
	p := e.vehicle.Params()

	cls := collision.Classify(e.vehicle, e.terrain)
	crit := landing.EvaluateState(p, s, e.terrain, e.cfg.Landing)

	return StepResult{
		Step:           e.steps,
		Outcome:        landing.Resolve(cls, crit),
		Classification: cls,
		Criteria:       crit,
		PadContact:     landing.PadContact(cls, p, s, e.terrain),
		Flipped:        landing.Flipped(s.Angle),
	}
}

// Last returns the result of the most recent step (or of spawn).
func (e *Episode) Last() StepResult { return e.last }

// Outcome returns the current outcome.
func (e *Episode) Outcome() core.Outcome { return e.last.Outcome }

// Done reports whether the episode reached a terminal outcome.
func (e *Episode) Done() bool { return e.last.Done() }

// Steps returns the number of integrated steps since spawn.
func (e *Episode) Steps() int { return e.steps }

// Terrain returns the level.
func (e *Episode) Terrain() *terrain.Terrain { return e.terrain }

// Vehicle returns the lander.
func (e *Episode) Vehicle() *vehicle.Vehicle { return e.vehicle }

// Config returns the episode configuration.
func (e *Episode) Config() Config { return e.cfg }
