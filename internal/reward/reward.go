// Package reward scores episode steps for automated controllers: a large
// terminal reward per outcome plus small shaping terms that favor approaching
// the pad slowly and upright.
package reward

import (
	"math"

	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/episode"
	"github.com/vovakirdan/tui-lander/internal/landing"
	"github.com/vovakirdan/tui-lander/internal/vehicle"
)

// Config holds the reward weights.
type Config struct {
	Landed   float64 `yaml:"landed"`
	Escaped  float64 `yaml:"escaped"`
	Collided float64 `yaml:"collided"`

	TimePenalty   float64 `yaml:"time_penalty"`
	ProximityGain float64 `yaml:"proximity_gain"`

	// Exponential penalty for climbing above the spawn altitude.
	TopPenaltyScale float64 `yaml:"top_penalty_scale"`
	TopPenaltyRate  float64 `yaml:"top_penalty_rate"`

	// Terms active only within NearPadRadius (normalized) of the pad.
	NearPadRadius           float64 `yaml:"near_pad_radius"`
	BrakingGain             float64 `yaml:"braking_gain"`
	VerticalExcessPenalty   float64 `yaml:"vertical_excess_penalty"`
	DriftGain               float64 `yaml:"drift_gain"`
	HorizontalExcessPenalty float64 `yaml:"horizontal_excess_penalty"`
	UprightGain             float64 `yaml:"upright_gain"`
	TiltPenalty             float64 `yaml:"tilt_penalty"`
}

// DefaultConfig returns the weights used for training.
func DefaultConfig() Config {
	return Config{
		Landed:                  5000,
		Escaped:                 -1500,
		Collided:                -1000,
		TimePenalty:             0.1,
		ProximityGain:           5,
		TopPenaltyScale:         50,
		TopPenaltyRate:          3,
		NearPadRadius:           0.2,
		BrakingGain:             4,
		VerticalExcessPenalty:   8,
		DriftGain:               2,
		HorizontalExcessPenalty: 6,
		UprightGain:             2,
		TiltPenalty:             6,
	}
}

// Terminal returns the one-off reward for entering outcome o.
func (c Config) Terminal(o core.Outcome) float64 {
	switch o {
	case core.Landed:
		return c.Landed
	case core.Escaped:
		return c.Escaped
	case core.Collided:
		return c.Collided
	}
	return 0
}

// Sample is the part of the episode state the shaping terms compare between steps.
type Sample struct {
	Y     float64 // Normalized altitude coordinate, 0 at the top edge
	DX    float64 // Normalized horizontal offset to the pad
	DY    float64 // Normalized footprint clearance above the pad
	VX    float64
	VY    float64
	Angle float64
}

// SampleOf reads a Sample from the episode.
func SampleOf(e *episode.Episode) Sample {
	snap := e.Snapshot()
	w := float64(e.Terrain().Width())
	h := float64(e.Terrain().Height())
	return Sample{
		Y:     snap.Y / h,
		DX:    snap.PadDX / w,
		DY:    snap.PadDY / h,
		VX:    snap.VX,
		VY:    snap.VY,
		Angle: snap.Angle,
	}
}

// Terms is the per-step reward split by source.
type Terms struct {
	Time      float64
	Fuel      float64
	Proximity float64
	Top       float64
	NearPad   float64
	Terminal  float64
}

// Total sums all terms.
func (t Terms) Total() float64 {
	return t.Time + t.Fuel + t.Proximity + t.Top + t.NearPad + t.Terminal
}

// Add accumulates o into t.
func (t *Terms) Add(o Terms) {
	t.Time += o.Time
	t.Fuel += o.Fuel
	t.Proximity += o.Proximity
	t.Top += o.Top
	t.NearPad += o.NearPad
	t.Terminal += o.Terminal
}

// Shaper scores consecutive samples of one episode.
type Shaper struct {
	cfg        Config
	limits     landing.Limits
	burnThrust float64
	burnTorque float64
	topZone    float64
	prev       Sample
}

// NewShaper builds a shaper. startHeightFactor is the spawn altitude as a
// fraction of the level height; anything above it is penalized.
func NewShaper(cfg Config, vp vehicle.Params, limits landing.Limits, startHeightFactor float64) *Shaper {
	return &Shaper{
		cfg:        cfg,
		limits:     limits,
		burnThrust: vp.BurnRateThrust,
		burnTorque: vp.BurnRateTorque,
		topZone:    1 - startHeightFactor,
	}
}

// Reset starts a new episode from the spawn sample.
func (s *Shaper) Reset(start Sample) {
	s.prev = start
}

// Step scores the transition to cur under input in and ending in outcome.
func (s *Shaper) Step(in core.ControlInput, cur Sample, outcome core.Outcome) Terms {
	c := s.cfg
	prev := s.prev
	s.prev = cur

	var t Terms
	t.Time = -c.TimePenalty

	if in.Thrust {
		t.Fuel -= s.burnThrust
	}
	if in.AnyTorque() {
		t.Fuel -= s.burnTorque
	}

	t.Proximity = c.ProximityGain * (math.Hypot(prev.DX, prev.DY) - math.Hypot(cur.DX, cur.DY))

	if s.topZone > 0 && cur.Y < s.topZone {
		x := core.ClampF((s.topZone-cur.Y)/s.topZone, 0, 1)
		t.Top = -c.TopPenaltyScale * (math.Exp(c.TopPenaltyRate*x) - 1)
	}

	if math.Abs(cur.DX) < c.NearPadRadius && math.Abs(cur.DY) < c.NearPadRadius {
		t.NearPad = s.nearPad(prev, cur)
	}

	t.Terminal = c.Terminal(outcome)
	return t
}

func (s *Shaper) nearPad(prev, cur Sample) float64 {
	c := s.cfg
	l := s.limits
	span := episode.MaxVelocity - l.Velocity
	var r float64

	// Reward braking, not being slow.
	prevDown, curDown := -prev.VY, -cur.VY
	r += c.BrakingGain * (prevDown - curDown)
	if curDown > l.Velocity {
		r -= c.VerticalExcessPenalty * (curDown - l.Velocity) / span
	}

	prevDrift, curDrift := math.Abs(prev.VX), math.Abs(cur.VX)
	r += c.DriftGain * (prevDrift - curDrift)
	if curDrift > l.Velocity {
		r -= c.HorizontalExcessPenalty * (curDrift - l.Velocity) / span
	}

	prevTilt, curTilt := math.Abs(prev.Angle-90), math.Abs(cur.Angle-90)
	r += c.UprightGain * (prevTilt - curTilt)
	if safe := l.SafeMargin(); curTilt > safe && l.MaxTilt > safe {
		r -= c.TiltPenalty * (curTilt - safe) / (l.MaxTilt - safe)
	}
	return r
}
