package core

import "time"

// RuntimeConfig contains per-run settings passed down from the CLI.
type RuntimeConfig struct {
	TickRate int   // Simulation steps per simulated second (dt = 1/TickRate)
	Seed     int64 // Level seed; 0 means derive one from the clock
}

// DefaultConfig returns a RuntimeConfig with the model rate used for training.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		TickRate: 10,
		Seed:     0,
	}
}

// DT returns the fixed step length in seconds.
func (c RuntimeConfig) DT() float64 {
	if c.TickRate <= 0 {
		return 0.1
	}
	return 1 / float64(c.TickRate)
}

// ResolveSeed returns seed unchanged, or a clock-derived non-zero seed when it is 0.
func ResolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	s := time.Now().UnixNano()
	if s == 0 {
		s = 1
	}
	return s
}

// Outcome classifies the state of an episode after a step.
type Outcome int

const (
	InFlight Outcome = iota
	Landed
	Collided
	Escaped
)

// String returns the outcome name used in logs and storage.
func (o Outcome) String() string {
	switch o {
	case InFlight:
		return "in_flight"
	case Landed:
		return "landed"
	case Collided:
		return "collided"
	case Escaped:
		return "escaped"
	default:
		return "unknown"
	}
}

// Terminal reports whether the outcome ends the episode.
func (o Outcome) Terminal() bool {
	return o != InFlight
}

// ParseOutcome is the inverse of Outcome.String.
func ParseOutcome(s string) (Outcome, bool) {
	for _, o := range []Outcome{InFlight, Landed, Collided, Escaped} {
		if o.String() == s {
			return o, true
		}
	}
	return InFlight, false
}
