// Package session runs episodes with a controller: it records per-episode
// statistics, keeps rolling outcome rates, applies the curriculum and runs
// parallel evaluations over a pool of level seeds.
package session

import (
	"time"

	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/landing"
	"github.com/vovakirdan/tui-lander/internal/reward"
)

// Range tracks the extent and running mean of one quantity over an episode.
// The zero value is empty and reads 0 everywhere.
type Range struct {
	Min   float64
	Max   float64
	Final float64
	sum   float64
	n     int
}

// Add records one sample.
func (r *Range) Add(v float64) {
	if r.n == 0 || v < r.Min {
		r.Min = v
	}
	if r.n == 0 || v > r.Max {
		r.Max = v
	}
	r.Final = v
	r.sum += v
	r.n++
}

// Mean returns the mean of all samples, or 0 with none.
func (r Range) Mean() float64 {
	if r.n == 0 {
		return 0
	}
	return r.sum / float64(r.n)
}

// Count returns the number of samples.
func (r Range) Count() int { return r.n }

// EpisodeInfo summarizes one finished episode.
type EpisodeInfo struct {
	Number     int
	Controller string
	Seed       int64
	Outcome    core.Outcome
	PadContact bool
	Flipped    bool
	Truncated  bool // Hit the step limit or was stopped before a terminal outcome
	Steps      int
	Actions    [core.NumActions]int
	Reward     reward.Terms
	Criteria   landing.Criteria // At the last step
	FuelLeft   float64          // Fraction of the spawn load
	StartLevel float64          // Curriculum level the episode ran at
	VX         Range
	VY         Range
	Angle      Range
	PadDX      Range
	PadDY      Range
	Duration   time.Duration
}

// Success applies the evaluation rule: a landing, or a touchdown on the pad.
func (e EpisodeInfo) Success() bool {
	return e.Outcome == core.Landed || e.PadContact
}

// ActionShare returns the fraction of steps that used action a.
func (e EpisodeInfo) ActionShare(a core.Action) float64 {
	if e.Steps == 0 || !a.Valid() {
		return 0
	}
	return float64(e.Actions[a]) / float64(e.Steps)
}
