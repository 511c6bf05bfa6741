package session

import (
	"gonum.org/v1/gonum/stat"

	"github.com/vovakirdan/tui-lander/internal/core"
)

// RollingStats are rates and means over the most recent episodes.
type RollingStats struct {
	Episodes       int
	LandingRate    float64
	EscapeRate     float64
	CollisionRate  float64
	PadContactRate float64
	SuccessRate    float64
	MeanReward     float64
	MeanSteps      float64
	NothingShare   float64 // Mean share of idle steps
	MeanVYMax      float64
	MeanPadDXFinal float64
}

// Rolling keeps a fixed-size window of finished episodes.
type Rolling struct {
	size int
	buf  []EpisodeInfo
	next int
}

// NewRolling creates a window of the given size (at least 1).
func NewRolling(size int) *Rolling {
	if size < 1 {
		size = 1
	}
	return &Rolling{size: size, buf: make([]EpisodeInfo, 0, size)}
}

// Add pushes an episode, evicting the oldest once the window is full.
func (r *Rolling) Add(info EpisodeInfo) {
	if len(r.buf) < r.size {
		r.buf = append(r.buf, info)
		return
	}
	r.buf[r.next] = info
	r.next = (r.next + 1) % r.size
}

// Len returns the number of episodes in the window.
func (r *Rolling) Len() int { return len(r.buf) }

// Stats computes the window statistics.
func (r *Rolling) Stats() RollingStats {
	n := len(r.buf)
	if n == 0 {
		return RollingStats{}
	}

	var (
		landed    = make([]float64, n)
		escaped   = make([]float64, n)
		collided  = make([]float64, n)
		padHit    = make([]float64, n)
		success   = make([]float64, n)
		rewards   = make([]float64, n)
		steps     = make([]float64, n)
		nothing   = make([]float64, n)
		vyMax     = make([]float64, n)
		padDX     = make([]float64, n)
		indicator = func(b bool) float64 {
			if b {
				return 1
			}
			return 0
		}
	)
	for i, e := range r.buf {
		landed[i] = indicator(e.Outcome == core.Landed)
		escaped[i] = indicator(e.Outcome == core.Escaped)
		collided[i] = indicator(e.Outcome == core.Collided)
		padHit[i] = indicator(e.PadContact)
		success[i] = indicator(e.Success())
		rewards[i] = e.Reward.Total()
		steps[i] = float64(e.Steps)
		nothing[i] = e.ActionShare(core.ActionNothing)
		vyMax[i] = e.VY.Max
		padDX[i] = e.PadDX.Final
	}

	return RollingStats{
		Episodes:       n,
		LandingRate:    stat.Mean(landed, nil),
		EscapeRate:     stat.Mean(escaped, nil),
		CollisionRate:  stat.Mean(collided, nil),
		PadContactRate: stat.Mean(padHit, nil),
		SuccessRate:    stat.Mean(success, nil),
		MeanReward:     stat.Mean(rewards, nil),
		MeanSteps:      stat.Mean(steps, nil),
		NothingShare:   stat.Mean(nothing, nil),
		MeanVYMax:      stat.Mean(vyMax, nil),
		MeanPadDXFinal: stat.Mean(padDX, nil),
	}
}
