// Package terrain generates the seeded heightmap and landing pad of a level.
// Generation is deterministic: the same seed and parameters always produce the
// same heightmap, pad placement and start location.
package terrain

import (
	"math/rand"

	"github.com/vovakirdan/tui-lander/internal/core"
)

// Params configures level generation.
type Params struct {
	Width             int     // Level width in columns
	Height            int     // Level height
	PadWidthRatio     float64 // Pad width as a fraction of Width
	PadMinHeightRatio float64 // Lowest pad surface as a fraction of Height
	PadMaxHeightRatio float64 // Highest pad surface as a fraction of Height
	Step              int     // Max height change between adjacent columns
	MaxHeightFactor   float64 // Ceiling of the random walk as a fraction of Height
	StartHeightFactor float64 // Spawn altitude as a fraction of Height
	StartMargin       float64 // Min horizontal distance of the spawn from either edge
}

// DefaultParams returns the level layout used for training.
func DefaultParams() Params {
	return Params{
		Width:             600,
		Height:            450,
		PadWidthRatio:     0.1,
		PadMinHeightRatio: 0.05,
		PadMaxHeightRatio: 0.4,
		Step:              15,
		MaxHeightFactor:   0.8,
		StartHeightFactor: 0.95,
		StartMargin:       30,
	}
}

// Validate checks the parameters and returns a config error for the first
// offending field.
func (p Params) Validate() error {
	switch {
	case p.Width <= 0:
		return core.ConfigErrorf("width", "must be positive, got %d", p.Width)
	case p.Height <= 0:
		return core.ConfigErrorf("height", "must be positive, got %d", p.Height)
	case p.PadWidthRatio <= 0 || p.PadWidthRatio > 1:
		return core.ConfigErrorf("pad_width_ratio", "must be in (0, 1], got %g", p.PadWidthRatio)
	case int(float64(p.Width)*p.PadWidthRatio) < 1:
		return core.ConfigErrorf("pad_width_ratio", "pad would be narrower than one column")
	case p.PadMinHeightRatio < 0 || p.PadMaxHeightRatio > 1:
		return core.ConfigErrorf("pad_height_ratio", "bounds must lie in [0, 1], got [%g, %g]",
			p.PadMinHeightRatio, p.PadMaxHeightRatio)
	case p.PadMinHeightRatio > p.PadMaxHeightRatio:
		return core.ConfigErrorf("pad_height_ratio", "min %g is above max %g",
			p.PadMinHeightRatio, p.PadMaxHeightRatio)
	case p.Step < 0:
		return core.ConfigErrorf("terrain_step", "must not be negative, got %d", p.Step)
	case p.MaxHeightFactor <= 0 || p.MaxHeightFactor > 1:
		return core.ConfigErrorf("max_height_factor", "must be in (0, 1], got %g", p.MaxHeightFactor)
	case p.PadMaxHeightRatio > p.MaxHeightFactor:
		return core.ConfigErrorf("pad_height_ratio", "max %g is above max_height_factor %g",
			p.PadMaxHeightRatio, p.MaxHeightFactor)
	case p.StartHeightFactor < 0 || p.StartHeightFactor > 1:
		return core.ConfigErrorf("start_height_factor", "must be in [0, 1], got %g", p.StartHeightFactor)
	case p.StartMargin < 0 || 2*p.StartMargin > float64(p.Width):
		return core.ConfigErrorf("start_margin", "must be in [0, width/2], got %g", p.StartMargin)
	}
	return nil
}

// Terrain is an immutable generated level. It is safe to share between
// goroutines once generated.
type Terrain struct {
	seed      int64
	width     int
	height    int
	heights   []float64
	padCenter core.Vec2
	padWidth  int
	start     core.Vec2
}

// Generate builds a level from seed. A zero seed is replaced with a
// clock-derived one, available afterwards through Seed.
func Generate(seed int64, p Params) (*Terrain, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	seed = core.ResolveSeed(seed)
	rng := rand.New(rand.NewSource(seed))

	t := &Terrain{
		seed:     seed,
		width:    p.Width,
		height:   p.Height,
		padWidth: int(float64(p.Width) * p.PadWidthRatio),
	}

	// Pad placement
	half := float64(t.padWidth) / 2
	padX := randInt(rng, int(half), int(float64(p.Width)-half))
	padY := randInt(rng,
		int(float64(p.Height)*p.PadMinHeightRatio),
		int(float64(p.Height)*p.PadMaxHeightRatio))
	t.padCenter = core.V(float64(padX), float64(padY))

	t.heights = buildHeights(rng, p, padX, padY, t.padWidth)

	// Spawn point
	startX := randInt(rng, int(p.StartMargin), int(float64(p.Width)-p.StartMargin))
	startY := float64(int(float64(p.Height) - float64(p.Height)*p.StartHeightFactor))
	t.start = core.V(float64(startX), startY)

	return t, nil
}

// buildHeights writes the pad plateau and the two random walks leading away from it.
func buildHeights(rng *rand.Rand, p Params, padX, padY, padWidth int) []float64 {
	heights := make([]float64, p.Width)
	ceiling := float64(p.Height) * p.MaxHeightFactor
	half := float64(padWidth) / 2

	leftPad := int(float64(padX) - half)
	rightPad := int(float64(padX) + half)
	for i := max(leftPad, 0); i < rightPad && i < p.Width; i++ {
		heights[i] = float64(padY)
	}

	// Left side walks from the pad edge toward column 0, then is reversed.
	left := walk(rng, float64(padY), leftPad, p.Step, ceiling)
	for i := range left {
		if i >= p.Width {
			break
		}
		heights[i] = left[len(left)-1-i]
	}

	right := walk(rng, float64(padY), p.Width-rightPad, p.Step, ceiling)
	for i, h := range right {
		col := rightPad + i
		if col < 0 || col >= p.Width {
			break
		}
		heights[col] = h
	}

	return heights
}

// walk returns a bounded random walk of length max(n, 1) starting at start.
func walk(rng *rand.Rand, start float64, n, step int, ceiling float64) []float64 {
	out := make([]float64, 1, max(n, 1))
	out[0] = start
	for i := 1; i < n; i++ {
		next := out[i-1] + float64(randInt(rng, -step, step))
		out = append(out, core.ClampF(next, 0, ceiling))
	}
	return out
}

// randInt returns a uniform integer in [lo, hi] (inclusive on both ends).
func randInt(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// Seed returns the seed the level was generated from.
func (t *Terrain) Seed() int64 { return t.seed }

// Width returns the level width.
func (t *Terrain) Width() int { return t.width }

// Height returns the level height.
func (t *Terrain) Height() int { return t.height }

// Heights returns a copy of the heightmap.
func (t *Terrain) Heights() []float64 {
	out := make([]float64, len(t.heights))
	copy(out, t.heights)
	return out
}

// HeightAt returns the ground height at column col, or 0 outside the level.
func (t *Terrain) HeightAt(col int) float64 {
	if col < 0 || col >= len(t.heights) {
		return 0
	}
	return t.heights[col]
}

// PadCenter returns the pad center; Y is the pad surface height above the bottom edge.
func (t *Terrain) PadCenter() core.Vec2 { return t.padCenter }

// PadWidth returns the pad width in columns.
func (t *Terrain) PadWidth() int { return t.padWidth }

// PadLeft returns the x coordinate of the pad's left edge.
func (t *Terrain) PadLeft() float64 {
	return t.padCenter.X - float64(t.padWidth)/2
}

// PadRight returns the x coordinate of the pad's right edge.
func (t *Terrain) PadRight() float64 {
	return t.padCenter.X + float64(t.padWidth)/2
}

// Start returns the vehicle spawn position in level coordinates.
func (t *Terrain) Start() core.Vec2 { return t.start }

// Window returns the heights of columns [x-half, x+half), clipped to the
// level and zero-padded on the right to exactly 2*half values.
func (t *Terrain) Window(x, half int) []float64 {
	out := make([]float64, 0, 2*half)
	lo := max(0, x-half)
	hi := min(len(t.heights), x+half)
	for i := lo; i < hi; i++ {
		out = append(out, t.heights[i])
	}
	for len(out) < 2*half {
		out = append(out, 0)
	}
	return out
}
