package terrain

import "github.com/vovakirdan/tui-lander/internal/core"

// Layout describes a hand-built level, used for scripted scenarios and tests.
type Layout struct {
	Seed      int64
	Width     int
	Height    int
	Heights   []float64
	PadCenter core.Vec2
	PadWidth  int
	Start     core.Vec2
}

// New builds a Terrain from an explicit layout. The heightmap is copied.
func New(l Layout) (*Terrain, error) {
	if l.Width <= 0 {
		return nil, core.ConfigErrorf("width", "must be positive, got %d", l.Width)
	}
	if l.Height <= 0 {
		return nil, core.ConfigErrorf("height", "must be positive, got %d", l.Height)
	}
	if len(l.Heights) != l.Width {
		return nil, core.ConfigErrorf("heights", "length %d does not match width %d", len(l.Heights), l.Width)
	}
	for i, h := range l.Heights {
		if h < 0 || h > float64(l.Height) {
			return nil, core.ConfigErrorf("heights", "column %d height %g outside [0, %d]", i, h, l.Height)
		}
	}
	if l.PadWidth < 1 || l.PadWidth > l.Width {
		return nil, core.ConfigErrorf("pad_width", "must be in [1, %d], got %d", l.Width, l.PadWidth)
	}

	heights := make([]float64, len(l.Heights))
	copy(heights, l.Heights)

	return &Terrain{
		seed:      l.Seed,
		width:     l.Width,
		height:    l.Height,
		heights:   heights,
		padCenter: l.PadCenter,
		padWidth:  l.PadWidth,
		start:     l.Start,
	}, nil
}

// Flat returns a layout with constant ground height and a pad of the same
// height centered at padX.
func Flat(width, height int, ground float64, padX float64, padWidth int) Layout {
	heights := make([]float64, width)
	for i := range heights {
		heights[i] = ground
	}
	return Layout{
		Width:     width,
		Height:    height,
		Heights:   heights,
		PadCenter: core.V(padX, ground),
		PadWidth:  padWidth,
		Start:     core.V(padX, float64(height)*0.05),
	}
}
