// Package controller contains the built-in controllers. Each registers itself
// with the registry in init().
package controller

import (
	"math/rand"

	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/registry"
)

func init() {
	registry.Register("idle", func() registry.Controller { return &Idle{} })
	registry.Register("random", func() registry.Controller { return NewRandom() })
	registry.Register("autopilot", func() registry.Controller { return NewAutopilot() })
}

// Idle never fires an engine. Useful as a free-fall baseline.
type Idle struct{}

func (*Idle) ID() string                           { return "idle" }
func (*Idle) Title() string                        { return "Idle (free fall)" }
func (*Idle) Reset(int64)                          {}
func (*Idle) Act(registry.Observation) core.Action { return core.ActionNothing }

// Random picks a uniformly random action and holds it for a few steps.
type Random struct {
	rng    *rand.Rand
	hold   int
	left   int
	action core.Action
}

// NewRandom creates a random controller that holds each action for 3 steps.
func NewRandom() *Random {
	return &Random{rng: rand.New(rand.NewSource(1)), hold: 3}
}

func (*Random) ID() string    { return "random" }
func (*Random) Title() string { return "Random" }

// Reset reseeds the generator so an episode is reproducible from its seed.
func (r *Random) Reset(seed int64) {
	r.rng = rand.New(rand.NewSource(seed))
	r.left = 0
	r.action = core.ActionNothing
}

func (r *Random) Act(registry.Observation) core.Action {
	if r.left <= 0 {
		r.action = core.Action(r.rng.Intn(core.NumActions))
		r.left = r.hold
	}
	r.left--
	return r.action
}
