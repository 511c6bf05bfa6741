package session

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-lander/internal/config"
	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/episode"
	"github.com/vovakirdan/tui-lander/internal/registry"
	"github.com/vovakirdan/tui-lander/internal/reward"
)

// Sink receives every finished episode, e.g. to persist it.
type Sink interface {
	Record(ctx context.Context, info EpisodeInfo) error
}

// Options configure a Runner.
type Options struct {
	Logger *log.Logger // nil discards logs
	Sink   Sink        // optional
	// OnEpisode is called after each episode with the updated rolling stats.
	OnEpisode func(info EpisodeInfo, stats RollingStats)
}

// Plan selects how many episodes to run and on which levels.
type Plan struct {
	Episodes int
	Seed     int64   // Base seed; episode i uses Seed+i. 0 draws a fresh level each time.
	Pool     []int64 // When set, episodes cycle through these level seeds instead
}

// SeedFor returns the level seed of episode i (0-based).
func (p Plan) SeedFor(i int) int64 {
	switch {
	case len(p.Pool) > 0:
		return p.Pool[i%len(p.Pool)]
	case p.Seed != 0:
		return p.Seed + int64(i)
	}
	return 0
}

// Summary is the result of a session.
type Summary struct {
	Controller string
	Episodes   []EpisodeInfo
	Rolling    RollingStats
}

// Runner drives sequential episodes with one controller.
type Runner struct {
	cfg        config.LanderConfig
	ctrl       registry.Controller
	log        *log.Logger
	sink       Sink
	onEpisode  func(EpisodeInfo, RollingStats)
	difficulty *config.DifficultyManager
	rolling    *Rolling

	episodes int
	landings int
}

// NewRunner validates cfg and prepares a session.
func NewRunner(cfg config.LanderConfig, ctrl registry.Controller, opts Options) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ctrl == nil {
		return nil, core.ConfigErrorf("controller", "must not be nil")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		cfg:        cfg,
		ctrl:       ctrl,
		log:        logger.With("controller", ctrl.ID()),
		sink:       opts.Sink,
		onEpisode:  opts.OnEpisode,
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
		rolling:    NewRolling(cfg.Simulation.RollingWindow),
	}, nil
}

// Run plays the planned episodes in order. It stops early when ctx is done.
func (r *Runner) Run(ctx context.Context, plan Plan) (Summary, error) {
	sum := Summary{Controller: r.ctrl.ID()}
	for i := 0; i < plan.Episodes; i++ {
		info, err := r.RunEpisode(ctx, plan.SeedFor(i))
		if err != nil {
			sum.Rolling = r.rolling.Stats()
			return sum, err
		}
		sum.Episodes = append(sum.Episodes, info)
	}
	sum.Rolling = r.rolling.Stats()
	r.log.Info("session finished",
		"episodes", len(sum.Episodes),
		"landing_rate", sum.Rolling.LandingRate,
		"success_rate", sum.Rolling.SuccessRate,
		"mean_reward", sum.Rolling.MeanReward)
	return sum, nil
}

// RunEpisode plays one episode on the level generated from seed.
func (r *Runner) RunEpisode(ctx context.Context, seed int64) (EpisodeInfo, error) {
	cfg := r.difficulty.Apply(r.cfg, r.episodes, r.landings)
	level := r.difficulty.Level(r.episodes, r.landings)

	ep, err := episode.New(cfg.Episode(), seed)
	if err != nil {
		return EpisodeInfo{}, fmt.Errorf("session: new episode: %w", err)
	}

	r.log.Debug("episode started", "episode", r.episodes+1, "seed", ep.Terrain().Seed(), "level", level)

	info, err := play(ctx, ep, r.ctrl, cfg, false)
	if err != nil {
		return info, err
	}
	r.episodes++
	if info.Outcome == core.Landed {
		r.landings++
	}
	info.Number = r.episodes
	info.StartLevel = level

	r.rolling.Add(info)
	stats := r.rolling.Stats()

	logFn := r.log.Info
	if info.Truncated {
		logFn = r.log.Warn
	}
	logFn("episode finished",
		"episode", info.Number,
		"seed", info.Seed,
		"outcome", info.Outcome,
		"pad_contact", info.PadContact,
		"steps", info.Steps,
		"reward", info.Reward.Total(),
		"rolling_landing_rate", stats.LandingRate)

	if r.sink != nil {
		if err := r.sink.Record(ctx, info); err != nil {
			return info, fmt.Errorf("session: record episode %d: %w", info.Number, err)
		}
	}
	if r.onEpisode != nil {
		r.onEpisode(info, stats)
	}
	return info, nil
}

// Rolling returns the current window statistics.
func (r *Runner) Rolling() RollingStats { return r.rolling.Stats() }

// play runs ep to a terminal outcome, the step limit, or (when stopOnFlip is
// set) until the vehicle turns past 90 degrees from upright.
func play(ctx context.Context, ep *episode.Episode, ctrl registry.Controller, cfg config.LanderConfig, stopOnFlip bool) (EpisodeInfo, error) {
	start := time.Now()
	dt := cfg.Runtime(0).DT()
	maxSteps := cfg.Simulation.MaxSteps

	var info EpisodeInfo
	info.Controller = ctrl.ID()
	info.Seed = ep.Terrain().Seed()

	ctrl.Reset(info.Seed)
	shaper := reward.NewShaper(cfg.Reward, cfg.VehicleParams(), cfg.LandingLimits(), cfg.Level.StartHeightFactor)
	shaper.Reset(reward.SampleOf(ep))

	res := ep.Last()
	for !res.Done() {
		if maxSteps > 0 && ep.Steps() >= maxSteps {
			info.Truncated = true
			break
		}
		if stopOnFlip && res.Flipped {
			info.Truncated = true
			break
		}
		if err := ctx.Err(); err != nil {
			return info, err
		}

		action := ctrl.Act(registry.Observation{Vector: ep.Observation(), Snapshot: ep.Snapshot()})
		if !action.Valid() {
			return info, core.InvalidInputf("action", "controller %s returned %d", ctrl.ID(), int(action))
		}

		var err error
		res, err = ep.Step(action.Input(), dt)
		if err != nil {
			return info, fmt.Errorf("session: step %d: %w", ep.Steps(), err)
		}

		info.Actions[action]++
		info.Reward.Add(shaper.Step(action.Input(), reward.SampleOf(ep), res.Outcome))

		snap := ep.Snapshot()
		info.VX.Add(snap.VX)
		info.VY.Add(snap.VY)
		info.Angle.Add(snap.Angle)
		info.PadDX.Add(snap.PadDX)
		info.PadDY.Add(snap.PadDY)
	}

	info.Steps = ep.Steps()
	info.Outcome = res.Outcome
	info.PadContact = res.PadContact
	info.Flipped = res.Flipped
	info.Criteria = res.Criteria
	info.FuelLeft = ep.Vehicle().FuelFraction()
	info.Duration = time.Since(start)
	return info, nil
}
