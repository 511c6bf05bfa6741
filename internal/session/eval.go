package session

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-lander/internal/config"
	"github.com/vovakirdan/tui-lander/internal/episode"
	"github.com/vovakirdan/tui-lander/internal/registry"
	"github.com/vovakirdan/tui-lander/internal/terrain"
)

// EvalRequest describes an evaluation run.
type EvalRequest struct {
	Controller string  // Registry ID; each worker creates its own instance
	Seeds      []int64 // Level pool; each seed is one episode per repeat
	Repeats    int     // Episodes per seed (at least 1)
	Workers    int     // Parallel episodes; 0 uses GOMAXPROCS
	Logger     *log.Logger
	// OnResult is called from worker goroutines as episodes finish.
	OnResult func(done, total int, info EpisodeInfo)
}

// EvalReport aggregates an evaluation.
type EvalReport struct {
	Controller  string
	Results     []EpisodeInfo // Ordered by seed, then repeat
	Successes   int
	SuccessRate float64
	Rolling     RollingStats // Over all results
}

// Evaluate plays every seed of the pool in parallel. Levels are generated
// once per seed and shared read-only between the episodes that use them.
func Evaluate(ctx context.Context, cfg config.LanderConfig, req EvalRequest) (EvalReport, error) {
	if err := cfg.Validate(); err != nil {
		return EvalReport{}, err
	}
	if !registry.Exists(req.Controller) {
		return EvalReport{}, fmt.Errorf("session: unknown controller %q", req.Controller)
	}
	seeds := req.Seeds
	if len(seeds) == 0 {
		seeds = cfg.Simulation.EvalSeeds
	}
	repeats := max(req.Repeats, 1)
	workers := req.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logger := req.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	levels := make(map[int64]*terrain.Terrain, len(seeds))
	for _, s := range seeds {
		if _, ok := levels[s]; ok {
			continue
		}
		t, err := terrain.Generate(s, cfg.TerrainParams())
		if err != nil {
			return EvalReport{}, fmt.Errorf("session: generate level %d: %w", s, err)
		}
		levels[s] = t
	}

	total := len(seeds) * repeats
	results := make([]EpisodeInfo, total)
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < total; i++ {
		i := i
		seed := seeds[i/repeats]
		g.Go(func() error {
			ctrl, err := registry.Create(req.Controller)
			if err != nil {
				return err
			}
			ep, err := episode.NewWithTerrain(cfg.Episode(), levels[seed])
			if err != nil {
				return fmt.Errorf("session: episode for seed %d: %w", seed, err)
			}
			info, err := play(gctx, ep, ctrl, cfg, cfg.Simulation.StopOnFlip)
			if err != nil {
				return err
			}
			info.Number = i + 1
			results[i] = info

			n := int(done.Add(1))
			logger.Debug("evaluation episode finished",
				"seed", seed, "outcome", info.Outcome, "success", info.Success(), "steps", info.Steps)
			if req.OnResult != nil {
				req.OnResult(n, total, info)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return EvalReport{}, err
	}

	report := EvalReport{Controller: req.Controller, Results: results}
	window := NewRolling(total)
	for _, r := range results {
		if r.Success() {
			report.Successes++
		}
		window.Add(r)
	}
	if total > 0 {
		report.SuccessRate = float64(report.Successes) / float64(total)
	}
	report.Rolling = window.Stats()

	logger.Info("evaluation finished",
		"controller", req.Controller,
		"episodes", total,
		"success_rate", report.SuccessRate)
	return report, nil
}
