package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-lander/internal/platform/tui"
	"github.com/vovakirdan/tui-lander/internal/registry"
	"github.com/vovakirdan/tui-lander/internal/session"
	"github.com/vovakirdan/tui-lander/internal/storage"
)

var (
	flagEvalController string
	flagEvalSeeds      []int64
	flagEvalRepeats    int
	flagEvalWorkers    int
	flagEvalStore      bool
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate a controller over a pool of level seeds",
	Long: `Evaluate a controller: every level seed of the pool is played (optionally
several times) in parallel. An episode counts as a success when the vehicle
lands or touches down on the pad.

Without --seeds the pool from the config (simulation.eval_seeds) is used.

Examples:
  lander eval --controller autopilot
  lander eval --controller autopilot --seeds 1,2,3 --workers 4
  lander eval --controller random --seeds 13 --repeats 20`,
	Args: cobra.NoArgs,
	RunE: runEval,
}

func init() {
	evalCmd.Flags().StringVarP(&flagEvalController, "controller", "c", "autopilot", "Controller ID (see 'lander list')")
	evalCmd.Flags().Int64SliceVar(&flagEvalSeeds, "seeds", nil, "Level seed pool (default from config)")
	evalCmd.Flags().IntVar(&flagEvalRepeats, "repeats", 1, "Episodes per seed")
	evalCmd.Flags().IntVar(&flagEvalWorkers, "workers", 0, "Parallel episodes (0 = from config)")
	evalCmd.Flags().BoolVar(&flagEvalStore, "store", false, "Store the evaluation episodes in the database")
}

func runEval(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !registry.Exists(flagEvalController) {
		return fmt.Errorf("unknown controller %q (run 'lander list' to see available controllers)", flagEvalController)
	}

	workers := flagEvalWorkers
	if workers == 0 {
		workers = cfg.Simulation.Workers
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := session.Evaluate(ctx, cfg, session.EvalRequest{
		Controller: flagEvalController,
		Seeds:      flagEvalSeeds,
		Repeats:    flagEvalRepeats,
		Workers:    workers,
		Logger:     logger,
		OnResult: func(done, total int, info session.EpisodeInfo) {
			logger.Info("episode finished", "done", done, "total", total,
				"seed", info.Seed, "outcome", info.Outcome, "steps", info.Steps)
		},
	})
	if errors.Is(err, context.Canceled) {
		logger.Warn("evaluation interrupted")
		return nil
	}
	if err != nil {
		return err
	}

	if flagEvalStore {
		if err := storeReport(ctx, report); err != nil {
			return err
		}
	}

	fmt.Println(tui.EvalReport(report))
	return nil
}

// storeReport records every evaluation episode.
func storeReport(ctx context.Context, report session.EvalReport) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, info := range report.Results {
		if err := store.Record(ctx, info); err != nil {
			return err
		}
	}
	return nil
}
