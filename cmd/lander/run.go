package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-lander/internal/platform/tui"
	"github.com/vovakirdan/tui-lander/internal/registry"
	"github.com/vovakirdan/tui-lander/internal/session"
	"github.com/vovakirdan/tui-lander/internal/storage"
)

var (
	flagRunController string
	flagRunEpisodes   int
	flagRunProgress   bool
	flagRunNoStore    bool
	flagRunTable      bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a session of episodes with a controller",
	Long: `Run a session: the controller flies one episode after another, each on a
fresh level. Every finished episode is logged and stored in the database.

With --seed N the session is reproducible: episode i uses level seed N+i.

Examples:
  lander run --controller autopilot --episodes 50
  lander run --controller random --episodes 200 --progress
  lander run --controller autopilot --seed 7 --episodes 5 --table`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&flagRunController, "controller", "c", "autopilot", "Controller ID (see 'lander list')")
	runCmd.Flags().IntVarP(&flagRunEpisodes, "episodes", "n", 10, "Number of episodes")
	runCmd.Flags().BoolVar(&flagRunProgress, "progress", false, "Show a live progress view instead of log lines")
	runCmd.Flags().BoolVar(&flagRunNoStore, "no-store", false, "Do not store episodes in the database")
	runCmd.Flags().BoolVar(&flagRunTable, "table", false, "Print every episode when the session ends")
}

func runRun(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagRunEpisodes < 1 {
		return fmt.Errorf("--episodes must be at least 1, got %d", flagRunEpisodes)
	}

	ctrl, err := registry.Create(flagRunController)
	if err != nil {
		return fmt.Errorf("%w (run 'lander list' to see available controllers)", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := session.Options{Logger: logger}
	if !flagRunNoStore {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		opts.Sink = store
	}

	plan := session.Plan{Episodes: flagRunEpisodes, Seed: flagSeed}

	showProgress := flagRunProgress && term.IsTerminal(int(os.Stdout.Fd()))
	if flagRunProgress && !showProgress {
		logger.Warn("stdout is not a terminal, falling back to log output")
	}

	var sum session.Summary
	if showProgress {
		// Log lines would tear the view apart.
		opts.Logger = log.New(io.Discard)
		title := fmt.Sprintf("%s - %d episodes", ctrl.Title(), flagRunEpisodes)
		err = tui.RunProgress(ctx, title, flagRunEpisodes, func(ctx context.Context, onEpisode func(session.EpisodeInfo, session.RollingStats)) error {
			opts.OnEpisode = onEpisode
			r, err := session.NewRunner(cfg, ctrl, opts)
			if err != nil {
				return err
			}
			sum, err = r.Run(ctx, plan)
			return err
		})
	} else {
		var r *session.Runner
		r, err = session.NewRunner(cfg, ctrl, opts)
		if err != nil {
			return err
		}
		sum, err = r.Run(ctx, plan)
	}

	if errors.Is(err, context.Canceled) {
		logger.Warn("session interrupted", "episodes", len(sum.Episodes))
		err = nil
	}
	if err != nil {
		return err
	}

	if flagRunTable && len(sum.Episodes) > 0 {
		fmt.Println(tui.EpisodeTable(sum.Episodes))
	}
	fmt.Println(tui.RollingSummary(fmt.Sprintf("%s: %d episodes", ctrl.Title(), len(sum.Episodes)), sum.Rolling))
	return nil
}
