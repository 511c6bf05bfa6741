// lander runs and evaluates lunar-lander controllers in the terminal.
//
// Usage:
//
//	lander list              - List registered controllers
//	lander run               - Run a session of episodes with a controller
//	lander eval              - Evaluate a controller over a pool of level seeds
//	lander terrain           - Generate a level and print its layout
//	lander stats [id]        - Show stored outcome statistics
//	lander config            - Print the effective configuration
//
// Global flags:
//
//	--hz <rate>        - Set the simulation rate (default from config: 10)
//	--seed <value>     - Set the level seed (0 = random based on time)
//	--db <path>        - Set database path (default: ~/.lander/episodes.db)
//	--config <path>    - Load a YAML config file
//	--preset <name>    - Difficulty preset: easy, normal, hard or fixed
//	--log-level <lvl>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-lander/internal/config"

	// Import controllers to register them
	_ "github.com/vovakirdan/tui-lander/internal/controller"
)

var (
	// Global flags
	flagHz         int
	flagSeed       int64
	flagDBPath     string
	flagConfigPath string
	flagPreset     string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lander",
	Short: "Lunar lander simulation - run and evaluate landing controllers",
	Long: `Lander simulates a 2D lunar lander over procedurally generated terrain
and lets controllers fly it, one episode at a time.

Available commands:
  list     - Show all registered controllers
  run      - Run a session and store every episode
  eval     - Evaluate a controller on a pool of levels in parallel
  terrain  - Generate a level and print its layout
  stats    - View stored outcome statistics
  config   - Print the effective configuration

Examples:
  lander list
  lander run --controller autopilot --episodes 50 --progress
  lander eval --controller autopilot --seeds 1,2,3 --workers 4
  lander terrain --seed 7
  lander stats autopilot`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagHz, "hz", 0, "Simulation rate in steps per second (0 = from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Level seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.lander/episodes.db", "Path to episodes database")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Difficulty preset (easy, normal, hard, fixed)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(terrainCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger builds the process logger from --log-level.
func newLogger() (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "lander",
		Level:           level,
	}), nil
}

// loadConfig loads the configuration and applies the global flag overrides.
func loadConfig() (config.LanderConfig, error) {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return cfg, err
	}

	preset, err := config.ParsePreset(flagPreset)
	if err != nil {
		return cfg, err
	}
	config.ApplyPreset(&cfg, preset)

	if flagHz != 0 {
		cfg.Simulation.TickRate = flagHz
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
