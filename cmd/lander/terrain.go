package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-lander/internal/platform/tui"
	"github.com/vovakirdan/tui-lander/internal/terrain"
)

var terrainCmd = &cobra.Command{
	Use:   "terrain",
	Short: "Generate a level and print its layout",
	Long: `Generate the level for a seed and print the pad placement, the start
location and statistics of the heightmap. The same seed always yields the
same level.

Examples:
  lander terrain --seed 7
  lander terrain --preset hard --seed 7`,
	Args: cobra.NoArgs,
	RunE: runTerrain,
}

func runTerrain(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	t, err := terrain.Generate(flagSeed, cfg.TerrainParams())
	if err != nil {
		return err
	}

	fmt.Println(tui.TerrainTable(t))
	if flagSeed == 0 {
		fmt.Printf("Rerun with --seed %d to get this level again.\n", t.Seed())
	}
	return nil
}
