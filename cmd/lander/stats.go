package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-lander/internal/platform/tui"
	"github.com/vovakirdan/tui-lander/internal/registry"
	"github.com/vovakirdan/tui-lander/internal/storage"
)

var (
	flagStatsRecent int
	flagStatsClear  bool
	flagStatsBrowse bool
)

var statsCmd = &cobra.Command{
	Use:   "stats [controller]",
	Short: "Show stored outcome statistics",
	Long: `Display outcome counts, landing and success rates and rewards from the
episodes database. With a controller ID, also list its most recent episodes.

Examples:
  lander stats
  lander stats autopilot --recent 20
  lander stats random --clear
  lander stats --browse`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&flagStatsRecent, "recent", 10, "Recent episodes to list for a controller")
	statsCmd.Flags().BoolVar(&flagStatsClear, "clear", false, "Delete the stored episodes of the controller")
	statsCmd.Flags().BoolVar(&flagStatsBrowse, "browse", false, "Browse stored episodes interactively")
}

func runStats(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagStatsBrowse {
		return browse(store)
	}

	if len(args) == 0 {
		if flagStatsClear {
			return fmt.Errorf("--clear needs a controller")
		}
		all, err := store.GetAllControllerStats()
		if err != nil {
			return err
		}
		fmt.Println(tui.StatsTable(all))
		return nil
	}

	id := args[0]
	if flagStatsClear {
		if err := store.ClearEpisodes(id); err != nil {
			return err
		}
		fmt.Printf("Cleared stored episodes of %s.\n", id)
		return nil
	}

	stats, err := store.GetControllerStats(id)
	if err != nil {
		return err
	}
	if stats.Episodes == 0 {
		fmt.Printf("No episodes recorded for %s yet.\n", id)
		fmt.Printf("Run 'lander run --controller %s' to record some.\n", id)
		return nil
	}
	fmt.Println(tui.StatsTable(map[string]*storage.ControllerStats{id: stats}))

	recent, err := store.RecentEpisodes(id, flagStatsRecent)
	if err != nil {
		return err
	}
	fmt.Println(tui.RecordTable(recent))
	return nil
}

// browse opens the episode browser over registered controllers and any
// controller found in the database.
func browse(store *storage.Store) error {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("--browse needs a terminal")
	}

	controllers := registry.List()
	known := make(map[string]bool, len(controllers))
	for _, c := range controllers {
		known[c.ID] = true
	}
	stored, err := store.GetAllControllerStats()
	if err != nil {
		return err
	}
	for id := range stored {
		if !known[id] {
			controllers = append(controllers, registry.ControllerInfo{ID: id, Title: id})
		}
	}
	sort.Slice(controllers, func(i, j int) bool { return controllers[i].ID < controllers[j].ID })

	width, height := 100, 30
	if w, h, err := term.GetSize(fd); err == nil {
		width, height = w, h
	}
	return tui.RunBrowser(store, controllers, width, height)
}
