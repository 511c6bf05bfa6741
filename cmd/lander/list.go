package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-lander/internal/platform/tui"
	"github.com/vovakirdan/tui-lander/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered controllers",
	Long:  `Shows a list of all controllers that can fly the lander.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	controllers := registry.List()

	if len(controllers) == 0 {
		fmt.Println("No controllers available.")
		return
	}

	fmt.Println("Available controllers:")
	fmt.Println(tui.ControllerTable(controllers))
	fmt.Println("Run 'lander run --controller <id>' to fly with one.")
}
