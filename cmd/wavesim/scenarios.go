package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wavesim/internal/config"
	"github.com/vovakirdan/wavesim/internal/scenario"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List scenarios and presets",
	Long:  `Shows every registered scenario and the knob presets.`,
	Run:   runScenarios,
}

func runScenarios(cmd *cobra.Command, args []string) {
	list := scenario.List()

	fmt.Println("Scenarios:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, s := range list {
		maxIDLen = max(maxIDLen, len(s.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Description")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----------")
	for _, s := range list {
		fmt.Printf("  %-*s  %s\n", maxIDLen, s.ID, s.Description)
	}

	fmt.Println()
	fmt.Println("Presets:")
	fmt.Println()
	for _, p := range config.Presets {
		fmt.Printf("  %-*s  %s\n", maxIDLen, p, p.Describe())
	}

	fmt.Println()
	fmt.Println("Run 'wavesim run <id>' to open a scenario.")
}
