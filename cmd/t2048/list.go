package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tile2048/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List autoplay strategies",
	Long:  `Shows the strategies 'play --strategy' accepts.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

func runList(cmd *cobra.Command, _ []string) {
	strategies := registry.List()
	if len(strategies) == 0 {
		fmt.Println("No strategies available.")
		return
	}

	defaultID := playCmd.Flags().Lookup("strategy").DefValue

	fmt.Println("Autoplay strategies:")
	fmt.Println()
	for _, s := range strategies {
		name := s.Title
		if s.ID == defaultID {
			name += " (default)"
		}
		fmt.Printf("  %s - %s\n", s.ID, name)
		fmt.Printf("      %s", s.Description)
		if s.Seeded {
			fmt.Print("; follows --seed")
		}
		fmt.Println()
	}

	fmt.Println()
	fmt.Println("Run 't2048 play --strategy <id>' to watch one play.")
}
