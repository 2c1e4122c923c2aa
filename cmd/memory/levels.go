package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/memory-match/internal/levels"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Show the level table",
	Long: `Shows, per difficulty, how many cards are active at each level and
how many points a match is worth there.`,
	Run: runLevels,
}

func runLevels(_ *cobra.Command, _ []string) {
	table := &cfg.Levels

	fmt.Printf("Level table (%s)\n", cfg.Source)

	for _, d := range levels.Difficulties() {
		fmt.Println()
		fmt.Printf("%s - %d per row\n", d, table.DisplayCount(d))
		fmt.Printf("  %-5s  %-6s  %s\n", "Level", "Cards", "Points")
		fmt.Printf("  %-5s  %-6s  %s\n", "-----", "-----", "------")
		for lvl := 1; lvl <= table.MaxLevel(d); lvl++ {
			fmt.Printf("  %-5d  %-6d  %d\n", lvl, table.ActiveCount(d, lvl), table.Points(d, lvl))
		}
	}

	fmt.Println()
	fmt.Println("Run 'memory play <difficulty>' to play.")
}
