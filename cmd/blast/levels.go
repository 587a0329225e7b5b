package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blast/internal/games/blast/levels"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the available levels",
	Long: `Shows every level found in the level directory with its board size,
move budget and goals. Problems found while parsing a level are listed
under it.

Examples:
  blast levels
  blast levels --levels ./my-levels`,
	Args: cobra.NoArgs,
	Run:  runLevels,
}

func runLevels(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	lvls := loadLevels(cfg)

	if len(lvls) == 0 {
		fmt.Printf("No levels found in %s.\n", cfg.LevelsDir)
		return
	}

	fmt.Println("Available levels:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, l := range lvls {
		if len(l.ID) > maxIDLen {
			maxIDLen = len(l.ID)
		}
	}

	fmt.Printf("  %-*s  %-5s  %-5s  %-20s  %s\n", maxIDLen, "ID", "Size", "Moves", "Name", "Goals")
	fmt.Printf("  %-*s  %-5s  %-5s  %-20s  %s\n", maxIDLen, "--", "----", "-----", "----", "-----")

	for _, l := range lvls {
		size := fmt.Sprintf("%dx%d", l.Width, l.Height)
		fmt.Printf("  %-*s  %-5s  %-5d  %-20s  %s\n", maxIDLen, l.ID, size, l.Moves, l.Name, formatGoals(l))
		for _, d := range l.Diagnostics {
			fmt.Printf("  %-*s  ! %s\n", maxIDLen, "", d.Error())
		}
	}

	fmt.Println()
	fmt.Println("Run 'blast play <id>' to play a level.")
}

func formatGoals(l levels.Level) string {
	if len(l.Goals) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(l.Goals))
	for _, k := range slices.Sorted(maps.Keys(l.Goals)) {
		parts = append(parts, fmt.Sprintf("%s x%d", k, l.Goals[k]))
	}
	return strings.Join(parts, ", ")
}
