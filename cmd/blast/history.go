package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-blast/internal/platform/tui"
	"github.com/vovakirdan/tui-blast/internal/storage"
)

var (
	flagHistoryLimit int
	flagHistoryLevel string
	flagHistoryTable bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded runs",
	Long: `Display the most recent runs from the journal, newest first.

Examples:
  blast history
  blast history --level level-02 --limit 5
  blast history --tui`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of runs to show")
	historyCmd.Flags().StringVar(&flagHistoryLevel, "level", "", "Only show runs of this level")
	historyCmd.Flags().BoolVar(&flagHistoryTable, "tui", false, "Browse the history in an interactive table")
}

func runHistory(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run journal: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagHistoryTable {
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
			height = h
		}
		if _, err := tui.RunHistory(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	runs, err := store.RecentRuns(flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	filtered := runs[:0]
	for _, r := range runs {
		if flagHistoryLevel == "" || r.LevelID == flagHistoryLevel {
			filtered = append(filtered, r)
		}
	}

	if len(filtered) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'blast play' to start the journal!")
		return
	}

	fmt.Printf("  %-8s  %-16s  %-12s  %-4s  %-5s  %s\n", "Run", "Level", "Outcome", "Taps", "Moves", "Date")
	fmt.Printf("  %-8s  %-16s  %-12s  %-4s  %-5s  %s\n", "---", "-----", "-------", "----", "-----", "----")

	for _, r := range filtered {
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		dateStr := "-"
		if !r.CreatedAt.IsZero() {
			dateStr = r.CreatedAt.Format("2006-01-02 15:04")
		}
		fmt.Printf("  %-8s  %-16s  %-12s  %-4d  %-5d  %s\n", id, r.LevelID, r.Outcome, r.Taps, r.Moves, dateStr)
	}

	fmt.Println()
	fmt.Println("Run 'blast replay <run>' to verify a run.")
}
