package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blast/internal/games/blast"
	"github.com/vovakirdan/tui-blast/internal/storage"
)

var flagReplayBoard bool

var replayCmd = &cobra.Command{
	Use:   "replay <run-id>",
	Short: "Re-simulate a recorded run",
	Long: `Load the level of a recorded run with its seed, apply every recorded tap
again and compare the board after each one with the journal. A run ID
prefix is enough when it is unique.

Exits with status 2 when the replay diverges.

Examples:
  blast replay 3f2a9c1e
  blast replay 3f2a --board`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagReplayBoard, "board", false, "Print the final board")
}

func runReplay(_ *cobra.Command, args []string) {
	cfg := loadConfig()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run journal: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	run, err := store.RunByID(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if run == nil {
		fmt.Fprintf(os.Stderr, "Error: no run matches %q\n", args[0])
		fmt.Fprintln(os.Stderr, "Run 'blast history' to see recorded runs.")
		os.Exit(1)
	}

	taps, err := store.Taps(run.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level, err := newLevelLoader(cfg).LoadByID(run.LevelID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	report := blast.Replay(cfg, level, run.Seed, taps, logger)

	fmt.Printf("Run %s - %s (seed %d)\n", run.ID, run.LevelID, run.Seed)
	fmt.Printf("Recorded: %d taps, outcome %s\n", len(taps), run.Outcome)
	fmt.Printf("Replayed: %d taps, condition %s\n", report.Applied, report.Condition)
	for _, d := range report.Diagnostics {
		fmt.Printf("  ! %s\n", d.Error())
	}

	if flagReplayBoard {
		fmt.Println()
		fmt.Println(report.Final.String())
	}

	if !report.Matches() {
		fmt.Println()
		fmt.Printf("DIVERGED at %s\n", report.Divergence)
		os.Exit(2)
	}
	fmt.Println()
	fmt.Println("OK: every tap reproduced the recorded board.")
}
