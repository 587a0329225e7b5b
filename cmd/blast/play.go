package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-blast/internal/core"
	"github.com/vovakirdan/tui-blast/internal/platform/tui"
)

var flagLogFile string

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play Blast",
	Long: `Start playing. Without a level ID the level menu opens; with one the
level starts directly.

Controls:
  Arrows/WASD/hjkl - Move the cursor
  Space/Enter      - Tap the tile under the cursor
  Mouse click      - Tap a tile
  N                - Next level (after completing one)
  R                - Restart the level
  P                - Pause
  Esc/B            - Back to the menu
  Q/Ctrl+C         - Quit
  Ctrl+S           - Save a text screenshot

Examples:
  blast play
  blast play level-02
  blast play level-01 --seed 42 --fps 60`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "~/.blast/blast.log", "Where to write logs while the game owns the terminal")
}

func runPlay(_ *cobra.Command, args []string) {
	redirectLog(flagLogFile)

	deps := newDeps(true)
	if deps.Store != nil {
		defer deps.Store.Close()
	}
	if len(deps.Levels) == 0 {
		logger.Warn("no levels found", "dir", deps.Config.LevelsDir)
	}

	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	if len(args) == 0 {
		if err := tui.RunSession(deps, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			os.Exit(1)
		}
		return
	}

	levelID := args[0]
	found := false
	for _, l := range deps.Levels {
		if l.ID == levelID {
			found = true
			break
		}
	}
	if !found {
		fmt.Fprintf(os.Stderr, "Error: unknown level %q\n", levelID)
		fmt.Fprintln(os.Stderr, "Run 'blast levels' to see available levels.")
		os.Exit(1)
	}
	cfg.StartLevel = levelID

	if _, err := tui.Run(deps.NewGame(), cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}

// redirectLog sends log output to a file so it does not tear the alt screen.
// On failure logging is left on stderr.
func redirectLog(path string) {
	if path == "" {
		return
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		path = filepath.Join(home, path[1:])
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Warn("cannot create log directory", "path", path, "err", err)
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		logger.Warn("cannot open log file", "path", path, "err", err)
		return
	}
	// The file stays open until the process exits.
	logger.SetOutput(f)
}
