// blast is a terminal tile-matching puzzle: tap groups of same-colored
// tiles, fire rockets and clear the level goals before the moves run out.
//
// Usage:
//
//	blast play [level]        - Play from the level menu, or a level directly
//	blast levels              - List the levels and their diagnostics
//	blast history             - Show the recorded runs
//	blast replay <run-id>     - Re-simulate a recorded run and check it
//	blast serve               - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>         - Presentation tick rate (default: 30)
//	--seed <value>       - RNG seed for reproducible boards
//	--db <path>          - Journal database (default: ~/.blast/journal.db)
//	--config <path>      - Custom blast.yaml
//	--levels <dir>       - Level directory (overrides the config)
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blast/internal/config"
	"github.com/vovakirdan/tui-blast/internal/games/blast/levels"
	"github.com/vovakirdan/tui-blast/internal/platform/tui"
	"github.com/vovakirdan/tui-blast/internal/storage"
)

var (
	// Global flags
	flagFPS       int
	flagSeed      int64
	flagDBPath    string
	flagConfig    string
	flagLevelsDir string
	flagLogLevel  string
)

var logger *log.Logger

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blast",
	Short: "Blast - a tile-matching puzzle for your terminal",
	Long: `Blast is a tile-matching puzzle that runs in the terminal.

Tap a group of two or more same-colored tiles to clear it. Groups of five
or more leave a rocket behind; tapping a rocket clears its whole row or
column. Meet every level goal before the moves run out.

Available commands:
  play     - Play a level (menu when no level is given)
  levels   - List the available levels
  history  - Show recorded runs
  replay   - Verify a recorded run against the simulation
  serve    - Start SSH server for remote play

Examples:
  blast play
  blast play level-01 --seed 42
  blast levels --levels ./levels
  blast replay 3f2a9c1e
  blast serve --ssh :2222`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger = newLogger(flagLogLevel)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Presentation tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.blast/journal.db", "Path to the run journal database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom blast.yaml")
	rootCmd.PersistentFlags().StringVar(&flagLevelsDir, "levels", "", "Level directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger builds the stderr logger. An empty or unknown level means info.
func newLogger(level string) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "blast",
	})
	if level == "" {
		return l
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		l.Warn("unknown log level, using info", "level", level)
		return l
	}
	l.SetLevel(lvl)
	return l
}

// loadConfig loads blast.yaml and applies the flag overrides.
func loadConfig() config.BlastConfig {
	cfg, err := config.LoadBlast(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flagLevelsDir != "" {
		cfg.LevelsDir = flagLevelsDir
	}
	if flagLogLevel == "" {
		if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
			logger.SetLevel(lvl)
		}
	}
	return cfg
}

func newLevelLoader(cfg config.BlastConfig) *levels.Loader {
	loader := levels.NewLoader(cfg.LevelsDir)
	loader.Logger = logger
	return loader
}

// loadLevels loads every level in the configured directory.
func loadLevels(cfg config.BlastConfig) []levels.Level {
	lvls, err := newLevelLoader(cfg).LoadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading levels: %v\n", err)
		os.Exit(1)
	}
	return lvls
}

// openStore opens the journal. Playing works without one, so failures are
// only logged.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open run journal, runs will not be recorded", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

// newDeps gathers everything a session needs.
func newDeps(withStore bool) tui.Deps {
	cfg := loadConfig()
	deps := tui.Deps{
		Config: cfg,
		Levels: loadLevels(cfg),
		Logger: logger,
	}
	if withStore {
		deps.Store = openStore()
	}
	return deps
}
