package blast

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blast/internal/config"
	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast/levels"
	"github.com/vovakirdan/tui-blast/internal/storage"
)

// Divergence is the first recorded tap whose re-simulation did not match.
type Divergence struct {
	Seq    int
	X, Y   int
	Reason string
}

func (d Divergence) String() string {
	return fmt.Sprintf("tap %d at (%d,%d): %s", d.Seq, d.X, d.Y, d.Reason)
}

// ReplayReport summarises a replay.
type ReplayReport struct {
	Applied     int
	Divergence  *Divergence
	Final       core.Snapshot
	Condition   core.Condition
	Diagnostics []core.Diagnostic
}

// Matches reports whether every tap reproduced the recorded state.
func (r ReplayReport) Matches() bool {
	return r.Divergence == nil
}

// Replay loads level with seed, re-applies the recorded taps in order and
// compares each resulting snapshot with the recorded one. It stops at the
// first divergence.
func Replay(cfg config.BlastConfig, level levels.Level, seed int64, taps []storage.Tap, logger *log.Logger) ReplayReport {
	cfg.Validate()
	r := NewResolver(cfg, seed, logger)
	report := ReplayReport{Diagnostics: r.Load(level.Spec())}

	for _, tap := range taps {
		res := r.HandleAction(tap.X, tap.Y)
		if !res.Accepted {
			report.Divergence = &Divergence{Seq: tap.Seq, X: tap.X, Y: tap.Y, Reason: "tap rejected"}
			break
		}
		report.Applied++
		if diff := r.Snapshot().Diff(tap.Snapshot); diff != "" {
			report.Divergence = &Divergence{Seq: tap.Seq, X: tap.X, Y: tap.Y, Reason: diff}
			break
		}
	}

	report.Final = r.Snapshot()
	report.Condition = r.Session().Condition()
	return report
}
