package blast

import (
	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
	"github.com/vovakirdan/tui-blast/internal/storage"
)

// Journal records runs and their accepted taps.
type Journal interface {
	StartRun(levelID string, seed int64, moves int) (string, error)
	RecordTap(tap storage.Tap) error
	FinishRun(runID, outcome string) error
}

var _ Journal = (*storage.Store)(nil)

// runOutcome maps a session condition to the stored run outcome.
func runOutcome(c core.Condition) string {
	switch c {
	case core.Completed:
		return storage.OutcomeCompleted
	case core.OutOfMoves:
		return storage.OutcomeOutOfMoves
	default:
		return storage.OutcomeAbandoned
	}
}

// recorder tracks the journal run of the level being played. Journal
// failures are logged by the caller and never stop the game.
type recorder struct {
	journal Journal
	runID   string
	seq     int
}

func (r *recorder) start(levelID string, seed int64, moves int) error {
	r.runID, r.seq = "", 0
	if r.journal == nil {
		return nil
	}
	id, err := r.journal.StartRun(levelID, seed, moves)
	if err != nil {
		return err
	}
	r.runID = id
	return nil
}

func (r *recorder) tap(x, y int, res core.ActionResult, snap core.Snapshot) error {
	if r.journal == nil || r.runID == "" {
		return nil
	}
	r.seq++
	return r.journal.RecordTap(storage.Tap{
		RunID:     r.runID,
		Seq:       r.seq,
		X:         x,
		Y:         y,
		Removed:   len(res.Removed),
		MovesLeft: res.Moves,
		Snapshot:  snap,
	})
}

// finish closes the open run, if any.
func (r *recorder) finish(outcome string) error {
	if r.journal == nil || r.runID == "" {
		return nil
	}
	id := r.runID
	r.runID = ""
	return r.journal.FinishRun(id, outcome)
}
