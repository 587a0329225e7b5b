package core_test

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
)

func newResolver(seed int64) (*core.Resolver, *core.EventLog) {
	events := core.NewEventLog()
	opts := core.DefaultOptions()
	opts.Rand = rand.New(rand.NewSource(seed))
	opts.Listener = events
	return core.NewResolver(opts), events
}

func levelFromRows(moves int, goals map[core.Kind]int, rows ...string) core.LevelSpec {
	w, h, layout := core.MustParseRows(rows...)
	return core.LevelSpec{
		Width:  w,
		Height: h,
		Moves:  moves,
		Goals:  goals,
		Quotas: map[core.Kind]int{},
		Layout: layout,
	}
}

func countEvents(events []core.Event, typ core.EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

var scenarioA = []string{
	"GBGBG",
	"BGBGB",
	"GBGBG",
	"BGBGB",
	"RRRBG",
}

func TestScenarioPlainRemoval(t *testing.T) {
	for x := 0; x < 3; x++ {
		r, events := newResolver(int64(x + 1))
		if diags := r.Load(levelFromRows(10, map[core.Kind]int{core.KindRed: 10}, scenarioA...)); len(diags) != 0 {
			t.Fatalf("unexpected diagnostics: %v", diags)
		}
		events.Clear()

		res := r.HandleAction(x, 0)

		if !res.Accepted || res.Outcome != core.OutcomePlainRemoval {
			t.Fatalf("tap (%d,0): expected accepted plain removal, got %+v", x, res)
		}
		if len(res.Removed) != 3 {
			t.Errorf("tap (%d,0): expected 3 removals, got %d", x, len(res.Removed))
		}
		if res.SettlePasses != 1 {
			t.Errorf("tap (%d,0): expected 1 settling pass, got %d", x, res.SettlePasses)
		}
		if res.Spawned != 3 || res.Moved != 12 {
			t.Errorf("tap (%d,0): expected 3 spawned and 12 moved, got %d and %d", x, res.Spawned, res.Moved)
		}
		if res.Moves != 9 || r.Session().MovesRemaining() != 9 {
			t.Errorf("tap (%d,0): expected 9 moves left, got %d", x, res.Moves)
		}
		if got := r.Objectives().Remaining(core.KindRed); got != 7 {
			t.Errorf("tap (%d,0): expected 7 reds left, got %d", x, got)
		}
		if r.Grid().EmptyCount() != 0 {
			t.Errorf("tap (%d,0): board has gaps:\n%s", x, r.Grid())
		}
		if r.State() != core.StateIdle {
			t.Errorf("tap (%d,0): expected idle, got %s", x, r.State())
		}

		log := events.Drain()
		if countEvents(log, core.EventRemoved) != 1 {
			t.Errorf("tap (%d,0): expected one removal event, got %v", x, log)
		}
		if countEvents(log, core.EventMoved) != 12 || countEvents(log, core.EventSpawned) != 3 {
			t.Errorf("tap (%d,0): unexpected move/spawn events %v", x, log)
		}
		if countEvents(log, core.EventObjective) != 1 {
			t.Errorf("tap (%d,0): expected one objective event", x)
		}
	}
}

func TestScenarioSpecialSpawn(t *testing.T) {
	r, events := newResolver(5)
	r.Load(levelFromRows(10, map[core.Kind]int{core.KindRed: 10},
		"GBGBG",
		"BGBGB",
		"GBGBG",
		"RGBGB",
		"RRRRR",
	))
	events.Clear()

	res := r.HandleAction(2, 0)

	if res.Outcome != core.OutcomeSpecialSpawn {
		t.Fatalf("expected special spawn, got %s", res.Outcome)
	}
	if len(res.Removed) != 5 {
		t.Errorf("expected 5 removals, got %d", len(res.Removed))
	}
	tile := r.Grid().At(core.C(2, 0))
	if tile == nil || tile.Kind != core.KindRocket {
		t.Fatalf("expected rocket at tap cell, got %v", tile)
	}
	if tile.Orientation != core.Horizontal && tile.Orientation != core.Vertical {
		t.Errorf("rocket has no axis")
	}
	if r.Grid().Count(core.KindRocket) != 1 {
		t.Errorf("expected exactly one rocket, got %d", r.Grid().Count(core.KindRocket))
	}
	if res.Spawned != 5 {
		t.Errorf("expected 5 refilled cells, got %d", res.Spawned)
	}
	if got := r.Objectives().Remaining(core.KindRed); got != 5 {
		t.Errorf("expected red objective to drop by 5 to 5, got %d", got)
	}
	if got := countEvents(events.Drain(), core.EventSpawned); got != 6 {
		t.Errorf("expected rocket plus 5 refill spawn events, got %d", got)
	}
}

func TestScenarioRocketCombo(t *testing.T) {
	r, events := newResolver(11)
	r.Load(levelFromRows(10, nil,
		"GBGBG",
		"BGBGB",
		"GB-|G",
		"BGBGB",
		"GBGBG",
	))
	events.Clear()

	res := r.HandleAction(2, 2)

	if res.Outcome != core.OutcomeCombo {
		t.Fatalf("expected combo, got %s", res.Outcome)
	}
	if res.Fired != 1 || res.Triggered != 0 {
		t.Errorf("expected one combo resolution, got fired=%d triggered=%d", res.Fired, res.Triggered)
	}
	if got := countCause(res.Removed, core.CauseAbsorbed); got != 2 {
		t.Errorf("expected 2 absorbed rockets, got %d", got)
	}
	if got := countCause(res.Removed, core.CauseLineClear); got != 7 {
		t.Errorf("expected both axes cleared (7 tiles), got %d", got)
	}
	if r.Grid().Count(core.KindRocket) != 0 {
		t.Errorf("absorbed rocket left on the board:\n%s", r.Grid())
	}
	if got := countEvents(events.Drain(), core.EventRemoved); got != 2 {
		t.Errorf("expected absorb and clear removal events, got %d", got)
	}
}

func TestColorGroupComboWithRocket(t *testing.T) {
	r, _ := newResolver(2)
	r.Load(levelFromRows(10, map[core.Kind]int{core.KindRed: 20},
		"GBGBG",
		"BGBGB",
		"GBGBG",
		"B|BGB",
		"RRRRR",
	))

	res := r.HandleAction(1, 0)

	if res.Outcome != core.OutcomeCombo {
		t.Fatalf("expected combo, got %s", res.Outcome)
	}
	if got := countCause(res.Removed, core.CauseMatch); got != 5 {
		t.Errorf("expected whole group removed, got %d", got)
	}
	if got := countCause(res.Removed, core.CauseAbsorbed); got != 1 {
		t.Errorf("expected 1 absorbed rocket, got %d", got)
	}
	// column above (1,0): (1,2),(1,3),(1,4); row 0 already empty
	if got := countCause(res.Removed, core.CauseLineClear); got != 3 {
		t.Errorf("expected 3 line-clear removals, got %d", got)
	}
	if got := r.Objectives().Remaining(core.KindRed); got != 15 {
		t.Errorf("expected 15 reds left, got %d", got)
	}
}

func TestRocketTapChains(t *testing.T) {
	r, _ := newResolver(4)
	r.Load(levelFromRows(10, nil,
		"GBGBG",
		"BGBGB",
		"GBGBG",
		"BGBGB",
		"-BG|G",
	))

	res := r.HandleAction(0, 0)

	if res.Outcome != core.OutcomeRocket {
		t.Fatalf("expected rocket activation, got %s", res.Outcome)
	}
	if res.Fired != 2 || res.Triggered != 1 {
		t.Errorf("expected chained activation, got fired=%d triggered=%d", res.Fired, res.Triggered)
	}
	// row 0: 3 tiles; column 3: 4 tiles; both rockets
	if len(res.Removed) != 9 {
		t.Errorf("expected 9 removals, got %d", len(res.Removed))
	}
	if res.Moves != 9 {
		t.Errorf("chained rockets must consume one move, %d left", res.Moves)
	}
}

func TestScenarioLastMove(t *testing.T) {
	testCases := []struct {
		name     string
		goal     int
		expected core.Condition
	}{
		{"out of moves", 10, core.OutOfMoves},
		{"completed on last move", 3, core.Completed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, events := newResolver(8)
			r.Load(levelFromRows(1, map[core.Kind]int{core.KindRed: tc.goal}, scenarioA...))
			events.Clear()

			res := r.HandleAction(0, 0)

			if res.Condition != tc.expected || r.Session().Condition() != tc.expected {
				t.Errorf("expected %s, got %s", tc.expected, res.Condition)
			}
			if r.Session().MovesRemaining() != 0 {
				t.Errorf("expected 0 moves, got %d", r.Session().MovesRemaining())
			}
			if r.State() != core.StateBlocked {
				t.Errorf("expected blocked, got %s", r.State())
			}

			log := events.Drain()
			if countEvents(log, core.EventSessionEnded) != 1 {
				t.Errorf("expected one session end event, got %v", log)
			}

			if r.HandleAction(0, 0).Accepted || r.HandleAction(3, 3).Accepted {
				t.Error("blocked resolver accepted a tap")
			}
			if events.Len() != 0 {
				t.Errorf("rejected taps emitted %d events", events.Len())
			}
		})
	}
}

func TestRejectedTaps(t *testing.T) {
	r, events := newResolver(1)
	r.Load(levelFromRows(5, nil,
		"GBGB",
		"BGBG",
		"GBGB",
		"DOGB",
	))
	events.Clear()
	before := r.Snapshot()

	taps := []core.Coord{
		core.C(3, 3),  // single tile
		core.C(0, 0),  // duck
		core.C(1, 0),  // balloon
		core.C(-1, 2), // off board
		core.C(2, 9),
	}
	for _, c := range taps {
		if res := r.HandleAction(c.X, c.Y); res.Accepted {
			t.Errorf("tap %v was accepted", c)
		}
	}

	if diff := before.Diff(r.Snapshot()); diff != "" {
		t.Errorf("rejected taps changed state: %s", diff)
	}
	if events.Len() != 0 {
		t.Errorf("rejected taps emitted %d events", events.Len())
	}
}

func TestDuckReachesBottom(t *testing.T) {
	r, _ := newResolver(6)
	r.Load(levelFromRows(5, map[core.Kind]int{core.KindRed: 2, core.KindDuck: 1},
		"BGBG",
		"GBGB",
		"DGBG",
		"RRGB",
	))

	res := r.HandleAction(0, 0)

	if res.SettlePasses != 2 {
		t.Errorf("expected a second settling pass, got %d", res.SettlePasses)
	}
	if got := countCause(res.Removed, core.CauseBottom); got != 1 {
		t.Errorf("expected duck removed at the bottom, got %d", got)
	}
	if r.Grid().Count(core.KindDuck) != 0 {
		t.Errorf("duck still on board:\n%s", r.Grid())
	}
	if res.Condition != core.Completed {
		t.Errorf("duck removal should complete the level, got %s", res.Condition)
	}
	if res.Moves != 4 {
		t.Errorf("auto-removal must not consume moves, %d left", res.Moves)
	}
}

func TestBalloonPopsNextToMatch(t *testing.T) {
	r, _ := newResolver(6)
	r.Load(levelFromRows(5, map[core.Kind]int{core.KindBalloon: 1},
		"BGBG",
		"GBGB",
		"BGBG",
		"RROB",
	))

	res := r.HandleAction(1, 0)

	if got := countCause(res.Removed, core.CausePopped); got != 1 {
		t.Errorf("expected balloon popped, got %d", got)
	}
	if r.Objectives().Remaining(core.KindBalloon) != 0 {
		t.Error("balloon objective should be met")
	}
}

func TestLoadDiagnostics(t *testing.T) {
	r, _ := newResolver(1)
	diags := r.Load(core.LevelSpec{
		Width:  20,
		Height: 6,
		Moves:  0,
		Goals:  map[core.Kind]int{core.KindRocket: 2, core.KindRed: 4},
		Layout: []core.Placement{
			{At: core.C(30, 0), Kind: core.KindRed},
			{At: core.C(1, 1), Kind: core.Kind(99)},
			{At: core.C(2, 2), Kind: core.KindBlue},
			{At: core.C(2, 2), Kind: core.KindGreen},
		},
	})

	codes := make(map[string]bool)
	for _, d := range diags {
		codes[d.Code] = true
	}
	for _, code := range []string{
		core.DiagSizeClamped,
		core.DiagLayoutOutOfBounds,
		core.DiagUnknownKind,
		core.DiagUntrackableGoal,
		core.DiagNoMoves,
		core.DiagDuplicateLayout,
	} {
		if !codes[code] {
			t.Errorf("missing diagnostic %s in %v", code, diags)
		}
	}

	if r.Grid().W != 12 || r.Grid().H != 6 {
		t.Errorf("expected 12x6 board, got %dx%d", r.Grid().W, r.Grid().H)
	}
	if r.Grid().EmptyCount() != 0 {
		t.Error("skipped entries must be filled by the generator")
	}
	if tile := r.Grid().At(core.C(2, 2)); tile == nil || tile.Kind != core.KindBlue {
		t.Errorf("first layout entry should win, got %v", tile)
	}
	if r.Objectives().Tracks(core.KindRocket) {
		t.Error("rocket goal must be skipped")
	}
	if r.State() != core.StateBlocked || r.Session().Condition() != core.OutOfMoves {
		t.Errorf("level without moves should start blocked, got %s/%s", r.State(), r.Session().Condition())
	}
}

func TestLayoutHonoured(t *testing.T) {
	r, _ := newResolver(3)
	spec := core.LevelSpec{
		Width:  6,
		Height: 6,
		Moves:  5,
		Layout: []core.Placement{
			{At: core.C(0, 0), Kind: core.KindPurple},
			{At: core.C(5, 5), Kind: core.KindDuck},
			{At: core.C(3, 2), Kind: core.KindRocket, Orientation: core.Vertical},
		},
	}
	r.Load(spec)

	for _, p := range spec.Layout {
		tile := r.Grid().At(p.At)
		if tile == nil || tile.Kind != p.Kind {
			t.Errorf("at %v: expected %s, got %v", p.At, p.Kind, tile)
		}
	}
	if r.Grid().At(core.C(3, 2)).Orientation != core.Vertical {
		t.Error("explicit rocket orientation not kept")
	}
}

func TestDeterministicReplay(t *testing.T) {
	spec := core.LevelSpec{Width: 7, Height: 7, Moves: 40}
	a, _ := newResolver(99)
	b, _ := newResolver(99)
	a.Load(spec)
	b.Load(spec)

	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 40; i++ {
		x, y := rng.Intn(7), rng.Intn(7)
		ra := a.HandleAction(x, y)
		rb := b.HandleAction(x, y)
		if ra.Accepted != rb.Accepted || len(ra.Removed) != len(rb.Removed) {
			t.Fatalf("tap %d diverged: %+v vs %+v", i, ra, rb)
		}
		if diff := a.Snapshot().Diff(b.Snapshot()); diff != "" {
			t.Fatalf("tap %d diverged: %s", i, diff)
		}
	}
}

func TestMoveBudgetOncePerAcceptedAction(t *testing.T) {
	r, _ := newResolver(21)
	r.Load(core.LevelSpec{
		Width:  8,
		Height: 8,
		Moves:  500,
		Goals:  map[core.Kind]int{core.KindDuck: 30, core.KindBalloon: 30},
	})

	rng := rand.New(rand.NewSource(17))
	for i := 0; i < 300; i++ {
		before := r.Session().MovesRemaining()
		res := r.HandleAction(rng.Intn(8), rng.Intn(8))
		after := r.Session().MovesRemaining()

		if res.Accepted && after != before-1 {
			t.Fatalf("tap %d: accepted action moved budget %d -> %d", i, before, after)
		}
		if !res.Accepted && after != before {
			t.Fatalf("tap %d: rejected action moved budget %d -> %d", i, before, after)
		}
		if r.Grid().EmptyCount() != 0 {
			t.Fatalf("tap %d: board left with gaps", i)
		}
		for x := 0; x < 8; x++ {
			if tile := r.Grid().At(core.C(x, 0)); tile != nil && tile.Kind == core.KindDuck {
				t.Fatalf("tap %d: duck resting on row 0", i)
			}
		}
		if r.Session().Condition().Terminal() {
			break
		}
	}
}

// tapDuringCascade taps the board from inside a notification.
type tapDuringCascade struct {
	core.NopListener
	r       *core.Resolver
	states  []string
	results []core.ActionResult
}

func (l *tapDuringCascade) OnTilesRemoved([]core.Removal) {
	l.states = append(l.states, l.r.State())
	l.results = append(l.results, l.r.HandleAction(4, 4))
}

func TestTapDuringCascadeIgnored(t *testing.T) {
	r, _ := newResolver(12)
	r.Load(levelFromRows(10, nil, scenarioA...))
	l := &tapDuringCascade{r: r}
	r.SetListener(l)

	res := r.HandleAction(0, 0)

	if !res.Accepted {
		t.Fatal("outer tap should be accepted")
	}
	if len(l.results) == 0 {
		t.Fatal("listener was not notified")
	}
	for i, inner := range l.results {
		if inner.Accepted {
			t.Errorf("tap during %s was accepted", l.states[i])
		}
	}
	if l.states[0] != core.StateResolving {
		t.Errorf("expected removal notified while resolving, got %s", l.states[0])
	}
	if r.Session().MovesRemaining() != 9 {
		t.Errorf("expected a single move consumed, %d left", r.Session().MovesRemaining())
	}
}

// reloadOnRemove reloads the level on the first removal and counts every
// notification that arrives afterwards.
type reloadOnRemove struct {
	r        *core.Resolver
	spec     core.LevelSpec
	reloaded bool
	after    int
}

func (l *reloadOnRemove) OnTilesRemoved([]core.Removal) {
	if !l.reloaded {
		l.reloaded = true
		l.r.Load(l.spec)
		return
	}
	l.after++
}
func (l *reloadOnRemove) OnTileSpawned(core.Tile, core.Coord)           { l.count() }
func (l *reloadOnRemove) OnTileMoved(core.Tile, core.Coord, core.Coord) { l.count() }
func (l *reloadOnRemove) OnObjectiveChanged(core.Kind, int)             { l.count() }
func (l *reloadOnRemove) OnSessionEnded(core.Condition)                 { l.count() }

func (l *reloadOnRemove) count() {
	if l.reloaded {
		l.after++
	}
}

func TestReloadDiscardsCascade(t *testing.T) {
	spec := levelFromRows(1, map[core.Kind]int{core.KindRed: 3}, scenarioA...)
	r, _ := newResolver(13)
	r.Load(spec)
	l := &reloadOnRemove{r: r, spec: spec}
	r.SetListener(l)

	res := r.HandleAction(0, 0)

	if res.Accepted {
		t.Error("cascade interrupted by reload should not be committed")
	}
	if l.after != 0 {
		t.Errorf("expected no notifications after reload, got %d", l.after)
	}
	if r.Session().MovesRemaining() != 1 || r.Session().Condition() != core.Ongoing {
		t.Errorf("reloaded session should be fresh, got %d moves %s", r.Session().MovesRemaining(), r.Session().Condition())
	}
	if r.Objectives().Remaining(core.KindRed) != 3 {
		t.Errorf("reloaded objectives should be fresh, got %d", r.Objectives().Remaining(core.KindRed))
	}
	if r.State() != core.StateIdle {
		t.Errorf("expected idle after reload, got %s", r.State())
	}

	r.SetListener(nil)
	if !r.HandleAction(0, 0).Accepted {
		t.Error("reloaded level should accept taps")
	}
}

func TestSettlePassLimitStillClearsDucks(t *testing.T) {
	events := core.NewEventLog()
	opts := core.DefaultOptions()
	opts.Rand = rand.New(rand.NewSource(3))
	opts.Listener = events
	opts.MinSize = 1
	opts.MaxSettlePasses = 1
	r := core.NewResolver(opts)

	r.Load(levelFromRows(5, map[core.Kind]int{core.KindDuck: 4},
		"DD",
		"DD",
		"RR",
	))
	events.Clear()

	res := r.HandleAction(0, 0)

	if !res.Accepted {
		t.Fatal("tap on the red pair should be accepted")
	}
	if res.SettlePasses != 3 {
		t.Errorf("expected settling to continue past the limit, got %d passes", res.SettlePasses)
	}
	if got := countCause(res.Removed, core.CauseBottom); got != 4 {
		t.Errorf("expected every duck removed at the bottom, got %d", got)
	}
	if r.Grid().Count(core.KindDuck) != 0 || r.Grid().EmptyCount() != 0 {
		t.Errorf("board should be full and duck-free:\n%s", r.Grid())
	}

	log := events.Drain()
	if got := countEvents(log, core.EventMoved); got != res.Moved {
		t.Errorf("every move must be notified: %d events for %d moves", got, res.Moved)
	}
	if got := countEvents(log, core.EventSpawned); got != res.Spawned {
		t.Errorf("every spawn must be notified: %d events for %d spawns", got, res.Spawned)
	}
	if res.Condition != core.Completed {
		t.Errorf("removing all ducks should complete the level, got %s", res.Condition)
	}
}

func TestReloadAfterSessionEnded(t *testing.T) {
	r, events := newResolver(8)
	spec := levelFromRows(1, map[core.Kind]int{core.KindRed: 10}, scenarioA...)
	r.Load(spec)

	if !r.HandleAction(0, 0).Accepted || r.State() != core.StateBlocked {
		t.Fatalf("last move should block the resolver, state %s", r.State())
	}

	events.Clear()
	if diags := r.Load(spec); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if r.State() != core.StateIdle {
		t.Fatalf("reload should return to idle, got %s", r.State())
	}
	if events.Len() != 0 {
		t.Errorf("loading emitted %d events", events.Len())
	}
	if !r.HandleAction(0, 0).Accepted {
		t.Error("reloaded level should accept taps")
	}
}

func TestLoadWithoutMovesStartsBlocked(t *testing.T) {
	r, events := newResolver(2)
	r.Load(levelFromRows(5, nil, scenarioA...))

	events.Clear()
	r.Load(levelFromRows(0, nil, scenarioA...))

	if r.State() != core.StateBlocked {
		t.Errorf("expected blocked, got %s", r.State())
	}
	if r.Session().Condition() != core.OutOfMoves {
		t.Errorf("expected out of moves, got %s", r.Session().Condition())
	}
	if events.Len() != 0 {
		t.Errorf("loading a blocked level emitted %d events", events.Len())
	}
	if r.HandleAction(0, 0).Accepted {
		t.Error("blocked level accepted a tap")
	}
}
