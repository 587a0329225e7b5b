package blast

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	platformcore "github.com/vovakirdan/tui-blast/internal/core"
	"github.com/vovakirdan/tui-blast/internal/config"
	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast/levels"
	"github.com/vovakirdan/tui-blast/internal/storage"
)

type fakeJournal struct {
	started  []string
	taps     []storage.Tap
	finished map[string]string
	nextID   int
}

func (j *fakeJournal) StartRun(levelID string, seed int64, moves int) (string, error) {
	j.nextID++
	id := levelID + "-run-" + string(rune('0'+j.nextID))
	j.started = append(j.started, id)
	return id, nil
}

func (j *fakeJournal) RecordTap(tap storage.Tap) error {
	j.taps = append(j.taps, tap)
	return nil
}

func (j *fakeJournal) FinishRun(runID, outcome string) error {
	if j.finished == nil {
		j.finished = make(map[string]string)
	}
	j.finished[runID] = outcome
	return nil
}

func testLevel(id string, moves int, goals map[core.Kind]int, rows ...string) levels.Level {
	w, h, layout := core.MustParseRows(rows...)
	return levels.Level{
		ID:     id,
		Name:   id,
		Number: 1,
		Width:  w,
		Height: h,
		Moves:  moves,
		Goals:  goals,
		Quotas: map[core.Kind]int{},
		Layout: layout,
	}
}

// quickRows has a single red group of four in the bottom-left corner.
var quickRows = []string{
	"GBGB",
	"BGBG",
	"RRGB",
	"RRBG",
}

// twoGroupRows has a red pair on the bottom row and a red block of four at the top.
var twoGroupRows = []string{
	"RRGB",
	"RRBG",
	"GBGB",
	"RRBG",
}

func instantConfig() config.BlastConfig {
	cfg := config.DefaultBlastConfig()
	cfg.Presentation = config.PresentationConfig{}
	return cfg
}

func newTestGame(cfg config.BlastConfig, j Journal, lvls ...levels.Level) *Game {
	g := New(Options{Config: cfg, Levels: lvls, Journal: j})
	g.Reset(platformcore.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 7})
	return g
}

func frame(actions ...platformcore.Action) platformcore.InputFrame {
	f := platformcore.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

func TestGameCompletesLevelWithKeyboard(t *testing.T) {
	j := &fakeJournal{}
	g := newTestGame(instantConfig(), j, testLevel("quick", 5, map[core.Kind]int{core.KindRed: 4}, quickRows...))

	if g.Cursor() != core.C(2, 2) {
		t.Fatalf("cursor should start in the middle, got %s", g.Cursor())
	}
	for i := 0; i < 2; i++ {
		g.Step(frame(platformcore.ActionLeft, platformcore.ActionDown))
	}
	if g.Cursor() != core.C(0, 0) {
		t.Fatalf("cursor = %s, expected (0,0)", g.Cursor())
	}
	// Moving past the edge clamps.
	g.Step(frame(platformcore.ActionLeft))
	if g.Cursor() != core.C(0, 0) {
		t.Fatalf("cursor should clamp at the edge, got %s", g.Cursor())
	}

	g.Step(frame(platformcore.ActionConfirm))
	if !g.LastAction().Accepted || len(g.LastAction().Removed) != 4 {
		t.Fatalf("tap should remove the red group, got %+v", g.LastAction())
	}

	st := g.Step(platformcore.NewInputFrame()).State
	if !st.GameOver || !st.Won {
		t.Fatalf("level should be won after the animation, state %+v", st)
	}
	if st.Score != 4*pointsPerTile {
		t.Errorf("score = %d, expected %d", st.Score, 4*pointsPerTile)
	}
	if st.MovesLeft != 4 {
		t.Errorf("moves left = %d, expected 4", st.MovesLeft)
	}

	if len(j.started) != 1 || len(j.taps) != 1 {
		t.Fatalf("journal should hold one run with one tap, got %v / %d taps", j.started, len(j.taps))
	}
	tap := j.taps[0]
	if tap.Seq != 1 || tap.X != 0 || tap.Y != 0 || tap.Removed != 4 || tap.MovesLeft != 4 {
		t.Errorf("unexpected tap record %+v", tap)
	}
	if tap.Snapshot.Condition != core.Completed {
		t.Errorf("tap snapshot should record completion, got %s", tap.Snapshot.Condition)
	}
	if j.finished[j.started[0]] != storage.OutcomeCompleted {
		t.Errorf("run outcome = %q, expected completed", j.finished[j.started[0]])
	}

	// Taps after the end are ignored.
	g.Step(frame(platformcore.ActionConfirm))
	if len(j.taps) != 1 {
		t.Error("taps after completion should be ignored")
	}

	// Next past the last level clears the game.
	st = g.Step(frame(platformcore.ActionNext)).State
	if !st.Won || !st.GameOver {
		t.Errorf("expected all levels cleared, got %+v", st)
	}
}

func TestGameNextLevel(t *testing.T) {
	first := testLevel("first", 5, map[core.Kind]int{core.KindRed: 4}, quickRows...)
	second := testLevel("second", 5, map[core.Kind]int{core.KindRed: 6}, twoGroupRows...)
	g := newTestGame(instantConfig(), nil, first, second)

	// Next is ignored until the level is won.
	g.Step(frame(platformcore.ActionNext))
	if st := g.State(); st.Level != "first" {
		t.Fatalf("Next before winning should be ignored, level %q", st.Level)
	}

	x, y := g.layout.screenPos(core.C(0, 0))
	f := platformcore.NewInputFrame()
	f.SetPointer(x+1, y)
	g.Step(f)
	g.Step(platformcore.NewInputFrame())

	st := g.Step(frame(platformcore.ActionNext)).State
	if st.Level != "second" || st.GameOver {
		t.Fatalf("expected to be playing the second level, got %+v", st)
	}
	if st.Score != 4*pointsPerTile {
		t.Errorf("score should carry over, got %d", st.Score)
	}
}

func TestGameStartLevel(t *testing.T) {
	first := testLevel("first", 5, map[core.Kind]int{core.KindRed: 4}, quickRows...)
	second := testLevel("second", 5, map[core.Kind]int{core.KindRed: 6}, twoGroupRows...)
	g := New(Options{Config: instantConfig(), Levels: []levels.Level{first, second}})
	g.Reset(platformcore.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1, StartLevel: "second"})

	if st := g.State(); st.Level != "second" {
		t.Errorf("StartLevel should pick the second level, got %q", st.Level)
	}
}

func TestGamePointerTap(t *testing.T) {
	g := newTestGame(instantConfig(), nil, testLevel("quick", 5, map[core.Kind]int{core.KindRed: 4}, quickRows...))

	x, y := g.layout.screenPos(core.C(1, 1))
	f := platformcore.NewInputFrame()
	f.SetPointer(x+1, y)
	g.Step(f)

	if g.Cursor() != core.C(1, 1) {
		t.Errorf("pointer tap should move the cursor, got %s", g.Cursor())
	}
	if !g.LastAction().Accepted {
		t.Fatal("pointer tap on the red group should be accepted")
	}

	// Clicks outside the board do nothing.
	g2 := newTestGame(instantConfig(), nil, testLevel("quick", 5, map[core.Kind]int{core.KindRed: 4}, quickRows...))
	f = platformcore.NewInputFrame()
	f.SetPointer(0, 0)
	g2.Step(f)
	if g2.LastAction().Accepted {
		t.Error("click on the HUD should not tap")
	}
}

func TestGameBlocksTapsWhileAnimating(t *testing.T) {
	cfg := instantConfig()
	cfg.Presentation.PopTicks = 5
	cfg.Presentation.FallTicks = 5
	g := newTestGame(cfg, nil, testLevel("two", 10, map[core.Kind]int{core.KindRed: 20}, twoGroupRows...))

	g.cursor = core.C(0, 0)
	g.Step(frame(platformcore.ActionConfirm))
	if !g.LastAction().Accepted {
		t.Fatal("first tap should be accepted")
	}
	moves := g.State().MovesLeft
	if !g.State().Busy {
		t.Fatal("game should be busy while the cascade plays")
	}

	g.cursor = core.C(0, 3)
	g.Step(frame(platformcore.ActionConfirm))
	if g.State().MovesLeft != moves {
		t.Error("tap during animation should be ignored")
	}

	for i := 0; i < 20 && g.State().Busy; i++ {
		g.Step(platformcore.NewInputFrame())
	}
	if g.State().Busy {
		t.Fatal("animation should finish")
	}
}

func TestGameRestartAbandonsRun(t *testing.T) {
	j := &fakeJournal{}
	g := newTestGame(instantConfig(), j, testLevel("two", 10, map[core.Kind]int{core.KindRed: 20}, twoGroupRows...))
	seed := g.Seed()

	g.Step(frame(platformcore.ActionRestart))

	if len(j.started) != 2 {
		t.Fatalf("restart should start a new run, got %v", j.started)
	}
	if j.finished[j.started[0]] != storage.OutcomeAbandoned {
		t.Errorf("restarted run should be abandoned, got %q", j.finished[j.started[0]])
	}
	if g.Seed() == seed {
		t.Error("restart should draw a new level seed")
	}

	g.Close()
	if j.finished[j.started[1]] != storage.OutcomeAbandoned {
		t.Error("Close should abandon the open run")
	}
}

func TestGamePause(t *testing.T) {
	g := newTestGame(instantConfig(), nil, testLevel("quick", 5, map[core.Kind]int{core.KindRed: 4}, quickRows...))

	g.Step(frame(platformcore.ActionPause))
	g.cursor = core.C(0, 0)
	g.Step(frame(platformcore.ActionConfirm))
	if g.LastAction().Accepted {
		t.Error("taps while paused should be ignored")
	}

	g.Step(frame(platformcore.ActionPause))
	g.Step(frame(platformcore.ActionConfirm))
	if !g.LastAction().Accepted {
		t.Error("tap after unpausing should be accepted")
	}
}

func TestGameNoMovesEndsImmediately(t *testing.T) {
	j := &fakeJournal{}
	g := newTestGame(instantConfig(), j, testLevel("dry", 0, map[core.Kind]int{core.KindRed: 4}, quickRows...))

	if len(g.Diagnostics()) == 0 || g.Diagnostics()[0].Code != core.DiagNoMoves {
		t.Fatalf("expected a NO_MOVES diagnostic, got %v", g.Diagnostics())
	}
	st := g.State()
	if !st.GameOver || st.Won {
		t.Errorf("level without moves should be lost at once, got %+v", st)
	}
	if j.finished[j.started[0]] != storage.OutcomeOutOfMoves {
		t.Errorf("run outcome = %q", j.finished[j.started[0]])
	}
}

func TestGameRender(t *testing.T) {
	g := newTestGame(instantConfig(), nil, testLevel("quick", 5, map[core.Kind]int{core.KindRed: 4}, quickRows...))
	screen := platformcore.NewScreen(80, 24)
	g.Render(screen)

	if !strings.Contains(screen.Row(0), "Blast") || !strings.Contains(screen.Row(0), "Moves: 5") {
		t.Errorf("HUD row = %q", screen.Row(0))
	}
	if !strings.Contains(screen.Row(2), "4") {
		t.Errorf("goal row should list the red goal, got %q", screen.Row(2))
	}

	// Bottom-left tile is red and drawn on the lowest board row.
	x, y := g.layout.screenPos(core.C(0, 0))
	if c := screen.GetCell(x+1, y); c.Rune != '●' || c.Color != platformcore.ColorRed {
		t.Errorf("cell (0,0) drawn as %+v", c)
	}
	// Top-left tile is green.
	x, y = g.layout.screenPos(core.C(0, 3))
	if c := screen.GetCell(x+1, y); c.Color != platformcore.ColorGreen {
		t.Errorf("cell (0,3) drawn as %+v", c)
	}
	// Cursor brackets.
	x, y = g.layout.screenPos(g.Cursor())
	if screen.Get(x, y) != '[' || screen.Get(x+2, y) != ']' {
		t.Error("cursor should be drawn around its cell")
	}
}

func TestGameRenderTooSmall(t *testing.T) {
	g := New(Options{Config: instantConfig(), Levels: []levels.Level{
		testLevel("quick", 5, map[core.Kind]int{core.KindRed: 4}, quickRows...),
	}})
	g.Reset(platformcore.RuntimeConfig{ScreenW: 10, ScreenH: 6, Seed: 1})

	screen := platformcore.NewScreen(40, 12)
	g.Render(screen)
	if !strings.Contains(screen.String(), "too small") {
		t.Error("expected the too-small overlay")
	}

	g.Resize(80, 24)
	screen.Resize(80, 24)
	g.Render(screen)
	if strings.Contains(screen.String(), "too small") {
		t.Error("resize should restore the board")
	}
}

func TestGameWithoutLevels(t *testing.T) {
	g := newTestGame(instantConfig(), nil)
	screen := platformcore.NewScreen(80, 24)
	g.Step(frame(platformcore.ActionConfirm, platformcore.ActionRestart))
	g.Render(screen)
	if !strings.Contains(screen.String(), "No levels found") {
		t.Error("expected the no-levels overlay")
	}
}

func TestLayoutCellAt(t *testing.T) {
	l := layout{board: platformcore.NewRect(10, 5, 4*cellW, 3), w: 4, h: 3}

	tests := []struct {
		sx, sy int
		want   core.Coord
		hit    bool
	}{
		{10, 7, core.C(0, 0), true},
		{12, 7, core.C(0, 0), true},
		{13, 7, core.C(1, 0), true},
		{21, 5, core.C(3, 2), true},
		{9, 7, core.Coord{}, false},
		{10, 8, core.Coord{}, false},
	}
	for _, tt := range tests {
		got, hit := l.cellAt(tt.sx, tt.sy)
		if hit != tt.hit || (hit && got != tt.want) {
			t.Errorf("cellAt(%d, %d) = %s, %v; expected %s, %v", tt.sx, tt.sy, got, hit, tt.want, tt.hit)
		}
	}
}

func TestGameLogsSessionEnd(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	g := New(Options{
		Config: instantConfig(),
		Levels: []levels.Level{testLevel("quick", 5, map[core.Kind]int{core.KindRed: 4}, quickRows...)},
		Logger: logger,
	})
	g.Reset(platformcore.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 7})

	for i := 0; i < 2; i++ {
		g.Step(frame(platformcore.ActionLeft, platformcore.ActionDown))
	}
	g.Step(frame(platformcore.ActionConfirm))

	out := buf.String()
	if !strings.Contains(out, "session ended") || !strings.Contains(out, "completed") {
		t.Errorf("expected the session end to be logged with its condition, got:\n%s", out)
	}
}
