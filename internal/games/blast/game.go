// Package blast provides the Blast tile-matching game: it owns the level
// list and the resolver of the level being played, plays back cascades
// through an animator and renders everything into a platform screen.
package blast

import (
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	platformcore "github.com/vovakirdan/tui-blast/internal/core"
	"github.com/vovakirdan/tui-blast/internal/config"
	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast/levels"
)

// pointsPerTile is the score for every removed tile.
const pointsPerTile = 10

// Options configures a Game.
type Options struct {
	Config  config.BlastConfig
	Levels  []levels.Level
	Journal Journal     // optional
	Logger  *log.Logger // optional
}

// Game implements the Blast puzzle game.
type Game struct {
	cfg    config.BlastConfig
	levels []levels.Level
	logger *log.Logger

	rng      *rand.Rand
	resolver *core.Resolver
	events   *core.EventLog
	anim     *Animator
	rec      recorder

	levelIndex int
	levelSeed  int64
	diags      []core.Diagnostic

	cursor core.Coord
	layout layout

	screenW int
	screenH int

	score      int
	paused     bool
	allCleared bool
	last       core.ActionResult
}

// New creates a game over the given levels.
func New(opts Options) *Game {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	cfg := opts.Config
	cfg.Validate()
	return &Game{
		cfg:    cfg,
		levels: opts.Levels,
		logger: logger,
		events: core.NewEventLog(),
		anim: NewAnimator(Timing{
			PopTicks:      cfg.Presentation.PopTicks,
			FallTicks:     cfg.Presentation.FallTicks,
			EndDelayTicks: cfg.Presentation.EndDelayTicks,
		}),
		rec: recorder{journal: opts.Journal},
	}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return "blast"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Blast"
}

// Reset seeds the game and loads the start level.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	g.closeRun()
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.score = 0
	g.paused = false
	g.allCleared = false

	g.levelIndex = 0
	if cfg.StartLevel != "" {
		for i, l := range g.levels {
			if l.ID == cfg.StartLevel {
				g.levelIndex = i
				break
			}
		}
	}
	g.loadLevel()
}

// Resize adapts the layout to a new screen size without touching the board.
func (g *Game) Resize(w, h int) {
	g.screenW, g.screenH = w, h
	g.calculateLayout()
}

// Close ends the open journal run as abandoned.
func (g *Game) Close() {
	g.closeRun()
}

// Level returns the level being played.
func (g *Game) Level() (levels.Level, bool) {
	if g.levelIndex < 0 || g.levelIndex >= len(g.levels) {
		return levels.Level{}, false
	}
	return g.levels[g.levelIndex], true
}

// Resolver returns the resolver of the current level, or nil.
func (g *Game) Resolver() *core.Resolver {
	return g.resolver
}

// Diagnostics returns the issues found while loading the current level.
func (g *Game) Diagnostics() []core.Diagnostic {
	return g.diags
}

// Seed returns the seed the current level was generated from.
func (g *Game) Seed() int64 {
	return g.levelSeed
}

// Cursor returns the board cell under the keyboard cursor.
func (g *Game) Cursor() core.Coord {
	return g.cursor
}

// LastAction returns the result of the most recent tap.
func (g *Game) LastAction() core.ActionResult {
	return g.last
}

func (g *Game) loadLevel() {
	g.resolver = nil
	g.diags = nil
	g.last = core.ActionResult{}
	g.events.Clear()
	g.anim.Reset(nil)

	level, ok := g.Level()
	if !ok {
		g.allCleared = len(g.levels) > 0
		return
	}

	g.levelSeed = g.rng.Int63()
	g.resolver = NewResolver(g.cfg, g.levelSeed, g.logger.With("level", level.ID))
	g.resolver.SetListener(core.MultiListener{g.events, logListener{logger: g.logger}})

	g.diags = append(g.diags, level.Diagnostics...)
	g.diags = append(g.diags, g.resolver.Load(level.Spec())...)
	g.anim.Reset(g.resolver.Objectives())

	grid := g.resolver.Grid()
	g.cursor = core.C(grid.W/2, grid.H/2)
	g.calculateLayout()

	if err := g.rec.start(level.ID, g.levelSeed, g.resolver.Session().MovesRemaining()); err != nil {
		g.logger.Warn("journal start failed", "level", level.ID, "err", err)
	}
	if cond := g.resolver.Session().Condition(); cond.Terminal() {
		g.anim.Push(core.Event{Type: core.EventSessionEnded, Condition: cond})
		g.anim.Tick()
		g.finishRun(cond)
	}
	g.logger.Info("level started", "level", level.ID, "seed", g.levelSeed, "diagnostics", len(g.diags))
}

// Step advances the game by one tick.
func (g *Game) Step(input platformcore.InputFrame) platformcore.StepResult {
	if input.Has(platformcore.ActionPause) && !g.finished() {
		g.paused = !g.paused
	}
	if g.paused {
		return platformcore.StepResult{State: g.State()}
	}

	if input.Has(platformcore.ActionRestart) && len(g.levels) > 0 {
		if g.allCleared {
			g.levelIndex = 0
			g.allCleared = false
		}
		g.closeRun()
		g.loadLevel()
		return platformcore.StepResult{State: g.State()}
	}
	if input.Has(platformcore.ActionNext) && g.won() {
		g.levelIndex++
		g.loadLevel()
		return platformcore.StepResult{State: g.State()}
	}

	g.anim.Tick()
	if g.resolver == nil || g.finished() {
		return platformcore.StepResult{State: g.State()}
	}

	g.moveCursor(input)
	if tap, ok := g.tapTarget(input); ok && !g.anim.Busy() {
		g.tap(tap)
	}
	return platformcore.StepResult{State: g.State()}
}

func (g *Game) moveCursor(input platformcore.InputFrame) {
	grid := g.resolver.Grid()
	if input.Has(platformcore.ActionUp) {
		g.cursor.Y++
	}
	if input.Has(platformcore.ActionDown) {
		g.cursor.Y--
	}
	if input.Has(platformcore.ActionLeft) {
		g.cursor.X--
	}
	if input.Has(platformcore.ActionRight) {
		g.cursor.X++
	}
	g.cursor.X = platformcore.Clamp(g.cursor.X, 0, grid.W-1)
	g.cursor.Y = platformcore.Clamp(g.cursor.Y, 0, grid.H-1)
}

// tapTarget returns the cell a tap this frame aims at. A pointer click on
// the board wins over the cursor and also moves it.
func (g *Game) tapTarget(input platformcore.InputFrame) (core.Coord, bool) {
	if px, py, ok := input.Pointer(); ok {
		if c, hit := g.layout.cellAt(px, py); hit {
			g.cursor = c
			return c, true
		}
	}
	if input.Has(platformcore.ActionConfirm) {
		return g.cursor, true
	}
	return core.Coord{}, false
}

func (g *Game) tap(c core.Coord) {
	res := g.resolver.HandleAction(c.X, c.Y)
	if !res.Accepted {
		return
	}
	g.last = res
	g.score += len(res.Removed) * pointsPerTile
	g.anim.Push(g.events.Drain()...)

	if err := g.rec.tap(c.X, c.Y, res, g.resolver.Snapshot()); err != nil {
		g.logger.Warn("journal tap failed", "err", err)
	}
	if res.Condition.Terminal() {
		g.finishRun(res.Condition)
	}
}

func (g *Game) finishRun(c core.Condition) {
	if err := g.rec.finish(runOutcome(c)); err != nil {
		g.logger.Warn("journal finish failed", "err", err)
	}
}

func (g *Game) closeRun() {
	if err := g.rec.finish(runOutcome(core.Ongoing)); err != nil {
		g.logger.Warn("journal finish failed", "err", err)
	}
}

// finished reports whether the current level has ended and its end
// animation has played.
func (g *Game) finished() bool {
	if g.allCleared {
		return true
	}
	_, ended := g.anim.Ended()
	return ended
}

func (g *Game) won() bool {
	cond, ended := g.anim.Ended()
	return ended && cond == core.Completed
}

// State returns the status reported to the platform.
func (g *Game) State() platformcore.GameState {
	st := platformcore.GameState{
		Score:    g.score,
		Paused:   g.paused,
		Busy:     g.anim.Busy(),
		GameOver: g.finished(),
		Won:      g.won() || g.allCleared,
	}
	if level, ok := g.Level(); ok {
		st.Level = level.ID
	}
	if g.resolver != nil {
		st.MovesLeft = g.resolver.Session().MovesRemaining()
	}
	return st
}

// logListener reports the end of a session.
type logListener struct {
	core.NopListener
	logger *log.Logger
}

func (l logListener) OnSessionEnded(c core.Condition) {
	l.logger.Info("session ended", "condition", c)
}
