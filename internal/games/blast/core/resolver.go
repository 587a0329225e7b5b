package core

import (
	"context"
	"io"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/looplab/fsm"
)

// Resolver states.
const (
	StateIdle      = "idle"
	StateResolving = "resolving"
	StateSettling  = "settling"
	StateBlocked   = "blocked"
)

const (
	eventResolve = "resolve"
	eventSettle  = "settle"
	eventFinish  = "finish"
	eventBlock   = "block"
	eventReset   = "reset"
)

// DefaultMaxSettlePasses is the number of gravity/refill passes after which
// the blocker overflow roll is suspended for the rest of the cascade. Every
// further pass then removes a duck that can only be replaced within its quota,
// so settling always ends.
const DefaultMaxSettlePasses = 64

// LevelSpec is the already-parsed level configuration the resolver loads.
type LevelSpec struct {
	Width  int
	Height int
	Moves  int
	Goals  map[Kind]int
	Quotas map[Kind]int // blocker generation quotas; nil uses the goal counts
	Layout []Placement
}

// Options configures a Resolver.
type Options struct {
	Rules           Rules
	OverflowChance  float64
	MinSize         int
	MaxSize         int
	MaxSettlePasses int // 0 uses DefaultMaxSettlePasses
	Rand            Rand
	Listener        Listener
	Logger          *log.Logger
}

// DefaultOptions returns options with the standard rules and board limits.
func DefaultOptions() Options {
	return Options{
		Rules:          DefaultRules(),
		OverflowChance: DefaultOverflowChance,
		MinSize:        4,
		MaxSize:        12,
	}
}

// ActionResult summarises one accepted or rejected tap.
type ActionResult struct {
	Accepted     bool
	Outcome      OutcomeKind
	Removed      []Removal
	Spawned      int
	Moved        int
	SettlePasses int
	Fired        int // rocket activations, including chained ones
	Triggered    int // rocket activations chained by other rockets
	Condition    Condition
	Moves        int
}

// cascade holds the in-flight state of one accepted action.
type cascade struct {
	epoch   uint64
	outcome Outcome
	result  ActionResult
}

// Resolver owns the board and the session of one level and runs the cascade
// state machine for player taps. It is not safe for concurrent use.
type Resolver struct {
	rules    Rules
	opts     Options
	rng      Rand
	listener Listener
	logger   *log.Logger
	machine  *fsm.FSM

	grid       *Grid
	session    *SessionState
	objectives *ObjectiveTracker
	generator  *GenerationPolicy

	nextID TileID
	epoch  uint64
	active *cascade
}

// NewResolver creates a resolver. Load must be called before taps are accepted.
func NewResolver(opts Options) *Resolver {
	if opts.Rand == nil {
		panic("core: resolver needs a random source")
	}
	if opts.Listener == nil {
		opts.Listener = NopListener{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.MinSize <= 0 {
		opts.MinSize = 1
	}
	if opts.MaxSettlePasses <= 0 {
		opts.MaxSettlePasses = DefaultMaxSettlePasses
	}
	if opts.MaxSize < opts.MinSize {
		opts.MaxSize = opts.MinSize
	}

	r := &Resolver{
		rules:    opts.Rules,
		opts:     opts,
		rng:      opts.Rand,
		listener: opts.Listener,
		logger:   opts.Logger,
	}
	r.machine = fsm.NewFSM(
		StateBlocked,
		fsm.Events{
			{Name: eventResolve, Src: []string{StateIdle}, Dst: StateResolving},
			{Name: eventSettle, Src: []string{StateResolving}, Dst: StateSettling},
			{Name: eventFinish, Src: []string{StateSettling}, Dst: StateIdle},
			{Name: eventBlock, Src: []string{StateIdle, StateSettling}, Dst: StateBlocked},
			{Name: eventReset, Src: []string{StateResolving, StateSettling, StateBlocked}, Dst: StateIdle},
		},
		fsm.Callbacks{
			"enter_" + StateResolving: func(_ context.Context, e *fsm.Event) {
				r.resolve(e.Args[0].(*cascade))
			},
			"enter_" + StateSettling: func(_ context.Context, e *fsm.Event) {
				r.settle(e.Args[0].(*cascade))
			},
			"enter_" + StateBlocked: func(_ context.Context, e *fsm.Event) {
				if len(e.Args) == 0 {
					return
				}
				c := e.Args[0].(*cascade)
				if r.live(c) {
					r.listener.OnSessionEnded(r.session.Condition())
				}
			},
		},
	)
	return r
}

// SetListener replaces the notification target.
func (r *Resolver) SetListener(l Listener) {
	if l == nil {
		l = NopListener{}
	}
	r.listener = l
}

// State returns the current state machine state.
func (r *Resolver) State() string {
	return r.machine.Current()
}

// Grid returns the board. Callers must treat it as read-only.
func (r *Resolver) Grid() *Grid {
	return r.grid
}

// Session returns the session state.
func (r *Resolver) Session() *SessionState {
	return r.session
}

// Objectives returns the objective tracker.
func (r *Resolver) Objectives() *ObjectiveTracker {
	return r.objectives
}

// Generator returns the generation policy.
func (r *Resolver) Generator() *GenerationPolicy {
	return r.generator
}

// Rules returns the active rule set.
func (r *Resolver) Rules() Rules {
	return r.rules
}

// Load discards any in-flight cascade and starts the level. Entries that
// cannot be honoured are skipped and reported as diagnostics.
func (r *Resolver) Load(spec LevelSpec) []Diagnostic {
	r.epoch++
	r.active = nil
	r.nextID = 0
	var diags []Diagnostic

	w := clampSize(spec.Width, r.opts.MinSize, r.opts.MaxSize)
	h := clampSize(spec.Height, r.opts.MinSize, r.opts.MaxSize)
	if w != spec.Width || h != spec.Height {
		diags = append(diags, Diagf(DiagSizeClamped,
			"board %dx%d clamped to %dx%d", spec.Width, spec.Height, w, h))
	}
	r.grid = NewGrid(w, h)

	goals := make(map[Kind]int)
	for _, k := range sortedKinds(spec.Goals) {
		if !k.Trackable() {
			diags = append(diags, Diagf(DiagUntrackableGoal, "goal for %s cannot be tracked", k))
			continue
		}
		goals[k] = spec.Goals[k]
	}
	r.objectives = NewObjectiveTracker(goals)

	quotas := spec.Quotas
	if quotas == nil {
		quotas = goals
	}
	r.generator = NewGenerationPolicy(r.rng, quotas, r.opts.OverflowChance)

	r.session = NewSessionState(spec.Moves)
	if spec.Moves <= 0 {
		diags = append(diags, Diagf(DiagNoMoves, "level starts with %d moves", spec.Moves))
	}

	for _, p := range spec.Layout {
		switch {
		case !r.grid.InBounds(p.At):
			diags = append(diags, Diagf(DiagLayoutOutOfBounds, "%s at %s is outside %dx%d", p.Kind, p.At, w, h))
			continue
		case p.Kind == KindNone || p.Kind > KindRocket:
			diags = append(diags, Diagf(DiagUnknownKind, "unknown kind at %s", p.At))
			continue
		case r.grid.At(p.At) != nil:
			diags = append(diags, Diagf(DiagDuplicateLayout, "%s at %s overlaps an earlier entry", p.Kind, p.At))
			continue
		}
		t := r.newTile(p.Kind)
		if p.Kind.IsSpecial() && p.Orientation != OrientNone {
			t.Orientation = p.Orientation
		}
		r.grid.Place(p.At, t)
		r.generator.Note(p.Kind)
	}

	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			c := C(x, y)
			if r.grid.At(c) == nil {
				r.grid.Place(c, r.newTile(r.generator.ChooseKind(x, y)))
			}
		}
	}

	ctx := context.Background()
	if r.machine.Can(eventReset) {
		if err := r.machine.Event(ctx, eventReset); err != nil {
			r.logger.Error("reset transition failed", "err", err)
		}
	}
	if r.session.Condition().Terminal() {
		if err := r.machine.Event(ctx, eventBlock); err != nil {
			r.logger.Error("block transition failed", "err", err)
		}
	}

	for _, d := range diags {
		r.logger.Warn("level diagnostic", "code", d.Code, "msg", d.Message)
	}
	r.logger.Debug("level loaded", "w", w, "h", h, "moves", r.session.MovesRemaining(), "goals", r.objectives.String())
	return diags
}

// HandleAction processes a tap at (x, y). Taps outside the board, on empty or
// non-clickable cells, or while a cascade is running or the session has ended
// are ignored.
func (r *Resolver) HandleAction(x, y int) ActionResult {
	if r.grid == nil || !r.machine.Is(StateIdle) {
		return ActionResult{}
	}
	start := C(x, y)
	if !r.grid.Cell(start).Clickable() {
		return ActionResult{}
	}

	out := r.rules.Decide(r.grid, start)
	if out.Kind == OutcomeNoOp {
		return ActionResult{}
	}

	c := &cascade{epoch: r.epoch, outcome: out}
	c.result.Outcome = out.Kind
	r.active = c
	ctx := context.Background()

	if err := r.machine.Event(ctx, eventResolve, c); err != nil {
		r.logger.Error("resolve transition failed", "err", err)
		return ActionResult{}
	}
	if !r.live(c) {
		return c.result
	}
	if err := r.machine.Event(ctx, eventSettle, c); err != nil {
		r.logger.Error("settle transition failed", "err", err)
		return c.result
	}
	if !r.live(c) {
		return c.result
	}

	r.commit(c)
	if !r.live(c) {
		return c.result
	}

	next := eventFinish
	if c.result.Condition.Terminal() {
		next = eventBlock
	}
	if err := r.machine.Event(ctx, next, c); err != nil {
		r.logger.Error("finish transition failed", "event", next, "err", err)
	}
	r.active = nil
	return c.result
}

// live reports whether the cascade still belongs to the loaded level.
func (r *Resolver) live(c *cascade) bool {
	return c.epoch == r.epoch
}

func (r *Resolver) resolve(c *cascade) {
	out := c.outcome
	var removed []Removal

	switch out.Kind {
	case OutcomePlainRemoval:
		for _, at := range out.Group.Cells() {
			removeAt(r.grid, at, CauseMatch, &removed)
		}
		removed = r.popAdjacent(out.Group, removed)

	case OutcomeSpecialSpawn:
		for _, at := range out.Group.Cells() {
			if at != out.Origin {
				removeAt(r.grid, at, CauseMatch, &removed)
			}
		}
		removed = r.popAdjacent(out.Group, removed)
		t := r.grid.At(out.Origin)
		t.Kind = KindRocket
		t.Orientation = r.randomOrientation()
		r.emitRemoved(c, removed)
		if !r.live(c) {
			return
		}
		c.result.Removed = append(c.result.Removed, removed...)
		removed = nil
		r.listener.OnTileSpawned(*t, out.Origin)

	case OutcomeRocket:
		p := NewProjectiles(r.grid)
		p.Fire(out.Origin)
		removed = p.Run()
		c.result.Fired += p.Fired()
		c.result.Triggered += p.Triggered()

	case OutcomeCombo:
		for _, at := range out.Group.Cells() {
			removeAt(r.grid, at, CauseMatch, &removed)
		}
		if out.Group.Size() > 0 {
			removed = r.popAdjacent(out.Group, removed)
		}
		for _, at := range out.Absorbed {
			removeAt(r.grid, at, CauseAbsorbed, &removed)
		}
		r.emitRemoved(c, removed)
		if !r.live(c) {
			return
		}
		c.result.Removed = append(c.result.Removed, removed...)

		p := NewProjectiles(r.grid)
		p.FireCross(out.Origin)
		removed = p.Run()
		c.result.Fired += p.Fired()
		c.result.Triggered += p.Triggered()
	}

	r.emitRemoved(c, removed)
	c.result.Removed = append(c.result.Removed, removed...)
	r.logger.Debug("resolved", "outcome", out.Kind, "origin", out.Origin, "removed", len(c.result.Removed), "fired", c.result.Fired)
}

// popAdjacent removes every adjacency-popped blocker touching the group.
func (r *Resolver) popAdjacent(group Group, removed []Removal) []Removal {
	for _, at := range AdjacentKinds(r.grid, group, Kind.PoppedByAdjacency) {
		removeAt(r.grid, at, CausePopped, &removed)
	}
	return removed
}

func (r *Resolver) settle(c *cascade) {
	for pass := 1; ; pass++ {
		if !r.live(c) {
			return
		}
		c.result.SettlePasses = pass

		moves := Collapse(r.grid)
		for _, m := range moves {
			r.listener.OnTileMoved(m.Tile, m.From, m.To)
			if !r.live(c) {
				return
			}
		}
		c.result.Moved += len(moves)

		spawned := r.refill(c)
		if !r.live(c) {
			return
		}
		c.result.Spawned += spawned
		r.clearFalling()

		var bottom []Removal
		for x := 0; x < r.grid.W; x++ {
			at := C(x, 0)
			if t := r.grid.At(at); t != nil && t.Kind.RemovedAtBottom() {
				removeAt(r.grid, at, CauseBottom, &bottom)
			}
		}
		if len(bottom) == 0 {
			return
		}
		r.emitRemoved(c, bottom)
		c.result.Removed = append(c.result.Removed, bottom...)

		if pass == r.opts.MaxSettlePasses {
			r.logger.Warn("settling did not stabilise, suspending blocker overflow", "passes", pass)
			defer r.generator.SuspendOverflow()()
		}
	}
}

// refill fills every empty cell column by column, bottom to top.
func (r *Resolver) refill(c *cascade) int {
	n := 0
	for x := 0; x < r.grid.W; x++ {
		for y := 0; y < r.grid.H; y++ {
			at := C(x, y)
			if r.grid.At(at) != nil {
				continue
			}
			t := r.newTile(r.generator.ChooseKind(x, y))
			t.Falling = true
			r.grid.Place(at, t)
			n++
			r.listener.OnTileSpawned(*t, at)
			if !r.live(c) {
				return n
			}
		}
	}
	return n
}

func (r *Resolver) clearFalling() {
	for i := range r.grid.cells {
		if t := r.grid.cells[i].Tile; t != nil {
			t.Falling = false
		}
	}
}

// commit applies the cascade to the objectives and the session.
func (r *Resolver) commit(c *cascade) {
	for _, ch := range r.objectives.Apply(Tiles(c.result.Removed)) {
		r.listener.OnObjectiveChanged(ch.Kind, ch.Remaining)
		if !r.live(c) {
			return
		}
	}
	c.result.Condition = r.session.AfterAction(r.objectives.IsComplete())
	c.result.Moves = r.session.MovesRemaining()
	c.result.Accepted = true
	r.logger.Debug("action committed", "moves", c.result.Moves, "condition", c.result.Condition, "goals", r.objectives.String())
}

func (r *Resolver) emitRemoved(c *cascade, removed []Removal) {
	if len(removed) == 0 || !r.live(c) {
		return
	}
	r.listener.OnTilesRemoved(removed)
}

func (r *Resolver) newTile(k Kind) *Tile {
	r.nextID++
	t := &Tile{ID: r.nextID, Kind: k}
	if k.IsSpecial() {
		t.Orientation = r.randomOrientation()
	}
	return t
}

func (r *Resolver) randomOrientation() Orientation {
	if r.rng.Intn(2) == 0 {
		return Horizontal
	}
	return Vertical
}

// Snapshot captures the board and the session.
func (r *Resolver) Snapshot() Snapshot {
	if r.grid == nil {
		return Snapshot{}
	}
	s := r.grid.Snapshot()
	s.Moves = r.session.MovesRemaining()
	s.Condition = r.session.Condition()
	s.Objectives = make(map[string]int)
	for _, k := range r.objectives.Kinds() {
		s.Objectives[k.String()] = r.objectives.Remaining(k)
	}
	return s
}

func clampSize(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sortedKinds(m map[Kind]int) []Kind {
	out := make([]Kind, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
