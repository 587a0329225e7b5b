package blast

import (
	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
)

// Phase is what the animator is currently showing.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePop        // removed tiles flash
	PhaseFall       // moved and spawned tiles settle
	PhaseEnd        // pause before the end-of-level overlay
)

// Timing holds animation durations in ticks.
type Timing struct {
	PopTicks      int
	FallTicks     int
	EndDelayTicks int
}

// Animator plays back resolver events over several ticks. It never touches
// the grid: it only decides what to highlight and when new taps may be
// accepted again.
type Animator struct {
	timing Timing
	queue  []core.Event

	phase     Phase
	remaining int

	popped  map[core.Coord]core.Kind
	landing map[core.Coord]bool

	objectives map[core.Kind]int
	ended      bool
	condition  core.Condition
}

// NewAnimator creates an idle animator.
func NewAnimator(t Timing) *Animator {
	return &Animator{
		timing:     t,
		popped:     make(map[core.Coord]core.Kind),
		landing:    make(map[core.Coord]bool),
		objectives: make(map[core.Kind]int),
	}
}

// Reset drops queued events and shows the given objective counts.
func (a *Animator) Reset(objectives *core.ObjectiveTracker) {
	a.queue = nil
	a.phase = PhaseIdle
	a.remaining = 0
	a.ended = false
	a.condition = core.Ongoing
	clear(a.popped)
	clear(a.landing)
	clear(a.objectives)
	if objectives == nil {
		return
	}
	for _, k := range objectives.Kinds() {
		a.objectives[k] = objectives.Remaining(k)
	}
}

// Push queues events for playback.
func (a *Animator) Push(events ...core.Event) {
	a.queue = append(a.queue, events...)
}

// Busy reports whether anything is still playing or queued.
func (a *Animator) Busy() bool {
	return a.phase != PhaseIdle || len(a.queue) > 0
}

// Phase returns the phase currently shown.
func (a *Animator) Phase() Phase {
	return a.phase
}

// Ended reports whether the session-ended event has finished playing.
func (a *Animator) Ended() (core.Condition, bool) {
	return a.condition, a.ended
}

// Objective returns the remaining count shown for k.
func (a *Animator) Objective(k core.Kind) int {
	return a.objectives[k]
}

// Popped reports whether c is flashing and which kind was removed there.
func (a *Animator) Popped(c core.Coord) (core.Kind, bool) {
	if a.phase != PhasePop {
		return core.KindNone, false
	}
	k, ok := a.popped[c]
	return k, ok
}

// Landing reports whether a tile is still settling into c.
func (a *Animator) Landing(c core.Coord) bool {
	return a.phase == PhaseFall && a.landing[c]
}

// Tick advances playback by one tick.
func (a *Animator) Tick() {
	if a.remaining > 0 {
		a.remaining--
		if a.remaining > 0 {
			return
		}
		if a.phase == PhaseEnd {
			a.ended = true
		}
		a.phase = PhaseIdle
	}
	for a.phase == PhaseIdle && len(a.queue) > 0 {
		a.next()
	}
}

// next starts the phase for the head of the queue. Objective updates apply
// immediately; runs of moves and spawns collapse into one fall phase.
func (a *Animator) next() {
	ev := a.queue[0]
	a.queue = a.queue[1:]

	switch ev.Type {
	case core.EventRemoved:
		clear(a.popped)
		for _, r := range ev.Removed {
			a.popped[r.At] = r.Tile.Kind
		}
		a.start(PhasePop, a.timing.PopTicks)

	case core.EventMoved, core.EventSpawned:
		clear(a.landing)
		a.landing[ev.To] = true
		for len(a.queue) > 0 {
			head := a.queue[0]
			if head.Type != core.EventMoved && head.Type != core.EventSpawned {
				break
			}
			a.landing[head.To] = true
			a.queue = a.queue[1:]
		}
		a.start(PhaseFall, a.timing.FallTicks)

	case core.EventObjective:
		a.objectives[ev.Kind] = ev.Remaining

	case core.EventSessionEnded:
		a.condition = ev.Condition
		a.start(PhaseEnd, a.timing.EndDelayTicks)
		if a.phase == PhaseIdle {
			a.ended = true
		}
	}
}

func (a *Animator) start(p Phase, ticks int) {
	if ticks <= 0 {
		a.phase = PhaseIdle
		return
	}
	a.phase = p
	a.remaining = ticks
}
