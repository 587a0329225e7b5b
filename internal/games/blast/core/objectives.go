package core

import (
	"fmt"
	"sort"
)

// ObjectiveChange is the new remaining count of one objective.
type ObjectiveChange struct {
	Kind      Kind
	Remaining int
}

// ObjectiveTracker counts the tiles still to be cleared per kind.
type ObjectiveTracker struct {
	remaining map[Kind]int
	order     []Kind
}

// NewObjectiveTracker tracks every kind with a positive goal.
func NewObjectiveTracker(goals map[Kind]int) *ObjectiveTracker {
	o := &ObjectiveTracker{remaining: make(map[Kind]int)}
	for k, n := range goals {
		if n <= 0 {
			continue
		}
		o.remaining[k] = n
		o.order = append(o.order, k)
	}
	sort.Slice(o.order, func(i, j int) bool { return o.order[i] < o.order[j] })
	return o
}

// Apply decrements the objective of each removed tile's kind by one, never
// below zero. Returns the final count of every objective that changed.
func (o *ObjectiveTracker) Apply(removed []Tile) []ObjectiveChange {
	changed := make(map[Kind]bool)
	for _, t := range removed {
		n, ok := o.remaining[t.Kind]
		if !ok || n == 0 {
			continue
		}
		o.remaining[t.Kind] = n - 1
		changed[t.Kind] = true
	}

	var out []ObjectiveChange
	for _, k := range o.order {
		if changed[k] {
			out = append(out, ObjectiveChange{Kind: k, Remaining: o.remaining[k]})
		}
	}
	return out
}

// Remaining returns the count left for a kind, zero when untracked.
func (o *ObjectiveTracker) Remaining(k Kind) int {
	return o.remaining[k]
}

// Tracks reports whether the kind has an objective.
func (o *ObjectiveTracker) Tracks(k Kind) bool {
	_, ok := o.remaining[k]
	return ok
}

// Kinds returns the tracked kinds in enumeration order.
func (o *ObjectiveTracker) Kinds() []Kind {
	out := make([]Kind, len(o.order))
	copy(out, o.order)
	return out
}

// IsComplete reports whether every tracked count is zero.
// A tracker with no objectives is complete.
func (o *ObjectiveTracker) IsComplete() bool {
	for _, n := range o.remaining {
		if n != 0 {
			return false
		}
	}
	return true
}

// String summarises the remaining counts.
func (o *ObjectiveTracker) String() string {
	s := ""
	for i, k := range o.order {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s:%d", k, o.remaining[k])
	}
	return s
}
