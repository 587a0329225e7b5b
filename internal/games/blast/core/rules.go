package core

import (
	"fmt"
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// DefaultSpecialThreshold is the group size at which a match spawns a rocket.
const DefaultSpecialThreshold = 5

// OutcomeKind is the consequence of a player tap.
type OutcomeKind uint8

const (
	OutcomeNoOp OutcomeKind = iota
	OutcomePlainRemoval
	OutcomeSpecialSpawn
	OutcomeRocket // a lone rocket was tapped
	OutcomeCombo
)

// String returns the outcome name.
func (o OutcomeKind) String() string {
	switch o {
	case OutcomeNoOp:
		return "noop"
	case OutcomePlainRemoval:
		return "plain"
	case OutcomeSpecialSpawn:
		return "special"
	case OutcomeRocket:
		return "rocket"
	case OutcomeCombo:
		return "combo"
	default:
		return fmt.Sprintf("outcome(%d)", o)
	}
}

// Outcome describes what a tap will do. It is computed without mutating the grid.
type Outcome struct {
	Kind        OutcomeKind
	Origin      Coord
	Group       Group       // matched color group; empty for rocket taps
	Absorbed    []Coord     // rockets absorbed by a combo
	Orientation Orientation // axis of a tapped lone rocket
}

// Rules holds the tunable special-tile rules.
type Rules struct {
	SpecialThreshold int
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{SpecialThreshold: DefaultSpecialThreshold}
}

func (r Rules) threshold() int {
	if r.SpecialThreshold < 2 {
		return DefaultSpecialThreshold
	}
	return r.SpecialThreshold
}

// Classify maps a color group size to its outcome, ignoring combos.
func (r Rules) Classify(size int) OutcomeKind {
	switch {
	case size < 2:
		return OutcomeNoOp
	case size < r.threshold():
		return OutcomePlainRemoval
	default:
		return OutcomeSpecialSpawn
	}
}

// Decide computes the outcome of tapping start.
func (r Rules) Decide(g *Grid, start Coord) Outcome {
	t := g.At(start)
	if !t.Clickable() {
		return Outcome{Kind: OutcomeNoOp, Origin: start}
	}

	if t.Kind.IsSpecial() {
		specials := FindSpecials(g, start)
		if len(specials) > 1 {
			return Outcome{Kind: OutcomeCombo, Origin: start, Absorbed: specials}
		}
		return Outcome{Kind: OutcomeRocket, Origin: start, Orientation: t.Orientation}
	}

	group := FindGroup(g, start)
	out := Outcome{Kind: r.Classify(group.Size()), Origin: start, Group: group}
	if out.Kind != OutcomeSpecialSpawn {
		if out.Kind == OutcomeNoOp {
			out.Group = Group{}
		}
		return out
	}

	if specials := FindSpecials(g, start); len(specials) > 0 {
		out.Kind = OutcomeCombo
		out.Absorbed = specials
	}
	return out
}

// FindSpecials returns the connected component of special tiles reachable
// from start through special tiles only. The start cell is included when it
// holds a special itself.
func FindSpecials(g *Grid, start Coord) []Coord {
	visited := mapset.New[Coord]()
	visited.Put(start)
	queue := []Coord{start}
	var out []Coord

	if t := g.At(start); t != nil && t.Kind.IsSpecial() && !t.Falling {
		out = append(out, start)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range cur.Neighbors() {
			if visited.Has(n) {
				continue
			}
			nt := g.At(n)
			if nt == nil || nt.Falling || !nt.Kind.IsSpecial() {
				continue
			}
			visited.Put(n)
			out = append(out, n)
			queue = append(queue, n)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
