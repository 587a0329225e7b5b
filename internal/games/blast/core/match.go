package core

import (
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// Group is a maximal orthogonally connected set of same-kind tiles.
type Group struct {
	Kind    Kind
	members mapset.Set[Coord]
	cells   []Coord
}

// Size returns the number of tiles in the group.
func (g Group) Size() int {
	return len(g.cells)
}

// Contains reports whether the coordinate belongs to the group.
func (g Group) Contains(c Coord) bool {
	if g.cells == nil {
		return false
	}
	return g.members.Has(c)
}

// Cells returns the member coordinates ordered bottom-to-top, left-to-right.
func (g Group) Cells() []Coord {
	out := make([]Coord, len(g.cells))
	copy(out, g.cells)
	return out
}

// FindGroup returns the connected group containing start. Empty cells and
// falling tiles never join a group. An empty or out-of-range start yields an
// empty group.
func FindGroup(g *Grid, start Coord) Group {
	t := g.At(start)
	if t == nil || t.Falling {
		return Group{}
	}
	kind := t.Kind

	visited := mapset.New[Coord]()
	visited.Put(start)
	queue := []Coord{start}
	var cells []Coord

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		cells = append(cells, cur)

		for _, n := range cur.Neighbors() {
			if visited.Has(n) {
				continue
			}
			nt := g.At(n)
			if nt == nil || nt.Falling || nt.Kind != kind {
				continue
			}
			visited.Put(n)
			queue = append(queue, n)
		}
	}

	sort.Slice(cells, func(i, j int) bool { return cells[i].Less(cells[j]) })
	return Group{Kind: kind, members: visited, cells: cells}
}

// AdjacentKinds returns the coordinates orthogonally adjacent to the group
// that hold a tile matching the predicate, without duplicates.
func AdjacentKinds(g *Grid, group Group, match func(Kind) bool) []Coord {
	seen := mapset.New[Coord]()
	var out []Coord
	for _, c := range group.cells {
		for _, n := range c.Neighbors() {
			if group.Contains(n) || seen.Has(n) {
				continue
			}
			t := g.At(n)
			if t == nil || t.Falling || !match(t.Kind) {
				continue
			}
			seen.Put(n)
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
