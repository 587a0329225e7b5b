package core

import (
	"fmt"
	"strings"
)

// Snapshot is a value copy of the observable session state.
type Snapshot struct {
	W            int            `msgpack:"w"`
	H            int            `msgpack:"h"`
	Kinds        []Kind         `msgpack:"k"`
	Orientations []Orientation  `msgpack:"o"`
	Moves        int            `msgpack:"m"`
	Condition    Condition      `msgpack:"c"`
	Objectives   map[string]int `msgpack:"g"`
}

// Snapshot captures the grid contents. Session fields are left zero.
func (g *Grid) Snapshot() Snapshot {
	s := Snapshot{
		W:            g.W,
		H:            g.H,
		Kinds:        make([]Kind, len(g.cells)),
		Orientations: make([]Orientation, len(g.cells)),
	}
	for i, cell := range g.cells {
		if cell.Tile == nil {
			continue
		}
		s.Kinds[i] = cell.Tile.Kind
		s.Orientations[i] = cell.Tile.Orientation
	}
	return s
}

// KindAt returns the kind stored for a coordinate.
func (s Snapshot) KindAt(c Coord) Kind {
	if c.X < 0 || c.X >= s.W || c.Y < 0 || c.Y >= s.H {
		return KindNone
	}
	return s.Kinds[c.Y*s.W+c.X]
}

// String renders the snapshot top row first in the ParseRows alphabet.
func (s Snapshot) String() string {
	if len(s.Kinds) < s.W*s.H {
		return ""
	}
	var sb strings.Builder
	for y := s.H - 1; y >= 0; y-- {
		for x := 0; x < s.W; x++ {
			i := y*s.W + x
			ch := s.Kinds[i].Char()
			if s.Kinds[i].IsSpecial() {
				ch = '-'
				if s.Orientations[i] == Vertical {
					ch = '|'
				}
			}
			sb.WriteByte(ch)
		}
		if y > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Diff returns a description of the first difference from other, or "" when
// both snapshots are equal.
func (s Snapshot) Diff(other Snapshot) string {
	if s.W != other.W || s.H != other.H {
		return fmt.Sprintf("size %dx%d != %dx%d", s.W, s.H, other.W, other.H)
	}
	for i := range s.Kinds {
		if s.Kinds[i] != other.Kinds[i] || s.Orientations[i] != other.Orientations[i] {
			c := C(i%s.W, i/s.W)
			return fmt.Sprintf("cell %s: %s != %s", c, s.Kinds[i], other.Kinds[i])
		}
	}
	if s.Moves != other.Moves {
		return fmt.Sprintf("moves %d != %d", s.Moves, other.Moves)
	}
	if s.Condition != other.Condition {
		return fmt.Sprintf("condition %s != %s", s.Condition, other.Condition)
	}
	for k, n := range s.Objectives {
		if other.Objectives[k] != n {
			return fmt.Sprintf("objective %s %d != %d", k, n, other.Objectives[k])
		}
	}
	if len(s.Objectives) != len(other.Objectives) {
		return "objective sets differ"
	}
	return ""
}
