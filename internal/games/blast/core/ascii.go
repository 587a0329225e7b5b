package core

import "fmt"

// Placement is one explicitly positioned tile in a level layout.
type Placement struct {
	At          Coord
	Kind        Kind
	Orientation Orientation
}

// ParseRows converts ASCII rows (top row first) into a layout.
// Letters follow Kind.Char; '-' and '|' are horizontal and vertical rockets;
// '.' leaves the cell to the generator.
func ParseRows(rows ...string) (w, h int, layout []Placement, err error) {
	h = len(rows)
	if h == 0 {
		return 0, 0, nil, fmt.Errorf("core: no rows")
	}
	w = len(rows[0])
	for i, row := range rows {
		if len(row) != w {
			return 0, 0, nil, fmt.Errorf("core: row %d has width %d, want %d", i, len(row), w)
		}
		y := h - 1 - i
		for x := 0; x < w; x++ {
			ch := row[x]
			p := Placement{At: C(x, y)}
			switch ch {
			case '.':
				continue
			case '-':
				p.Kind, p.Orientation = KindRocket, Horizontal
			case '|':
				p.Kind, p.Orientation = KindRocket, Vertical
			default:
				k, ok := KindFromChar(ch)
				if !ok {
					return 0, 0, nil, fmt.Errorf("core: unknown tile %q at %s", ch, p.At)
				}
				p.Kind = k
			}
			layout = append(layout, p)
		}
	}
	return w, h, layout, nil
}

// MustParseRows is like ParseRows but panics on error. Intended for tests.
func MustParseRows(rows ...string) (w, h int, layout []Placement) {
	w, h, layout, err := ParseRows(rows...)
	if err != nil {
		panic(err)
	}
	return w, h, layout
}

// NewGridFromRows builds a grid from ASCII rows (top row first). Tiles get
// sequential IDs starting at 1. Intended for tests and tools.
func NewGridFromRows(rows ...string) *Grid {
	w, h, layout := MustParseRows(rows...)
	g := NewGrid(w, h)
	for i, p := range layout {
		g.Place(p.At, &Tile{ID: TileID(i + 1), Kind: p.Kind, Orientation: p.Orientation})
	}
	return g
}
