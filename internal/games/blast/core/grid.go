package core

import (
	"fmt"
	"strings"
)

// TileID uniquely identifies a tile within one level session.
type TileID uint64

// Tile is a single game piece occupying at most one cell.
type Tile struct {
	ID          TileID
	Kind        Kind
	Orientation Orientation // meaningful only for specials
	Falling     bool        // set while a settling pass is moving the tile
}

// Clickable reports whether a tap on the tile may start an action.
func (t *Tile) Clickable() bool {
	return t != nil && t.Kind.Clickable() && !t.Falling
}

// String returns a short description of the tile.
func (t Tile) String() string {
	if t.Kind.IsSpecial() {
		return fmt.Sprintf("#%d %s/%s", t.ID, t.Kind, t.Orientation)
	}
	return fmt.Sprintf("#%d %s", t.ID, t.Kind)
}

// Cell is one board position. A nil Tile means the cell is empty.
type Cell struct {
	Tile *Tile
}

// Empty reports whether the cell holds no tile.
func (c Cell) Empty() bool {
	return c.Tile == nil
}

// Clickable reports whether the cell holds a tile that accepts taps.
func (c Cell) Clickable() bool {
	return c.Tile.Clickable()
}

// Grid represents the board as a rectangular grid of cells.
// Cells are stored in row-major order: index = y*W + x.
type Grid struct {
	W     int
	H     int
	cells []Cell
}

// NewGrid creates an empty grid with the given dimensions.
func NewGrid(w, h int) *Grid {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("core: invalid grid size %dx%d", w, h))
	}
	return &Grid{
		W:     w,
		H:     h,
		cells: make([]Cell, w*h),
	}
}

func (g *Grid) index(c Coord) int {
	return c.Y*g.W + c.X
}

// InBounds returns true if the coordinate is within the grid boundaries.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.W && c.Y >= 0 && c.Y < g.H
}

// Cell returns the cell at the given coordinate.
// Returns an empty cell if out of bounds.
func (g *Grid) Cell(c Coord) Cell {
	if !g.InBounds(c) {
		return Cell{}
	}
	return g.cells[g.index(c)]
}

// At returns the tile at the given coordinate, or nil.
func (g *Grid) At(c Coord) *Tile {
	return g.Cell(c).Tile
}

// Place puts a tile into an empty cell.
// Placing into an occupied or out-of-bounds cell is a programming error.
func (g *Grid) Place(c Coord, t *Tile) {
	if !g.InBounds(c) {
		panic(fmt.Sprintf("core: place out of bounds at %s", c))
	}
	if t == nil {
		panic("core: place nil tile")
	}
	cell := &g.cells[g.index(c)]
	if cell.Tile != nil {
		panic(fmt.Sprintf("core: cell %s already holds %s", c, *cell.Tile))
	}
	cell.Tile = t
}

// Take removes and returns the tile at the coordinate, or nil if empty.
func (g *Grid) Take(c Coord) *Tile {
	if !g.InBounds(c) {
		return nil
	}
	cell := &g.cells[g.index(c)]
	t := cell.Tile
	cell.Tile = nil
	return t
}

// Move relocates the tile at from into the empty cell at to.
func (g *Grid) Move(from, to Coord) {
	t := g.Take(from)
	if t == nil {
		panic(fmt.Sprintf("core: move from empty cell %s", from))
	}
	g.Place(to, t)
}

// Count returns the number of tiles of the given kind on the board.
func (g *Grid) Count(k Kind) int {
	n := 0
	for _, cell := range g.cells {
		if cell.Tile != nil && cell.Tile.Kind == k {
			n++
		}
	}
	return n
}

// EmptyCount returns the number of empty cells.
func (g *Grid) EmptyCount() int {
	n := 0
	for _, cell := range g.cells {
		if cell.Tile == nil {
			n++
		}
	}
	return n
}

// Find returns the coordinate of the tile with the given ID.
func (g *Grid) Find(id TileID) (Coord, bool) {
	for i, cell := range g.cells {
		if cell.Tile != nil && cell.Tile.ID == id {
			return C(i%g.W, i/g.W), true
		}
	}
	return Coord{}, false
}

// String renders the grid as text, top row first.
func (g *Grid) String() string {
	var sb strings.Builder
	for y := g.H - 1; y >= 0; y-- {
		for x := 0; x < g.W; x++ {
			t := g.At(C(x, y))
			if t == nil {
				sb.WriteByte('.')
				continue
			}
			ch := t.Kind.Char()
			if t.Kind.IsSpecial() {
				if t.Orientation == Vertical {
					ch = '|'
				} else {
					ch = '-'
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
