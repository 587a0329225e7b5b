package core

// Move records a tile displaced by gravity.
type Move struct {
	Tile Tile
	From Coord
	To   Coord
}

// Collapse compacts every column toward row 0, keeping the relative order of
// tiles within the column. Moved tiles are flagged as falling.
func Collapse(g *Grid) []Move {
	var moves []Move
	for x := 0; x < g.W; x++ {
		moves = collapseColumn(g, x, moves)
	}
	return moves
}

func collapseColumn(g *Grid, x int, moves []Move) []Move {
	next := 0
	for y := 0; y < g.H; y++ {
		from := C(x, y)
		t := g.At(from)
		if t == nil {
			continue
		}
		if y != next {
			to := C(x, next)
			g.Move(from, to)
			t.Falling = true
			moves = append(moves, Move{Tile: *t, From: from, To: to})
		}
		next++
	}
	return moves
}
