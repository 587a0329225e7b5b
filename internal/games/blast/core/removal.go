package core

// Cause records why a tile left the board.
type Cause uint8

const (
	CauseMatch     Cause = iota // member of a matched color group
	CauseLineClear              // hit by a projectile
	CauseRocket                 // a fired rocket's own cell
	CauseAbsorbed               // rocket absorbed into a combo
	CausePopped                 // balloon next to a matched group
	CauseBottom                 // duck reached row 0
)

// String returns the cause name.
func (c Cause) String() string {
	switch c {
	case CauseMatch:
		return "match"
	case CauseLineClear:
		return "line"
	case CauseRocket:
		return "rocket"
	case CauseAbsorbed:
		return "absorbed"
	case CausePopped:
		return "popped"
	case CauseBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// Removal is one tile taken off the board. Tile is a copy; the board no
// longer holds it.
type Removal struct {
	Tile  Tile
	At    Coord
	Cause Cause
}

// removeAt takes the tile at c and records the removal.
// Returns false when the cell is already empty.
func removeAt(g *Grid, c Coord, cause Cause, out *[]Removal) bool {
	t := g.Take(c)
	if t == nil {
		return false
	}
	*out = append(*out, Removal{Tile: *t, At: c, Cause: cause})
	return true
}

// Tiles returns the tile copies of a removal list.
func Tiles(removed []Removal) []Tile {
	out := make([]Tile, len(removed))
	for i, r := range removed {
		out[i] = r.Tile
	}
	return out
}
