package blast

import (
	"strconv"

	platformcore "github.com/vovakirdan/tui-blast/internal/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
)

const (
	hudHeight = 4
	cellW     = 3 // " ● " per tile
	footerH   = 2
)

// layout maps board cells to screen cells. Board row 0 is the bottom row,
// so screen rows run the other way.
type layout struct {
	board    platformcore.Rect // inside of the frame
	w, h     int
	tooSmall bool
}

func (l layout) cellAt(sx, sy int) (core.Coord, bool) {
	if l.tooSmall || !l.board.Contains(sx, sy) {
		return core.Coord{}, false
	}
	x := (sx - l.board.X) / cellW
	row := sy - l.board.Y
	return core.C(x, l.h-1-row), true
}

func (l layout) screenPos(c core.Coord) (int, int) {
	return l.board.X + c.X*cellW, l.board.Y + (l.h - 1 - c.Y)
}

func (g *Game) calculateLayout() {
	if g.resolver == nil || g.resolver.Grid() == nil {
		g.layout = layout{tooSmall: true}
		return
	}
	grid := g.resolver.Grid()
	w, h := grid.W*cellW, grid.H

	area := platformcore.NewRect(0, hudHeight, g.screenW, g.screenH-hudHeight-footerH)
	if area.W < w+2 || area.H < h+2 {
		g.layout = layout{w: grid.W, h: grid.H, tooSmall: true}
		return
	}
	frame := area.Centered(w+2, h+2)
	g.layout = layout{board: frame.Inset(1), w: grid.W, h: grid.H}
}

// Render draws the game to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()
	g.renderHUD(dst)

	switch {
	case len(g.levels) == 0:
		g.renderOverlay(dst, "No levels found", "Check the levels directory")
		return
	case g.allCleared:
		g.renderOverlay(dst, "All levels cleared!", "Score "+strconv.Itoa(g.score)+" | R: play again")
		return
	case g.resolver == nil:
		return
	case g.layout.tooSmall:
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	}

	g.renderBoard(dst)
	g.renderFooter(dst)

	if cond, ended := g.anim.Ended(); ended {
		if cond == core.Completed {
			g.renderOverlay(dst, "Level complete!", "N: next level | R: replay")
		} else {
			g.renderOverlay(dst, "Out of moves", "R: try again")
		}
		return
	}
	if g.paused {
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

func (g *Game) renderHUD(dst *platformcore.Screen) {
	title := " Blast"
	if level, ok := g.Level(); ok {
		title += " | " + level.Name +
			" | Level " + strconv.Itoa(g.levelIndex+1) + "/" + strconv.Itoa(len(g.levels))
	}
	title += " | Score: " + strconv.Itoa(g.score)
	if g.resolver != nil {
		title += " | Moves: " + strconv.Itoa(g.resolver.Session().MovesRemaining())
	}
	dst.DrawTextWithColor(0, 0, title, platformcore.ColorCyan)
	dst.DrawHLine(0, 1, dst.Width(), '─', platformcore.ColorGray)

	x := 1
	dst.DrawTextWithColor(x, 2, "Goals:", platformcore.ColorGray)
	x += 7
	if g.resolver != nil {
		for _, k := range g.resolver.Objectives().Kinds() {
			glyph, color := tileGlyph(core.Tile{Kind: k})
			dst.SetWithColor(x, 2, glyph, color)
			n := g.anim.Objective(k)
			label := strconv.Itoa(n)
			if n == 0 {
				label = "✓"
			}
			dst.DrawText(x+2, 2, label)
			x += 4 + len(label)
		}
	}
	dst.DrawHLine(0, 3, dst.Width(), '─', platformcore.ColorGray)
}

func (g *Game) renderBoard(dst *platformcore.Screen) {
	grid := g.resolver.Grid()
	frame := platformcore.NewRect(g.layout.board.X-1, g.layout.board.Y-1, g.layout.board.W+2, g.layout.board.H+2)
	dst.DrawBox(frame, platformcore.ColorGray)

	for y := 0; y < grid.H; y++ {
		for x := 0; x < grid.W; x++ {
			c := core.C(x, y)
			sx, sy := g.layout.screenPos(c)

			glyph, color := '·', platformcore.ColorGray
			if t := grid.At(c); t != nil {
				glyph, color = tileGlyph(*t)
			}
			if g.anim.Landing(c) {
				glyph = '◌'
			}
			if _, ok := g.anim.Popped(c); ok {
				glyph, color = '✶', platformcore.ColorBrightWhite
			}
			dst.SetWithColor(sx+1, sy, glyph, color)

			if c == g.cursor && !g.finished() {
				dst.SetCell(sx, sy, platformcore.Cell{Rune: '[', Color: platformcore.ColorBrightYellow, Bold: true})
				dst.SetCell(sx+2, sy, platformcore.Cell{Rune: ']', Color: platformcore.ColorBrightYellow, Bold: true})
			}
		}
	}
}

func (g *Game) renderFooter(dst *platformcore.Screen) {
	y := dst.Height() - 1
	hint := " ←↑↓→: Move | Space/Click: Tap | R: Restart | P: Pause | Esc: Menu"
	if g.last.Accepted {
		status := " Last: " + outcomeLabel(g.last.Outcome) + " removed " + strconv.Itoa(len(g.last.Removed))
		if g.last.Fired > 0 {
			status += ", rockets " + strconv.Itoa(g.last.Fired)
		}
		dst.DrawTextWithColor(0, y-1, status, platformcore.ColorGray)
	}
	dst.DrawTextWithColor(0, y, hint, platformcore.ColorGray)
}

func (g *Game) renderOverlay(dst *platformcore.Screen, title, subtitle string) {
	w := platformcore.Max(len([]rune(title)), len([]rune(subtitle))) + 6
	box := dst.Bounds().Centered(w, 5)
	dst.DrawRect(box, ' ', platformcore.ColorDefault)
	dst.DrawBox(box, platformcore.ColorWhite)
	dst.DrawTextWithColor(box.X+(w-len([]rune(title)))/2, box.Y+1, title, platformcore.ColorBrightYellow)
	dst.DrawTextWithColor(box.X+(w-len([]rune(subtitle)))/2, box.Y+3, subtitle, platformcore.ColorGray)
}

// tileGlyph picks the rune and color used to draw a tile.
func tileGlyph(t core.Tile) (rune, platformcore.Color) {
	switch t.Kind {
	case core.KindRed:
		return '●', platformcore.ColorRed
	case core.KindGreen:
		return '●', platformcore.ColorGreen
	case core.KindBlue:
		return '●', platformcore.ColorBlue
	case core.KindYellow:
		return '●', platformcore.ColorYellow
	case core.KindPurple:
		return '●', platformcore.ColorMagenta
	case core.KindDuck:
		return '♦', platformcore.ColorBrightYellow
	case core.KindBalloon:
		return '○', platformcore.ColorBrightCyan
	case core.KindRocket:
		if t.Orientation == core.Vertical {
			return '║', platformcore.ColorOrange
		}
		return '═', platformcore.ColorOrange
	default:
		return '?', platformcore.ColorDefault
	}
}

func outcomeLabel(k core.OutcomeKind) string {
	switch k {
	case core.OutcomePlainRemoval:
		return "match"
	case core.OutcomeSpecialSpawn:
		return "rocket made"
	case core.OutcomeRocket:
		return "rocket"
	case core.OutcomeCombo:
		return "COMBO"
	default:
		return "-"
	}
}
