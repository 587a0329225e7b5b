// Package core provides the simulation rules for the Blast tile-matching game.
// This package is UI-agnostic and deterministic for a given random source.
package core

import "strings"

// Kind identifies what a tile is.
type Kind uint8

const (
	KindNone Kind = iota
	KindRed
	KindGreen
	KindBlue
	KindYellow
	KindPurple
	KindDuck
	KindBalloon
	KindRocket
)

// ColorKinds lists the ordinary matchable kinds in generation order.
var ColorKinds = []Kind{KindRed, KindGreen, KindBlue, KindYellow, KindPurple}

// BlockerKinds lists the kinds that cannot be tapped and only leave the board
// through a side effect.
var BlockerKinds = []Kind{KindDuck, KindBalloon}

var kindNames = map[Kind]string{
	KindNone:    "none",
	KindRed:     "red",
	KindGreen:   "green",
	KindBlue:    "blue",
	KindYellow:  "yellow",
	KindPurple:  "purple",
	KindDuck:    "duck",
	KindBalloon: "balloon",
	KindRocket:  "rocket",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind converts a kind name to a Kind. Matching is case-insensitive.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s && k != KindNone {
			return k, true
		}
	}
	return KindNone, false
}

// IsColor reports whether the kind forms match groups.
func (k Kind) IsColor() bool {
	return k >= KindRed && k <= KindPurple
}

// IsBlocker reports whether the kind is a non-clickable obstacle.
func (k Kind) IsBlocker() bool {
	return k == KindDuck || k == KindBalloon
}

// IsSpecial reports whether the kind is a projectile-launching special.
func (k Kind) IsSpecial() bool {
	return k == KindRocket
}

// Clickable reports whether a tap on this kind can start an action.
func (k Kind) Clickable() bool {
	return k.IsColor() || k.IsSpecial()
}

// RemovedAtBottom reports whether the kind leaves the board on reaching row 0.
func (k Kind) RemovedAtBottom() bool {
	return k == KindDuck
}

// BottomRestricted reports whether the generator must never place the kind on row 0.
func (k Kind) BottomRestricted() bool {
	return k == KindDuck
}

// PoppedByAdjacency reports whether the kind is removed when a neighbouring
// match group is cleared.
func (k Kind) PoppedByAdjacency() bool {
	return k == KindBalloon
}

// Trackable reports whether the kind may appear as an objective.
func (k Kind) Trackable() bool {
	return k.IsColor() || k.IsBlocker()
}

// Char returns a single-character representation used by ASCII dumps.
func (k Kind) Char() byte {
	switch k {
	case KindRed:
		return 'R'
	case KindGreen:
		return 'G'
	case KindBlue:
		return 'B'
	case KindYellow:
		return 'Y'
	case KindPurple:
		return 'P'
	case KindDuck:
		return 'D'
	case KindBalloon:
		return 'O'
	case KindRocket:
		return '+'
	default:
		return '.'
	}
}

// KindFromChar is the inverse of Char.
func KindFromChar(ch byte) (Kind, bool) {
	for k := KindRed; k <= KindRocket; k++ {
		if k.Char() == ch {
			return k, true
		}
	}
	return KindNone, false
}

// Orientation is the projectile axis of a special tile.
type Orientation uint8

const (
	OrientNone Orientation = iota
	Horizontal
	Vertical
)

// String returns the orientation name.
func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "none"
	}
}

// ParseOrientation converts an orientation name to an Orientation.
func ParseOrientation(s string) (Orientation, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal", "h":
		return Horizontal, true
	case "vertical", "v":
		return Vertical, true
	default:
		return OrientNone, false
	}
}

// Dirs returns the two travel directions for the orientation.
func (o Orientation) Dirs() []Dir {
	switch o {
	case Horizontal:
		return []Dir{DirLeft, DirRight}
	case Vertical:
		return []Dir{DirDown, DirUp}
	default:
		return nil
	}
}
