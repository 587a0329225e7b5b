package core

import "fmt"

// Diagnostic codes reported while loading a level.
const (
	DiagLayoutOutOfBounds = "LAYOUT_OUT_OF_BOUNDS"
	DiagUnknownKind       = "UNKNOWN_KIND"
	DiagUntrackableGoal   = "UNTRACKABLE_GOAL"
	DiagNoMoves           = "NO_MOVES"
	DiagSizeClamped       = "SIZE_CLAMPED"
	DiagDuplicateLayout   = "DUPLICATE_LAYOUT"
)

// Diagnostic describes a skipped or corrected level entry.
type Diagnostic struct {
	Code    string
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("[%s] %s", d.Code, d.Message)
}

// Diagf builds a diagnostic with a formatted message.
func Diagf(code, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Message: fmt.Sprintf(format, args...)}
}
