package core

// Condition is the session outcome.
type Condition uint8

const (
	Ongoing Condition = iota
	OutOfMoves
	Completed
)

// String returns the condition name.
func (c Condition) String() string {
	switch c {
	case Ongoing:
		return "ongoing"
	case OutOfMoves:
		return "out_of_moves"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the condition ends the session.
func (c Condition) Terminal() bool {
	return c != Ongoing
}

// SessionState holds the move budget and the session condition.
type SessionState struct {
	movesRemaining int
	condition      Condition
}

// NewSessionState starts a session with the given budget. A budget of zero or
// less is already out of moves.
func NewSessionState(moves int) *SessionState {
	s := &SessionState{movesRemaining: moves}
	if moves <= 0 {
		s.movesRemaining = 0
		s.condition = OutOfMoves
	}
	return s
}

// MovesRemaining returns the moves left.
func (s *SessionState) MovesRemaining() int {
	return s.movesRemaining
}

// Condition returns the current condition.
func (s *SessionState) Condition() Condition {
	return s.condition
}

// AfterAction consumes one move for an accepted action and updates the
// condition. Completion is checked before the zero-moves check. A terminal
// condition never changes.
func (s *SessionState) AfterAction(objectivesComplete bool) Condition {
	if s.condition.Terminal() {
		return s.condition
	}
	if s.movesRemaining > 0 {
		s.movesRemaining--
	}
	switch {
	case objectivesComplete:
		s.condition = Completed
	case s.movesRemaining == 0:
		s.condition = OutOfMoves
	}
	return s.condition
}
