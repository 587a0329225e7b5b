package core

// Action represents a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, Up arrow, k - move cursor up
	ActionDown           // S, Down arrow, j - move cursor down
	ActionLeft           // A, Left arrow, h - move cursor left
	ActionRight          // D, Right arrow, l - move cursor right
	ActionConfirm        // Space, Enter - tap the tile under the cursor
	ActionNext           // N - advance to the next level after a win
	ActionBack           // B, Escape - go back to menu
	ActionRestart        // R - restart the current level
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionPause          // P - pause/unpause
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionConfirm:
		return "Confirm"
	case ActionNext:
		return "Next"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// InputFrame collects the input of one simulation tick: the actions that
// were triggered and, optionally, a pointer click in screen coordinates.
type InputFrame struct {
	Actions map[Action]bool

	pointerX, pointerY int
	pointer            bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// SetPointer records a click at screen cell (x, y). A later click in the
// same frame replaces an earlier one.
func (f *InputFrame) SetPointer(x, y int) {
	f.pointerX, f.pointerY = x, y
	f.pointer = true
}

// Pointer returns the click recorded this frame, if any.
func (f InputFrame) Pointer() (x, y int, ok bool) {
	return f.pointerX, f.pointerY, f.pointer
}

// Empty reports whether nothing was triggered this frame.
func (f InputFrame) Empty() bool {
	return !f.pointer && len(f.Actions) == 0
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.pointer = false
	f.pointerX, f.pointerY = 0, 0
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	clone.pointerX, clone.pointerY, clone.pointer = f.pointerX, f.pointerY, f.pointer
	return clone
}
