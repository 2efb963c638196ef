package core

// Action represents a semantic game action, abstracted from physical key presses.
// Games work with high-level intents; the platform maps keys to them.
type Action int

const (
	ActionNone  Action = iota
	ActionLeft         // Left arrow, h
	ActionRight        // Right arrow, l
	ActionFire         // Space, Enter
	ActionQuit         // Esc, q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionFire:
		return "Fire"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
