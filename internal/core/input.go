package core

// Action represents a semantic input action, abstracted from physical key presses.
// Front ends map their raw input to these so the game loop never sees keys.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // Left arrow, H, A
	ActionRight          // Right arrow, L, D
	ActionUp             // Up arrow, K, W
	ActionDown           // Down arrow, J, S
	ActionSelect         // Enter, Space - pick a card or difficulty, dismiss a modal
	ActionRestart        // R - restart the current difficulty
	ActionBack           // B, Escape - back to the difficulty menu
	ActionScores         // Tab - open the scoreboard from the menu
	ActionQuit           // Q, Ctrl+C - exit game/session
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
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionSelect:
		return "Select"
	case ActionRestart:
		return "Restart"
	case ActionBack:
		return "Back"
	case ActionScores:
		return "Scores"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// IsMove reports whether a is one of the four directions.
func (a Action) IsMove() bool {
	switch a {
	case ActionLeft, ActionRight, ActionUp, ActionDown:
		return true
	}
	return false
}
