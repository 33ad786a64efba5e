package core

// Action represents a semantic game action, abstracted from physical key
// presses. The platform layer maps keys to actions and publishes them as
// normalized input events; game modules never see raw input.
type Action int

const (
	ActionNone         Action = iota
	ActionJump                // Space, W, Up - jump
	ActionDash                // D, Shift - dash in the facing direction
	ActionGravityFlip         // G, S, Down - invert gravity
	ActionConfirm             // Enter - confirm selection in menu
	ActionBack                // B, Escape - go back to menu
	ActionRestart             // R key - restart game after game over
	ActionQuit                // Q, Ctrl+C - exit game/session
	ActionPause               // P, Escape - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionJump:
		return "Jump"
	case ActionDash:
		return "Dash"
	case ActionGravityFlip:
		return "GravityFlip"
	case ActionConfirm:
		return "Confirm"
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

// EventName returns the normalized input event name published on the bus
// when the action is triggered (e.g. "input:jump:start").
func (a Action) EventName() string {
	switch a {
	case ActionJump:
		return "input:jump:start"
	case ActionDash:
		return "input:dash:start"
	case ActionGravityFlip:
		return "input:gravity-toggle:start"
	case ActionPause:
		return "input:pause:start"
	case ActionRestart:
		return "input:restart:start"
	default:
		return ""
	}
}
