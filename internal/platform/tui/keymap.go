package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/spikepulse/internal/core"
)

// KeyMapper translates Bubble Tea key messages to game actions. Bindings
// live in one place so they stay testable and easy to change.
type KeyMapper struct{}

// NewKeyMapper creates a key mapper with the default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to an action. Returns the action (may be
// ActionNone) and whether it is a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	case " ", "w", "up":
		return core.ActionJump, false
	case "d", "x", "right":
		return core.ActionDash, false
	case "g", "s", "down":
		return core.ActionGravityFlip, false
	case "enter":
		return core.ActionConfirm, false
	case "b", "esc":
		return core.ActionBack, false
	case "p":
		return core.ActionPause, false
	case "r":
		return core.ActionRestart, false
	}
	return core.ActionNone, false
}
