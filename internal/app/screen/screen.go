// Package screen provides the modal overlays drawn above the browser.
package screen

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Screen represents a modal screen overlay that can handle input and render itself.
type Screen interface {
	// Update processes a key message and returns the updated screen and any command.
	// Returning nil for the Screen signals that this screen should be closed.
	Update(msg tea.KeyMsg) (Screen, tea.Cmd)

	// View renders the screen's content.
	View() string

	// Type returns the screen's type identifier.
	Type() Type
}

// Type identifies the kind of screen being displayed.
type Type int

// Screen type constants.
const (
	TypeNone Type = iota
	TypePathEntry
	TypeHelp
)

// String returns a human-readable name for the screen type.
func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypePathEntry:
		return "path-entry"
	case TypeHelp:
		return "help"
	default:
		return "unknown"
	}
}

const (
	keyEnter     = "enter"
	keyEsc       = "esc"
	keyCtrlC     = "ctrl+c"
	keyBackspace = "backspace"
	keyLeft      = "left"
	keyRight     = "right"
	keyHome      = "home"
	keyEnd       = "end"
	keyCtrlA     = "ctrl+a"
	keyCtrlE     = "ctrl+e"
	keyCtrlU     = "ctrl+u"
	keyCtrlV     = "ctrl+v"
	keyCtrlT     = "ctrl+t"
)
