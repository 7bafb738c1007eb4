// Package state holds the navigation state of the browser.
package state

import "github.com/chmouel/lazydiff/internal/app/services"

// Pane identifies a list pane.
type Pane int

// Panes, left column top to bottom.
const (
	PaneFiles Pane = iota
	PaneCommits
)

func (p Pane) String() string {
	if p == PaneCommits {
		return "commits"
	}
	return "files"
}

// Other returns the pane that is not p.
func (p Pane) Other() Pane {
	if p == PaneFiles {
		return PaneCommits
	}
	return PaneFiles
}

// InputMode tells whether keys drive navigation or edit an export path.
type InputMode int

// Input modes.
const (
	InputNormal InputMode = iota
	InputPathEntry
)

func (i InputMode) String() string {
	if i == InputPathEntry {
		return "path-entry"
	}
	return "normal"
}

// BrowserState is the focus, scroll and selection state that is not
// derived from the change lists.
type BrowserState struct {
	FocusedPane     Pane
	Files           services.ScrollWindow
	Commits         services.ScrollWindow
	SelectedCommits services.PathSet
	DiffScrollTop   int
	WindowWidth     int
	WindowHeight    int
}

// NewBrowserState returns the state of a freshly started browser.
func NewBrowserState() *BrowserState {
	return &BrowserState{SelectedCommits: services.NewPathSet()}
}

// Window returns the scroll window of a pane.
func (s *BrowserState) Window(p Pane) *services.ScrollWindow {
	if p == PaneCommits {
		return &s.Commits
	}
	return &s.Files
}
