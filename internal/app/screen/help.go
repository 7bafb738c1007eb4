package screen

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"

	"github.com/chmouel/lazydiff/internal/theme"
)

const pathEntryHelp = "Export prompt: type a path, ctrl+v pastes, ctrl+u clears, ctrl+t switches the dump layout, " +
	"enter confirms and esc cancels. An empty path or a directory gets a timestamped file name."

// HelpScreen lists every key binding.
type HelpScreen struct {
	Keys   help.KeyMap
	Help   help.Model
	Thm    *theme.Theme
	Width  int
	Height int
}

// NewHelpScreen renders keys with bubbles/help in full mode.
func NewHelpScreen(keys help.KeyMap, maxWidth, maxHeight int, thm *theme.Theme) *HelpScreen {
	h := help.New()
	h.ShowAll = true
	h.FullSeparator = "    "
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(thm.Accent).Bold(true)
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(thm.TextFg)
	h.Styles.FullSeparator = lipgloss.NewStyle().Foreground(thm.BorderDim)

	width := min(100, max(40, maxWidth-4))
	h.Width = width - 6
	return &HelpScreen{
		Keys:   keys,
		Help:   h,
		Thm:    thm,
		Width:  width,
		Height: maxHeight,
	}
}

// Type returns the screen type.
func (s *HelpScreen) Type() Type {
	return TypeHelp
}

// Update closes the screen on esc, q or ?.
func (s *HelpScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case keyEsc, keyCtrlC, "q", "?":
		return nil, nil
	}
	return s, nil
}

// View renders the help box.
func (s *HelpScreen) View() string {
	inner := s.Width - 6
	titleStyle := lipgloss.NewStyle().
		Foreground(s.Thm.Accent).
		Bold(true).
		Width(inner).
		Align(lipgloss.Center)
	noteStyle := lipgloss.NewStyle().Foreground(s.Thm.MutedFg)

	body := []string{
		titleStyle.Render("lazydiff keys"),
		s.Help.View(s.Keys),
		noteStyle.Render(wrap.String(pathEntryHelp, inner)),
		noteStyle.Render("esc / q / ? to close"),
	}
	content := strings.Join(body, "\n\n")
	if s.Height > 0 {
		lines := strings.Split(content, "\n")
		if limit := s.Height - 4; limit > 0 && len(lines) > limit {
			content = strings.Join(lines[:limit], "\n")
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Thm.Accent).
		Padding(1, 2).
		Width(s.Width).
		Render(content)
}
