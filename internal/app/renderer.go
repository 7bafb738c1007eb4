package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/chmouel/lazydiff/internal/app/screen"
)

// View renders the browser and any open overlay.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	// Wait for window size before rendering full UI
	if m.view.WindowWidth == 0 || m.view.WindowHeight == 0 {
		return "Loading..."
	}

	layout := m.computeLayout()
	header := m.renderHeader(layout)
	footer := m.renderFooter(layout)
	body := truncateToHeight(m.renderBody(layout), layout.bodyHeight)
	baseView := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)

	if !m.screens.IsActive() {
		return baseView
	}
	scr := m.screens.Current()
	top := 3
	if scr.Type() == screen.TypeHelp {
		top = 1
	}
	return overlayPopup(baseView, scr.View(), top)
}

// overlayPopup draws popup centred horizontally over base starting at row
// top. Base cells left and right of the popup stay visible.
func overlayPopup(base, popup string, top int) string {
	if base == "" || popup == "" {
		return base
	}

	rows := strings.Split(base, "\n")
	width := lipgloss.Width(rows[0])
	popupWidth := lipgloss.Width(popup)
	left := max((width-popupWidth)/2, 0)

	for i, line := range strings.Split(popup, "\n") {
		r := top + i
		if r >= len(rows) {
			break
		}
		under := rows[r]
		prefix := padRight(ansi.Truncate(under, left, ""), left)
		suffix := ansi.TruncateLeft(under, left+popupWidth, "")
		rows[r] = padRight(prefix+line+suffix, width)
	}
	return strings.Join(rows, "\n")
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// truncateToHeight keeps at most n lines of s.
func truncateToHeight(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
