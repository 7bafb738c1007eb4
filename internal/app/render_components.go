package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"

	"github.com/chmouel/lazydiff/internal/app/state"
)

// renderHeader renders the application header.
func (m *Model) renderHeader(layout layoutDims) string {
	headerStyle := lipgloss.NewStyle().
		Background(m.theme.AccentDim).
		Foreground(m.theme.TextFg).
		Bold(true).
		Width(layout.width).
		Padding(0, 2).Align(lipgloss.Center)

	parts := []string{"lazydiff"}
	if m.root != "" {
		parts = append(parts, filepath.Base(m.root))
	}
	if m.loaded {
		parts = append(parts, fmt.Sprintf("%d changes", m.list.Total()))
	}
	if n := len(m.list.SelectedChanges()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	if n := len(m.view.SelectedCommits); n > 0 {
		parts = append(parts, fmt.Sprintf("%d commits selected", n))
	}
	return headerStyle.Render(strings.Join(parts, "  •  "))
}

// renderFooter shows the current status message, or key hints for the
// focused pane when there is none.
func (m *Model) renderFooter(layout layoutDims) string {
	footerStyle := lipgloss.NewStyle().
		Foreground(m.theme.TextFg).
		Background(m.theme.BorderDim).
		Padding(0, 1)

	var content string
	if m.statusText != "" {
		content = m.statusStyle().Render(m.statusText)
	} else {
		content = strings.Join(m.footerHints(), "  ")
	}

	width := layout.width
	var spinnerView string
	if m.loading {
		spinnerView = "  " + m.spinner.View()
		width = max(width-lipgloss.Width(spinnerView), 0)
	}
	inner := uint(max(width-footerStyle.GetHorizontalFrameSize(), 0)) //nolint:gosec
	content = padding.String(truncate.StringWithTail(content, inner, "…"), inner)
	return footerStyle.Render(content) + spinnerView
}

func (m *Model) footerHints() []string {
	hints := []string{m.renderKeyHint("j/k", "Move")}
	if m.view.FocusedPane == state.PaneCommits {
		hints = append(hints,
			m.renderKeyHint("space", "Select"),
			m.renderKeyHint("a", "All"),
			m.renderKeyHint("E", "Export"),
		)
	} else {
		hints = append(hints,
			m.renderKeyHint("space", "Select"),
			m.renderKeyHint("a", "Group"),
			m.renderKeyHint("x", "Quick export"),
			m.renderKeyHint("e", "Export"),
			m.renderKeyHint("t", m.list.Mode.String()),
		)
	}
	hints = append(hints,
		m.renderKeyHint("J/K", "Scroll diff"),
		m.renderKeyHint("tab", "Pane"),
		m.renderKeyHint("?", "Help"),
		m.renderKeyHint("q", "Quit"),
	)
	return hints
}

func (m *Model) statusStyle() lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	switch m.statusSeverity {
	case severityError:
		return style.Foreground(m.theme.DeletedFg)
	case severityWarn:
		return style.Foreground(m.theme.ModifiedFg)
	default:
		return style.Foreground(m.theme.AddedFg)
	}
}

// renderKeyHint renders a single key hint.
func (m *Model) renderKeyHint(key, label string) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(m.theme.AccentFg).
		Background(m.theme.Accent).
		Bold(true).
		Padding(0, 1)
	labelStyle := lipgloss.NewStyle().Foreground(m.theme.Accent)
	return fmt.Sprintf("%s %s", keyStyle.Render(key), labelStyle.Render(label))
}

// renderPaneTitle renders a pane title with focus indicators.
func (m *Model) renderPaneTitle(index int, title, detail string, focused bool, width int) string {
	numStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	titleStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	if focused {
		numStyle = numStyle.Foreground(m.theme.Accent).Bold(true)
		titleStyle = titleStyle.Foreground(m.theme.TextFg).Bold(true)
	}
	line := fmt.Sprintf("%s %s", numStyle.Render(fmt.Sprintf("[%d]", index)), titleStyle.Render(title))
	if detail != "" {
		line += " " + lipgloss.NewStyle().Foreground(m.theme.MutedFg).Render(detail)
	}
	return fitLine(line, width)
}

// basePaneStyle returns the base style for panes.
func (m *Model) basePaneStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.BorderDim).
		Padding(0, 1)
}

// paneStyle returns a pane style with focus indication.
func (m *Model) paneStyle(focused bool) lipgloss.Style {
	borderColor := m.theme.BorderDim
	borderStyle := lipgloss.NormalBorder()
	if focused {
		borderColor = m.theme.Accent
		borderStyle = lipgloss.RoundedBorder()
	}
	return lipgloss.NewStyle().
		Border(borderStyle).
		BorderForeground(borderColor).
		Padding(0, 1)
}

// renderPane draws content inside a bordered pane of the given outer size.
func (m *Model) renderPane(content string, focused bool, width, height int) string {
	style := m.paneStyle(focused)
	return style.
		Width(max(1, width-style.GetHorizontalBorderSize())).
		Height(max(1, height-style.GetVerticalBorderSize())).
		MaxHeight(height).
		Render(content)
}
