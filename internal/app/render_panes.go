package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/chmouel/lazydiff/internal/app/services"
	"github.com/chmouel/lazydiff/internal/app/state"
	"github.com/chmouel/lazydiff/internal/models"
)

const tabWidth = 4

// renderBody renders the main body area with panes.
func (m *Model) renderBody(layout layoutDims) string {
	left := lipgloss.JoinVertical(lipgloss.Left,
		m.renderFilesPane(layout),
		m.renderCommitsPane(layout),
	)
	right := m.renderDiffPane(layout)
	gap := lipgloss.NewStyle().
		Width(layout.gapX).
		Render(strings.Repeat(" ", layout.gapX))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, gap, right)
}

func (m *Model) renderFilesPane(layout layoutDims) string {
	focused := m.view.FocusedPane == state.PaneFiles
	width := layout.leftInnerWidth
	title := m.renderPaneTitle(1, "Files", "("+m.list.Mode.String()+")", focused, width)

	rows := m.list.Rows()
	height := m.paneRows(state.PaneFiles)
	lines := []string{title}
	switch {
	case !m.loaded:
		lines = append(lines, m.mutedLine("Loading changes...", width))
	case len(rows) == 0:
		lines = append(lines, m.mutedLine("Working tree clean", width))
	default:
		start, end := m.view.Files.Visible(height, len(rows))
		for i := start; i < end; i++ {
			lines = append(lines, m.renderRow(rows[i], focused && i == m.view.Files.Focus, width))
		}
	}
	return m.renderPane(strings.Join(lines, "\n"), focused, layout.leftWidth, layout.filesHeight)
}

func (m *Model) renderRow(row services.DisplayRow, focused bool, width int) string {
	var line string
	switch row := row.(type) {
	case services.GroupRow:
		line = m.renderGroupRow(row)
	case services.DirectoryRow:
		line = m.renderDirectoryRow(row)
	case services.FileRow:
		line = m.renderFileRow(row)
	}
	return m.highlight(line, focused, width)
}

func (m *Model) renderGroupRow(row services.GroupRow) string {
	style := lipgloss.NewStyle().Foreground(m.theme.HeaderFg).Bold(true)
	line := style.Render(fmt.Sprintf("%s (%d)", row.Label, row.Count))
	if n := m.list.GroupSelectionCount(row.Group); n > 0 {
		line += lipgloss.NewStyle().Foreground(m.theme.SelectedFg).Render(fmt.Sprintf("  %d selected", n))
	}
	return line
}

func (m *Model) renderDirectoryRow(row services.DirectoryRow) string {
	node := row.Node
	indicator := "▾"
	if m.list.Collapsed.Has(node.Path) {
		indicator = "▸"
	}
	name := m.rowIcon(node.Name, true) + node.Name + "/"
	count := lipgloss.NewStyle().Foreground(m.theme.MutedFg).Render(fmt.Sprintf(" %d", node.Descendants()))
	return indent(node.Depth+1) + indicator + " " + lipgloss.NewStyle().Foreground(m.theme.TextFg).Render(name) + count
}

func (m *Model) renderFileRow(row services.FileRow) string {
	record := row.Record
	marker := "[ ]"
	markerStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	if m.list.IsSelected(record.Path) {
		marker = "[x]"
		markerStyle = markerStyle.Foreground(m.theme.SelectedFg).Bold(true)
	}

	depth := 1
	name := record.Path
	if row.Node != nil {
		depth = row.Node.Depth + 1
		name = row.Node.Name
	}
	if record.OldPath != "" {
		name = record.OldPath + " → " + name
	}
	name = m.rowIcon(record.Path, false) + name

	label := record.Status
	if label == "" {
		label = "?"
	}
	status := lipgloss.NewStyle().
		Foreground(m.theme.StatusColor(record.Status)).
		Bold(true).
		Render(fmt.Sprintf("%-2s", label))
	return fmt.Sprintf("%s%s %s %s", indent(depth), markerStyle.Render(marker), status,
		lipgloss.NewStyle().Foreground(m.theme.TextFg).Render(name))
}

func (m *Model) renderCommitsPane(layout layoutDims) string {
	focused := m.view.FocusedPane == state.PaneCommits
	width := layout.leftInnerWidth
	detail := ""
	if n := len(m.commits); n > 0 {
		detail = fmt.Sprintf("(%d)", n)
	}
	title := m.renderPaneTitle(2, "Commits", detail, focused, width)

	height := m.paneRows(state.PaneCommits)
	lines := []string{title}
	switch {
	case m.config.HistoryLimit <= 0:
		lines = append(lines, m.mutedLine("History disabled", width))
	case !m.loaded:
		lines = append(lines, m.mutedLine("Loading history...", width))
	case len(m.commits) == 0:
		lines = append(lines, m.mutedLine("No commits", width))
	default:
		start, end := m.view.Commits.Visible(height, len(m.commits))
		for i := start; i < end; i++ {
			line := m.renderCommitRow(m.commits[i])
			lines = append(lines, m.highlight(line, focused && i == m.view.Commits.Focus, width))
		}
	}
	return m.renderPane(strings.Join(lines, "\n"), focused, layout.leftWidth, layout.commitsHeight)
}

func (m *Model) renderCommitRow(c models.CommitRecord) string {
	marker := "[ ]"
	markerStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	if m.view.SelectedCommits.Has(c.Hash) {
		marker = "[x]"
		markerStyle = markerStyle.Foreground(m.theme.SelectedFg).Bold(true)
	}
	hash := lipgloss.NewStyle().Foreground(m.theme.Accent).Render(c.ShortHash())
	meta := lipgloss.NewStyle().Foreground(m.theme.MutedFg).Render(c.Date + " " + c.Author)
	return fmt.Sprintf("%s %s %s %s", markerStyle.Render(marker), hash, meta,
		lipgloss.NewStyle().Foreground(m.theme.TextFg).Render(c.Message))
}

func (m *Model) renderDiffPane(layout layoutDims) string {
	width := layout.diffInnerWidth
	height := m.diffRows()
	total := len(m.preview.Lines)

	detail := ""
	if total > height {
		first := m.view.DiffScrollTop + 1
		last := min(m.view.DiffScrollTop+height, total)
		detail = fmt.Sprintf("%d-%d/%d", first, last, total)
	}
	if m.preview.Truncated {
		detail = strings.TrimSpace(detail + " truncated, o opens the full diff")
	}
	title := m.renderPaneTitle(3, "Diff", detail, false, width)

	lines := []string{title}
	switch {
	case m.preview.Loading:
		lines = append(lines, m.mutedLine("Loading diff...", width))
	case total == 0:
		lines = append(lines, m.mutedLine("Nothing to show", width))
	default:
		start := min(max(m.view.DiffScrollTop, 0), total)
		end := min(start+height, total)
		for _, line := range m.preview.Lines[start:end] {
			lines = append(lines, m.renderDiffLine(line, width))
		}
	}
	return m.renderPane(strings.Join(lines, "\n"), false, layout.rightWidth, layout.bodyHeight)
}

func (m *Model) renderDiffLine(line string, width int) string {
	line = ansi.Truncate(strings.ReplaceAll(line, "\t", strings.Repeat(" ", tabWidth)), width, "…")
	style := lipgloss.NewStyle().Foreground(m.theme.TextFg)
	switch {
	case strings.HasPrefix(line, "diff "), strings.HasPrefix(line, "index "),
		strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		style = style.Foreground(m.theme.HeaderFg).Bold(true)
	case strings.HasPrefix(line, "@@"):
		style = style.Foreground(m.theme.Accent)
	case strings.HasPrefix(line, "+"):
		style = style.Foreground(m.theme.AddedFg)
	case strings.HasPrefix(line, "-"):
		style = style.Foreground(m.theme.DeletedFg)
	case line == state.TruncationMarker:
		style = style.Foreground(m.theme.MutedFg).Italic(true)
	}
	return style.Render(line)
}

// highlight truncates a row to the pane width and paints the focus bar.
func (m *Model) highlight(line string, focused bool, width int) string {
	line = fitLine(line, width)
	if !focused {
		return line
	}
	return lipgloss.NewStyle().
		Background(m.theme.AccentDim).
		Bold(true).
		Render(ansi.Strip(line))
}

func (m *Model) mutedLine(text string, width int) string {
	return fitLine(lipgloss.NewStyle().Foreground(m.theme.MutedFg).Italic(true).Render(text), width)
}

// fitLine cuts line to width cells and pads it so the pane background is
// even.
func fitLine(line string, width int) string {
	line = ansi.Truncate(line, width, "…")
	if w := lipgloss.Width(line); w < width {
		line += strings.Repeat(" ", width-w)
	}
	return line
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}
