package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazydiff/internal/app/services"
	"github.com/chmouel/lazydiff/internal/app/state"
	"github.com/chmouel/lazydiff/internal/git"
	"github.com/chmouel/lazydiff/internal/models"
)

// previewKey identifies what the diff pane should show for the current
// focus. Fetch results carry the key they were issued for.
func (m *Model) previewKey() string {
	if m.view.FocusedPane == state.PaneCommits {
		if c, ok := m.focusedCommit(); ok {
			return "commit:" + c.Hash
		}
		return ""
	}
	row, ok := m.focusedRow()
	if !ok {
		return ""
	}
	switch row := row.(type) {
	case services.FileRow:
		return fmt.Sprintf("file:%d:%s", row.Group, row.Record.Path)
	case services.DirectoryRow:
		return fmt.Sprintf("dir:%d:%s", row.Node.Group, row.Node.Path)
	case services.GroupRow:
		return fmt.Sprintf("group:%d", row.Group)
	}
	return ""
}

// loadPreview updates the diff pane for the current focus. Unless force
// is set nothing happens when the focus key is unchanged.
func (m *Model) loadPreview(force bool) tea.Cmd {
	key := m.previewKey()
	if key == "" {
		m.preview.Clear()
		m.view.DiffScrollTop = 0
		return nil
	}
	if !force && key == m.preview.Key {
		return nil
	}
	if key != m.preview.Key {
		m.view.DiffScrollTop = 0
	}

	if m.view.FocusedPane == state.PaneCommits {
		c, _ := m.focusedCommit()
		if text, ok := m.commitCache.Get(c.Hash); ok {
			m.preview.Key = key
			m.setPreviewText(text)
			return nil
		}
		m.preview.Request(key)
		backend, ctx := m.backend, m.ctx
		return func() tea.Msg {
			return previewLoadedMsg{key: key, hash: c.Hash, text: backend.CommitDiff(ctx, c.Hash)}
		}
	}

	row, _ := m.focusedRow()
	switch row := row.(type) {
	case services.FileRow:
		m.preview.Request(key)
		backend, ctx := m.backend, m.ctx
		record, staged := row.Record, row.Group.Staged()
		return func() tea.Msg {
			return previewLoadedMsg{key: key, text: backend.FileDiff(ctx, record.Path, staged, record.Status)}
		}
	case services.DirectoryRow:
		m.preview.Key = key
		m.setPreviewText(m.directorySummary(row.Node))
	case services.GroupRow:
		m.preview.Key = key
		m.setPreviewText(m.groupSummary(row))
	}
	return nil
}

// handlePreviewLoaded applies a fetch result unless focus moved on since
// it was issued.
func (m *Model) handlePreviewLoaded(msg previewLoadedMsg) {
	if msg.hash != "" && msg.text != git.ErrorPlaceholder {
		m.commitCache.Set(msg.hash, msg.text)
	}
	if msg.key != m.previewKey() {
		m.debugf("dropping stale preview for %s", msg.key)
		return
	}
	m.preview.Key = msg.key
	m.setPreviewText(msg.text)
}

func (m *Model) setPreviewText(text string) {
	if strings.TrimSpace(text) == "" {
		text = "(no changes)"
	}
	m.preview.Set(text, m.config.MaxDiffChars)
	m.view.DiffScrollTop = services.ScrollText(m.view.DiffScrollTop, 0, m.diffRows(), len(m.preview.Lines))
}

func (m *Model) groupSummary(row services.GroupRow) string {
	selected := m.list.GroupSelectionCount(row.Group)
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d files, %d selected\n\n", row.Label, row.Count, selected)
	for _, r := range m.list.GroupRecords(row.Group) {
		fmt.Fprintf(&b, "%-2s %s\n", r.Status, r.Path)
	}
	return b.String()
}

func (m *Model) directorySummary(node *services.ChangeTreeNode) string {
	records := node.CollectRecords()
	var b strings.Builder
	fmt.Fprintf(&b, "%s/: %d files\n\n", node.Path, len(records))
	for _, r := range records {
		fmt.Fprintf(&b, "%-2s %s (%s)\n", r.Status, r.Path, models.DescribeStatus(r.Status))
	}
	return b.String()
}
