package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazydiff/internal/app/screen"
	"github.com/chmouel/lazydiff/internal/app/services"
	"github.com/chmouel/lazydiff/internal/app/state"
	"github.com/chmouel/lazydiff/internal/models"
)

// handleKeyMsg processes keys while no overlay is open.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, m.quit()

	case key.Matches(msg, k.Up):
		return m, m.moveFocus(-1)
	case key.Matches(msg, k.Down):
		return m, m.moveFocus(1)
	case key.Matches(msg, k.Top):
		return m, m.jumpFocus(0)
	case key.Matches(msg, k.Bottom):
		return m, m.jumpFocus(m.paneTotal(m.view.FocusedPane) - 1)
	case key.Matches(msg, k.HalfDown):
		return m, m.moveFocus(max(1, m.paneRows(m.view.FocusedPane)/2))
	case key.Matches(msg, k.HalfUp):
		return m, m.moveFocus(-max(1, m.paneRows(m.view.FocusedPane)/2))

	case key.Matches(msg, k.SwitchPane):
		return m, m.focusPane(m.view.FocusedPane.Other())
	case key.Matches(msg, k.PaneLeft):
		return m, m.focusPane(state.PaneFiles)
	case key.Matches(msg, k.PaneRight):
		return m, m.focusPane(state.PaneCommits)

	case key.Matches(msg, k.DiffDown):
		m.scrollDiff(services.PageStep(m.diffRows()))
		return m, nil
	case key.Matches(msg, k.DiffUp):
		m.scrollDiff(-services.PageStep(m.diffRows()))
		return m, nil

	case key.Matches(msg, k.Select):
		return m, m.toggleFocusedSelection()
	case key.Matches(msg, k.SelectGroup):
		return m, m.toggleFocusedGroup()
	case key.Matches(msg, k.Enter):
		return m, m.activateFocused()
	case key.Matches(msg, k.ToggleView):
		return m, m.toggleViewMode()

	case key.Matches(msg, k.ExportFile):
		return m, m.exportFocusedFile()
	case key.Matches(msg, k.ExportFiles):
		return m, m.promptExportFiles()
	case key.Matches(msg, k.ExportCommits):
		return m, m.promptExportCommits()
	case key.Matches(msg, k.Overview):
		return m, m.promptExportOverview()
	case key.Matches(msg, k.Dump):
		return m, m.promptCodeDump()

	case key.Matches(msg, k.Pager):
		return m, m.openPager()
	case key.Matches(msg, k.Refresh):
		return m, m.refresh()
	case key.Matches(msg, k.Help):
		m.screens.Push(screen.NewHelpScreen(m.keys, m.view.WindowWidth, m.view.WindowHeight, m.theme))
		return m, nil
	}
	return m, nil
}

func (m *Model) paneTotal(p state.Pane) int {
	if p == state.PaneCommits {
		return len(m.commits)
	}
	return len(m.list.Rows())
}

// reclamp re-applies the scroll rule to both panes.
func (m *Model) reclamp() {
	m.view.Files.Reclamp(m.paneRows(state.PaneFiles), m.paneTotal(state.PaneFiles))
	m.view.Commits.Reclamp(m.paneRows(state.PaneCommits), m.paneTotal(state.PaneCommits))
	m.view.DiffScrollTop = services.ScrollText(m.view.DiffScrollTop, 0, m.diffRows(), len(m.preview.Lines))
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	p := m.view.FocusedPane
	m.view.Window(p).Move(delta, m.paneRows(p), m.paneTotal(p))
	return m.loadPreview(false)
}

func (m *Model) jumpFocus(index int) tea.Cmd {
	p := m.view.FocusedPane
	m.view.Window(p).SetFocus(index, m.paneRows(p), m.paneTotal(p))
	return m.loadPreview(false)
}

func (m *Model) focusPane(p state.Pane) tea.Cmd {
	if m.view.FocusedPane == p {
		return nil
	}
	m.view.FocusedPane = p
	return m.loadPreview(false)
}

func (m *Model) scrollDiff(delta int) {
	m.view.DiffScrollTop = services.ScrollText(m.view.DiffScrollTop, delta, m.diffRows(), len(m.preview.Lines))
}

// focusedRow returns the row under the files cursor.
func (m *Model) focusedRow() (services.DisplayRow, bool) {
	rows := m.list.Rows()
	i := m.view.Files.Focus
	if i < 0 || i >= len(rows) {
		return nil, false
	}
	return rows[i], true
}

func (m *Model) focusedCommit() (models.CommitRecord, bool) {
	i := m.view.Commits.Focus
	if i < 0 || i >= len(m.commits) {
		return models.CommitRecord{}, false
	}
	return m.commits[i], true
}

func (m *Model) toggleFocusedSelection() tea.Cmd {
	if m.view.FocusedPane == state.PaneCommits {
		if c, ok := m.focusedCommit(); ok {
			m.view.SelectedCommits.Toggle(c.Hash)
		}
		return nil
	}

	row, ok := m.focusedRow()
	if !ok {
		return nil
	}
	switch row := row.(type) {
	case services.FileRow:
		m.list.ToggleSelection(row.Record.Path)
	case services.GroupRow:
		m.list.ToggleGroupSelection(m.list.GroupRecords(row.Group))
	case services.DirectoryRow:
		// directories carry no selection state
	}
	return nil
}

func (m *Model) toggleFocusedGroup() tea.Cmd {
	if m.view.FocusedPane == state.PaneCommits {
		all := len(m.commits) > 0
		for _, c := range m.commits {
			if !m.view.SelectedCommits.Has(c.Hash) {
				all = false
				break
			}
		}
		for _, c := range m.commits {
			if all {
				m.view.SelectedCommits.Remove(c.Hash)
			} else {
				m.view.SelectedCommits.Add(c.Hash)
			}
		}
		return nil
	}

	group, ok := services.RowGroup(m.list.Rows(), m.view.Files.Focus)
	if !ok {
		return nil
	}
	m.list.ToggleGroupSelection(m.list.GroupRecords(group))
	return nil
}

func (m *Model) activateFocused() tea.Cmd {
	if m.view.FocusedPane == state.PaneFiles {
		if row, ok := m.focusedRow(); ok {
			if dir, ok := row.(services.DirectoryRow); ok {
				m.list.ToggleCollapse(dir.Node.Path)
				m.reclamp()
				return m.loadPreview(false)
			}
		}
	}
	return m.loadPreview(true)
}

// toggleViewMode switches flat and tree layouts. Row identities differ
// between the two, so focus returns to the first row.
func (m *Model) toggleViewMode() tea.Cmd {
	m.list.ToggleMode()
	m.view.Files.Reset()
	m.reclamp()
	return m.loadPreview(false)
}
