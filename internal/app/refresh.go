package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazydiff/internal/models"
)

// refresh reloads both change lists and the history.
func (m *Model) refresh() tea.Cmd {
	load := m.loadChanges()
	if load == nil {
		return nil
	}
	m.loading = true
	return tea.Batch(load, m.spinner.Tick)
}

func (m *Model) loadChanges() tea.Cmd {
	if m.backend == nil {
		return nil
	}
	backend, ctx, limit := m.backend, m.ctx, m.config.HistoryLimit
	return func() tea.Msg {
		unstaged, err := backend.ListUnstaged(ctx)
		if err != nil {
			return changesLoadedMsg{err: fmt.Errorf("list changes: %w", err)}
		}
		staged, err := backend.ListStaged(ctx)
		if err != nil {
			return changesLoadedMsg{err: fmt.Errorf("list staged changes: %w", err)}
		}
		var commits []models.CommitRecord
		if limit > 0 {
			commits, err = backend.ListHistory(ctx, limit)
			if err != nil {
				return changesLoadedMsg{err: fmt.Errorf("list history: %w", err)}
			}
		}
		return changesLoadedMsg{unstaged: unstaged, staged: staged, commits: commits}
	}
}

// handleChangesLoaded rebuilds the rows from fresh data. Selections and
// collapsed directories are kept by path; focus is re-clamped.
func (m *Model) handleChangesLoaded(msg changesLoadedMsg) tea.Cmd {
	m.loading = false
	if msg.err != nil {
		return m.setStatus("Refresh failed: "+msg.err.Error(), severityError)
	}

	m.list.SetChanges(msg.unstaged, msg.staged)
	m.commits = msg.commits
	m.loaded = true
	m.reclamp()
	m.debugf("refreshed: %d unstaged, %d staged, %d commits", len(msg.unstaged), len(msg.staged), len(msg.commits))
	return m.loadPreview(true)
}
