package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazydiff/internal/app/screen"
	"github.com/chmouel/lazydiff/internal/app/services"
	"github.com/chmouel/lazydiff/internal/app/state"
	"github.com/chmouel/lazydiff/internal/export"
	"github.com/chmouel/lazydiff/internal/models"
)

func (m *Model) runExport(clearCommits bool, fn func(ctx context.Context) (export.Result, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		res, err := fn(ctx)
		return exportDoneMsg{result: res, err: err, clearCommits: clearCommits}
	}
}

func (m *Model) pushPathEntry(title string, kind export.Kind, hint string, submit func(path string, layout export.DumpLayout) tea.Cmd) *screen.PathEntryScreen {
	entry := screen.NewPathEntryScreen(title, kind, hint, m.theme)
	entry.ReadClipboard = m.readClipboard
	entry.OnSubmit = submit
	m.screens.Push(entry)
	return entry
}

// exportFocusedFile writes the focused file's diff to the fixed quick
// export path without prompting.
func (m *Model) exportFocusedFile() tea.Cmd {
	if m.view.FocusedPane != state.PaneFiles {
		return m.setStatus("Focus a file to export it", severityWarn)
	}
	row, ok := m.focusedRow()
	if !ok {
		return m.setStatus("Focus a file to export it", severityWarn)
	}
	file, ok := row.(services.FileRow)
	if !ok {
		return m.setStatus("Focus a file to export it", severityWarn)
	}

	change := models.SelectedChange{Record: file.Record, Group: file.Group}
	path := m.config.SingleExportPath
	return m.runExport(false, func(ctx context.Context) (export.Result, error) {
		return m.exporter.ExportFile(ctx, change, path)
	})
}

func (m *Model) promptExportFiles() tea.Cmd {
	if len(m.list.SelectedChanges()) == 0 {
		return m.setStatus("No files selected: space selects, a selects a group", severityWarn)
	}
	m.pushPathEntry("Export selected files", export.MultiFile, "diff_<timestamp>.txt",
		func(path string, _ export.DumpLayout) tea.Cmd {
			changes := m.list.SelectedChanges()
			return m.runExport(false, func(ctx context.Context) (export.Result, error) {
				return m.exporter.ExportFiles(ctx, path, changes)
			})
		})
	return nil
}

// commitsToExport returns the multi-selected commits in history order, or
// the focused commit when nothing is selected.
func (m *Model) commitsToExport() ([]models.CommitRecord, bool) {
	var selected []models.CommitRecord
	for _, c := range m.commits {
		if m.view.SelectedCommits.Has(c.Hash) {
			selected = append(selected, c)
		}
	}
	if len(selected) > 0 {
		return selected, true
	}
	if c, ok := m.focusedCommit(); ok {
		return []models.CommitRecord{c}, false
	}
	return nil, false
}

func (m *Model) promptExportCommits() tea.Cmd {
	hint := "commits_<timestamp>.txt"
	if commits, multi := m.commitsToExport(); len(commits) == 1 && !multi {
		hint = "commit_" + commits[0].ShortHash() + "_<timestamp>.txt"
	}
	m.pushPathEntry("Export commits", export.Commits, hint,
		func(path string, _ export.DumpLayout) tea.Cmd {
			commits, multi := m.commitsToExport()
			if len(commits) == 0 {
				return m.setStatus("No commits to export", severityWarn)
			}
			return m.runExport(multi, func(ctx context.Context) (export.Result, error) {
				return m.exporter.ExportCommits(ctx, path, commits)
			})
		})
	return nil
}

func (m *Model) promptExportOverview() tea.Cmd {
	m.pushPathEntry("Export file overview", export.Overview, "files_overview_<timestamp>.txt",
		func(path string, _ export.DumpLayout) tea.Cmd {
			return m.runExport(false, func(ctx context.Context) (export.Result, error) {
				return m.exporter.ExportOverview(ctx, path)
			})
		})
	return nil
}

func (m *Model) promptCodeDump() tea.Cmd {
	entry := m.pushPathEntry("Code dump", export.CodeDump, "code_dump_<timestamp>",
		func(path string, layout export.DumpLayout) tea.Cmd {
			return m.runExport(false, func(ctx context.Context) (export.Result, error) {
				return m.exporter.ExportCodeDump(ctx, path, layout)
			})
		})
	entry.EnableLayoutToggle(export.DumpCombined)
	return nil
}

func (m *Model) handleExportDone(msg exportDoneMsg) tea.Cmd {
	if msg.err != nil {
		if errors.Is(msg.err, export.ErrNothingToExport) {
			return m.setStatus("Nothing to export", severityWarn)
		}
		return m.setStatus("Export failed: "+msg.err.Error(), severityError)
	}

	if msg.clearCommits {
		m.view.SelectedCommits.Clear()
	}
	m.lastExportPath = msg.result.Path
	text := msg.result.Summary()
	if m.config.CopyExportPath {
		if err := m.writeClipboard(msg.result.Path); err != nil {
			return m.setStatus(text+" (copy failed: "+err.Error()+")", severityWarn)
		}
		text += " (path copied)"
	}
	return m.setStatus(text, severityInfo)
}

func (m *Model) handlePaste(msg screen.PasteMsg) tea.Cmd {
	entry, ok := m.screens.Current().(*screen.PathEntryScreen)
	if !ok || msg.Target != entry {
		m.debugf("dropping paste for a closed prompt")
		return nil
	}
	if err := entry.ApplyPaste(msg); err != nil {
		return m.setStatus("Paste failed: "+err.Error(), severityError)
	}
	return nil
}
