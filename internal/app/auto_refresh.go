package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazydiff/internal/app/services"
)

func (m *Model) startAutoRefresh() tea.Cmd {
	if m.autoRefreshStarted {
		return nil
	}
	if m.autoRefreshInterval() <= 0 {
		return nil
	}
	m.autoRefreshStarted = true
	return m.autoRefreshTick()
}

func (m *Model) autoRefreshInterval() time.Duration {
	interval := m.config.RefreshInterval
	if interval <= 0 {
		return 0
	}
	if interval < time.Second {
		m.debugf("auto refresh interval too small (%s), clamping to 1s", interval)
		return time.Second
	}
	return interval
}

func (m *Model) autoRefreshTick() tea.Cmd {
	interval := m.autoRefreshInterval()
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return autoRefreshTickMsg{}
	})
}

// startGitWatcher watches the repository when the backend can locate it.
func (m *Model) startGitWatcher() tea.Cmd {
	if !m.config.AutoRefresh {
		return nil
	}
	if m.watcher != nil && m.watcher.Started {
		return nil
	}
	locator, ok := m.backend.(services.RepoLocator)
	if !ok {
		return nil
	}
	if m.watcher == nil {
		m.watcher = services.NewChangeWatcher(locator, m.debugf)
	}
	started, err := m.watcher.Start(m.ctx)
	if err != nil {
		m.debugf("auto refresh disabled: %v", err)
		return nil
	}
	if !started {
		return nil
	}
	return m.waitForGitWatchEvent()
}

func (m *Model) stopGitWatcher() {
	if m.watcher == nil || !m.watcher.Started {
		return
	}
	m.watcher.Stop()
}

func (m *Model) waitForGitWatchEvent() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	events := m.watcher.NextEvent()
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		_, ok := <-events
		if !ok {
			return nil
		}
		return gitDirChangedMsg{}
	}
}

// handleGitDirChanged refreshes after watcher activity, at most once per
// debounce window. The refresh waits while an export prompt is open.
func (m *Model) handleGitDirChanged() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	m.watcher.ResetWaiting()
	cmds := []tea.Cmd{m.waitForGitWatchEvent()}
	if !m.screens.IsActive() && m.watcher.ShouldRefresh(m.now()) {
		cmds = append(cmds, m.refresh())
	}
	return tea.Batch(cmds...)
}
