package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazydiff/internal/app/services"
)

// openPager shows the untruncated preview text in the external pager.
func (m *Model) openPager() tea.Cmd {
	if m.preview.Loading || m.preview.Raw == "" {
		return m.setStatus("Nothing to page", severityWarn)
	}
	pager := services.PagerCommand(m.config)
	m.debugf("opening pager %q for %s", pager, m.preview.Key)
	return tea.ExecProcess(services.PagerCmd(pager, m.preview.Raw), func(err error) tea.Msg {
		return pagerFinishedMsg{err: err}
	})
}
