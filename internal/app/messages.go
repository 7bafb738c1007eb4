package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazydiff/internal/export"
	"github.com/chmouel/lazydiff/internal/models"
)

const (
	severityInfo  = "info"
	severityWarn  = "warning"
	severityError = "error"
)

type (
	changesLoadedMsg struct {
		unstaged []models.ChangeRecord
		staged   []models.ChangeRecord
		commits  []models.CommitRecord
		err      error
	}
	previewLoadedMsg struct {
		key  string
		hash string // set for commit previews, used to fill the cache
		text string
	}
	exportDoneMsg struct {
		result       export.Result
		err          error
		clearCommits bool
	}
	pagerFinishedMsg   struct{ err error }
	notifyMsg          struct{ message, severity string }
	clearStatusMsg     struct{ seq int }
	gitDirChangedMsg   struct{}
	autoRefreshTickMsg struct{}
)

// notifyBuffer bounds the notifications queued while the UI is busy.
const notifyBuffer = 32

// Notifier carries messages from backend goroutines to the UI loop.
type Notifier struct {
	ch chan notifyMsg
}

// NewNotifier creates a Notifier.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan notifyMsg, notifyBuffer)}
}

// Notify queues a status message. It never blocks; messages are dropped
// when the queue is full.
func (n *Notifier) Notify(message, severity string) {
	if n == nil {
		return
	}
	select {
	case n.ch <- notifyMsg{message: message, severity: severity}:
	default:
	}
}

func (m *Model) waitForNotification() tea.Cmd {
	if m.notifier == nil {
		return nil
	}
	ch := m.notifier.ch
	return func() tea.Msg {
		select {
		case msg := <-ch:
			return msg
		case <-m.ctx.Done():
			return nil
		}
	}
}

// setStatus shows a transient message. Each message carries a sequence
// number so that only the clear scheduled for the latest one applies.
func (m *Model) setStatus(text, severity string) tea.Cmd {
	m.statusSeq++
	m.statusText = text
	m.statusSeverity = severity
	if severity == severityError {
		m.debugf("status: %s", text)
	}

	seq := m.statusSeq
	timeout := m.config.StatusTimeout
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	return tea.Tick(timeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}
