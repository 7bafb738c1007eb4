// Package app implements the lazydiff terminal browser.
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazydiff/internal/app/screen"
	"github.com/chmouel/lazydiff/internal/app/services"
	"github.com/chmouel/lazydiff/internal/app/state"
	"github.com/chmouel/lazydiff/internal/config"
	"github.com/chmouel/lazydiff/internal/export"
	log "github.com/chmouel/lazydiff/internal/log"
	"github.com/chmouel/lazydiff/internal/models"
	"github.com/chmouel/lazydiff/internal/theme"
	"github.com/chmouel/lazydiff/internal/utils"
)

// Backend is the data source of the browser. *git.Service implements it.
type Backend interface {
	ListUnstaged(ctx context.Context) ([]models.ChangeRecord, error)
	ListStaged(ctx context.Context) ([]models.ChangeRecord, error)
	ListAllFiles(ctx context.Context) ([]string, error)
	ListHistory(ctx context.Context, maxCount int) ([]models.CommitRecord, error)
	FileDiff(ctx context.Context, path string, staged bool, status string) string
	CommitDiff(ctx context.Context, hash string) string
	MultiDiff(ctx context.Context, entries []models.SelectedChange) (string, error)
}

// Options carries the collaborators NewModel does not derive from the
// configuration.
type Options struct {
	// Cwd resolves relative export paths.
	Cwd string
	// Root is the repository top level, used to read code dump sources.
	Root string
	// Writer persists exports; nil writes to the filesystem.
	Writer export.Writer
	// ReadClipboard and WriteClipboard default to the system clipboard.
	ReadClipboard  func() (string, error)
	WriteClipboard func(string) error
	// Notifier delivers messages raised by the backend.
	Notifier *Notifier
}

// Model is the Bubble Tea model of the browser.
type Model struct {
	config   *config.AppConfig
	backend  Backend
	exporter *export.Exporter
	theme    *theme.Theme
	keys     keyMap
	root     string

	list    *services.ListModel
	commits []models.CommitRecord
	view    *state.BrowserState
	preview state.Preview

	screens     *screen.Manager
	commitCache *services.CommitDiffCache
	watcher     *services.ChangeWatcher
	notifier    *Notifier
	spinner     spinner.Model

	readClipboard  func() (string, error)
	writeClipboard func(string) error

	statusText     string
	statusSeverity string
	statusSeq      int

	loading            bool
	loaded             bool
	autoRefreshStarted bool
	lastExportPath     string
	quitting           bool
	ctx                context.Context
	cancel             context.CancelFunc
	debugf             func(string, ...any)
	now                func() time.Time
}

// NewModel creates the browser model.
func NewModel(cfg *config.AppConfig, backend Backend, opts Options) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	ctx, cancel := context.WithCancel(context.Background())

	exporter := export.NewExporter(backend, opts.Writer, opts.Cwd, opts.Root)
	exporter.Extensions = cfg.DumpExtensions

	readClipboard := opts.ReadClipboard
	if readClipboard == nil {
		readClipboard = utils.ReadClipboard
	}
	writeClipboard := opts.WriteClipboard
	if writeClipboard == nil {
		writeClipboard = utils.WriteClipboard
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	thm := theme.GetTheme(cfg.Theme)
	sp.Style = sp.Style.Foreground(thm.Accent)

	return &Model{
		config:         cfg,
		backend:        backend,
		exporter:       exporter,
		theme:          thm,
		keys:           newKeyMap(),
		root:           opts.Root,
		list:           services.NewListModel(services.ParseViewMode(cfg.ViewMode)),
		view:           state.NewBrowserState(),
		screens:        screen.NewManager(),
		commitCache:    services.NewCommitDiffCache(),
		notifier:       opts.Notifier,
		spinner:        sp,
		readClipboard:  readClipboard,
		writeClipboard: writeClipboard,
		ctx:            ctx,
		cancel:         cancel,
		debugf:         log.Scoped("app"),
		now:            time.Now,
	}
}

// Init loads the change lists and starts the background listeners.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.refresh(),
		m.waitForNotification(),
		m.startGitWatcher(),
		m.startAutoRefresh(),
	)
}

// Update dispatches Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setWindowSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.screens.IsActive() {
			return m, m.screens.Handle(msg)
		}
		return m.handleKeyMsg(msg)

	case screen.PasteMsg:
		return m, m.handlePaste(msg)

	case changesLoadedMsg:
		return m, m.handleChangesLoaded(msg)

	case previewLoadedMsg:
		m.handlePreviewLoaded(msg)
		return m, nil

	case exportDoneMsg:
		return m, m.handleExportDone(msg)

	case pagerFinishedMsg:
		if msg.err != nil {
			return m, m.setStatus("Pager failed: "+msg.err.Error(), severityError)
		}
		return m, nil

	case notifyMsg:
		return m, tea.Batch(m.setStatus(msg.message, msg.severity), m.waitForNotification())

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.statusText = ""
			m.statusSeverity = ""
		}
		return m, nil

	case gitDirChangedMsg:
		return m, m.handleGitDirChanged()

	case autoRefreshTickMsg:
		cmds := []tea.Cmd{m.autoRefreshTick()}
		if !m.screens.IsActive() {
			cmds = append(cmds, m.refresh())
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// InputMode reports whether keys currently edit an export path.
func (m *Model) InputMode() state.InputMode {
	if m.screens.Type() == screen.TypePathEntry {
		return state.InputPathEntry
	}
	return state.InputNormal
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.stopGitWatcher()
	m.cancel()
	return tea.Quit
}
