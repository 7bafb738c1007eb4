package app

import (
	"context"
	"fmt"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/lazydiff/internal/config"
	"github.com/chmouel/lazydiff/internal/models"
)

// fakeBackend serves canned git data and records diff requests.
type fakeBackend struct {
	mu sync.Mutex

	unstaged []models.ChangeRecord
	staged   []models.ChangeRecord
	commits  []models.CommitRecord
	files    []string
	listErr  error

	fileDiffs   map[string]string // keyed by diffKey
	commitDiffs map[string]string
	diffCalls   []string
}

func diffKey(path string, staged bool) string {
	return fmt.Sprintf("%s:%t", path, staged)
}

func (f *fakeBackend) ListUnstaged(context.Context) ([]models.ChangeRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ChangeRecord(nil), f.unstaged...), f.listErr
}

func (f *fakeBackend) ListStaged(context.Context) ([]models.ChangeRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ChangeRecord(nil), f.staged...), nil
}

func (f *fakeBackend) ListAllFiles(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.files...), nil
}

func (f *fakeBackend) ListHistory(_ context.Context, maxCount int) ([]models.CommitRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if maxCount < len(f.commits) {
		return append([]models.CommitRecord(nil), f.commits[:maxCount]...), nil
	}
	return append([]models.CommitRecord(nil), f.commits...), nil
}

func (f *fakeBackend) FileDiff(_ context.Context, path string, staged bool, _ string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := diffKey(path, staged)
	f.diffCalls = append(f.diffCalls, "file:"+key)
	return f.fileDiffs[key]
}

func (f *fakeBackend) CommitDiff(_ context.Context, hash string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.diffCalls = append(f.diffCalls, "commit:"+hash)
	return f.commitDiffs[hash]
}

func (f *fakeBackend) MultiDiff(_ context.Context, entries []models.SelectedChange) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := ""
	for _, e := range entries {
		out += f.fileDiffs[diffKey(e.Record.Path, e.Group.Staged())]
	}
	return out, nil
}

func (f *fakeBackend) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.diffCalls...)
}

// memWriter keeps exports in memory.
type memWriter struct {
	mu    sync.Mutex
	files map[string]string
}

func (w *memWriter) WriteFile(path string, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.files == nil {
		w.files = map[string]string{}
	}
	w.files[path] = string(data)
	return nil
}

func (w *memWriter) get(path string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	content, ok := w.files[path]
	return content, ok
}

func change(path, status string) models.ChangeRecord {
	return models.ChangeRecord{Path: path, StatusCode: " " + status, Status: status}
}

func stagedChange(path, status string) models.ChangeRecord {
	return models.ChangeRecord{Path: path, StatusCode: status + " ", Status: status}
}

// sampleBackend has two unstaged files, one staged file and three commits.
func sampleBackend() *fakeBackend {
	return &fakeBackend{
		unstaged: []models.ChangeRecord{change("a.go", "M"), change("b.go", "M")},
		staged:   []models.ChangeRecord{stagedChange("c.go", "A")},
		commits: []models.CommitRecord{
			{Hash: "1111111aaaa", Author: "Ana", Message: "first", Date: "2024-03-01"},
			{Hash: "2222222bbbb", Author: "Bo", Message: "second", Date: "2024-02-01"},
			{Hash: "3333333cccc", Author: "Cy", Message: "third", Date: "2024-01-01"},
		},
		files: []string{"a.go", "b.go", "c.go", "README.md"},
		fileDiffs: map[string]string{
			diffKey("a.go", false): "diff --git a/a.go b/a.go\n+a\n",
			diffKey("b.go", false): "diff --git a/b.go b/b.go\n+b\n",
			diffKey("c.go", true):  "diff --git a/c.go b/c.go\n+c\n",
		},
		commitDiffs: map[string]string{
			"1111111aaaa": "diff --git a/x b/x\n+1\n",
			"2222222bbbb": "diff --git a/y b/y\n+2\n",
			"3333333cccc": "diff --git a/z b/z\n+3\n",
		},
	}
}

type testEnv struct {
	m       *Model
	backend *fakeBackend
	writer  *memWriter
	cwd     string
	copied  []string
}

func newTestEnv(t *testing.T, backend *fakeBackend, mutate func(*config.AppConfig)) *testEnv {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.AutoRefresh = false
	cfg.ShowIcons = false
	if mutate != nil {
		mutate(cfg)
	}
	env := &testEnv{backend: backend, writer: &memWriter{}, cwd: t.TempDir()}
	env.m = NewModel(cfg, backend, Options{
		Cwd:    env.cwd,
		Root:   env.cwd,
		Writer: env.writer,
		ReadClipboard: func() (string, error) {
			return "", fmt.Errorf("no clipboard")
		},
		WriteClipboard: func(s string) error {
			env.copied = append(env.copied, s)
			return nil
		},
	})
	env.m.setWindowSize(120, 40)
	t.Cleanup(env.m.cancel)
	return env
}

// load runs a refresh synchronously and applies the resulting preview.
func (e *testEnv) load(t *testing.T) {
	t.Helper()
	msg, ok := e.m.loadChanges()().(changesLoadedMsg)
	require.True(t, ok)
	cmd := e.m.handleChangesLoaded(msg)
	if msg.err == nil {
		e.run(cmd)
	}
}

// run executes a command that is known not to sleep and feeds its message
// back into the model.
func (e *testEnv) run(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	_, next := e.m.Update(cmd())
	return next
}

func (e *testEnv) press(keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = e.m.Update(keyMsg(k))
	}
	return cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space", " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+v":
		return tea.KeyMsg{Type: tea.KeyCtrlV}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func typeText(t *testing.T, m *Model, text string) {
	t.Helper()
	for _, r := range text {
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		require.Nil(t, cmd)
	}
}
