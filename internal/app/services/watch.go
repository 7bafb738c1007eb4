package services

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is the debounce window for watcher events.
const WatchDebounce = 600 * time.Millisecond

// maxWatchedDirs caps how many worktree directories are registered.
const maxWatchedDirs = 4096

// RepoLocator resolves the directories a repository watcher observes.
type RepoLocator interface {
	GitDir(ctx context.Context) (string, error)
	RepoRoot(ctx context.Context) (string, error)
}

// ChangeWatcher signals when the index, refs or worktree files change.
type ChangeWatcher struct {
	Started     bool
	Waiting     bool
	GitDir      string
	Root        string
	Events      chan struct{}
	Done        chan struct{}
	Paths       map[string]struct{}
	Mu          sync.Mutex
	Watcher     *fsnotify.Watcher
	LastRefresh time.Time
	repo        RepoLocator
	logf        func(string, ...any)
}

// NewChangeWatcher creates a watcher for the repository repo points at.
func NewChangeWatcher(repo RepoLocator, logf func(string, ...any)) *ChangeWatcher {
	return &ChangeWatcher{
		repo: repo,
		logf: logf,
	}
}

// Start registers the watch paths and starts the background goroutine.
func (w *ChangeWatcher) Start(ctx context.Context) (bool, error) {
	if w.Started || w.repo == nil {
		return false, nil
	}
	gitDir, err := w.repo.GitDir(ctx)
	if err != nil || gitDir == "" {
		w.debugf("auto refresh: unable to resolve git dir: %v", err)
		return false, nil
	}
	root, err := w.repo.RepoRoot(ctx)
	if err != nil {
		w.debugf("auto refresh: unable to resolve repository root: %v", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return false, err
	}

	w.Started = true
	w.Watcher = watcher
	w.GitDir = gitDir
	w.Root = root
	w.Events = make(chan struct{}, 1)
	w.Done = make(chan struct{})
	w.Paths = make(map[string]struct{})

	w.addWatchDir(gitDir)
	w.addWatchTree(filepath.Join(gitDir, "refs"), false)
	if root != "" {
		w.addWatchTree(root, true)
	}

	go w.run()
	return true, nil
}

// Stop stops the watcher and closes channels.
func (w *ChangeWatcher) Stop() {
	if !w.Started {
		return
	}
	close(w.Done)
	w.Started = false
	if w.Watcher != nil {
		_ = w.Watcher.Close()
	}
}

// NextEvent returns the event channel if no wait is already pending.
func (w *ChangeWatcher) NextEvent() <-chan struct{} {
	if w.Events == nil || w.Waiting {
		return nil
	}
	w.Waiting = true
	return w.Events
}

// ResetWaiting clears the waiting flag after an event is processed.
func (w *ChangeWatcher) ResetWaiting() {
	w.Waiting = false
}

// ShouldRefresh applies the debounce window.
func (w *ChangeWatcher) ShouldRefresh(now time.Time) bool {
	if !w.LastRefresh.IsZero() && now.Sub(w.LastRefresh) < WatchDebounce {
		return false
	}
	w.LastRefresh = now
	return true
}

// Signal notifies listeners of watcher activity.
func (w *ChangeWatcher) Signal() {
	select {
	case <-w.Done:
		return
	default:
	}
	select {
	case w.Events <- struct{}{}:
	default:
	}
}

// Relevant reports whether an event path should trigger a refresh. Lock
// files and objects written by git itself are noise.
func (w *ChangeWatcher) Relevant(path string) bool {
	if path == "" {
		return false
	}
	base := filepath.Base(path)
	if strings.HasSuffix(base, ".lock") {
		return false
	}
	if w.GitDir != "" && strings.HasPrefix(path, filepath.Join(w.GitDir, "objects")+string(filepath.Separator)) {
		return false
	}
	return true
}

func (w *ChangeWatcher) run() {
	for {
		select {
		case <-w.Done:
			return
		case event, ok := <-w.Watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !w.Relevant(event.Name) {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				w.maybeWatchNewDir(event.Name)
			}
			w.Signal()
		case err, ok := <-w.Watcher.Errors:
			if !ok {
				return
			}
			w.debugf("watcher error: %v", err)
		}
	}
}

func (w *ChangeWatcher) maybeWatchNewDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	w.addWatchDir(path)
}

func (w *ChangeWatcher) addWatchDir(path string) {
	if path == "" {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	w.Mu.Lock()
	defer w.Mu.Unlock()

	if _, ok := w.Paths[path]; ok {
		return
	}
	if len(w.Paths) >= maxWatchedDirs {
		return
	}
	if err := w.Watcher.Add(path); err != nil {
		w.debugf("watcher add failed for %s: %v", path, err)
		return
	}
	w.Paths[path] = struct{}{}
}

func (w *ChangeWatcher) addWatchTree(root string, skipGit bool) {
	if root == "" {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if skipGit && d.Name() == ".git" {
			return filepath.SkipDir
		}
		w.addWatchDir(path)
		return nil
	})
}

func (w *ChangeWatcher) debugf(format string, args ...any) {
	if w.logf == nil {
		return
	}
	w.logf(format, args...)
}
