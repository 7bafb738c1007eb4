// Package git wraps the git commands lazydiff reads changes and history from.
package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"slices"
	"strings"
	"sync"

	log "github.com/chmouel/lazydiff/internal/log"
)

// ErrorPlaceholder is returned in place of diff text when git fails.
const ErrorPlaceholder = "(Error loading diff)"

// LookupPath is used to find executables in PATH. Tests replace it to
// simulate a missing git binary.
var LookupPath = exec.LookPath

// NotifyFn receives ongoing notifications.
type NotifyFn func(message string, severity string)

// NotifyOnceFn reports deduplicated notification messages.
type NotifyOnceFn func(key string, message string, severity string)

// Service runs git in a single repository and parses its output.
type Service struct {
	dir        string
	notify     NotifyFn
	notifyOnce NotifyOnceFn
	semaphore  chan struct{}

	mu          sync.Mutex
	notifiedSet map[string]bool

	topMu       sync.Mutex
	top         string
	topResolved bool
}

// NewService constructs a Service for the repository containing dir (empty
// means the process working directory) and sets up concurrency limits.
// Commands run from the top level of the working tree so that paths are
// always repository-relative, even when dir is a subdirectory.
func NewService(dir string, notify NotifyFn, notifyOnce NotifyOnceFn) *Service {
	limit := runtime.NumCPU() * 2
	if limit < 4 {
		limit = 4
	}
	if limit > 32 {
		limit = 32
	}

	// Counting semaphore: starts full, each git invocation takes a token.
	semaphore := make(chan struct{}, limit)
	for i := 0; i < limit; i++ {
		semaphore <- struct{}{}
	}

	if notify == nil {
		notify = func(string, string) {}
	}
	s := &Service{
		dir:         dir,
		notify:      notify,
		semaphore:   semaphore,
		notifiedSet: make(map[string]bool),
	}
	if notifyOnce == nil {
		notifyOnce = s.defaultNotifyOnce
	}
	s.notifyOnce = notifyOnce
	return s
}

func (s *Service) defaultNotifyOnce(key, message, severity string) {
	s.mu.Lock()
	seen := s.notifiedSet[key]
	s.notifiedSet[key] = true
	s.mu.Unlock()
	if !seen {
		s.notify(message, severity)
	}
}

func (s *Service) debugf(format string, args ...any) {
	log.Printf(format, args...)
}

func prepareAllowedCommand(ctx context.Context, args []string) (*exec.Cmd, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no command provided")
	}
	if args[0] != "git" {
		return nil, fmt.Errorf("unsupported command %q", args[0])
	}
	// #nosec G204 -- arguments for git command come from internal logic and are not shell interpolated
	return exec.CommandContext(ctx, "git", args[1:]...), nil
}

func (s *Service) acquireSemaphore() {
	<-s.semaphore
}

func (s *Service) releaseSemaphore() {
	s.semaphore <- struct{}{}
}

// CommandError describes a git invocation that exited with a code outside
// the accepted set.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %s", e.Command, e.Stderr)
	}
	return fmt.Sprintf("%s (exit %d)", e.Command, e.ExitCode)
}

// Exec runs a git command from the repository top level and returns its
// raw output. Exit codes listed in okReturncodes are treated as success.
func (s *Service) Exec(ctx context.Context, args []string, okReturncodes []int) (string, error) {
	return s.run(ctx, s.workDir(ctx), args, okReturncodes)
}

// workDir returns the repository top level, resolved once from dir. Outside
// a repository it falls back to dir.
func (s *Service) workDir(ctx context.Context) string {
	s.topMu.Lock()
	defer s.topMu.Unlock()
	if s.topResolved {
		return s.top
	}

	top, err := s.showToplevel(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return s.dir
		}
		top = s.dir
	}
	s.top = top
	s.topResolved = true
	return s.top
}

func (s *Service) showToplevel(ctx context.Context) (string, error) {
	out, err := s.run(ctx, s.dir, []string{"git", "rev-parse", "--show-toplevel"}, []int{0})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (s *Service) run(ctx context.Context, dir string, args []string, okReturncodes []int) (string, error) {
	command := strings.Join(args, " ")
	if command == "" {
		command = "<empty>"
	}
	s.debugf("run: %s (cwd=%s)", command, dir)

	cmd, err := prepareAllowedCommand(ctx, args)
	if err != nil {
		return "", err
	}
	if dir != "" {
		cmd.Dir = dir
	}

	s.acquireSemaphore()
	output, err := cmd.Output()
	s.releaseSemaphore()

	if err != nil {
		var exitError *exec.ExitError
		if !errors.As(err, &exitError) {
			s.debugf("error: %s: %v", command, err)
			return "", fmt.Errorf("running %s: %w", command, err)
		}
		if !slices.Contains(okReturncodes, exitError.ExitCode()) {
			cmdErr := &CommandError{
				Command:  command,
				ExitCode: exitError.ExitCode(),
				Stderr:   strings.TrimSpace(string(exitError.Stderr)),
			}
			s.debugf("error: %v", cmdErr)
			return "", cmdErr
		}
	}

	s.debugf("ok: %s", command)
	return string(output), nil
}

// RepoRoot returns the top level of the working tree.
func (s *Service) RepoRoot(ctx context.Context) (string, error) {
	top, err := s.showToplevel(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve repository root: %w", err)
	}
	return top, nil
}

// GitDir returns the absolute git directory of the repository.
func (s *Service) GitDir(ctx context.Context) (string, error) {
	out, err := s.Exec(ctx, []string{"git", "rev-parse", "--absolute-git-dir"}, []int{0})
	if err != nil {
		return "", fmt.Errorf("resolve git dir: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Available reports whether a git binary can be found.
func Available() bool {
	_, err := LookupPath("git")
	return err == nil
}
