package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/chmouel/lazydiff/internal/models"
)

// FileDiff returns the diff text of a single file. Untracked files are
// compared against an empty baseline. Failures yield ErrorPlaceholder.
func (s *Service) FileDiff(ctx context.Context, path string, staged bool, status string) string {
	out, err := s.fileDiff(ctx, path, staged, status)
	if err != nil {
		s.notifyOnce("diff_fail:"+path, fmt.Sprintf("Diff failed for %s: %v", path, err), "error")
		return ErrorPlaceholder
	}
	return out
}

func (s *Service) fileDiff(ctx context.Context, path string, staged bool, status string) (string, error) {
	switch {
	case status == models.UntrackedCode:
		return s.Exec(ctx, []string{"git", "diff", "--no-color", "--no-index", "--", "/dev/null", path}, []int{0, 1})
	case staged:
		return s.Exec(ctx, []string{"git", "diff", "--no-color", "--cached", "--", path}, []int{0})
	default:
		return s.Exec(ctx, []string{"git", "diff", "--no-color", "--", path}, []int{0})
	}
}

// CommitDiff returns the patch introduced by a commit.
func (s *Service) CommitDiff(ctx context.Context, hash string) string {
	out, err := s.Exec(ctx, []string{"git", "show", "--no-color", "--patch", "--stat", "--format=medium", hash}, []int{0})
	if err != nil {
		s.notifyOnce("commit_fail:"+hash, fmt.Sprintf("Diff failed for %s: %v", hash, err), "error")
		return ErrorPlaceholder
	}
	return out
}

// MultiDiff builds the combined diff of several changes: one batched
// invocation for the unstaged paths, one for the staged paths, then each
// untracked file on its own, joined by blank lines in that order.
func (s *Service) MultiDiff(ctx context.Context, entries []models.SelectedChange) (string, error) {
	var unstaged, staged, untracked []string
	for _, e := range entries {
		switch {
		case e.Record.IsUntracked():
			untracked = append(untracked, e.Record.Path)
		case e.Group.Staged():
			staged = append(staged, e.Record.Path)
		default:
			unstaged = append(unstaged, e.Record.Path)
		}
	}

	var parts []string
	if len(unstaged) > 0 {
		out, err := s.Exec(ctx, append([]string{"git", "diff", "--no-color", "--"}, unstaged...), []int{0})
		if err != nil {
			return "", fmt.Errorf("unstaged diff: %w", err)
		}
		parts = appendNonEmpty(parts, out)
	}
	if len(staged) > 0 {
		out, err := s.Exec(ctx, append([]string{"git", "diff", "--no-color", "--cached", "--"}, staged...), []int{0})
		if err != nil {
			return "", fmt.Errorf("staged diff: %w", err)
		}
		parts = appendNonEmpty(parts, out)
	}
	for _, path := range untracked {
		out, err := s.Exec(ctx, []string{"git", "diff", "--no-color", "--no-index", "--", "/dev/null", path}, []int{0, 1})
		if err != nil {
			return "", fmt.Errorf("untracked diff %s: %w", path, err)
		}
		parts = appendNonEmpty(parts, out)
	}
	return strings.Join(parts, "\n\n"), nil
}

func appendNonEmpty(parts []string, out string) []string {
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return parts
	}
	return append(parts, out)
}
