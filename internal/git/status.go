package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/chmouel/lazydiff/internal/models"
)

// Status returns the unstaged and staged change lists in the order git
// reports them.
func (s *Service) Status(ctx context.Context) (unstaged, staged []models.ChangeRecord, err error) {
	raw, err := s.Exec(ctx, []string{"git", "status", "--porcelain=v2", "-z", "--untracked-files=all"}, []int{0})
	if err != nil {
		return nil, nil, fmt.Errorf("list changes: %w", err)
	}
	unstaged, staged = parseStatus(raw)
	return unstaged, staged, nil
}

// ListUnstaged returns worktree changes, untracked files included.
func (s *Service) ListUnstaged(ctx context.Context) ([]models.ChangeRecord, error) {
	unstaged, _, err := s.Status(ctx)
	return unstaged, err
}

// ListStaged returns changes recorded in the index.
func (s *Service) ListStaged(ctx context.Context) ([]models.ChangeRecord, error) {
	_, staged, err := s.Status(ctx)
	return staged, err
}

// ListAllFiles returns tracked and untracked paths. Ignore rules are not
// applied.
func (s *Service) ListAllFiles(ctx context.Context) ([]string, error) {
	raw, err := s.Exec(ctx, []string{"git", "ls-files", "-z", "--cached", "--others", "--deduplicate"}, []int{0})
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	var files []string
	for _, entry := range strings.Split(raw, "\x00") {
		if entry != "" {
			files = append(files, entry)
		}
	}
	return files, nil
}

// parseStatus parses `git status --porcelain=v2 -z` output.
//
// Entry formats:
//
//	1 XY sub mH mI mW hH hI path
//	2 XY sub mH mI mW hH hI Xscore path NUL origPath
//	u XY sub m1 m2 m3 mW h1 h2 h3 path
//	? path
func parseStatus(raw string) (unstaged, staged []models.ChangeRecord) {
	entries := strings.Split(raw, "\x00")
	for i := 0; i < len(entries); i++ {
		entry := entries[i]
		if entry == "" {
			continue
		}
		switch entry[0] {
		case '1':
			fields := strings.SplitN(entry, " ", 9)
			if len(fields) < 9 {
				continue
			}
			unstaged, staged = appendChange(unstaged, staged, fields[1], fields[8], "")
		case '2':
			fields := strings.SplitN(entry, " ", 10)
			if len(fields) < 10 {
				continue
			}
			oldPath := ""
			if i+1 < len(entries) {
				i++
				oldPath = entries[i]
			}
			unstaged, staged = appendChange(unstaged, staged, fields[1], fields[9], oldPath)
		case 'u':
			fields := strings.SplitN(entry, " ", 11)
			if len(fields) < 11 {
				continue
			}
			unstaged = append(unstaged, models.ChangeRecord{
				Path:       fields[10],
				StatusCode: normalizeXY(fields[1]),
				Status:     "U",
			})
		case '?':
			path := strings.TrimPrefix(entry, "? ")
			unstaged = append(unstaged, models.ChangeRecord{
				Path:       path,
				StatusCode: models.UntrackedCode,
				Status:     models.UntrackedCode,
			})
		}
	}
	return unstaged, staged
}

func appendChange(unstaged, staged []models.ChangeRecord, xy, path, oldPath string) ([]models.ChangeRecord, []models.ChangeRecord) {
	code := normalizeXY(xy)
	if label := models.StatusLabel(code, models.GroupStaged); label != "" {
		staged = append(staged, models.ChangeRecord{Path: path, StatusCode: code, Status: label, OldPath: oldPath})
	}
	if label := models.StatusLabel(code, models.GroupUnstaged); label != "" {
		unstaged = append(unstaged, models.ChangeRecord{Path: path, StatusCode: code, Status: label, OldPath: oldPath})
	}
	return unstaged, staged
}

// normalizeXY converts porcelain v2 '.' placeholders to the v1 space form.
func normalizeXY(xy string) string {
	if len(xy) != 2 {
		return xy
	}
	return strings.ReplaceAll(xy, ".", " ")
}
