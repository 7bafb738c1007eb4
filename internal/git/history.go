package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/chmouel/lazydiff/internal/models"
)

const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
)

var historyFormat = strings.Join([]string{"%H", "%an", "%ad", "%s"}, fieldSep) + recordSep

// ListHistory returns up to maxCount commits reachable from HEAD, newest
// first. A repository without commits yields an empty list.
func (s *Service) ListHistory(ctx context.Context, maxCount int) ([]models.CommitRecord, error) {
	if maxCount <= 0 {
		return nil, nil
	}
	if _, err := s.Exec(ctx, []string{"git", "rev-parse", "--verify", "--quiet", "HEAD"}, []int{0}); err != nil {
		return nil, nil
	}
	raw, err := s.Exec(ctx, []string{
		"git", "log",
		"-n", strconv.Itoa(maxCount),
		"--date=short",
		"--pretty=format:" + historyFormat,
	}, []int{0})
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return parseHistory(raw), nil
}

// ResolveCommit looks up a single revision such as a short hash or a ref.
func (s *Service) ResolveCommit(ctx context.Context, rev string) (models.CommitRecord, error) {
	raw, err := s.Exec(ctx, []string{
		"git", "show", "-s",
		"--date=short",
		"--pretty=format:" + historyFormat,
		rev, "--",
	}, []int{0})
	if err != nil {
		return models.CommitRecord{}, fmt.Errorf("unknown commit %q: %w", rev, err)
	}
	commits := parseHistory(raw)
	if len(commits) == 0 {
		return models.CommitRecord{}, fmt.Errorf("unknown commit %q", rev)
	}
	return commits[0], nil
}

func parseHistory(raw string) []models.CommitRecord {
	var commits []models.CommitRecord
	for _, record := range strings.Split(raw, recordSep) {
		record = strings.TrimLeft(record, "\n")
		if record == "" {
			continue
		}
		fields := strings.SplitN(record, fieldSep, 4)
		if len(fields) < 4 {
			continue
		}
		commits = append(commits, models.CommitRecord{
			Hash:    fields[0],
			Author:  fields[1],
			Date:    fields[2],
			Message: fields[3],
		})
	}
	return commits
}
