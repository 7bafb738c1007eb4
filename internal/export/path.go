package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chmouel/lazydiff/internal/utils"
)

// Kind identifies an export operation.
type Kind int

// Export kinds.
const (
	SingleFile Kind = iota
	MultiFile
	Commits
	Overview
	CodeDump
)

func (k Kind) String() string {
	switch k {
	case SingleFile:
		return "file"
	case MultiFile:
		return "diff"
	case Commits:
		return "commits"
	case Overview:
		return "overview"
	case CodeDump:
		return "code dump"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// GeneratedName returns the file name used when the destination is a
// directory. hint carries the short commit hash for single commit exports
// and "dir" for a paired code dump, which produces a directory.
func (k Kind) GeneratedName(now time.Time, hint string) string {
	ts := utils.Timestamp(now)
	switch k {
	case Commits:
		if hint != "" {
			return "commit_" + hint + "_" + ts + ".txt"
		}
		return "commits_" + ts + ".txt"
	case Overview:
		return "files_overview_" + ts + ".txt"
	case CodeDump:
		if hint == "dir" {
			return "code_dump_" + ts
		}
		return "code_dump_" + ts + ".txt"
	default:
		return "diff_" + ts + ".txt"
	}
}

// ResolvePath turns user input into the final write destination. Relative
// input is resolved against cwd and empty input means cwd. When the result
// is an existing directory, or does not exist and has no extension, it is
// treated as a directory and the generated name is appended.
func ResolvePath(input, cwd string, kind Kind, hint string, now time.Time) (string, error) {
	input = strings.TrimSpace(input)
	target := cwd
	if input != "" {
		expanded, err := utils.ExpandPath(input)
		if err != nil {
			return "", fmt.Errorf("expand %q: %w", input, err)
		}
		target = expanded
		if !filepath.IsAbs(target) {
			target = filepath.Join(cwd, target)
		}
	}
	target = filepath.Clean(target)

	info, err := os.Stat(target)
	switch {
	case err == nil && info.IsDir():
		return filepath.Join(target, kind.GeneratedName(now, hint)), nil
	case err == nil:
		return target, nil
	case errors.Is(err, os.ErrNotExist):
		if filepath.Ext(target) == "" {
			return filepath.Join(target, kind.GeneratedName(now, hint)), nil
		}
		return target, nil
	default:
		return "", fmt.Errorf("stat %s: %w", target, err)
	}
}
