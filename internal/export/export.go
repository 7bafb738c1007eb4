// Package export writes diffs, commit patches, file overviews and source
// dumps to disk.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chmouel/lazydiff/internal/git"
	"github.com/chmouel/lazydiff/internal/log"
	"github.com/chmouel/lazydiff/internal/models"
	"github.com/chmouel/lazydiff/internal/utils"
)

// ErrNothingToExport is returned when an export has no content.
var ErrNothingToExport = errors.New("nothing to export")

// Source provides the text being exported.
type Source interface {
	MultiDiff(ctx context.Context, entries []models.SelectedChange) (string, error)
	FileDiff(ctx context.Context, path string, staged bool, status string) string
	CommitDiff(ctx context.Context, hash string) string
	ListAllFiles(ctx context.Context) ([]string, error)
}

// Writer persists export output.
type Writer interface {
	WriteFile(path string, data []byte) error
}

// OSWriter writes to the local filesystem, creating parent directories.
type OSWriter struct{}

// WriteFile implements Writer.
func (OSWriter) WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), utils.DefaultDirPerms); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, utils.DefaultFilePerms); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Result describes a completed export.
type Result struct {
	Kind  Kind
	Path  string
	Count int
}

// Summary is the status line shown after an export.
func (r Result) Summary() string {
	noun := "item"
	switch r.Kind {
	case SingleFile, MultiFile, Overview:
		noun = "file"
	case Commits:
		noun = "commit"
	case CodeDump:
		noun = "source"
	}
	if r.Count != 1 {
		noun += "s"
	}
	return fmt.Sprintf("Exported %d %s to %s", r.Count, noun, r.Path)
}

// Exporter turns selections into files.
type Exporter struct {
	source Source
	writer Writer
	cwd    string
	root   string

	// Now is the clock used for generated names.
	Now func() time.Time
	// ReadFile reads repository sources for the code dump.
	ReadFile func(path string) ([]byte, error)
	// Extensions selects the files gathered by the code dump.
	Extensions []string
}

// NewExporter creates an exporter resolving relative paths against cwd and
// reading dump sources below root.
func NewExporter(source Source, writer Writer, cwd, root string) *Exporter {
	if writer == nil {
		writer = OSWriter{}
	}
	return &Exporter{
		source:   source,
		writer:   writer,
		cwd:      cwd,
		root:     root,
		Now:      time.Now,
		ReadFile: os.ReadFile,
	}
}

// Resolve applies the destination rule for kind to input.
func (e *Exporter) Resolve(input string, kind Kind, hint string) (string, error) {
	return ResolvePath(input, e.cwd, kind, hint, e.Now())
}

func (e *Exporter) write(path string, content string) error {
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := e.writer.WriteFile(path, []byte(content)); err != nil {
		return err
	}
	log.Printf("export: wrote %d bytes to %s", len(content), path)
	return nil
}

// ExportFile writes the diff of one file to a fixed path, overwriting it.
func (e *Exporter) ExportFile(ctx context.Context, change models.SelectedChange, path string) (Result, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("no export path configured")
	}
	expanded, err := utils.ExpandPath(path)
	if err != nil {
		return Result{}, err
	}
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(e.cwd, expanded)
	}

	diff := e.source.FileDiff(ctx, change.Record.Path, change.Group.Staged(), change.Record.Status)
	if diff == git.ErrorPlaceholder {
		return Result{}, fmt.Errorf("diff unavailable for %s", change.Record.Path)
	}
	if strings.TrimSpace(diff) == "" {
		return Result{}, ErrNothingToExport
	}
	if err := e.write(expanded, diff); err != nil {
		return Result{}, err
	}
	return Result{Kind: SingleFile, Path: expanded, Count: 1}, nil
}

// ExportFiles writes the combined diff of the selected changes.
func (e *Exporter) ExportFiles(ctx context.Context, input string, changes []models.SelectedChange) (Result, error) {
	if len(changes) == 0 {
		return Result{}, ErrNothingToExport
	}
	path, err := e.Resolve(input, MultiFile, "")
	if err != nil {
		return Result{}, err
	}

	diff, err := e.source.MultiDiff(ctx, changes)
	if err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(diff) == "" {
		return Result{}, ErrNothingToExport
	}
	if err := e.write(path, diff); err != nil {
		return Result{}, err
	}
	return Result{Kind: MultiFile, Path: path, Count: len(changes)}, nil
}

// ExportCommits writes each commit as a "hash - message" banner followed
// by its patch.
func (e *Exporter) ExportCommits(ctx context.Context, input string, commits []models.CommitRecord) (Result, error) {
	if len(commits) == 0 {
		return Result{}, ErrNothingToExport
	}
	hint := ""
	if len(commits) == 1 {
		hint = commits[0].ShortHash()
	}
	path, err := e.Resolve(input, Commits, hint)
	if err != nil {
		return Result{}, err
	}

	blocks := make([]string, 0, len(commits))
	for _, c := range commits {
		diff := e.source.CommitDiff(ctx, c.Hash)
		if diff == git.ErrorPlaceholder {
			return Result{}, fmt.Errorf("diff unavailable for commit %s", c.ShortHash())
		}
		blocks = append(blocks, c.Banner()+"\n"+strings.TrimRight(diff, "\n"))
	}
	if err := e.write(path, strings.Join(blocks, "\n\n")); err != nil {
		return Result{}, err
	}
	return Result{Kind: Commits, Path: path, Count: len(commits)}, nil
}

// ExportOverview writes every tracked and untracked path, one per line.
func (e *Exporter) ExportOverview(ctx context.Context, input string) (Result, error) {
	path, err := e.Resolve(input, Overview, "")
	if err != nil {
		return Result{}, err
	}
	files, err := e.source.ListAllFiles(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list files: %w", err)
	}
	if len(files) == 0 {
		return Result{}, ErrNothingToExport
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %d files\n\n", len(files))
	for _, f := range files {
		b.WriteString(f)
		b.WriteByte('\n')
	}
	if err := e.write(path, b.String()); err != nil {
		return Result{}, err
	}
	return Result{Kind: Overview, Path: path, Count: len(files)}, nil
}
