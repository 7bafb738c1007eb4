package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chmouel/lazydiff/internal/log"
)

// DumpLayout selects how the code dump arranges its output.
type DumpLayout int

const (
	// DumpCombined writes every source into one file.
	DumpCombined DumpLayout = iota
	// DumpPaired writes one file per header/implementation pair into a
	// timestamped directory.
	DumpPaired
)

func (l DumpLayout) String() string {
	if l == DumpPaired {
		return "paired"
	}
	return "combined"
}

// Toggle returns the other layout.
func (l DumpLayout) Toggle() DumpLayout {
	if l == DumpPaired {
		return DumpCombined
	}
	return DumpPaired
}

// ErrPairedNeedsDirectory is returned when a paired code dump is pointed
// at a file.
var ErrPairedNeedsDirectory = errors.New("paired code dump needs a directory")

type dumpSource struct {
	path    string
	content string
}

// dumpBundle groups files sharing a path stem, headers first.
type dumpBundle struct {
	stem  string
	files []dumpSource
}

func isHeader(path string) bool {
	return strings.HasPrefix(strings.ToLower(filepath.Ext(path)), ".h")
}

func (e *Exporter) matchesExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	for _, want := range e.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

func banner(path string) string {
	return "// ==== " + path + " ===="
}

// gatherSources reads every listed file matching the dump extensions.
// Files listed by git but missing on disk (deleted in the worktree) are
// skipped.
func (e *Exporter) gatherSources(ctx context.Context) ([]dumpSource, error) {
	files, err := e.source.ListAllFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	var sources []dumpSource
	for _, f := range files {
		if !e.matchesExtension(f) {
			continue
		}
		data, err := e.ReadFile(filepath.Join(e.root, f))
		if err != nil {
			log.Printf("export: skipping %s: %v", f, err)
			continue
		}
		sources = append(sources, dumpSource{path: f, content: string(data)})
	}
	return sources, nil
}

func bundleSources(sources []dumpSource) []dumpBundle {
	index := map[string]int{}
	var bundles []dumpBundle
	for _, src := range sources {
		stem := strings.TrimSuffix(src.path, filepath.Ext(src.path))
		i, ok := index[stem]
		if !ok {
			i = len(bundles)
			index[stem] = i
			bundles = append(bundles, dumpBundle{stem: stem})
		}
		bundles[i].files = append(bundles[i].files, src)
	}
	for i := range bundles {
		files := bundles[i].files
		sort.SliceStable(files, func(a, b int) bool {
			return isHeader(files[a].path) && !isHeader(files[b].path)
		})
	}
	return bundles
}

func renderSources(files []dumpSource) string {
	parts := make([]string, 0, len(files))
	for _, f := range files {
		parts = append(parts, banner(f.path)+"\n"+strings.TrimRight(f.content, "\n"))
	}
	return strings.Join(parts, "\n\n")
}

// bundleName flattens a stem into a file name inside the dump directory.
func bundleName(stem string) string {
	return strings.ReplaceAll(stem, "/", "__") + ".txt"
}

// checkDumpDir rejects a paired destination that names a file.
func checkDumpDir(path string) error {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return fmt.Errorf("%w: %s is a file", ErrPairedNeedsDirectory, path)
	}
	if filepath.Ext(path) != "" {
		return fmt.Errorf("%w: %s has a file extension", ErrPairedNeedsDirectory, path)
	}
	return nil
}

// ExportCodeDump writes the repository sources matching Extensions, either
// into a single file or as paired bundles in a directory.
func (e *Exporter) ExportCodeDump(ctx context.Context, input string, layout DumpLayout) (Result, error) {
	hint := ""
	if layout == DumpPaired {
		hint = "dir"
	}
	path, err := e.Resolve(input, CodeDump, hint)
	if err != nil {
		return Result{}, err
	}
	if layout == DumpPaired {
		if err := checkDumpDir(path); err != nil {
			return Result{}, err
		}
	}

	sources, err := e.gatherSources(ctx)
	if err != nil {
		return Result{}, err
	}
	if len(sources) == 0 {
		return Result{}, ErrNothingToExport
	}

	if layout == DumpCombined {
		if err := e.write(path, renderSources(sources)); err != nil {
			return Result{}, err
		}
		return Result{Kind: CodeDump, Path: path, Count: len(sources)}, nil
	}

	for _, b := range bundleSources(sources) {
		if err := e.write(filepath.Join(path, bundleName(b.stem)), renderSources(b.files)); err != nil {
			return Result{}, err
		}
	}
	return Result{Kind: CodeDump, Path: path, Count: len(sources)}, nil
}
