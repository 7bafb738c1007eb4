package bootstrap

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	urfavecli "github.com/urfave/cli/v3"

	"github.com/chmouel/lazydiff/internal/config"
	"github.com/chmouel/lazydiff/internal/models"
	"github.com/chmouel/lazydiff/internal/theme"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewCommand()
	cmd.Writer = &stdout
	cmd.ErrWriter = &stderr
	err := cmd.Run(context.Background(), append([]string{"lazydiff"}, args...))
	return stdout.String(), stderr.String(), err
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// setupRepo creates a repository with one commit, an unstaged edit, a
// staged file and an untracked file.
func setupRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")
	runGit(t, dir, "config", "commit.gpgsign", "false")
	writeFile(t, dir, "README.md", "# Test Repo\n")
	writeFile(t, dir, "src/util.h", "int util(void);\n")
	writeFile(t, dir, "src/util.c", "int util(void) { return 1; }\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "Initial commit")

	writeFile(t, dir, "README.md", "# Test Repo\nchanged\n")
	writeFile(t, dir, "staged.txt", "staged\n")
	runGit(t, dir, "add", "staged.txt")
	writeFile(t, dir, "notes/todo.txt", "untracked\n")
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	// #nosec G304 - test file operations with t.TempDir() are safe
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestGlobalFlags(t *testing.T) {
	var names []string
	for _, f := range globalFlags() {
		names = append(names, f.Names()...)
	}
	for _, want := range []string{"repo", "debug-log", "theme", "view", "config-file", "config", "C"} {
		assert.Contains(t, names, want)
	}
}

func TestApplyThemeConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	require.NoError(t, applyThemeConfig(cfg, ""))
	assert.Equal(t, theme.DraculaName, cfg.Theme)

	require.NoError(t, applyThemeConfig(cfg, strings.ToUpper(theme.NordName)))
	assert.Equal(t, theme.NordName, cfg.Theme)

	assert.EqualError(t, applyThemeConfig(cfg, "nope"), `unknown theme "nope"`)
}

func loadWithFlags(t *testing.T, args ...string) (*config.AppConfig, error) {
	t.Helper()
	var got *config.AppConfig
	cmd := &urfavecli.Command{
		Name:      "test",
		Flags:     globalFlags(),
		Writer:    io.Discard,
		ErrWriter: io.Discard,
		Action: func(_ context.Context, cmd *urfavecli.Command) error {
			var err error
			got, err = loadCLIConfig(cmd)
			return err
		},
	}
	err := cmd.Run(context.Background(), append([]string{"test"}, args...))
	return got, err
}

func TestLoadCLIConfigFlags(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := loadWithFlags(t, "--theme", theme.NordName, "--view", "tree", "-C", "ld.history_limit=5")
	require.NoError(t, err)
	assert.Equal(t, theme.NordName, cfg.Theme)
	assert.Equal(t, "tree", cfg.ViewMode)
	assert.Equal(t, 5, cfg.HistoryLimit)

	_, err = loadWithFlags(t, "--view", "grid")
	assert.ErrorContains(t, err, `unknown view "grid"`)

	_, err = loadWithFlags(t, "--theme", "nope")
	assert.ErrorContains(t, err, `unknown theme "nope"`)

	_, err = loadWithFlags(t, "-C", "history_limit=5")
	assert.ErrorContains(t, err, "error applying config overrides")
}

func TestTUIRequiresTerminal(t *testing.T) {
	orig := isTerminal
	isTerminal = func(io.Writer) bool { return false }
	t.Cleanup(func() { isTerminal = orig })

	_, _, err := runCLI(t)
	assert.ErrorIs(t, err, ErrNotATerminal)
}

func TestThemesCommand(t *testing.T) {
	out, _, err := runCLI(t, "themes")
	require.NoError(t, err)
	assert.Contains(t, out, "Available themes:")
	assert.Contains(t, out, theme.DraculaName)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "lazydiff version")
}

func TestFilterChanges(t *testing.T) {
	changes := []models.SelectedChange{
		{Record: models.ChangeRecord{Path: "src/a.go"}},
		{Record: models.ChangeRecord{Path: "src/lib/b.go"}},
		{Record: models.ChangeRecord{Path: "srcx/c.go"}},
		{Record: models.ChangeRecord{Path: "README.md"}},
	}
	paths := func(in []models.SelectedChange) []string {
		var out []string
		for _, c := range in {
			out = append(out, c.Record.Path)
		}
		return out
	}

	assert.Len(t, filterChanges(changes, nil), 4)
	assert.Equal(t, []string{"src/a.go", "src/lib/b.go"}, paths(filterChanges(changes, []string{"./src/"})))
	assert.Equal(t, []string{"README.md"}, paths(filterChanges(changes, []string{"README.md"})))
	assert.Empty(t, filterChanges(changes, []string{"missing"}))
}

func TestCLINotify(t *testing.T) {
	var b bytes.Buffer
	cliNotify(&b, "boom", "error")
	cliNotify(&b, "heads up", "warning")
	assert.Equal(t, "Error: boom\nheads up\n", b.String())
}

func TestExportCommand(t *testing.T) {
	dir := setupRepo(t)
	outDir := t.TempDir()

	t.Run("all changes to a file", func(t *testing.T) {
		target := filepath.Join(outDir, "all.txt")
		out, _, err := runCLI(t, "-r", dir, "export", "--output", target)
		require.NoError(t, err)
		assert.Equal(t, "Exported 3 files to "+target+"\n", out)

		content := readFile(t, target)
		readme := strings.Index(content, "README.md")
		staged := strings.Index(content, "staged.txt")
		untracked := strings.Index(content, "notes/todo.txt")
		require.True(t, readme >= 0 && staged >= 0 && untracked >= 0, content)
		assert.Less(t, readme, staged)
		assert.Less(t, staged, untracked)
	})

	t.Run("staged only into a directory", func(t *testing.T) {
		target := filepath.Join(outDir, "exports")
		out, _, err := runCLI(t, "-r", dir, "export", "--staged", "--output", target)
		require.NoError(t, err)
		assert.Contains(t, out, "Exported 1 file to ")

		entries, err := os.ReadDir(target)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Regexp(t, regexp.MustCompile(`^diff_\d{8}_\d{6}\.txt$`), entries[0].Name())
		assert.Contains(t, readFile(t, filepath.Join(target, entries[0].Name())), "+staged")
	})

	t.Run("path filter to stdout", func(t *testing.T) {
		out, _, err := runCLI(t, "-r", dir, "export", "README.md")
		require.NoError(t, err)
		assert.Contains(t, out, "+changed")
		assert.NotContains(t, out, "staged.txt")
	})

	t.Run("from a subdirectory", func(t *testing.T) {
		out, _, err := runCLI(t, "-r", filepath.Join(dir, "src"), "export", "README.md")
		require.NoError(t, err)
		assert.Contains(t, out, "+changed")
	})

	t.Run("no matching changes", func(t *testing.T) {
		_, _, err := runCLI(t, "-r", dir, "export", "missing")
		assert.EqualError(t, err, "no changes to export")
	})
}

func TestExportCommitsCommand(t *testing.T) {
	dir := setupRepo(t)
	target := filepath.Join(t.TempDir(), "commit.txt")

	out, _, err := runCLI(t, "-r", dir, "export-commits", "--output", target, "HEAD")
	require.NoError(t, err)
	assert.Equal(t, "Exported 1 commit to "+target+"\n", out)

	content := readFile(t, target)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{40} - Initial commit\n`), content)
	assert.Contains(t, content, "+# Test Repo")

	_, _, err = runCLI(t, "-r", dir, "export-commits")
	assert.Error(t, err)
	_, _, err = runCLI(t, "-r", dir, "export-commits", "--output", target, "nope")
	assert.ErrorContains(t, err, `unknown commit "nope"`)
}

func TestOverviewCommand(t *testing.T) {
	dir := setupRepo(t)
	target := t.TempDir()

	out, _, err := runCLI(t, "-r", dir, "overview", "--output", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported ")

	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Regexp(t, regexp.MustCompile(`^files_overview_\d{8}_\d{6}\.txt$`), entries[0].Name())
	content := readFile(t, filepath.Join(target, entries[0].Name()))
	for _, want := range []string{"README.md", "staged.txt", "notes/todo.txt", "src/util.c"} {
		assert.Contains(t, content, want)
	}
}

func TestDumpCommand(t *testing.T) {
	dir := setupRepo(t)

	t.Run("combined", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "dump.txt")
		out, _, err := runCLI(t, "-r", dir, "dump", "--output", target)
		require.NoError(t, err)
		assert.Equal(t, "Exported 2 sources to "+target+"\n", out)

		content := readFile(t, target)
		assert.Contains(t, content, "// ==== src/util.h ====")
		assert.Contains(t, content, "// ==== src/util.c ====")
		assert.NotContains(t, content, "README.md")
	})

	t.Run("from a subdirectory", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "dump.txt")
		out, _, err := runCLI(t, "-r", filepath.Join(dir, "src"), "dump", "--output", target)
		require.NoError(t, err)
		assert.Equal(t, "Exported 2 sources to "+target+"\n", out)
	})

	t.Run("paired", func(t *testing.T) {
		target := t.TempDir()
		_, _, err := runCLI(t, "-r", dir, "dump", "--paired", "--output", target)
		require.NoError(t, err)

		entries, err := os.ReadDir(target)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.True(t, entries[0].IsDir())
		bundle := readFile(t, filepath.Join(target, entries[0].Name(), "src__util.txt"))
		assert.Contains(t, bundle, "int util(void);")
		assert.Contains(t, bundle, "return 1;")
	})
}

func TestOutsideRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	_, _, err := runCLI(t, "-r", t.TempDir(), "overview", "--output", t.TempDir())
	assert.ErrorContains(t, err, "not a git repository")
}
