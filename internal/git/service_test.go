package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/chmouel/lazydiff/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService(t *testing.T) {
	service := NewService("", nil, nil)

	assert.NotNil(t, service)
	assert.NotNil(t, service.semaphore)
	assert.NotNil(t, service.notifiedSet)
	assert.NotNil(t, service.notify)
	assert.NotNil(t, service.notifyOnce)

	expectedSlots := runtime.NumCPU() * 2
	if expectedSlots < 4 {
		expectedSlots = 4
	}
	if expectedSlots > 32 {
		expectedSlots = 32
	}
	assert.Equal(t, expectedSlots, cap(service.semaphore))
	assert.Len(t, service.semaphore, expectedSlots)
}

func TestDefaultNotifyOnceDeduplicates(t *testing.T) {
	var messages []string
	service := NewService("", func(message, _ string) {
		messages = append(messages, message)
	}, nil)

	service.notifyOnce("k", "first", "error")
	service.notifyOnce("k", "second", "error")
	service.notifyOnce("other", "third", "error")

	assert.Equal(t, []string{"first", "third"}, messages)
}

func TestPrepareAllowedCommand(t *testing.T) {
	_, err := prepareAllowedCommand(context.Background(), nil)
	require.Error(t, err)

	_, err = prepareAllowedCommand(context.Background(), []string{"rm", "-rf", "/"})
	require.Error(t, err)

	cmd, err := prepareAllowedCommand(context.Background(), []string{"git", "status"})
	require.NoError(t, err)
	assert.Equal(t, []string{"git", "status"}, cmd.Args)
}

func TestExec(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	ctx := context.Background()

	t.Run("version outside a repository", func(t *testing.T) {
		service := NewService(t.TempDir(), nil, nil)
		output, err := service.Exec(ctx, []string{"git", "--version"}, []int{0})
		require.NoError(t, err)
		assert.Contains(t, output, "git version")
	})

	t.Run("diff failure notifies once", func(t *testing.T) {
		var received []string
		service := NewService(t.TempDir(), func(message, _ string) {
			received = append(received, message)
		}, nil)
		assert.Equal(t, ErrorPlaceholder, service.CommitDiff(ctx, "deadbeef"))
		assert.Equal(t, ErrorPlaceholder, service.CommitDiff(ctx, "deadbeef"))
		require.Len(t, received, 1)
		assert.Contains(t, received[0], "deadbeef")
	})

	t.Run("command error carries exit code", func(t *testing.T) {
		service := NewService(t.TempDir(), nil, nil)
		_, err := service.Exec(ctx, []string{"git", "invalid-command-xyz"}, []int{0})
		var cmdErr *CommandError
		require.True(t, errors.As(err, &cmdErr))
		assert.NotZero(t, cmdErr.ExitCode)
	})

	t.Run("allowed exit code", func(t *testing.T) {
		service := NewService(t.TempDir(), nil, nil)
		_, err := service.Exec(ctx, []string{"git", "diff", "--no-index", "--", os.DevNull, os.DevNull}, []int{0, 1})
		require.NoError(t, err)
	})
}

func TestParseStatus(t *testing.T) {
	raw := strings.Join([]string{
		"1 .M N... 100644 100644 100644 abc abc src/a.go",
		"1 M. N... 100644 100644 100644 abc def staged.go",
		"1 MM N... 100644 100644 100644 abc def both.go",
		"2 R. N... 100644 100644 100644 abc abc R100 new name.go",
		"old name.go",
		"u UU N... 100644 100644 100644 100644 a b c conflict.go",
		"? notes/todo.txt",
		"",
	}, "\x00")

	unstaged, staged := parseStatus(raw)

	assert.Equal(t, []models.ChangeRecord{
		{Path: "src/a.go", StatusCode: " M", Status: "M"},
		{Path: "both.go", StatusCode: "MM", Status: "M"},
		{Path: "conflict.go", StatusCode: "UU", Status: "U"},
		{Path: "notes/todo.txt", StatusCode: "??", Status: "??"},
	}, unstaged)
	assert.Equal(t, []models.ChangeRecord{
		{Path: "staged.go", StatusCode: "M ", Status: "M"},
		{Path: "both.go", StatusCode: "MM", Status: "M"},
		{Path: "new name.go", StatusCode: "R ", Status: "R", OldPath: "old name.go"},
	}, staged)
}

func TestParseStatusEmpty(t *testing.T) {
	unstaged, staged := parseStatus("")
	assert.Empty(t, unstaged)
	assert.Empty(t, staged)
}

func TestParseHistory(t *testing.T) {
	raw := "aaa\x1fAlice\x1f2024-01-02\x1ffirst change\x1e\nbbb\x1fBob\x1f2024-01-01\x1fsubject with \x1f sep\x1e"
	commits := parseHistory(raw)
	require.Len(t, commits, 2)
	assert.Equal(t, models.CommitRecord{Hash: "aaa", Author: "Alice", Date: "2024-01-02", Message: "first change"}, commits[0])
	assert.Equal(t, "bbb", commits[1].Hash)
	assert.Equal(t, "subject with \x1f sep", commits[1].Message)
}

func TestServiceAgainstRepository(t *testing.T) {
	dir := t.TempDir()
	setupGitRepo(t, dir)
	ctx := context.Background()
	service := NewService(dir, nil, nil)

	writeFile(t, dir, "README.md", "# Test Repo\nchanged\n")
	writeFile(t, dir, "staged.txt", "staged\n")
	runGit(t, dir, "add", "staged.txt")
	writeFile(t, dir, "src/new.go", "package src\n")

	t.Run("status", func(t *testing.T) {
		unstaged, err := service.ListUnstaged(ctx)
		require.NoError(t, err)
		staged, err := service.ListStaged(ctx)
		require.NoError(t, err)

		var unstagedPaths []string
		for _, r := range unstaged {
			unstagedPaths = append(unstagedPaths, r.Path)
		}
		assert.ElementsMatch(t, []string{"README.md", "src/new.go"}, unstagedPaths)
		require.Len(t, staged, 1)
		assert.Equal(t, "staged.txt", staged[0].Path)
		assert.Equal(t, "A", staged[0].Status)
	})

	t.Run("file diffs", func(t *testing.T) {
		assert.Contains(t, service.FileDiff(ctx, "README.md", false, "M"), "+changed")
		assert.Contains(t, service.FileDiff(ctx, "staged.txt", true, "A"), "+staged")
		assert.Contains(t, service.FileDiff(ctx, "src/new.go", false, "??"), "+package src")
	})

	t.Run("multi diff order", func(t *testing.T) {
		out, err := service.MultiDiff(ctx, []models.SelectedChange{
			{Record: models.ChangeRecord{Path: "src/new.go", StatusCode: "??", Status: "??"}},
			{Record: models.ChangeRecord{Path: "staged.txt", StatusCode: "A ", Status: "A"}, Group: models.GroupStaged},
			{Record: models.ChangeRecord{Path: "README.md", StatusCode: " M", Status: "M"}},
		})
		require.NoError(t, err)
		readme := strings.Index(out, "README.md")
		stagedIdx := strings.Index(out, "staged.txt")
		untracked := strings.Index(out, "src/new.go")
		require.True(t, readme >= 0 && stagedIdx >= 0 && untracked >= 0, out)
		assert.Less(t, readme, stagedIdx)
		assert.Less(t, stagedIdx, untracked)
		assert.Contains(t, out, "\n\ndiff --git")
	})

	t.Run("list all files", func(t *testing.T) {
		files, err := service.ListAllFiles(ctx)
		require.NoError(t, err)
		assert.Contains(t, files, "README.md")
		assert.Contains(t, files, "staged.txt")
		assert.Contains(t, files, "src/new.go")
	})

	t.Run("history", func(t *testing.T) {
		commits, err := service.ListHistory(ctx, 10)
		require.NoError(t, err)
		require.Len(t, commits, 1)
		assert.Equal(t, "Initial commit", commits[0].Message)
		assert.Equal(t, "Test User", commits[0].Author)
		assert.Contains(t, service.CommitDiff(ctx, commits[0].Hash), "# Test Repo")
	})

	t.Run("unknown commit", func(t *testing.T) {
		assert.Equal(t, ErrorPlaceholder, service.CommitDiff(ctx, "deadbeefdeadbeef"))
		_, err := service.ResolveCommit(ctx, "deadbeefdeadbeef")
		assert.Error(t, err)
	})

	t.Run("resolve commit", func(t *testing.T) {
		c, err := service.ResolveCommit(ctx, "HEAD")
		require.NoError(t, err)
		assert.Len(t, c.Hash, 40)
		assert.Equal(t, "Initial commit", c.Message)
		assert.Equal(t, "Test User", c.Author)
	})

	t.Run("repo paths", func(t *testing.T) {
		root, err := service.RepoRoot(ctx)
		require.NoError(t, err)
		resolved, _ := filepath.EvalSymlinks(dir)
		rootResolved, _ := filepath.EvalSymlinks(root)
		assert.Equal(t, resolved, rootResolved)

		gitDir, err := service.GitDir(ctx)
		require.NoError(t, err)
		assert.Equal(t, ".git", filepath.Base(gitDir))
	})
}

func TestServiceFromSubdirectory(t *testing.T) {
	dir := t.TempDir()
	setupGitRepo(t, dir)
	ctx := context.Background()

	writeFile(t, dir, "src/a.go", "package src\n")
	runGit(t, dir, "add", "src/a.go")
	runGit(t, dir, "commit", "-m", "Add a.go")
	writeFile(t, dir, "src/a.go", "package src\n\nfunc A() {}\n")
	writeFile(t, dir, "src/new.go", "package src\n")

	service := NewService(filepath.Join(dir, "src"), nil, nil)

	unstaged, err := service.ListUnstaged(ctx)
	require.NoError(t, err)
	var paths []string
	for _, r := range unstaged {
		paths = append(paths, r.Path)
	}
	assert.ElementsMatch(t, []string{"src/a.go", "src/new.go"}, paths)

	assert.Contains(t, service.FileDiff(ctx, "src/a.go", false, "M"), "+func A() {}")
	assert.Contains(t, service.FileDiff(ctx, "src/new.go", false, "??"), "+package src")

	out, err := service.MultiDiff(ctx, []models.SelectedChange{
		{Record: models.ChangeRecord{Path: "src/a.go", StatusCode: " M", Status: "M"}},
		{Record: models.ChangeRecord{Path: "src/new.go", StatusCode: "??", Status: "??"}},
	})
	require.NoError(t, err)
	assert.Contains(t, out, "+func A() {}")
	assert.Contains(t, out, "b/src/new.go")

	files, err := service.ListAllFiles(ctx)
	require.NoError(t, err)
	assert.Contains(t, files, "README.md")
	assert.Contains(t, files, "src/a.go")
	assert.Contains(t, files, "src/new.go")

	root, err := service.RepoRoot(ctx)
	require.NoError(t, err)
	resolved, _ := filepath.EvalSymlinks(dir)
	rootResolved, _ := filepath.EvalSymlinks(root)
	assert.Equal(t, resolved, rootResolved)
}

func TestListHistoryEmptyRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	runGit(t, dir, "init")
	commits, err := NewService(dir, nil, nil).ListHistory(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestStatusOutsideRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	service := NewService(t.TempDir(), nil, nil)
	_, err := service.ListUnstaged(context.Background())
	require.Error(t, err)
	assert.Equal(t, ErrorPlaceholder, service.FileDiff(context.Background(), "missing.go", false, "M"))
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, output)
	}
	return strings.TrimSpace(string(output))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func setupGitRepo(t *testing.T, dir string) {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")
	runGit(t, dir, "config", "commit.gpgsign", "false")
	writeFile(t, dir, "README.md", "# Test Repo\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "Initial commit")
}
