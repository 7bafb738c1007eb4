package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	urfavecli "github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/chmouel/lazydiff/internal/app"
	"github.com/chmouel/lazydiff/internal/buildinfo"
	"github.com/chmouel/lazydiff/internal/config"
	"github.com/chmouel/lazydiff/internal/git"
	"github.com/chmouel/lazydiff/internal/log"
	"github.com/chmouel/lazydiff/internal/utils"
)

// ErrNotATerminal is returned when the TUI is started without a terminal.
var ErrNotATerminal = errors.New("lazydiff needs an interactive terminal; use a subcommand such as 'lazydiff export' in scripts")

// isTerminal reports whether w is a terminal. Tests replace it.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec
}

// NewCommand builds the root command.
func NewCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:    "lazydiff",
		Usage:   "Browse and export git changes from the terminal",
		Version: buildinfo.Version(),
		Flags:   globalFlags(),
		Commands: []*urfavecli.Command{
			exportCommand(),
			exportCommitsCommand(),
			overviewCommand(),
			dumpCommand(),
			themesCommand(),
			versionCommand(),
		},
		Before: func(ctx context.Context, cmd *urfavecli.Command) (context.Context, error) {
			setupDebugLog(cmd.String("debug-log"))
			return ctx, nil
		},
		After: func(context.Context, *urfavecli.Command) error {
			return log.Close()
		},
		Action: runTUI,
	}
}

// Run executes the command line in args.
func Run(ctx context.Context, args []string) error {
	return NewCommand().Run(ctx, args)
}

func setupDebugLog(path string) {
	if path == "" {
		return
	}
	if expanded, err := utils.ExpandPath(path); err == nil {
		path = expanded
	}
	if err := log.SetFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening debug log file %q: %v\n", path, err)
	}
}

// runTUI is the default action that launches the TUI when no subcommand is given.
func runTUI(ctx context.Context, cmd *urfavecli.Command) error {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return ErrNotATerminal
	}

	cfg, err := loadCLIConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.String("debug-log") == "" {
		if cfg.DebugLog != "" {
			setupDebugLog(cfg.DebugLog)
		} else {
			// No debug log configured, discard any buffered logs
			_ = log.SetFile("")
		}
	}

	notes := app.NewNotifier()
	repo, err := openRepository(ctx, cmd, notes.Notify)
	if err != nil {
		return err
	}

	model := app.NewModel(cfg, repo.svc, app.Options{
		Cwd:      repo.cwd,
		Root:     repo.root,
		Notifier: notes,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}

// loadCLIConfig loads the configuration and applies the global flags on top.
func loadCLIConfig(cmd *urfavecli.Command) (*config.AppConfig, error) {
	cfg, err := config.LoadConfig(cmd.String("config-file"))
	if err != nil {
		fmt.Fprintf(cmd.Root().ErrWriter, "Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	if err := applyThemeConfig(cfg, cmd.String("theme")); err != nil {
		return nil, err
	}
	if view := cmd.String("view"); view != "" {
		if view != "flat" && view != "tree" {
			return nil, fmt.Errorf("unknown view %q (want flat or tree)", view)
		}
		cfg.ViewMode = view
	}
	if overrides := cmd.StringSlice("config"); len(overrides) > 0 {
		if err := cfg.ApplyCLIOverrides(overrides); err != nil {
			return nil, fmt.Errorf("error applying config overrides: %w", err)
		}
	}
	return cfg, nil
}

// applyThemeConfig applies theme configuration from command line flag.
func applyThemeConfig(cfg *config.AppConfig, themeName string) error {
	if themeName == "" {
		return nil
	}
	normalized := config.NormalizeThemeName(themeName)
	if normalized == "" {
		return fmt.Errorf("unknown theme %q", themeName)
	}
	cfg.Theme = normalized
	return nil
}

type repository struct {
	svc  *git.Service
	cwd  string
	root string
}

// openRepository checks for git and resolves the repository the commands
// operate on.
func openRepository(ctx context.Context, cmd *urfavecli.Command, notify git.NotifyFn) (*repository, error) {
	if !git.Available() {
		return nil, errors.New("git executable not found in PATH")
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	dir := cmd.String("repo")
	if dir != "" {
		if dir, err = utils.ExpandPath(dir); err != nil {
			return nil, err
		}
	}

	svc := git.NewService(dir, notify, nil)
	root, err := svc.RepoRoot(ctx)
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}
	return &repository{svc: svc, cwd: cwd, root: root}, nil
}
