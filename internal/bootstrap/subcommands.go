package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	urfavecli "github.com/urfave/cli/v3"

	"github.com/chmouel/lazydiff/internal/buildinfo"
	"github.com/chmouel/lazydiff/internal/export"
	"github.com/chmouel/lazydiff/internal/models"
	"github.com/chmouel/lazydiff/internal/theme"
)

func exportCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "export",
		Usage:     "Export the diff of changed files",
		ArgsUsage: "[paths...]",
		Flags: []urfavecli.Flag{
			outputFlag(),
			&urfavecli.BoolFlag{
				Name:  "staged",
				Usage: "Only export staged changes",
			},
		},
		Action: runExport,
	}
}

func exportCommitsCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "export-commits",
		Usage:     "Export commits as banner plus patch",
		ArgsUsage: "HASH...",
		Flags:     []urfavecli.Flag{outputFlag()},
		Action:    runExportCommits,
	}
}

func overviewCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:   "overview",
		Usage:  "Write the list of tracked and untracked files",
		Flags:  []urfavecli.Flag{outputFlag()},
		Action: runOverview,
	}
}

func dumpCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "dump",
		Usage: "Bundle C/C++ sources into text files",
		Flags: []urfavecli.Flag{
			outputFlag(),
			&urfavecli.BoolFlag{
				Name:  "paired",
				Usage: "Write one file per header/implementation pair",
			},
		},
		Action: runDump,
	}
}

func themesCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "themes",
		Usage: "List available themes",
		Action: func(_ context.Context, cmd *urfavecli.Command) error {
			printThemes(cmd.Root().Writer)
			return nil
		},
	}
}

func versionCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "version",
		Usage: "Print build information",
		Action: func(_ context.Context, cmd *urfavecli.Command) error {
			buildinfo.Enrich()
			_, err := fmt.Fprintln(cmd.Root().Writer, buildinfo.Get().String())
			return err
		},
	}
}

// printThemes prints available themes, marking light ones.
func printThemes(w io.Writer) {
	fmt.Fprintln(w, "Available themes:")
	for _, name := range theme.AvailableThemes() {
		kind := "dark"
		if theme.IsLight(name) {
			kind = "light"
		}
		fmt.Fprintf(w, "  %-20s %s\n", name, kind)
	}
}

// cliEnv is what every export subcommand needs.
type cliEnv struct {
	repo     *repository
	exporter *export.Exporter
	out      io.Writer
}

func newCLIEnv(ctx context.Context, cmd *urfavecli.Command) (*cliEnv, error) {
	cfg, err := loadCLIConfig(cmd)
	if err != nil {
		return nil, err
	}
	errOut := cmd.Root().ErrWriter
	repo, err := openRepository(ctx, cmd, func(message, severity string) {
		cliNotify(errOut, message, severity)
	})
	if err != nil {
		return nil, err
	}
	exporter := export.NewExporter(repo.svc, nil, repo.cwd, repo.root)
	exporter.Extensions = cfg.DumpExtensions
	return &cliEnv{repo: repo, exporter: exporter, out: cmd.Root().Writer}, nil
}

func (e *cliEnv) report(res export.Result, err error) error {
	if errors.Is(err, export.ErrNothingToExport) {
		return errors.New("nothing to export")
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(e.out, res.Summary())
	return err
}

func runExport(ctx context.Context, cmd *urfavecli.Command) error {
	env, err := newCLIEnv(ctx, cmd)
	if err != nil {
		return err
	}

	var changes []models.SelectedChange
	if !cmd.Bool("staged") {
		unstaged, err := env.repo.svc.ListUnstaged(ctx)
		if err != nil {
			return err
		}
		changes = appendChanges(changes, unstaged, models.GroupUnstaged)
	}
	staged, err := env.repo.svc.ListStaged(ctx)
	if err != nil {
		return err
	}
	changes = appendChanges(changes, staged, models.GroupStaged)
	changes = filterChanges(changes, cmd.Args().Slice())
	if len(changes) == 0 {
		return errors.New("no changes to export")
	}

	output := cmd.String("output")
	if output == "" && !isTerminal(env.out) {
		diff, err := env.repo.svc.MultiDiff(ctx, changes)
		if err != nil {
			return err
		}
		_, err = io.WriteString(env.out, diff)
		return err
	}
	return env.report(env.exporter.ExportFiles(ctx, output, changes))
}

func appendChanges(out []models.SelectedChange, records []models.ChangeRecord, group models.Group) []models.SelectedChange {
	for _, r := range records {
		out = append(out, models.SelectedChange{Record: r, Group: group})
	}
	return out
}

// filterChanges keeps changes whose path equals one of paths or lies under
// it. No paths keeps everything.
func filterChanges(changes []models.SelectedChange, paths []string) []models.SelectedChange {
	if len(paths) == 0 {
		return changes
	}
	var out []models.SelectedChange
	for _, c := range changes {
		for _, p := range paths {
			p = strings.TrimSuffix(strings.TrimPrefix(p, "./"), "/")
			if c.Record.Path == p || strings.HasPrefix(c.Record.Path, p+"/") {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func runExportCommits(ctx context.Context, cmd *urfavecli.Command) error {
	hashes := cmd.Args().Slice()
	if len(hashes) == 0 {
		return errors.New("usage: lazydiff export-commits HASH...")
	}
	env, err := newCLIEnv(ctx, cmd)
	if err != nil {
		return err
	}

	commits := make([]models.CommitRecord, 0, len(hashes))
	for _, h := range hashes {
		c, err := env.repo.svc.ResolveCommit(ctx, h)
		if err != nil {
			return err
		}
		commits = append(commits, c)
	}
	return env.report(env.exporter.ExportCommits(ctx, cmd.String("output"), commits))
}

func runOverview(ctx context.Context, cmd *urfavecli.Command) error {
	env, err := newCLIEnv(ctx, cmd)
	if err != nil {
		return err
	}
	return env.report(env.exporter.ExportOverview(ctx, cmd.String("output")))
}

func runDump(ctx context.Context, cmd *urfavecli.Command) error {
	env, err := newCLIEnv(ctx, cmd)
	if err != nil {
		return err
	}
	layout := export.DumpCombined
	if cmd.Bool("paired") {
		layout = export.DumpPaired
	}
	return env.report(env.exporter.ExportCodeDump(ctx, cmd.String("output"), layout))
}

// cliNotify prints git notifications in CLI mode.
func cliNotify(w io.Writer, message, severity string) {
	if w == nil {
		w = os.Stderr
	}
	if severity == "error" {
		fmt.Fprintf(w, "Error: %s\n", message)
		return
	}
	fmt.Fprintf(w, "%s\n", message)
}
