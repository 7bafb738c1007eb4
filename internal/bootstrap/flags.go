// Package bootstrap builds the lazydiff command line: global flags, the
// TUI entry point and the non-interactive export subcommands.
package bootstrap

import (
	urfavecli "github.com/urfave/cli/v3"
)

// globalFlags returns all global flags for the application.
// Note: --version is provided automatically by urfave/cli via Command.Version
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Repository directory (defaults to the current directory)",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
		&urfavecli.StringFlag{
			Name:    "theme",
			Aliases: []string{"t"},
			Usage:   "Override the UI theme",
		},
		&urfavecli.StringFlag{
			Name:  "view",
			Usage: "Initial file list layout: flat or tree",
		},
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringSliceFlag{
			Name:    "config",
			Aliases: []string{"C"},
			Usage:   "Override config values (repeatable): --config=ld.key=value",
		},
	}
}

func outputFlag() urfavecli.Flag {
	return &urfavecli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Destination file or directory (a timestamped name is generated for directories)",
	}
}
