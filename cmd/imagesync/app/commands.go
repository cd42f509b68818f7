package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/hyggehome/imagesync/cmd/imagesync/cmd/apply"
	"github.com/hyggehome/imagesync/cmd/imagesync/cmd/match"
	"github.com/hyggehome/imagesync/cmd/imagesync/cmd/report"
)

// CreateMatchCommand creates the match command with app dependencies.
func (a *App) CreateMatchCommand() *cobra.Command {
	return match.NewCommand(a)
}

// CreateApplyCommand creates the apply command with app dependencies.
func (a *App) CreateApplyCommand() *cobra.Command {
	return apply.NewCommand(a)
}

// CreateReportCommand creates the report command with app dependencies.
func (a *App) CreateReportCommand() *cobra.Command {
	return report.NewCommand(a)
}

// CreateVersionCommand creates the version command.
func (a *App) CreateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imagesync version %s\n", a.version)
			fmt.Fprintf(out, "commit: %s\n", a.commit)
			fmt.Fprintf(out, "built: %s\n", a.date)
			fmt.Fprintf(out, "built by: %s\n", a.builtBy)
			fmt.Fprintf(out, "go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
