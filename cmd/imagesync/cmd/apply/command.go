// Package apply implements the apply command: read the reviewed mapping,
// resolve or upload each image's asset, and update the target entries.
package apply

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyggehome/imagesync/cmd/imagesync/context"
	"github.com/hyggehome/imagesync/internal/mapping"
	"github.com/hyggehome/imagesync/internal/reconcile"
)

// NewCommand creates the apply command using app context.
func NewCommand(appCtx context.Context) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "apply",
		GroupID: "pipeline",
		Short:   "Upload assets and assign them to entries per the mapping file",
		Long: `Apply reads the mapping file written by match and processes each mapped
image: it finds or uploads the binary asset, then writes the asset reference
into the target entry's image field. Items are processed one at a time and a
failing item never stops the rest of the batch.

With --dry-run the plan is printed and no uploads or entry writes happen.`,
		Example: `  imagesync apply
  imagesync apply --dry-run
  imagesync apply --mapping-file review.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			doc, err := mapping.Load(appCtx.MappingFile())
			if err != nil {
				return err
			}

			client, err := appCtx.Client()
			if err != nil {
				return err
			}
			descriptors, err := appCtx.Mirror()
			if err != nil {
				return err
			}

			executor := &reconcile.Executor{
				Client: client,
				Mirror: descriptors,
				Log:    *appCtx.Logger(),
				DryRun: dryRun,
			}
			report := executor.Apply(ctx, doc)

			fmt.Fprint(cmd.OutOrStdout(), reconcile.Summarize(doc, report))

			if len(report.Failed) > 0 {
				return fmt.Errorf("%d of %d items failed",
					len(report.Failed), len(report.Applied)+len(report.Failed))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "resolve assets but perform no uploads or entry writes")

	return cmd
}
