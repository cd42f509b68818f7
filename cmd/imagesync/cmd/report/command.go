// Package report implements the report command: a read-only summary of the
// current mapping file.
package report

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyggehome/imagesync/cmd/imagesync/context"
	"github.com/hyggehome/imagesync/internal/mapping"
	"github.com/hyggehome/imagesync/internal/reconcile"
)

// NewCommand creates the report command using app context.
func NewCommand(appCtx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:     "report",
		GroupID: "pipeline",
		Short:   "Summarize the mapping file without touching the remote store",
		Long: `Report prints a human-readable summary of the mapping file: matched images
grouped by target entry with aggregate sizes, and the unmatched images that
need manual follow-up. It makes no remote calls.`,
		Example: `  imagesync report
  imagesync report --mapping-file review.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := mapping.Load(appCtx.MappingFile())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), reconcile.Summarize(doc, nil))
			return nil
		},
	}
}
