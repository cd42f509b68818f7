// Package match implements the match command: scan the local image
// directory, pair each image with a remote entry, and write the mapping
// checkpoint for review.
package match

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyggehome/imagesync/cmd/imagesync/context"
	"github.com/hyggehome/imagesync/internal/mapping"
	matcher "github.com/hyggehome/imagesync/internal/match"
	"github.com/hyggehome/imagesync/internal/scanner"
)

// NewCommand creates the match command using app context.
func NewCommand(appCtx context.Context) *cobra.Command {
	var noSemantic bool

	cmd := &cobra.Command{
		Use:     "match",
		GroupID: "pipeline",
		Short:   "Pair local images with remote entries and write the mapping file",
		Long: `Match scans the image directory, lists the remote entries, and pairs each
image with at most one entry. The result is written to the mapping file as a
checkpoint: review and correct it by hand before running apply. Running match
again overwrites the file with a fresh run.`,
		Example: `  imagesync match
  imagesync match --images-dir ./photos --mapping-file review.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			log := appCtx.Logger()

			images, err := scanner.List(appCtx.ImagesDir())
			if err != nil {
				return err
			}
			log.Info().Int("count", len(images)).Str("dir", appCtx.ImagesDir()).Msg("scanned images")

			client, err := appCtx.Client()
			if err != nil {
				return err
			}
			entries, err := client.ListEntries(ctx)
			if err != nil {
				return err
			}
			log.Info().Int("count", len(entries)).Msg("listed remote entries")

			engine, err := appCtx.Matcher(ctx)
			if err != nil {
				return err
			}
			if noSemantic {
				engine = &matcher.Engine{Log: engine.Log}
			}

			doc := mapping.NewDocument(appCtx.ImagesDir())
			for _, img := range images {
				if err := ctx.Err(); err != nil {
					return err
				}
				result, ok := engine.Match(ctx, img, entries)
				if !ok {
					doc.Add(img, nil)
					log.Info().Str("image", img.Filename).Msg("no entry matched")
					continue
				}
				doc.Add(img, &result)
				log.Info().
					Str("image", img.Filename).
					Str("entry", result.EntryName).
					Float64("confidence", result.Confidence).
					Str("method", string(result.Method)).
					Msg("image matched")
			}

			if err := mapping.Save(appCtx.MappingFile(), doc); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Matched %d of %d images (%d unmatched).\n",
				doc.Matched(), len(doc.Entries), doc.Unmatched())
			fmt.Fprintf(out, "Mapping written to %s. Review it, then run 'imagesync apply'.\n",
				appCtx.MappingFile())
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSemantic, "no-semantic", false, "skip the semantic matcher, use keyword matching only")

	return cmd
}
