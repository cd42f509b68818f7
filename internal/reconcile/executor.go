// Package reconcile applies a reviewed mapping against the remote store:
// it resolves or uploads the binary asset for each mapped image, writes the
// asset reference into the target entry, and accumulates a report. Item
// failures never abort the batch; processing is strictly sequential to stay
// under the remote API's implicit rate limits.
package reconcile

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hyggehome/imagesync/internal/cms"
	"github.com/hyggehome/imagesync/internal/mapping"
	"github.com/hyggehome/imagesync/internal/match"
	"github.com/hyggehome/imagesync/internal/mirror"
	"github.com/hyggehome/imagesync/pkg/errors"
)

// ContentClient is the remote surface the executor needs. *cms.Client
// implements it; tests substitute a scripted fake.
type ContentClient interface {
	GetEntry(ctx context.Context, id string) (cms.Entry, error)
	UpdateEntryImage(ctx context.Context, id string, fields map[string]any, assetID string) error
	ListAssets(ctx context.Context) ([]cms.Asset, error)
	UploadAsset(ctx context.Context, path, filename string) (cms.Asset, error)
}

// Executor applies mapping entries one at a time.
type Executor struct {
	Client ContentClient
	Mirror []mirror.Descriptor
	Log    zerolog.Logger

	// DryRun resolves assets but performs no uploads and no entry writes.
	DryRun bool
}

// Apply processes every mapped entry in document order. At most one image
// is applied per target entry per run: the first in order wins, later ones
// are recorded as skipped.
func (x *Executor) Apply(ctx context.Context, doc *mapping.Document) *Report {
	report := NewReport(doc.RunID, x.DryRun)
	seen := make(map[string]bool)

	for _, entry := range doc.Entries {
		if ctx.Err() != nil {
			break
		}

		if !entry.Matched() {
			report.Unmatched = append(report.Unmatched, entry.Filename)
			x.Log.Info().Str("image", entry.Filename).Msg("unmatched, skipping")
			continue
		}

		entryID := *entry.EntryID
		if seen[entryID] {
			report.Skipped = append(report.Skipped, ItemResult{
				Filename: entry.Filename,
				EntryID:  entryID,
			})
			x.Log.Info().Str("image", entry.Filename).Str("entry", entryID).Msg("entry already handled this run, skipping")
			continue
		}
		seen[entryID] = true

		result := x.applyItem(ctx, entry)
		if result.Err != "" {
			report.Failed = append(report.Failed, result)
			x.Log.Error().Str("image", entry.Filename).Str("entry", entryID).Str("error", result.Err).Msg("item failed")
			continue
		}
		report.Applied = append(report.Applied, result)
		x.Log.Info().
			Str("image", entry.Filename).
			Str("entry", entryID).
			Str("asset", result.AssetID).
			Bool("dry_run", x.DryRun).
			Msg("image assigned")
	}

	return report
}

// applyItem resolves the asset and updates one entry.
func (x *Executor) applyItem(ctx context.Context, entry mapping.Entry) ItemResult {
	entryID := *entry.EntryID
	result := ItemResult{Filename: entry.Filename, EntryID: entryID}
	if entry.SuggestedEntry != nil {
		result.EntryName = *entry.SuggestedEntry
	}

	assetID, uploaded, err := x.resolveAsset(ctx, entry)
	if err != nil {
		result.Err = err.Error()
		result.Kind = kindOf(err)
		return result
	}
	result.AssetID = assetID
	result.Uploaded = uploaded

	if x.DryRun {
		return result
	}

	fields := map[string]any{}
	current, err := x.Client.GetEntry(ctx, entryID)
	if err != nil {
		// Known field-loss risk: the update proceeds with an empty
		// baseline and may strip unrelated fields on the record.
		fetchErr := errors.NewItemError(entry.Filename, entryID, errors.ErrEntryFetchFailed, err)
		result.Degraded = true
		result.Kind = kindOf(fetchErr)
		x.Log.Warn().Str("entry", entryID).Err(fetchErr).Msg("entry fetch failed, updating with empty fields baseline")
	} else {
		fields = current.Fields
	}

	if err := x.Client.UpdateEntryImage(ctx, entryID, fields, assetID); err != nil {
		itemErr := errors.NewItemError(entry.Filename, entryID, errors.ErrUpdateRejected, err)
		result.Err = itemErr.Error()
		result.Kind = kindOf(itemErr)
		return result
	}

	return result
}

// resolveAsset finds an existing asset for the image or uploads a new one.
// The returned bool reports whether an upload happened (or would happen,
// under dry-run).
func (x *Executor) resolveAsset(ctx context.Context, entry mapping.Entry) (string, bool, error) {
	if id := findDescriptor(x.Mirror, entry.Filename); id != "" {
		return id, false, nil
	}

	assets, err := x.Client.ListAssets(ctx)
	if err != nil {
		x.Log.Warn().Err(err).Msg("remote asset listing failed, will upload")
	} else if id := findAsset(assets, entry.Filename); id != "" {
		return id, false, nil
	}

	if x.DryRun {
		return "(would upload)", true, nil
	}

	asset, err := x.Client.UploadAsset(ctx, entry.Path, entry.Filename)
	if err != nil {
		return "", false, errors.NewItemError(entry.Filename, *entry.EntryID, errors.ErrUploadFailed, err)
	}
	if asset.ID == "" {
		return "", false, errors.NewItemError(entry.Filename, *entry.EntryID, errors.ErrAssetNotFound, nil)
	}
	return asset.ID, true, nil
}

// findDescriptor searches the local mirror for a title matching filename.
func findDescriptor(descriptors []mirror.Descriptor, filename string) string {
	for _, d := range descriptors {
		if titlesMatch(d.Name(), filename) {
			return d.ID
		}
	}
	return ""
}

// findAsset searches remote asset descriptors the same way.
func findAsset(assets []cms.Asset, filename string) string {
	for _, a := range assets {
		if titlesMatch(a.Filename, filename) {
			return a.ID
		}
	}
	return ""
}

// titlesMatch accepts an exact normalized match (case-fold, extension and
// separators stripped) or at least half the tokens shared.
func titlesMatch(title, filename string) bool {
	if title == "" {
		return false
	}

	titleTokens := match.Normalize(title)
	fileTokens := match.Normalize(filename)
	if len(titleTokens) == 0 || len(fileTokens) == 0 {
		return false
	}

	if strings.Join(titleTokens, "") == strings.Join(fileTokens, "") {
		return true
	}

	shared := 0
	for _, ft := range fileTokens {
		for _, tt := range titleTokens {
			if ft == tt {
				shared++
				break
			}
		}
	}
	smaller := len(fileTokens)
	if len(titleTokens) < smaller {
		smaller = len(titleTokens)
	}
	return float64(shared)/float64(smaller) >= 0.5
}

// kindOf maps an error to its report kind string.
func kindOf(err error) string {
	switch {
	case stderrors.Is(err, errors.ErrAssetNotFound):
		return "asset_not_found"
	case stderrors.Is(err, errors.ErrUploadFailed):
		return "upload_failed"
	case stderrors.Is(err, errors.ErrUpdateRejected):
		return "update_rejected"
	case stderrors.Is(err, errors.ErrEntryFetchFailed):
		return "entry_fetch_failed"
	default:
		return "error"
	}
}
