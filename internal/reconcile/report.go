package reconcile

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hyggehome/imagesync/internal/mapping"
)

// ItemResult records the outcome for one mapping entry.
type ItemResult struct {
	Filename  string `json:"filename"`
	EntryID   string `json:"entry_id"`
	EntryName string `json:"entry_name,omitempty"`
	AssetID   string `json:"asset_id,omitempty"`
	Uploaded  bool   `json:"uploaded,omitempty"`
	Degraded  bool   `json:"degraded,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Err       string `json:"error,omitempty"`
}

// Report is the outcome of one apply run.
type Report struct {
	RunID     string       `json:"run_id"`
	StartedAt time.Time    `json:"started_at"`
	DryRun    bool         `json:"dry_run,omitempty"`
	Applied   []ItemResult `json:"applied"`
	Skipped   []ItemResult `json:"skipped"`
	Failed    []ItemResult `json:"failed"`
	Unmatched []string     `json:"unmatched"`
}

// NewReport creates an empty report correlated to the mapping's run id.
func NewReport(runID string, dryRun bool) *Report {
	return &Report{
		RunID:     runID,
		StartedAt: time.Now().UTC(),
		DryRun:    dryRun,
	}
}

// Summarize renders a human-readable view of a mapping document and, when
// present, an apply report. It is a pure read-side view: no remote calls.
func Summarize(doc *mapping.Document, report *Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Mapping run %s (%d images: %d matched, %d unmatched)\n",
		doc.RunID, len(doc.Entries), doc.Matched(), doc.Unmatched())

	writeGroups(&sb, doc)
	writeUnmatched(&sb, doc)

	if report != nil {
		writeReport(&sb, report)
	}

	return sb.String()
}

// group collects the images mapped to one entry.
type group struct {
	name   string
	images []string
	bytes  int64
}

// writeGroups prints matched images grouped by target entry with aggregate
// byte sizes per group.
func writeGroups(sb *strings.Builder, doc *mapping.Document) {
	groups := map[string]*group{}
	var order []string

	for _, e := range doc.Entries {
		if !e.Matched() {
			continue
		}
		id := *e.EntryID
		g, ok := groups[id]
		if !ok {
			g = &group{}
			if e.SuggestedEntry != nil {
				g.name = *e.SuggestedEntry
			}
			groups[id] = g
			order = append(order, id)
		}
		g.images = append(g.images, e.Filename)
		g.bytes += e.SizeBytes
	}

	if len(order) == 0 {
		return
	}

	sort.Strings(order)
	sb.WriteString("\nMatched by entry:\n")
	for _, id := range order {
		g := groups[id]
		fmt.Fprintf(sb, "  %s (%s): %d image(s), %s\n", g.name, id, len(g.images), formatBytes(g.bytes))
		for _, img := range g.images {
			fmt.Fprintf(sb, "    - %s\n", img)
		}
	}
}

// writeUnmatched lists images needing manual follow-up.
func writeUnmatched(sb *strings.Builder, doc *mapping.Document) {
	var unmatched []string
	for _, e := range doc.Entries {
		if !e.Matched() {
			unmatched = append(unmatched, e.Filename)
		}
	}
	if len(unmatched) == 0 {
		return
	}

	sb.WriteString("\nUnmatched (needs manual follow-up):\n")
	for _, name := range unmatched {
		fmt.Fprintf(sb, "  - %s\n", name)
	}
}

// writeReport prints the apply outcome.
func writeReport(sb *strings.Builder, report *Report) {
	mode := "apply"
	if report.DryRun {
		mode = "dry-run"
	}
	fmt.Fprintf(sb, "\nApply run (%s): %d applied, %d skipped, %d failed\n",
		mode, len(report.Applied), len(report.Skipped), len(report.Failed))

	for _, item := range report.Applied {
		note := ""
		if item.Uploaded {
			note = " (new upload)"
		}
		if item.Degraded {
			note += " (degraded: empty fields baseline)"
		}
		fmt.Fprintf(sb, "  ok   %s -> %s asset=%s%s\n", item.Filename, item.EntryID, item.AssetID, note)
	}
	for _, item := range report.Skipped {
		fmt.Fprintf(sb, "  skip %s (entry %s already handled)\n", item.Filename, item.EntryID)
	}
	for _, item := range report.Failed {
		fmt.Fprintf(sb, "  FAIL %s [%s]: %s\n", item.Filename, item.Kind, item.Err)
	}
}

// formatBytes renders a byte count for the console summary.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
