// Package mapping persists the reconciliation plan: every scanned image,
// its best-guess entry, and a confidence value, in a single JSON document.
// The document is the checkpoint between deciding and committing; operators
// hand-edit it between `match` and `apply` runs.
package mapping

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/hyggehome/imagesync/internal/match"
	"github.com/hyggehome/imagesync/internal/scanner"
	"github.com/hyggehome/imagesync/pkg/errors"
)

// DefaultFile is the mapping document written next to where the operator runs.
const DefaultFile = "image-mapping.json"

// Entry records one image and its suggested target. SuggestedEntry and
// EntryID are nil for unmatched images; operators may fill them in by hand.
type Entry struct {
	Filename       string  `json:"filename"`
	Path           string  `json:"path"`
	SizeBytes      int64   `json:"size_bytes"`
	SuggestedEntry *string `json:"suggested_entry"`
	EntryID        *string `json:"entry_id"`
	Confidence     float64 `json:"confidence,omitempty"`
	Method         string  `json:"method,omitempty"`
}

// Matched reports whether the entry has a target to apply.
func (e Entry) Matched() bool {
	return e.EntryID != nil && *e.EntryID != ""
}

// Document is the full mapping for one matching run.
type Document struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	ImagesDir string    `json:"images_dir"`
	Entries   []Entry   `json:"entries"`
}

// NewDocument creates an empty mapping document for imagesDir.
func NewDocument(imagesDir string) *Document {
	return &Document{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		ImagesDir: imagesDir,
	}
}

// Add appends one image with its match result; a nil result records the
// image as unmatched.
func (d *Document) Add(img scanner.ImageFile, result *match.Result) {
	entry := Entry{
		Filename:  img.Filename,
		Path:      img.Path,
		SizeBytes: img.SizeBytes,
	}
	if result != nil {
		name := result.EntryName
		id := result.EntryID
		entry.SuggestedEntry = &name
		entry.EntryID = &id
		entry.Confidence = result.Confidence
		entry.Method = string(result.Method)
	}
	d.Entries = append(d.Entries, entry)
}

// Matched returns the number of entries with a target.
func (d *Document) Matched() int {
	n := 0
	for _, e := range d.Entries {
		if e.Matched() {
			n++
		}
	}
	return n
}

// Unmatched returns the number of entries without a target.
func (d *Document) Unmatched() int {
	return len(d.Entries) - d.Matched()
}

// Save writes the document to path. Save is a full overwrite, not a merge:
// re-running matching discards any manual edits made to the previous file.
func Save(path string, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.WrapParse("json", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// Load reads a previously saved document from path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	return &doc, nil
}
