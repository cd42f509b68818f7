// Package scanner enumerates local image files for reconciliation.
// The images directory is treated as a flat folder: subdirectories are
// skipped and files are returned in a deterministic order so that repeated
// runs produce identical mapping documents.
package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hyggehome/imagesync/pkg/errors"
)

// ImageFile is an immutable snapshot of one local image, taken once per run.
type ImageFile struct {
	Path      string `json:"path"`
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
}

// imageExtensions is the fixed allow-list of recognized image extensions.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
	".avif": true,
}

// IsImage reports whether name has a recognized image extension.
func IsImage(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// List returns the image files directly inside dir, sorted by filename.
// A missing directory is a fatal input error.
func List(dir string) ([]ImageFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errors.DirectoryNotFoundError{Path: dir}
		}
		return nil, errors.WrapIO("stat", dir, err)
	}
	if !info.IsDir() {
		return nil, &errors.DirectoryNotFoundError{Path: dir}
	}

	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapIO("read", dir, err)
	}

	images := make([]ImageFile, 0, len(dirents))
	for _, de := range dirents {
		if de.IsDir() || !IsImage(de.Name()) {
			continue
		}
		fi, err := de.Info()
		if err != nil {
			return nil, errors.WrapIO("stat", filepath.Join(dir, de.Name()), err)
		}
		images = append(images, ImageFile{
			Path:      filepath.Join(dir, de.Name()),
			Filename:  de.Name(),
			SizeBytes: fi.Size(),
		})
	}

	sort.Slice(images, func(i, j int) bool { return images[i].Filename < images[j].Filename })
	return images, nil
}
