// Package mirror reads the local asset-descriptor mirror: one YAML document
// per previously uploaded asset, exported from the remote asset store. The
// mirror is an optional cache consulted before any remote asset lookup, so a
// missing directory yields an empty result rather than an error.
package mirror

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"

	"github.com/hyggehome/imagesync/pkg/errors"
)

// Descriptor is the metadata for one stored asset.
type Descriptor struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Filename string `yaml:"filename,omitempty"`
	URL      string `yaml:"url,omitempty"`
}

// Name returns the best display name for the descriptor. Exports from the
// asset store use either a title or a filename key depending on version.
func (d Descriptor) Name() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Filename
}

// Load reads every *.yaml / *.yml descriptor in dir, sorted by file name.
// Malformed documents are logged and skipped; descriptors without an id are
// useless for assignment and are skipped the same way.
func Load(dir string, log zerolog.Logger) ([]Descriptor, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapIO("read", dir, err)
	}

	names := make([]string, 0, len(dirents))
	for _, de := range dirents {
		if de.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(de.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, de.Name())
		}
	}
	sort.Strings(names)

	descriptors := make([]Descriptor, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapIO("read", path, err)
		}

		var d Descriptor
		if err := yaml.Unmarshal(data, &d); err != nil {
			log.Warn().Str("file", path).Err(err).Msg("skipping malformed asset descriptor")
			continue
		}
		if d.ID == "" {
			log.Warn().Str("file", path).Msg("skipping asset descriptor without id")
			continue
		}
		descriptors = append(descriptors, d)
	}

	return descriptors, nil
}
