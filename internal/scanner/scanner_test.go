package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyggehome/imagesync/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "zebra-rug.jpg", "zz")
	writeFile(t, dir, "aarhus-accent-chair.PNG", "aaaa")
	writeFile(t, dir, "notes.txt", "skip me")
	writeFile(t, dir, "vector.svg", "skip me too")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	writeFile(t, filepath.Join(dir, "nested"), "inner.jpg", "skipped")

	images, err := List(dir)
	require.NoError(t, err)
	require.Len(t, images, 2)

	// Sorted by filename, sizes recorded.
	assert.Equal(t, "aarhus-accent-chair.PNG", images[0].Filename)
	assert.Equal(t, int64(4), images[0].SizeBytes)
	assert.Equal(t, "zebra-rug.jpg", images[1].Filename)
	assert.Equal(t, filepath.Join(dir, "zebra-rug.jpg"), images[1].Path)
}

func TestListMissingDirectory(t *testing.T) {
	_, err := List(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
	assert.True(t, errors.IsDirectoryNotFound(err))
	assert.True(t, errors.IsFatal(err))
}

func TestListFileAsDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "plain.jpg", "x")

	_, err := List(filepath.Join(dir, "plain.jpg"))
	assert.True(t, errors.IsDirectoryNotFound(err))
}

func TestIsImage(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"chair.jpg", true},
		{"chair.JPEG", true},
		{"chair.webp", true},
		{"chair.avif", true},
		{"chair.svg", false},
		{"chair", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsImage(tt.name))
		})
	}
}
