package mirror

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyggehome/imagesync/pkg/logging"
)

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "b.yaml", "id: asset-2\ntitle: Oslo Sofa\nurl: https://cdn.example.com/oslo.jpg\n")
	write(t, dir, "a.yml", "id: asset-1\nfilename: aarhus-chair.jpg\n")
	write(t, dir, "ignore.json", `{"id":"nope"}`)

	descriptors, err := Load(dir, logging.Nop)
	require.NoError(t, err)
	require.Len(t, descriptors, 2)

	assert.Equal(t, "asset-1", descriptors[0].ID)
	assert.Equal(t, "aarhus-chair.jpg", descriptors[0].Name())
	assert.Equal(t, "asset-2", descriptors[1].ID)
	assert.Equal(t, "Oslo Sofa", descriptors[1].Name())
}

func TestLoadMissingDirIsEmpty(t *testing.T) {
	descriptors, err := Load(filepath.Join(t.TempDir(), "nope"), logging.Nop)
	require.NoError(t, err)
	assert.Empty(t, descriptors)
}

func TestLoadSkipsBadDocuments(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "bad.yaml", ":\t[ not yaml")
	write(t, dir, "noid.yaml", "title: Untracked Asset\n")
	write(t, dir, "good.yaml", "id: asset-3\ntitle: Malmo Rug\n")

	descriptors, err := Load(dir, logging.Nop)
	require.NoError(t, err)
	require.Len(t, descriptors, 1)
	assert.Equal(t, "asset-3", descriptors[0].ID)
}
