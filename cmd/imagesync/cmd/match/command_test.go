package match

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "github.com/hyggehome/imagesync/cmd/imagesync/context"
	"github.com/hyggehome/imagesync/internal/cms"
	"github.com/hyggehome/imagesync/internal/mapping"
)

func TestMatchWritesMapping(t *testing.T) {
	imagesDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(imagesDir, "aarhus-chair.jpg"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(imagesDir, "zzz-unknown.jpg"), []byte("x"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"entries":[{"id":"e1","fields":{"name":"Aarhus Chair"}}]}`))
	}))
	defer srv.Close()

	client, err := cms.New(srv.URL, "proj", "tok", cms.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	mappingFile := filepath.Join(t.TempDir(), "mapping.json")
	mock := &appctx.MockContext{
		ClientFunc:      func() (*cms.Client, error) { return client, nil },
		ImagesDirFunc:   func() string { return imagesDir },
		MappingFileFunc: func() string { return mappingFile },
	}

	cmd := NewCommand(mock)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	require.NoError(t, cmd.Execute())

	doc, err := mapping.Load(mappingFile)
	require.NoError(t, err)
	assert.Len(t, doc.Entries, 2)
	assert.Equal(t, 1, doc.Matched())
	assert.Equal(t, 1, doc.Unmatched())
	assert.Contains(t, out.String(), "Matched 1 of 2 images")
}

func TestMatchMissingImagesDir(t *testing.T) {
	mock := &appctx.MockContext{
		ImagesDirFunc: func() string { return filepath.Join(t.TempDir(), "nope") },
	}

	cmd := NewCommand(mock)
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	require.Error(t, cmd.Execute())
}
