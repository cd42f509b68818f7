package cms

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyggehome/imagesync/pkg/errors"
)

func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithHTTPClient(srv.Client())}, opts...)
	client, err := New(srv.URL, "proj", "secret", opts...)
	require.NoError(t, err)
	return client
}

func TestNewValidatesConfig(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		project string
		token   string
		wantKey string
	}{
		{"missing token", "http://x", "proj", "", "CMS_API_TOKEN"},
		{"missing project", "http://x", "", "tok", "CMS_PROJECT_ID"},
		{"missing base", "", "proj", "tok", "CMS_BASE_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.base, tt.project, tt.token)
			require.Error(t, err)
			var cfgErr *errors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantKey, cfgErr.Key)
		})
	}
}

func TestProbeStopsAtFirstSuccess(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/v1/projects/proj/entries" {
			w.Write([]byte(`[]`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.ListEntries(context.Background())
	require.NoError(t, err)

	// The first shape fails, the second succeeds, the third is never tried.
	assert.Equal(t, []string{
		"/api/v1/projects/proj/entries",
		"/v1/projects/proj/entries",
	}, paths)
}

func TestProbeRepeatsPerCall(t *testing.T) {
	firstShapeHits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/projects/proj/entries" {
			firstShapeHits++
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.ListEntries(context.Background())
	require.NoError(t, err)
	_, err = client.ListEntries(context.Background())
	require.NoError(t, err)

	// Resolution is not cached: the failing first candidate is re-tried
	// on every call.
	assert.Equal(t, 2, firstShapeHits)
}

func TestProbeExhaustionDiagnostics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"bad scope"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.ListEntries(context.Background())
	require.Error(t, err)

	var unreachable *errors.EndpointUnreachableError
	require.ErrorAs(t, err, &unreachable)
	assert.Equal(t, 3, unreachable.Candidates)
	assert.Equal(t, http.StatusForbidden, unreachable.LastStatus)
	assert.Contains(t, unreachable.LastBody, "bad scope")

	// The last rejected response is carried as an APIError.
	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, string(OpListEntries), apiErr.Op)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestListEntriesWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "product", r.URL.Query().Get("category"))
		w.Write([]byte(`{"entries":[
			{"id":"e1","fields":{"name":"Aarhus Chair","price":120}},
			{"_id":"e2","title":"Oslo Sofa"},
			{"fields":{"name":"no id, dropped"}}
		]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	entries, err := client.ListEntries(context.Background())
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "e1", entries[0].ID)
	assert.Equal(t, "Aarhus Chair", entries[0].Name)
	assert.Equal(t, float64(120), entries[0].Fields["price"])
	assert.Equal(t, "e2", entries[1].ID)
	assert.Equal(t, "Oslo Sofa", entries[1].Name)
}

func TestListEntriesCategoryOverride(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "article", r.URL.Query().Get("category"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, WithCategory("article"))
	_, err := client.ListEntries(context.Background())
	require.NoError(t, err)
}

func TestGetEntryNested(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/projects/proj/entries/e9", r.URL.Path)
		w.Write([]byte(`{"entry":{"id":"e9","fields":{"title":"Malmo Table"}}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	entry, err := client.GetEntry(context.Background(), "e9")
	require.NoError(t, err)
	assert.Equal(t, "e9", entry.ID)
	assert.Equal(t, "Malmo Table", entry.Name)
}

func TestUpdateEntryImageThirdShapeAccepted(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		attempts++

		var payload map[string]any
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &payload))

		// This deployment only accepts the flat schema.
		if _, wrapped := payload["fields"]; wrapped {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		assert.Equal(t, "asset-1", payload["image"])
		assert.Equal(t, "kept", payload["color"])
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	err := client.UpdateEntryImage(context.Background(), "e1", map[string]any{"color": "kept"}, "asset-1")
	require.NoError(t, err)

	// Two rejected shapes probe all three URL candidates each, the third
	// shape succeeds on its first candidate.
	assert.Equal(t, 7, attempts)
}

func TestUpdateEntryImageAllShapesRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"unknown field"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	err := client.UpdateEntryImage(context.Background(), "e1", nil, "asset-1")
	require.Error(t, err)

	var unreachable *errors.EndpointUnreachableError
	require.ErrorAs(t, err, &unreachable)
	assert.Equal(t, http.StatusBadRequest, unreachable.LastStatus)
}

func TestListAssetsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"id":"a1","filename":"chair.jpg","url":"http://cdn/chair.jpg"}]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	assets, err := client.ListAssets(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "a1", assets[0].ID)
	assert.Equal(t, "chair.jpg", assets[0].Filename)
}

func TestUploadAsset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lamp.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpegbytes"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "lamp.jpg", r.MultipartForm.Value["title"][0])

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "lamp.jpg", header.Filename)
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "jpegbytes", string(data))

		w.Write([]byte(`{"asset":{"id":"a7"}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	asset, err := client.UploadAsset(context.Background(), path, "lamp.jpg")
	require.NoError(t, err)
	assert.Equal(t, "a7", asset.ID)
	assert.Equal(t, "lamp.jpg", asset.Filename)
}

func TestUploadAssetRetriesNextCandidate(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path != "/v1/projects/proj/assets" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		// The multipart body must arrive intact on the retry.
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "jpegbytes", string(data))
		w.Write([]byte(`{"id":"a8"}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "sofa.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpegbytes"), 0o644))

	client := newTestClient(t, srv)
	asset, err := client.UploadAsset(context.Background(), path, "sofa.jpg")
	require.NoError(t, err)
	assert.Equal(t, "a8", asset.ID)
	assert.Equal(t, []string{
		"/api/v1/projects/proj/assets",
		"/v1/projects/proj/assets",
	}, paths)
}
