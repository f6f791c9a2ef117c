package ontology

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/standoff/errors"
)

func TestFetch_HTTP(t *testing.T) {
	body, err := os.ReadFile("testdata/ontomedia-data.json")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	defer srv.Close()

	dst := filepath.Join(t.TempDir(), "cache", "ontomedia-data.json")
	require.NoError(t, Fetch(context.Background(), srv.URL+"/ontomedia-data.json", dst, nil))

	cfg, err := NewFileLoader(dst).Load()
	require.NoError(t, err)
	assert.Equal(t, wantPrefixes, prefixes(cfg))
}

func TestFetch_LocalCopy(t *testing.T) {
	src, err := filepath.Abs("testdata/ontomedia-data.yaml")
	require.NoError(t, err)
	dst := filepath.Join(t.TempDir(), "ontomedia-data.yaml")

	require.NoError(t, Fetch(context.Background(), src, dst, nil))

	info, err := os.Lstat(dst)
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular(), "local sources are copied, not linked")
}

func TestFetch_FailureKeepsExisting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	dst := filepath.Join(t.TempDir(), "ontology.json")
	require.NoError(t, os.WriteFile(dst, []byte(`{"base_namespace": "http://old/"}`), 0644))

	err := Fetch(context.Background(), srv.URL+"/ontology.json", dst, nil)
	require.Error(t, err)
	assert.True(t, errors.IsConfigUnavailable(err))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(data), "http://old/")
}
