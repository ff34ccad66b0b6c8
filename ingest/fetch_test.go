package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const fetchDoc = `[{"id": 42, "name": "Wregoe KM-V a98-0", "coords": {"x": 0, "y": 0, "z": 0}}]`

func dumpServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "systems.json"), []byte(fetchDoc), 0o644))
	writeGzip(t, filepath.Join(dir, "systems.json.gz"), fetchDoc)

	srv := httptest.NewServer(http.FileServer(http.Dir(dir)))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch(t *testing.T) {
	srv := dumpServer(t)
	log := zaptest.NewLogger(t).Sugar()

	tests := []struct {
		name string
		src  string
		dst  string
	}{
		{"plain", "/systems.json", "plain.json"},
		{"decompressed", "/systems.json.gz", "unpacked.json"},
		{"kept compressed", "/systems.json.gz", "packed.json.gz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := filepath.Join(t.TempDir(), "data", tt.dst)
			require.NoError(t, Fetch(context.Background(), srv.URL+tt.src, dst, log))

			_, err := os.Stat(dst + ".part")
			assert.True(t, os.IsNotExist(err), "partial file is renamed away")

			l, _, _ := newTestLoader(t)
			res, err := l.LoadFile(context.Background(), SourceCatalogueA, dst)
			require.NoError(t, err)
			assert.Equal(t, 1, res.Loaded)
		})
	}
}

func TestFetchFailureKeepsExistingDump(t *testing.T) {
	srv := dumpServer(t)
	dst := filepath.Join(t.TempDir(), "systems.json")
	require.NoError(t, os.WriteFile(dst, []byte("[]"), 0o644))

	err := Fetch(context.Background(), srv.URL+"/missing.json", dst, nil)
	require.Error(t, err)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestKeepsCompression(t *testing.T) {
	assert.True(t, keepsCompression("a/systems.json.gz"))
	assert.True(t, keepsCompression("systems.JSON.ZST"))
	assert.False(t, keepsCompression("systems.json"))
	assert.False(t, keepsCompression("systems.csv"))
}
