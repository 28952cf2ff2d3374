package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDownloader(t *testing.T, handler http.HandlerFunc) *Downloader {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	api, err := metadata.NewAPI(server.URL)
	require.NoError(t, err)

	store, err := OpenStore(t.TempDir())
	require.NoError(t, err)

	return &Downloader{Store: store, API: api, Workers: 2}
}

func TestFetch(t *testing.T) {
	var requests int64
	d := testDownloader(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.Write([]byte("content of " + r.URL.Path))
	})

	files := []string{"be/data/f1.parquet", "be/data/f2.parquet", "geoms/municipality.geojson"}
	require.NoError(t, d.Fetch(context.Background(), files))
	assert.EqualValues(t, 3, atomic.LoadInt64(&requests))

	for _, f := range files {
		assert.True(t, d.Store.Has(f), f)
	}

	data, err := d.Store.ReadFile("be/data/f1.parquet")
	require.NoError(t, err)
	assert.Equal(t, "content of /be/data/f1.parquet", string(data))

	// a second fetch finds everything in the store
	require.NoError(t, d.Fetch(context.Background(), files))
	assert.EqualValues(t, 3, atomic.LoadInt64(&requests))

	// unless forced
	d.AlwaysDownload = true
	require.NoError(t, d.Fetch(context.Background(), files))
	assert.EqualValues(t, 6, atomic.LoadInt64(&requests))
}

func TestFetchDeduplicates(t *testing.T) {
	var requests int64
	d := testDownloader(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.Write([]byte("x"))
	})

	err := d.Fetch(context.Background(), []string{"a.parquet", "a.parquet", "a.parquet"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt64(&requests))
}

func TestFetchNothing(t *testing.T) {
	d := testDownloader(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	assert.NoError(t, d.Fetch(context.Background(), nil))
}

func TestFetchEmptyPath(t *testing.T) {
	d := testDownloader(t, func(w http.ResponseWriter, r *http.Request) {})
	assert.Error(t, d.Fetch(context.Background(), []string{""}))
}

func TestFetchGivesUpAfterRetries(t *testing.T) {
	var requests int64
	d := testDownloader(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		http.Error(w, "nope", http.StatusInternalServerError)
	})

	err := d.Fetch(context.Background(), []string{"a.parquet"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "retries exceeded")
	assert.EqualValues(t, 1+maxRetries, atomic.LoadInt64(&requests))
}
