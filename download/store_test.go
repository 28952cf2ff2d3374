package download

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()

	store, err := OpenStore(dir)
	require.NoError(t, err)

	assert.False(t, store.Has("be/data/f1.parquet"))

	require.NoError(t, store.Write("be/data/f1.parquet", "https://example.com/f1", []byte("payload")))
	assert.True(t, store.Has("be/data/f1.parquet"))

	data, err := store.ReadFile("be/data/f1.parquet")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	require.NoError(t, store.WriteManifest())

	// a fresh open picks the manifest back up
	reopened, err := OpenStore(dir)
	require.NoError(t, err)
	entry, ok := reopened.manifest["be/data/f1.parquet"]
	require.True(t, ok)
	assert.Equal(t, "https://example.com/f1", entry.URL)
	assert.Equal(t, 7, entry.Bytes)
	assert.False(t, entry.FetchedAt.IsZero())
}

func TestOpenStoreErrors(t *testing.T) {
	_, err := OpenStore("")
	assert.Error(t, err)
}

func TestReadFileMissing(t *testing.T) {
	store, err := OpenStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.ReadFile("not/there.parquet")
	assert.Error(t, err)
}
