package table

import (
	"bytes"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRow struct {
	GeoID string  `parquet:"GEO_ID"`
	Pop   int64   `parquet:"pop_total"`
	Share float64 `parquet:"pop_share"`
}

func testParquet(t *testing.T, rows []testRow) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, parquet.Write(&buf, rows))
	return bytes.NewReader(buf.Bytes())
}

func TestReadColumns(t *testing.T) {
	r := testParquet(t, []testRow{
		{GeoID: "BE100", Pop: 1000, Share: 0.25},
		{GeoID: "BE200", Pop: 2000, Share: 0.75},
	})

	tbl, err := ReadColumns(r, r.Size(), []string{"GEO_ID", "pop_share"})
	require.NoError(t, err)

	assert.Equal(t, []string{"GEO_ID", "pop_share"}, tbl.Names())
	assert.Equal(t, 2, tbl.Len())

	ids, ok := tbl.Column("GEO_ID")
	require.True(t, ok)
	assert.Equal(t, []any{"BE100", "BE200"}, ids)

	shares, ok := tbl.Column("pop_share")
	require.True(t, ok)
	assert.Equal(t, []any{0.25, 0.75}, shares)

	// the unrequested column stays out
	_, ok = tbl.Column("pop_total")
	assert.False(t, ok)
}

func TestReadColumnsIntsComeBackAsInt64(t *testing.T) {
	r := testParquet(t, []testRow{{GeoID: "BE100", Pop: 42}})

	tbl, err := ReadColumns(r, r.Size(), []string{"pop_total"})
	require.NoError(t, err)

	col, _ := tbl.Column("pop_total")
	assert.Equal(t, []any{int64(42)}, col)
}

func TestReadColumnsMissingColumn(t *testing.T) {
	r := testParquet(t, []testRow{{GeoID: "BE100"}})

	_, err := ReadColumns(r, r.Size(), []string{"GEO_ID", "nope"})
	assert.ErrorContains(t, err, `no column "nope"`)
}

func TestReadColumnsNotParquet(t *testing.T) {
	r := bytes.NewReader([]byte("definitely not parquet"))
	_, err := ReadColumns(r, r.Size(), []string{"GEO_ID"})
	assert.Error(t, err)
}
