package formatters

import (
	"bytes"
	"testing"

	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	tbl := table.New()
	require.NoError(t, tbl.AddColumn("GEO_ID", []any{"BE100", "BE200"}))
	require.NoError(t, tbl.AddColumn("m1", []any{int64(10), int64(20)}))
	require.NoError(t, tbl.AddColumn("m2", []any{0.5, nil}))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))

	assert.Equal(t, "GEO_ID,m1,m2\nBE100,10,0.5\nBE200,20,\n", buf.String())
}

func TestWriteCSVEmptyTable(t *testing.T) {
	tbl := table.New()
	require.NoError(t, tbl.AddColumn("GEO_ID", []any{}))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))
	assert.Equal(t, "GEO_ID\n", buf.String())
}
