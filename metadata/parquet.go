package metadata

import (
	"bytes"
	"fmt"

	"github.com/parquet-go/parquet-go"
)

// decodeParquet deserialises a whole parquet file held in memory into typed
// rows.  The metadata files are small (hundreds of rows), so buffering them
// is fine.
func decodeParquet[T any](data []byte) ([]T, error) {
	rows, err := parquet.Read[T](bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("metadata: couldn't decode parquet: %w", err)
	}
	return rows, nil
}

// encodeParquet is the inverse, used to prime caches and test fixtures.
func encodeParquet[T any](rows []T) ([]byte, error) {
	var buf bytes.Buffer
	if err := parquet.Write[T](&buf, rows); err != nil {
		return nil, fmt.Errorf("metadata: couldn't encode parquet: %w", err)
	}
	return buf.Bytes(), nil
}
