package table

import (
	"errors"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"
)

// ReadColumns reads the named columns out of a parquet file.  The published
// data files have flat schemas, so leaf column indices line up with the
// top-level fields.
func ReadColumns(r io.ReaderAt, size int64, want []string) (*Table, error) {
	f, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("table: couldn't open parquet file: %w", err)
	}

	fields := f.Schema().Fields()
	byIndex := make([]string, len(fields))
	available := map[string]bool{}
	for i, field := range fields {
		byIndex[i] = field.Name()
		available[field.Name()] = true
	}

	wanted := map[string]bool{}
	for _, name := range want {
		if !available[name] {
			return nil, fmt.Errorf("table: file has no column %q", name)
		}
		wanted[name] = true
	}

	values := map[string][]any{}
	for _, rowGroup := range f.RowGroups() {
		if err := readRowGroup(rowGroup, byIndex, wanted, values); err != nil {
			return nil, err
		}
	}

	t := New()
	for _, name := range want {
		if err := t.AddColumn(name, values[name]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func readRowGroup(rowGroup parquet.RowGroup, byIndex []string, wanted map[string]bool, values map[string][]any) error {
	rows := rowGroup.Rows()
	defer rows.Close()

	buf := make([]parquet.Row, 64)
	for {
		n, err := rows.ReadRows(buf)
		for _, row := range buf[:n] {
			for _, v := range row {
				name := byIndex[v.Column()]
				if !wanted[name] {
					continue
				}
				values[name] = append(values[name], goValue(v))
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("table: couldn't read rows: %w", err)
		}
	}
}

func goValue(v parquet.Value) any {
	if v.IsNull() {
		return nil
	}
	switch v.Kind() {
	case parquet.Boolean:
		return v.Boolean()
	case parquet.Int32:
		return int64(v.Int32())
	case parquet.Int64:
		return v.Int64()
	case parquet.Float:
		return float64(v.Float())
	case parquet.Double:
		return v.Double()
	default:
		return v.String()
	}
}
