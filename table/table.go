// Package table is a minimal columnar view over the published parquet data
// files.  Metric files name their value columns per metric, so rows can't be
// decoded into a fixed struct; we pull out the requested columns by name
// instead.
package table

import (
	"fmt"
	"strconv"
)

// Table is an ordered set of named, equal-length columns.
type Table struct {
	names []string
	cols  map[string][]any
}

func New() *Table {
	return &Table{cols: map[string][]any{}}
}

func (t *Table) AddColumn(name string, values []any) error {
	if _, ok := t.cols[name]; ok {
		return fmt.Errorf("table: duplicate column %q", name)
	}
	if len(t.names) > 0 && len(values) != t.Len() {
		return fmt.Errorf("table: column %q has %d values, want %d", name, len(values), t.Len())
	}
	t.names = append(t.names, name)
	t.cols[name] = values
	return nil
}

func (t *Table) Names() []string {
	return t.names
}

func (t *Table) Len() int {
	if len(t.names) == 0 {
		return 0
	}
	return len(t.cols[t.names[0]])
}

func (t *Table) Column(name string) ([]any, bool) {
	c, ok := t.cols[name]
	return c, ok
}

// Strings returns a column with every cell formatted.
func (t *Table) Strings(name string) ([]string, error) {
	col, ok := t.cols[name]
	if !ok {
		return nil, fmt.Errorf("table: no column %q", name)
	}
	out := make([]string, len(col))
	for i, v := range col {
		out[i] = CellString(v)
	}
	return out, nil
}

// FilterRows returns a new table keeping only rows for which keep is true.
func (t *Table) FilterRows(keep func(row int) bool) *Table {
	out := New()
	for _, name := range t.names {
		col := t.cols[name]
		kept := []any{}
		for i, v := range col {
			if keep(i) {
				kept = append(kept, v)
			}
		}
		// lengths stay consistent, error can't happen
		_ = out.AddColumn(name, kept)
	}
	return out
}

// CellString formats a single cell for text output.
func CellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
