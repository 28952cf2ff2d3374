package formatters

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/table"
)

// WriteCSV writes the table with a header row, columns in table order.
func WriteCSV(w io.Writer, t *table.Table) error {
	out := csv.NewWriter(w)

	names := t.Names()
	if err := out.Write(names); err != nil {
		return fmt.Errorf("formatters: couldn't write CSV header: %w", err)
	}

	columns := make([][]any, len(names))
	for i, name := range names {
		col, ok := t.Column(name)
		if !ok {
			return fmt.Errorf("formatters: missing column %q", name)
		}
		columns[i] = col
	}

	record := make([]string, len(names))
	for row := 0; row < t.Len(); row++ {
		for i := range names {
			record[i] = table.CellString(columns[i][row])
		}
		if err := out.Write(record); err != nil {
			return fmt.Errorf("formatters: couldn't write CSV row: %w", err)
		}
	}

	out.Flush()
	if err := out.Error(); err != nil {
		return fmt.Errorf("formatters: couldn't flush CSV: %w", err)
	}
	return nil
}
