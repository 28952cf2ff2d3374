package dataspec

import (
	"bytes"
	"fmt"

	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/metadata"
	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/table"
	"github.com/rs/zerolog/log"
)

// FileStore reads previously downloaded files by their release-relative
// path.
type FileStore interface {
	ReadFile(relpath string) ([]byte, error)
}

// Assemble joins the plan's downloaded metric files on GEO_ID into one
// output table: a GEO_ID column plus one column per selected metric, named
// by metric ID.
func Assemble(store FileStore, plan *Plan) (*table.Table, error) {
	type fileSelection struct {
		path    string
		metrics []metadata.CombinedRow
	}

	// group metrics by the file that holds them, keeping plan order
	byPath := map[string]int{}
	selections := []*fileSelection{}
	for _, row := range plan.Metrics {
		if row.MetricParquetPath == "" {
			return nil, fmt.Errorf("dataspec: metric %s has no data file", row.MetricID)
		}
		i, ok := byPath[row.MetricParquetPath]
		if !ok {
			i = len(selections)
			byPath[row.MetricParquetPath] = i
			selections = append(selections, &fileSelection{path: row.MetricParquetPath})
		}
		selections[i].metrics = append(selections[i].metrics, row)
	}

	var geoIDs []string
	rowIndex := map[string]int{}
	columns := map[string][]any{}

	for _, sel := range selections {
		data, err := store.ReadFile(sel.path)
		if err != nil {
			return nil, fmt.Errorf("dataspec: couldn't read downloaded file %s: %w", sel.path, err)
		}

		want := []string{metadata.ColGeoID}
		for _, m := range sel.metrics {
			want = append(want, m.ParquetColumnName)
		}

		t, err := table.ReadColumns(bytes.NewReader(data), int64(len(data)), want)
		if err != nil {
			return nil, fmt.Errorf("dataspec: %s: %w", sel.path, err)
		}

		ids, err := t.Strings(metadata.ColGeoID)
		if err != nil {
			return nil, fmt.Errorf("dataspec: %s: %w", sel.path, err)
		}

		// first file defines the row order; later files join onto it
		if geoIDs == nil {
			geoIDs = ids
			for i, id := range ids {
				rowIndex[id] = i
			}
		}

		for _, m := range sel.metrics {
			values, _ := t.Column(m.ParquetColumnName)
			joined := make([]any, len(geoIDs))
			for i, id := range ids {
				at, ok := rowIndex[id]
				if !ok {
					log.Debug().Str("geo_id", id).Str("file", sel.path).Msg("geo id not in first metric file, dropping")
					continue
				}
				joined[at] = values[i]
			}
			columns[m.MetricID] = joined
		}
	}

	out := table.New()
	ids := make([]any, len(geoIDs))
	for i, id := range geoIDs {
		ids[i] = id
	}
	if err := out.AddColumn(metadata.ColGeoID, ids); err != nil {
		return nil, err
	}
	for _, row := range plan.Metrics {
		if err := out.AddColumn(row.MetricID, columns[row.MetricID]); err != nil {
			return nil, err
		}
	}

	return out, nil
}
