// Package formatters renders assembled data tables as CSV or GeoJSON.
package formatters

import "fmt"

type Format int

const (
	CSV Format = iota
	GeoJSON
)

func ParseFormat(s string) (Format, error) {
	switch s {
	case "csv":
		return CSV, nil
	case "geojson":
		return GeoJSON, nil
	default:
		return 0, fmt.Errorf("formatters: unknown output format %q (want csv or geojson)", s)
	}
}

func (f Format) String() string {
	switch f {
	case CSV:
		return "csv"
	case GeoJSON:
		return "geojson"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}
