package formatters

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/geo"
	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/metadata"
	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/table"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// WriteGeoJSON merges the table's metric columns into the properties of the
// geometry features, keyed on the GEO_ID property, optionally clipped to
// bounding boxes.  Features without a table row, and rows without a
// feature, are dropped.
func WriteGeoJSON(w io.Writer, geometryData []byte, t *table.Table, bboxes []geo.BBox) error {
	fc, err := geojson.UnmarshalFeatureCollection(geometryData)
	if err != nil {
		return fmt.Errorf("formatters: couldn't parse geometry file: %w", err)
	}

	geoIDs, err := t.Strings(metadata.ColGeoID)
	if err != nil {
		return fmt.Errorf("formatters: table has no %s column: %w", metadata.ColGeoID, err)
	}
	rowIndex := make(map[string]int, len(geoIDs))
	for i, id := range geoIDs {
		rowIndex[id] = i
	}

	metricNames := []string{}
	for _, name := range t.Names() {
		if name != metadata.ColGeoID {
			metricNames = append(metricNames, name)
		}
	}

	out := geojson.NewFeatureCollection()
	for _, feature := range fc.Features {
		id, ok := featureGeoID(feature)
		if !ok {
			continue
		}
		row, ok := rowIndex[id]
		if !ok {
			continue
		}
		if len(bboxes) > 0 && !intersectsAny(feature.Geometry.Bound(), bboxes) {
			continue
		}

		for _, name := range metricNames {
			col, _ := t.Column(name)
			feature.Properties[name] = col[row]
		}
		out.Append(feature)
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("formatters: couldn't encode GeoJSON: %w", err)
	}
	return nil
}

// GeoIDsWithin reads a geometry file and returns the GEO_IDs of features
// intersecting any of the boxes.  Used to clip non-spatial outputs.
func GeoIDsWithin(geometryData []byte, bboxes []geo.BBox) (map[string]bool, error) {
	fc, err := geojson.UnmarshalFeatureCollection(geometryData)
	if err != nil {
		return nil, fmt.Errorf("formatters: couldn't parse geometry file: %w", err)
	}

	ids := map[string]bool{}
	for _, feature := range fc.Features {
		id, ok := featureGeoID(feature)
		if !ok {
			continue
		}
		if intersectsAny(feature.Geometry.Bound(), bboxes) {
			ids[id] = true
		}
	}
	return ids, nil
}

func featureGeoID(feature *geojson.Feature) (string, bool) {
	v, ok := feature.Properties[metadata.ColGeoID]
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func intersectsAny(bound orb.Bound, bboxes []geo.BBox) bool {
	fb := geo.BBox{
		MinX: bound.Min[0],
		MinY: bound.Min[1],
		MaxX: bound.Max[0],
		MaxY: bound.Max[1],
	}
	for _, b := range bboxes {
		if b.Intersects(fb) {
			return true
		}
	}
	return false
}
