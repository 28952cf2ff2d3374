package dataspec

import (
	"context"
	"fmt"

	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/geo"
	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/metadata"
	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/search"
	"github.com/rs/zerolog/log"
)

// Plan is a recipe resolved against the catalogue: the concrete rows to
// fetch data for, the geometry file covering them, and the bounding boxes
// to clip to.
type Plan struct {
	Metrics []metadata.CombinedRow

	GeometryLevel string
	// GeometryFile is the filename stem of the level's boundary files, empty
	// when the recipe doesn't want geometries.
	GeometryFile string
	IncludeGeoms bool

	BBoxes []geo.BBox
}

// Geocoder is the part of geo.Geocoder that resolution needs.
type Geocoder interface {
	BoundingBox(ctx context.Context, place string) (geo.BBox, error)
}

// Resolve expands the recipe's metric selectors, applies the year and
// geometry-level restrictions, and geocodes named places.
func Resolve(ctx context.Context, catalog *metadata.Catalog, spec *DataRequestSpec, geocoder Geocoder) (*Plan, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	ids, err := search.ExpandAll(catalog, spec.MetricIDs())
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("dataspec: no metrics in the catalogue match the recipe")
	}

	request := search.NewRequest()
	for _, year := range spec.Years {
		request = request.WithYear(year)
	}
	if spec.Geometry.Level != "" {
		request = request.WithGeometryLevel(spec.Geometry.Level)
	}

	// A search request ORs within one filter, so collect all expanded IDs of
	// one kind into a row predicate here instead.
	rows := []metadata.CombinedRow{}
	seen := map[string]bool{}
	for _, row := range request.Results(catalog) {
		for _, id := range ids {
			if !matchesID(id, row) {
				continue
			}
			if seen[row.MetricID] {
				continue
			}
			seen[row.MetricID] = true
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataspec: metric selection left no rows after year/geometry filters")
	}

	level := spec.Geometry.Level
	if level == "" {
		// No level requested: every selected metric must agree on one.
		for _, row := range rows {
			if level == "" {
				level = row.GeometryLevel
			} else if level != row.GeometryLevel {
				return nil, fmt.Errorf(
					"dataspec: selected metrics span geometry levels %q and %q, set geometry_level to pick one",
					level, row.GeometryLevel)
			}
		}
	}

	plan := &Plan{
		Metrics:       rows,
		GeometryLevel: level,
		IncludeGeoms:  spec.Geometry.IncludeGeoms,
	}

	// Boundaries are needed both for geometry output and for clipping
	// non-spatial output to a region.
	if spec.Geometry.IncludeGeoms || len(spec.Region) > 0 {
		stem, err := catalog.GeometryFile(level)
		if err != nil {
			return nil, err
		}
		plan.GeometryFile = stem + ".geojson"
	}

	for _, region := range spec.Region {
		if region.BBox != nil {
			plan.BBoxes = append(plan.BBoxes, *region.BBox)
			continue
		}
		if geocoder == nil {
			return nil, fmt.Errorf("dataspec: recipe names place %q but no geocoder is configured", region.Place)
		}
		box, err := geocoder.BoundingBox(ctx, region.Place)
		if err != nil {
			return nil, err
		}
		plan.BBoxes = append(plan.BBoxes, box)
	}

	log.Info().
		Int("metrics", len(plan.Metrics)).
		Str("geometry_level", plan.GeometryLevel).
		Int("bboxes", len(plan.BBoxes)).
		Msg("resolved data request")

	return plan, nil
}

func matchesID(id search.MetricID, row metadata.CombinedRow) bool {
	switch id.Kind {
	case search.KindHxl:
		return row.MetricHxlTag == id.Value
	case search.KindID:
		return row.MetricID == id.Value
	default:
		return row.HumanReadableName == id.Value
	}
}

// DataFiles lists the distinct remote files the plan needs, metric parquet
// first, then the geometry file if any.
func (p *Plan) DataFiles() []string {
	seen := map[string]bool{}
	files := []string{}
	for _, row := range p.Metrics {
		if row.MetricParquetPath == "" || seen[row.MetricParquetPath] {
			continue
		}
		seen[row.MetricParquetPath] = true
		files = append(files, row.MetricParquetPath)
	}
	if p.GeometryFile != "" {
		files = append(files, p.GeometryFile)
	}
	return files
}
