package dataspec

import (
	"context"
	"testing"

	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/geo"
	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCatalog has three municipality metrics spread over two data files,
// plus one at output-area level to trip the level check.
func testCatalog() *metadata.Catalog {
	return &metadata.Catalog{
		Metrics: []metadata.Metric{
			{
				ID: "m1", HxlTag: "#population+children", HumanReadableName: "Children",
				MetricParquetPath: "be/data/f1.parquet", ParquetColumnName: "children",
				SourceDataReleaseID: "r1", Country: "be",
			},
			{
				ID: "m2", HxlTag: "#population+adults", HumanReadableName: "Adults",
				MetricParquetPath: "be/data/f1.parquet", ParquetColumnName: "adults",
				SourceDataReleaseID: "r1", Country: "be",
			},
			{
				ID: "m3", HxlTag: "#population+ind", HumanReadableName: "Total population",
				MetricParquetPath: "be/data/f2.parquet", ParquetColumnName: "total",
				SourceDataReleaseID: "r1", Country: "be",
			},
			{
				ID: "m4", HxlTag: "#population+oa", HumanReadableName: "Population (output area)",
				MetricParquetPath: "be/data/f3.parquet", ParquetColumnName: "total",
				SourceDataReleaseID: "r2", Country: "be",
			},
		},
		Geometries: []metadata.Geometry{
			{ID: "g1", Level: "municipality", FilenameStem: "geoms/municipality"},
			{ID: "g2", Level: "output_area", FilenameStem: "geoms/output_area"},
		},
		SourceDataReleases: []metadata.SourceDataRelease{
			{ID: "r1", Name: "Census2021", ReferencePeriodStart: "2021-01-01", DataPublisherID: "p1", GeometryMetadataID: "g1"},
			{ID: "r2", Name: "Census2021", ReferencePeriodStart: "2021-01-01", DataPublisherID: "p1", GeometryMetadataID: "g2"},
		},
		DataPublishers: []metadata.DataPublisher{
			{ID: "p1", Name: "Statbel"},
		},
	}
}

type fakeGeocoder struct {
	box geo.BBox
	err error
}

func (f fakeGeocoder) BoundingBox(ctx context.Context, place string) (geo.BBox, error) {
	return f.box, f.err
}

func TestResolve(t *testing.T) {
	spec := &DataRequestSpec{
		Metrics:  []MetricSpec{{Hxl: "population-*"}},
		Years:    []string{"2021"},
		Geometry: GeometrySpec{Level: "municipality"},
	}

	plan, err := Resolve(context.Background(), testCatalog(), spec, nil)
	require.NoError(t, err)

	require.Len(t, plan.Metrics, 3, "output-area metric filtered out by level")
	assert.Equal(t, "municipality", plan.GeometryLevel)
	assert.Empty(t, plan.GeometryFile, "no geometries requested, no region to clip")
	assert.Equal(t, []string{"be/data/f1.parquet", "be/data/f2.parquet"}, plan.DataFiles())
}

func TestResolveLevelMismatch(t *testing.T) {
	spec := &DataRequestSpec{
		Metrics: []MetricSpec{{Hxl: "population-*"}},
	}

	_, err := Resolve(context.Background(), testCatalog(), spec, nil)
	assert.ErrorContains(t, err, "span geometry levels")
}

func TestResolveInfersAgreedLevel(t *testing.T) {
	spec := &DataRequestSpec{
		Metrics: []MetricSpec{{ID: "m1"}, {ID: "m2"}},
	}

	plan, err := Resolve(context.Background(), testCatalog(), spec, nil)
	require.NoError(t, err)
	assert.Equal(t, "municipality", plan.GeometryLevel)
}

func TestResolveIncludeGeoms(t *testing.T) {
	spec := &DataRequestSpec{
		Metrics:  []MetricSpec{{ID: "m1"}},
		Geometry: GeometrySpec{Level: "municipality", IncludeGeoms: true},
	}

	plan, err := Resolve(context.Background(), testCatalog(), spec, nil)
	require.NoError(t, err)
	assert.Equal(t, "geoms/municipality.geojson", plan.GeometryFile)
	assert.Equal(t, []string{"be/data/f1.parquet", "geoms/municipality.geojson"}, plan.DataFiles())
}

func TestResolveRegion(t *testing.T) {
	brussels := geo.BBox{MinX: 4.22, MinY: 50.76, MaxX: 4.48, MaxY: 50.92}
	spec := &DataRequestSpec{
		Metrics: []MetricSpec{{ID: "m1"}},
		Region: []RegionSpec{
			{BBox: &geo.BBox{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}},
			{Place: "Brussels"},
		},
		Geometry: GeometrySpec{Level: "municipality"},
	}

	plan, err := Resolve(context.Background(), testCatalog(), spec, fakeGeocoder{box: brussels})
	require.NoError(t, err)

	require.Len(t, plan.BBoxes, 2)
	assert.Equal(t, brussels, plan.BBoxes[1])
	assert.Equal(t, "geoms/municipality.geojson", plan.GeometryFile, "clipping needs the boundaries")
}

func TestResolveRegionWithoutGeocoder(t *testing.T) {
	spec := &DataRequestSpec{
		Metrics:  []MetricSpec{{ID: "m1"}},
		Region:   []RegionSpec{{Place: "Brussels"}},
		Geometry: GeometrySpec{Level: "municipality"},
	}

	_, err := Resolve(context.Background(), testCatalog(), spec, nil)
	assert.ErrorContains(t, err, "no geocoder")
}

func TestResolveNoMatches(t *testing.T) {
	spec := &DataRequestSpec{
		Metrics: []MetricSpec{{Hxl: "#does-not-exist"}},
	}

	_, err := Resolve(context.Background(), testCatalog(), spec, nil)
	assert.Error(t, err)
}
