package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *Catalog {
	return &Catalog{
		Metrics: []Metric{
			{
				ID:                  "m1",
				HumanReadableName:   "Total population",
				HxlTag:              "#population+ind",
				Description:         "Everyone",
				MetricParquetPath:   "be/data/pop.parquet",
				ParquetColumnName:   "total",
				SourceDataReleaseID: "r1",
				Country:             "be",
			},
			{
				ID:                  "m2",
				HumanReadableName:   "Orphaned metric",
				HxlTag:              "#population+orphan",
				SourceDataReleaseID: "missing",
				Country:             "be",
			},
		},
		Geometries: []Geometry{
			{ID: "g1", Level: "municipality", HxlTag: "#geo+municipality", FilenameStem: "geoms/municipality_2021"},
			{ID: "g2", Level: "statistical_sector", FilenameStem: "geoms/sector_2021"},
		},
		SourceDataReleases: []SourceDataRelease{
			{
				ID:                   "r1",
				Name:                 "Census2021",
				ReferencePeriodStart: "2021-01-01",
				ReferencePeriodEnd:   "2021-12-31",
				URL:                  "https://statbel.fgov.be",
				DataPublisherID:      "p1",
				GeometryMetadataID:   "g1",
			},
		},
		DataPublishers: []DataPublisher{
			{ID: "p1", Name: "Statbel", URL: "https://statbel.fgov.be"},
		},
		Countries: []Country{
			{ID: "be", NameShortEn: "Belgium", ISO3: "BEL", ISO2: "BE"},
		},
	}
}

func TestCombinedJoinsAllTables(t *testing.T) {
	catalog := testCatalog()
	rows := catalog.Combined()

	// m2's release is missing, inner join drops it
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "m1", row.MetricID)
	assert.Equal(t, "Total population", row.HumanReadableName)
	assert.Equal(t, "#population+ind", row.MetricHxlTag)
	assert.Equal(t, "Census2021", row.ReleaseName)
	assert.Equal(t, "2021-01-01", row.ReleaseReferencePeriodStart)
	assert.Equal(t, "municipality", row.GeometryLevel)
	assert.Equal(t, "geoms/municipality_2021", row.GeometryFilenameStem)
	assert.Equal(t, "Statbel", row.DataPublisherName)
	assert.Equal(t, "be", row.Country)
}

func TestCombinedIsCachedAndInvalidatedByMerge(t *testing.T) {
	catalog := testCatalog()
	first := catalog.Combined()
	require.Len(t, first, 1)

	other := testCatalog()
	other.Metrics[1].SourceDataReleaseID = "r1"
	catalog.Merge(other)

	rows := catalog.Combined()
	// m1 twice plus the repaired m2
	assert.Len(t, rows, 3)
}

func TestGeometryFile(t *testing.T) {
	catalog := testCatalog()

	stem, err := catalog.GeometryFile("statistical_sector")
	require.NoError(t, err)
	assert.Equal(t, "geoms/sector_2021", stem)

	_, err = catalog.GeometryFile("galaxy")
	assert.Error(t, err)
}

func TestGeometryLevels(t *testing.T) {
	catalog := testCatalog()
	assert.Equal(t, []string{"municipality", "statistical_sector"}, catalog.GeometryLevels())
}
