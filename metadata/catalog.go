package metadata

import (
	"fmt"
)

// Catalog holds the loaded metadata tables for one or more countries, and
// derives the combined metric/release/geometry/publisher view that searches
// and data requests operate on.
type Catalog struct {
	Metrics            []Metric
	Geometries         []Geometry
	SourceDataReleases []SourceDataRelease
	DataPublishers     []DataPublisher
	Countries          []Country

	combined []CombinedRow
}

// Merge appends another catalogue's tables onto this one and invalidates
// the cached combined view.
func (c *Catalog) Merge(other *Catalog) {
	c.Metrics = append(c.Metrics, other.Metrics...)
	c.Geometries = append(c.Geometries, other.Geometries...)
	c.SourceDataReleases = append(c.SourceDataReleases, other.SourceDataReleases...)
	c.DataPublishers = append(c.DataPublishers, other.DataPublishers...)
	c.Countries = append(c.Countries, other.Countries...)
	c.combined = nil
}

// Combined returns the inner join of metrics with their source data release,
// geometry metadata and data publisher.  Metrics whose release, geometry or
// publisher is missing from the catalogue are dropped, matching inner-join
// semantics.  The result is cached.
func (c *Catalog) Combined() []CombinedRow {
	if c.combined != nil {
		return c.combined
	}

	releases := make(map[string]SourceDataRelease, len(c.SourceDataReleases))
	for _, r := range c.SourceDataReleases {
		releases[r.ID] = r
	}
	geometries := make(map[string]Geometry, len(c.Geometries))
	for _, g := range c.Geometries {
		geometries[g.ID] = g
	}
	publishers := make(map[string]DataPublisher, len(c.DataPublishers))
	for _, p := range c.DataPublishers {
		publishers[p.ID] = p
	}

	rows := make([]CombinedRow, 0, len(c.Metrics))
	for _, m := range c.Metrics {
		release, ok := releases[m.SourceDataReleaseID]
		if !ok {
			continue
		}
		geometry, ok := geometries[release.GeometryMetadataID]
		if !ok {
			continue
		}
		publisher, ok := publishers[release.DataPublisherID]
		if !ok {
			continue
		}

		rows = append(rows, CombinedRow{
			MetricID:          m.ID,
			HumanReadableName: m.HumanReadableName,
			SourceMetricID:    m.SourceMetricID,
			MetricDescription: m.Description,
			MetricHxlTag:      m.HxlTag,
			MetricParquetPath: m.MetricParquetPath,
			ParquetColumnName: m.ParquetColumnName,

			SourceDownloadURL:      m.SourceDownloadURL,
			SourceDocumentationURL: m.SourceDocumentationURL,

			ReleaseName:                  release.Name,
			ReleaseURL:                   release.URL,
			ReleaseDescription:           release.Description,
			ReleaseDatePublished:         release.DatePublished,
			ReleaseReferencePeriodStart:  release.ReferencePeriodStart,
			ReleaseReferencePeriodEnd:    release.ReferencePeriodEnd,
			ReleaseCollectionPeriodStart: release.CollectionPeriodStart,
			ReleaseCollectionPeriodEnd:   release.CollectionPeriodEnd,
			ReleaseExpectNextUpdate:      release.ExpectNextUpdate,

			GeometryLevel:               geometry.Level,
			GeometryHxlTag:              geometry.HxlTag,
			GeometryFilenameStem:        geometry.FilenameStem,
			GeometryValidityPeriodStart: geometry.ValidityPeriodStart,
			GeometryValidityPeriodEnd:   geometry.ValidityPeriodEnd,

			DataPublisherName:        publisher.Name,
			DataPublisherURL:         publisher.URL,
			DataPublisherDescription: publisher.Description,

			Country: m.Country,
		})
	}

	c.combined = rows
	return rows
}

// GeometryFile returns the filename stem of the geometry files for a
// geometry level.
func (c *Catalog) GeometryFile(level string) (string, error) {
	for _, g := range c.Geometries {
		if g.Level == level {
			return g.FilenameStem, nil
		}
	}
	return "", fmt.Errorf("metadata: no geometry found for level %q", level)
}

// GeometryLevels lists the distinct geometry levels in the catalogue.
func (c *Catalog) GeometryLevels() []string {
	seen := map[string]bool{}
	levels := []string{}
	for _, g := range c.Geometries {
		if !seen[g.Level] {
			seen[g.Level] = true
			levels = append(levels, g.Level)
		}
	}
	return levels
}
