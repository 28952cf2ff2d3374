package metadata

// Column names of the combined catalogue view, as they appear when the
// joined metadata is exported.  Handy when driving searches or output
// column selection by name.
const (
	ColMetricID          = "metric_id"
	ColHumanReadableName = "human_readable_name"
	ColSourceMetricID    = "source_metric_id"
	ColMetricDescription = "metric_description"
	ColMetricHxlTag      = "metric_hxl_tag"
	ColMetricParquetPath = "metric_parquet_path"
	ColParquetColumnName = "parquet_column_name"

	ColGeometryLevel        = "geometry_level"
	ColGeometryFilenameStem = "geometry_filename_stem"

	ColReleaseName                 = "release_name"
	ColReleaseReferencePeriodStart = "release_reference_period_start"

	ColDataPublisherName = "data_publisher_name"

	ColCountryNameShortEn = "country_name_short_en"

	// ColGeoID is the join key present in every metric parquet file and in
	// the properties of every published geometry feature.
	ColGeoID = "GEO_ID"
)
