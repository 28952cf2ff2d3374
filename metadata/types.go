package metadata

// These records mirror the columns of the published popgetter metadata
// parquet files.  Field tags must match the column names exactly, or the
// parquet decoder will silently leave them zero.

// Metric is one row of metric_metadata.parquet: a single published metric,
// e.g. "#population+adults+f" for one country, release and geometry level.
type Metric struct {
	ID                         string `parquet:"id"`
	HumanReadableName          string `parquet:"human_readable_name"`
	SourceMetricID             string `parquet:"source_metric_id"`
	Description                string `parquet:"description"`
	HxlTag                     string `parquet:"hxl_tag"`
	MetricParquetPath          string `parquet:"metric_parquet_path"`
	ParquetColumnName          string `parquet:"parquet_column_name"`
	ParquetMarginOfErrorColumn string `parquet:"parquet_margin_of_error_column,optional"`
	ParquetMarginOfErrorFile   string `parquet:"parquet_margin_of_error_file,optional"`
	PotentialDenominatorIDs    string `parquet:"potential_denominator_ids,optional"`
	ParentMetricID             string `parquet:"parent_metric_id,optional"`
	SourceDataReleaseID        string `parquet:"source_data_release_id"`
	SourceDownloadURL          string `parquet:"source_download_url"`
	SourceArchiveFilePath      string `parquet:"source_archive_file_path,optional"`
	SourceDocumentationURL     string `parquet:"source_documentation_url,optional"`

	// Which country's catalogue this row came from.  Not a column in the
	// published file; the loader fills it in.
	Country string `parquet:"-"`
}

// Geometry is one row of geometry_metadata.parquet: a geometry level (e.g.
// municipality, output area) and the file stem its boundary files live under.
type Geometry struct {
	ID                  string `parquet:"id"`
	ValidityPeriodStart string `parquet:"validity_period_start"`
	ValidityPeriodEnd   string `parquet:"validity_period_end,optional"`
	Level               string `parquet:"level"`
	HxlTag              string `parquet:"hxl_tag"`
	FilenameStem        string `parquet:"filename_stem"`
}

// SourceDataRelease is one row of source_data_releases.parquet, e.g. one
// census release by a national statistics office.
type SourceDataRelease struct {
	ID                    string `parquet:"id"`
	Name                  string `parquet:"name"`
	DatePublished         string `parquet:"date_published"`
	ReferencePeriodStart  string `parquet:"reference_period_start"`
	ReferencePeriodEnd    string `parquet:"reference_period_end"`
	CollectionPeriodStart string `parquet:"collection_period_start"`
	CollectionPeriodEnd   string `parquet:"collection_period_end"`
	ExpectNextUpdate      string `parquet:"expect_next_update,optional"`
	URL                   string `parquet:"url"`
	Description           string `parquet:"description,optional"`
	DataPublisherID       string `parquet:"data_publisher_id"`
	GeometryMetadataID    string `parquet:"geometry_metadata_id"`
}

// DataPublisher is one row of data_publishers.parquet.
type DataPublisher struct {
	ID          string `parquet:"id"`
	Name        string `parquet:"name"`
	URL         string `parquet:"url"`
	Description string `parquet:"description,optional"`
}

// Country is one row of country_metadata.parquet.
type Country struct {
	ID           string `parquet:"id"`
	NameShortEn  string `parquet:"name_short_en"`
	NameOfficial string `parquet:"name_official,optional"`
	ISO3         string `parquet:"iso3"`
	ISO2         string `parquet:"iso2"`
	ISO3166_2    string `parquet:"iso3166_2,optional"`
}

// CombinedRow is the flattened inner join of a metric with its source data
// release, geometry metadata and data publisher.  Fields that would clash
// across the joined tables carry their table prefix, mirroring the column
// renames the published catalogue documents.
type CombinedRow struct {
	MetricID          string
	HumanReadableName string
	SourceMetricID    string
	MetricDescription string
	MetricHxlTag      string
	MetricParquetPath string
	ParquetColumnName string

	SourceDownloadURL      string
	SourceDocumentationURL string

	ReleaseName                  string
	ReleaseURL                   string
	ReleaseDescription           string
	ReleaseDatePublished         string
	ReleaseReferencePeriodStart  string
	ReleaseReferencePeriodEnd    string
	ReleaseCollectionPeriodStart string
	ReleaseCollectionPeriodEnd   string
	ReleaseExpectNextUpdate      string

	GeometryLevel               string
	GeometryHxlTag              string
	GeometryFilenameStem        string
	GeometryValidityPeriodStart string
	GeometryValidityPeriodEnd   string

	DataPublisherName        string
	DataPublisherURL         string
	DataPublisherDescription string

	Country string
}
