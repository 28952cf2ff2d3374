package metadata

// CountryPaths holds the filenames of the per-country metadata parquet
// files.  DefaultCountryPaths gives the published layout; override it if a
// mirror names things differently.
type CountryPaths struct {
	Metrics        string
	Geometry       string
	Country        string
	SourceData     string
	DataPublishers string
}

func DefaultCountryPaths() CountryPaths {
	return CountryPaths{
		Metrics:        "metric_metadata.parquet",
		Geometry:       "geometry_metadata.parquet",
		Country:        "country_metadata.parquet",
		SourceData:     "source_data_releases.parquet",
		DataPublishers: "data_publishers.parquet",
	}
}
