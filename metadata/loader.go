package metadata

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Loader fetches per-country metadata catalogues.  If CachePath is set,
// fetched files are kept on disk and reused until Refresh is requested.
type Loader struct {
	API   *API
	Paths CountryPaths

	CachePath string
	Refresh   bool
}

func NewLoader(api *API) *Loader {
	return &Loader{
		API:   api,
		Paths: DefaultCountryPaths(),
	}
}

// Load fetches the five metadata files for one country concurrently and
// assembles them into a Catalog.
func (l *Loader) Load(ctx context.Context, country string) (*Catalog, error) {
	if country == "" {
		return nil, fmt.Errorf("metadata: country must not be empty")
	}

	log.Info().Str("country", country).Msg("loading metadata catalogue")

	catalog := &Catalog{}
	grp, gctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		data, err := l.fetch(gctx, path.Join(country, l.Paths.Metrics))
		if err != nil {
			return err
		}
		metrics, err := decodeParquet[Metric](data)
		if err != nil {
			return fmt.Errorf("metadata(%s): metrics: %w", country, err)
		}
		for i := range metrics {
			metrics[i].Country = country
		}
		catalog.Metrics = metrics
		return nil
	})

	grp.Go(func() error {
		data, err := l.fetch(gctx, path.Join(country, l.Paths.Geometry))
		if err != nil {
			return err
		}
		geometries, err := decodeParquet[Geometry](data)
		if err != nil {
			return fmt.Errorf("metadata(%s): geometries: %w", country, err)
		}
		catalog.Geometries = geometries
		return nil
	})

	grp.Go(func() error {
		data, err := l.fetch(gctx, path.Join(country, l.Paths.SourceData))
		if err != nil {
			return err
		}
		releases, err := decodeParquet[SourceDataRelease](data)
		if err != nil {
			return fmt.Errorf("metadata(%s): source data releases: %w", country, err)
		}
		catalog.SourceDataReleases = releases
		return nil
	})

	grp.Go(func() error {
		data, err := l.fetch(gctx, path.Join(country, l.Paths.DataPublishers))
		if err != nil {
			return err
		}
		publishers, err := decodeParquet[DataPublisher](data)
		if err != nil {
			return fmt.Errorf("metadata(%s): data publishers: %w", country, err)
		}
		catalog.DataPublishers = publishers
		return nil
	})

	grp.Go(func() error {
		data, err := l.fetch(gctx, path.Join(country, l.Paths.Country))
		if err != nil {
			return err
		}
		countries, err := decodeParquet[Country](data)
		if err != nil {
			return fmt.Errorf("metadata(%s): country info: %w", country, err)
		}
		catalog.Countries = countries
		return nil
	})

	if err := grp.Wait(); err != nil {
		return nil, err
	}

	return catalog, nil
}

// LoadAll discovers the published countries and merges their catalogues
// into one.
func (l *Loader) LoadAll(ctx context.Context) (*Catalog, error) {
	countries, err := l.API.FetchCountries(ctx)
	if err != nil {
		return nil, err
	}

	catalogs := make([]*Catalog, len(countries))
	grp, gctx := errgroup.WithContext(ctx)
	for i, country := range countries {
		i, country := i, country
		grp.Go(func() error {
			c, err := l.Load(gctx, country)
			if err != nil {
				return err
			}
			catalogs[i] = c
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	merged := &Catalog{}
	for _, c := range catalogs {
		merged.Merge(c)
	}

	log.Info().
		Int("metrics", len(merged.Metrics)).
		Int("geometries", len(merged.Geometries)).
		Int("releases", len(merged.SourceDataReleases)).
		Int("publishers", len(merged.DataPublishers)).
		Int("countries", len(merged.Countries)).
		Msg("merged metadata catalogues")

	return merged, nil
}

// LoadCountries fetches only the country info tables, for listing without
// pulling down the whole catalogue.
func (l *Loader) LoadCountries(ctx context.Context) ([]Country, error) {
	names, err := l.API.FetchCountries(ctx)
	if err != nil {
		return nil, err
	}

	all := make([][]Country, len(names))
	grp, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		grp.Go(func() error {
			data, err := l.fetch(gctx, path.Join(name, l.Paths.Country))
			if err != nil {
				return err
			}
			countries, err := decodeParquet[Country](data)
			if err != nil {
				return fmt.Errorf("metadata(%s): country info: %w", name, err)
			}
			all[i] = countries
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	countries := []Country{}
	for _, c := range all {
		countries = append(countries, c...)
	}
	return countries, nil
}

// fetch reads a published file, going via the on-disk cache when one is
// configured.
func (l *Loader) fetch(ctx context.Context, relpath string) ([]byte, error) {
	if l.CachePath == "" {
		return l.API.FetchFile(ctx, relpath)
	}

	cached := filepath.Join(l.CachePath, filepath.FromSlash(relpath))
	if !l.Refresh {
		data, err := os.ReadFile(cached)
		if err == nil {
			log.Debug().Str("file", cached).Msg("using cached metadata")
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("metadata: couldn't read cache file %s: %w", cached, err)
		}
	}

	data, err := l.API.FetchFile(ctx, relpath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cached), 0750); err != nil {
		return nil, fmt.Errorf("metadata: couldn't create cache directory: %w", err)
	}
	if err := os.WriteFile(cached, data, 0644); err != nil {
		return nil, fmt.Errorf("metadata: couldn't write cache file %s: %w", cached, err)
	}

	return data, nil
}
