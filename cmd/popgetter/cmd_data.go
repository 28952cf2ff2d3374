package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/dataspec"
	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/download"
	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/formatters"
	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/geo"
	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/metadata"
	"github.com/spf13/cobra"
)

var dataUsage = strings.TrimSpace(`
Download the data for a set of metrics.  Metrics are selected by --id,
--hxl or --name; values may be regular expressions and expand against the
catalogue.  For example:

  popgetter data --hxl '#population' --geometry-level municipality --area Brussels -o pop.csv
  popgetter data --id 21243b2e --format geojson -o pop.geojson
`)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Download data for selected metrics",
	Long:  dataUsage,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		spec, err := specFromFlags()
		if err != nil {
			return err
		}
		return runDataRequest(ctx, spec)
	},
}

var (
	dataIDs    []string
	dataHxl    []string
	dataNames  []string
	dataLevel  string
	dataYears  []string
	dataBBoxes []string
	dataAreas  []string

	outputPath   string
	outputFormat string
	forceFetch   bool
)

func init() {
	rootCmd.AddCommand(dataCmd)

	dataCmd.Flags().StringSliceVar(&dataIDs, "id", nil, "select metrics by internal ID")
	dataCmd.Flags().StringSliceVar(&dataHxl, "hxl", nil, "select metrics by HXL tag")
	dataCmd.Flags().StringSliceVar(&dataNames, "name", nil, "select metrics by human readable name")
	dataCmd.Flags().StringVar(&dataLevel, "geometry-level", "", "geometry level of the output")
	dataCmd.Flags().StringSliceVar(&dataYears, "years", nil, "restrict to release reference years")
	dataCmd.Flags().StringSliceVar(&dataBBoxes, "bbox", nil, "clip output to bounding box minx,miny,maxx,maxy")
	dataCmd.Flags().StringSliceVar(&dataAreas, "area", nil, "clip output to a named place (geocoded)")
	dataCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write output here instead of stdout")
	dataCmd.Flags().StringVar(&outputFormat, "format", "csv", "output format: csv or geojson")
	dataCmd.Flags().BoolVarP(&forceFetch, "force", "f", false, "always download data files, skipping the local store")
	dataCmd.Flags().BoolVar(&WithVCR, "with-vcr", false, "use go-vcr to cache responses")
	dataCmd.Flags().BoolVar(&Refresh, "refresh", false, "refetch metadata even if cached")
}

func specFromFlags() (*dataspec.DataRequestSpec, error) {
	spec := &dataspec.DataRequestSpec{
		Years: dataYears,
		Geometry: dataspec.GeometrySpec{
			Level:        dataLevel,
			IncludeGeoms: outputFormat == "geojson",
		},
	}

	for _, id := range dataIDs {
		spec.Metrics = append(spec.Metrics, dataspec.MetricSpec{ID: id})
	}
	for _, hxl := range dataHxl {
		spec.Metrics = append(spec.Metrics, dataspec.MetricSpec{Hxl: hxl})
	}
	for _, name := range dataNames {
		spec.Metrics = append(spec.Metrics, dataspec.MetricSpec{Name: name})
	}

	for _, raw := range dataBBoxes {
		box, err := geo.ParseBBox(raw)
		if err != nil {
			return nil, err
		}
		b := box
		spec.Region = append(spec.Region, dataspec.RegionSpec{BBox: &b})
	}
	for _, area := range dataAreas {
		spec.Region = append(spec.Region, dataspec.RegionSpec{Place: area})
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// runDataRequest is the shared pipeline behind `data` and `recipe`: load the
// catalogue, resolve the request, download what's missing, assemble and
// format the output.
func runDataRequest(ctx context.Context, spec *dataspec.DataRequestSpec) error {
	format, err := formatters.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	if format == formatters.GeoJSON {
		// GeoJSON output always needs the boundaries, whatever the recipe says
		spec.Geometry.IncludeGeoms = true
	}

	api, rec, err := newAPI(WithVCR)
	if err != nil {
		return err
	}
	if rec != nil {
		defer rec.Stop() // Make sure recorder is stopped once done with it
	}

	loader, err := newLoader(api, Refresh)
	if err != nil {
		return err
	}
	catalog, err := loader.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("data: couldn't load metadata: %w", err)
	}

	geocoder, err := geo.NewGeocoder(GeocoderURL)
	if err != nil {
		return err
	}

	plan, err := dataspec.Resolve(ctx, catalog, spec, geocoder)
	if err != nil {
		return err
	}

	storePath, err := dataDir()
	if err != nil {
		return err
	}
	store, err := download.OpenStore(storePath)
	if err != nil {
		return err
	}

	downloader := &download.Downloader{
		Store:          store,
		API:            api,
		Workers:        Workers,
		AlwaysDownload: forceFetch,
		Progress:       !Quiet,
	}
	if err := downloader.Fetch(ctx, plan.DataFiles()); err != nil {
		return err
	}

	t, err := dataspec.Assemble(store, plan)
	if err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("data: couldn't create output file %s: %w", outputPath, err)
		}
		defer f.Close()
		out = f
	}

	switch format {
	case formatters.GeoJSON:
		geometryData, err := store.ReadFile(plan.GeometryFile)
		if err != nil {
			return err
		}
		return formatters.WriteGeoJSON(out, geometryData, t, plan.BBoxes)

	default:
		if len(plan.BBoxes) > 0 {
			geometryData, err := store.ReadFile(plan.GeometryFile)
			if err != nil {
				return err
			}
			keep, err := formatters.GeoIDsWithin(geometryData, plan.BBoxes)
			if err != nil {
				return err
			}
			ids, err := t.Strings(metadata.ColGeoID)
			if err != nil {
				return err
			}
			t = t.FilterRows(func(row int) bool { return keep[ids[row]] })
		}
		return formatters.WriteCSV(out, t)
	}
}
