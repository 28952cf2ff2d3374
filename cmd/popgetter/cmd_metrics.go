package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/search"
	"github.com/spf13/cobra"
)

var metricsUsage = strings.TrimSpace(`
Search the metric catalogue.  Positional arguments are free-text terms
matched against HXL tags, names and descriptions; the flags add structured
filters.  For example:

  popgetter metrics population --country be --geometry-level municipality
  popgetter metrics --hxl '#population\+adults' --year 2021 --full
`)

var metricsCmd = &cobra.Command{
	Use:   "metrics [text ...]",
	Short: "Search the metric catalogue",
	Long:  metricsUsage,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		return runMetrics(ctx, args)
	},
}

var (
	WithVCR bool
	Refresh bool

	searchHxl         []string
	searchName        []string
	searchDescription []string
	searchYear        []string
	searchLevel       []string
	searchRelease     []string
	searchPublisher   []string
	searchCountry     []string
	searchTable       []string

	maxResults  int
	fullResults bool
)

func init() {
	rootCmd.AddCommand(metricsCmd)

	metricsCmd.Flags().StringSliceVar(&searchHxl, "hxl", nil, "search in HXL tags only")
	metricsCmd.Flags().StringSliceVar(&searchName, "name", nil, "search in human readable names only")
	metricsCmd.Flags().StringSliceVar(&searchDescription, "description", nil, "search in descriptions only")
	metricsCmd.Flags().StringSliceVar(&searchYear, "year", nil, "filter by release reference year")
	metricsCmd.Flags().StringSliceVar(&searchLevel, "geometry-level", nil, "filter by geometry level")
	metricsCmd.Flags().StringSliceVar(&searchRelease, "release", nil, "filter by source data release name")
	metricsCmd.Flags().StringSliceVar(&searchPublisher, "publisher", nil, "filter by data publisher name")
	metricsCmd.Flags().StringSliceVar(&searchCountry, "country", nil, "filter by country")
	metricsCmd.Flags().StringSliceVar(&searchTable, "census-table", nil, "filter by source census table")
	metricsCmd.Flags().IntVar(&maxResults, "max-results", 20, "cap the number of results, -1 for all")
	metricsCmd.Flags().BoolVar(&fullResults, "full", false, "show release and publisher detail")
	metricsCmd.Flags().BoolVar(&WithVCR, "with-vcr", false, "use go-vcr to cache responses")
	metricsCmd.Flags().BoolVar(&Refresh, "refresh", false, "refetch metadata even if cached")
}

func runMetrics(ctx context.Context, terms []string) error {
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
		return fmt.Errorf("metrics: couldn't load metadata: %w", err)
	}

	request := buildSearchRequest(terms)
	results := request.Results(catalog)

	shown := results.Head(maxResults)
	if err := shown.Write(os.Stdout, fullResults); err != nil {
		return fmt.Errorf("metrics: couldn't print results: %w", err)
	}

	if len(shown) < len(results) {
		fmt.Printf("\nShowing %d of %d results, raise --max-results to see more.\n", len(shown), len(results))
	} else {
		fmt.Printf("\nFound %d results.\n", len(results))
	}
	return nil
}

func buildSearchRequest(terms []string) search.SearchRequest {
	request := search.NewRequest()
	for _, t := range terms {
		request = request.WithText(t)
	}
	for _, t := range searchHxl {
		request.Text = append(request.Text, search.SearchText{
			Text:    t,
			Context: []search.SearchContext{search.ContextHxl},
		})
	}
	for _, t := range searchName {
		request.Text = append(request.Text, search.SearchText{
			Text:    t,
			Context: []search.SearchContext{search.ContextHumanReadableName},
		})
	}
	for _, t := range searchDescription {
		request.Text = append(request.Text, search.SearchText{
			Text:    t,
			Context: []search.SearchContext{search.ContextDescription},
		})
	}
	for _, y := range searchYear {
		request = request.WithYear(y)
	}
	for _, l := range searchLevel {
		request = request.WithGeometryLevel(l)
	}
	for _, r := range searchRelease {
		request = request.WithSourceDataRelease(r)
	}
	for _, p := range searchPublisher {
		request = request.WithDataPublisher(p)
	}
	for _, c := range searchCountry {
		request = request.WithCountry(c)
	}
	for _, t := range searchTable {
		request = request.WithCensusTable(t)
	}
	return request
}
