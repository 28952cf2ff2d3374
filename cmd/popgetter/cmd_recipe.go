package main

import (
	"context"
	"strings"

	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/dataspec"
	"github.com/spf13/cobra"
)

var recipeUsage = strings.TrimSpace(`
Run a data request spec: a JSON recipe describing metrics, region and
geometry level.  Example recipe:

  {
    "region": [{"place": "Leuven"}],
    "metrics": [{"hxl": "#population\\+adults"}],
    "years": ["2021"],
    "geometry": {"geometry_level": "municipality", "include_geoms": true}
  }
`)

var recipeCmd = &cobra.Command{
	Use:   "recipe FILE",
	Short: "Run a data request spec from a JSON file",
	Long:  recipeUsage,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		spec, err := dataspec.Read(args[0])
		if err != nil {
			return err
		}
		if spec.Geometry.IncludeGeoms && !cmd.Flags().Changed("format") {
			outputFormat = "geojson"
		}
		return runDataRequest(ctx, spec)
	},
}

func init() {
	rootCmd.AddCommand(recipeCmd)

	recipeCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write output here instead of stdout")
	recipeCmd.Flags().StringVar(&outputFormat, "format", "csv", "output format: csv or geojson")
	recipeCmd.Flags().BoolVarP(&forceFetch, "force", "f", false, "always download data files, skipping the local store")
	recipeCmd.Flags().BoolVar(&WithVCR, "with-vcr", false, "use go-vcr to cache responses")
	recipeCmd.Flags().BoolVar(&Refresh, "refresh", false, "refetch metadata even if cached")
}
