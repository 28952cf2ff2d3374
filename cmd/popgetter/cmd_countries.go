package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var countriesUsage = strings.TrimSpace(`
List the countries the configured popgetter release publishes data for.
`)

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "Print list of countries",
	Long:  countriesUsage,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

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

		countries, err := loader.LoadCountries(ctx)
		if err != nil {
			return fmt.Errorf("countries: couldn't list countries: %w", err)
		}

		sort.Slice(countries, func(i, j int) bool {
			return countries[i].NameShortEn < countries[j].NameShortEn
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tISO3\tISO2")
		for _, c := range countries {
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.NameShortEn, c.ISO3, c.ISO2)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(countriesCmd)

	countriesCmd.Flags().BoolVar(&WithVCR, "with-vcr", false, "use go-vcr to cache responses")
	countriesCmd.Flags().BoolVar(&Refresh, "refresh", false, "refetch metadata even if cached")
}
