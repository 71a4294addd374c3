package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var facetsCmd = &cobra.Command{
	Use:   "facets",
	Short: "Print the facet values of a catalog",
	Long: `Facets prints every value of the facet index in collation order, with the
number of records carrying it. Values of the saved view are marked with [x];
saved values that no record carries anymore are reported last.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		page, err := openPage(ctx)
		if err != nil {
			fatal("Error opening catalog", err)
		}
		v := page.Open(ctx)

		counts := page.Controller.FacetCounts()
		for _, f := range v.Facets {
			mark := " "
			if f.Active {
				mark = "x"
			}
			fmt.Printf("[%s] %s (%d)\n", mark, f.Value, counts[f.Value])
		}
		for _, stale := range v.StaleFacets {
			fmt.Printf("[x] %s (stale)\n", stale)
		}
	},
}

func init() {
	rootCmd.AddCommand(facetsCmd)
}
