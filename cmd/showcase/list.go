package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/showcase"
	"github.com/aretw0/showcase/pkg/adapters/memory"
	"github.com/aretw0/showcase/pkg/core"
	"github.com/aretw0/showcase/pkg/render"
)

var (
	listJSON   bool
	listQuery  string
	listTags   []string
	listSort   string
	listClear  bool
	listNoSave bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the records of a catalog through the current view",
	Long: `List restores the saved view of the catalog, applies the given flags and
prints the matching records. Flags change the saved view unless --no-save is set.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		marker := render.DefaultTextMarker
		if listJSON {
			marker = core.HTMLMarker()
		}
		opts := []showcase.Option{showcase.WithMarker(marker)}
		if listNoSave {
			opts = append(opts,
				showcase.WithFragmentStore(memory.NewLocation("")),
				showcase.WithDurableStore(memory.NewStore()),
			)
		}
		page, err := openPage(ctx, opts...)
		if err != nil {
			fatal("Error opening catalog", err)
		}
		page.Open(ctx)

		apply(ctx, cmd, page)

		format := "text"
		if listJSON {
			format = "json"
		}
		if err := page.Print(os.Stdout, format); err != nil {
			fatal("Error printing results", err)
		}
	},
}

// apply turns the filter flags into controller operations.
func apply(ctx context.Context, cmd *cobra.Command, page *showcase.Page) {
	ctrl := page.Controller
	if listClear {
		ctrl.Reset(ctx)
	}
	if cmd.Flags().Changed("q") {
		ctrl.SetQuery(ctx, listQuery)
	}
	for _, tag := range listTags {
		if !ctrl.Get().HasFacet(tag) {
			ctrl.ToggleFacet(ctx, tag)
		}
	}
	if listSort != "" {
		mode, ok := core.ParseSortMode(listSort)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown sort %q, using %s\n", listSort, mode)
		}
		ctrl.SetSort(ctx, mode)
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVarP(&listQuery, "q", "q", "", "Search query")
	listCmd.Flags().StringArrayVarP(&listTags, "tag", "t", nil, "Require a tag (repeatable)")
	listCmd.Flags().StringVarP(&listSort, "sort", "s", "", "Sort mode: recent or title")
	listCmd.Flags().BoolVar(&listClear, "clear", false, "Start from the default view")
	listCmd.Flags().BoolVar(&listNoSave, "no-save", false, "Do not read or write the saved view")
}
