package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/showcase/pkg/persist"
)

var stateIntrospect bool

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the saved view of a catalog",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		page, err := openPage(ctx)
		if err != nil {
			fatal("Error opening catalog", err)
		}
		page.Open(ctx)

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if stateIntrospect {
			if err := encoder.Encode(page.Introspect()); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		s := page.Controller.Get()
		if err := encoder.Encode(s); err != nil {
			fatal("Error encoding JSON", err)
		}
		fmt.Printf("#%s\n", persist.EncodeFragment(s))
	},
}

var stateResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default view of a catalog",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		page, err := openPage(ctx)
		if err != nil {
			fatal("Error opening catalog", err)
		}
		page.Open(ctx)
		page.Controller.Reset(ctx)
		fmt.Printf("%s view reset\n", page.Catalog)
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.AddCommand(stateResetCmd)
	stateCmd.Flags().BoolVar(&stateIntrospect, "introspect", false, "Print the internal state of every component")
}
