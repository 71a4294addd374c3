package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/showcase"
)

var (
	verbose  bool
	siteRoot string
	catalog  string
	stateDir string
	pattern  string
	noCache  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "showcase",
	Short: "Search, filter and sort the catalogs of a portfolio site",
	Long: `Showcase reads the data files of a site (projects, courses, achievements)
and lists them through a search query, tag facets and a sort mode.
The view is remembered per catalog under .showcase/ and restored on the next run.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&siteRoot, "root", "", "Site root (default: nearest parent with data/, .showcase/ or showcase.yaml)")
	rootCmd.PersistentFlags().StringVarP(&catalog, "catalog", "c", "projects", "Catalog page to operate on")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "Directory holding persisted state (default .showcase)")
	rootCmd.PersistentFlags().StringVar(&pattern, "pattern", "", "Doublestar pattern of data files")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Parse every data file, ignoring the record cache")
}

// openPage wires the page selected by the persistent flags.
func openPage(ctx context.Context, extra ...showcase.Option) (*showcase.Page, error) {
	root := siteRoot
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		if root, err = showcase.FindRoot(wd); err != nil {
			return nil, err
		}
	}

	opts := []showcase.Option{
		showcase.WithLogger(slog.Default()),
		showcase.WithRecordCache(!noCache),
	}
	if stateDir != "" {
		opts = append(opts, showcase.WithStateDir(stateDir))
	}
	if pattern != "" {
		opts = append(opts, showcase.WithPattern(pattern))
	}
	return showcase.New(ctx, root, catalog, append(opts, extra...)...)
}
