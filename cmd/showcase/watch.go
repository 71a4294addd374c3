package main

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aretw0/lifecycle"
	"github.com/spf13/cobra"

	"github.com/aretw0/showcase"
	lifecycleadapter "github.com/aretw0/showcase/pkg/adapters/lifecycle"
	"github.com/aretw0/showcase/pkg/core"
	"github.com/aretw0/showcase/pkg/render"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Interactively filter a catalog",
	Long: `Watch renders the catalog on every change. Lines typed on stdin become the
search query once typing settles. Commands start with ':':

  :tag <value>   toggle a facet
  :sort <mode>   recent or title
  :reset         default view
  :reload        read the data files again

Editing the location file under the state directory (or restoring an older copy)
is picked up as a navigation.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		page, err := openPage(ctx,
			showcase.WithMarker(render.DefaultTextMarker),
			showcase.WithRenderer(render.NewText(os.Stdout, render.DefaultTextMarker)),
		)
		if err != nil {
			fatal("Error opening catalog", err)
		}
		page.Open(ctx)

		changes, unsubscribe := page.Controller.Subscribe()
		defer unsubscribe()
		external := lifecycleadapter.NewSource(changes, core.CauseExternal, core.CauseCollection)
		if err := external.Start(ctx); err != nil {
			fatal("Error starting change source", err)
		}
		lifecycle.Go(ctx, func(ctx context.Context) error {
			for ev := range external.Events() {
				slog.Info("view changed", "cause", ev.String())
			}
			return nil
		})

		if err := page.Watch(ctx); err != nil {
			slog.Warn("external navigation is not tracked", "error", err)
		}

		binder := page.Bind(ctx)
		defer binder.Close()

		lines := make(chan string)
		go func() {
			defer close(lines)
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				lines <- scanner.Text()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case line, ok := <-lines:
				if !ok {
					binder.Flush()
					return
				}
				if !command(ctx, page, line) {
					binder.Input(line)
				}
			}
		}
	},
}

// command runs a ':' command and reports whether line was one.
func command(ctx context.Context, page *showcase.Page, line string) bool {
	if !strings.HasPrefix(line, ":") {
		return false
	}
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)

	ctrl := page.Controller
	switch name {
	case "tag":
		ctrl.ToggleFacet(ctx, arg)
	case "sort":
		mode, _ := core.ParseSortMode(arg)
		ctrl.SetSort(ctx, mode)
	case "reset":
		ctrl.Reset(ctx)
	case "reload":
		if err := page.Reload(ctx); err != nil {
			slog.Warn("reload failed", "error", err)
		}
	default:
		slog.Warn("unknown command", "command", name)
	}
	return true
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
