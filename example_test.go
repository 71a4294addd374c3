package showcase_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/showcase"
	"github.com/aretw0/showcase/pkg/render"
)

// Example_basic demonstrates how to wire a page, filter it and print the result.
func Example_basic() {
	ctx := context.Background()

	page, err := showcase.New(ctx, "", "projects",
		showcase.WithAdapter("memory"),
		showcase.WithMarker(render.DefaultTextMarker),
		showcase.WithCollection([]showcase.Record{
			{Title: "Notebook", Description: "Markdown vault", Tags: []string{"go", "cli"}, Date: "2024-03-01"},
			{Title: "Rustle", Description: "Terminal game", Tags: []string{"rust"}, Date: "2023"},
			{Title: "Gopher tools", Tags: []string{"go"}, Date: "2022-01-05"},
		}),
	)
	if err != nil {
		log.Fatal(err)
	}

	page.Open(ctx)
	page.Controller.ToggleFacet(ctx, "go")
	page.Controller.SetQuery(ctx, "tools")

	if err := page.Print(os.Stdout, "text"); err != nil {
		log.Fatal(err)
	}

	fragment, err := page.Fragment.Fragment(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("#" + fragment)
	// Output:
	// facets: [ ] cli [x] go [ ] rust
	// 1 of 3 results
	// - Gopher [tools] (2022-01-05) #go
	// #q=tools&tag=go
}
