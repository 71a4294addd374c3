// Package showcase is the Composition Root for faceted catalog pages.
//
// It connects the core list logic (Domain Layer) with the persistence and
// rendering adapters using the Hexagonal Architecture pattern.
//
// Philosophy:
//
// A portfolio site lists projects, courses or achievements. Visitors narrow
// the list with a search box, tag toggles and a sort selector, and expect
// the page to remember what they picked: a shared link reproduces the view,
// and coming back later restores it. Showcase keeps that state pure and
// testable, and pushes the browser-ish surfaces (fragment, durable store,
// renderer) behind ports.
//
// Features:
//
//   - **Pure State Model**: query, tag facets and sort mode with deterministic filtering.
//   - **Highlighting**: case-insensitive match marking, safe for HTML output.
//   - **Two-surface Persistence**: a shareable fragment wins over a durable snapshot, field by field.
//   - **Debounced Input**: bursts of keystrokes settle into one recomputation.
//   - **Default Adapter (FS)**: JSON, YAML, CSV and Markdown data files; state kept under `.showcase/`.
//
// Usage:
//
//	page, err := showcase.New(ctx, "./site", "projects",
//		showcase.WithLogger(logger),
//	)
//
//	page.Open(ctx)
//	page.Controller.ToggleFacet(ctx, "go")
//	err = page.Print(os.Stdout, "text")
package showcase
