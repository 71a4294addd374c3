package showcase

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/text/language"

	"github.com/aretw0/showcase/internal/platform"
	"github.com/aretw0/showcase/pkg/core"
)

// --- Types ---

// Page is a wired catalog page: controller, persistence and loader.
type Page = platform.Page

// Record is one catalog entry.
type Record = core.Record

// ViewState is the filter and sort configuration of a page.
type ViewState = core.ViewState

// View is the render model handed to a Renderer.
type View = core.View

// SiteConfig is the optional showcase.yaml at a site root.
type SiteConfig = platform.SiteConfig

// --- Configuration ---

// Option defines a functional option for configuring a page.
type Option = platform.Option

// WithLogger sets the logger for every component of the page.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithAdapter allows specifying the storage adapter to use by name ("fs" or "memory").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithStateDir allows specifying the hidden directory name (e.g. ".showcase").
func WithStateDir(name string) Option {
	return platform.WithStateDir(name)
}

// WithNamespace sets the durable key prefix.
func WithNamespace(ns string) Option {
	return platform.WithNamespace(ns)
}

// WithPattern sets the doublestar pattern of data files.
func WithPattern(pattern string) Option {
	return platform.WithPattern(pattern)
}

// WithRecordCache enables or disables the parsed-record cache.
func WithRecordCache(enabled bool) Option {
	return platform.WithRecordCache(enabled)
}

// WithSchema sets which record fields feed search and facets.
func WithSchema(s core.Schema) Option {
	return platform.WithSchema(s)
}

// WithCollection provides records directly instead of loading data files.
func WithCollection(records []Record) Option {
	return platform.WithCollection(core.NewCollection(records))
}

// WithRenderer sets the adapter called after every recomputation.
func WithRenderer(r core.Renderer) Option {
	return platform.WithRenderer(r)
}

// WithFragmentStore allows injecting a custom URL-fragment surface.
func WithFragmentStore(s core.FragmentStore) Option {
	return platform.WithFragmentStore(s)
}

// WithDurableStore allows injecting a custom durable surface.
func WithDurableStore(s core.DurableStore) Option {
	return platform.WithDurableStore(s)
}

// WithLanguage sets the collation language for facets and title sort.
func WithLanguage(tag language.Tag) Option {
	return platform.WithLanguage(tag)
}

// WithMarker sets how highlighted matches are printed.
func WithMarker(m core.Marker) Option {
	return platform.WithMarker(m)
}

// WithDebounceInterval sets the quiet interval of the input binder.
func WithDebounceInterval(d time.Duration) Option {
	return platform.WithDebounceInterval(d)
}

// WithErrorHandler registers a callback for recovered failures.
func WithErrorHandler(fn func(error)) Option {
	return platform.WithErrorHandler(fn)
}

// --- Factory ---

// New wires the catalog page of the site at root.
func New(ctx context.Context, root, catalog string, opts ...Option) (*Page, error) {
	return platform.New(ctx, root, catalog, opts...)
}

// --- Utils ---

// FindRoot recursively looks upwards for a site root indicator.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// LoadSiteConfig reads the site configuration file at root, if any.
func LoadSiteConfig(root string) (SiteConfig, bool, error) {
	return platform.LoadSiteConfig(root)
}
