package platform

import (
	"log/slog"
	"time"

	"golang.org/x/text/language"

	"github.com/aretw0/showcase/pkg/core"
	"github.com/aretw0/showcase/pkg/debounce"
)

// options holds the internal configuration of a catalog page.
type options struct {
	logger       *slog.Logger
	adapter      string
	stateDir     string
	namespace    string
	pattern      string
	noCache      bool
	schema       *core.Schema
	collection   *core.Collection
	renderer     core.Renderer
	fragment     core.FragmentStore
	durable      core.DurableStore
	language     language.Tag
	marker       *core.Marker
	debounce     time.Duration
	errorHandler func(error)
}

// Option defines a functional option for configuring a catalog page.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		adapter:  "fs",
		language: language.Und,
		debounce: debounce.DefaultInterval,
	}
}

// WithLogger sets the logger for every component of the page.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithAdapter selects the storage adapter by name ("fs" or "memory").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithStateDir sets the hidden directory holding persisted state
// (default ".showcase").
func WithStateDir(name string) Option {
	return func(o *options) {
		o.stateDir = name
	}
}

// WithNamespace sets the durable key prefix (default "showcase").
func WithNamespace(ns string) Option {
	return func(o *options) {
		o.namespace = ns
	}
}

// WithPattern sets the doublestar pattern of data files read by the fs
// adapter.
func WithPattern(pattern string) Option {
	return func(o *options) {
		o.pattern = pattern
	}
}

// WithRecordCache enables or disables the parsed-record cache of the fs
// adapter. Enabled by default.
func WithRecordCache(enabled bool) Option {
	return func(o *options) {
		o.noCache = !enabled
	}
}

// WithSchema sets which record fields feed search and facets.
func WithSchema(s core.Schema) Option {
	return func(o *options) {
		o.schema = &s
	}
}

// WithCollection provides the records directly instead of loading them.
func WithCollection(c core.Collection) Option {
	return func(o *options) {
		o.collection = &c
	}
}

// WithRenderer sets the Render Adapter called after every recomputation.
func WithRenderer(r core.Renderer) Option {
	return func(o *options) {
		o.renderer = r
	}
}

// WithFragmentStore injects the URL-fragment surface, bypassing the adapter's.
func WithFragmentStore(s core.FragmentStore) Option {
	return func(o *options) {
		o.fragment = s
	}
}

// WithDurableStore injects the durable surface, bypassing the adapter's.
func WithDurableStore(s core.DurableStore) Option {
	return func(o *options) {
		o.durable = s
	}
}

// WithLanguage sets the collation language of the facet index and title sort.
func WithLanguage(tag language.Tag) Option {
	return func(o *options) {
		o.language = tag
	}
}

// WithMarker sets how highlighted matches are rendered by Page.Print.
func WithMarker(m core.Marker) Option {
	return func(o *options) {
		o.marker = &m
	}
}

// WithDebounceInterval sets the quiet interval of the input binder.
func WithDebounceInterval(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithErrorHandler registers a callback for failures the controller and the
// watcher recover from (store writes, render errors, watcher errors). They
// are logged either way.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
