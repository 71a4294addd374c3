package platform

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/showcase/pkg/adapters/fs"
	"github.com/aretw0/showcase/pkg/adapters/memory"
	"github.com/aretw0/showcase/pkg/core"
	"github.com/aretw0/showcase/pkg/persist"
)

// Page is one wired catalog page: its controller and the adapters behind it.
type Page struct {
	Catalog    string
	Root       string
	Controller *core.Controller
	Persister  *persist.Adapter
	Fragment   core.FragmentStore
	Durable    core.DurableStore
	// Loader is nil when records were provided with WithCollection or the
	// adapter has no loader.
	Loader *fs.Loader
	Marker core.Marker

	opts   *options
	logger *slog.Logger
}

// New wires a catalog page under root. With the "fs" adapter, records are
// loaded from the data files unless WithCollection is given; a file that
// fails to decode is skipped and logged. The page is not opened: call Open
// to load persisted state and render.
//
//	page, err := platform.New(ctx, "./site", "projects", platform.WithLogger(logger))
func New(ctx context.Context, root, catalog string, opts ...Option) (*Page, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	p := &Page{
		Catalog: catalog,
		Root:    root,
		Marker:  core.HTMLMarker(),
		opts:    o,
		logger:  logger,
	}
	if o.marker != nil {
		p.Marker = *o.marker
	}

	var err error
	switch o.adapter {
	case "fs":
		err = p.initFS(ctx)
	case "memory":
		p.initMemory()
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	// Injected stores win over the adapter's.
	if o.fragment != nil {
		p.Fragment = o.fragment
	}
	if o.durable != nil {
		p.Durable = o.durable
	}

	p.Persister = persist.New(persist.Config{
		Catalog:   catalog,
		Namespace: o.namespace,
		Fragment:  p.Fragment,
		Durable:   p.Durable,
		Logger:    logger,
	})

	coll := core.NewCollection(nil)
	if o.collection != nil {
		coll = *o.collection
	} else if p.Loader != nil {
		coll, err = p.Loader.Load(ctx)
		if err != nil {
			if coll.Len() == 0 {
				return nil, fmt.Errorf("failed to load %s records: %w", catalog, err)
			}
			p.reportError(err)
		}
	}

	cfg := core.ControllerConfig{
		Catalog:      catalog,
		Collator:     core.NewCollator(o.language),
		Persister:    p.Persister,
		Renderer:     o.renderer,
		Logger:       logger,
		ErrorHandler: o.errorHandler,
	}
	if o.schema != nil {
		cfg.Schema = *o.schema
	}
	p.Controller = core.NewController(coll, cfg)

	logger.Debug("page wired", "catalog", catalog, "adapter", o.adapter, "records", coll.Len())
	return p, nil
}

// initFS handles the wiring of the filesystem adapter.
func (p *Page) initFS(ctx context.Context) error {
	o := p.opts
	if p.Root == "" {
		return fmt.Errorf("fs adapter needs a site root")
	}

	site, found, err := LoadSiteConfig(p.Root)
	if err != nil {
		return err
	}
	if found {
		if err := site.apply(p.Catalog, o); err != nil {
			return err
		}
		p.logger.Debug("site config applied", "root", p.Root)
	}

	stateDir := o.stateDir
	if stateDir == "" {
		stateDir = fs.DefaultSystemDir
	}

	loc := fs.NewLocation(p.Root, stateDir, p.Catalog, p.logger)
	loc.ErrorHandler = o.errorHandler
	p.Fragment = loc
	p.Durable = fs.NewStore(p.Root, stateDir, p.logger)

	if o.collection == nil {
		p.Loader = fs.NewLoader(fs.LoaderConfig{
			Root:      p.Root,
			Pattern:   o.pattern,
			SystemDir: stateDir,
			NoCache:   o.noCache,
			Logger:    p.logger,
		})
	}
	return ctx.Err()
}

func (p *Page) initMemory() {
	p.Fragment = memory.NewLocation("")
	p.Durable = memory.NewStore()
}

func (p *Page) reportError(err error) {
	p.logger.Warn("page degraded", "catalog", p.Catalog, "error", err)
	if p.opts.errorHandler != nil {
		p.opts.errorHandler(err)
	}
}
