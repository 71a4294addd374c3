package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/lifecycle"
)

// ControllerConfig holds the collaborators of a Controller.
type ControllerConfig struct {
	Catalog      string // e.g. "projects"
	Schema       Schema
	Collator     *Collator
	Persister    Persister // nil disables persistence
	Renderer     Renderer  // nil disables rendering
	Logger       *slog.Logger
	ErrorHandler func(error)
	// SubscriberBuffer is the channel size handed out by Subscribe. Zero means 16.
	SubscriberBuffer int
}

// Controller is the view state store of one catalog page. Every mutation
// writes through to the Persister, recomputes the pipeline and notifies the
// Renderer and subscribers.
//
// All operations are serialized; none observes a partially updated state.
type Controller struct {
	mu       sync.RWMutex
	cfg      ControllerConfig
	pipeline Pipeline
	logger   *slog.Logger

	collection Collection
	index      FacetIndex
	state      ViewState
	results    []Record
	view       View

	subs     map[int]chan Change
	nextSub  int
	watching bool
}

// NewController creates a Controller over an initial Collection with the
// default ViewState. Call Open to load persisted state and render.
func NewController(c Collection, cfg ControllerConfig) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.SubscriberBuffer <= 0 {
		cfg.SubscriberBuffer = 16
	}
	ctrl := &Controller{
		cfg:        cfg,
		pipeline:   NewPipeline(cfg.Schema, cfg.Collator),
		logger:     logger.With("catalog", cfg.Catalog),
		collection: c,
		state:      DefaultViewState(),
		subs:       make(map[int]chan Change),
	}
	ctrl.index = BuildFacetIndex(c, ctrl.pipeline.Schema, ctrl.pipeline.Collator)
	ctrl.recomputeLocked()
	return ctrl
}

// Open loads the persisted state and performs the first render.
func (c *Controller) Open(ctx context.Context) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := DefaultViewState()
	if c.cfg.Persister != nil {
		next = c.cfg.Persister.Load(ctx)
	}
	c.logger.Debug("state loaded", "query", next.Query, "facets", next.Facets, "sort", next.Sort)
	c.applyLocked(ctx, next, CauseOpen, persistNone)
	return c.view
}

// Get returns the current state.
func (c *Controller) Get() ViewState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Normalized()
}

// View returns the last computed render model.
func (c *Controller) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

// Results returns the current ordered matches.
func (c *Controller) Results() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Record, len(c.results))
	copy(out, c.results)
	return out
}

// Index returns the facet index of the current collection.
func (c *Controller) Index() FacetIndex {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(FacetIndex, len(c.index))
	copy(out, c.index)
	return out
}

// FacetCounts returns how many records of the current collection carry each
// facet value.
func (c *Controller) FacetCounts() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return FacetCounts(c.collection, c.pipeline.Schema)
}

// SetQuery replaces the free-text query.
func (c *Controller) SetQuery(ctx context.Context, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.state
	next.Query = text
	c.applyLocked(ctx, next, CauseQuery, persistAll)
}

// ToggleFacet adds value to the active facets, or removes it if present.
// Values outside the facet index are accepted; they never match.
func (c *Controller) ToggleFacet(ctx context.Context, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyLocked(ctx, c.state.toggle(strings.TrimSpace(value)), CauseFacet, persistAll)
}

// SetSort changes the sort mode. Invalid modes collapse to the default.
func (c *Controller) SetSort(ctx context.Context, mode SortMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.state
	next.Sort = mode
	c.applyLocked(ctx, next, CauseSort, persistAll)
}

// Reset restores the default state.
func (c *Controller) Reset(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyLocked(ctx, DefaultViewState(), CauseReset, persistAll)
}

// ReplaceCollection swaps the record snapshot and rebuilds the facet index.
// Active facets are retained even if the new index lacks them.
func (c *Controller) ReplaceCollection(ctx context.Context, coll Collection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.collection = coll
	c.index = BuildFacetIndex(coll, c.pipeline.Schema, c.pipeline.Collator)
	c.applyLocked(ctx, c.state, CauseCollection, persistNone)
}

// Watch resynchronizes the state whenever the fragment changes outside the
// controller. It returns once the watch is established; the sync loop runs
// until ctx is done.
func (c *Controller) Watch(ctx context.Context) error {
	if c.cfg.Persister == nil {
		return ErrWatchUnsupported
	}
	changes, err := c.cfg.Persister.Changes(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.watching = true
	c.mu.Unlock()

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer func() {
			c.mu.Lock()
			c.watching = false
			c.mu.Unlock()
		}()
		for {
			select {
			case <-ctx.Done():
				return nil
			case next, ok := <-changes:
				if !ok {
					return nil
				}
				c.mu.Lock()
				if !next.Equal(c.state) {
					c.logger.Debug("external state change", "query", next.Query, "facets", next.Facets, "sort", next.Sort)
					c.applyLocked(ctx, next, CauseExternal, persistDurable)
				}
				c.mu.Unlock()
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		c.fail(fmt.Errorf("fragment sync panic: %w", err))
	}))
	return nil
}

// Subscribe returns a channel receiving a Change after every recomputation
// and a function to unsubscribe. Slow subscribers miss changes rather than
// block the controller.
func (c *Controller) Subscribe() (<-chan Change, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	ch := make(chan Change, c.cfg.SubscriberBuffer)
	c.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs, id)
			close(ch)
		})
	}
}

type persistMode int

const (
	persistNone persistMode = iota
	persistAll
	persistDurable
)

func (c *Controller) applyLocked(ctx context.Context, next ViewState, cause ChangeCause, mode persistMode) {
	c.state = next.Normalized()

	if p := c.cfg.Persister; p != nil {
		var err error
		switch mode {
		case persistAll:
			err = p.Save(ctx, c.state)
		case persistDurable:
			err = p.SaveDurable(ctx, c.state)
		}
		if err != nil {
			c.fail(fmt.Errorf("persist state: %w", err))
		}
	}

	c.recomputeLocked()

	if r := c.cfg.Renderer; r != nil {
		if err := r.Render(c.view); err != nil {
			c.fail(fmt.Errorf("render: %w", err))
		}
	}

	change := Change{Cause: cause, State: c.state, Count: len(c.results)}
	for id, ch := range c.subs {
		select {
		case ch <- change:
		default:
			c.logger.Debug("subscriber lagging, change dropped", "subscriber", id, "cause", cause)
		}
	}
}

func (c *Controller) recomputeLocked() {
	c.results = c.pipeline.Apply(c.collection, c.state)
	c.view = buildView(c.cfg.Catalog, c.collection, c.index, c.state, c.results)
}

func (c *Controller) fail(err error) {
	if c.cfg.ErrorHandler != nil {
		c.cfg.ErrorHandler(err)
	}
	c.logger.Warn("controller degraded", "error", err)
}
