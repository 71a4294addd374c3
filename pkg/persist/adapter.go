package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"

	"github.com/aretw0/showcase/pkg/core"
)

// DefaultNamespace prefixes durable keys.
const DefaultNamespace = "showcase"

// Config holds the surfaces of an Adapter. Either store may be nil.
type Config struct {
	Catalog   string
	Namespace string
	Fragment  core.FragmentStore
	Durable   core.DurableStore
	Logger    *slog.Logger
}

// Adapter implements core.Persister over a fragment store and a durable store.
type Adapter struct {
	cfg    Config
	key    string
	logger *slog.Logger
}

// New creates an Adapter.
func New(cfg Config) *Adapter {
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		cfg:    cfg,
		key:    DurableKey(cfg.Namespace, cfg.Catalog),
		logger: logger,
	}
}

// DurableKey returns the durable store key for a catalog.
func DurableKey(namespace, catalog string) string {
	if catalog == "" {
		catalog = "default"
	}
	return namespace + ":" + catalog + ":view"
}

// Key returns the durable key used by the adapter.
func (a *Adapter) Key() string { return a.key }

// Load resolves the state field by field: fragment, durable store, default.
func (a *Adapter) Load(ctx context.Context) core.ViewState {
	return a.readFragment(ctx).Over(a.readDurable(ctx)).State()
}

// Resolve returns the state described by a fragment reached by navigation.
// Keys absent from it take their defaults: the controller writes every
// non-default field, so the fragment is the whole state and the durable
// snapshot (which mirrors the state being left) must not leak into it.
func (a *Adapter) Resolve(fragment string) core.ViewState {
	return a.decodeFragment(fragment).State()
}

// Save writes s to both surfaces. A failure on one surface does not prevent
// the write to the other.
func (a *Adapter) Save(ctx context.Context, s core.ViewState) error {
	var errs []error
	if a.cfg.Fragment != nil {
		if err := a.cfg.Fragment.SetFragment(ctx, EncodeFragment(s)); err != nil {
			errs = append(errs, fmt.Errorf("write fragment: %w", err))
		}
	}
	if err := a.SaveDurable(ctx, s); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SaveDurable writes s to the durable store only.
func (a *Adapter) SaveDurable(ctx context.Context, s core.ViewState) error {
	if a.cfg.Durable == nil {
		return nil
	}
	data, err := EncodeDurable(s)
	if err != nil {
		return fmt.Errorf("encode durable state: %w", err)
	}
	if err := a.cfg.Durable.Put(ctx, a.key, data); err != nil {
		return fmt.Errorf("write durable state: %w", err)
	}
	return nil
}

// Changes streams the resolved state (see Resolve) for every external
// fragment change.
// The channel is closed when ctx is done or the store stops watching.
func (a *Adapter) Changes(ctx context.Context) (<-chan core.ViewState, error) {
	w, ok := a.cfg.Fragment.(core.FragmentWatcher)
	if !ok {
		return nil, core.ErrWatchUnsupported
	}
	fragments, err := w.WatchFragment(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan core.ViewState)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case f, ok := <-fragments:
				if !ok {
					return nil
				}
				select {
				case out <- a.Resolve(f):
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return out, nil
}

func (a *Adapter) readFragment(ctx context.Context) Partial {
	if a.cfg.Fragment == nil {
		return Partial{}
	}
	raw, err := a.cfg.Fragment.Fragment(ctx)
	if err != nil {
		a.logger.Debug("fragment unreadable, ignoring", "error", err)
		return Partial{}
	}
	return a.decodeFragment(raw)
}

func (a *Adapter) decodeFragment(raw string) Partial {
	p, err := DecodeFragment(raw)
	if err != nil {
		a.logger.Debug("malformed fragment pairs dropped", "fragment", raw, "error", err)
	}
	return p
}

func (a *Adapter) readDurable(ctx context.Context) Partial {
	if a.cfg.Durable == nil {
		return Partial{}
	}
	data, err := a.cfg.Durable.Get(ctx, a.key)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			a.logger.Debug("durable state unreadable, ignoring", "key", a.key, "error", err)
		}
		return Partial{}
	}
	p, err := DecodeDurable(data)
	if err != nil {
		a.logger.Debug("durable state malformed, ignoring", "key", a.key, "error", err)
		return Partial{}
	}
	return p
}

// AdapterState exposes internal state for observability.
type AdapterState struct {
	Key      string `json:"key"`
	Fragment string `json:"fragment_store"`
	Durable  string `json:"durable_store"`
	Watching bool   `json:"watch_supported"`
}

// State implements introspection.Introspectable.
func (a *Adapter) State() any {
	_, watch := a.cfg.Fragment.(core.FragmentWatcher)
	return AdapterState{
		Key:      a.key,
		Fragment: componentName(a.cfg.Fragment),
		Durable:  componentName(a.cfg.Durable),
		Watching: watch,
	}
}

// ComponentType implements introspection.Component.
func (a *Adapter) ComponentType() string {
	return "persist"
}

func componentName(v any) string {
	if v == nil {
		return "none"
	}
	if comp, ok := v.(introspection.Component); ok {
		return comp.ComponentType()
	}
	return fmt.Sprintf("%T", v)
}

var _ core.Persister = (*Adapter)(nil)
var _ introspection.Introspectable = (*Adapter)(nil)
var _ introspection.Component = (*Adapter)(nil)
