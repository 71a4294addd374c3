package platform

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/introspection"

	"github.com/aretw0/showcase/pkg/core"
	"github.com/aretw0/showcase/pkg/debounce"
	"github.com/aretw0/showcase/pkg/render"
)

// Output formats accepted by Print.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Open loads the persisted state and performs the first render.
func (p *Page) Open(ctx context.Context) core.View {
	return p.Controller.Open(ctx)
}

// Watch keeps the page in sync with external fragment changes until ctx is
// done.
func (p *Page) Watch(ctx context.Context) error {
	return p.Controller.Watch(ctx)
}

// Bind returns an input binder feeding the page query, debounced with the
// configured interval. Close it when done.
func (p *Page) Bind(ctx context.Context) *debounce.InputBinder {
	return debounce.NewInputBinder(ctx, p.Controller, p.opts.debounce,
		debounce.WithBinderLogger(p.logger))
}

// Reload reads the data files again and swaps the collection. Active
// facets survive the swap.
func (p *Page) Reload(ctx context.Context) error {
	if p.Loader == nil {
		return fmt.Errorf("page %s has no loader", p.Catalog)
	}
	coll, err := p.Loader.Load(ctx)
	if err != nil && coll.Len() == 0 {
		return err
	}
	p.Controller.ReplaceCollection(ctx, coll)
	return err
}

// Print renders the current view to w in the given format, marking matches
// with the page marker.
func (p *Page) Print(w io.Writer, format string) error {
	var r core.Renderer
	switch format {
	case "", FormatText:
		r = render.NewText(w, p.Marker)
	case FormatJSON:
		r = render.NewJSON(w, p.Marker)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return r.Render(p.Controller.View())
}

// Introspect returns the state of every introspectable component, keyed by
// component type.
func (p *Page) Introspect() map[string]any {
	components := []any{p.Controller, p.Persister, p.Fragment, p.Durable}
	if p.Loader != nil {
		components = append(components, p.Loader)
	}

	out := make(map[string]any)
	for _, v := range components {
		if v == nil {
			continue
		}
		if ins, ok := v.(introspection.Introspectable); ok {
			name := fmt.Sprintf("%T", v)
			if comp, ok := v.(introspection.Component); ok {
				name = comp.ComponentType()
			}
			out[name] = ins.State()
		}
	}
	return out
}
