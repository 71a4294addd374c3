package core

import (
	"github.com/aretw0/introspection"
)

// ControllerState exposes internal state for observability.
type ControllerState struct {
	Catalog     string   `json:"catalog"`
	Query       string   `json:"query"`
	Facets      []string `json:"facets"`
	Sort        string   `json:"sort"`
	Records     int      `json:"records"`
	Matches     int      `json:"matches"`
	FacetIndex  int      `json:"facet_index"`
	Subscribers int      `json:"subscribers"`
	Watching    bool     `json:"watching"`
	Persistence string   `json:"persistence"`
}

// State implements introspection.Introspectable.
func (c *Controller) State() any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	persistence := "none"
	if c.cfg.Persister != nil {
		persistence = "persister"
		if comp, ok := c.cfg.Persister.(introspection.Component); ok {
			persistence = comp.ComponentType()
		}
	}

	return ControllerState{
		Catalog:     c.cfg.Catalog,
		Query:       c.state.Query,
		Facets:      append([]string(nil), c.state.Facets...),
		Sort:        string(c.state.Sort),
		Records:     c.collection.Len(),
		Matches:     len(c.results),
		FacetIndex:  len(c.index),
		Subscribers: len(c.subs),
		Watching:    c.watching,
		Persistence: persistence,
	}
}

// ComponentType implements introspection.Component.
func (c *Controller) ComponentType() string {
	return "controller"
}

var _ introspection.Introspectable = (*Controller)(nil)
var _ introspection.Component = (*Controller)(nil)
