package core

// Item is a matching record with its highlighted display text.
type Item struct {
	Record      Record    `json:"record"`
	Title       []Segment `json:"title"`
	Description []Segment `json:"description,omitempty"`
}

// FacetOption is one facet toggle with its current state.
type FacetOption struct {
	Value  string `json:"value"`
	Active bool   `json:"active"`
}

// View is everything a Render Adapter needs to draw a catalog page.
type View struct {
	Catalog string        `json:"catalog"`
	Query   string        `json:"query"`
	Sort    SortMode      `json:"sort"`
	Items   []Item        `json:"items"`
	Facets  []FacetOption `json:"facets"`
	// StaleFacets are active values absent from the facet index.
	StaleFacets []string `json:"stale_facets,omitempty"`
	// Total is the size of the unfiltered collection.
	Total int `json:"total"`
}

// Empty reports whether no record matched.
func (v View) Empty() bool { return len(v.Items) == 0 }

// ActiveFacets returns the active values among the indexed facets.
func (v View) ActiveFacets() []string {
	var out []string
	for _, f := range v.Facets {
		if f.Active {
			out = append(out, f.Value)
		}
	}
	return out
}

// ChangeCause identifies what triggered a recomputation.
type ChangeCause string

const (
	CauseOpen       ChangeCause = "open"
	CauseQuery      ChangeCause = "query"
	CauseFacet      ChangeCause = "facet"
	CauseSort       ChangeCause = "sort"
	CauseReset      ChangeCause = "reset"
	CauseCollection ChangeCause = "collection"
	CauseExternal   ChangeCause = "external"
)

// Change is published to subscribers after every recomputation.
type Change struct {
	Cause ChangeCause
	State ViewState
	Count int
}

// String implements fmt.Stringer.
func (c Change) String() string {
	return string(c.Cause)
}

// buildView assembles the render model.
func buildView(catalog string, c Collection, index FacetIndex, s ViewState, records []Record) View {
	v := View{
		Catalog: catalog,
		Query:   s.Query,
		Sort:    s.Sort,
		Items:   make([]Item, len(records)),
		Facets:  make([]FacetOption, len(index)),
		Total:   c.Len(),
	}
	for i, r := range records {
		v.Items[i] = Item{
			Record:      r,
			Title:       Highlight(r.Title, s.Query),
			Description: Highlight(r.Description, s.Query),
		}
	}
	for i, f := range index {
		v.Facets[i] = FacetOption{Value: f, Active: s.HasFacet(f)}
	}
	for _, f := range s.Facets {
		if !index.Contains(f) {
			v.StaleFacets = append(v.StaleFacets, f)
		}
	}
	return v
}
