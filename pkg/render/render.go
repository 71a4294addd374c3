// Package render provides reference Render Adapters that draw a core.View
// to an io.Writer: a human-readable text list and a JSON document.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aretw0/showcase/pkg/core"
)

// DefaultTextMarker highlights matches for terminals.
var DefaultTextMarker = core.PlainMarker("[", "]")

// Text renders views as a plain list.
type Text struct {
	mu     sync.Mutex
	w      io.Writer
	marker core.Marker
	// ShowFacets prints the facet bar above the results.
	ShowFacets bool
}

// NewText creates a Text renderer writing to w.
func NewText(w io.Writer, marker core.Marker) *Text {
	return &Text{w: w, marker: marker, ShowFacets: true}
}

// Render implements core.Renderer.
func (t *Text) Render(v core.View) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	if t.ShowFacets && len(v.Facets) > 0 {
		b.WriteString("facets:")
		for _, f := range v.Facets {
			if f.Active {
				fmt.Fprintf(&b, " [x] %s", f.Value)
			} else {
				fmt.Fprintf(&b, " [ ] %s", f.Value)
			}
		}
		b.WriteByte('\n')
	}
	for _, stale := range v.StaleFacets {
		fmt.Fprintf(&b, "(filter %q matches no known tag)\n", stale)
	}

	if v.Empty() {
		b.WriteString("No results.\n")
	} else {
		fmt.Fprintf(&b, "%d of %d results\n", len(v.Items), v.Total)
	}

	for _, item := range v.Items {
		b.WriteString("- ")
		b.WriteString(t.marker.Render(item.Title))
		if item.Record.Date != "" {
			fmt.Fprintf(&b, " (%s)", item.Record.Date)
		}
		if len(item.Record.Tags) > 0 {
			fmt.Fprintf(&b, " #%s", strings.Join(item.Record.Tags, " #"))
		}
		b.WriteByte('\n')
		if len(item.Description) > 0 {
			b.WriteString("  ")
			b.WriteString(t.marker.Render(item.Description))
			b.WriteByte('\n')
		}
		if item.Record.Link != "" {
			fmt.Fprintf(&b, "  %s\n", item.Record.Link)
		}
	}

	_, err := io.WriteString(t.w, b.String())
	return err
}

// JSONItem is an Item with its marked-up display strings.
type JSONItem struct {
	core.Record
	TitleHTML       string `json:"title_html"`
	DescriptionHTML string `json:"description_html,omitempty"`
}

// JSONView is the document written by the JSON renderer.
type JSONView struct {
	Catalog     string             `json:"catalog"`
	Query       string             `json:"query"`
	Tags        []string           `json:"tags"`
	Sort        core.SortMode      `json:"sort"`
	Count       int                `json:"count"`
	Total       int                `json:"total"`
	Facets      []core.FacetOption `json:"facets"`
	StaleFacets []string           `json:"stale_facets,omitempty"`
	Items       []JSONItem         `json:"items"`
}

// JSON renders each view as one indented JSON document.
type JSON struct {
	mu     sync.Mutex
	enc    *json.Encoder
	marker core.Marker
}

// NewJSON creates a JSON renderer writing to w. Display strings are marked
// with marker; core.HTMLMarker keeps them safe to embed in a page.
func NewJSON(w io.Writer, marker core.Marker) *JSON {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return &JSON{enc: enc, marker: marker}
}

// Document converts v to the JSON document layout.
func (j *JSON) Document(v core.View) JSONView {
	doc := JSONView{
		Catalog:     v.Catalog,
		Query:       v.Query,
		Tags:        v.ActiveFacets(),
		Sort:        v.Sort,
		Count:       len(v.Items),
		Total:       v.Total,
		Facets:      v.Facets,
		StaleFacets: v.StaleFacets,
		Items:       make([]JSONItem, len(v.Items)),
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	for i, item := range v.Items {
		doc.Items[i] = JSONItem{
			Record:          item.Record,
			TitleHTML:       j.marker.Render(item.Title),
			DescriptionHTML: j.marker.Render(item.Description),
		}
	}
	return doc
}

// Render implements core.Renderer.
func (j *JSON) Render(v core.View) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.enc.Encode(j.Document(v))
}

var (
	_ core.Renderer = (*Text)(nil)
	_ core.Renderer = (*JSON)(nil)
)
