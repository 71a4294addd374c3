package core

import (
	"slices"
	"strings"
)

// SortMode selects the ordering of the filtered list.
type SortMode string

const (
	// SortRecent orders by date, newest first.
	SortRecent SortMode = "recent"
	// SortTitle orders by title, ascending.
	SortTitle SortMode = "title"
)

// DefaultSortMode is used when no valid mode is known.
const DefaultSortMode = SortRecent

// sortAliases maps the select values used by older pages onto the two modes.
var sortAliases = map[string]SortMode{
	"recent":    SortRecent,
	"newest":    SortRecent,
	"date-desc": SortRecent,
	"title":     SortTitle,
	"az":        SortTitle,
	"title-asc": SortTitle,
}

// ParseSortMode resolves s to a SortMode. Unknown values return the default
// mode and false.
func ParseSortMode(s string) (SortMode, bool) {
	if m, ok := sortAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m, true
	}
	return DefaultSortMode, false
}

// Valid reports whether m is one of the defined modes.
func (m SortMode) Valid() bool {
	return m == SortRecent || m == SortTitle
}

func (m SortMode) String() string { return string(m) }

// ViewState is the filter and sort configuration of one catalog page.
type ViewState struct {
	Query  string   `json:"query"`
	Facets []string `json:"tags"`
	Sort   SortMode `json:"sort"`
}

// DefaultViewState returns the empty query, no facets and the default sort.
func DefaultViewState() ViewState {
	return ViewState{Sort: DefaultSortMode}
}

// Normalized returns a copy with the query trimmed (invalid UTF-8 dropped), facets deduplicated and
// sorted, and an invalid sort mode collapsed to the default.
func (s ViewState) Normalized() ViewState {
	out := ViewState{
		Query: strings.TrimSpace(strings.ToValidUTF8(s.Query, "")),
		Sort:  s.Sort,
	}
	if !out.Sort.Valid() {
		out.Sort, _ = ParseSortMode(string(s.Sort))
	}
	if facets := NormalizeTags(s.Facets); len(facets) > 0 {
		slices.Sort(facets)
		out.Facets = facets
	}
	return out
}

// HasFacet reports whether v is an active facet.
func (s ViewState) HasFacet(v string) bool {
	return slices.Contains(s.Facets, v)
}

// Equal compares two states after normalization. Facets compare as sets.
func (s ViewState) Equal(o ViewState) bool {
	a, b := s.Normalized(), o.Normalized()
	return a.Query == b.Query && a.Sort == b.Sort && slices.Equal(a.Facets, b.Facets)
}

// IsDefault reports whether s is equivalent to DefaultViewState.
func (s ViewState) IsDefault() bool {
	return s.Equal(DefaultViewState())
}

// toggle returns a copy with v added to or removed from the facet set.
func (s ViewState) toggle(v string) ViewState {
	out := s
	out.Facets = nil
	found := false
	for _, f := range s.Facets {
		if f == v {
			found = true
			continue
		}
		out.Facets = append(out.Facets, f)
	}
	if !found {
		out.Facets = append(out.Facets, v)
	}
	return out.Normalized()
}
