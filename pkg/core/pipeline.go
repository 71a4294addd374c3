package core

import (
	"sort"
	"strings"
	"time"
)

// Pipeline filters and sorts a Collection for a ViewState.
// It holds no state besides its configuration, so Apply is referentially
// transparent.
type Pipeline struct {
	Schema   Schema
	Collator *Collator
}

// NewPipeline creates a Pipeline. A nil collator uses the root locale.
func NewPipeline(schema Schema, col *Collator) Pipeline {
	return Pipeline{Schema: schema.withDefaults(), Collator: collatorOrDefault(col)}
}

// Apply returns the records of c matching s, ordered by s.Sort.
// The returned slice is freshly allocated.
func (p Pipeline) Apply(c Collection, s ViewState) []Record {
	schema := p.Schema.withDefaults()
	s = s.Normalized()
	needle := strings.ToLower(s.Query)

	out := make([]Record, 0, len(c.records))
	for _, r := range c.records {
		if !matchesQuery(schema.SearchText(r), needle) {
			continue
		}
		if !matchesFacets(schema.FacetValues(r), s.Facets) {
			continue
		}
		out = append(out, r)
	}
	p.sort(out, s.Sort)
	return out
}

// Matches reports whether r passes both the text and the facet predicate.
func (p Pipeline) Matches(r Record, s ViewState) bool {
	schema := p.Schema.withDefaults()
	s = s.Normalized()
	return matchesQuery(schema.SearchText(r), strings.ToLower(s.Query)) &&
		matchesFacets(schema.FacetValues(r), s.Facets)
}

func matchesQuery(fields []string, needle string) bool {
	if needle == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// matchesFacets is true when values is a superset of active.
func matchesFacets(values, active []string) bool {
	if len(active) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(values))
	for _, v := range values {
		have[strings.TrimSpace(v)] = struct{}{}
	}
	for _, a := range active {
		if _, ok := have[a]; !ok {
			return false
		}
	}
	return true
}

func (p Pipeline) sort(list []Record, mode SortMode) {
	switch mode {
	case SortTitle:
		col := collatorOrDefault(p.Collator)
		sort.SliceStable(list, func(i, j int) bool {
			return col.Compare(list[i].Title, list[j].Title) < 0
		})
	default:
		// Dates are parsed once; a missing date stays the zero time, which is
		// older than anything parseable.
		dated := make([]struct {
			r Record
			t time.Time
		}, len(list))
		for i := range list {
			dated[i].r = list[i]
			dated[i].t, _ = ParseDate(list[i].Date)
		}
		sort.SliceStable(dated, func(i, j int) bool {
			return dated[i].t.After(dated[j].t)
		})
		for i := range dated {
			list[i] = dated[i].r
		}
	}
}
