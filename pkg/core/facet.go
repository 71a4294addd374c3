package core

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator compares strings in a locale-aware order.
// collate.Collator keeps an internal buffer, so access is serialized.
type Collator struct {
	mu  sync.Mutex
	col *collate.Collator
}

// NewCollator creates a Collator for the given language tag.
func NewCollator(tag language.Tag) *Collator {
	return &Collator{col: collate.New(tag)}
}

// Compare returns -1, 0 or 1.
func (c *Collator) Compare(a, b string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.col.CompareString(a, b)
}

var defaultCollator = NewCollator(language.Und)

func collatorOrDefault(c *Collator) *Collator {
	if c == nil {
		return defaultCollator
	}
	return c
}

// Schema tells the pipeline which record fields feed text search and which
// supply the facet domain.
type Schema struct {
	SearchText  func(Record) []string
	FacetValues func(Record) []string
}

// DefaultSchema searches title, description and joined tags, and facets on tags.
func DefaultSchema() Schema {
	return Schema{
		SearchText: func(r Record) []string {
			return []string{r.Title, r.Description, strings.Join(r.Tags, " ")}
		},
		FacetValues: func(r Record) []string {
			return r.Tags
		},
	}
}

// FieldSchema builds a Schema from field names (see Record.Field).
// A facet field other than "tags" yields one facet value per record.
func FieldSchema(search []string, facet string) Schema {
	s := Schema{
		SearchText: func(r Record) []string {
			out := make([]string, len(search))
			for i, name := range search {
				out[i] = r.Field(name)
			}
			return out
		},
	}
	if facet == "" || facet == "tags" {
		s.FacetValues = func(r Record) []string { return r.Tags }
	} else {
		s.FacetValues = func(r Record) []string {
			if v := strings.TrimSpace(r.Field(facet)); v != "" {
				return []string{v}
			}
			return nil
		}
	}
	return s
}

func (s Schema) withDefaults() Schema {
	d := DefaultSchema()
	if s.SearchText == nil {
		s.SearchText = d.SearchText
	}
	if s.FacetValues == nil {
		s.FacetValues = d.FacetValues
	}
	return s
}

// FacetIndex is the sorted domain of distinct facet values in a Collection.
type FacetIndex []string

// Contains reports whether v is part of the index.
func (fi FacetIndex) Contains(v string) bool {
	for _, f := range fi {
		if f == v {
			return true
		}
	}
	return false
}

// BuildFacetIndex unions the facet values of every record and returns them
// in collated ascending order.
func BuildFacetIndex(c Collection, schema Schema, col *Collator) FacetIndex {
	schema = schema.withDefaults()
	col = collatorOrDefault(col)

	seen := make(map[string]struct{})
	out := FacetIndex{}
	for _, r := range c.records {
		for _, v := range schema.FacetValues(r) {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return col.Compare(out[i], out[j]) < 0
	})
	return out
}

// FacetCounts returns how many records carry each facet value.
func FacetCounts(c Collection, schema Schema) map[string]int {
	schema = schema.withDefaults()
	out := make(map[string]int)
	for _, r := range c.records {
		seen := make(map[string]bool)
		for _, v := range schema.FacetValues(r) {
			v = strings.TrimSpace(v)
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out[v]++
		}
	}
	return out
}
