// Package core holds the faceted list domain: records, view state, the
// filter-sort pipeline, the highlighter and the controller that ties them to
// persistence and rendering ports.
package core

import (
	"strings"
	"time"
)

// Record is one catalog entry (a project, a course, an achievement).
// Records are read-only to the core.
type Record struct {
	Title       string            `json:"title" yaml:"title"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string          `json:"tags,omitempty" yaml:"tags,omitempty"`
	Date        string            `json:"date,omitempty" yaml:"date,omitempty"`
	Link        string            `json:"link,omitempty" yaml:"link,omitempty"`
	Fields      map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Field returns the value of a named field. Known names map to the struct
// fields; anything else is looked up in Fields.
func (r Record) Field(name string) string {
	switch name {
	case "title":
		return r.Title
	case "description":
		return r.Description
	case "tags":
		return strings.Join(r.Tags, " ")
	case "date":
		return r.Date
	case "link":
		return r.Link
	}
	return r.Fields[name]
}

// Collection is the ordered snapshot of records for one catalog.
type Collection struct {
	records []Record
}

// NewCollection copies records into an immutable Collection.
// Tags of every record are normalized.
func NewCollection(records []Record) Collection {
	out := make([]Record, len(records))
	for i, r := range records {
		r.Tags = NormalizeTags(r.Tags)
		if r.Fields != nil {
			fields := make(map[string]string, len(r.Fields))
			for k, v := range r.Fields {
				fields[k] = v
			}
			r.Fields = fields
		}
		out[i] = r
	}
	return Collection{records: out}
}

// Len returns the number of records.
func (c Collection) Len() int { return len(c.records) }

// At returns the i-th record.
func (c Collection) At(i int) Record { return c.records[i] }

// Records returns a copy of the records in collection order.
func (c Collection) Records() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// NormalizeTags trims tag values, drops blanks and removes duplicates while
// keeping the order of first occurrence.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01",
}

// ParseDate parses the loose date formats found in catalog data.
// A bare year ("2023") means the last day of that year so it sorts after
// dated entries from the same year. ok is false for missing or unparseable
// values, which sort as the oldest possible date.
func ParseDate(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if len(s) == 4 {
		y, err := time.Parse("2006", s)
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(y.Year(), time.December, 31, 0, 0, 0, 0, time.UTC), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
