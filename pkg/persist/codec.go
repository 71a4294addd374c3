package persist

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/aretw0/showcase/pkg/core"
)

// Fragment keys.
const (
	KeyQuery = "q"
	KeyTag   = "tag"
	KeySort  = "sort"
)

// DurableVersion is written into every durable snapshot.
const DurableVersion = 1

// Partial is a ViewState decoded from one surface, recording which fields
// were present and well formed.
type Partial struct {
	Query     string
	HasQuery  bool
	Facets    []string
	HasFacets bool
	Sort      core.SortMode
	HasSort   bool
}

// Empty reports whether no field was present.
func (p Partial) Empty() bool {
	return !p.HasQuery && !p.HasFacets && !p.HasSort
}

// Over fills the fields absent from p with those of fallback.
func (p Partial) Over(fallback Partial) Partial {
	out := p
	if !out.HasQuery && fallback.HasQuery {
		out.Query, out.HasQuery = fallback.Query, true
	}
	if !out.HasFacets && fallback.HasFacets {
		out.Facets, out.HasFacets = fallback.Facets, true
	}
	if !out.HasSort && fallback.HasSort {
		out.Sort, out.HasSort = fallback.Sort, true
	}
	return out
}

// State converts p to a ViewState, using defaults for absent fields.
func (p Partial) State() core.ViewState {
	s := core.DefaultViewState()
	if p.HasQuery {
		s.Query = p.Query
	}
	if p.HasFacets {
		s.Facets = p.Facets
	}
	if p.HasSort {
		s.Sort = p.Sort
	}
	return s.Normalized()
}

// EncodeFragment renders s as a fragment payload without the leading '#'.
func EncodeFragment(s core.ViewState) string {
	s = s.Normalized()
	v := url.Values{}
	if s.Query != "" {
		v.Set(KeyQuery, s.Query)
	}
	for _, f := range s.Facets {
		v.Add(KeyTag, f)
	}
	if s.Sort != core.DefaultSortMode {
		v.Set(KeySort, string(s.Sort))
	}
	// QueryEscape turns spaces into '+'; literal '+' is already %2B.
	return strings.ReplaceAll(v.Encode(), "+", "%20")
}

// DecodeFragment parses a fragment payload. A leading '#' or '?' is ignored.
// Unknown keys and malformed pairs are dropped. The returned error reports
// the first malformed pair, for logging only.
func DecodeFragment(raw string) (Partial, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "#")
	raw = strings.TrimPrefix(raw, "?")
	if raw == "" {
		return Partial{}, nil
	}

	values, err := url.ParseQuery(raw)
	var p Partial
	if qs, ok := values[KeyQuery]; ok && len(qs) > 0 {
		p.Query, p.HasQuery = strings.TrimSpace(qs[len(qs)-1]), true
	}
	if tags := core.NormalizeTags(values[KeyTag]); len(tags) > 0 {
		p.Facets, p.HasFacets = tags, true
	}
	if ss, ok := values[KeySort]; ok && len(ss) > 0 {
		if mode, ok := core.ParseSortMode(ss[len(ss)-1]); ok {
			p.Sort, p.HasSort = mode, true
		}
	}
	return p, err
}

type durableSnapshot struct {
	Version int      `json:"version"`
	Query   string   `json:"query"`
	Tags    []string `json:"tags"`
	Sort    string   `json:"sort"`
}

// EncodeDurable renders s as the durable JSON snapshot.
func EncodeDurable(s core.ViewState) ([]byte, error) {
	s = s.Normalized()
	tags := s.Facets
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(durableSnapshot{
		Version: DurableVersion,
		Query:   s.Query,
		Tags:    tags,
		Sort:    string(s.Sort),
	})
}

// DecodeDurable parses a durable snapshot field by field, so one bad field
// does not discard the others. Unknown fields are ignored.
func DecodeDurable(data []byte) (Partial, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Partial{}, err
	}

	var p Partial
	if msg, ok := raw["query"]; ok {
		var q string
		if json.Unmarshal(msg, &q) == nil {
			p.Query, p.HasQuery = strings.TrimSpace(q), true
		}
	}
	if msg, ok := raw["tags"]; ok {
		var tags []string
		if json.Unmarshal(msg, &tags) == nil {
			p.Facets, p.HasFacets = core.NormalizeTags(tags), true
		}
	}
	if msg, ok := raw["sort"]; ok {
		var s string
		if json.Unmarshal(msg, &s) == nil {
			if mode, ok := core.ParseSortMode(s); ok {
				p.Sort, p.HasSort = mode, true
			}
		}
	}
	return p, nil
}
