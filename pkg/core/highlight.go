package core

import (
	"html"
	"regexp"
	"strings"
)

// Segment is a run of display text, either matching the query or not.
type Segment struct {
	Text  string `json:"text"`
	Match bool   `json:"match,omitempty"`
}

// Highlight splits text into segments, marking every case-insensitive,
// non-overlapping occurrence of query. The query is matched literally.
// An empty query returns the text as a single unmatched segment.
func Highlight(text, query string) []Segment {
	query = strings.TrimSpace(strings.ToValidUTF8(query, ""))
	if text == "" {
		return nil
	}
	if query == "" {
		return []Segment{{Text: text}}
	}

	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		return []Segment{{Text: text}}
	}
	locs := re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []Segment{{Text: text}}
	}

	out := make([]Segment, 0, 2*len(locs)+1)
	last := 0
	for _, loc := range locs {
		if loc[0] > last {
			out = append(out, Segment{Text: text[last:loc[0]]})
		}
		out = append(out, Segment{Text: text[loc[0]:loc[1]], Match: true})
		last = loc[1]
	}
	if last < len(text) {
		out = append(out, Segment{Text: text[last:]})
	}
	return out
}

// Marker renders segments to a string, wrapping matches in Open/Close.
// Escape, if set, is applied to every segment's text before wrapping.
type Marker struct {
	Open   string
	Close  string
	Escape func(string) string
}

// HTMLMarker wraps matches in <mark> and HTML-escapes all text.
func HTMLMarker() Marker {
	return Marker{Open: "<mark>", Close: "</mark>", Escape: html.EscapeString}
}

// PlainMarker wraps matches without escaping anything.
func PlainMarker(open, close string) Marker {
	return Marker{Open: open, Close: close}
}

// Render joins segments into the marked-up string.
func (m Marker) Render(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		text := s.Text
		if m.Escape != nil {
			text = m.Escape(text)
		}
		if s.Match {
			b.WriteString(m.Open)
			b.WriteString(text)
			b.WriteString(m.Close)
			continue
		}
		b.WriteString(text)
	}
	return b.String()
}

// Mark highlights text for query and renders it with m.
func (m Marker) Mark(text, query string) string {
	return m.Render(Highlight(text, query))
}
