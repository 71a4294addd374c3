package fs

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/showcase/pkg/core"
)

// Decoder turns the content of one data file into raw records.
type Decoder func(data []byte) ([]map[string]any, error)

// DefaultDecoders returns the decoders keyed by file extension.
func DefaultDecoders() map[string]Decoder {
	return map[string]Decoder{
		".json": DecodeJSON,
		".yaml": DecodeYAML,
		".yml":  DecodeYAML,
		".md":   DecodeMarkdown,
		".csv":  DecodeCSV,
	}
}

// DecodeJSON accepts a list of records, an object with an "items" list, or a
// single record. Numbers are kept as written.
func DecodeJSON(data []byte) ([]map[string]any, error) {
	var payload any
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return rawRecords(payload)
}

// DecodeYAML accepts the same shapes as DecodeJSON.
func DecodeYAML(data []byte) ([]map[string]any, error) {
	var payload any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	return rawRecords(payload)
}

// DecodeMarkdown reads one record from YAML frontmatter. The body becomes
// the "content" field.
func DecodeMarkdown(data []byte) ([]map[string]any, error) {
	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		return nil, errors.New("markdown record has no frontmatter")
	}

	rest := data[3:]
	parts := bytes.SplitN(rest, []byte("\n---"), 2)
	if len(parts) == 1 {
		return nil, errors.New("frontmatter started but no closing delimiter found")
	}

	meta := make(map[string]any)
	if err := yaml.Unmarshal(parts[0], &meta); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	body := strings.TrimLeft(string(parts[1]), "-")
	if body = strings.TrimSpace(body); body != "" {
		meta["content"] = body
	}
	return []map[string]any{meta}, nil
}

// DecodeCSV reads one record per row, keyed by the header row.
func DecodeCSV(data []byte) ([]map[string]any, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := rows[0]
	out := make([]map[string]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != len(headers) {
			return nil, fmt.Errorf("csv row length mismatch")
		}
		m := make(map[string]any, len(headers))
		for i, h := range headers {
			m[strings.TrimSpace(h)] = UnmarshalCSVValue(row[i])
		}
		out = append(out, m)
	}
	return out, nil
}

// UnmarshalCSVValue parses a cell as JSON if it looks like a list or object.
// Otherwise the trimmed string is returned.
//
// CAVEAT: a raw string that happens to be valid JSON (e.g. "[1]") is
// interpreted as JSON.
func UnmarshalCSVValue(val string) any {
	val = strings.TrimSpace(val)
	if (strings.HasPrefix(val, "{") && strings.HasSuffix(val, "}")) ||
		(strings.HasPrefix(val, "[") && strings.HasSuffix(val, "]")) {
		var parsed any
		if err := json.Unmarshal([]byte(val), &parsed); err == nil {
			return parsed
		}
	}
	return val
}

func rawRecords(payload any) ([]map[string]any, error) {
	switch v := payload.(type) {
	case nil:
		return nil, nil
	case []any:
		return rawList(v)
	case map[string]any:
		if items, ok := v["items"].([]any); ok {
			return rawList(items)
		}
		return []map[string]any{v}, nil
	default:
		return nil, fmt.Errorf("unsupported document of type %T", payload)
	}
}

func rawList(items []any) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("item %d is %T, not an object", i, item)
		}
		out = append(out, m)
	}
	return out, nil
}

// Field aliases, canonical name first.
var (
	titleKeys       = []string{"title", "name", "course"}
	descriptionKeys = []string{"description", "desc", "details", "content"}
	tagKeys         = []string{"tags", "topics"}
	dateKeys        = []string{"date", "when"}
	linkKeys        = []string{"link", "url"}
)

// RecordFrom maps a raw record onto core.Record. Keys are matched case
// insensitively; scalar values under other keys are kept in Fields.
func RecordFrom(raw map[string]any) core.Record {
	lowered := make(map[string]any, len(raw))
	for k, v := range raw {
		lowered[strings.ToLower(strings.TrimSpace(k))] = v
	}

	used := make(map[string]bool)
	pick := func(keys []string) any {
		for _, k := range keys {
			if v, ok := lowered[k]; ok && v != nil {
				used[k] = true
				return v
			}
		}
		return nil
	}

	r := core.Record{
		Title:       scalarString(pick(titleKeys)),
		Description: scalarString(pick(descriptionKeys)),
		Tags:        tagList(pick(tagKeys)),
		Date:        dateString(pick(dateKeys)),
		Link:        scalarString(pick(linkKeys)),
	}

	keys := make([]string, 0, len(lowered))
	for k := range lowered {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if used[k] || isAlias(k) {
			continue
		}
		s, ok := scalar(lowered[k])
		if !ok {
			continue
		}
		if r.Fields == nil {
			r.Fields = make(map[string]string)
		}
		r.Fields[k] = s
	}
	return r
}

func isAlias(k string) bool {
	for _, group := range [][]string{titleKeys, descriptionKeys, tagKeys, dateKeys, linkKeys} {
		for _, alias := range group {
			if alias == k {
				return true
			}
		}
	}
	return false
}

func scalar(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return strings.TrimSpace(x), true
	case json.Number:
		return x.String(), true
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(x), true
	case time.Time:
		return x.Format(time.RFC3339), true
	default:
		return "", false
	}
}

func scalarString(v any) string {
	s, _ := scalar(v)
	return s
}

// dateString keeps dates the way they were written; YAML timestamps come
// back as time.Time and are rendered as a calendar day when they have no
// time component.
func dateString(v any) string {
	if t, ok := v.(time.Time); ok {
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format("2006-01-02")
		}
		return t.Format(time.RFC3339)
	}
	return scalarString(v)
}

func tagList(v any) []string {
	switch x := v.(type) {
	case []any:
		tags := make([]string, 0, len(x))
		for _, item := range x {
			if s, ok := scalar(item); ok {
				tags = append(tags, s)
			}
		}
		return core.NormalizeTags(tags)
	case []string:
		return core.NormalizeTags(x)
	case string:
		return core.NormalizeTags(strings.FieldsFunc(x, func(r rune) bool { return r == ';' || r == ',' }))
	default:
		return nil
	}
}
