package search

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cast"
)

// FuzzyMatch reports whether pattern matches value case-insensitively,
// either as a substring or as an in-order subsequence of characters.
// An empty pattern matches everything.
func FuzzyMatch(value, pattern string) bool {
	if pattern == "" {
		return true
	}

	v := strings.ToLower(value)
	p := strings.ToLower(pattern)
	if strings.Contains(v, p) {
		return true
	}

	want := []rune(p)
	i := 0
	for _, r := range v {
		if i == len(want) {
			break
		}
		if r == want[i] {
			i++
		}
	}
	return i == len(want)
}

// Filter returns the items for which any field matches query. Fields are
// JSON field paths in dot notation ("client.name"). A blank query returns
// items unchanged.
func Filter[T any](items []T, fields []string, query string) []T {
	if strings.TrimSpace(query) == "" {
		return items
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		doc := toDocument(item)
		for _, f := range fields {
			if v, ok := lookup(doc, f); ok && FuzzyMatch(v, query) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// FieldValue resolves a dot path against item's JSON form
func FieldValue(item interface{}, path string) (string, bool) {
	return lookup(toDocument(item), path)
}

func toDocument(item interface{}) interface{} {
	switch item.(type) {
	case map[string]interface{}, string:
		return item
	}
	data, err := json.Marshal(item)
	if err != nil {
		return nil
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	return doc
}

// lookup walks the path and returns the leaf as a string. Empty, zero and
// false leaves count as missing, as do objects and arrays.
func lookup(doc interface{}, path string) (string, bool) {
	cur := doc
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return "", false
		}
		cur, ok = m[key]
		if !ok {
			return "", false
		}
	}

	switch v := cur.(type) {
	case nil:
		return "", false
	case string:
		return v, v != ""
	case bool:
		return "true", v
	case float64:
		return cast.ToString(v), v != 0
	case map[string]interface{}, []interface{}:
		return "", false
	default:
		s := cast.ToString(v)
		return s, s != ""
	}
}
