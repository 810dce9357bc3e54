package normalize

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Field extraction helpers. Legacy documents are duck-typed maps, so every
// read goes through a tolerant accessor that knows the handful of encodings
// a number or string can arrive in.

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, true
		}
	}
	return 0, false
}

// firstString returns the first non-empty string found walking the given
// maps in priority order, trying every key against each map.
func firstString(maps []map[string]any, keys ...string) (string, bool) {
	for _, m := range maps {
		if m == nil {
			continue
		}
		for _, k := range keys {
			if s, ok := asString(m[k]); ok {
				return s, true
			}
		}
	}
	return "", false
}

func firstInt(maps []map[string]any, keys ...string) (int, bool) {
	for _, m := range maps {
		if m == nil {
			continue
		}
		for _, k := range keys {
			if v, exists := m[k]; exists {
				if i, ok := asInt(v); ok {
					return i, true
				}
			}
		}
	}
	return 0, false
}

var digitsRE = regexp.MustCompile(`\d+`)

// digitsIn extracts the first run of digits embedded in a string, for
// identifiers like "unit07" or "CA-DE-ONLINE-U12".
func digitsIn(s string) (int, bool) {
	m := digitsRE.FindString(s)
	if m == "" {
		return 0, false
	}
	i, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return i, true
}

func stringList(v any) []string {
	var out []string
	for _, item := range asSlice(v) {
		if s, ok := asString(item); ok {
			out = append(out, s)
		}
	}
	return out
}

func collapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, " ")
}

func cleanText(s string) string {
	return collapseWhitespace(sanitizeUTF8(s))
}

// stringifyJSON renders an unrecognized content item as compact JSON so it
// survives normalization as a paragraph instead of being dropped.
func stringifyJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
