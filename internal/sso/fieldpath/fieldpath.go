// Package fieldpath evaluates dotted/indexed path expressions over decoded
// JSON values, e.g. "data.attributes.email" or "items[0].id". Evaluation is
// total: missing keys, out-of-range indices and type mismatches yield
// "absent" instead of an error.
package fieldpath

import (
	"strconv"
	"strings"
)

// Lookup walks v along path and returns the addressed value. ok is false when
// any segment cannot be resolved. An empty path or nil root is absent.
func Lookup(v any, path string) (any, bool) {
	if path == "" || v == nil {
		return nil, false
	}
	for _, seg := range split(path) {
		if idx, isIndex := asIndex(seg); isIndex {
			arr, ok := v.([]any)
			if !ok || idx >= len(arr) {
				return nil, false
			}
			v = arr[idx]
			continue
		}
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok = obj[seg]
		if !ok {
			return nil, false
		}
	}
	if v == nil {
		return nil, false
	}
	return v, true
}

// String resolves path and coerces the result to a string. Numbers are
// formatted without a fractional part when whole, matching the way provider
// APIs serialize numeric IDs. Non-scalar results are absent.
func String(v any, path string) (string, bool) {
	raw, ok := Lookup(v, path)
	if !ok {
		return "", false
	}
	switch t := raw.(type) {
	case string:
		return t, true
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10), true
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// split tokenizes "a.b[0].c" into ["a", "b", "0", "c"]. Empty segments
// (doubled dots, stray brackets) are dropped.
func split(path string) []string {
	segs := strings.FieldsFunc(path, func(r rune) bool {
		return r == '.' || r == '[' || r == ']'
	})
	return segs
}

// asIndex reports whether seg is a pure decimal index.
func asIndex(seg string) (int, bool) {
	if seg == "" {
		return 0, false
	}
	for _, r := range seg {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(seg)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
