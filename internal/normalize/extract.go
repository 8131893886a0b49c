// Package normalize turns loosely-typed upstream listing records into the
// canonical domain model. Every function here is pure, performs no I/O, and
// degrades to a zero value instead of failing on an unrecognized shape:
// upstream shape drift is routine, not exceptional.
package normalize

import (
	"strconv"
	"strings"
)

// Record is a raw upstream JSON object. Its shape is not trusted.
type Record = map[string]any

// displayNameKeys is the secondary key order probed when a candidate value
// turns out to be an object rather than a primitive.
var displayNameKeys = []string{"name", "Name", "NameEN", "title", "label", "value"}

// FirstString tries each candidate key in order and returns the first value
// coercible to a non-empty trimmed string. Primitive values are coerced
// directly; object values are probed with displayNameKeys; arrays are
// skipped (use Names for list-shaped fields).
func FirstString(rec Record, keys ...string) string {
	if rec == nil {
		return ""
	}
	for _, key := range keys {
		if s := coerceString(rec[key]); s != "" {
			return s
		}
	}
	return ""
}

// FirstNumber tries each candidate key in order and returns the first value
// coercible to a number.
func FirstNumber(rec Record, keys ...string) (float64, bool) {
	if rec == nil {
		return 0, false
	}
	for _, key := range keys {
		if f, ok := coerceNumber(rec[key]); ok {
			return f, true
		}
	}
	return 0, false
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return formatNumber(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case map[string]any:
		for _, key := range displayNameKeys {
			switch inner := t[key].(type) {
			case string:
				if s := strings.TrimSpace(inner); s != "" {
					return s
				}
			case float64:
				return formatNumber(inner)
			}
		}
		return ""
	default:
		return ""
	}
}

func coerceNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// formatNumber renders a JSON number without a trailing ".0" so numeric ids
// and years coerce to the same string an integer source would produce.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// child returns a nested object value, or nil when the key holds anything
// else. Arrays of objects yield their first element, a shape the upstream
// uses for its omdb payload.
func child(rec Record, key string) Record {
	if rec == nil {
		return nil
	}
	switch t := rec[key].(type) {
	case map[string]any:
		return t
	case []any:
		if len(t) > 0 {
			if first, ok := t[0].(map[string]any); ok {
				return first
			}
		}
		return nil
	default:
		return nil
	}
}

func items(rec Record, key string) []any {
	if rec == nil {
		return nil
	}
	arr, _ := rec[key].([]any)
	return arr
}
