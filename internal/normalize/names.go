package normalize

import "strings"

// Names turns a heterogeneous "list of named things" value (genres, cast
// lists) into an ordered list of display strings. Accepted shapes: an array
// of strings, an array of name-bearing objects, a comma-joined string, or a
// single object. Returns nil when nothing usable was found so callers can
// fall through to the next candidate source.
func Names(v any) []string {
	return names(v, false)
}

// CreditNames behaves like Names but additionally splits string values on
// the literal " and ", the joiner OMDb-style credit strings use.
func CreditNames(v any) []string {
	return names(v, true)
}

func names(v any, credits bool) []string {
	switch t := v.(type) {
	case []any:
		var out []string
		for _, elem := range t {
			if s := coerceString(elem); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		return splitNames(t, credits)
	case map[string]any:
		if s := coerceString(t); s != "" {
			return []string{s}
		}
		return nil
	default:
		return nil
	}
}

func splitNames(s string, credits bool) []string {
	if credits {
		s = strings.ReplaceAll(s, " and ", ",")
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// NamesFrom chains candidate source fields and returns the first that
// normalizes to a non-empty list.
func NamesFrom(rec Record, keys ...string) []string {
	return namesFrom(rec, false, keys)
}

// CreditNamesFrom is NamesFrom with credit-string splitting.
func CreditNamesFrom(rec Record, keys ...string) []string {
	return namesFrom(rec, true, keys)
}

func namesFrom(rec Record, credits bool, keys []string) []string {
	if rec == nil {
		return nil
	}
	for _, key := range keys {
		if out := names(rec[key], credits); len(out) > 0 {
			return out
		}
	}
	return nil
}
