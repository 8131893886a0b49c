package normalize

import (
	"strings"

	"github.com/dr-cinema/dr-cinema/internal/domain"
)

// Dedupe removes items sharing a key while preserving first-occurrence
// order. Items whose key is empty are always kept.
func Dedupe[T any](list []T, key func(T) string) []T {
	seen := make(map[string]struct{}, len(list))
	out := make([]T, 0, len(list))
	for _, item := range list {
		k := key(item)
		if k != "" {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
		}
		out = append(out, item)
	}
	return out
}

// MovieKey returns the dedup key for a normalized movie: the stable id, or
// a composite of title, poster and year so genuinely distinct unidentified
// records are not collapsed.
func MovieKey(m domain.Movie) string {
	if m.ID != "" {
		return m.ID
	}
	return strings.Join([]string{m.Title, m.Poster, m.Year}, "|")
}

// CinemaKey returns the dedup key for a normalized cinema.
func CinemaKey(c domain.Cinema) string {
	if c.ID != "" {
		return c.ID
	}
	return c.Name
}
