package normalize

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/dr-cinema/dr-cinema/internal/domain"
)

// FuzzMovieFromArbitraryJSON feeds arbitrary JSON objects through the full
// movie normalizer and checks the shape invariants hold: no panic, list
// fields contain only non-empty strings, and a Rotten Tomatoes score is
// never a bare confirmed zero.
func FuzzMovieFromArbitraryJSON(f *testing.F) {
	seeds := []string{
		`{}`,
		`{"title": "A", "genres": "Action, Drama"}`,
		`{"_id": 1, "genres": [{"name": "Action"}], "ratings": {"rotten_critics": "0"}}`,
		`{"showtimes": [{"cinema": {"id": "5"}, "schedule": [{"time": "20:00"}]}]}`,
		`{"rating": "{\"is\": \"12\"}", "omdb": [{"tomatoMeter": "92"}]}`,
		`{"schedule": [{"startsAt": "2026-01-01T20:00:00Z"}], "trailers": [{"id": 550}]}`,
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		var rec Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return
		}

		m := Movie(rec)

		for _, list := range [][]string{m.Actors, m.Directors, m.Writers, m.Genres} {
			for _, name := range list {
				if name == "" {
					t.Fatalf("empty string survived name normalization: %#v", rec)
				}
			}
		}
		if rt := m.Ratings; rt != nil && rt.RottenTomatoes != nil {
			if rt.RottenTomatoes.State == domain.RTResolved && rt.RottenTomatoes.Score == 0 {
				t.Fatalf("bare zero Rotten Tomatoes score: %#v", rec)
			}
		}
		for _, st := range m.Showtimes {
			if st.PurchaseURL == "undefined" {
				t.Fatalf("literal undefined purchase url: %#v", rec)
			}
		}
	})
}

// FuzzContentRating checks the rating coercion never panics and never
// returns whitespace-only output.
func FuzzContentRating(f *testing.F) {
	for _, seed := range []string{`"PG-13"`, `12`, `{"is": "12 ára"}`, `"{\"number\": 16}"`, `null`, `[{"name": "R"}]`} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return
		}
		got := ContentRating(v)
		if got != strings.TrimSpace(got) {
			t.Fatalf("untrimmed content rating %q from %s", got, raw)
		}
	})
}
