package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dr-cinema/dr-cinema/internal/domain"
)

func TestDedupeKeepsFirstOccurrence(t *testing.T) {
	movies := []domain.Movie{
		{ID: "1", Title: "First", Poster: "poster-a.jpg"},
		{ID: "2", Title: "Second"},
		{ID: "1", Title: "First", Poster: "poster-b.jpg"},
	}

	got := Dedupe(movies, MovieKey)
	require.Len(t, got, 2)
	require.Equal(t, "poster-a.jpg", got[0].Poster)
	require.Equal(t, "2", got[1].ID)
}

func TestDedupeIdempotent(t *testing.T) {
	movies := []domain.Movie{
		{ID: "1"}, {ID: "2"}, {ID: "1"}, {ID: "3"}, {ID: "2"},
	}
	once := Dedupe(movies, MovieKey)
	twice := Dedupe(once, MovieKey)
	require.Equal(t, once, twice)
}

func TestDedupeCompositeFallbackKey(t *testing.T) {
	movies := []domain.Movie{
		{Title: "Untitled", Poster: "a.jpg", Year: "2020"},
		{Title: "Untitled", Poster: "b.jpg", Year: "2020"},
		{Title: "Untitled", Poster: "a.jpg", Year: "2020"},
	}

	got := Dedupe(movies, MovieKey)
	// Distinct posters keep both unidentified records apart.
	require.Len(t, got, 2)
}

func TestDedupeNumericAndStringIDsCollapse(t *testing.T) {
	// Identifier normalization happens before dedup, so a numeric and a
	// string id for the same movie arrive here as the same string.
	a := Movie(record(t, `{"_id": 17, "title": "Same"}`))
	b := Movie(record(t, `{"_id": "17", "title": "Same"}`))
	got := Dedupe([]domain.Movie{a, b}, MovieKey)
	require.Len(t, got, 1)
}
