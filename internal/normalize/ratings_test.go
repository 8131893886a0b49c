package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dr-cinema/dr-cinema/internal/domain"
)

func TestContentRatingShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain string", `{"v": "PG-13"}`, "PG-13"},
		{"untrimmed string", `{"v": "  16  "}`, "16"},
		{"number", `{"v": 12}`, "12"},
		{"is object", `{"v": {"is": "12 ára", "color": "red"}}`, "12 ára"},
		{"number plus suffix", `{"v": {"number": "12", "suffix": " ára"}}`, "12 ára"},
		{"number without suffix", `{"v": {"number": 16}}`, "16"},
		{"name object", `{"v": {"name": "Bönnuð innan 16"}}`, "Bönnuð innan 16"},
		{"omdb Rated object", `{"v": {"Rated": "R"}}`, "R"},
		{"generic fallback value", `{"v": {"code": "L"}}`, "L"},
		{"serialized certificate object", `{"v": "{\"is\": \"12 ára\"}"}`, "12 ára"},
		{"serialized array", `{"v": "[{\"name\": \"PG\"}]"}`, "PG"},
		{"unparseable braces keep raw", `{"v": "{broken"}`, "{broken"},
		{"empty string", `{"v": ""}`, ""},
		{"unusable object", `{"v": {"color": "red"}}`, ""},
		{"null", `{"v": null}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := record(t, tt.raw)
			require.Equal(t, tt.want, ContentRating(rec["v"]))
		})
	}
}

func TestMovieContentRatingCandidateOrder(t *testing.T) {
	rec := record(t, `{"certificateIS": "12 ára", "omdb": {"rated": "PG-13"}}`)
	require.Equal(t, "12 ára", MovieContentRating(rec))

	rec = record(t, `{"omdb": [{"Rated": "R"}]}`)
	require.Equal(t, "R", MovieContentRating(rec))
}

func TestRatingsIMDb(t *testing.T) {
	rec := record(t, `{"ratings": {"imdb": "7.8"}}`)
	got := Ratings(rec)
	require.NotNil(t, got)
	require.NotNil(t, got.IMDb)
	require.InDelta(t, 7.8, *got.IMDb, 0.001)

	rec = record(t, `{"omdb": [{"imdbRating": "8.1"}]}`)
	got = Ratings(rec)
	require.NotNil(t, got.IMDb)
	require.InDelta(t, 8.1, *got.IMDb, 0.001)

	rec = record(t, `{"ratings": {"imdb": "N/A"}, "omdb": {"imdbRating": "6.5"}}`)
	got = Ratings(rec)
	require.NotNil(t, got.IMDb)
	require.InDelta(t, 6.5, *got.IMDb, 0.001)
}

func TestRatingsRottenTomatoesCandidates(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"omdb array tomatoMeter", `{"omdb": [{"tomatoMeter": "92"}]}`, 92},
		{"omdb object tomatoMeter", `{"omdb": {"tomatoMeter": 85}}`, 85},
		{"rotten critics", `{"ratings": {"rotten_critics": "74"}}`, 74},
		{"rotten audience fallback", `{"ratings": {"rotten_critics": "0", "rotten_audience": "81"}}`, 81},
		{"omdb tomatoRating percent string", `{"omdb": {"tomatoRating": "67%"}}`, 67},
		{"meter wins over critics", `{"omdb": {"tomatoMeter": "90"}, "ratings": {"rotten_critics": "50"}}`, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratings(record(t, tt.raw))
			require.NotNil(t, got)
			require.True(t, got.RottenTomatoes.Resolved())
			require.Equal(t, tt.want, got.RottenTomatoes.Score)
		})
	}
}

func TestRatingsZeroBecomesConfirmedAbsent(t *testing.T) {
	got := Ratings(record(t, `{"ratings": {"rotten_critics": "0"}}`))
	require.NotNil(t, got)
	require.NotNil(t, got.RottenTomatoes)
	require.Equal(t, domain.RTAbsent, got.RottenTomatoes.State)
	require.False(t, got.RottenTomatoes.Resolved())

	// The wire form is the literal string "N/A", never a bare 0.
	payload, err := json.Marshal(got)
	require.NoError(t, err)
	require.JSONEq(t, `{"rottenTomatoes": "N/A"}`, string(payload))
}

func TestRatingsAbsentWhenNoCandidates(t *testing.T) {
	got := Ratings(record(t, `{"ratings": {"imdb": "7.0"}}`))
	require.NotNil(t, got)
	require.Equal(t, domain.RTAbsent, got.RottenTomatoes.State)
}

func TestRatingsNilWhenNothingToCheck(t *testing.T) {
	require.Nil(t, Ratings(record(t, `{"title": "No ratings at all"}`)))
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"92%", 92, true},
		{"92", 92, true},
		{" 74 % fresh", 74, true},
		{"0", 0, true},
		{"N/A", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParsePercent(tt.in)
		require.Equal(t, tt.ok, ok, "input %q", tt.in)
		require.Equal(t, tt.want, got, "input %q", tt.in)
	}
}
