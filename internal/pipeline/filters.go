package pipeline

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dr-cinema/dr-cinema/internal/domain"
)

// Filters narrows a movie collection. The upstream supports some of these
// natively; every filter is re-applied client-side regardless, since
// upstream support varies by deployment.
type Filters struct {
	Title             string
	IMDbMin           float64
	RottenTomatoesMin int
	StartsAfter       time.Time
	StartsBefore      time.Time
	Actor             string
	Director          string
	ContentRating     string
	CinemaID          string
}

// Query maps the filters onto the upstream query-string parameters.
func (f Filters) Query() url.Values {
	query := url.Values{}
	if f.Title != "" {
		query.Set("title", f.Title)
	}
	if f.IMDbMin > 0 {
		query.Set("imdb_rating", strconv.FormatFloat(f.IMDbMin, 'f', -1, 64))
	}
	if f.RottenTomatoesMin > 0 {
		query.Set("rotten_tomatoes_rating", strconv.Itoa(f.RottenTomatoesMin))
	}
	if !f.StartsAfter.IsZero() {
		query.Set("starts_after", f.StartsAfter.Format(time.RFC3339))
	}
	if !f.StartsBefore.IsZero() {
		query.Set("starts_before", f.StartsBefore.Format(time.RFC3339))
	}
	if f.Actor != "" {
		query.Set("actors", f.Actor)
	}
	if f.Director != "" {
		query.Set("directors", f.Director)
	}
	if f.ContentRating != "" {
		query.Set("pg_rating", f.ContentRating)
	}
	if f.CinemaID != "" {
		query.Set("cinema", f.CinemaID)
	}
	if len(query) == 0 {
		return nil
	}
	return query
}

// Match reports whether a normalized movie passes every client-side filter.
// The cinema and time-window filters act on showtimes and are applied by
// the orchestrator, not here.
func (f Filters) Match(movie domain.Movie) bool {
	if f.Title != "" && !containsFold(movie.Title, f.Title) {
		return false
	}
	if f.IMDbMin > 0 {
		if movie.Ratings == nil || movie.Ratings.IMDb == nil || *movie.Ratings.IMDb < f.IMDbMin {
			return false
		}
	}
	if f.RottenTomatoesMin > 0 {
		if movie.Ratings == nil || !movie.Ratings.RottenTomatoes.Resolved() ||
			movie.Ratings.RottenTomatoes.Score < f.RottenTomatoesMin {
			return false
		}
	}
	if f.Actor != "" && !anyContainsFold(movie.Actors, f.Actor) {
		return false
	}
	if f.Director != "" && !anyContainsFold(movie.Directors, f.Director) {
		return false
	}
	if f.ContentRating != "" && !strings.EqualFold(movie.Rating, f.ContentRating) {
		return false
	}
	return true
}

// matchShowtime applies the showtime-level filters: cinema scoping and the
// time window.
func (f Filters) matchShowtime(st domain.ShowTime) bool {
	if f.CinemaID != "" && st.CinemaID != f.CinemaID && !containsEitherFold(st.CinemaName, f.CinemaID) {
		return false
	}
	if !f.StartsAfter.IsZero() || !f.StartsBefore.IsZero() {
		at, ok := showtimeInstant(st)
		if !ok {
			return false
		}
		if !f.StartsAfter.IsZero() && at.Before(f.StartsAfter) {
			return false
		}
		if !f.StartsBefore.IsZero() && at.After(f.StartsBefore) {
			return false
		}
	}
	return true
}

func (f Filters) hasShowtimeFilter() bool {
	return f.CinemaID != "" || !f.StartsAfter.IsZero() || !f.StartsBefore.IsZero()
}

func showtimeInstant(st domain.ShowTime) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04"} {
		if at, err := time.Parse(layout, st.StartsAt); err == nil {
			return at, true
		}
	}
	return time.Time{}, false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// containsEitherFold matches case-insensitively by substring containment in
// either direction, matching the leniency of showtime cinema filtering.
func containsEitherFold(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

func anyContainsFold(values []string, needle string) bool {
	for _, v := range values {
		if containsFold(v, needle) {
			return true
		}
	}
	return false
}
