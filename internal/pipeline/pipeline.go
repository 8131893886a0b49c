// Package pipeline composes the upstream source, normalization, and rating
// enrichment into the data-access surface the HTTP layer consumes.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/dr-cinema/dr-cinema/internal/domain"
	"github.com/dr-cinema/dr-cinema/internal/normalize"
)

// ErrMovieNotFound is returned when a title lookup matches no listing.
var ErrMovieNotFound = fmt.Errorf("pipeline: movie not found")

// Source fetches raw collections from the primary listings provider.
type Source interface {
	Movies(ctx context.Context, query url.Values) ([]normalize.Record, error)
	Upcoming(ctx context.Context) ([]normalize.Record, error)
	Theaters(ctx context.Context) ([]normalize.Record, error)
	MovieShowtimes(ctx context.Context, movieID, cinemaID string) ([]normalize.Record, error)
}

// Enricher fills missing Rotten Tomatoes scores in place.
type Enricher interface {
	Movie(ctx context.Context, movie *domain.Movie)
	Collection(ctx context.Context, movies []domain.Movie)
}

// Pipeline is the orchestrator. Raw records flow through normalization,
// deduplication, enrichment, and client-side filtering, in that order.
type Pipeline struct {
	source   Source
	enricher Enricher
	logger   *log.Logger
}

// New constructs the orchestrator. enricher may be nil when no secondary
// provider is configured.
func New(source Source, enricher Enricher, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{source: source, enricher: enricher, logger: logger}
}

// FetchMovies returns the current listings, filtered.
func (p *Pipeline) FetchMovies(ctx context.Context, filters Filters) ([]domain.Movie, error) {
	records, err := p.source.Movies(ctx, filters.Query())
	if err != nil {
		return nil, err
	}

	movies := make([]domain.Movie, 0, len(records))
	for _, rec := range records {
		movies = append(movies, normalize.Movie(rec))
	}
	movies = normalize.Dedupe(movies, normalize.MovieKey)

	if p.enricher != nil {
		p.enricher.Collection(ctx, movies)
	}

	filtered := movies[:0]
	for _, movie := range movies {
		if !filters.Match(movie) {
			continue
		}
		if filters.hasShowtimeFilter() {
			movie.Showtimes = filterShowtimes(movie.Showtimes, filters)
			if len(movie.Showtimes) == 0 {
				continue
			}
		}
		filtered = append(filtered, movie)
	}
	return filtered, nil
}

// FetchMovieByTitle returns one movie matched by title, its showtimes
// scoped to cinemaID when given. When the listing left the Rotten Tomatoes
// score unresolved, the upstream is re-queried under the movie's alternate
// titles before falling through to the secondary providers.
func (p *Pipeline) FetchMovieByTitle(ctx context.Context, title, cinemaID string) (*domain.Movie, error) {
	query := url.Values{}
	query.Set("title", title)
	records, err := p.source.Movies(ctx, query)
	if err != nil {
		return nil, err
	}

	record, movie := pickByTitle(records, title)
	if record == nil {
		return nil, ErrMovieNotFound
	}

	if !movie.Ratings.RottenTomatoesResolved() {
		p.requeryAlternateTitles(ctx, record, movie)
	}
	if p.enricher != nil && !movie.Ratings.RottenTomatoesResolved() {
		p.enricher.Movie(ctx, movie)
	}

	if cinemaID != "" {
		movie.Showtimes = normalize.FilterShowtimes(movie.Showtimes, cinemaID, cinemaID)
	}
	return movie, nil
}

// FetchUpcomingMovies returns upcoming releases ordered by release date.
func (p *Pipeline) FetchUpcomingMovies(ctx context.Context) ([]domain.UpcomingMovie, error) {
	records, err := p.source.Upcoming(ctx)
	if err != nil {
		return nil, err
	}
	upcoming := make([]domain.UpcomingMovie, 0, len(records))
	for _, rec := range records {
		upcoming = append(upcoming, normalize.Upcoming(rec))
	}
	upcoming = normalize.Dedupe(upcoming, func(m domain.UpcomingMovie) string {
		return normalize.MovieKey(m.Movie)
	})
	normalize.SortUpcoming(upcoming)
	return upcoming, nil
}

// FetchCinemas returns the cinema list sorted by name.
func (p *Pipeline) FetchCinemas(ctx context.Context) ([]domain.Cinema, error) {
	records, err := p.source.Theaters(ctx)
	if err != nil {
		return nil, err
	}
	cinemas := normalize.Cinemas(records)
	return normalize.Dedupe(cinemas, normalize.CinemaKey), nil
}

// FetchMovieShowtimes returns a movie's showtimes, optionally scoped to a
// cinema, sorted ascending.
func (p *Pipeline) FetchMovieShowtimes(ctx context.Context, movieID, cinemaID string) ([]domain.ShowTime, error) {
	records, err := p.source.MovieShowtimes(ctx, movieID, cinemaID)
	if err != nil {
		return nil, err
	}
	entries := make([]any, 0, len(records))
	for _, rec := range records {
		entries = append(entries, map[string]any(rec))
	}
	return normalize.ShowTimes(normalize.Record{"showtimes": entries}, cinemaID, cinemaID), nil
}

// alternateTitleKeys are the record fields that may carry another release
// title for the same movie (original-language vs. localized).
var alternateTitleKeys = []string{"original_title", "originalTitle", "titleEN", "name", "nameEN", "alternateTitle"}

// requeryAlternateTitles retries the upstream under each alternate title
// and adopts the first resolved Rotten Tomatoes score found. Failures are
// logged and skipped so the secondary-provider chain still gets its turn.
func (p *Pipeline) requeryAlternateTitles(ctx context.Context, record normalize.Record, movie *domain.Movie) {
	for _, alt := range alternateTitles(record, movie.Title) {
		query := url.Values{}
		query.Set("title", alt)
		records, err := p.source.Movies(ctx, query)
		if err != nil {
			p.logger.Printf("pipeline: alternate-title query %q: %v", alt, err)
			continue
		}
		for _, rec := range records {
			candidate := normalize.Movie(rec)
			if !candidate.Ratings.RottenTomatoesResolved() {
				continue
			}
			if movie.Ratings == nil {
				movie.Ratings = &domain.Ratings{}
			}
			movie.Ratings.RottenTomatoes = candidate.Ratings.RottenTomatoes
			if movie.Ratings.IMDb == nil {
				movie.Ratings.IMDb = candidate.Ratings.IMDb
			}
			return
		}
	}
}

func alternateTitles(record normalize.Record, title string) []string {
	var titles []string
	seen := map[string]bool{strings.ToLower(title): true}
	for _, key := range alternateTitleKeys {
		alt := normalize.FirstString(record, key)
		if alt == "" || seen[strings.ToLower(alt)] {
			continue
		}
		seen[strings.ToLower(alt)] = true
		titles = append(titles, alt)
	}
	return titles
}

// pickByTitle chooses the listing matching a title: exact case-insensitive
// match wins, then substring containment, then nothing.
func pickByTitle(records []normalize.Record, title string) (normalize.Record, *domain.Movie) {
	var fallbackRec normalize.Record
	var fallback *domain.Movie
	for _, rec := range records {
		movie := normalize.Movie(rec)
		if strings.EqualFold(movie.Title, title) {
			return rec, &movie
		}
		if fallback == nil && containsEitherFold(movie.Title, title) {
			fallbackRec, fallback = rec, &movie
		}
	}
	return fallbackRec, fallback
}

func filterShowtimes(times []domain.ShowTime, filters Filters) []domain.ShowTime {
	kept := make([]domain.ShowTime, 0, len(times))
	for _, st := range times {
		if filters.matchShowtime(st) {
			kept = append(kept, st)
		}
	}
	return kept
}
