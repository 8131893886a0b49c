package enrich

import (
	"context"
	"log"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/dr-cinema/dr-cinema/internal/domain"
)

const defaultConcurrency = 8

// Enricher resolves missing Rotten Tomatoes scores through secondary
// providers. Either client may be nil, in which case the steps that need
// it are skipped.
type Enricher struct {
	tmdb        TMDBClient
	omdb        OMDBClient
	logger      *log.Logger
	concurrency int
}

// NewEnricher wires the secondary providers. concurrency caps parallel
// lookups across a collection; zero or negative selects the default.
func NewEnricher(tmdb TMDBClient, omdb OMDBClient, concurrency int, logger *log.Logger) *Enricher {
	if logger == nil {
		logger = log.Default()
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Enricher{tmdb: tmdb, omdb: omdb, logger: logger, concurrency: concurrency}
}

// Movie runs the fallback chain for one movie in place. A movie whose
// listing already carried a numeric score is left alone. Lookup failures
// are logged and swallowed; the movie keeps whatever state it had.
func (e *Enricher) Movie(ctx context.Context, movie *domain.Movie) {
	if movie.Ratings.RottenTomatoesResolved() {
		return
	}

	imdbID := movie.IMDbID
	tmdbID, hasTMDB := parseTMDBID(movie.TMDbID)

	if imdbID == "" && hasTMDB && e.tmdb != nil {
		resolved, err := e.tmdb.ExternalIDs(ctx, tmdbID)
		if err != nil {
			e.logger.Printf("enrich: external ids for %q: %v", movie.Title, err)
		} else {
			imdbID = resolved
		}
	}

	if imdbID != "" && e.omdb != nil {
		score, found, err := e.omdb.RottenTomatoesScore(ctx, imdbID)
		if err != nil {
			e.logger.Printf("enrich: omdb lookup for %q: %v", movie.Title, err)
		} else if found {
			setTomatoes(movie, domain.ResolvedTomatoes(score))
			return
		}
	}

	if hasTMDB && e.tmdb != nil {
		average, err := e.tmdb.VoteAverage(ctx, tmdbID)
		if err != nil {
			e.logger.Printf("enrich: vote average for %q: %v", movie.Title, err)
			return
		}
		if average > 0 {
			setTomatoes(movie, domain.ApproximateTomatoes(int(average*10)))
		}
	}
}

// Collection enriches every movie concurrently. Individual failures never
// abort the batch.
func (e *Enricher) Collection(ctx context.Context, movies []domain.Movie) {
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(e.concurrency)
	for i := range movies {
		movie := &movies[i]
		group.Go(func() error {
			e.Movie(ctx, movie)
			return nil
		})
	}
	_ = group.Wait()
}

func setTomatoes(movie *domain.Movie, rt *domain.RottenTomatoes) {
	if movie.Ratings == nil {
		movie.Ratings = &domain.Ratings{}
	}
	movie.Ratings.RottenTomatoes = rt
}

func parseTMDBID(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
