package enrich

import (
	"context"
	"errors"
	"io"
	"log"
	"sync/atomic"
	"testing"

	"github.com/dr-cinema/dr-cinema/internal/domain"
)

type stubTMDB struct {
	imdbID      string
	imdbErr     error
	voteAverage float64
	voteErr     error

	externalCalls int64
	voteCalls     int64
}

func (s *stubTMDB) ExternalIDs(ctx context.Context, tmdbID int) (string, error) {
	atomic.AddInt64(&s.externalCalls, 1)
	return s.imdbID, s.imdbErr
}

func (s *stubTMDB) VoteAverage(ctx context.Context, tmdbID int) (float64, error) {
	atomic.AddInt64(&s.voteCalls, 1)
	return s.voteAverage, s.voteErr
}

type stubOMDB struct {
	score int
	found bool
	err   error

	calls int64
}

func (s *stubOMDB) RottenTomatoesScore(ctx context.Context, imdbID string) (int, bool, error) {
	atomic.AddInt64(&s.calls, 1)
	return s.score, s.found, s.err
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestEnricherSkipsResolvedScores(t *testing.T) {
	tmdb := &stubTMDB{}
	omdb := &stubOMDB{}
	enricher := NewEnricher(tmdb, omdb, 1, testLogger())

	movie := domain.Movie{
		Title:   "Testið",
		TMDbID:  "42",
		Ratings: &domain.Ratings{RottenTomatoes: domain.ResolvedTomatoes(91)},
	}
	enricher.Movie(context.Background(), &movie)

	if tmdb.externalCalls != 0 || tmdb.voteCalls != 0 || omdb.calls != 0 {
		t.Fatal("enricher contacted providers for an already resolved score")
	}
	if movie.Ratings.RottenTomatoes.Score != 91 {
		t.Fatalf("score changed to %d", movie.Ratings.RottenTomatoes.Score)
	}
}

func TestEnricherResolvesViaOMDB(t *testing.T) {
	tmdb := &stubTMDB{imdbID: "tt0133093"}
	omdb := &stubOMDB{score: 88, found: true}
	enricher := NewEnricher(tmdb, omdb, 1, testLogger())

	movie := domain.Movie{Title: "Fylkið", TMDbID: "603"}
	enricher.Movie(context.Background(), &movie)

	rt := movie.Ratings.RottenTomatoes
	if !rt.Resolved() || rt.Score != 88 {
		t.Fatalf("unexpected score: %+v", rt)
	}
	if rt.Approximate {
		t.Fatal("OMDb score should not be flagged approximate")
	}
	if tmdb.voteCalls != 0 {
		t.Fatal("vote average should not be fetched when OMDb resolves")
	}
}

func TestEnricherUsesListingIMDbID(t *testing.T) {
	tmdb := &stubTMDB{imdbID: "tt9999999"}
	omdb := &stubOMDB{score: 75, found: true}
	enricher := NewEnricher(tmdb, omdb, 1, testLogger())

	movie := domain.Movie{Title: "Heima", IMDbID: "tt0000001", TMDbID: "7"}
	enricher.Movie(context.Background(), &movie)

	if tmdb.externalCalls != 0 {
		t.Fatal("external ids should not be fetched when the listing carries an IMDb id")
	}
	if !movie.Ratings.RottenTomatoes.Resolved() {
		t.Fatal("score not resolved")
	}
}

func TestEnricherFallsBackToVoteAverage(t *testing.T) {
	tmdb := &stubTMDB{imdbID: "tt0133093", voteAverage: 7.3}
	omdb := &stubOMDB{found: false}
	enricher := NewEnricher(tmdb, omdb, 1, testLogger())

	movie := domain.Movie{Title: "Fylkið", TMDbID: "603"}
	enricher.Movie(context.Background(), &movie)

	rt := movie.Ratings.RottenTomatoes
	if !rt.Resolved() || rt.Score != 73 {
		t.Fatalf("unexpected score: %+v", rt)
	}
	if !rt.Approximate {
		t.Fatal("audience-derived score must be flagged approximate")
	}
}

func TestEnricherOMDBFailureStillTriesVoteAverage(t *testing.T) {
	tmdb := &stubTMDB{imdbID: "tt0133093", voteAverage: 6.0}
	omdb := &stubOMDB{err: errors.New("quota exceeded")}
	enricher := NewEnricher(tmdb, omdb, 1, testLogger())

	movie := domain.Movie{Title: "Fylkið", TMDbID: "603"}
	enricher.Movie(context.Background(), &movie)

	rt := movie.Ratings.RottenTomatoes
	if !rt.Resolved() || rt.Score != 60 || !rt.Approximate {
		t.Fatalf("unexpected score after OMDb failure: %+v", rt)
	}
}

func TestEnricherKeepsAbsentMarkerWhenChainFails(t *testing.T) {
	tmdb := &stubTMDB{imdbErr: errors.New("down"), voteErr: errors.New("down")}
	omdb := &stubOMDB{err: errors.New("down")}
	enricher := NewEnricher(tmdb, omdb, 1, testLogger())

	movie := domain.Movie{
		Title:   "Ósótt",
		TMDbID:  "11",
		Ratings: &domain.Ratings{RottenTomatoes: domain.AbsentTomatoes()},
	}
	enricher.Movie(context.Background(), &movie)

	if movie.Ratings.RottenTomatoes.State != domain.RTAbsent {
		t.Fatalf("absent marker lost: %+v", movie.Ratings.RottenTomatoes)
	}
}

func TestEnricherNoIdentifiers(t *testing.T) {
	tmdb := &stubTMDB{}
	omdb := &stubOMDB{score: 50, found: true}
	enricher := NewEnricher(tmdb, omdb, 1, testLogger())

	movie := domain.Movie{Title: "Nafnlaus"}
	enricher.Movie(context.Background(), &movie)

	if movie.Ratings != nil {
		t.Fatalf("ratings invented without identifiers: %+v", movie.Ratings)
	}
	if tmdb.externalCalls != 0 || omdb.calls != 0 {
		t.Fatal("providers contacted without identifiers")
	}
}

func TestEnricherNilClients(t *testing.T) {
	enricher := NewEnricher(nil, nil, 0, testLogger())
	movie := domain.Movie{Title: "Einn", TMDbID: "5", IMDbID: "tt5"}
	enricher.Movie(context.Background(), &movie)
	if movie.Ratings != nil {
		t.Fatalf("ratings set without clients: %+v", movie.Ratings)
	}
}

func TestEnricherCollection(t *testing.T) {
	tmdb := &stubTMDB{imdbID: "tt0000002"}
	omdb := &stubOMDB{score: 64, found: true}
	enricher := NewEnricher(tmdb, omdb, 4, testLogger())

	movies := make([]domain.Movie, 20)
	for i := range movies {
		movies[i] = domain.Movie{Title: "Mynd", TMDbID: "10"}
	}
	movies[3].Ratings = &domain.Ratings{RottenTomatoes: domain.ResolvedTomatoes(99)}

	enricher.Collection(context.Background(), movies)

	for i, movie := range movies {
		if !movie.Ratings.RottenTomatoes.Resolved() {
			t.Fatalf("movie %d not enriched", i)
		}
	}
	if movies[3].Ratings.RottenTomatoes.Score != 99 {
		t.Fatal("pre-resolved movie was overwritten")
	}
	if omdb.calls != 19 {
		t.Fatalf("omdb called %d times, want 19", omdb.calls)
	}
}
