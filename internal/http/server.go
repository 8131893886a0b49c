// Package httpserver exposes the listings pipeline and favourites store
// over HTTP.
package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dr-cinema/dr-cinema/internal/config"
	"github.com/dr-cinema/dr-cinema/internal/domain"
	"github.com/dr-cinema/dr-cinema/internal/favourites"
	"github.com/dr-cinema/dr-cinema/internal/pipeline"
)

// Catalog is the movie-listings surface the handlers consume.
type Catalog interface {
	FetchMovies(ctx context.Context, filters pipeline.Filters) ([]domain.Movie, error)
	FetchMovieByTitle(ctx context.Context, title, cinemaID string) (*domain.Movie, error)
	FetchUpcomingMovies(ctx context.Context) ([]domain.UpcomingMovie, error)
	FetchCinemas(ctx context.Context) ([]domain.Cinema, error)
	FetchMovieShowtimes(ctx context.Context, movieID, cinemaID string) ([]domain.ShowTime, error)
}

// FavouritesStore persists the user's pinned movies.
type FavouritesStore interface {
	List(ctx context.Context) ([]domain.Favourite, error)
	Add(ctx context.Context, params favourites.AddParams) (domain.Favourite, error)
	Remove(ctx context.Context, id string) error
	Move(ctx context.Context, id string, position int) ([]domain.Favourite, error)
}

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg     config.Config
	catalog Catalog
	favs    FavouritesStore
	health  HealthChecker
	logger  *log.Logger
	router  chi.Router
	httpSrv *http.Server
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Config, catalog Catalog, favs FavouritesStore, health HealthChecker, logger *log.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		cfg:     cfg,
		catalog: catalog,
		favs:    favs,
		health:  health,
		logger:  logger,
		router:  r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Route("/movies", func(r chi.Router) {
		r.Get("/", s.handleListMovies)
		// The detail route addresses a movie by title; the showtimes route by
		// the upstream movie id, matching the provider's own endpoints.
		r.Route("/{ref}", func(r chi.Router) {
			r.Get("/", s.handleGetMovie)
			r.Get("/showtimes", s.handleMovieShowtimes)
		})
	})
	s.router.Get("/upcoming", s.handleUpcoming)
	s.router.Get("/theaters", s.handleTheaters)
	s.router.Route("/favourites", func(r chi.Router) {
		r.Get("/", s.handleListFavourites)
		r.Post("/", s.handleAddFavourite)
		r.Delete("/{id}", s.handleRemoveFavourite)
		r.Put("/{id}/position", s.handleMoveFavourite)
	})
}

// Start boots the HTTP server and blocks until it stops or ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if s.health != nil {
		if err := s.health.HealthCheck(ctx); err != nil {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
