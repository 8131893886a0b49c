package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dr-cinema/dr-cinema/internal/domain"
	"github.com/dr-cinema/dr-cinema/internal/pipeline"
)

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	movies, err := s.catalog.FetchMovies(r.Context(), filters)
	if err != nil {
		s.logger.Printf("list movies error: %v", err)
		s.respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Failed to fetch movies")
		return
	}
	s.respondJSON(w, http.StatusOK, movies)
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	title, err := decodeTitleParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	movie, err := s.catalog.FetchMovieByTitle(r.Context(), title, strings.TrimSpace(r.URL.Query().Get("cinema")))
	if err != nil {
		if errors.Is(err, pipeline.ErrMovieNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Printf("get movie %q error: %v", title, err)
		s.respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Failed to fetch movie")
		return
	}
	s.respondJSON(w, http.StatusOK, movie)
}

func (s *Server) handleMovieShowtimes(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "ref")
	if movieID == "" {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "missing movie id")
		return
	}

	times, err := s.catalog.FetchMovieShowtimes(r.Context(), movieID, strings.TrimSpace(r.URL.Query().Get("cinema")))
	if err != nil {
		s.logger.Printf("movie showtimes error: %v", err)
		s.respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Failed to fetch showtimes")
		return
	}
	if times == nil {
		times = []domain.ShowTime{}
	}
	s.respondJSON(w, http.StatusOK, times)
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	upcoming, err := s.catalog.FetchUpcomingMovies(r.Context())
	if err != nil {
		s.logger.Printf("upcoming movies error: %v", err)
		s.respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Failed to fetch upcoming movies")
		return
	}
	s.respondJSON(w, http.StatusOK, upcoming)
}

func (s *Server) handleTheaters(w http.ResponseWriter, r *http.Request) {
	cinemas, err := s.catalog.FetchCinemas(r.Context())
	if err != nil {
		s.logger.Printf("theaters error: %v", err)
		s.respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Failed to fetch theaters")
		return
	}
	s.respondJSON(w, http.StatusOK, cinemas)
}

// parseFilters maps query-string parameters onto pipeline filters.
func parseFilters(query url.Values) (pipeline.Filters, error) {
	var filters pipeline.Filters

	filters.Title = strings.TrimSpace(query.Get("title"))
	filters.Actor = strings.TrimSpace(query.Get("actor"))
	filters.Director = strings.TrimSpace(query.Get("director"))
	filters.ContentRating = strings.TrimSpace(query.Get("rating"))
	filters.CinemaID = strings.TrimSpace(query.Get("cinema"))

	if val := strings.TrimSpace(query.Get("imdb")); val != "" {
		min, err := strconv.ParseFloat(val, 64)
		if err != nil || min < 0 || min > 10 {
			return filters, fmt.Errorf("invalid imdb value")
		}
		filters.IMDbMin = min
	}
	if val := strings.TrimSpace(query.Get("rotten_tomatoes")); val != "" {
		min, err := strconv.Atoi(val)
		if err != nil || min < 0 || min > 100 {
			return filters, fmt.Errorf("invalid rotten_tomatoes value")
		}
		filters.RottenTomatoesMin = min
	}
	if val := strings.TrimSpace(query.Get("starts_after")); val != "" {
		at, err := time.Parse(time.RFC3339, val)
		if err != nil {
			return filters, fmt.Errorf("starts_after must follow RFC 3339")
		}
		filters.StartsAfter = at
	}
	if val := strings.TrimSpace(query.Get("starts_before")); val != "" {
		at, err := time.Parse(time.RFC3339, val)
		if err != nil {
			return filters, fmt.Errorf("starts_before must follow RFC 3339")
		}
		filters.StartsBefore = at
	}
	if !filters.StartsAfter.IsZero() && !filters.StartsBefore.IsZero() && filters.StartsBefore.Before(filters.StartsAfter) {
		return filters, fmt.Errorf("starts_before must not precede starts_after")
	}
	return filters, nil
}

func decodeTitleParam(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "ref")
	if raw == "" {
		return "", fmt.Errorf("missing title parameter")
	}
	// chi routes on RawPath only when the URL carried non-canonical escapes
	// (an encoded slash, for instance); everywhere else net/url has already
	// decoded the segment and a second unescape would mangle literal percent
	// signs.
	if r.URL.RawPath == "" {
		return raw, nil
	}
	title, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("invalid title parameter")
	}
	return title, nil
}
