package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dr-cinema/dr-cinema/internal/favourites"
)

const maxRequestBody = 1 << 20 // 1 MiB

type favouriteAddRequest struct {
	MovieID string `json:"movieId"`
	Title   string `json:"title"`
	Poster  string `json:"poster"`
}

type favouriteMoveRequest struct {
	Position int `json:"position"`
}

func (s *Server) handleListFavourites(w http.ResponseWriter, r *http.Request) {
	items, err := s.favs.List(r.Context())
	if err != nil {
		s.logger.Printf("list favourites error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list favourites")
		return
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleAddFavourite(w http.ResponseWriter, r *http.Request) {
	if !s.verifyBearer(r.Header.Get("Authorization")) {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	var req favouriteAddRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if strings.TrimSpace(req.MovieID) == "" || strings.TrimSpace(req.Title) == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "movieId and title are required")
		return
	}

	fav, err := s.favs.Add(r.Context(), favourites.AddParams{
		MovieID: strings.TrimSpace(req.MovieID),
		Title:   strings.TrimSpace(req.Title),
		Poster:  strings.TrimSpace(req.Poster),
	})
	if err != nil {
		s.logger.Printf("add favourite error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add favourite")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/favourites/%s", fav.ID))
	s.respondJSON(w, http.StatusCreated, fav)
}

func (s *Server) handleRemoveFavourite(w http.ResponseWriter, r *http.Request) {
	if !s.verifyBearer(r.Header.Get("Authorization")) {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.favs.Remove(r.Context(), id); err != nil {
		if errors.Is(err, favourites.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Printf("remove favourite error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to remove favourite")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoveFavourite(w http.ResponseWriter, r *http.Request) {
	if !s.verifyBearer(r.Header.Get("Authorization")) {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	var req favouriteMoveRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.Position < 0 {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "position must be non-negative")
		return
	}

	id := chi.URLParam(r, "id")
	items, err := s.favs.Move(r.Context(), id, req.Position)
	if err != nil {
		if errors.Is(err, favourites.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Printf("move favourite error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to move favourite")
		return
	}
	s.respondJSON(w, http.StatusOK, items)
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Printf("failed to encode response: %v", err)
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body cannot be empty")
	default:
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unable to parse request body")
	}
}

func (s *Server) verifyBearer(header string) bool {
	if header == "" {
		return false
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token == s.cfg.AuthToken
}
