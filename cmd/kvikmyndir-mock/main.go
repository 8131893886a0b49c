// kvikmyndir-mock serves fixture listing data behind the same token
// exchange the real provider uses, for local development and smoke tests.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
)

const mockToken = "mock-token-1"

type fixture struct {
	Movies   []json.RawMessage `json:"movies"`
	Upcoming []json.RawMessage `json:"upcoming"`
	Theaters []json.RawMessage `json:"theaters"`
}

func main() {
	var (
		port     = flag.String("port", "9098", "port to listen on")
		data     = flag.String("data", "mock-kvikmyndir.json", "path to fixture data file")
		username = flag.String("username", "mock", "accepted basic-auth username")
		password = flag.String("password", "mock", "accepted basic-auth password")
	)
	flag.Parse()

	file, err := os.ReadFile(*data)
	if err != nil {
		log.Fatalf("read fixture data: %v", err)
	}
	var payload fixture
	if err := json.Unmarshal(file, &payload); err != nil {
		log.Fatalf("parse fixture data: %v", err)
	}

	mux := newMux(payload, *username, *password)

	addr := ":" + *port
	log.Printf("mock kvikmyndir listening on %s (%d movies, %d theaters)", addr, len(payload.Movies), len(payload.Theaters))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func newMux(payload fixture, username, password string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/authenticate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != username || pass != password {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		writeJSON(w, map[string]any{"token": mockToken, "expiresIn": 86400})
	})
	mux.HandleFunc("/movies", authed(func(w http.ResponseWriter, r *http.Request) {
		title := strings.ToLower(r.URL.Query().Get("title"))
		if title == "" {
			writeJSON(w, payload.Movies)
			return
		}
		matched := make([]json.RawMessage, 0)
		for _, raw := range payload.Movies {
			var rec map[string]any
			if err := json.Unmarshal(raw, &rec); err != nil {
				continue
			}
			name, _ := rec["title"].(string)
			if strings.Contains(strings.ToLower(name), title) {
				matched = append(matched, raw)
			}
		}
		writeJSON(w, matched)
	}))
	mux.HandleFunc("GET /movies/{id}/showtimes", authed(func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		cinemaID := r.URL.Query().Get("cinema_id")
		for _, raw := range payload.Movies {
			var rec map[string]any
			if err := json.Unmarshal(raw, &rec); err != nil {
				continue
			}
			if !movieIDMatches(rec, id) {
				continue
			}
			writeJSON(w, map[string]any{"showtimes": movieShowtimes(rec, cinemaID)})
			return
		}
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	}))
	// The upcoming payload uses a wrapper object to mirror deployments that
	// do not return a bare array.
	mux.HandleFunc("/upcoming", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"movies": payload.Upcoming})
	}))
	mux.HandleFunc("/theaters", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, payload.Theaters)
	}))
	return mux
}

func movieIDMatches(rec map[string]any, id string) bool {
	for _, key := range []string{"_id", "id"} {
		switch v := rec[key].(type) {
		case string:
			if v == id {
				return true
			}
		case float64:
			if strconv.FormatFloat(v, 'f', -1, 64) == id {
				return true
			}
		}
	}
	return false
}

// movieShowtimes returns the movie's showtime entries in whichever shape the
// fixture carries them, optionally scoped to one cinema id.
func movieShowtimes(rec map[string]any, cinemaID string) []any {
	entries, _ := rec["showtimes"].([]any)
	if entries == nil {
		entries, _ = rec["schedule"].([]any)
	}
	if entries == nil {
		return []any{}
	}
	if cinemaID == "" {
		return entries
	}
	matched := make([]any, 0, len(entries))
	for _, elem := range entries {
		entry, ok := elem.(map[string]any)
		if !ok {
			continue
		}
		if showtimeCinemaID(entry) == cinemaID {
			matched = append(matched, entry)
		}
	}
	return matched
}

func showtimeCinemaID(entry map[string]any) string {
	if v, ok := entry["cinemaId"].(string); ok {
		return v
	}
	cin, ok := entry["cinema"].(map[string]any)
	if !ok {
		return ""
	}
	switch id := cin["id"].(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	}
	return ""
}

func authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-access-token") != mockToken {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
