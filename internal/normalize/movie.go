package normalize

import (
	"github.com/dr-cinema/dr-cinema/internal/domain"
)

// Movie builds the canonical movie entity from one raw upstream record.
// Individual fields degrade to their zero value when no candidate shape
// matched; the function never fails.
func Movie(rec Record) domain.Movie {
	m := domain.Movie{
		ID:      FirstString(rec, "_id", "id"),
		Title:   FirstString(rec, "title", "name"),
		Plot:    FirstString(rec, "plot", "description", "synopsis"),
		Year:    FirstString(rec, "year", "releaseYear"),
		Poster:  FirstString(rec, "poster", "image", "poster_url", "thumbnail"),
		Country: FirstString(rec, "country", "countryOfOrigin", "origin"),
		Rating:  MovieContentRating(rec),
	}

	if f, ok := FirstNumber(rec, "durationMinutes", "duration", "length"); ok {
		m.Duration = int(f)
	}

	m.Actors = CreditNamesFrom(rec, "actors_abridged", "actors")
	m.Directors = CreditNamesFrom(rec, "directors_abridged", "directors")
	m.Writers = writers(rec)
	m.Genres = NamesFrom(rec, "genres")

	m.Ratings = Ratings(rec)
	m.Trailers = Trailers(rec)
	m.Showtimes = ShowTimes(rec, "", "")

	m.TMDbID, m.IMDbID = externalIDs(rec)
	return m
}

func writers(rec Record) []string {
	if out := CreditNamesFrom(rec, "writers_abridged", "writers"); len(out) > 0 {
		return out
	}
	// OMDb-style comma-joined Writer string.
	if omdb := child(rec, "omdb"); omdb != nil {
		if out := CreditNames(omdb["Writer"]); len(out) > 0 {
			return out
		}
	}
	return CreditNamesFrom(rec, "Writer", "writer", "writersString")
}

// externalIDs surfaces secondary-provider identifiers for the enrichment
// chain: a TMDb movie id carried directly or via a trailer entry's numeric
// id, and an IMDb id carried directly or via the omdb payload.
func externalIDs(rec Record) (tmdbID, imdbID string) {
	tmdbID = FirstString(rec, "tmdb_id", "tmdbId")
	if tmdbID == "" {
		for _, elem := range items(rec, "trailers") {
			entry, ok := elem.(map[string]any)
			if !ok {
				continue
			}
			if _, isNumber := entry["id"].(float64); isNumber {
				tmdbID = coerceString(entry["id"])
				break
			}
		}
	}
	imdbID = FirstString(rec, "imdb_id", "imdbId", "imdbid")
	if imdbID == "" {
		if omdb := child(rec, "omdb"); omdb != nil {
			imdbID = FirstString(omdb, "imdbID", "imdbId")
		}
	}
	return tmdbID, imdbID
}

// Trailers accepts the trailer shapes seen upstream: a trailers array, a
// TMDb-style videos.results wrapper, a bare videos array, a single trailer
// object, a plain trailerUrl string, or a lone youtubeId.
func Trailers(rec Record) []domain.Trailer {
	if out := trailerList(items(rec, "trailers")); len(out) > 0 {
		return out
	}
	if videos := child(rec, "videos"); videos != nil {
		if out := trailerList(items(videos, "results")); len(out) > 0 {
			return out
		}
	}
	if out := trailerList(items(rec, "videos")); len(out) > 0 {
		return out
	}
	switch t := rec["trailer"].(type) {
	case []any:
		if out := trailerList(t); len(out) > 0 {
			return out
		}
	case map[string]any:
		if tr, ok := trailerEntry(t); ok {
			return []domain.Trailer{tr}
		}
	}
	if url := FirstString(rec, "trailerUrl"); url != "" {
		return []domain.Trailer{{URL: url}}
	}
	if key := FirstString(rec, "youtubeId"); key != "" {
		return []domain.Trailer{{URL: youtubeURL(key), Type: "YouTube"}}
	}
	return nil
}

func trailerList(arr []any) []domain.Trailer {
	var out []domain.Trailer
	for _, elem := range arr {
		entry, ok := elem.(map[string]any)
		if !ok {
			continue
		}
		if tr, ok := trailerEntry(entry); ok {
			out = append(out, tr)
		}
	}
	return out
}

func trailerEntry(entry Record) (domain.Trailer, bool) {
	tr := domain.Trailer{
		URL:       FirstString(entry, "url", "href"),
		Type:      FirstString(entry, "type", "site"),
		Thumbnail: FirstString(entry, "thumbnail", "image"),
	}
	if tr.URL == "" {
		// TMDb-style {key, site: "YouTube"} entries.
		if key, ok := entry["key"].(string); ok && key != "" {
			tr.URL = youtubeURL(key)
		}
	}
	if tr.URL == "" {
		// Some feeds nest the playable file under results[].
		for _, elem := range items(entry, "results") {
			if inner, ok := elem.(map[string]any); ok {
				if url := FirstString(inner, "url"); url != "" {
					tr.URL = url
					break
				}
			}
		}
	}
	if tr.URL == "" {
		return domain.Trailer{}, false
	}
	return tr, true
}

func youtubeURL(key string) string {
	return "https://www.youtube.com/watch?v=" + key
}
