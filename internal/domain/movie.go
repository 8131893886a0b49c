package domain

// Trailer is a single playable trailer entry attached to a movie.
type Trailer struct {
	URL       string `json:"url"`
	Type      string `json:"type,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// Movie is the canonical movie entity returned by the pipeline, independent
// of whatever shape the upstream provider produced it from.
type Movie struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Plot      string     `json:"plot,omitempty"`
	Year      string     `json:"year,omitempty"`
	Poster    string     `json:"poster,omitempty"`
	Duration  int        `json:"durationMinutes,omitempty"`
	Rating    string     `json:"rating,omitempty"`
	Actors    []string   `json:"actors,omitempty"`
	Directors []string   `json:"directors,omitempty"`
	Writers   []string   `json:"writers,omitempty"`
	Genres    []string   `json:"genres,omitempty"`
	Country   string     `json:"country,omitempty"`
	Ratings   *Ratings   `json:"ratings,omitempty"`
	Trailers  []Trailer  `json:"trailers,omitempty"`
	Showtimes []ShowTime `json:"showtimes,omitempty"`

	// Secondary-provider identifiers surfaced during normalization. They feed
	// the rating enrichment chain and are not part of the primary listing data.
	TMDbID string `json:"tmdbId,omitempty"`
	IMDbID string `json:"imdbId,omitempty"`
}

// UpcomingMovie is a Movie plus the free-form release date text the upstream
// exposes. The date is used for sort ordering only, never for validation.
type UpcomingMovie struct {
	Movie
	ReleaseDate string `json:"releaseDate,omitempty"`
}
