package domain

import "time"

// Favourite is a movie the user pinned, kept in an explicit order.
type Favourite struct {
	ID        string    `json:"id"`
	MovieID   string    `json:"movieId"`
	Title     string    `json:"title"`
	Poster    string    `json:"poster,omitempty"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}
