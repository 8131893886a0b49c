package domain

// ShowTime is a single normalized screening. A flattened showtime always
// carries the cinema context of the group it was lifted out of; the display
// time string is authoritative for rendering, StartsAt (when present) for
// sorting.
type ShowTime struct {
	CinemaID    string `json:"cinemaId,omitempty"`
	CinemaName  string `json:"cinemaName,omitempty"`
	Time        string `json:"time,omitempty"`
	StartsAt    string `json:"startsAt,omitempty"`
	PurchaseURL string `json:"purchaseUrl,omitempty"`
	Auditorium  string `json:"auditorium,omitempty"`
	Info        string `json:"info,omitempty"`
}
