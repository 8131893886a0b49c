package domain

import "encoding/json"

// RTState tracks how far a Rotten Tomatoes score has been resolved. The
// distinction between "confirmed absent" and "not yet attempted" matters:
// the enrichment chain only reports "N/A" for scores the primary source was
// actually checked for.
type RTState int

const (
	// RTUnresolved means no rating data was available to check.
	RTUnresolved RTState = iota
	// RTAbsent means the primary data was checked and carries no usable score.
	RTAbsent
	// RTResolved means a numeric 0-100 score is present.
	RTResolved
)

// RottenTomatoes is a three-state Rotten Tomatoes score. It marshals as the
// numeric score, the literal string "N/A" when confirmed absent, or null
// when unresolved.
type RottenTomatoes struct {
	State RTState `json:"-"`
	Score int     `json:"-"`
	// Approximate marks scores derived from a secondary provider's audience
	// score (0-10 scaled x10) rather than a true tomato meter.
	Approximate bool `json:"-"`
}

// ResolvedTomatoes builds a confirmed numeric score.
func ResolvedTomatoes(score int) *RottenTomatoes {
	return &RottenTomatoes{State: RTResolved, Score: score}
}

// ApproximateTomatoes builds a numeric score flagged as audience-derived.
func ApproximateTomatoes(score int) *RottenTomatoes {
	return &RottenTomatoes{State: RTResolved, Score: score, Approximate: true}
}

// AbsentTomatoes builds the confirmed-unrated marker.
func AbsentTomatoes() *RottenTomatoes {
	return &RottenTomatoes{State: RTAbsent}
}

// Resolved reports whether a usable numeric score is present.
func (rt *RottenTomatoes) Resolved() bool {
	return rt != nil && rt.State == RTResolved
}

func (rt RottenTomatoes) MarshalJSON() ([]byte, error) {
	switch rt.State {
	case RTResolved:
		return json.Marshal(rt.Score)
	case RTAbsent:
		return json.Marshal("N/A")
	default:
		return []byte("null"), nil
	}
}

func (rt *RottenTomatoes) UnmarshalJSON(data []byte) error {
	var score int
	if err := json.Unmarshal(data, &score); err == nil {
		*rt = RottenTomatoes{State: RTResolved, Score: score}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil && s == "N/A" {
		*rt = RottenTomatoes{State: RTAbsent}
		return nil
	}
	*rt = RottenTomatoes{}
	return nil
}

// Ratings carries the numeric scores reconciled from the upstream record.
type Ratings struct {
	IMDb           *float64        `json:"imdb,omitempty"`
	RottenTomatoes *RottenTomatoes `json:"rottenTomatoes,omitempty"`
}

// RottenTomatoesResolved reports whether a usable numeric score is present,
// tolerating a nil receiver.
func (r *Ratings) RottenTomatoesResolved() bool {
	return r != nil && r.RottenTomatoes.Resolved()
}
