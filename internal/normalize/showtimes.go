package normalize

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dr-cinema/dr-cinema/internal/domain"
)

var (
	timeKeys       = []string{"time", "startsAt", "starts_at", "start"}
	isoKeys        = []string{"startsAt", "starts_at"}
	purchaseKeys   = []string{"purchase_url", "purchaseUrl", "ticket_url", "buyUrl", "url"}
	auditoriumKeys = []string{"auditorium", "hall", "room"}
	infoKeys       = []string{"info", "note"}
)

// ShowTimes flattens every showtime carried by a movie record into a sorted
// flat list. When a target cinema id or name is given, the list is filtered
// to screenings resolved to that cinema; the name match is deliberately
// permissive (case-insensitive equality or substring containment in either
// direction) to tolerate partial-name upstream inconsistency.
func ShowTimes(rec Record, targetCinemaID, targetCinemaName string) []domain.ShowTime {
	flat := collectShowtimes(rec)
	flat = FilterShowtimes(flat, targetCinemaID, targetCinemaName)
	SortShowtimes(flat)
	if flat == nil {
		flat = []domain.ShowTime{}
	}
	return flat
}

// FilterShowtimes keeps entries belonging to the target cinema. Empty
// targets keep everything.
func FilterShowtimes(times []domain.ShowTime, cinemaID, cinemaName string) []domain.ShowTime {
	if cinemaID == "" && cinemaName == "" {
		return times
	}
	out := make([]domain.ShowTime, 0, len(times))
	for _, st := range times {
		if matchesCinema(st, cinemaID, cinemaName) {
			out = append(out, st)
		}
	}
	return out
}

func matchesCinema(st domain.ShowTime, cinemaID, cinemaName string) bool {
	if cinemaID != "" && st.CinemaID == cinemaID {
		return true
	}
	if cinemaName != "" && st.CinemaName != "" && looseNameMatch(st.CinemaName, cinemaName) {
		return true
	}
	return false
}

// looseNameMatch is case-insensitive equality or substring containment in
// either direction. Prefix-named cinemas can false-positive against each
// other; that trade-off is intentional.
func looseNameMatch(a, b string) bool {
	la, lb := strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	if la == "" || lb == "" {
		return false
	}
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

// SortShowtimes orders entries ascending by start time. ISO instants win
// over display strings; entries with neither sort last, keeping their
// original relative order.
func SortShowtimes(times []domain.ShowTime) {
	sort.SliceStable(times, func(i, j int) bool {
		return showtimeSortKey(times[i]) < showtimeSortKey(times[j])
	})
}

var clockPattern = regexp.MustCompile(`(\d{1,2}):(\d{2})`)

func showtimeSortKey(st domain.ShowTime) float64 {
	if st.StartsAt != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04"} {
			if ts, err := time.Parse(layout, st.StartsAt); err == nil {
				return float64(ts.Unix())
			}
		}
	}
	if m := clockPattern.FindStringSubmatch(st.Time); m != nil {
		hours, minutes := atoi(m[1]), atoi(m[2])
		return float64(hours*60 + minutes)
	}
	return math.Inf(1)
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

func collectShowtimes(rec Record) []domain.ShowTime {
	var flat []domain.ShowTime

	// Preferred shape: a schedule array at the movie's top level.
	for _, elem := range items(rec, "schedule") {
		if entry, ok := elem.(map[string]any); ok {
			flat = append(flat, showtimeLeaf(entry, nil))
		}
	}
	if len(flat) > 0 {
		return flat
	}

	// Cinema-grouped shape: showtimes entries each wrapping a nested
	// schedule, or already-flat showtime entries.
	for _, elem := range items(rec, "showtimes") {
		entry, ok := elem.(map[string]any)
		if !ok {
			continue
		}
		if nested := items(entry, "schedule"); len(nested) > 0 {
			for _, inner := range nested {
				if leaf, ok := inner.(map[string]any); ok {
					flat = append(flat, showtimeLeaf(leaf, entry))
				}
			}
			continue
		}
		flat = append(flat, showtimeLeaf(entry, nil))
	}
	if len(flat) > 0 {
		return flat
	}

	// Last resort: any array-valued property whose elements carry a
	// time-like field is treated as a showtime list. Handles upstream
	// shapes nobody anticipated without hard-failing.
	for key, v := range rec {
		if key == "trailers" || key == "videos" {
			continue
		}
		arr, ok := v.([]any)
		if !ok {
			continue
		}
		for _, elem := range arr {
			entry, ok := elem.(map[string]any)
			if !ok {
				continue
			}
			if FirstString(entry, timeKeys...) != "" {
				flat = append(flat, showtimeLeaf(entry, nil))
			}
		}
	}
	return flat
}

// showtimeLeaf builds one canonical showtime from a leaf schedule entry,
// resolving the owning cinema from the leaf itself before falling back to
// the parent grouping.
func showtimeLeaf(entry, parent Record) domain.ShowTime {
	st := domain.ShowTime{
		Time:       FirstString(entry, timeKeys...),
		StartsAt:   FirstString(entry, isoKeys...),
		Auditorium: FirstString(entry, auditoriumKeys...),
		Info:       FirstString(entry, infoKeys...),
	}

	if url := FirstString(entry, purchaseKeys...); url != "" && url != "undefined" {
		st.PurchaseURL = url
	}

	st.CinemaID, st.CinemaName = resolveCinema(entry)
	if st.CinemaID == "" && st.CinemaName == "" {
		st.CinemaID, st.CinemaName = resolveCinema(parent)
	}
	return st
}

func resolveCinema(rec Record) (id, name string) {
	if rec == nil {
		return "", ""
	}
	id = FirstString(rec, "cinemaId", "cinema_id")
	for _, key := range []string{"cinema", "theater"} {
		switch t := rec[key].(type) {
		case map[string]any:
			if id == "" {
				id = FirstString(t, "id", "_id")
			}
			if name == "" {
				name = FirstString(t, "name", "Name")
			}
		case string:
			if name == "" {
				name = strings.TrimSpace(t)
			}
		}
	}
	return id, name
}
