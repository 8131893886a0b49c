package normalize

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dr-cinema/dr-cinema/internal/domain"
)

// releaseDateKeys covers the free-form release date field across upstream
// versions.
var releaseDateKeys = []string{"release-dateIS", "releaseDate", "release_date", "release-date"}

// Upcoming builds an upcoming-movie entity. The release date text is kept
// verbatim; it only ever influences sort order.
func Upcoming(rec Record) domain.UpcomingMovie {
	return domain.UpcomingMovie{
		Movie:       Movie(rec),
		ReleaseDate: FirstString(rec, releaseDateKeys...),
	}
}

// SortUpcoming orders movies ascending by their parsed release date.
// Unparseable dates sort last in their original relative order.
func SortUpcoming(list []domain.UpcomingMovie) {
	sort.SliceStable(list, func(i, j int) bool {
		ti, iok := ParseReleaseDate(list[i].ReleaseDate)
		tj, jok := ParseReleaseDate(list[j].ReleaseDate)
		if iok != jok {
			return iok
		}
		if !iok {
			return false
		}
		return ti.Before(tj)
	})
}

var (
	isoDate   = regexp.MustCompile(`(\d{4})[-/](\d{1,2})[-/](\d{1,2})`)
	dmyDate   = regexp.MustCompile(`(\d{1,2})[./-](\d{1,2})[./-](\d{4})`)
	monthYear = regexp.MustCompile(`([A-Za-z]+)\s+(\d{4})`)
	bareYear  = regexp.MustCompile(`(19|20)\d{2}`)
	gmtTail   = regexp.MustCompile(`(?i)\s+GMT.*$`)
)

// ParseReleaseDate makes a best-effort timestamp out of free-form release
// date text. The upstream emits anything from ISO dates to "January 2026"
// to bare years; unparseable text is reported, never rejected.
func ParseReleaseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range []string{time.RFC3339, time.RFC1123, "2006-01-02", "2006/01/02", "Mon Jan 2 2006", "Jan 2, 2006", "2 Jan 2006"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}

	cleaned := strings.TrimSpace(gmtTail.ReplaceAllString(s, ""))

	if m := isoDate.FindStringSubmatch(cleaned); m != nil {
		if ts, ok := makeDate(m[1], m[2], m[3]); ok {
			return ts, true
		}
	}
	if m := dmyDate.FindStringSubmatch(cleaned); m != nil {
		if ts, ok := makeDate(m[3], m[2], m[1]); ok {
			return ts, true
		}
	}
	if m := monthYear.FindStringSubmatch(cleaned); m != nil {
		if ts, err := time.Parse("January 2 2006", m[1]+" 1 "+m[2]); err == nil {
			return ts, true
		}
		if ts, err := time.Parse("Jan 2 2006", m[1]+" 1 "+m[2]); err == nil {
			return ts, true
		}
	}
	if m := bareYear.FindString(cleaned); m != "" {
		year := atoi(m)
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func makeDate(year, month, day string) (time.Time, bool) {
	y, mo, d := atoi(year), atoi(month), atoi(day)
	if mo < 1 || mo > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC), true
}
