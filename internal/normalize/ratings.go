package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/dr-cinema/dr-cinema/internal/domain"
)

// contentRatingKeys is the movie-level candidate order for the content
// (age) rating field.
var contentRatingKeys = []string{"rating", "rated", "certificate", "certificateIS"}

// ContentRating coerces a content/age rating of unknown shape to a display
// string. Strings that themselves look like serialized JSON are parsed once
// and re-fed through the object rules before the raw string is given up on.
func ContentRating(v any) string {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return ""
		}
		if looksLikeJSON(s) {
			var parsed any
			if err := json.Unmarshal([]byte(s), &parsed); err == nil {
				if out := contentRatingFromParsed(parsed); out != "" {
					return out
				}
			}
		}
		return s
	case float64:
		return formatNumber(t)
	case int:
		return strconv.Itoa(t)
	case map[string]any:
		return contentRatingFromObject(t)
	default:
		return ""
	}
}

// MovieContentRating resolves the content rating from the movie-level
// candidate keys, falling back to the omdb payload's Rated field.
func MovieContentRating(rec Record) string {
	for _, key := range contentRatingKeys {
		if s := ContentRating(rec[key]); s != "" {
			return s
		}
	}
	if omdb := child(rec, "omdb"); omdb != nil {
		for _, key := range []string{"rated", "Rated"} {
			if s := ContentRating(omdb[key]); s != "" {
				return s
			}
		}
	}
	return ""
}

func looksLikeJSON(s string) bool {
	return (strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")) ||
		(strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"))
}

func contentRatingFromParsed(v any) string {
	switch t := v.(type) {
	case map[string]any:
		return contentRatingFromObject(t)
	case []any:
		if len(t) > 0 {
			return contentRatingFromParsed(t[0])
		}
		return ""
	default:
		return ""
	}
}

func contentRatingFromObject(obj Record) string {
	// Certificate shapes observed upstream: {is: "12 ára"}, {number: "12",
	// suffix: " ára"}, {name: ...}, OMDb's {Rated: ...}.
	if s := coercePrimitive(obj["is"]); s != "" {
		return s
	}
	if s := coercePrimitive(obj["number"]); s != "" {
		if suffix := coercePrimitive(obj["suffix"]); suffix != "" {
			return s + " " + suffix
		}
		return s
	}
	if s := coercePrimitive(obj["name"]); s != "" {
		return s
	}
	if s := coercePrimitive(obj["Rated"]); s != "" {
		return s
	}
	for _, key := range []string{"rating", "name", "value", "code"} {
		if s := coercePrimitive(obj[key]); s != "" {
			return s
		}
	}
	return ""
}

func coercePrimitive(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return formatNumber(t)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

// Ratings reconciles the numeric scores from the record's rating-bearing
// structures. A record with no such structure at all yields nil (scores not
// attempted); a structure whose Rotten Tomatoes candidates are absent or
// parse to 0 yields the explicit confirmed-absent marker, never a bare 0.
func Ratings(rec Record) *domain.Ratings {
	scores := child(rec, "ratings")
	omdb := child(rec, "omdb")
	if scores == nil && omdb == nil {
		return nil
	}

	out := &domain.Ratings{}

	if f, ok := imdbScore(scores, omdb); ok {
		out.IMDb = &f
	}

	if score, ok := rottenScore(scores, omdb); ok {
		out.RottenTomatoes = domain.ResolvedTomatoes(score)
	} else {
		out.RottenTomatoes = domain.AbsentTomatoes()
	}
	return out
}

func imdbScore(scores, omdb Record) (float64, bool) {
	candidates := []any{}
	if scores != nil {
		candidates = append(candidates, scores["imdb"])
	}
	if omdb != nil {
		candidates = append(candidates, omdb["imdbRating"])
	}
	for _, cand := range candidates {
		s := coercePrimitive(cand)
		if s == "" {
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			continue
		}
		return f, true
	}
	return 0, false
}

func rottenScore(scores, omdb Record) (int, bool) {
	candidates := []any{}
	if omdb != nil {
		candidates = append(candidates, omdb["tomatoMeter"])
	}
	if scores != nil {
		candidates = append(candidates, scores["rotten_critics"], scores["rotten_audience"])
	}
	if omdb != nil {
		candidates = append(candidates, omdb["tomatoRating"])
	}
	for _, cand := range candidates {
		// A raw 0 is indistinguishable from "unrated" upstream, so it does
		// not satisfy the candidate and the next source gets a chance.
		if score, ok := ParsePercent(coercePrimitive(cand)); ok && score > 0 {
			return score, true
		}
	}
	return 0, false
}

// ParsePercent extracts an integer score out of a percentage-style value
// ("92%", "92", 92). Non-digit characters are stripped before parsing.
func ParsePercent(s string) (int, bool) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return 0, false
	}
	score, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return score, true
}
