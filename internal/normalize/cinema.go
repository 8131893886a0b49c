package normalize

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dr-cinema/dr-cinema/internal/domain"
)

// Cinema builds the canonical theater entity from one raw upstream record.
func Cinema(rec Record) domain.Cinema {
	return domain.Cinema{
		ID:          FirstString(rec, "_id", "id", "mongoid"),
		Name:        FirstString(rec, "name", "title"),
		Description: StripHTML(FirstString(rec, "description", "about")),
		Address:     FormatAddress(rec["address"]),
		Phone:       FirstString(rec, "phone", "telephone"),
		Website:     EnsureScheme(FirstString(rec, "website", "url", "homepage")),
	}
}

// Cinemas normalizes a theaters payload (bare array or {theaters: [...]}
// wrapper) into a name-sorted list.
func Cinemas(records []Record) []domain.Cinema {
	out := make([]domain.Cinema, 0, len(records))
	for _, rec := range records {
		out = append(out, Cinema(rec))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// FormatAddress renders both upstream address forms to one display string.
// Structured addresses join as "street, city, zipcode".
func FormatAddress(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		parts := make([]string, 0, 3)
		for _, key := range []string{"street", "city", "zipcode"} {
			if s := coercePrimitive(t[key]); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// EnsureScheme prefixes bare hostnames with https:// so websites are always
// openable links.
func EnsureScheme(url string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(url), "http://") || strings.HasPrefix(strings.ToLower(url), "https://") {
		return url
	}
	return "https://" + url
}

var (
	breakTag = regexp.MustCompile(`(?i)<br\s*/?>|</p>`)
	anyTag   = regexp.MustCompile(`<[^>]*>`)
	blank    = regexp.MustCompile(`[ \t]+`)
	newlines = regexp.MustCompile(`\n{3,}`)
)

// StripHTML reduces an HTML description to plain text, preserving paragraph
// and line breaks as newlines.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	s = breakTag.ReplaceAllString(s, "\n")
	s = anyTag.ReplaceAllString(s, "")
	s = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&#39;", "'", "&nbsp;", " ").Replace(s)
	s = blank.ReplaceAllString(s, " ")
	s = newlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
