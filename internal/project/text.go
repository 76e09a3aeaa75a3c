package project

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ParseTags splits a comma-separated tag list, trimming blanks.
func ParseTags(value string) []string {
	tags := []string{}
	for _, part := range strings.Split(value, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Slugify derives a URL slug from a title: accents are stripped, letters are
// lowercased and any other run of characters becomes a single hyphen.
func Slugify(title string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}
	folded = cases.Lower(language.Und).String(folded)

	var b strings.Builder
	pendingDash := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// Matches reports whether p matches a search term: a case-insensitive
// substring of the title, the description, or any tag. A blank term matches
// everything.
func Matches(p Project, term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	fold := cases.Fold()
	needle := fold.String(term)
	if strings.Contains(fold.String(p.Title), needle) {
		return true
	}
	if strings.Contains(fold.String(p.Description), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(fold.String(tag), needle) {
			return true
		}
	}
	return false
}

// Filter returns the projects matching term, preserving order.
func Filter(projects []Project, term string) []Project {
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if Matches(p, term) {
			out = append(out, p)
		}
	}
	return out
}
