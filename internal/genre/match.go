// Package genre matches quiz genres against catalog categories.
package genre

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify reduces a genre name or catalog category to the hyphenated ASCII
// form both sides are compared in. Accents fold to their base letter and any
// run of other punctuation becomes one hyphen, so "Fiction / Mystery &
// Detective" and "fiction-mystery-detective" compare equal.
func Slugify(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range norm.NFKD.String(s) {
		if r > unicode.MaxASCII {
			// Combining marks and letters with no ASCII decomposition.
			continue
		}
		r = unicode.ToLower(r)
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

// Overlaps reports whether any requested genre matches any catalog category.
// Both sides are normalized to canonical slugs. A category also matches when
// it contains the genre slug as a whole hyphen-separated run, so "mystery"
// matches "cozy-mystery" but "art" does not match "smart-thinking".
func Overlaps(genres, categories []string) bool {
	if len(genres) == 0 || len(categories) == 0 {
		return false
	}

	var catSlugs []string
	for _, c := range categories {
		catSlugs = append(catSlugs, NormalizeToSlugs(c)...)
	}

	for _, g := range genres {
		for _, gs := range NormalizeToSlugs(g) {
			for _, cs := range catSlugs {
				if containsSegment(cs, gs) {
					return true
				}
			}
		}
	}
	return false
}

func containsSegment(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	if haystack == needle {
		return true
	}
	padded := "-" + haystack + "-"
	return strings.Contains(padded, "-"+needle+"-")
}
