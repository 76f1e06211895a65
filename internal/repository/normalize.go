package repository

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugRegex        = regexp.MustCompile(`[^a-z0-9-]+`)
	multiHyphenRegex = regexp.MustCompile(`-+`)

	stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Slugify converts text into a URL-safe slug: lowercased, accents stripped,
// spaces and underscores turned into hyphens, anything else dropped. Used
// for catalog category slugs.
func Slugify(text string) string {
	text = strings.ToLower(text)
	text, _, _ = transform.String(stripAccents, text)

	text = strings.ReplaceAll(text, " ", "-")
	text = strings.ReplaceAll(text, "_", "-")

	text = slugRegex.ReplaceAllString(text, "")
	text = multiHyphenRegex.ReplaceAllString(text, "-")

	return strings.Trim(text, "-")
}

// NormalizeKey produces the deduplication key used across the catalog:
// LOWER(TRIM(name)). Kept separate from Slugify because a dictionary/catalog
// key must preserve spaces (it's a lookup key, not a URL fragment).
func NormalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// LooksASCII reports whether, once accents are stripped, the text is
// entirely ASCII letters/digits/punctuation/space — i.e. it is already
// plausibly English and the ingredient pipeline can skip the LLM
// normalization call for it.
func LooksASCII(text string) bool {
	stripped, _, err := transform.String(stripAccents, text)
	if err != nil {
		stripped = text
	}
	for _, r := range stripped {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
