// Package book turns talk records into Markdown chapters, polishes them and
// compiles the chapters into a single manuscript.
package book

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxSlugLen bounds chapter file slugs.
const MaxSlugLen = 80

var (
	slugDropRe = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSepRe  = regexp.MustCompile(`[\s_-]+`)
)

// foldAccents strips combining marks after canonical decomposition, so
// "Café" becomes "Cafe".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Slugify lower-cases text, folds accents, keeps [a-z0-9] words joined by
// single dashes and caps the result at maxLen (MaxSlugLen when <= 0).
func Slugify(text string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = MaxSlugLen
	}
	s := strings.ToLower(foldAccents(text))
	s = slugDropRe.ReplaceAllString(s, "")
	s = strings.Trim(slugSepRe.ReplaceAllString(s, "-"), "-")
	if len(s) > maxLen {
		s = strings.TrimRight(s[:maxLen], "-")
	}
	return s
}
