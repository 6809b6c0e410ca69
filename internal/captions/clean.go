package captions

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	paraSplitRe     = regexp.MustCompile(`\n\s*\n`)
	parenNoiseRe    = regexp.MustCompile(`(?i)\((music|applause|laughter|inaudible)[^)]*\)`)
	spaceBeforePunc = regexp.MustCompile(`\s+([,.;:!?])`)
)

// CleanText tidies an already segmented transcript: bracketed and
// parenthesized noise markers and tags are removed, whitespace is collapsed
// and punctuation spacing is normalized. Paragraph breaks are kept.
func CleanText(text string) string {
	var out []string
	for _, p := range paraSplitRe.Split(strings.TrimSpace(text), -1) {
		p = vttNoiseRe.ReplaceAllString(p, "")
		p = parenNoiseRe.ReplaceAllString(p, "")
		p = tagRe.ReplaceAllString(p, "")
		p = spaceRe.ReplaceAllString(p, " ")
		p = spaceBeforePunc.ReplaceAllString(p, "$1")
		p = spaceAfterPunct(p)
		p = collapse(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n") + "\n"
}

func isSentencePunct(r rune) bool {
	return strings.ContainsRune(",.;:!?", r)
}

// spaceAfterPunct inserts a space after punctuation directly followed by a
// non-space character.
func spaceAfterPunct(s string) string {
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i, r := range rs {
		b.WriteRune(r)
		if isSentencePunct(r) && i+1 < len(rs) && !unicode.IsSpace(rs[i+1]) {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
