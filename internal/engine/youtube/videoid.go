package youtube

import (
	"regexp"
	"strings"
)

var (
	bareIDRe  = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	queryIDRe = regexp.MustCompile(`[?&]v=([A-Za-z0-9_-]{11})`)
	shortIDRe = regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})`)
)

// ExtractVideoID returns the 11-character id from a bare id, a watch URL or
// a youtu.be link.
func ExtractVideoID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if bareIDRe.MatchString(s) {
		return s, true
	}
	for _, re := range []*regexp.Regexp{queryIDRe, shortIDRe} {
		if m := re.FindStringSubmatch(s); len(m) == 2 {
			return m[1], true
		}
	}
	return "", false
}
