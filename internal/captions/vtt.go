package captions

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	vttTimingRe   = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{3} --> `)
	vttCueIDRe    = regexp.MustCompile(`^\d+$`)
	vttMetaRe     = regexp.MustCompile(`(?i)^(Kind|Language|Style|Region):`)
	vttInlineTsRe = regexp.MustCompile(`<\d{2}:\d{2}:\d{2}\.\d{3}>`)
	tagRe         = regexp.MustCompile(`<[^>]+>`)
	vttNoiseRe    = regexp.MustCompile(`(?i)\[(music|applause|laughter|inaudible)[^\]]*\]`)
)

// cueLines strips the WEBVTT header, NOTE blocks' first line, timing lines,
// numeric cue ids, metadata lines and karaoke-style word-timed lines. Blank
// lines are kept as "" so block boundaries survive.
func cueLines(raw string) []string {
	var out []string
	for _, ln := range strings.Split(raw, "\n") {
		ln = strings.TrimRight(ln, "\r")
		if ln == "" {
			out = append(out, "")
			continue
		}
		switch {
		case strings.HasPrefix(ln, "WEBVTT"), strings.HasPrefix(ln, "NOTE"):
			continue
		case vttTimingRe.MatchString(ln), vttCueIDRe.MatchString(ln), vttMetaRe.MatchString(ln):
			continue
		case strings.Contains(ln, "<c>"), vttInlineTsRe.MatchString(ln):
			continue
		}
		clean := tagRe.ReplaceAllString(ln, "")
		clean = strings.TrimSpace(vttNoiseRe.ReplaceAllString(clean, ""))
		if n := len(out); n > 0 && clean != "" && out[n-1] == clean {
			continue
		}
		out = append(out, clean)
	}
	return out
}

// FromVTT normalizes WebVTT cue text into paragraphs. Rolling captions are
// collapsed: a fragment that extends the previous one by more than two
// characters replaces it, and a fragment that is a prefix of the previous one
// is dropped. Fragments already seen in the current paragraph are skipped.
func FromVTT(raw string) string {
	var pb paragraphBuffer
	seen := make(map[string]struct{})
	for _, ln := range cueLines(raw) {
		frag := strings.TrimSpace(ln)
		if frag == "" {
			continue
		}
		if !pb.empty() {
			last := pb.last()
			if last == frag {
				continue
			}
			if strings.HasPrefix(frag, last) && utf8.RuneCountInString(frag) > utf8.RuneCountInString(last)+2 {
				pb.replaceLast(frag)
				continue
			}
			if strings.HasPrefix(last, frag) && utf8.RuneCountInString(last) > utf8.RuneCountInString(frag)+2 {
				continue
			}
		}
		if _, dup := seen[frag]; dup {
			continue
		}
		pb.add(frag)
		seen[frag] = struct{}{}
		if pb.overCap() {
			pb.flush()
			clear(seen)
		}
	}
	return pb.text()
}
