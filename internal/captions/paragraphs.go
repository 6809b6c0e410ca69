// Package captions turns raw caption payloads (timed XML, WebVTT cue text,
// timed segments) into paragraph text.
package captions

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxParagraphChars is the soft cap on a paragraph's joined length.
	// The fragment that crosses it stays in the paragraph.
	MaxParagraphChars = 800

	// GapSeconds is the silence between two cues that starts a new paragraph.
	GapSeconds = 2.5
)

// Segment is one timed caption line.
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// End returns the time the segment stops being displayed.
func (s Segment) End() float64 { return s.Start + s.Duration }

var spaceRe = regexp.MustCompile(`\s+`)

// collapse squeezes every whitespace run to a single space.
func collapse(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// paragraphBuffer accumulates fragments and emits paragraphs.
type paragraphBuffer struct {
	buf   []string
	size  int // joined rune length of buf
	paras []string
}

func (p *paragraphBuffer) empty() bool { return len(p.buf) == 0 }

func (p *paragraphBuffer) add(frag string) {
	if len(p.buf) > 0 {
		p.size++
	}
	p.buf = append(p.buf, frag)
	p.size += utf8.RuneCountInString(frag)
}

// replaceLast swaps the newest fragment, keeping size in step.
func (p *paragraphBuffer) replaceLast(frag string) {
	last := len(p.buf) - 1
	p.size += utf8.RuneCountInString(frag) - utf8.RuneCountInString(p.buf[last])
	p.buf[last] = frag
}

func (p *paragraphBuffer) last() string { return p.buf[len(p.buf)-1] }

func (p *paragraphBuffer) overCap() bool { return p.size > MaxParagraphChars }

func (p *paragraphBuffer) flush() {
	if len(p.buf) == 0 {
		return
	}
	p.paras = append(p.paras, strings.Join(p.buf, " "))
	p.buf = p.buf[:0]
	p.size = 0
}

// text flushes what is left and renders the paragraphs separated by a blank
// line with a trailing newline. Empty output stays empty.
func (p *paragraphBuffer) text() string {
	p.flush()
	return JoinParagraphs(p.paras)
}

// JoinParagraphs collapses whitespace in each paragraph, drops empty ones and
// joins the rest with a blank line. The result ends in a newline unless no
// paragraph survives.
func JoinParagraphs(paras []string) string {
	out := make([]string, 0, len(paras))
	for _, p := range paras {
		if c := collapse(p); c != "" {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n\n") + "\n"
}

// FromSegments groups segments into paragraphs on silence gaps longer than
// GapSeconds and on the MaxParagraphChars soft cap. Segment order is kept.
func FromSegments(segs []Segment) string {
	var pb paragraphBuffer
	lastEnd := 0.0
	for _, s := range segs {
		txt := strings.TrimSpace(strings.ReplaceAll(s.Text, "\n", " "))
		if txt == "" {
			continue
		}
		if s.Start-lastEnd > GapSeconds && !pb.empty() {
			pb.flush()
		}
		pb.add(txt)
		lastEnd = s.End()
		if pb.overCap() {
			pb.flush()
		}
	}
	return pb.text()
}

// MergeLines joins untimed caption lines into paragraphs, breaking only on
// the MaxParagraphChars soft cap.
func MergeLines(lines []string) string {
	var pb paragraphBuffer
	for _, ln := range lines {
		ln = collapse(ln)
		if ln == "" {
			continue
		}
		pb.add(ln)
		if pb.overCap() {
			pb.flush()
		}
	}
	return pb.text()
}
