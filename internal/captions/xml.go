package captions

import (
	"encoding/xml"
	"html"
	"sort"
	"strconv"
	"strings"
)

// defaultCueDuration applies to <text> nodes without a dur attribute.
const defaultCueDuration = 2.0

type timedText struct {
	Lines []timedLine `xml:"text"`
}

type timedLine struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Text  string `xml:",chardata"`
}

// ParseTimedXML decodes a timedtext document (<transcript><text start dur>)
// into segments sorted by start time. Entity-escaped text is unescaped and
// newlines are flattened. Nodes without text are dropped.
func ParseTimedXML(doc string) ([]Segment, error) {
	var tt timedText
	if err := xml.Unmarshal([]byte(doc), &tt); err != nil {
		return nil, err
	}
	segs := make([]Segment, 0, len(tt.Lines))
	for _, ln := range tt.Lines {
		txt := strings.TrimSpace(strings.ReplaceAll(html.UnescapeString(ln.Text), "\n", " "))
		if txt == "" {
			continue
		}
		segs = append(segs, Segment{
			Text:     txt,
			Start:    parseSeconds(ln.Start, 0),
			Duration: parseSeconds(ln.Dur, defaultCueDuration),
		})
	}
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].Start < segs[j].Start })
	return segs, nil
}

// FromTimedXML normalizes a timedtext XML document into paragraph text.
// A document that does not parse yields "".
func FromTimedXML(doc string) string {
	segs, err := ParseTimedXML(doc)
	if err != nil || len(segs) == 0 {
		return ""
	}
	return FromSegments(segs)
}

// LooksLikeTimedXML reports whether body is a timedtext document with at
// least one text node. A leading <?xml ...?> declaration is skipped before
// the root element is checked.
func LooksLikeTimedXML(body string) bool {
	return strings.HasPrefix(skipProlog(body), "<transcript") && strings.Contains(body, "<text")
}

func skipProlog(body string) string {
	body = strings.TrimSpace(body)
	if !strings.HasPrefix(body, "<?xml") {
		return body
	}
	end := strings.Index(body, "?>")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(body[end+2:])
}

func parseSeconds(s string, def float64) float64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}
