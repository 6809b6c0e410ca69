// Package titles separates a talk title from its speaker's name in a raw
// video title.
package titles

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultSeries is the branding stripped from titles when Splitter.Series is empty.
const DefaultSeries = "AI Startup School"

// Rule extracts a (talk, speaker) candidate from a cleaned title. ok is false
// when the rule does not apply or its speaker side fails LooksLikePerson.
type Rule struct {
	Name  string
	Apply func(title string) (talk, speaker string, ok bool)
}

// Splitter strips series branding from a title and runs Rules in order,
// stopping at the first that accepts.
type Splitter struct {
	Series string
	Rules  []Rule

	suffixRes []*regexp.Regexp
}

// NewSplitter builds a splitter for the given series name with DefaultRules.
func NewSplitter(series string) *Splitter {
	if strings.TrimSpace(series) == "" {
		series = DefaultSeries
	}
	q := regexp.QuoteMeta(strings.ToLower(series))
	q = strings.ReplaceAll(q, " ", `\s+`)
	return &Splitter{
		Series: series,
		Rules:  DefaultRules(),
		suffixRes: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\s*[|\-]\s*` + q + `.*$`),
			regexp.MustCompile(`(?i)\s*\(` + q + `.*\)$`),
		},
	}
}

var defaultSplitter = NewSplitter(DefaultSeries)

// Split is NewSplitter(DefaultSeries).Split.
func Split(raw string) (talk, speaker string) {
	return defaultSplitter.Split(raw)
}

// Clean removes trailing series branding like "| AI Startup School" or
// "(AI Startup School 2025)".
func (s *Splitter) Clean(raw string) string {
	t := raw
	for _, re := range s.suffixRes {
		t = re.ReplaceAllString(t, "")
	}
	return strings.TrimSpace(t)
}

// Split returns the talk title and the speaker. speaker is "" when no rule
// matched, in which case talk is the cleaned title.
func (s *Splitter) Split(raw string) (talk, speaker string) {
	t := s.Clean(raw)
	for _, r := range s.Rules {
		if talk, speaker, ok := r.Apply(t); ok {
			return talk, speaker
		}
	}
	return t, ""
}

// dashRe also splits on '|', so "<Capitalized Words> | <rest>" takes the
// left side as the speaker before pipe-tail is consulted.
var (
	byRe    = regexp.MustCompile(`(?i)(.+?)\s+by\s+(.+)$`)
	withRe  = regexp.MustCompile(`(?i)(.+?)\s+with\s+(.+)$`)
	colonRe = regexp.MustCompile(`^([^:]+):\s*(.+)$`)
	dashRe  = regexp.MustCompile(`^([^\-|–—]+)[\-|–—]\s*(.+)$`)
)

// DefaultRules is the rule cascade, most specific first.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "by", Apply: speakerRight(byRe)},
		{Name: "with", Apply: speakerRight(withRe)},
		{Name: "colon", Apply: speakerLeft(colonRe)},
		{Name: "dash", Apply: speakerLeft(dashRe)},
		{Name: "pipe-tail", Apply: pipeTail},
	}
}

// speakerRight handles "<talk> <sep> <speaker>".
func speakerRight(re *regexp.Regexp) func(string) (string, string, bool) {
	return func(t string) (string, string, bool) {
		m := re.FindStringSubmatch(t)
		if m == nil {
			return "", "", false
		}
		talk, speaker := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if !LooksLikePerson(speaker) {
			return "", "", false
		}
		return talk, speaker, true
	}
}

// speakerLeft handles "<speaker> <sep> <talk>".
func speakerLeft(re *regexp.Regexp) func(string) (string, string, bool) {
	return func(t string) (string, string, bool) {
		m := re.FindStringSubmatch(t)
		if m == nil {
			return "", "", false
		}
		left, right := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if !LooksLikePerson(left) {
			return "", "", false
		}
		return right, left, true
	}
}

// pipeTail takes the text after the last '|' and looks for a name in its
// last 4, 3, then 2 words, e.g. "Anthropic Co-founder Jared Kaplan". It is
// reached only when the text before the first separator does not itself look
// like a person, as in "Scaling and the Road to Human-Level AI | ...".
func pipeTail(t string) (string, string, bool) {
	i := strings.LastIndex(t, "|")
	if i < 0 {
		return "", "", false
	}
	left, right := t[:i], strings.TrimSpace(t[i+1:])
	tokens := strings.Fields(right)
	for _, take := range []int{4, 3, 2} {
		if len(tokens) < take {
			continue
		}
		cand := strings.Join(tokens[len(tokens)-take:], " ")
		if LooksLikePerson(cand) {
			return strings.TrimSpace(left), cand, true
		}
	}
	return "", "", false
}

var dashReplacer = strings.NewReplacer("–", "-", "—", "-")

// LooksLikePerson reports whether text reads like a personal name: one to six
// words where all but at most one start each hyphen part with an upper-case
// letter.
func LooksLikePerson(text string) bool {
	tokens := strings.Fields(dashReplacer.Replace(text))
	n := len(tokens)
	if n < 1 || n > 6 {
		return false
	}
	good := 0
	for _, tok := range tokens {
		if capitalized(tok) {
			good++
		}
	}
	return good >= max(1, n-1)
}

func capitalized(tok string) bool {
	for _, part := range strings.Split(tok, "-") {
		if part == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(part)
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
