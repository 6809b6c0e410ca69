package book

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/anatolykoptev/go_ebook/internal/engine"
	"github.com/anatolykoptev/go_ebook/internal/series"
)

var (
	fillerRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:um+|uh+|er+|ah+)\b[,.!?]*`),
		regexp.MustCompile(`(?i)\b(?:you know|i mean|kind of|sort of)\b[\s,.-]*`),
		regexp.MustCompile(`(?i)\b(?:okay|ok|yeah|right)\b[\s,.-]*`),
	}
	// "like" only when punctuation follows; the punctuation is kept.
	fillerLikeRe = regexp.MustCompile(`(?i)\blike\b(\s*[,.\-])`)

	multiSpaceRe    = regexp.MustCompile(`\s{2,}`)
	anySpaceRe      = regexp.MustCompile(`\s+`)
	spaceBeforePunc = regexp.MustCompile(`\s+([,.;:!?])`)
	sentenceEndRe   = regexp.MustCompile(`([.!?]+)\s+`)
	loneIRe         = regexp.MustCompile(`\bi\b`)

	termRules = []struct {
		re   *regexp.Regexp
		repl string
	}{
		{regexp.MustCompile(`(?i)\bi'm\b`), "I'm"},
		{regexp.MustCompile(`(?i)\bi've\b`), "I've"},
		{regexp.MustCompile(`(?i)\bi'll\b`), "I'll"},
		{regexp.MustCompile(`(?i)\bi'd\b`), "I'd"},
		{regexp.MustCompile(`(?i)\byc\b`), "YC"},
		{regexp.MustCompile(`(?i)\bai\b`), "AI"},
	}
)

// Headings are the section titles inserted into long chapters, in order.
var Headings = []string{"Introduction", "Key Ideas", "Technical Insights", "Applications", "Conclusion"}

// MinParagraphsForHeadings is the chapter length at which sections appear.
const MinParagraphsForHeadings = 6

// RemoveFiller drops spoken fillers and tidies the spacing they leave.
func RemoveFiller(text string) string {
	out := text
	for _, re := range fillerRes {
		out = re.ReplaceAllString(out, "")
	}
	out = fillerLikeRe.ReplaceAllString(out, "$1")
	out = multiSpaceRe.ReplaceAllString(out, " ")
	out = spaceBeforePunc.ReplaceAllString(out, "$1")
	return strings.TrimSpace(out)
}

// SentenceCase capitalizes the first letter of every sentence and fixes
// the pronoun "I", its contractions and the YC and AI acronyms.
func SentenceCase(paragraph string) string {
	paragraph = strings.TrimSpace(anySpaceRe.ReplaceAllString(paragraph, " "))
	if paragraph == "" {
		return ""
	}
	var b strings.Builder
	prev := 0
	for _, m := range sentenceEndRe.FindAllStringSubmatchIndex(paragraph, -1) {
		b.WriteString(fixSentence(paragraph[prev:m[0]]))
		b.WriteString(paragraph[m[2]:m[3]])
		b.WriteByte(' ')
		prev = m[1]
	}
	b.WriteString(fixSentence(paragraph[prev:]))
	return strings.TrimSpace(b.String())
}

func fixSentence(s string) string {
	rs := []rune(s)
	for i, r := range rs {
		if unicode.IsLetter(r) {
			rs[i] = unicode.ToUpper(r)
			break
		}
	}
	out := loneIRe.ReplaceAllString(string(rs), "I")
	for _, t := range termRules {
		out = t.re.ReplaceAllString(out, t.repl)
	}
	return out
}

// AddSubheadings splits long chapters into evenly sized sections headed by
// the first entries of Headings. Short chapters and chapters that already
// carry "## " headings come back unchanged.
func AddSubheadings(paras []string) []string {
	n := len(paras)
	if n < MinParagraphsForHeadings {
		return paras
	}
	for _, p := range paras {
		if strings.HasPrefix(p, "## ") {
			return paras
		}
	}
	sections := min(len(Headings), max(2, n/6))
	out := make([]string, 0, n+sections)
	for i := 0; i < sections; i++ {
		out = append(out, "## "+Headings[i])
		out = append(out, paras[n*i/sections:n*(i+1)/sections]...)
	}
	return out
}

// SplitChapter separates the chapter header (title line and "- key: value"
// lines) from the body paragraphs.
func SplitChapter(content string) (header []string, paras []string) {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	i := 0
	for ; i < len(lines); i++ {
		ln := strings.TrimSpace(lines[i])
		if i == 0 && strings.HasPrefix(ln, "#") {
			header = append(header, lines[i])
			continue
		}
		if ln == "" || strings.HasPrefix(ln, "- ") {
			header = append(header, lines[i])
			continue
		}
		break
	}
	body := strings.Trim(strings.Join(lines[i:], "\n"), "\n")
	if body == "" {
		return header, nil
	}
	for _, p := range strings.Split(body, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paras = append(paras, p)
		}
	}
	return header, paras
}

// Rewriter rewrites one paragraph; used for the optional LLM pass.
type Rewriter func(ctx context.Context, paragraph string) (string, error)

const llmSystemPrompt = `You edit transcripts of spoken talks into readable prose.
Rewrite the paragraph with correct punctuation and grammar. Keep the speaker's meaning, voice and first person.
Do not summarize, add facts or headings. Return only the rewritten paragraph.`

// LLMRewriter rewrites paragraphs through the configured LLM.
func LLMRewriter() Rewriter {
	return func(ctx context.Context, p string) (string, error) {
		return engine.CallLLM(ctx, llmSystemPrompt, p)
	}
}

// PolishText applies filler removal, sentence casing, the optional rewrite
// and section headings to a chapter.
func PolishText(ctx context.Context, content string, rw Rewriter) (string, bool) {
	header, paras := SplitChapter(content)
	if len(paras) == 0 {
		return content, false
	}
	cleaned := make([]string, 0, len(paras))
	for _, p := range paras {
		if strings.HasPrefix(p, "#") {
			cleaned = append(cleaned, p)
			continue
		}
		c := SentenceCase(RemoveFiller(p))
		if rw != nil && c != "" {
			if r, err := rw(ctx, c); err != nil {
				slog.Debug("paragraph rewrite failed", slog.Any("error", err))
			} else if r = strings.TrimSpace(r); r != "" {
				c = r
			}
		}
		if c != "" {
			cleaned = append(cleaned, c)
		}
	}
	head := strings.TrimRight(strings.Join(header, "\n"), "\n")
	body := strings.Join(AddSubheadings(cleaned), "\n\n")
	if head == "" {
		return body + "\n", true
	}
	return head + "\n\n" + body + "\n", true
}

// PolishFile polishes one chapter file in place.
func PolishFile(ctx context.Context, path string, rw Rewriter) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out, ok := PolishText(ctx, string(data), rw)
	if !ok {
		return nil
	}
	return os.WriteFile(path, []byte(out), 0o644)
}

// Chapters lists the series chapter files in order. The introduction
// chapter is left out when skipIntro is set.
func Chapters(dir string, skipIntro bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ".md") {
			continue
		}
		if skipIntro && strings.HasPrefix(name, "000-introduction") {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	sort.Strings(out)
	return out, nil
}

// Polish polishes one chapter (file relative to the content directory, or
// absolute) or, when file is empty, every chapter except the introduction.
func Polish(ctx context.Context, p series.Paths, file string, rw Rewriter) ([]string, error) {
	var targets []string
	switch {
	case file == "":
		var err error
		if targets, err = Chapters(p.ContentDir, true); err != nil {
			return nil, err
		}
	case filepath.IsAbs(file):
		targets = []string{file}
	default:
		targets = []string{filepath.Join(p.ContentDir, file)}
	}

	var done []string
	for _, path := range targets {
		if ctx.Err() != nil {
			return done, ctx.Err()
		}
		if err := PolishFile(ctx, path, rw); err != nil {
			return done, fmt.Errorf("polish %s: %w", path, err)
		}
		done = append(done, path)
		slog.Info("polished", slog.String("path", path))
	}
	return done, nil
}
