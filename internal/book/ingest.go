package book

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/anatolykoptev/go_ebook/internal/pipeline"
	"github.com/anatolykoptev/go_ebook/internal/series"
)

// ErrNoTalks is returned when there is nothing to ingest.
var ErrNoTalks = errors.New("talk list is empty; nothing to ingest")

// IngestOptions control chapter generation.
type IngestOptions struct {
	StartIndex int  // first chapter number, default 1
	Overwrite  bool // replace existing chapter files
}

// FormatChapter renders one talk as a Markdown chapter.
func FormatChapter(t pipeline.TalkRecord) string {
	var b strings.Builder
	speaker := orDefault(t.Speaker, "Unknown Speaker")
	title := orDefault(t.Title, "Untitled Talk")
	fmt.Fprintf(&b, "# %s: %s\n\n", speaker, title)

	var meta []string
	if d := strings.TrimSpace(t.Date); d != "" {
		meta = append(meta, "- Date: "+d)
	}
	if u := strings.TrimSpace(t.SourceURL); u != "" {
		meta = append(meta, "- Source: "+u)
	}
	if len(meta) > 0 {
		b.WriteString(strings.Join(meta, "\n"))
		b.WriteString("\n\n")
	}
	b.WriteString(strings.TrimRight(t.Transcript, " \t\r\n"))
	b.WriteString("\n\n")
	return b.String()
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}

// ChapterName is the file name of the idx-th chapter.
func ChapterName(idx int, t pipeline.TalkRecord) string {
	speaker := orDefault(t.Speaker, "Unknown Speaker")
	title := orDefault(t.Title, "Untitled Talk")
	slug := Slugify(speaker+"-"+title, MaxSlugLen)
	if slug == "" {
		slug = fmt.Sprintf("chapter-%02d", idx)
	}
	return fmt.Sprintf("%02d-%s.md", idx, slug)
}

// Ingest writes each talk into the series content directory and returns
// the paths written. Existing chapters are kept unless opts.Overwrite.
func Ingest(p series.Paths, talks []pipeline.TalkRecord, opts IngestOptions) ([]string, error) {
	if len(talks) == 0 {
		return nil, ErrNoTalks
	}
	if err := p.Ensure(); err != nil {
		return nil, err
	}
	idx := opts.StartIndex
	if idx <= 0 {
		idx = 1
	}

	var written []string
	for _, t := range talks {
		path := filepath.Join(p.ContentDir, ChapterName(idx, t))
		idx++
		if _, err := os.Stat(path); err == nil && !opts.Overwrite {
			slog.Info("skip existing chapter", slog.String("path", path))
			continue
		}
		if err := os.WriteFile(path, []byte(FormatChapter(t)), 0o644); err != nil {
			return written, fmt.Errorf("write chapter: %w", err)
		}
		written = append(written, path)
		slog.Info("wrote chapter", slog.String("path", path))
	}
	if len(written) == 0 {
		slog.Info("no chapters written (all existed); use --overwrite to replace")
	}
	return written, nil
}

// IngestFile ingests the talks of a talks.json file.
func IngestFile(p series.Paths, path string, opts IngestOptions) ([]string, error) {
	c, err := pipeline.LoadTalks(path)
	if err != nil {
		return nil, err
	}
	if len(c.Talks) == 0 {
		return nil, fmt.Errorf("%w: no talks in %s", ErrNoTalks, path)
	}
	return Ingest(p, c.Talks, opts)
}
