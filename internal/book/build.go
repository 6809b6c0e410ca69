package book

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anatolykoptev/go_ebook/internal/series"
)

// Title page defaults.
const (
	DefaultTitle    = "YC AI Startup School"
	DefaultSubtitle = "Talks compiled into an eBook"
	DefaultAuthor   = "Y Combinator Speakers"
)

// LoadMetadata reads "key: value" lines. Blank lines, "#" comments and
// lines without a colon are ignored. A missing file yields no metadata.
func LoadMetadata(path string) (map[string]string, error) {
	meta := map[string]string{}
	if path == "" {
		return meta, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return meta, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		ln := strings.TrimSpace(sc.Text())
		if ln == "" || strings.HasPrefix(ln, "#") {
			continue
		}
		k, v, ok := strings.Cut(ln, ":")
		if !ok {
			continue
		}
		meta[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return meta, sc.Err()
}

func metaOr(meta map[string]string, key, def string) string {
	if v, ok := meta[key]; ok {
		return v
	}
	return def
}

// TitlePage renders the manuscript's title page. An explicitly empty
// subtitle or author is omitted; the date defaults to now.
func TitlePage(meta map[string]string, now time.Time) string {
	date := meta["date"]
	if date == "" {
		date = now.Format("2006-01-02")
	}
	parts := []string{"# " + metaOr(meta, "title", DefaultTitle)}
	if s := metaOr(meta, "subtitle", DefaultSubtitle); s != "" {
		parts = append(parts, "\n_"+s+"_\n")
	}
	if a := metaOr(meta, "author", DefaultAuthor); a != "" {
		parts = append(parts, "\n"+a+"\n")
	}
	parts = append(parts, "\n"+date+"\n", "\n---\n\n")
	return strings.Join(parts, "\n")
}

// Manuscript concatenates the title page and the chapter files.
func Manuscript(files []string, meta map[string]string, now time.Time) (string, error) {
	var b strings.Builder
	b.WriteString(TitlePage(meta, now))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		b.WriteString(strings.TrimRight(string(data), " \t\r\n"))
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

// Build writes build/<slug>/book.md from every chapter in the content
// directory and returns its path.
func Build(p series.Paths) (string, error) {
	if err := p.Ensure(); err != nil {
		return "", err
	}
	files, err := Chapters(p.ContentDir, false)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no chapter files found in %s", p.ContentDir)
	}
	meta, err := LoadMetadata(p.MetadataPath)
	if err != nil {
		return "", fmt.Errorf("metadata: %w", err)
	}
	md, err := Manuscript(files, meta, time.Now())
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p.BookPath), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(p.BookPath, []byte(md), 0o644); err != nil {
		return "", err
	}
	slog.Info("built manuscript", slog.String("path", p.BookPath), slog.Int("chapters", len(files)))
	return p.BookPath, nil
}
