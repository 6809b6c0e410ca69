package book

import (
	"context"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_ebook/internal/captions"
	"github.com/anatolykoptev/go_ebook/internal/pipeline"
	"github.com/anatolykoptev/go_ebook/internal/ytdlp"
)

// MetadataSource looks up a video's upload metadata. *ytdlp.Runner
// implements it.
type MetadataSource interface {
	Metadata(ctx context.Context, videoURL string) (ytdlp.Metadata, error)
}

// Enrich cleans every transcript in the talks file at in and, when meta is
// set, fills missing dates and canonical URLs from it. The result goes to
// out (in when empty) only if something changed. It returns the number of
// changes.
func Enrich(ctx context.Context, in, out string, meta MetadataSource) (int, error) {
	c, err := pipeline.LoadTalks(in)
	if err != nil {
		return 0, err
	}
	if out == "" {
		out = in
	}

	changed := 0
	for i := range c.Talks {
		t := &c.Talks[i]
		txt := strings.TrimRight(t.Transcript, " \t\r\n")
		if cleaned := captions.CleanText(txt); cleaned != txt+"\n" {
			t.Transcript = cleaned
			changed++
		}

		src := strings.TrimSpace(t.SourceURL)
		if meta == nil || src == "" || t.Date != "" {
			continue
		}
		if ctx.Err() != nil {
			return changed, ctx.Err()
		}
		md, err := meta.Metadata(ctx, src)
		if err != nil {
			slog.Warn("metadata lookup failed", slog.String("url", src), slog.Any("error", err))
			continue
		}
		if d, ok := ytdlp.NormalizeDate(md.UploadDate); ok {
			t.Date = d
			changed++
		}
		if md.WebpageURL != "" && md.WebpageURL != src {
			t.SourceURL = md.WebpageURL
			changed++
		}
	}

	if changed > 0 {
		if err := pipeline.SaveTalks(out, c); err != nil {
			return changed, err
		}
	}
	return changed, nil
}
