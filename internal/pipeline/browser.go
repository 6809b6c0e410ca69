package pipeline

import (
	"context"
	"log/slog"

	"github.com/anatolykoptev/go_ebook/internal/engine"
	"github.com/anatolykoptev/go_ebook/internal/series"
	"github.com/anatolykoptev/go_ebook/internal/titles"
)

// PageTranscriber renders a watch page and scrapes its captions.
// *browser.Session implements it.
type PageTranscriber interface {
	Transcript(ctx context.Context, videoURL string) (text, source string, ok bool)
}

// BrowserOptions control the browser workflow.
type BrowserOptions struct {
	Limit       int
	SeriesTitle string
	Titles      *titles.Splitter
}

// BrowserFetch harvests transcripts for every video in videos.json by
// driving a real browser, then writes talks.json.
func BrowserFetch(ctx context.Context, p series.Paths, pt PageTranscriber, opts BrowserOptions) (*Summary, error) {
	if err := p.Ensure(); err != nil {
		return nil, err
	}
	list, err := loadManifest(p, opts.Limit)
	if err != nil {
		return nil, err
	}
	split := opts.Titles
	if split == nil {
		split = titles.NewSplitter("")
	}

	sum := newSummary()
	sum.PlaylistID = list.PlaylistID
	sum.Videos = list.Videos
	var stopped error
	for i, v := range list.Videos {
		if err := ctx.Err(); err != nil {
			stopped = interrupted("browser", i, len(list.Videos), err)
			break
		}
		slog.Info("browser",
			slog.Int("n", i+1), slog.Int("total", len(list.Videos)),
			slog.String("video_id", v.VideoID), slog.String("title", v.Title))
		text, how, ok := pt.Transcript(ctx, v.URL)
		if !ok || text == "" {
			sum.Skipped++
			slog.Warn("no transcript in browser; skipping", slog.String("video_id", v.VideoID))
			continue
		}
		slog.Debug("browser transcript", slog.String("video_id", v.VideoID), slog.String("via", how))
		engine.IncrTranscriptSource(engine.SourceBrowser)
		talk, speaker := split.Split(v.Title)
		sum.add(TalkRecord{
			Speaker:    firstNonEmpty(speaker, unknownSpeaker),
			Title:      firstNonEmpty(talk, v.Title),
			SourceURL:  v.URL,
			Transcript: text,
		}, engine.SourceBrowser)
	}

	title := firstNonEmpty(list.Series, opts.SeriesTitle, DefaultSeriesTitle)
	if err := SaveTalks(p.TalksPath, &TalkCollection{Series: title, Talks: sum.Talks}); err != nil {
		return sum, err
	}
	sum.Log("browser")
	return sum, stopped
}
