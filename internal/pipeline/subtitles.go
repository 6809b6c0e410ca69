package pipeline

import (
	"context"
	"log/slog"

	"github.com/anatolykoptev/go_ebook/internal/captions"
	"github.com/anatolykoptev/go_ebook/internal/engine"
	"github.com/anatolykoptev/go_ebook/internal/engine/youtube"
	"github.com/anatolykoptev/go_ebook/internal/series"
	"github.com/anatolykoptev/go_ebook/internal/titles"
)

// CaptionDownloader writes a video's caption files into dir.
// *ytdlp.Runner implements it.
type CaptionDownloader interface {
	DownloadCaptions(ctx context.Context, videoID, videoURL, dir string) ([]string, error)
}

// SubtitleOptions control the subtitles workflow.
type SubtitleOptions struct {
	Cookies     string // Netscape cookies.txt; enables the direct fetch fallback
	Limit       int
	SeriesTitle string
	Titles      *titles.Splitter
}

// DownloadSubtitles harvests captions for every video in videos.json with
// the external downloader, falling back to a cookie-authenticated caption
// track fetch. dl may be nil when no downloader is installed.
func DownloadSubtitles(ctx context.Context, p series.Paths, dl CaptionDownloader, opts SubtitleOptions) (*Summary, error) {
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

	var fallback *youtube.Provider
	if opts.Cookies != "" {
		pr := youtube.PlayerResponseProvider(youtube.CookieTrackWeights, engine.CookieHeaderFromFile(opts.Cookies))
		fallback = &pr
	}

	sum := newSummary()
	sum.PlaylistID = list.PlaylistID
	sum.Videos = list.Videos
	var stopped error
	for i, v := range list.Videos {
		if err := ctx.Err(); err != nil {
			stopped = interrupted("subtitles", i, len(list.Videos), err)
			break
		}
		slog.Info("subtitles",
			slog.Int("n", i+1), slog.Int("total", len(list.Videos)),
			slog.String("video_id", v.VideoID), slog.String("title", v.Title))

		text, source := subtitleText(ctx, p.SubsDir, dl, v)
		if text == "" && fallback != nil {
			slog.Info("no caption file; trying direct fetch with cookies", slog.String("video_id", v.VideoID))
			if t, ok := fallback.Fetch(ctx, v.VideoID, nil); ok {
				text, source = t, fallback.Name
			}
		}
		if text == "" {
			sum.Skipped++
			slog.Warn("could not obtain subtitles; skipping", slog.String("video_id", v.VideoID))
			continue
		}
		engine.IncrTranscriptSource(source)
		talk, speaker := split.Split(v.Title)
		sum.add(TalkRecord{
			Speaker:    firstNonEmpty(speaker, unknownSpeaker),
			Title:      firstNonEmpty(talk, v.Title),
			SourceURL:  v.URL,
			Transcript: text,
		}, source)
	}

	if len(sum.Talks) == 0 {
		slog.Warn("no subtitles were harvested")
	}
	title := firstNonEmpty(list.Series, opts.SeriesTitle, DefaultSeriesTitle)
	if err := SaveTalks(p.TalksPath, &TalkCollection{Series: title, Talks: sum.Talks}); err != nil {
		return sum, err
	}
	slog.Info("wrote talks", slog.String("path", p.TalksPath), slog.Int("talks", len(sum.Talks)))
	sum.Log("subtitles")
	return sum, stopped
}

func subtitleText(ctx context.Context, dir string, dl CaptionDownloader, v youtube.VideoRef) (string, string) {
	if dl == nil {
		slog.Warn("yt-dlp not found; install yt-dlp or set YTDLP to its path")
		return "", ""
	}
	if _, err := dl.DownloadCaptions(ctx, v.VideoID, v.URL, dir); err != nil {
		slog.Warn("yt-dlp failed", slog.String("video_id", v.VideoID), slog.Any("error", err))
		return "", ""
	}
	path := captions.FindVTT(dir, v.VideoID)
	if path == "" {
		return "", ""
	}
	text, err := captions.ReadVTT(path)
	if err != nil {
		slog.Debug("read vtt failed", slog.String("path", path), slog.Any("error", err))
		return "", ""
	}
	return text, engine.SourceYtdlp
}
