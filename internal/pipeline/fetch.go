package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anatolykoptev/go_ebook/internal/engine"
	"github.com/anatolykoptev/go_ebook/internal/engine/youtube"
	"github.com/anatolykoptev/go_ebook/internal/series"
)

// FetchOptions control one fetch run.
type FetchOptions struct {
	PlaylistID   string        // skips discovery when set
	Query        string        // discovery query
	Limit        int           // 0 = every video
	Languages    []string      // nil = engine default
	Delay        time.Duration // pause between videos
	ExportVideos bool          // write videos.json
	SeriesTitle  string
}

// Summary reports a batch run.
type Summary struct {
	PlaylistID string             `json:"playlist_id,omitempty"`
	Videos     []youtube.VideoRef `json:"videos"`
	Talks      []TalkRecord       `json:"talks"`
	Processed  int                `json:"processed"`
	Skipped    int                `json:"skipped"`
	Fallback   int                `json:"fallback"` // processed from the description only
	Sources    map[string]int     `json:"sources"`
}

func newSummary() *Summary {
	return &Summary{Sources: map[string]int{}}
}

func (s *Summary) add(rec TalkRecord, source string) {
	s.Talks = append(s.Talks, rec)
	s.Processed++
	s.Sources[source]++
	if source == engine.SourceDescription {
		s.Fallback++
	}
}

// Log writes the run summary. An empty harvest is reported as a warning
// since it usually means the site blocked every request.
func (s *Summary) Log(what string) {
	attrs := []any{
		slog.Int("processed", s.Processed),
		slog.Int("skipped", s.Skipped),
		slog.Int("fallback", s.Fallback),
	}
	for src, n := range s.Sources {
		attrs = append(attrs, slog.Int("source_"+src, n))
	}
	if s.Processed == 0 && s.Skipped > 0 {
		slog.Warn(what+": no transcripts obtained; the source site may be blocking requests", attrs...)
		return
	}
	slog.Info(what+" done", attrs...)
}

// ResolveAndList resolves the playlist (unless given) and lists its videos,
// truncated to limit when positive.
func (s Sources) ResolveAndList(ctx context.Context, playlistID, query string, limit int) (string, []youtube.VideoRef, error) {
	id := strings.TrimSpace(playlistID)
	if id == "" {
		var err error
		id, err = s.Resolve(ctx, query)
		if err != nil {
			if errors.Is(err, youtube.ErrPlaylistNotFound) {
				return "", nil, fmt.Errorf("%w: provide --playlist-id or adjust the query", err)
			}
			return "", nil, err
		}
	}
	videos, err := s.List(ctx, id)
	if err != nil {
		return id, nil, err
	}
	if limit > 0 && len(videos) > limit {
		videos = videos[:limit]
	}
	return id, videos, nil
}

// FetchAndStore runs the fetch workflow for one series: discover, list,
// fetch each transcript in playlist order, then write videos.json and
// talks.json. Only discovery and playlist parsing failures abort the run.
// A cancelled ctx stops the batch; the talks gathered so far are still
// written and ctx's error is returned.
func FetchAndStore(ctx context.Context, p series.Paths, src Sources, opts FetchOptions) (*Summary, error) {
	if err := p.Ensure(); err != nil {
		return nil, err
	}
	langs := opts.Languages
	if len(langs) == 0 {
		langs = engine.Cfg.Languages
	}
	title := firstNonEmpty(opts.SeriesTitle, DefaultSeriesTitle)

	playlistID, videos, err := src.ResolveAndList(ctx, opts.PlaylistID, opts.Query, opts.Limit)
	if err != nil {
		return nil, err
	}

	sum := newSummary()
	sum.PlaylistID = playlistID
	sum.Videos = videos
	pacer := engine.NewPacer(opts.Delay)
	var stopped error
	for i, v := range videos {
		if err := pacer.Wait(ctx); err != nil {
			stopped = interrupted("fetch", i, len(videos), err)
			break
		}
		slog.Info("fetching transcript",
			slog.Int("n", i+1), slog.Int("total", len(videos)),
			slog.String("video_id", v.VideoID), slog.String("title", v.Title))
		rec, source, ok := src.AssembleTalk(ctx, v, langs)
		if !ok {
			sum.Skipped++
			slog.Warn("skipped: no transcript", slog.String("video_id", v.VideoID))
			continue
		}
		sum.add(rec, source)
	}

	if opts.ExportVideos {
		if err := SaveVideos(p.VideosPath, &VideoList{PlaylistID: playlistID, Series: title, Videos: videos}); err != nil {
			return sum, fmt.Errorf("write videos: %w", err)
		}
		slog.Info("exported video list", slog.String("path", p.VideosPath), slog.Int("videos", len(videos)))
	}
	if err := SaveTalks(p.TalksPath, &TalkCollection{Series: title, Talks: sum.Talks}); err != nil {
		return sum, fmt.Errorf("write talks: %w", err)
	}
	slog.Info("wrote talks", slog.String("path", p.TalksPath), slog.Int("talks", len(sum.Talks)))
	sum.Log("fetch")
	return sum, stopped
}

// interrupted logs a cancelled batch and returns the cause.
func interrupted(what string, done, total int, err error) error {
	slog.Warn(what+": interrupted, saving partial results",
		slog.Int("done", done), slog.Int("total", total), slog.Any("error", err))
	return err
}

// ExportVideos resolves and lists the playlist and writes videos.json
// without fetching transcripts.
func ExportVideos(ctx context.Context, p series.Paths, src Sources, opts FetchOptions) (*VideoList, error) {
	if err := p.Ensure(); err != nil {
		return nil, err
	}
	playlistID, videos, err := src.ResolveAndList(ctx, opts.PlaylistID, opts.Query, opts.Limit)
	if err != nil {
		return nil, err
	}
	list := &VideoList{PlaylistID: playlistID, Series: firstNonEmpty(opts.SeriesTitle, DefaultSeriesTitle), Videos: videos}
	if err := SaveVideos(p.VideosPath, list); err != nil {
		return nil, err
	}
	return list, nil
}

// loadManifest reads videos.json for the offline workflows.
func loadManifest(p series.Paths, limit int) (*VideoList, error) {
	list, err := LoadVideos(p.VideosPath)
	if err != nil {
		return nil, fmt.Errorf("missing video list %s (run list or fetch first): %w", p.VideosPath, err)
	}
	if limit > 0 && len(list.Videos) > limit {
		list.Videos = list.Videos[:limit]
	}
	return list, nil
}
