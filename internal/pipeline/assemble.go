package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_ebook/internal/engine"
	"github.com/anatolykoptev/go_ebook/internal/engine/youtube"
	"github.com/anatolykoptev/go_ebook/internal/titles"
)

const (
	unknownSpeaker    = "Unknown Speaker"
	untitled          = "Untitled"
	descriptionHeader = "Description (not a full transcript):\n\n"
)

// Sources are the network collaborators of the fetch workflow. Tests swap
// them for stubs.
type Sources struct {
	Resolve func(ctx context.Context, query string) (string, error)
	List    func(ctx context.Context, playlistID string) ([]youtube.VideoRef, error)
	Meta    func(ctx context.Context, videoID string) (youtube.VideoMeta, error)
	Chain   youtube.Chain
	Titles  *titles.Splitter
}

// DefaultSources talks to YouTube, forwarding cookie on page fetches.
// series is the branding stripped from titles.
func DefaultSources(cookie, series string) Sources {
	return Sources{
		Resolve: youtube.ResolvePlaylistID,
		List:    youtube.ListVideos,
		Meta: func(ctx context.Context, id string) (youtube.VideoMeta, error) {
			return youtube.FetchVideoMeta(ctx, id, cookie)
		},
		Chain:  youtube.DefaultChain(cookie),
		Titles: titles.NewSplitter(series),
	}
}

func (s Sources) splitter() *titles.Splitter {
	if s.Titles != nil {
		return s.Titles
	}
	return titles.NewSplitter("")
}

// AssembleTalk builds the record for one playlist video. When every
// transcript source fails the video description stands in, provided there
// is one. ok is false when the video has to be skipped; source names what
// filled the transcript.
func (s Sources) AssembleTalk(ctx context.Context, v youtube.VideoRef, langs []string) (rec TalkRecord, source string, ok bool) {
	raw := strings.TrimSpace(v.Title)
	talk, speaker := s.splitter().Split(raw)

	text, source, ok := s.Chain.Transcript(ctx, v.VideoID, langs)
	date := ""
	if !ok && s.Meta != nil {
		meta, err := s.Meta(ctx, v.VideoID)
		if err != nil {
			slog.Debug("video meta failed", slog.String("video_id", v.VideoID), slog.Any("error", err))
		}
		date = strings.TrimSpace(meta.PublishDate)
		if desc := strings.TrimSpace(meta.Description); desc != "" {
			text, source, ok = descriptionHeader+desc+"\n", engine.SourceDescription, true
			engine.IncrTranscriptSource(engine.SourceDescription)
		}
	}
	if !ok || strings.TrimSpace(text) == "" {
		return TalkRecord{}, "", false
	}

	return TalkRecord{
		Speaker:    firstNonEmpty(speaker, unknownSpeaker),
		Title:      firstNonEmpty(talk, raw, untitled),
		Date:       date,
		SourceURL:  v.URL,
		Transcript: strings.TrimSpace(text) + "\n",
	}, source, true
}

// Single is a standalone video transcript with its metadata.
type Single struct {
	VideoID  string `json:"video_id"`
	Title    string `json:"title"`
	Speaker  string `json:"speaker"`
	Date     string `json:"date"`
	URL      string `json:"source_url"`
	RawTitle string `json:"raw_title"`
	Source   string `json:"source"`
	Text     string `json:"transcript"`
}

// FetchSingle fetches one video by id or URL. It returns
// youtube.ErrNoTranscript when no source has captions.
func (s Sources) FetchSingle(ctx context.Context, idOrURL string, langs []string) (*Single, error) {
	id, ok := youtube.ExtractVideoID(idOrURL)
	if !ok {
		return nil, fmt.Errorf("invalid YouTube URL or video id: %q", idOrURL)
	}

	text, source, found := s.Chain.Transcript(ctx, id, langs)

	var meta youtube.VideoMeta
	if s.Meta != nil {
		m, err := s.Meta(ctx, id)
		if err != nil {
			slog.Debug("video meta failed", slog.String("video_id", id), slog.Any("error", err))
		}
		meta = m
	}
	raw := strings.TrimSpace(meta.Title)
	talk, speaker := s.splitter().Split(firstNonEmpty(raw, id))

	if !found {
		return nil, fmt.Errorf("%w for video %s", youtube.ErrNoTranscript, id)
	}
	return &Single{
		VideoID:  id,
		Title:    firstNonEmpty(talk, raw, "Video "+id),
		Speaker:  firstNonEmpty(speaker, meta.Author, unknownSpeaker),
		Date:     meta.PublishDate,
		URL:      youtube.WatchURL(id),
		RawTitle: raw,
		Source:   source,
		Text:     strings.TrimSpace(text) + "\n",
	}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
