package youtube

import (
	"context"
	"errors"
	"log/slog"

	"github.com/anatolykoptev/go_ebook/internal/captions"
	"github.com/anatolykoptev/go_ebook/internal/engine"
)

// ErrNoTranscript is returned when every transcript source comes up empty.
var ErrNoTranscript = errors.New("no transcript available")

// Provider is one transcript source. Fetch returns normalized paragraph
// text and true, or false when the source has nothing. Providers log their
// own failures and never return errors.
type Provider struct {
	Name  string
	Fetch func(ctx context.Context, videoID string, langs []string) (string, bool)
}

// Chain tries providers in order and stops at the first success.
type Chain []Provider

// Transcript returns the first provider's text and its name. ok is false
// when every provider fails or ctx is done.
func (c Chain) Transcript(ctx context.Context, videoID string, langs []string) (text, source string, ok bool) {
	engine.IncrTranscriptRequest()
	for _, p := range c {
		if ctx.Err() != nil {
			break
		}
		if text, ok := p.Fetch(ctx, videoID, langs); ok && text != "" {
			engine.IncrTranscriptSource(p.Name)
			slog.Debug("transcript found", slog.String("video_id", videoID), slog.String("source", p.Name))
			return text, p.Name, true
		}
		slog.Debug("transcript source empty", slog.String("video_id", videoID), slog.String("source", p.Name))
	}
	engine.IncrTranscriptMiss()
	return "", "", false
}

// DefaultChain is the primary fetch order: Innertube, the watch page caption
// track, then the legacy timedtext endpoint.
func DefaultChain(cookie string) Chain {
	return Chain{
		InnertubeProvider(),
		PlayerResponseProvider(DefaultTrackWeights, cookie),
		TimedTextProvider(cookie),
	}
}

// InnertubeProvider serves timed segments from the Innertube API.
func InnertubeProvider() Provider {
	return Provider{
		Name: engine.SourceInnertube,
		Fetch: func(ctx context.Context, videoID string, langs []string) (string, bool) {
			segs, err := InnertubeSegments(ctx, videoID, langs)
			if err != nil {
				slog.Debug("innertube: no transcript", slog.String("video_id", videoID), slog.Any("error", err))
				return "", false
			}
			text := captions.FromSegments(segs)
			return text, text != ""
		},
	}
}

// PlayerResponseProvider serves the best caption track of the watch page.
func PlayerResponseProvider(w TrackWeights, cookie string) Provider {
	return Provider{
		Name: engine.SourcePlayer,
		Fetch: func(ctx context.Context, videoID string, _ []string) (string, bool) {
			doc, err := PlayerTrackXML(ctx, videoID, w, cookie)
			if err != nil {
				slog.Debug("player response: no transcript", slog.String("video_id", videoID), slog.Any("error", err))
				return "", false
			}
			text := captions.FromTimedXML(doc)
			return text, text != ""
		},
	}
}

// TimedTextProvider serves the legacy timedtext endpoint.
func TimedTextProvider(cookie string) Provider {
	return Provider{
		Name: engine.SourceTimedText,
		Fetch: func(ctx context.Context, videoID string, langs []string) (string, bool) {
			doc, ok := LegacyTimedText(ctx, videoID, langs, cookie)
			if !ok {
				return "", false
			}
			text := captions.FromTimedXML(doc)
			return text, text != ""
		},
	}
}
