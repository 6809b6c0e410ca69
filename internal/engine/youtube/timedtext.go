package youtube

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"github.com/anatolykoptev/go_ebook/internal/captions"
)

// PlayerTrackXML fetches the watch page, picks the best caption track by w
// and returns its timed XML.
func PlayerTrackXML(ctx context.Context, videoID string, w TrackWeights, cookie string) (string, error) {
	page, err := fetchPage(ctx, watchPageURL(videoID), cookie)
	if err != nil {
		return "", err
	}
	pr := PlayerResponse(page)
	if pr == nil {
		return "", errors.New("player response not found")
	}
	track, ok := PickTrack(TracksFromPlayer(pr), w)
	if !ok {
		return "", errors.New("no caption tracks")
	}
	return fetchPage(ctx, WithFormat(track.BaseURL, "srv1"), cookie)
}

// legacyTimedTextURL builds the timedtext endpoint URL for one variant.
func legacyTimedTextURL(videoID, lang string, asr bool) string {
	u := BaseURL + "/api/timedtext?v=" + url.QueryEscape(videoID) + "&lang=" + url.QueryEscape(lang)
	if asr {
		u += "&kind=asr"
	}
	return u
}

// LegacyTimedText tries the timedtext endpoint for each language, manual
// track before ASR, and returns the first body that is a transcript document.
func LegacyTimedText(ctx context.Context, videoID string, langs []string, cookie string) (string, bool) {
	for _, lang := range langs {
		for _, asr := range []bool{false, true} {
			if ctx.Err() != nil {
				return "", false
			}
			body, err := fetchPage(ctx, legacyTimedTextURL(videoID, lang, asr), cookie)
			if err != nil {
				slog.Debug("timedtext: fetch failed", slog.String("video_id", videoID),
					slog.String("lang", lang), slog.Bool("asr", asr), slog.Any("error", err))
				continue
			}
			if captions.LooksLikeTimedXML(body) {
				return body, true
			}
		}
	}
	return "", false
}
