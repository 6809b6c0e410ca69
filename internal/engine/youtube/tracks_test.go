package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPickTrack(t *testing.T) {
	tracks := []CaptionTrack{
		{LanguageCode: "de", Name: "German", BaseURL: "u-de"},
		{LanguageCode: "en", Name: "English", BaseURL: "u-en"},
		{LanguageCode: "en", Kind: "asr", Name: "English (auto-generated)", BaseURL: "u-en-asr"},
	}
	got, ok := PickTrack(tracks, DefaultTrackWeights)
	assert.True(t, ok)
	assert.Equal(t, "u-en-asr", got.BaseURL)

	manualFirst := TrackWeights{EnglishCode: 3, EnglishName: 2, ASR: -1}
	got, _ = PickTrack(tracks, manualFirst)
	assert.Equal(t, "u-en", got.BaseURL)
}

func TestPickTrackTiesKeepOrder(t *testing.T) {
	tracks := []CaptionTrack{
		{LanguageCode: "fr", BaseURL: "u-fr"},
		{LanguageCode: "es", BaseURL: "u-es"},
	}
	got, ok := PickTrack(tracks, DefaultTrackWeights)
	assert.True(t, ok)
	assert.Equal(t, "u-fr", got.BaseURL)
}

func TestPickTrackEmpty(t *testing.T) {
	_, ok := PickTrack(nil, DefaultTrackWeights)
	assert.False(t, ok)
	_, ok = PickTrack([]CaptionTrack{{LanguageCode: "en"}}, DefaultTrackWeights)
	assert.False(t, ok, "track without URL")
}

func TestTracksFromPlayer(t *testing.T) {
	pr := map[string]any{"captions": map[string]any{"playerCaptionsTracklistRenderer": map[string]any{
		"captionTracks": []any{
			map[string]any{"baseUrl": "u1", "languageCode": "en", "kind": "asr", "name": runs("English (auto-generated)")},
			"junk",
		},
	}}}
	got := TracksFromPlayer(pr)
	assert.Equal(t, []CaptionTrack{{LanguageCode: "en", Kind: "asr", Name: "English (auto-generated)", BaseURL: "u1"}}, got)
	assert.Empty(t, TracksFromPlayer(map[string]any{}))
}

func TestWithFormat(t *testing.T) {
	assert.Equal(t, "https://x/api?v=1&fmt=srv1", WithFormat("https://x/api?v=1", "srv1"))
	assert.Equal(t, "https://x/api?fmt=srv1", WithFormat("https://x/api", "srv1"))
	assert.Equal(t, "https://x/api?fmt=json3", WithFormat("https://x/api?fmt=json3", "srv1"))
}

func TestLibraryTrackURLs(t *testing.T) {
	tracks := []CaptionTrack{
		{LanguageCode: "de", BaseURL: "https://x/t?lang=de"},
		{LanguageCode: "en", Kind: "asr", BaseURL: "https://x/t?lang=en&kind=asr"},
		{LanguageCode: "en", BaseURL: "https://x/t?lang=en"},
	}

	assert.Equal(t, []string{
		"https://x/t?lang=en",
		"https://x/t?lang=de&tlang=en",
		"https://x/t?kind=asr&lang=en&tlang=en",
	}, LibraryTrackURLs(tracks, []string{"en-GB", "en"}), "manual beats asr, then translations")

	assert.Equal(t, []string{
		"https://x/t?lang=de",
		"https://x/t?lang=en",
		"https://x/t?kind=asr&lang=en&tlang=en",
	}, LibraryTrackURLs(tracks, []string{"de"}))

	assert.Equal(t, []string{
		"https://x/t?lang=de&tlang=en",
		"https://x/t?lang=fr&tlang=en",
	}, LibraryTrackURLs([]CaptionTrack{
		{LanguageCode: "de", BaseURL: "https://x/t?lang=de"},
		{LanguageCode: "fr", BaseURL: "https://x/t?lang=fr"},
	}, []string{"en"}), "every track is a translation candidate")

	assert.Empty(t, LibraryTrackURLs(nil, []string{"en"}))
}

func TestNeedsPoToken(t *testing.T) {
	assert.True(t, needsPoToken("https://x/t?v=1&exp=xpe"))
	assert.False(t, needsPoToken("https://x/t?v=1"))
}
