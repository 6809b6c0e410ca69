package youtube

import (
	"net/url"
	"sort"
	"strings"
)

// CaptionTrack is one language/kind variant of a video's captions.
type CaptionTrack struct {
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
	Name         string `json:"name"`
	BaseURL      string `json:"baseUrl"`
}

// IsASR reports whether the track was generated by speech recognition.
func (t CaptionTrack) IsASR() bool { return t.Kind == "asr" }

// TrackWeights score caption tracks for selection.
type TrackWeights struct {
	EnglishCode int // languageCode starts with "en"
	EnglishName int // display name contains "English"
	ASR         int // auto-generated track
}

var (
	// DefaultTrackWeights apply to the anonymous watch page.
	DefaultTrackWeights = TrackWeights{EnglishCode: 3, EnglishName: 2, ASR: 1}
	// CookieTrackWeights apply when the watch page is fetched with cookies.
	CookieTrackWeights = TrackWeights{EnglishCode: 3, EnglishName: 1, ASR: 1}
)

// Score sums the weights t earns.
func (w TrackWeights) Score(t CaptionTrack) int {
	s := 0
	if strings.HasPrefix(t.LanguageCode, "en") {
		s += w.EnglishCode
	}
	if strings.Contains(t.Name, "English") {
		s += w.EnglishName
	}
	if t.IsASR() {
		s += w.ASR
	}
	return s
}

// TracksFromPlayer lists the caption tracks of a player response.
func TracksFromPlayer(pr map[string]any) []CaptionTrack {
	renderer := obj(obj(pr, "captions"), "playerCaptionsTracklistRenderer")
	raw, _ := renderer["captionTracks"].([]any)
	tracks := make([]CaptionTrack, 0, len(raw))
	for _, r := range raw {
		m, ok := r.(map[string]any)
		if !ok {
			continue
		}
		tracks = append(tracks, CaptionTrack{
			LanguageCode: str(m, "languageCode"),
			Kind:         str(m, "kind"),
			Name:         TextFromRuns(m["name"]),
			BaseURL:      str(m, "baseUrl"),
		})
	}
	return tracks
}

// PickTrack returns the highest scoring track; ties keep payload order.
// ok is false when there are no tracks or the winner has no URL.
func PickTrack(tracks []CaptionTrack, w TrackWeights) (CaptionTrack, bool) {
	if len(tracks) == 0 {
		return CaptionTrack{}, false
	}
	ranked := append([]CaptionTrack(nil), tracks...)
	sort.SliceStable(ranked, func(i, j int) bool { return w.Score(ranked[i]) > w.Score(ranked[j]) })
	best := ranked[0]
	return best, best.BaseURL != ""
}

// WithFormat appends fmt=format to a caption URL that names no format.
func WithFormat(baseURL, format string) string {
	if strings.Contains(baseURL, "fmt=") {
		return baseURL
	}
	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}
	return baseURL + sep + "fmt=" + format
}

// setParam sets key=value on rawURL, replacing any existing value.
func setParam(rawURL, key, value string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}
