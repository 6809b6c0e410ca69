package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_ebook/internal/captions"
	"github.com/anatolykoptev/go_ebook/internal/engine"
)

// Innertube is YouTube's internal API. The ANDROID /player client lists
// caption tracks; the WEB /next and /get_transcript pair serves the
// transcript panel as timed segments.

const (
	ytWebVersion     = "2.20250222.10.00"
	ytAndroidVersion = "20.10.38"
	ytAndroidUA      = "com.google.android.youtube/" + ytAndroidVersion + " (Linux; U; Android 11) gzip"
)

func innertubeURL(endpoint string) string {
	return BaseURL + "/youtubei/v1/" + endpoint + "?prettyPrint=false"
}

// --- ANDROID client (/player) ---

type playerReq struct {
	VideoID        string       `json:"videoId"`
	Context        playerReqCtx `json:"context"`
	RacyCheckOk    bool         `json:"racyCheckOk"`
	ContentCheckOk bool         `json:"contentCheckOk"`
}

type playerReqCtx struct {
	Client androidClient `json:"client"`
}

type androidClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSdkVersion int    `json:"androidSdkVersion,omitempty"`
	Hl                string `json:"hl,omitempty"`
	Gl                string `json:"gl,omitempty"`
}

type playerResp struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []struct {
				BaseURL      string `json:"baseUrl"`
				LanguageCode string `json:"languageCode"`
				Kind         string `json:"kind"`
				Name         struct {
					SimpleText string `json:"simpleText"`
				} `json:"name"`
			} `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

// --- WEB client (/next, /get_transcript) ---

type webClientCtx struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
	VisitorData   string `json:"visitorData,omitempty"`
	Hl            string `json:"hl,omitempty"`
	Gl            string `json:"gl,omitempty"`
}

type transcriptSegment struct {
	StartMs string `json:"startMs"`
	EndMs   string `json:"endMs"`
	Snippet struct {
		Runs []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"snippet"`
}

type getTranscriptResp struct {
	Actions []struct {
		UpdateEngagementPanelAction *struct {
			Content struct {
				TranscriptRenderer struct {
					Content struct {
						TranscriptSearchPanelRenderer struct {
							Body struct {
								TranscriptSegmentListRenderer struct {
									InitialSegments []struct {
										TranscriptSegmentRenderer *transcriptSegment `json:"transcriptSegmentRenderer"`
									} `json:"initialSegments"`
								} `json:"transcriptSegmentListRenderer"`
							} `json:"body"`
						} `json:"transcriptSearchPanelRenderer"`
					} `json:"content"`
				} `json:"transcriptRenderer"`
			} `json:"content"`
		} `json:"updateEngagementPanelAction"`
	} `json:"actions"`
}

// newVisitorData creates a random 11-char visitor id.
func newVisitorData() string {
	const chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	b := make([]byte, 11)
	for i := range b {
		b[i] = chars[rand.Intn(len(chars))] //nolint:gosec // non-cryptographic use
	}
	return string(b)
}

func webClient(visitorData string) webClientCtx {
	return webClientCtx{
		ClientName:    "WEB",
		ClientVersion: ytWebVersion,
		VisitorData:   visitorData,
		Hl:            "en",
		Gl:            "US",
	}
}

// postWEB POSTs an Innertube payload with WEB client headers.
func postWEB(ctx context.Context, endpoint string, payload any, visitorData string) ([]byte, error) {
	data, err := engine.PostJSON(ctx, innertubeURL(endpoint), payload,
		engine.WithHeader("Accept", "*/*"),
		engine.WithHeader("User-Agent", engine.UserAgentChrome),
		engine.WithHeader("X-Youtube-Client-Name", "1"),
		engine.WithHeader("X-Youtube-Client-Version", ytWebVersion),
		engine.WithHeader("X-Goog-Visitor-Id", visitorData),
		engine.WithHeader("Origin", "https://www.youtube.com"),
		engine.WithHeader("Referer", "https://www.youtube.com/"),
	)
	if err != nil {
		return nil, fmt.Errorf("innertube WEB %s: %w", endpoint, err)
	}
	return data, nil
}

// androidTracks lists caption tracks through the ANDROID /player client.
func androidTracks(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	data, err := engine.PostJSON(ctx, innertubeURL("player"), playerReq{
		VideoID: videoID,
		Context: playerReqCtx{Client: androidClient{
			ClientName:        "ANDROID",
			ClientVersion:     ytAndroidVersion,
			AndroidSdkVersion: 30,
			Hl:                "en",
			Gl:                "US",
		}},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	},
		engine.WithHeader("User-Agent", ytAndroidUA),
		engine.WithHeader("X-Youtube-Client-Name", "3"),
		engine.WithHeader("X-Youtube-Client-Version", ytAndroidVersion),
	)
	if err != nil {
		return nil, fmt.Errorf("android player: %w", err)
	}

	var resp playerResp
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode player: %w", err)
	}
	if resp.Captions == nil {
		if resp.PlayabilityStatus != nil && resp.PlayabilityStatus.Reason != "" {
			return nil, fmt.Errorf("captions unavailable: %s", resp.PlayabilityStatus.Reason)
		}
		return nil, errors.New("no captions in player response")
	}
	var tracks []CaptionTrack
	for _, t := range resp.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks {
		if needsPoToken(t.BaseURL) {
			continue
		}
		tracks = append(tracks, CaptionTrack{
			LanguageCode: t.LanguageCode,
			Kind:         t.Kind,
			Name:         t.Name.SimpleText,
			BaseURL:      t.BaseURL,
		})
	}
	if len(tracks) == 0 {
		return nil, errors.New("no usable caption tracks")
	}
	return tracks, nil
}

// needsPoToken reports whether a caption URL only works inside a browser.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// trackForLanguages returns the track for the first language in langs that
// has one, manual before ASR.
func trackForLanguages(tracks []CaptionTrack, langs []string) (CaptionTrack, bool) {
	for _, lang := range langs {
		var asr *CaptionTrack
		for i, t := range tracks {
			if t.LanguageCode != lang {
				continue
			}
			if !t.IsASR() {
				return t, true
			}
			if asr == nil {
				asr = &tracks[i]
			}
		}
		if asr != nil {
			return *asr, true
		}
	}
	return CaptionTrack{}, false
}

// LibraryTrackURLs lists caption URLs in the order a transcript library
// tries them: the track for the preferred languages, the "en" track, then
// each remaining track machine-translated to English in listed order.
func LibraryTrackURLs(tracks []CaptionTrack, langs []string) []string {
	var out []string
	direct := make(map[string]bool)
	for _, want := range [][]string{langs, {"en"}} {
		if t, ok := trackForLanguages(tracks, want); ok && t.BaseURL != "" && !direct[t.BaseURL] {
			direct[t.BaseURL] = true
			out = append(out, t.BaseURL)
		}
	}
	for _, t := range tracks {
		if t.BaseURL == "" || direct[t.BaseURL] {
			continue
		}
		out = append(out, setParam(t.BaseURL, "tlang", "en"))
	}
	return out
}

// trackSegments fetches a caption URL as srv1 timed XML.
func trackSegments(ctx context.Context, baseURL string) ([]captions.Segment, error) {
	data, err := engine.Get(ctx, setParam(baseURL, "fmt", "srv1"))
	if err != nil {
		return nil, err
	}
	return captions.ParseTimedXML(string(data))
}

// getTranscriptRe finds the transcript continuation token in a /next response.
var getTranscriptRe = regexp.MustCompile(`"getTranscriptEndpoint":\{"params":"([^"]+)"`)

func transcriptToken(data []byte) (string, error) {
	m := getTranscriptRe.FindSubmatch(data)
	if len(m) < 2 {
		return "", errors.New("getTranscriptEndpoint not found in engagement panels")
	}
	// /get_transcript wants the token URL-decoded.
	if decoded, err := url.QueryUnescape(string(m[1])); err == nil {
		return decoded, nil
	}
	return string(m[1]), nil
}

// panelSegments converts a /get_transcript response into timed segments.
func panelSegments(resp getTranscriptResp) []captions.Segment {
	var segs []captions.Segment
	for _, action := range resp.Actions {
		if action.UpdateEngagementPanelAction == nil {
			continue
		}
		list := action.UpdateEngagementPanelAction.Content.
			TranscriptRenderer.Content.
			TranscriptSearchPanelRenderer.Body.
			TranscriptSegmentListRenderer.InitialSegments
		for _, item := range list {
			seg := item.TranscriptSegmentRenderer
			if seg == nil {
				continue
			}
			var sb strings.Builder
			for _, r := range seg.Snippet.Runs {
				sb.WriteString(r.Text)
			}
			start := msToSeconds(seg.StartMs)
			end := msToSeconds(seg.EndMs)
			if end < start {
				end = start
			}
			segs = append(segs, captions.Segment{Text: sb.String(), Start: start, Duration: end - start})
		}
	}
	return segs
}

func msToSeconds(ms string) float64 {
	v, err := strconv.ParseFloat(ms, 64)
	if err != nil {
		return 0
	}
	return v / 1000
}

// engagementPanelSegments loads the transcript panel: /next yields the
// continuation token, /get_transcript the segments.
func engagementPanelSegments(ctx context.Context, videoID string) ([]captions.Segment, error) {
	visitorData := newVisitorData()

	nextData, err := postWEB(ctx, "next", map[string]any{
		"videoId": videoID,
		"context": map[string]any{
			"client":  webClient(visitorData),
			"user":    map[string]bool{"enableSafetyMode": false},
			"request": map[string]bool{"useSsl": true},
		},
	}, visitorData)
	if err != nil {
		return nil, err
	}
	token, err := transcriptToken(nextData)
	if err != nil {
		return nil, err
	}

	data, err := postWEB(ctx, "get_transcript", map[string]any{
		"params":  token,
		"context": map[string]any{"client": webClient(visitorData)},
	}, visitorData)
	if err != nil {
		return nil, err
	}
	var resp getTranscriptResp
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	segs := panelSegments(resp)
	if len(segs) == 0 {
		return nil, errors.New("empty transcript segments")
	}
	return segs, nil
}

// InnertubeSegments returns timed segments for videoID, trying the ANDROID
// caption tracks first and the WEB transcript panel second.
func InnertubeSegments(ctx context.Context, videoID string, langs []string) ([]captions.Segment, error) {
	tracks, err := androidTracks(ctx, videoID)
	if err == nil {
		err = errors.New("no usable caption track")
		for _, u := range LibraryTrackURLs(tracks, langs) {
			segs, ferr := trackSegments(ctx, u)
			if ferr == nil && len(segs) > 0 {
				return segs, nil
			}
			if ferr != nil {
				err = ferr
			}
			if ctx.Err() != nil {
				break
			}
		}
	}
	if err != nil {
		slog.Debug("innertube: player tracks failed", slog.String("video_id", videoID), slog.Any("error", err))
	}
	return engagementPanelSegments(ctx, videoID)
}
