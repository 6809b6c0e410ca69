package browser

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/anatolykoptev/go_ebook/internal/captions"
)

// trackURLJS reads the caption track URL from the runtime player response,
// preferring an English track.
const trackURLJS = `() => {
  try {
    const pr = window.ytInitialPlayerResponse ||
      (window.ytcfg && window.ytcfg.data && window.ytcfg.data.PLAYER_RESPONSE) || null;
    if (!pr) return "";
    const r = pr.captions && pr.captions.playerCaptionsTracklistRenderer;
    const tl = (r && r.captionTracks) || [];
    if (!tl.length) return "";
    const en = tl.find(t => (t.languageCode || "").startsWith("en")) || tl[0];
    return (en && en.baseUrl) || "";
  } catch (e) {
    return "";
  }
}`

// fetchJS fetches a URL from inside the page with the page's cookies.
const fetchJS = `(u) => fetch(u, {credentials: "include"}).then(r => r.text()).catch(() => "")`

// trackFormats are requested in order until one returns timed XML.
var trackFormats = []string{"srv1", "srv3", "json3", "vtt", "ttml"}

const (
	menuButtonSelector = `button[aria-label*='More actions']`
	menuItemSelector   = `ytd-menu-service-item-renderer`
	segmentSelector    = `ytd-transcript-segment-renderer`
)

// timestampRe matches a bare panel timestamp such as 0:12 or 1:02:03.
var timestampRe = regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?$`)

func withFormat(base, format string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("fmt", format)
	u.RawQuery = q.Encode()
	return u.String()
}

// playerTrackTranscript fetches the runtime caption track in-page.
func playerTrackTranscript(page *rod.Page) (string, bool) {
	res, err := page.Eval(trackURLJS)
	if err != nil {
		slog.Debug("browser: player response unavailable", slog.Any("error", err))
		return "", false
	}
	base := res.Value.Str()
	if base == "" {
		return "", false
	}
	for _, f := range trackFormats {
		body, err := page.Eval(fetchJS, withFormat(base, f))
		if err != nil {
			continue
		}
		if doc := body.Value.Str(); strings.Contains(doc, "<text") {
			if text := captions.FromTimedXML(doc); text != "" {
				return text, true
			}
		}
	}
	return "", false
}

// panelTranscript opens the transcript panel through the overflow menu and
// scrapes the rendered segments.
func panelTranscript(page *rod.Page, step time.Duration) (string, bool) {
	if btn, err := page.Timeout(step).Element(menuButtonSelector); err == nil {
		if err := btn.Click(proto.InputMouseButtonLeft, 1); err != nil {
			slog.Debug("browser: menu click failed", slog.Any("error", err))
		}
	}
	item, err := page.Timeout(step).ElementR(menuItemSelector, "Show transcript")
	if err != nil {
		slog.Debug("browser: transcript menu item not found", slog.Any("error", err))
		return "", false
	}
	if err := item.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return "", false
	}
	if toggle, err := page.Timeout(step).ElementR("button", "Toggle timestamps"); err == nil {
		_ = toggle.Click(proto.InputMouseButtonLeft, 1)
	}
	if _, err := page.Timeout(step).Element(segmentSelector); err != nil {
		slog.Debug("browser: no transcript segments rendered", slog.Any("error", err))
		return "", false
	}
	html, err := page.HTML()
	if err != nil {
		return "", false
	}
	lines, err := PanelLines(html)
	if err != nil || len(lines) == 0 {
		return "", false
	}
	text := captions.MergeLines(lines)
	return text, text != ""
}

// PanelLines extracts caption lines from rendered transcript panel HTML,
// dropping blank lines and bare timestamps.
func PanelLines(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	var lines []string
	doc.Find(segmentSelector).Each(func(_ int, seg *goquery.Selection) {
		text := seg.Find(".segment-text").Text()
		if strings.TrimSpace(text) == "" {
			text = seg.Text()
		}
		lines = append(lines, SplitPanelText(text)...)
	})
	return lines, nil
}

// SplitPanelText splits one segment's text into lines without timestamps.
func SplitPanelText(text string) []string {
	var out []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" || timestampRe.MatchString(ln) {
			continue
		}
		out = append(out, ln)
	}
	return out
}
