// Package browser fetches transcripts by driving a real Chrome through
// go-rod: first the caption track of the page's runtime player response,
// then the transcript panel of the watch page UI.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/anatolykoptev/go_ebook/internal/engine"
)

// Options configure a browser session.
type Options struct {
	Headless    bool
	CookiesFile string        // Netscape cookies.txt, "" = anonymous
	UserAgent   string        // "" = engine.UserAgentChrome
	NavTimeout  time.Duration // page load budget, default 60s
	StepTimeout time.Duration // per UI step budget, default 5s
}

func (o *Options) defaults() {
	if o.UserAgent == "" {
		o.UserAgent = engine.UserAgentChrome
	}
	if o.NavTimeout <= 0 {
		o.NavTimeout = 60 * time.Second
	}
	if o.StepTimeout <= 0 {
		o.StepTimeout = 5 * time.Second
	}
}

// Session is one launched browser with a single reusable tab.
type Session struct {
	opts     Options
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

// NewSession launches Chrome, installs cookies and opens a tab.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	opts.defaults()

	l := launcher.New().Headless(opts.Headless).NoSandbox(true)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(u).Context(ctx)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	s := &Session{opts: opts, launcher: l, browser: b}

	if opts.CookiesFile != "" {
		cookies, err := engine.LoadNetscapeCookies(opts.CookiesFile)
		if err != nil {
			slog.Warn("browser: cookies not loaded", slog.String("path", opts.CookiesFile), slog.Any("error", err))
		} else if err := b.SetCookies(CookieParams(cookies)); err != nil {
			slog.Warn("browser: cookies rejected", slog.Any("error", err))
		}
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open page: %w", err)
	}
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      opts.UserAgent,
		AcceptLanguage: "en-US,en;q=0.9",
	}); err != nil {
		slog.Debug("browser: user agent override failed", slog.Any("error", err))
	}
	s.page = page
	return s, nil
}

// Close shuts the tab, the browser and the launcher down.
func (s *Session) Close() {
	if s.page != nil {
		_ = s.page.Close()
	}
	if s.browser != nil {
		_ = s.browser.Close()
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
	}
}

// CookieParams converts cookies.txt entries for the DevTools protocol.
// Leading dots are dropped from domains and an empty path becomes "/".
func CookieParams(cookies []engine.Cookie) []*proto.NetworkCookieParam {
	out := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, c := range cookies {
		p := &proto.NetworkCookieParam{
			Name:   c.Name,
			Value:  c.Value,
			Domain: trimLeadingDot(c.Domain),
			Path:   c.Path,
			Secure: c.Secure,
		}
		if p.Path == "" {
			p.Path = "/"
		}
		if c.Expires > 0 {
			p.Expires = proto.TimeSinceEpoch(c.Expires)
		}
		out = append(out, p)
	}
	return out
}

func trimLeadingDot(s string) string {
	for len(s) > 0 && s[0] == '.' {
		s = s[1:]
	}
	return s
}

// Transcript navigates to videoURL and returns paragraph text from the
// runtime caption track or, failing that, the transcript panel. source
// names which path succeeded.
func (s *Session) Transcript(ctx context.Context, videoURL string) (text, source string, ok bool) {
	page := s.page.Context(ctx)
	nav := page.Timeout(s.opts.NavTimeout)
	if err := nav.Navigate(videoURL); err != nil {
		slog.Warn("browser: navigation failed", slog.String("url", videoURL), slog.Any("error", err))
		return "", "", false
	}
	if err := nav.WaitLoad(); err != nil {
		slog.Debug("browser: load wait failed", slog.String("url", videoURL), slog.Any("error", err))
	}

	if text, ok := playerTrackTranscript(page); ok {
		return text, "player_track", true
	}
	if text, ok := panelTranscript(page, s.opts.StepTimeout); ok {
		return text, "transcript_panel", true
	}
	return "", "", false
}
