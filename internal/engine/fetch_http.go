package engine

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/net/publicsuffix"
)

// maxBodyBytes caps a single response. Watch pages run 1-2 MB.
const maxBodyBytes = 8 << 20

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d", e.StatusCode)
}

// RequestOption customizes a single Get or PostJSON call.
type RequestOption func(*outbound)

type outbound struct {
	method string
	url    string
	body   []byte
	header map[string]string
	cookie string
}

// WithHeader sets an extra request header.
func WithHeader(key, value string) RequestOption {
	return func(s *outbound) { s.header[key] = value }
}

// WithCookie forwards an opaque Cookie header, overriding Config.CookieHeader.
func WithCookie(cookie string) RequestOption {
	return func(s *outbound) { s.cookie = cookie }
}

// newFetchClient creates an HTTP client with proper settings for web scraping.
// The jar keeps consent/visitor cookies between the watch page and caption URLs.
func newFetchClient(timeout time.Duration) *http.Client {
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return &http.Client{
		Timeout: timeout,
		Jar:     jar,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     30 * time.Second,
			TLSHandshakeTimeout: 15 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			return nil
		},
	}
}

// Get fetches rawURL and returns the body of a 2xx response. Transport errors
// and retryable statuses (429, 5xx) are retried up to Config.FetchRetries
// times with a fixed Config.FetchBackoff pause; other statuses fail at once.
func Get(ctx context.Context, rawURL string, opts ...RequestOption) ([]byte, error) {
	rq := &outbound{method: http.MethodGet, url: rawURL, header: map[string]string{}}
	for _, o := range opts {
		o(rq)
	}
	return fetchWithRetry(ctx, rq)
}

// PostJSON POSTs payload as JSON and returns the response body.
func PostJSON(ctx context.Context, rawURL string, payload any, opts ...RequestOption) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	rq := &outbound{method: http.MethodPost, url: rawURL, body: body, header: map[string]string{
		"Content-Type": "application/json",
	}}
	for _, o := range opts {
		o(rq)
	}
	return fetchWithRetry(ctx, rq)
}

func fetchWithRetry(ctx context.Context, rq *outbound) ([]byte, error) {
	operation := func() ([]byte, error) {
		metrics.FetchRequests.Add(1)
		data, status, err := roundTrip(ctx, rq)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(ctx.Err())
			}
			return nil, err
		}
		if IsRetryableStatus(status) {
			return nil, &StatusError{StatusCode: status}
		}
		if status < 200 || status > 299 {
			return nil, backoff.Permanent(&StatusError{StatusCode: status})
		}
		return data, nil
	}

	notify := func(err error, wait time.Duration) {
		metrics.FetchRetries.Add(1)
		slog.Debug("fetch: retrying", slog.String("url", rq.url), slog.Duration("wait", wait), slog.Any("error", err))
	}

	data, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(cfg.FetchBackoff)),
		backoff.WithMaxTries(uint(cfg.FetchRetries)),
		backoff.WithNotify(notify),
	)
	if err != nil {
		metrics.FetchErrors.Add(1)
		return nil, fmt.Errorf("fetch %s: %w", rq.url, err)
	}
	return data, nil
}

// requestHeaders merges the browser-like defaults with per-request headers.
func requestHeaders(rq *outbound) map[string]string {
	ua := cfg.UserAgent
	if ua == "" {
		ua = RandomUserAgent()
	}
	h := map[string]string{
		"User-Agent":      ua,
		"Accept-Language": "en-US,en;q=0.9",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Encoding": "gzip",
	}
	for k, v := range rq.header {
		h[k] = v
	}
	cookie := rq.cookie
	if cookie == "" {
		cookie = cfg.CookieHeader
	}
	if cookie != "" {
		h["Cookie"] = cookie
	}
	return h
}

// roundTrip sends one request through the stealth client when configured,
// else through net/http.
func roundTrip(ctx context.Context, rq *outbound) ([]byte, int, error) {
	headers := requestHeaders(rq)

	if bc := cfg.BrowserClient; bc != nil {
		// Client hints matching the fingerprinted TLS hello.
		for k, v := range ChromeHeaders() {
			if _, ok := headers[k]; !ok {
				headers[k] = v
			}
		}
		var body io.Reader
		if rq.body != nil {
			body = bytes.NewReader(rq.body)
		}
		data, _, status, err := bc.Do(rq.method, rq.url, headers, body)
		return data, status, err
	}

	var body io.Reader
	if rq.body != nil {
		body = bytes.NewReader(rq.body)
	}
	req, err := http.NewRequestWithContext(ctx, rq.method, rq.url, body)
	if err != nil {
		return nil, 0, backoff.Permanent(err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = newFetchClient(cfg.FetchTimeout)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := readResponseBody(resp)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return data, resp.StatusCode, nil
}

// readResponseBody reads the response body, handling gzip decompression if needed.
func readResponseBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(io.LimitReader(r, maxBodyBytes))
}
