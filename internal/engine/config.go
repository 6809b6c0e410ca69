package engine

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	Home                 string        // project root; data/, content/, build/ and config/ live under it
	Languages            []string      // preferred caption languages, in order
	FetchTimeout         time.Duration // per-request timeout
	FetchRetries         int           // attempts per page fetch
	FetchBackoff         time.Duration // fixed wait between attempts
	VideoDelay           time.Duration // pause between consecutive videos in a batch
	UserAgent            string        // empty = random Chrome UA per request
	CookieHeader         string        // forwarded verbatim on every request when set
	CacheMaxEntries      int
	CacheCleanupInterval time.Duration
	HTTPClient           *http.Client
	BrowserClient        *BrowserClient // nil = plain net/http transport
	LLMClient            *llm.Client    // nil = LLM polish disabled
}

// DefaultLanguages is the caption language preference when none is configured.
var DefaultLanguages = []string{"en", "en-US", "en-GB"}

var cfg = Config{
	Languages:    DefaultLanguages,
	FetchTimeout: 20 * time.Second,
	FetchRetries: 3,
	FetchBackoff: 500 * time.Millisecond,
	VideoDelay:   300 * time.Millisecond,
}

// Cfg exposes the engine configuration for sub-packages.
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
// Zero fields fall back to defaults.
func Init(c Config) {
	if len(c.Languages) == 0 {
		c.Languages = DefaultLanguages
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 20 * time.Second
	}
	if c.FetchRetries <= 0 {
		c.FetchRetries = 3
	}
	if c.FetchBackoff < 0 {
		c.FetchBackoff = 0
	}
	if c.VideoDelay < 0 {
		c.VideoDelay = 0
	}
	if c.HTTPClient == nil {
		c.HTTPClient = newFetchClient(c.FetchTimeout)
	}
	cfg = c
	Cfg = &cfg
}
