// go_ebook turns a YouTube talk playlist into a Markdown book.
//
// Commands fetch transcripts through a chain of caption sources (Innertube,
// the watch page caption track, the legacy timedtext endpoint, yt-dlp and a
// headless browser), write talks.json, and compile chapters into a
// manuscript. `go_ebook serve` exposes the transcript tools over MCP.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/joho/godotenv"

	"github.com/anatolykoptev/go_ebook/internal/cli"
	"github.com/anatolykoptev/go_ebook/internal/engine"
)

var version = "dev"

func main() {
	_ = godotenv.Load()
	initEngine()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.Execute(ctx, &cli.App{
		Version:      version,
		Home:         env.Str("EBOOK_PIPELINE_HOME", ""),
		MCPPort:      env.Str("MCP_PORT", "8893"),
		Headless:     envBool("BROWSER_HEADLESS", true),
		YtdlpCookies: env.Str("YTDLP_COOKIES", ""),
		YtdlpBrowser: env.Str("YTDLP_COOKIES_FROM_BROWSER", ""),
	})
}

func envBool(key string, def bool) bool {
	switch strings.ToLower(env.Str(key, "")) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

func initEngine() {
	fetchTimeout := env.Duration("FETCH_TIMEOUT", 20*time.Second)
	c := engine.Config{
		Home:                 env.Str("EBOOK_PIPELINE_HOME", ""),
		Languages:            engine.ParseLanguages(env.Str("TRANSCRIPT_LANGS", "en,en-US,en-GB")),
		FetchTimeout:         fetchTimeout,
		FetchRetries:         env.Int("FETCH_RETRIES", 3),
		FetchBackoff:         env.Duration("FETCH_BACKOFF", 500*time.Millisecond),
		VideoDelay:           env.Duration("VIDEO_DELAY", 300*time.Millisecond),
		UserAgent:            env.Str("USER_AGENT", ""),
		CookieHeader:         env.Str("YOUTUBE_COOKIE", ""),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
	}
	if c.CookieHeader == "" {
		if path := env.Str("YTDLP_COOKIES", ""); path != "" {
			c.CookieHeader = engine.CookieHeaderFromFile(path)
		}
	}

	if envBool("STEALTH_ENABLED", false) {
		bc, err := engine.NewStealthClient(int(fetchTimeout/time.Second), env.Str("WEBSHARE_API_KEY", ""))
		if err != nil {
			slog.Error("stealth client init failed", slog.Any("error", err))
		} else {
			c.BrowserClient = bc
			slog.Debug("stealth browser client initialized")
		}
	}

	if key := env.Str("LLM_API_KEY", ""); key != "" {
		c.LLMClient = llm.NewClient(
			env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
			key,
			env.Str("LLM_MODEL", "gemini-2.5-flash"),
			llm.WithFallbackKeys(env.List("LLM_API_KEY_FALLBACKS", "")),
			llm.WithMaxTokens(env.Int("LLM_MAX_TOKENS", 4096)),
			llm.WithTemperature(env.Float("LLM_TEMPERATURE", 0.2)),
			llm.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
		)
	}

	engine.Init(c)
	engine.InitCache(env.Str("REDIS_URL", ""), env.Duration("CACHE_TTL", 15*time.Minute), c.CacheMaxEntries, c.CacheCleanupInterval)
}
