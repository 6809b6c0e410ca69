package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	FetchRequests        atomic.Int64
	FetchErrors          atomic.Int64
	FetchRetries         atomic.Int64
	PlaylistResolves     atomic.Int64
	PlaylistLists        atomic.Int64
	TranscriptRequests   atomic.Int64
	TranscriptMisses     atomic.Int64
	TranscriptInnertube  atomic.Int64
	TranscriptPlayer     atomic.Int64
	TranscriptTimedText  atomic.Int64
	TranscriptYtdlp      atomic.Int64
	TranscriptBrowser    atomic.Int64
	TranscriptDescFallbk atomic.Int64
	LLMCalls             atomic.Int64
	LLMErrors            atomic.Int64
}

// Transcript source names used in logs and metrics.
const (
	SourceInnertube   = "innertube"
	SourcePlayer      = "player_response"
	SourceTimedText   = "timedtext"
	SourceYtdlp       = "ytdlp"
	SourceBrowser     = "browser"
	SourceDescription = "description"
)

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"fetch_requests":             metrics.FetchRequests.Load(),
		"fetch_errors":               metrics.FetchErrors.Load(),
		"fetch_retries":              metrics.FetchRetries.Load(),
		"playlist_resolves":          metrics.PlaylistResolves.Load(),
		"playlist_lists":             metrics.PlaylistLists.Load(),
		"transcript_requests":        metrics.TranscriptRequests.Load(),
		"transcript_misses":          metrics.TranscriptMisses.Load(),
		"transcript_innertube":       metrics.TranscriptInnertube.Load(),
		"transcript_player_response": metrics.TranscriptPlayer.Load(),
		"transcript_timedtext":       metrics.TranscriptTimedText.Load(),
		"transcript_ytdlp":           metrics.TranscriptYtdlp.Load(),
		"transcript_browser":         metrics.TranscriptBrowser.Load(),
		"transcript_description":     metrics.TranscriptDescFallbk.Load(),
		"llm_calls":                  metrics.LLMCalls.Load(),
		"llm_errors":                 metrics.LLMErrors.Load(),
		"cache_hits":                 hits,
		"cache_misses":               misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"fetch_requests", "fetch_errors", "fetch_retries",
		"playlist_resolves", "playlist_lists",
		"transcript_requests", "transcript_misses",
		"transcript_innertube", "transcript_player_response", "transcript_timedtext",
		"transcript_ytdlp", "transcript_browser", "transcript_description",
		"llm_calls", "llm_errors",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

func IncrPlaylistResolve()   { metrics.PlaylistResolves.Add(1) }
func IncrPlaylistList()      { metrics.PlaylistLists.Add(1) }
func IncrTranscriptRequest() { metrics.TranscriptRequests.Add(1) }
func IncrTranscriptMiss()    { metrics.TranscriptMisses.Add(1) }
func IncrLLMCall()           { metrics.LLMCalls.Add(1) }
func IncrLLMError()          { metrics.LLMErrors.Add(1) }

// IncrTranscriptSource counts a transcript obtained from the named source.
func IncrTranscriptSource(source string) {
	switch source {
	case SourceInnertube:
		metrics.TranscriptInnertube.Add(1)
	case SourcePlayer:
		metrics.TranscriptPlayer.Add(1)
	case SourceTimedText:
		metrics.TranscriptTimedText.Add(1)
	case SourceYtdlp:
		metrics.TranscriptYtdlp.Add(1)
	case SourceBrowser:
		metrics.TranscriptBrowser.Add(1)
	case SourceDescription:
		metrics.TranscriptDescFallbk.Add(1)
	}
}

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 30*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
