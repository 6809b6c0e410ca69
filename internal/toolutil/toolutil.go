// Package toolutil provides shared helper functions for the MCP tools.
package toolutil

import (
	"context"
	"strings"

	"github.com/anatolykoptev/go_ebook/internal/engine"
)

// NormLangs trims a tool's language list; empty means the engine default.
func NormLangs(langs []string) []string {
	var out []string
	for _, l := range langs {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	if len(out) == 0 {
		return engine.Cfg.Languages
	}
	return out
}

// Cached returns the cached value for key or computes it with fn and stores
// the result. Errors are not cached.
func Cached[T any](ctx context.Context, key string, fn func(context.Context) (T, error)) (T, error) {
	if out, ok := engine.CacheLoadJSON[T](ctx, key); ok {
		return out, nil
	}
	out, err := fn(ctx)
	if err != nil {
		return out, err
	}
	engine.CacheStoreJSON(ctx, key, out)
	return out, nil
}

// Clip cuts text at a word boundary when maxChars is positive and the text
// is longer. The second result reports whether it was cut.
func Clip(text string, maxChars int) (string, bool) {
	if maxChars <= 0 || len([]rune(text)) <= maxChars {
		return text, false
	}
	return engine.TruncateAtWord(text, maxChars), true
}
