package youtube

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anatolykoptev/go_ebook/internal/engine"
)

// newTestSite points BaseURL at a test server for the duration of t.
func newTestSite(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	old := BaseURL
	BaseURL = srv.URL
	engine.Init(engine.Config{FetchRetries: 1, FetchBackoff: time.Millisecond})
	t.Cleanup(func() {
		srv.Close()
		BaseURL = old
		engine.Init(engine.Config{})
	})
	return srv
}

// htmlPage embeds v as JSON behind anchor in a minimal watch-like page.
func htmlPage(t *testing.T, anchor string, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return "<html><head><script>" + anchor + string(b) + ";</script></head><body></body></html>"
}

func runs(s string) map[string]any {
	return map[string]any{"runs": []any{map[string]any{"text": s}}}
}
