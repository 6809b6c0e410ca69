package youtube

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreTitle(t *testing.T) {
	tests := []struct {
		title string
		want  int
	}{
		{"YC AI Startup School: Opening", 12},
		{"Startup School Vol 2", 4},
		{"Y Combinator Demo Day", 1},
		{"Cooking", 0},
		{"MAINTENANCE", 2}, // "ai" substring
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreTitle(tt.title, DefaultKeywordWeights))
		})
	}
}

func TestRankCandidates(t *testing.T) {
	cands := []Candidate{
		{ID: "PL2", Title: "Startup School Vol 2"},
		{ID: "PL1", Title: "YC AI Startup School: Opening"},
		{ID: "PL3", Title: "Startup School Vol 3"},
	}
	ranked := RankCandidates(cands, DefaultKeywordWeights)
	assert.Equal(t, "PL1", ranked[0].ID)
	// equal scores keep discovery order
	assert.Equal(t, "PL2", ranked[1].ID)
	assert.Equal(t, "PL3", ranked[2].ID)
}

func TestPlaylistCandidatesSkipsIncomplete(t *testing.T) {
	data := []byte(`{"contents":[
		{"playlistRenderer":{"playlistId":"PLa","title":{"simpleText":"AI Startup School"}}},
		{"playlistRenderer":{"playlistId":"","title":{"simpleText":"No id"}}},
		{"playlistRenderer":{"playlistId":"PLc"}}
	]}`)
	got := PlaylistCandidates(data, "playlistRenderer")
	require.Len(t, got, 1)
	assert.Equal(t, "PLa", got[0].ID)
}

func TestResolveFallsThroughStrategies(t *testing.T) {
	var paths []string
	newTestSite(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/results":
			// search page without any playlist renderers
			_, _ = w.Write([]byte(htmlPage(t, "var ytInitialData = ", map[string]any{"contents": []any{}})))
		case "/@ycombinator/playlists":
			_, _ = w.Write([]byte(htmlPage(t, "var ytInitialData = ", map[string]any{"items": []any{
				map[string]any{"gridPlaylistRenderer": map[string]any{"playlistId": "PLvol2", "title": runs("Startup School Vol 2")}},
				map[string]any{"gridPlaylistRenderer": map[string]any{"playlistId": "PLais", "title": runs("AI Startup School")}},
			}})))
		default:
			http.NotFound(w, r)
		}
	})

	id, err := ResolvePlaylistID(context.Background(), "YC AI Startup School")
	require.NoError(t, err)
	assert.Equal(t, "PLais", id)
	assert.Equal(t, []string{"/results", "/@ycombinator/playlists"}, paths)
}

func TestResolveFirstStrategyWins(t *testing.T) {
	newTestSite(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/results" {
			t.Errorf("unexpected request %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("search_query"); got != "startup school playlist" {
			t.Errorf("search_query = %q", got)
		}
		_, _ = w.Write([]byte(htmlPage(t, "var ytInitialData = ", map[string]any{
			"playlistRenderer": map[string]any{"playlistId": "PLx", "title": runs("Startup School")},
		})))
	})

	id, err := ResolvePlaylistID(context.Background(), "startup school")
	require.NoError(t, err)
	assert.Equal(t, "PLx", id)
}

func TestResolveNotFound(t *testing.T) {
	newTestSite(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := ResolvePlaylistID(context.Background(), "anything")
	assert.True(t, errors.Is(err, ErrPlaylistNotFound), "err = %v", err)
}

func TestListVideosDedupes(t *testing.T) {
	newTestSite(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PLtest", r.URL.Query().Get("list"))
		_, _ = w.Write([]byte(htmlPage(t, "var ytInitialData = ", map[string]any{"contents": []any{
			map[string]any{"playlistVideoRenderer": map[string]any{"videoId": "aaaaaaaaaaa", "title": runs("First title")}},
			map[string]any{"playlistVideoRenderer": map[string]any{"videoId": "bbbbbbbbbbb", "title": runs("")}},
			map[string]any{"playlistVideoRenderer": map[string]any{"videoId": "ccccccccccc", "title": map[string]any{"simpleText": "Third"}}},
			map[string]any{"playlistVideoRenderer": map[string]any{"videoId": "aaaaaaaaaaa", "title": runs("Second title")}},
		}})))
	})

	videos, err := ListVideos(context.Background(), "PLtest")
	require.NoError(t, err)
	assert.Equal(t, []VideoRef{
		{VideoID: "aaaaaaaaaaa", Title: "First title", URL: "https://www.youtube.com/watch?v=aaaaaaaaaaa"},
		{VideoID: "ccccccccccc", Title: "Third", URL: "https://www.youtube.com/watch?v=ccccccccccc"},
	}, videos)
}

func TestListVideosEmptyIsValid(t *testing.T) {
	newTestSite(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(htmlPage(t, "var ytInitialData = ", map[string]any{"contents": []any{}})))
	})
	videos, err := ListVideos(context.Background(), "PLempty")
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestListVideosParseError(t *testing.T) {
	newTestSite(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>consent wall</html>"))
	})
	_, err := ListVideos(context.Background(), "PLbad")
	var pe *PlaylistParseError
	require.True(t, errors.As(err, &pe), "err = %v", err)
	assert.Equal(t, "PLbad", pe.PlaylistID)
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{" https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10 ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?feature=x&v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://example.com/", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractVideoID(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}
