package youtube

import (
	"context"
	"fmt"

	"github.com/anatolykoptev/go_ebook/internal/engine"
)

// VideoRef identifies one playlist member.
type VideoRef struct {
	VideoID string `json:"video_id"`
	Title   string `json:"title"`
	URL     string `json:"url"`
}

// PlaylistParseError means the playlist page was fetched but carried no
// ytInitialData.
type PlaylistParseError struct {
	PlaylistID string
}

func (e *PlaylistParseError) Error() string {
	return fmt.Sprintf("could not parse ytInitialData for playlist %s", e.PlaylistID)
}

// WatchURL is the canonical watch URL for a video id.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// ListVideos returns the playlist's videos in playlist order. An empty
// result is valid; a page without initial data is a *PlaylistParseError.
func ListVideos(ctx context.Context, playlistID string) ([]VideoRef, error) {
	engine.IncrPlaylistList()
	page, err := fetchPage(ctx, BaseURL+"/playlist?list="+playlistID, "")
	if err != nil {
		return nil, fmt.Errorf("playlist %s: %w", playlistID, err)
	}
	data := InitialData(page)
	if data == nil {
		return nil, &PlaylistParseError{PlaylistID: playlistID}
	}
	return VideosFromInitialData(data), nil
}

// VideosFromInitialData extracts playlistVideoRenderer entries with both an
// id and a title, keeping the first occurrence of each id.
func VideosFromInitialData(data []byte) []VideoRef {
	seen := make(map[string]bool)
	var out []VideoRef
	for _, n := range FindObjects(data, "playlistVideoRenderer") {
		id := str(n, "videoId")
		title := TextFromRuns(n["title"])
		if id == "" || title == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, VideoRef{VideoID: id, Title: title, URL: WatchURL(id)})
	}
	return out
}
