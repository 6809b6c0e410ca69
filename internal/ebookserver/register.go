// Package ebookserver exposes transcript acquisition as MCP tools.
package ebookserver

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ebook/internal/engine"
	"github.com/anatolykoptev/go_ebook/internal/engine/youtube"
	"github.com/anatolykoptev/go_ebook/internal/pipeline"
	"github.com/anatolykoptev/go_ebook/internal/titles"
	"github.com/anatolykoptev/go_ebook/internal/toolutil"
)

// ToolCount is the number of tools RegisterTools adds.
const ToolCount = 4

// RegisterTools registers the transcript tools on the given MCP server:
// youtube_transcript, playlist_videos, resolve_playlist, split_title.
func RegisterTools(server *mcp.Server, src pipeline.Sources) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_transcript",
		Description: "Fetch the transcript of a YouTube video as clean paragraph text. Accepts a video id or any watch/youtu.be URL. Tries the Innertube caption API, the watch page caption track and the legacy timedtext endpoint in order. Returns title, speaker, publish date and which source served the text.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, transcriptHandler(src))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "playlist_videos",
		Description: "List the videos of a YouTube playlist in playlist order, deduplicated by video id. Pass playlist_id, or a free-text query to discover the playlist first.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, playlistVideosHandler(src))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve_playlist",
		Description: "Find the YouTube playlist id best matching a free-text query, searching YouTube results and the channel's playlist pages.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, resolvePlaylistHandler(src))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "split_title",
		Description: "Split a raw talk video title into the talk title and the speaker name, removing series branding.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, splitTitleHandler(src))
}

// --- youtube_transcript ---

// TranscriptInput is the youtube_transcript request.
type TranscriptInput struct {
	Video     string   `json:"video" jsonschema:"YouTube video id or URL"`
	Languages []string `json:"languages,omitempty" jsonschema:"preferred caption languages in order, default en, en-US, en-GB"`
	MaxChars  int      `json:"max_chars,omitempty" jsonschema:"cut the transcript at this many characters, 0 for no limit"`
}

// TranscriptOutput is the youtube_transcript result.
type TranscriptOutput struct {
	VideoID    string `json:"video_id"`
	Title      string `json:"title"`
	Speaker    string `json:"speaker"`
	Date       string `json:"date,omitempty"`
	URL        string `json:"url"`
	Source     string `json:"source"`
	Transcript string `json:"transcript"`
	Truncated  bool   `json:"truncated,omitempty"`
}

func transcriptHandler(src pipeline.Sources) mcp.ToolHandlerFor[TranscriptInput, TranscriptOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TranscriptInput) (*mcp.CallToolResult, TranscriptOutput, error) {
		id, ok := youtube.ExtractVideoID(input.Video)
		if !ok {
			return nil, TranscriptOutput{}, fmt.Errorf("video must be a YouTube id or URL")
		}
		langs := toolutil.NormLangs(input.Languages)

		key := engine.CacheKey("youtube_transcript", id, strings.Join(langs, ","))
		out, err := toolutil.Cached(ctx, key, func(ctx context.Context) (TranscriptOutput, error) {
			var single *pipeline.Single
			err := engine.TrackOperation(ctx, "youtube_transcript", func(ctx context.Context) error {
				var err error
				single, err = src.FetchSingle(ctx, id, langs)
				return err
			})
			if err != nil {
				return TranscriptOutput{}, err
			}
			return TranscriptOutput{
				VideoID:    single.VideoID,
				Title:      single.Title,
				Speaker:    single.Speaker,
				Date:       single.Date,
				URL:        single.URL,
				Source:     single.Source,
				Transcript: single.Text,
			}, nil
		})
		if err != nil {
			return nil, TranscriptOutput{}, err
		}
		out.Transcript, out.Truncated = toolutil.Clip(out.Transcript, input.MaxChars)
		return nil, out, nil
	}
}

// --- playlist_videos ---

// PlaylistVideosInput is the playlist_videos request.
type PlaylistVideosInput struct {
	PlaylistID string `json:"playlist_id,omitempty" jsonschema:"YouTube playlist id (PL...)"`
	Query      string `json:"query,omitempty" jsonschema:"free-text query used to discover the playlist when playlist_id is empty"`
	Limit      int    `json:"limit,omitempty" jsonschema:"return at most this many videos, 0 for all"`
}

// PlaylistVideosOutput is the playlist_videos result.
type PlaylistVideosOutput struct {
	PlaylistID string             `json:"playlist_id"`
	Videos     []youtube.VideoRef `json:"videos"`
}

func playlistVideosHandler(src pipeline.Sources) mcp.ToolHandlerFor[PlaylistVideosInput, PlaylistVideosOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PlaylistVideosInput) (*mcp.CallToolResult, PlaylistVideosOutput, error) {
		if strings.TrimSpace(input.PlaylistID) == "" && strings.TrimSpace(input.Query) == "" {
			return nil, PlaylistVideosOutput{}, fmt.Errorf("playlist_id or query is required")
		}
		key := engine.CacheKey("playlist_videos", input.PlaylistID, input.Query, strconv.Itoa(input.Limit))
		out, err := toolutil.Cached(ctx, key, func(ctx context.Context) (PlaylistVideosOutput, error) {
			id, videos, err := src.ResolveAndList(ctx, input.PlaylistID, input.Query, input.Limit)
			if err != nil {
				return PlaylistVideosOutput{}, err
			}
			if videos == nil {
				videos = []youtube.VideoRef{}
			}
			return PlaylistVideosOutput{PlaylistID: id, Videos: videos}, nil
		})
		return nil, out, err
	}
}

// --- resolve_playlist ---

// ResolvePlaylistInput is the resolve_playlist request.
type ResolvePlaylistInput struct {
	Query string `json:"query" jsonschema:"free-text playlist description, e.g. YC AI Startup School"`
}

// ResolvePlaylistOutput is the resolve_playlist result.
type ResolvePlaylistOutput struct {
	Query      string `json:"query"`
	PlaylistID string `json:"playlist_id"`
	URL        string `json:"url"`
}

func resolvePlaylistHandler(src pipeline.Sources) mcp.ToolHandlerFor[ResolvePlaylistInput, ResolvePlaylistOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ResolvePlaylistInput) (*mcp.CallToolResult, ResolvePlaylistOutput, error) {
		q := strings.TrimSpace(input.Query)
		if q == "" {
			return nil, ResolvePlaylistOutput{}, fmt.Errorf("query is required")
		}
		out, err := toolutil.Cached(ctx, engine.CacheKey("resolve_playlist", q), func(ctx context.Context) (ResolvePlaylistOutput, error) {
			id, err := src.Resolve(ctx, q)
			if err != nil {
				return ResolvePlaylistOutput{}, err
			}
			return ResolvePlaylistOutput{
				Query:      q,
				PlaylistID: id,
				URL:        "https://www.youtube.com/playlist?list=" + id,
			}, nil
		})
		return nil, out, err
	}
}

// --- split_title ---

// SplitTitleInput is the split_title request.
type SplitTitleInput struct {
	Title  string `json:"title" jsonschema:"raw video title"`
	Series string `json:"series,omitempty" jsonschema:"series branding to strip, default AI Startup School"`
}

// SplitTitleOutput is the split_title result. Speaker is empty when no
// speaker could be identified.
type SplitTitleOutput struct {
	Title   string `json:"title"`
	Speaker string `json:"speaker"`
}

func splitTitleHandler(src pipeline.Sources) mcp.ToolHandlerFor[SplitTitleInput, SplitTitleOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input SplitTitleInput) (*mcp.CallToolResult, SplitTitleOutput, error) {
		if strings.TrimSpace(input.Title) == "" {
			return nil, SplitTitleOutput{}, fmt.Errorf("title is required")
		}
		sp := src.Titles
		if input.Series != "" || sp == nil {
			sp = titles.NewSplitter(input.Series)
		}
		talk, speaker := sp.Split(input.Title)
		return nil, SplitTitleOutput{Title: talk, Speaker: speaker}, nil
	}
}
