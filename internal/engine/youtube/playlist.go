package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/anatolykoptev/go_ebook/internal/engine"
)

// BaseURL is the site root every page and endpoint URL is built from.
var BaseURL = "https://www.youtube.com"

// DefaultChannel is the channel whose playlists and search page back the
// second and third discovery strategies.
const DefaultChannel = "@ycombinator"

// ErrPlaylistNotFound is returned when no discovery strategy yields a
// playlist. Callers should ask for an explicit playlist id.
var ErrPlaylistNotFound = errors.New("could not resolve a YouTube playlist")

// KeywordRule adds Weight to a title containing any of Terms
// (case-insensitive substring match).
type KeywordRule struct {
	Terms  []string
	Weight int
}

// DefaultKeywordWeights rank playlists for the AI Startup School series.
var DefaultKeywordWeights = []KeywordRule{
	{Terms: []string{"ai"}, Weight: 2},
	{Terms: []string{"startup"}, Weight: 2},
	{Terms: []string{"school"}, Weight: 2},
	{Terms: []string{"yc", "y combinator"}, Weight: 1},
	{Terms: []string{"ai startup school"}, Weight: 5},
}

// ScoreTitle sums the weights of every rule matching title.
func ScoreTitle(title string, rules []KeywordRule) int {
	t := strings.ToLower(title)
	score := 0
	for _, r := range rules {
		for _, term := range r.Terms {
			if strings.Contains(t, term) {
				score += r.Weight
				break
			}
		}
	}
	return score
}

// Candidate is a playlist considered during discovery.
type Candidate struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Score int    `json:"score"`
}

// Strategy is one discovery step: a page to fetch and the renderer node that
// holds playlist entries on it.
type Strategy struct {
	Name     string
	URL      func(base, channel, query string) string
	Renderer string
}

// DefaultStrategies are tried in order until one yields candidates.
var DefaultStrategies = []Strategy{
	{
		Name: "search",
		URL: func(base, _, query string) string {
			return base + "/results?search_query=" + url.QueryEscape(query+" playlist")
		},
		Renderer: "playlistRenderer",
	},
	{
		Name: "channel_playlists",
		URL: func(base, channel, _ string) string {
			return base + "/" + channel + "/playlists"
		},
		Renderer: "gridPlaylistRenderer",
	},
	{
		Name: "channel_search",
		URL: func(base, channel, query string) string {
			return base + "/" + channel + "/search?query=" + url.QueryEscape(query)
		},
		Renderer: "playlistRenderer",
	},
}

// Resolver discovers a playlist id from a free-text query.
type Resolver struct {
	Channel    string
	Weights    []KeywordRule
	Strategies []Strategy
}

// NewResolver returns a resolver with the default channel, weights and
// strategies.
func NewResolver() *Resolver {
	return &Resolver{
		Channel:    DefaultChannel,
		Weights:    DefaultKeywordWeights,
		Strategies: DefaultStrategies,
	}
}

// ResolvePlaylistID resolves query with the default resolver.
func ResolvePlaylistID(ctx context.Context, query string) (string, error) {
	return NewResolver().Resolve(ctx, query)
}

// Resolve returns the id of the best scoring candidate from the first
// strategy that finds any. Strategy failures are logged and skipped.
func (r *Resolver) Resolve(ctx context.Context, query string) (string, error) {
	engine.IncrPlaylistResolve()
	for _, s := range r.Strategies {
		cands, err := r.candidates(ctx, s, query)
		if err != nil {
			slog.Debug("playlist: strategy failed", slog.String("strategy", s.Name), slog.Any("error", err))
			continue
		}
		if len(cands) == 0 {
			continue
		}
		best := cands[0]
		slog.Info("playlist resolved", slog.String("strategy", s.Name),
			slog.String("playlist_id", best.ID), slog.String("title", best.Title), slog.Int("score", best.Score))
		return best.ID, nil
	}
	return "", fmt.Errorf("%w for query %q", ErrPlaylistNotFound, query)
}

// candidates fetches the strategy page and returns its ranked candidates.
func (r *Resolver) candidates(ctx context.Context, s Strategy, query string) ([]Candidate, error) {
	page, err := fetchPage(ctx, s.URL(BaseURL, r.Channel, query), "")
	if err != nil {
		return nil, err
	}
	data := InitialData(page)
	if data == nil {
		return nil, errors.New("ytInitialData not found")
	}
	return RankCandidates(PlaylistCandidates(data, s.Renderer), r.Weights), nil
}

// PlaylistCandidates collects (playlistId, title) pairs from every renderer
// node in data. Entries missing either field are skipped.
func PlaylistCandidates(data []byte, renderer string) []Candidate {
	var out []Candidate
	for _, n := range FindObjects(data, renderer) {
		id := str(n, "playlistId")
		title := TextFromRuns(n["title"])
		if id == "" || title == "" {
			continue
		}
		out = append(out, Candidate{ID: id, Title: title})
	}
	return out
}

// RankCandidates scores each candidate and sorts best first. Equal scores
// keep discovery order.
func RankCandidates(cands []Candidate, rules []KeywordRule) []Candidate {
	for i := range cands {
		cands[i].Score = ScoreTitle(cands[i].Title, rules)
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].Score > cands[j].Score })
	return cands
}

// fetchPage GETs a YouTube page as text, forwarding cookie when set.
func fetchPage(ctx context.Context, rawURL, cookie string) (string, error) {
	var opts []engine.RequestOption
	if cookie != "" {
		opts = append(opts, engine.WithCookie(cookie))
	}
	data, err := engine.Get(ctx, rawURL, opts...)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
