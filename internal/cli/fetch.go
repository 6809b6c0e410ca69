package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_ebook/internal/browser"
	"github.com/anatolykoptev/go_ebook/internal/engine"
	"github.com/anatolykoptev/go_ebook/internal/pipeline"
	"github.com/anatolykoptev/go_ebook/internal/series"
	"github.com/anatolykoptev/go_ebook/internal/ytdlp"
)

// playlistFlags are shared by list, fetch and update.
type playlistFlags struct {
	playlistID string
	query      string
	limit      int
	langs      string
	delay      time.Duration
}

func (f *playlistFlags) register(cmd *cobra.Command, withTranscripts bool) {
	cmd.Flags().StringVar(&f.playlistID, "playlist-id", "", "YouTube playlist id (skips discovery)")
	cmd.Flags().StringVar(&f.query, "query", "", "playlist discovery query (default: series playlist_query, then title)")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "process at most this many videos (0 = all)")
	if withTranscripts {
		cmd.Flags().StringVar(&f.langs, "langs", "", "comma separated caption languages (default TRANSCRIPT_LANGS)")
		cmd.Flags().DurationVar(&f.delay, "delay", engine.Cfg.VideoDelay, "pause between videos")
	}
}

func (f *playlistFlags) options(s series.Series) pipeline.FetchOptions {
	o := pipeline.FetchOptions{
		PlaylistID:   f.playlistID,
		Query:        f.query,
		Limit:        f.limit,
		Delay:        f.delay,
		ExportVideos: true,
		SeriesTitle:  s.Title,
	}
	if o.PlaylistID == "" {
		o.PlaylistID = s.YouTube.PlaylistID
	}
	if o.Query == "" {
		o.Query = s.Query()
	}
	if f.langs != "" {
		o.Languages = engine.ParseLanguages(f.langs)
	}
	return o
}

func newListCmd(app *App) *cobra.Command {
	var f playlistFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Resolve the series playlist and write videos.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, p, err := app.selected()
			if err != nil {
				return err
			}
			list, err := pipeline.ExportVideos(cmd.Context(), p, app.network(""), f.options(s))
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Playlist %s: %d videos -> %s\n", list.PlaylistID, len(list.Videos), rel(app.root(), p.VideosPath))
			for i, v := range list.Videos {
				fmt.Fprintf(w, "%3d. %s  %s\n", i+1, v.VideoID, v.Title)
			}
			return nil
		},
	}
	f.register(cmd, false)
	return cmd
}

func newFetchCmd(app *App) *cobra.Command {
	var (
		f          playlistFlags
		cookies    string
		skipExport bool
	)
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch every playlist transcript into talks.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, p, err := app.selected()
			if err != nil {
				return err
			}
			opts := f.options(s)
			opts.ExportVideos = !skipExport
			sum, err := pipeline.FetchAndStore(cmd.Context(), p, app.network(cookies), opts)
			if sum != nil {
				printSummary(cmd, sum)
			}
			return err
		},
	}
	f.register(cmd, true)
	cmd.Flags().StringVar(&cookies, "cookies", "", "Netscape cookies.txt forwarded on YouTube requests")
	cmd.Flags().BoolVar(&skipExport, "skip-video-export", false, "do not write videos.json")
	return cmd
}

func printSummary(cmd *cobra.Command, sum *pipeline.Summary) {
	fmt.Fprintf(cmd.OutOrStdout(), "processed %d, skipped %d, description fallback %d\n",
		sum.Processed, sum.Skipped, sum.Fallback)
}

func newTranscriptCmd(app *App) *cobra.Command {
	var (
		langs   string
		cookies string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "transcript <video-id|url>",
		Short: "Print one video's transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var l []string
			if langs != "" {
				l = engine.ParseLanguages(langs)
			} else {
				l = engine.Cfg.Languages
			}
			single, err := app.network(cookies).FetchSingle(cmd.Context(), args[0], l)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(single)
			}
			fmt.Fprintf(w, "# %s: %s\n\n", single.Speaker, single.Title)
			if single.Date != "" {
				fmt.Fprintf(w, "- Date: %s\n", single.Date)
			}
			fmt.Fprintf(w, "- Source: %s\n\n%s", single.URL, single.Text)
			return nil
		},
	}
	cmd.Flags().StringVar(&langs, "langs", "", "comma separated caption languages")
	cmd.Flags().StringVar(&cookies, "cookies", "", "Netscape cookies.txt forwarded on YouTube requests")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the record as JSON")
	return cmd
}

func newSubtitlesCmd(app *App) *cobra.Command {
	var (
		cookies string
		browser string
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "subtitles",
		Short: "Harvest captions with yt-dlp for the videos in videos.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, p, err := app.selected()
			if err != nil {
				return err
			}
			var dl pipeline.CaptionDownloader
			if r, err := ytdlp.New(cookies, browser); err != nil {
				slog.Warn("subtitles: yt-dlp unavailable", slog.Any("error", err))
			} else {
				dl = r
			}
			sum, err := pipeline.DownloadSubtitles(cmd.Context(), p, dl, pipeline.SubtitleOptions{
				Cookies:     cookies,
				Limit:       limit,
				SeriesTitle: s.Title,
			})
			if sum != nil {
				printSummary(cmd, sum)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&cookies, "cookies", app.YtdlpCookies, "Netscape cookies.txt for yt-dlp and the direct fetch fallback")
	cmd.Flags().StringVar(&browser, "cookies-from-browser", app.YtdlpBrowser, "browser yt-dlp reads cookies from (chrome, firefox, ...)")
	cmd.Flags().IntVar(&limit, "limit", 0, "process at most this many videos (0 = all)")
	return cmd
}

func newBrowserCmd(app *App) *cobra.Command {
	var (
		cookies  string
		headless bool
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "browser",
		Short: "Scrape transcripts with a headless browser for the videos in videos.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, p, err := app.selected()
			if err != nil {
				return err
			}
			sess, err := browser.NewSession(cmd.Context(), browser.Options{
				Headless:    headless,
				CookiesFile: cookies,
				UserAgent:   engine.Cfg.UserAgent,
			})
			if err != nil {
				return err
			}
			defer sess.Close()
			sum, err := pipeline.BrowserFetch(cmd.Context(), p, sess, pipeline.BrowserOptions{
				Limit:       limit,
				SeriesTitle: s.Title,
			})
			if sum != nil {
				printSummary(cmd, sum)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&cookies, "cookies", app.YtdlpCookies, "Netscape cookies.txt loaded into the browser")
	cmd.Flags().BoolVar(&headless, "headless", app.Headless, "run the browser without a window")
	cmd.Flags().IntVar(&limit, "limit", 0, "process at most this many videos (0 = all)")
	return cmd
}
