package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_ebook/internal/book"
	"github.com/anatolykoptev/go_ebook/internal/engine"
	"github.com/anatolykoptev/go_ebook/internal/pipeline"
	"github.com/anatolykoptev/go_ebook/internal/ytdlp"
)

func newIngestCmd(app *App) *cobra.Command {
	var (
		input string
		opts  book.IngestOptions
	)
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Write talks.json entries as Markdown chapters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, p, err := app.selected()
			if err != nil {
				return err
			}
			if input == "" {
				input = p.TalksPath
			}
			written, err := book.IngestFile(p, input, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Chapters written: %d\n", len(written))
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "talks JSON file (default: series talks.json)")
	cmd.Flags().IntVar(&opts.StartIndex, "start-index", 1, "number of the first chapter")
	cmd.Flags().BoolVar(&opts.Overwrite, "overwrite", false, "replace existing chapter files")
	return cmd
}

func newEnrichCmd(app *App) *cobra.Command {
	var (
		input, output string
		useYtdlp      bool
		cookies       string
		browser       string
	)
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Clean transcripts and fill missing dates from yt-dlp metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, p, err := app.selected()
			if err != nil {
				return err
			}
			if input == "" {
				input = p.TalksPath
			}
			var meta book.MetadataSource
			if useYtdlp {
				if r, err := ytdlp.New(cookies, browser); err != nil {
					slog.Warn("enrich: yt-dlp unavailable, dates not filled", slog.Any("error", err))
				} else {
					meta = r
				}
			}
			n, err := book.Enrich(cmd.Context(), input, output, meta)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Changes: %d\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "talks JSON file (default: series talks.json)")
	cmd.Flags().StringVar(&output, "output", "", "write here instead of in place")
	cmd.Flags().BoolVar(&useYtdlp, "ytdlp", false, "look up upload dates with yt-dlp")
	cmd.Flags().StringVar(&cookies, "cookies", app.YtdlpCookies, "Netscape cookies.txt for yt-dlp")
	cmd.Flags().StringVar(&browser, "cookies-from-browser", app.YtdlpBrowser, "browser yt-dlp reads cookies from")
	return cmd
}

func rewriter(useLLM bool) book.Rewriter {
	if !useLLM {
		return nil
	}
	if !engine.LLMEnabled() {
		slog.Warn("polish: --llm given but no LLM is configured; set LLM_API_KEY")
		return nil
	}
	return book.LLMRewriter()
}

func newPolishCmd(app *App) *cobra.Command {
	var (
		file   string
		useLLM bool
	)
	cmd := &cobra.Command{
		Use:   "polish",
		Short: "Remove fillers, fix casing and add section headings to chapters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, p, err := app.selected()
			if err != nil {
				return err
			}
			done, err := book.Polish(cmd.Context(), p, file, rewriter(useLLM))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Polished: %d\n", len(done))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "polish only this chapter (relative to the content directory)")
	cmd.Flags().BoolVar(&useLLM, "llm", false, "also rewrite paragraphs with the configured LLM")
	return cmd
}

func newBuildCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Compile the chapters into build/<series>/book.md",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, p, err := app.selected()
			if err != nil {
				return err
			}
			out, err := book.Build(p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Built: %s\n", rel(app.root(), out))
			return nil
		},
	}
}

func newUpdateCmd(app *App) *cobra.Command {
	var (
		f         playlistFlags
		cookies   string
		overwrite bool
		useLLM    bool
	)
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Fetch, ingest, polish and build in one run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, p, err := app.selected()
			if err != nil {
				return err
			}
			sum, err := pipeline.FetchAndStore(ctx, p, app.network(cookies), f.options(s))
			if err != nil {
				return err
			}
			printSummary(cmd, sum)
			if len(sum.Talks) == 0 {
				return fmt.Errorf("no talks fetched; nothing to build")
			}
			if _, err := book.Ingest(p, sum.Talks, book.IngestOptions{StartIndex: 1, Overwrite: overwrite}); err != nil {
				return err
			}
			if _, err := book.Polish(ctx, p, "", rewriter(useLLM)); err != nil {
				return err
			}
			out, err := book.Build(p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Built: %s\n", rel(app.root(), out))
			return nil
		},
	}
	f.register(cmd, true)
	cmd.Flags().StringVar(&cookies, "cookies", "", "Netscape cookies.txt forwarded on YouTube requests")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace existing chapter files")
	cmd.Flags().BoolVar(&useLLM, "llm", false, "also rewrite paragraphs with the configured LLM")
	return cmd
}
