package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_ebook/internal/book"
	"github.com/anatolykoptev/go_ebook/internal/engine"
	"github.com/anatolykoptev/go_ebook/internal/series"
	"github.com/anatolykoptev/go_ebook/internal/ytdlp"
)

func newDoctorCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the environment and the state of each series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			issues := doctor(cmd.OutOrStdout(), app)
			if issues > 0 {
				return fmt.Errorf("%d issue(s) found", issues)
			}
			return nil
		},
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// doctor prints environment status and returns the number of issues.
func doctor(w io.Writer, app *App) int {
	root := app.root()
	issues := 0

	cfgPath := filepath.Join(root, series.ConfigFile)
	fmt.Fprintf(w, "Project root: %s\n", root)
	if exists(cfgPath) {
		fmt.Fprintf(w, "Config: %s\n", series.ConfigFile)
	} else {
		fmt.Fprintf(w, "Config: missing (%s); using the built-in %s series\n", series.ConfigFile, series.DefaultSlug)
	}
	c, err := app.config()
	if err != nil {
		fmt.Fprintf(w, "  Could not parse config: %v\n", err)
		return issues + 1
	}

	if bin, ok := ytdlp.FindBinary(); ok {
		fmt.Fprintf(w, "yt-dlp: %s\n", bin)
	} else {
		issues++
		fmt.Fprintln(w, "yt-dlp: not found. Install yt-dlp or set YTDLP=/path/to/yt-dlp")
	}
	fmt.Fprintf(w, "LLM polish: %v\n", engine.LLMEnabled())
	fmt.Fprintf(w, "Cache: enabled=%v redis=%v\n", engine.CacheEnabled(), engine.CacheRedis())

	list := c.List()
	if app.seriesSlug != "" {
		s, err := c.Get(app.seriesSlug)
		if err != nil {
			fmt.Fprintln(w, err)
			return issues + 1
		}
		list = []series.Series{s}
	}
	for _, s := range list {
		issues += doctorSeries(w, root, s)
	}

	fmt.Fprintf(w, "\nMetrics:\n%s\n", engine.FormatMetrics())
	return issues
}

func doctorSeries(w io.Writer, root string, s series.Series) int {
	p := s.Paths(root)
	issues := 0
	fmt.Fprintf(w, "\nSeries: %s - %s\n", s.Slug, s.Title)

	check := func(label, path, hint string) {
		if exists(path) {
			fmt.Fprintf(w, "  %s: %s\n", label, rel(root, path))
			return
		}
		issues++
		fmt.Fprintf(w, "  %s: missing (%s) - %s\n", label, rel(root, path), hint)
	}
	check("data dir", p.DataDir, "run `go_ebook list --series "+s.Slug+"`")
	check("videos.json", p.VideosPath, "run `go_ebook list --series "+s.Slug+"`")
	check("talks.json", p.TalksPath, "run `go_ebook fetch --series "+s.Slug+"`")

	if chapters, err := book.Chapters(p.ContentDir, false); err != nil || len(chapters) == 0 {
		issues++
		fmt.Fprintf(w, "  chapters: none in %s - run `go_ebook ingest --series %s`\n", rel(root, p.ContentDir), s.Slug)
	} else {
		fmt.Fprintf(w, "  chapters: %d Markdown file(s) in %s\n", len(chapters), rel(root, p.ContentDir))
	}

	if p.MetadataPath != "" {
		check("metadata", p.MetadataPath, "create the key: value metadata file")
	}
	if exists(p.BookPath) {
		fmt.Fprintf(w, "  book.md: %s\n", rel(root, p.BookPath))
	} else {
		fmt.Fprintf(w, "  book.md: not built yet - run `go_ebook build --series %s`\n", s.Slug)
	}
	return issues
}
