// Package cli wires the pipeline stages into the go_ebook command tree.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_ebook/internal/engine"
	"github.com/anatolykoptev/go_ebook/internal/pipeline"
	"github.com/anatolykoptev/go_ebook/internal/series"
)

// App carries process-level settings from main into the commands.
type App struct {
	Version      string
	Home         string // project root override, "" = discover
	MCPPort      string
	Headless     bool   // browser workflow default
	YtdlpCookies string // default --cookies
	YtdlpBrowser string // default --cookies-from-browser

	sources      func(cookie string) pipeline.Sources
	seriesSlug   string
	verbose      bool
	resolvedRoot string
	loadedConfig *series.Config
}

// NewRootCmd builds the command tree.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "go_ebook",
		Short: "Turn a YouTube talk playlist into a Markdown book",
		Long: `go_ebook discovers a YouTube playlist, fetches every talk's transcript
through a chain of caption sources, and compiles the talks into Markdown
chapters and a single book manuscript.`,
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if app.verbose {
				slog.SetLogLoggerLevel(slog.LevelDebug)
			}
		},
	}
	root.PersistentFlags().StringVar(&app.seriesSlug, "series", "", "series slug from config/series.json (default: the configured default)")
	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newSeriesCmd(app),
		newListCmd(app),
		newFetchCmd(app),
		newTranscriptCmd(app),
		newSubtitlesCmd(app),
		newBrowserCmd(app),
		newIngestCmd(app),
		newEnrichCmd(app),
		newPolishCmd(app),
		newBuildCmd(app),
		newUpdateCmd(app),
		newServeCmd(app),
		newDoctorCmd(app),
	)
	return root
}

// Execute runs the command tree and exits non-zero on failure.
func Execute(ctx context.Context, app *App) {
	if err := NewRootCmd(app).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *App) root() string {
	if a.resolvedRoot == "" {
		a.resolvedRoot = series.FindRoot(a.Home)
	}
	return a.resolvedRoot
}

func (a *App) config() (*series.Config, error) {
	if a.loadedConfig != nil {
		return a.loadedConfig, nil
	}
	c, err := series.LoadOrDefault(a.root())
	if err != nil {
		return nil, err
	}
	a.loadedConfig = c
	return c, nil
}

// selected returns the --series series and its paths.
func (a *App) selected() (series.Series, series.Paths, error) {
	c, err := a.config()
	if err != nil {
		return series.Series{}, series.Paths{}, err
	}
	s, err := c.Get(a.seriesSlug)
	if err != nil {
		return series.Series{}, series.Paths{}, err
	}
	return s, s.Paths(a.root()), nil
}

// network returns the YouTube collaborators, authenticated with the
// cookies file when given, else the configured cookie header.
func (a *App) network(cookiesFile string) pipeline.Sources {
	cookie := engine.Cfg.CookieHeader
	if cookiesFile != "" {
		if h := engine.CookieHeaderFromFile(cookiesFile); h != "" {
			cookie = h
		}
	}
	if a.sources != nil {
		return a.sources(cookie)
	}
	return pipeline.DefaultSources(cookie, "")
}
