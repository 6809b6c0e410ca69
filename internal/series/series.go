// Package series loads config/series.json and lays out each series'
// data, content and build directories under the project root.
package series

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ConfigFile is the series config path relative to the project root.
const ConfigFile = "config/series.json"

// DefaultSlug names the built-in series.
const DefaultSlug = "yc-ai-startup-school"

// YouTube locates a series' playlist.
type YouTube struct {
	PlaylistID    string `json:"playlist_id,omitempty"`
	PlaylistQuery string `json:"playlist_query,omitempty"`
}

// Series is one configured content series.
type Series struct {
	Slug         string  `json:"slug"`
	Title        string  `json:"title,omitempty"`
	Description  string  `json:"description,omitempty"`
	YouTube      YouTube `json:"youtube"`
	MetadataFile string  `json:"metadata_file,omitempty"`
}

// Query is the playlist discovery query: the configured one, else the title.
func (s Series) Query() string {
	if s.YouTube.PlaylistQuery != "" {
		return s.YouTube.PlaylistQuery
	}
	return s.Title
}

// Config is the parsed series.json.
type Config struct {
	Default string   `json:"default,omitempty"`
	Series  []Series `json:"series"`
}

// DefaultConfig is used when the project has no series.json.
func DefaultConfig() *Config {
	return &Config{
		Default: DefaultSlug,
		Series: []Series{{
			Slug:        DefaultSlug,
			Title:       "YC AI Startup School",
			Description: "Talks from Y Combinator's AI Startup School",
			YouTube:     YouTube{PlaylistQuery: "YC AI Startup School"},
		}},
	}
}

// FindRoot resolves the project root: home when it exists, else the first
// directory from cwd upward holding config/series.json, else cwd.
func FindRoot(home string) string {
	if home != "" {
		if abs, err := filepath.Abs(expandHome(home)); err == nil {
			if _, err := os.Stat(abs); err == nil {
				return abs
			}
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	for dir := cwd; ; dir = filepath.Dir(dir) {
		if _, err := os.Stat(filepath.Join(dir, ConfigFile)); err == nil {
			return dir
		}
		if parent := filepath.Dir(dir); parent == dir {
			break
		}
	}
	return cwd
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, p[2:])
	}
	return p
}

// Load reads root/config/series.json. Series without a title get one
// derived from the slug.
func Load(root string) (*Config, error) {
	path := filepath.Join(root, ConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("missing config file %s: %w", path, err)
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(c.Series) == 0 {
		return nil, errors.New("no series defined in config")
	}
	for i := range c.Series {
		if c.Series[i].Slug == "" {
			return nil, fmt.Errorf("series #%d has no slug", i+1)
		}
		if c.Series[i].Title == "" {
			c.Series[i].Title = titleFromSlug(c.Series[i].Slug)
		}
	}
	return &c, nil
}

// LoadOrDefault loads the config, falling back to DefaultConfig when the
// file does not exist.
func LoadOrDefault(root string) (*Config, error) {
	c, err := Load(root)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return c, err
}

func titleFromSlug(slug string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
}

// Get returns the series named slug. An empty slug selects the configured
// default, else the first series.
func (c *Config) Get(slug string) (Series, error) {
	if slug == "" {
		slug = c.Default
	}
	if slug == "" && len(c.Series) > 0 {
		return c.Series[0], nil
	}
	for _, s := range c.Series {
		if s.Slug == slug {
			return s, nil
		}
	}
	return Series{}, fmt.Errorf("unknown series slug %q", slug)
}

// List returns the series sorted by slug.
func (c *Config) List() []Series {
	out := append([]Series(nil), c.Series...)
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

// Paths are the filesystem locations of one series.
type Paths struct {
	Slug         string
	DataDir      string
	SubsDir      string
	VideosPath   string
	TalksPath    string
	ContentDir   string
	BuildDir     string
	BookPath     string
	MetadataPath string // "" when the series has no metadata file
}

// Paths lays the series out under root.
func (s Series) Paths(root string) Paths {
	data := filepath.Join(root, "data", s.Slug)
	build := filepath.Join(root, "build", s.Slug)
	p := Paths{
		Slug:       s.Slug,
		DataDir:    data,
		SubsDir:    filepath.Join(data, "subs"),
		VideosPath: filepath.Join(data, "videos.json"),
		TalksPath:  filepath.Join(data, "talks.json"),
		ContentDir: filepath.Join(root, "content", s.Slug),
		BuildDir:   build,
		BookPath:   filepath.Join(build, "book.md"),
	}
	if s.MetadataFile != "" {
		if filepath.IsAbs(s.MetadataFile) {
			p.MetadataPath = s.MetadataFile
		} else {
			p.MetadataPath = filepath.Join(root, s.MetadataFile)
		}
	}
	return p
}

// Ensure creates the series directories.
func (p Paths) Ensure() error {
	for _, dir := range []string{p.DataDir, p.SubsDir, p.ContentDir, p.BuildDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
