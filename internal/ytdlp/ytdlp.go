// Package ytdlp drives the external yt-dlp binary for caption downloads and
// video metadata.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
)

// ErrNotFound is returned when no yt-dlp binary can be located.
var ErrNotFound = errors.New("yt-dlp not found; install it or set YTDLP")

// SubLangs are the caption languages requested from yt-dlp.
const SubLangs = "en,en-US,en-GB"

// extractorArgs selects player clients that still expose captions.
const extractorArgs = "youtube:player_client=web,web_creator,ios|njsig"

// runTimeout bounds a single yt-dlp invocation.
const runTimeout = 3 * time.Minute

// fallbackPaths are checked after $PATH.
var fallbackPaths = []string{
	".venv/bin/yt-dlp",
	"~/Library/Python/3.9/bin/yt-dlp",
	"/opt/homebrew/bin/yt-dlp",
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// FindBinary locates yt-dlp: $YTDLP or $YT_DLP, then $PATH, then a few
// well-known install locations.
func FindBinary() (string, bool) {
	for _, key := range []string{"YTDLP", "YT_DLP"} {
		if v := env.Str(key, ""); v != "" {
			if p := expandHome(v); exists(p) {
				return p, true
			}
		}
	}
	for _, name := range []string{"yt-dlp", "yt_dlp"} {
		if p, err := exec.LookPath(name); err == nil {
			return p, true
		}
	}
	for _, p := range fallbackPaths {
		if p = expandHome(p); exists(p) {
			return p, true
		}
	}
	return "", false
}

// Runner invokes yt-dlp with optional credentials. Cookies (a Netscape
// cookies.txt path) wins over Browser (--cookies-from-browser).
type Runner struct {
	Binary  string
	Cookies string
	Browser string
}

// New returns a runner for the discovered binary.
func New(cookies, browser string) (*Runner, error) {
	bin, ok := FindBinary()
	if !ok {
		return nil, ErrNotFound
	}
	return &Runner{Binary: bin, Cookies: cookies, Browser: browser}, nil
}

func (r *Runner) credentialArgs() []string {
	switch {
	case r.Cookies != "":
		return []string{"--cookies", r.Cookies}
	case r.Browser != "":
		return []string{"--cookies-from-browser", r.Browser}
	}
	return nil
}

func (r *Runner) run(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	slog.Debug("yt-dlp", slog.String("args", strings.Join(args, " ")))
	cmd := exec.CommandContext(ctx, r.Binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return stdout.Bytes(), fmt.Errorf("yt-dlp: %s", msg)
	}
	return stdout.Bytes(), nil
}

// DownloadCaptions writes the video's English VTT captions into dir as
// "<id>.<lang>.vtt" and returns the caption files found there for videoID.
func (r *Runner) DownloadCaptions(ctx context.Context, videoID, videoURL, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	args := []string{
		"--skip-download",
		"--write-auto-sub",
		"--write-sub",
		"--sub-lang", SubLangs,
		"--sub-format", "vtt",
		"--extractor-args", extractorArgs,
		"-o", filepath.Join(dir, "%(id)s.%(ext)s"),
		"--ignore-no-formats-error",
	}
	args = append(args, r.credentialArgs()...)
	args = append(args, videoURL)
	if _, err := r.run(ctx, args...); err != nil {
		return nil, err
	}
	return captionFiles(dir, videoID), nil
}

func captionFiles(dir, videoID string) []string {
	matches, _ := filepath.Glob(filepath.Join(dir, videoID+".*vtt"))
	return matches
}

// Metadata is the part of `yt-dlp -J` output the pipeline uses.
type Metadata struct {
	Title      string     `json:"title"`
	UploadDate string     `json:"upload_date"`
	WebpageURL string     `json:"webpage_url"`
	Entries    []Metadata `json:"entries"`
}

// trailingObjectRe finds the JSON document at the end of the output, after
// any warnings yt-dlp printed first.
var trailingObjectRe = regexp.MustCompile(`(?s)\{.*\}\s*$`)

// Metadata runs `yt-dlp -J` for videoURL. A playlist result yields its
// first entry.
func (r *Runner) Metadata(ctx context.Context, videoURL string) (Metadata, error) {
	args := append([]string{"--skip-download", "-J", videoURL}, r.credentialArgs()...)
	out, err := r.run(ctx, args...)
	if err != nil {
		return Metadata{}, err
	}
	return parseMetadata(out)
}

func parseMetadata(out []byte) (Metadata, error) {
	if m := trailingObjectRe.Find(out); m != nil {
		out = m
	}
	var meta Metadata
	if err := json.Unmarshal(out, &meta); err != nil {
		return Metadata{}, fmt.Errorf("decode yt-dlp json: %w", err)
	}
	if len(meta.Entries) > 0 {
		return meta.Entries[0], nil
	}
	return meta, nil
}

var compactDateRe = regexp.MustCompile(`^\d{8}$`)

// NormalizeDate converts yt-dlp's YYYYMMDD upload_date to YYYY-MM-DD.
func NormalizeDate(yyyymmdd string) (string, bool) {
	if !compactDateRe.MatchString(yyyymmdd) {
		return "", false
	}
	t, err := time.Parse("20060102", yyyymmdd)
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}
