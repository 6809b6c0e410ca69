// Package pipeline sequences playlist resolution, video listing and
// transcript acquisition into persisted talk records.
package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/anatolykoptev/go_ebook/internal/engine/youtube"
)

// DefaultSeriesTitle labels talk collections written without a series title.
const DefaultSeriesTitle = "YC AI Startup School"

// TalkRecord is one talk with its normalized transcript.
type TalkRecord struct {
	Speaker    string `json:"speaker"`
	Title      string `json:"title"`
	Date       string `json:"date"`
	SourceURL  string `json:"source_url"`
	Transcript string `json:"transcript"`
}

// TalkCollection is the talks.json document.
type TalkCollection struct {
	Series string       `json:"series"`
	Talks  []TalkRecord `json:"talks"`
}

// VideoList is the videos.json manifest.
type VideoList struct {
	PlaylistID string             `json:"playlist_id"`
	Series     string             `json:"series,omitempty"`
	Videos     []youtube.VideoRef `json:"videos"`
}

// LoadTalks reads a talks.json file.
func LoadTalks(path string) (*TalkCollection, error) {
	var c TalkCollection
	if err := readJSON(path, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveTalks writes c to path, creating parent directories.
func SaveTalks(path string, c *TalkCollection) error {
	if c.Talks == nil {
		c.Talks = []TalkRecord{}
	}
	return writeJSON(path, c)
}

// LoadVideos reads a videos.json manifest.
func LoadVideos(path string) (*VideoList, error) {
	var v VideoList
	if err := readJSON(path, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// SaveVideos writes the manifest to path.
func SaveVideos(path string, v *VideoList) error {
	if v.Videos == nil {
		v.Videos = []youtube.VideoRef{}
	}
	return writeJSON(path, v)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// writeJSON writes indented JSON without HTML escaping through a temp file
// renamed into place.
func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
