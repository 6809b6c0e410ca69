package captions

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// vttScore ranks downloaded subtitle files by language suffix.
func vttScore(name string) int {
	switch {
	case strings.HasSuffix(name, ".en.vtt"):
		return 3
	case strings.HasSuffix(name, ".en-US.vtt"), strings.HasSuffix(name, ".en-GB.vtt"):
		return 2
	}
	return 1
}

// FindVTT returns the best .vtt file in dir for videoID, or "" when none
// exists. Files are named "<id>.<lang>.vtt" by the downloader.
func FindVTT(dir, videoID string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var cands []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ".vtt") {
			continue
		}
		if !strings.HasPrefix(name, videoID+".") {
			continue
		}
		cands = append(cands, name)
	}
	if len(cands) == 0 {
		return ""
	}
	sort.Strings(cands)
	sort.SliceStable(cands, func(i, j int) bool { return vttScore(cands[i]) > vttScore(cands[j]) })
	return filepath.Join(dir, cands[0])
}

// ReadVTT loads and normalizes a subtitle file.
func ReadVTT(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return FromVTT(strings.ToValidUTF8(string(data), "�")), nil
}
