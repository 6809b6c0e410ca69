// Package youtube scrapes YouTube pages and endpoints: embedded page JSON,
// playlist discovery and listing, caption tracks and the transcript
// fallback chain.
package youtube

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Anchors that precede the embedded page JSON, tried in order.
var (
	initialDataAnchors = []string{
		"ytInitialData = ",
		"var ytInitialData = ",
		`>ytInitialData"`,
	}
	playerResponseAnchors = []string{
		"ytInitialPlayerResponse = ",
		"var ytInitialPlayerResponse = ",
		`"ytInitialPlayerResponse":`,
	}
)

// bracedObject returns the balanced {...} text that starts at the first '{'
// at or after from. Braces inside JSON strings are not special-cased.
func bracedObject(src string, from int) (string, bool) {
	open := strings.IndexByte(src[from:], '{')
	if open < 0 {
		return "", false
	}
	start := from + open
	depth := 0
	for i := start; i < len(src); i++ {
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return src[start : i+1], true
			}
		}
	}
	return "", false
}

func decodeObject(raw string) (map[string]any, bool) {
	var o map[string]any
	if err := json.Unmarshal([]byte(raw), &o); err != nil || o == nil {
		return nil, false
	}
	return o, true
}

// ExtractJSON returns the object text that follows the first occurrence of
// anchor in page. It returns nil when the anchor is missing, the braces never
// balance or the text is not valid JSON.
func ExtractJSON(page, anchor string) json.RawMessage {
	idx := strings.Index(page, anchor)
	if idx < 0 {
		return nil
	}
	raw, ok := bracedObject(page, idx+len(anchor))
	if !ok || !json.Valid([]byte(raw)) {
		return nil
	}
	return json.RawMessage(raw)
}

// InitialData returns the page's ytInitialData object, or nil.
func InitialData(page string) json.RawMessage {
	for _, a := range initialDataAnchors {
		if raw := ExtractJSON(page, a); raw != nil {
			return raw
		}
	}
	return nil
}

// PlayerResponse returns the watch page's player response. Pages can embed
// several objects behind the same anchor, so every occurrence is tried until
// one carries videoDetails or captions.
func PlayerResponse(page string) map[string]any {
	for _, a := range playerResponseAnchors {
		for start := 0; ; {
			idx := strings.Index(page[start:], a)
			if idx < 0 {
				break
			}
			idx += start
			if raw, ok := bracedObject(page, idx+len(a)); ok {
				if o, ok := decodeObject(raw); ok {
					_, hasDetails := o["videoDetails"]
					_, hasCaptions := o["captions"]
					if hasDetails || hasCaptions {
						return o
					}
				}
			}
			start = idx + len(a)
		}
	}
	return nil
}

// FindObjects collects every object stored under key anywhere in raw, in
// document order. A matching object is also searched for nested matches.
// Malformed input yields whatever was found before the error.
func FindObjects(raw json.RawMessage, key string) []map[string]any {
	var out []map[string]any
	scanObjects(raw, key, &out)
	return out
}

func scanObjects(raw []byte, key string, out *[]map[string]any) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	_ = walkValue(dec, key, out)
}

// walkValue consumes exactly one JSON value from dec.
func walkValue(dec *json.Decoder, key string, out *[]map[string]any) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}
	switch delim {
	case '{':
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return err
			}
			if k, _ := kt.(string); k == key {
				var sub json.RawMessage
				if err := dec.Decode(&sub); err != nil {
					return err
				}
				var m map[string]any
				if json.Unmarshal(sub, &m) == nil && m != nil {
					*out = append(*out, m)
				}
				scanObjects(sub, key, out)
				continue
			}
			if err := walkValue(dec, key, out); err != nil {
				return err
			}
		}
	case '[':
		for dec.More() {
			if err := walkValue(dec, key, out); err != nil {
				return err
			}
		}
	}
	_, err = dec.Token() // closing delimiter
	return err
}

// TextFromRuns renders a YouTube text node: simpleText when present, else
// the concatenated runs.
func TextFromRuns(node any) string {
	m, ok := node.(map[string]any)
	if !ok {
		return ""
	}
	if s, ok := m["simpleText"].(string); ok {
		return s
	}
	runs, _ := m["runs"].([]any)
	var sb strings.Builder
	for _, r := range runs {
		if rm, ok := r.(map[string]any); ok {
			if s, ok := rm["text"].(string); ok {
				sb.WriteString(s)
			}
		}
	}
	return sb.String()
}

// str reads a string field from a decoded JSON object.
func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// obj reads a nested object field, returning nil when absent.
func obj(m map[string]any, key string) map[string]any {
	o, _ := m[key].(map[string]any)
	return o
}
