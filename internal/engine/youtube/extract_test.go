package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name   string
		page   string
		anchor string
		want   string
	}{
		{"simple", `x var ytInitialData = {"a":{"b":1}}; y`, "ytInitialData = ", `{"a":{"b":1}}`},
		{"missing anchor", `<html></html>`, "ytInitialData = ", ""},
		{"no brace", `ytInitialData = null`, "ytInitialData = ", ""},
		{"unbalanced", `ytInitialData = {"a":{"b":1}`, "ytInitialData = ", ""},
		{"invalid json", `ytInitialData = {a:1}`, "ytInitialData = ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractJSON(tt.page, tt.anchor)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestExtractJSONBraceInString(t *testing.T) {
	// Braces inside strings are counted; the scan ends early and the
	// truncated text is rejected.
	page := `ytInitialData = {"title":"a } b","x":1};`
	assert.Nil(t, ExtractJSON(page, "ytInitialData = "))
}

func TestInitialDataAnchors(t *testing.T) {
	page := htmlPage(t, "var ytInitialData = ", map[string]any{"k": "v"})
	data := InitialData(page)
	require.NotNil(t, data)
	assert.JSONEq(t, `{"k":"v"}`, string(data))

	assert.Nil(t, InitialData("<html>nothing here</html>"))
}

func TestPlayerResponseSkipsUnrelatedObjects(t *testing.T) {
	page := `<script>var ytInitialPlayerResponse = {"responseContext":{}};</script>` +
		`<script>var ytInitialPlayerResponse = {"videoDetails":{"title":"Real"}};</script>`
	pr := PlayerResponse(page)
	require.NotNil(t, pr)
	assert.Equal(t, "Real", MetaFromPlayer(pr).Title)
}

func TestPlayerResponseQuotedAnchor(t *testing.T) {
	page := `{"ytInitialPlayerResponse":{"captions":{}}}`
	require.NotNil(t, PlayerResponse(page))
	assert.Nil(t, PlayerResponse(`ytInitialPlayerResponse = {"other":1}`))
}

func TestFindObjectsDocumentOrder(t *testing.T) {
	raw := []byte(`{"z":{"item":{"id":"1","item":{"id":"1b"}}},"a":[{"item":{"id":"2"}},{"item":"scalar"}],"m":{"item":{"id":"3"}}}`)
	got := FindObjects(raw, "item")
	ids := make([]string, 0, len(got))
	for _, o := range got {
		ids = append(ids, str(o, "id"))
	}
	assert.Equal(t, []string{"1", "1b", "2", "3"}, ids)
}

func TestFindObjectsMalformed(t *testing.T) {
	got := FindObjects([]byte(`{"item":{"id":"1"},"x":[`), "item")
	assert.Len(t, got, 1)
}

func TestTextFromRuns(t *testing.T) {
	assert.Equal(t, "plain", TextFromRuns(map[string]any{"simpleText": "plain"}))
	assert.Equal(t, "ab", TextFromRuns(map[string]any{"runs": []any{
		map[string]any{"text": "a"}, map[string]any{"bold": true}, map[string]any{"text": "b"},
	}}))
	assert.Equal(t, "", TextFromRuns(nil))
	assert.Equal(t, "", TextFromRuns("string"))
}
