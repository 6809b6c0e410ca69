package browser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_ebook/internal/captions"
	"github.com/anatolykoptev/go_ebook/internal/engine"
)

func TestCookieParams(t *testing.T) {
	params := CookieParams([]engine.Cookie{
		{Domain: ".youtube.com", Path: "", Secure: true, Expires: 1999999999, Name: "SID", Value: "abc"},
		{Domain: "www.youtube.com", Path: "/watch", Name: "PREF", Value: "hl=en"},
	})
	require.Len(t, params, 2)
	assert.Equal(t, "youtube.com", params[0].Domain)
	assert.Equal(t, "/", params[0].Path)
	assert.True(t, params[0].Secure)
	assert.EqualValues(t, 1999999999, params[0].Expires)
	assert.Equal(t, "www.youtube.com", params[1].Domain)
	assert.Equal(t, "/watch", params[1].Path)
	assert.EqualValues(t, 0, params[1].Expires)
}

func TestSplitPanelText(t *testing.T) {
	got := SplitPanelText("0:01\n  hello there \n\n12:34\n1:02:03\nlast line")
	assert.Equal(t, []string{"hello there", "last line"}, got)
}

func TestPanelLines(t *testing.T) {
	html := `<html><body><ytd-transcript-segments-renderer>
<ytd-transcript-segment-renderer><div class="segment-timestamp">0:00</div>
<yt-formatted-string class="segment-text">welcome everyone</yt-formatted-string></ytd-transcript-segment-renderer>
<ytd-transcript-segment-renderer><div>0:04</div>
<div>to the talk</div></ytd-transcript-segment-renderer>
<ytd-transcript-segment-renderer><div class="segment-text">  </div></ytd-transcript-segment-renderer>
</ytd-transcript-segments-renderer></body></html>`
	lines, err := PanelLines(html)
	require.NoError(t, err)
	assert.Equal(t, []string{"welcome everyone", "to the talk"}, lines)
	assert.Equal(t, "welcome everyone to the talk\n", captions.MergeLines(lines))
}

func TestWithFormat(t *testing.T) {
	got := withFormat("https://www.youtube.com/api/timedtext?v=x&fmt=srv3", "json3")
	assert.True(t, strings.Contains(got, "fmt=json3"))
	assert.False(t, strings.Contains(got, "srv3"))
}

func TestTrimLeadingDot(t *testing.T) {
	assert.Equal(t, "youtube.com", trimLeadingDot("..youtube.com"))
	assert.Equal(t, "", trimLeadingDot(""))
}
