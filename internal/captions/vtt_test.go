package captions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromVTT(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "header and timings stripped",
			in: "WEBVTT\nKind: captions\nLanguage: en\n\n1\n00:00:01.000 --> 00:00:02.000\nHello world\n\n2\n00:00:02.000 --> 00:00:03.000\nsecond line\n",
			want: "Hello world second line\n",
		},
		{
			name: "consecutive duplicates",
			in:   "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nsame line\n\n00:00:02.000 --> 00:00:03.000\nsame line\n",
			want: "same line\n",
		},
		{
			name: "rolling caption extension replaces",
			in:   "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nHello\n\n00:00:02.000 --> 00:00:03.000\nHello world\n",
			want: "Hello world\n",
		},
		{
			name: "prefix of buffered fragment dropped",
			in:   "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nHello world\n\n00:00:02.000 --> 00:00:03.000\nHello\n",
			want: "Hello world\n",
		},
		{
			name: "short extension appended",
			in:   "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nHello\n\n00:00:02.000 --> 00:00:03.000\nHello!!\n",
			want: "Hello Hello!!\n",
		},
		{
			name: "noise and tags",
			in:   "WEBVTT\n\n00:00:01.000 --> 00:00:02.000 align:start position:0%\n<i>we</i> ship [Music] it [APPLAUSE here]\n",
			want: "we ship it\n",
		},
		{
			name: "karaoke lines skipped",
			in:   "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nwe<00:00:01.500><c> ship</c>\nwe ship\n",
			want: "we ship\n",
		},
		{
			name: "seen in paragraph",
			in:   "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nalpha\nbeta\nalpha\n",
			want: "alpha beta\n",
		},
		{
			name: "note lines",
			in:   "WEBVTT\nNOTE generated\n\n00:00:01.000 --> 00:00:02.000\nok\n",
			want: "ok\n",
		},
		{
			name: "crlf",
			in:   "WEBVTT\r\n\r\n00:00:01.000 --> 00:00:02.000\r\nwindows line\r\n",
			want: "windows line\n",
		},
		{
			name: "empty",
			in:   "WEBVTT\n\n",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromVTT(tt.in))
		})
	}
}

func TestFromVTT_CapClearsSeen(t *testing.T) {
	long := strings.Repeat("y", 801)
	in := "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nrepeat\n" + long + "\nrepeat\n"
	got := FromVTT(in)
	assert.Equal(t, "repeat "+long+"\n\nrepeat\n", got)
}
