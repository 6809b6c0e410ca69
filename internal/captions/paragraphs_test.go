package captions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromSegments(t *testing.T) {
	segs := []Segment{
		{Text: "intro", Start: 0, Duration: 1},
		{Text: "  ", Start: 1, Duration: 1},
		{Text: "more\ntext", Start: 1.2, Duration: 1},
		{Text: "after pause", Start: 6, Duration: 1},
	}
	assert.Equal(t, "intro more text\n\nafter pause\n", FromSegments(segs))
}

func TestFromSegments_FirstSegmentLate(t *testing.T) {
	// A late first segment never flushes an empty buffer.
	segs := []Segment{{Text: "late", Start: 30, Duration: 1}, {Text: "start", Start: 31, Duration: 1}}
	assert.Equal(t, "late start\n", FromSegments(segs))
}

func TestFromSegments_Empty(t *testing.T) {
	assert.Equal(t, "", FromSegments(nil))
}

func TestJoinParagraphs_CleanRoundTrip(t *testing.T) {
	clean := "An already clean paragraph with   extra  spaces."
	assert.Equal(t, "An already clean paragraph with extra spaces.\n", FromSegments([]Segment{{Text: clean}}))
	assert.Equal(t, "An already clean paragraph with extra spaces.\n", FromVTT("WEBVTT\n\n"+clean+"\n"))
}

func TestMergeLines(t *testing.T) {
	lines := []string{"one", "", "two  three"}
	assert.Equal(t, "one two three\n", MergeLines(lines))

	big := strings.Repeat("z", 500)
	got := MergeLines([]string{big, big, big})
	assert.Equal(t, big+" "+big+"\n\n"+big+"\n", got)
}
