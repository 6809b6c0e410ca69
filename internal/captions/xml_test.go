package captions

import (
	"strconv"
	"strings"
	"testing"
)

func TestFromTimedXML_SingleParagraph(t *testing.T) {
	doc := `<?xml version="1.0" encoding="utf-8" ?><transcript>` +
		`<text start="0" dur="1.5">hello there</text>` +
		`<text start="1.6" dur="2">general &amp;#39;kenobi&amp;#39;</text>` +
		`<text start="3.7" dur="1">you are
a bold one</text>` +
		`</transcript>`

	got := FromTimedXML(doc)
	want := "hello there general 'kenobi' you are a bold one\n"
	if got != want {
		t.Errorf("FromTimedXML() = %q, want %q", got, want)
	}
}

func TestFromTimedXML_GapSplit(t *testing.T) {
	doc := `<transcript>` +
		`<text start="0" dur="1">first</text>` +
		`<text start="1" dur="1">second</text>` +
		`<text start="5.6" dur="1">third</text>` +
		`</transcript>`

	got := FromTimedXML(doc)
	want := "first second\n\nthird\n"
	if got != want {
		t.Errorf("FromTimedXML() = %q, want %q", got, want)
	}
}

func TestFromTimedXML_GapBoundary(t *testing.T) {
	// 2.5s exactly does not split.
	doc := `<transcript><text start="0" dur="1">a</text><text start="3.5" dur="1">b</text></transcript>`
	if got := FromTimedXML(doc); got != "a b\n" {
		t.Errorf("FromTimedXML() = %q, want %q", got, "a b\n")
	}
}

func TestFromTimedXML_SortsByStart(t *testing.T) {
	doc := `<transcript><text start="2" dur="1">later</text><text start="0" dur="2">early</text></transcript>`
	if got := FromTimedXML(doc); got != "early later\n" {
		t.Errorf("FromTimedXML() = %q", got)
	}
}

func TestFromTimedXML_DefaultDuration(t *testing.T) {
	// No dur: node ends at start+2, so a cue at 4.4 is within the gap.
	doc := `<transcript><text start="0">a</text><text start="4.4" dur="1">b</text><text start="8" dur="1">c</text></transcript>`
	if got := FromTimedXML(doc); got != "a b\n\nc\n" {
		t.Errorf("FromTimedXML() = %q", got)
	}
}

func TestFromTimedXML_Invalid(t *testing.T) {
	tests := []string{"", "not xml at all <", "<transcript></transcript>", `<transcript><text start="0">   </text></transcript>`}
	for _, in := range tests {
		if got := FromTimedXML(in); got != "" {
			t.Errorf("FromTimedXML(%q) = %q, want empty", in, got)
		}
	}
}

func TestFromTimedXML_SoftCap(t *testing.T) {
	word := strings.Repeat("x", 99)
	var sb strings.Builder
	sb.WriteString("<transcript>")
	for i := 0; i < 20; i++ {
		sb.WriteString(`<text start="` + strconv.Itoa(i) + `" dur="1">` + word + `</text>`)
	}
	sb.WriteString("</transcript>")

	got := FromTimedXML(sb.String())
	paras := strings.Split(strings.TrimSuffix(got, "\n"), "\n\n")
	if len(paras) < 2 {
		t.Fatalf("expected cap to split, got %d paragraphs", len(paras))
	}
	for i, p := range paras {
		if len(p) > MaxParagraphChars+len(word)+1 {
			t.Errorf("paragraph %d has %d chars, over soft cap", i, len(p))
		}
	}
	// 9 words of 99 chars + 8 spaces = 899 > 800, flushed after the ninth.
	if n := len(strings.Fields(paras[0])); n != 9 {
		t.Errorf("first paragraph has %d fragments, want 9", n)
	}
}

func TestLooksLikeTimedXML(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{`  <transcript><text start="0">hi</text></transcript>`, true},
		{`<transcript></transcript>`, false},
		{`<?xml version="1.0"?><transcript><text>x</text></transcript>`, true},
		{"<?xml version=\"1.0\" encoding=\"utf-8\" ?>\n<transcript><text start=\"1\">x</text></transcript>", true},
		{`<?xml version="1.0"?><html><text>x</text></html>`, false},
		{`<?xml version="1.0"`, false},
		{`<html><text>`, false},
	}
	for _, tt := range tests {
		if got := LooksLikeTimedXML(tt.in); got != tt.want {
			t.Errorf("LooksLikeTimedXML(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
