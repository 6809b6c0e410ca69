package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCookies = "# Netscape HTTP Cookie File\n" +
	"\n" +
	".youtube.com\tTRUE\t/\tTRUE\t1999999999\tSID\tabc\n" +
	"#HttpOnly_.youtube.com\tTRUE\t/\tTRUE\t0\tHSID\tdef\n" +
	".youtube.com TRUE / FALSE 0 PREF hl=en\n" +
	"short\tline\n" +
	".youtube.com\tTRUE\t/\tFALSE\t0\tEMPTY\t\n" +
	".youtube.com\tTRUE\t/\tTRUE\t0\tSID\txyz\n"

func TestParseNetscapeCookies(t *testing.T) {
	cookies, err := ParseNetscapeCookies(strings.NewReader(sampleCookies))
	if err != nil {
		t.Fatalf("ParseNetscapeCookies: %v", err)
	}
	if len(cookies) != 4 {
		t.Fatalf("got %d cookies, want 4: %+v", len(cookies), cookies)
	}
	for _, c := range cookies {
		if c.Name == "EMPTY" {
			t.Errorf("cookie without a value kept: %+v", c)
		}
	}
	first := cookies[0]
	if first.Domain != ".youtube.com" || first.Name != "SID" || !first.Secure || first.Expires != 1999999999 {
		t.Errorf("first cookie = %+v", first)
	}
	if cookies[1].Name != "HSID" {
		t.Errorf("HttpOnly cookie not kept: %+v", cookies[1])
	}
	if cookies[2].Name != "PREF" || cookies[2].Value != "hl=en" || cookies[2].Secure {
		t.Errorf("whitespace-separated cookie = %+v", cookies[2])
	}
}

func TestCookieHeader(t *testing.T) {
	cookies, _ := ParseNetscapeCookies(strings.NewReader(sampleCookies))
	got := CookieHeader(cookies)
	want := "SID=xyz; HSID=def; PREF=hl=en"
	if got != want {
		t.Errorf("CookieHeader = %q, want %q", got, want)
	}
}

func TestCookieHeaderFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.txt")
	if err := os.WriteFile(path, []byte(sampleCookies), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := CookieHeaderFromFile(path); !strings.HasPrefix(got, "SID=xyz") {
		t.Errorf("CookieHeaderFromFile = %q", got)
	}
	if got := CookieHeaderFromFile(filepath.Join(t.TempDir(), "missing.txt")); got != "" {
		t.Errorf("missing file = %q, want empty", got)
	}
	if got := CookieHeaderFromFile(""); got != "" {
		t.Errorf("empty path = %q, want empty", got)
	}
}
