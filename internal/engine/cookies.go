package engine

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
)

// Cookie is one entry of a Netscape cookies.txt file.
type Cookie struct {
	Domain  string
	Path    string
	Secure  bool
	Expires int64 // unix seconds, 0 = session
	Name    string
	Value   string
}

// ParseNetscapeCookies reads a cookies.txt export. Lines are tab separated
// (domain, flag, path, secure, expiry, name, value); whitespace separation is
// accepted as a fallback. #HttpOnly_ entries are kept; other comments, blank
// lines and short lines are skipped, which drops rows whose value is empty.
func ParseNetscapeCookies(r io.Reader) ([]Cookie, error) {
	var out []Cookie
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		line = strings.TrimPrefix(line, "#HttpOnly_")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 7 {
			parts = strings.Fields(line)
			if len(parts) < 7 {
				continue
			}
		}
		c := Cookie{
			Domain: parts[0],
			Path:   parts[2],
			Secure: strings.EqualFold(parts[3], "TRUE"),
			Name:   parts[5],
			Value:  parts[6],
		}
		if c.Name == "" {
			continue
		}
		if c.Path == "" {
			c.Path = "/"
		}
		if exp, err := strconv.ParseInt(parts[4], 10, 64); err == nil {
			c.Expires = exp
		}
		out = append(out, c)
	}
	return out, sc.Err()
}

// LoadNetscapeCookies parses the cookies.txt file at path.
func LoadNetscapeCookies(path string) ([]Cookie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseNetscapeCookies(f)
}

// CookieHeader renders cookies as a Cookie header value. Empty values are
// skipped; a repeated name keeps its first position and takes the last value.
func CookieHeader(cookies []Cookie) string {
	var order []string
	vals := make(map[string]string, len(cookies))
	for _, c := range cookies {
		if c.Value == "" {
			continue
		}
		if _, ok := vals[c.Name]; !ok {
			order = append(order, c.Name)
		}
		vals[c.Name] = c.Value
	}
	parts := make([]string, 0, len(order))
	for _, name := range order {
		parts = append(parts, name+"="+vals[name])
	}
	return strings.Join(parts, "; ")
}

// CookieHeaderFromFile loads path and renders its cookies as a header.
// A missing or unreadable file yields "".
func CookieHeaderFromFile(path string) string {
	if path == "" {
		return ""
	}
	cookies, err := LoadNetscapeCookies(path)
	if err != nil {
		return ""
	}
	return CookieHeader(cookies)
}
