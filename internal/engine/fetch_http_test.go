package engine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func initTestEngine(t *testing.T) {
	t.Helper()
	Init(Config{FetchRetries: 3, FetchBackoff: time.Millisecond, UserAgent: "test-agent"})
	t.Cleanup(func() { Init(Config{}) })
}

func TestGetRetriesRetryableStatus(t *testing.T) {
	initTestEngine(t)
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	data, err := Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != "ok" {
		t.Errorf("body = %q, want ok", data)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestGetPermanentStatus(t *testing.T) {
	initTestEngine(t)
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Get(context.Background(), srv.URL)
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Fatalf("err = %v, want StatusError 404", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (404 is not retried)", calls.Load())
	}
}

func TestGetGivesUpAfterRetries(t *testing.T) {
	initTestEngine(t)
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if _, err := Get(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestGetForwardsHeaders(t *testing.T) {
	initTestEngine(t)
	cfg.CookieHeader = "CONSENT=YES+1"
	var gotUA, gotCookie, gotExtra string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotCookie = r.Header.Get("Cookie")
		gotExtra = r.Header.Get("X-Test")
	}))
	defer srv.Close()

	if _, err := Get(context.Background(), srv.URL, WithHeader("X-Test", "1")); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotUA != "test-agent" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if gotCookie != "CONSENT=YES+1" {
		t.Errorf("Cookie = %q", gotCookie)
	}
	if gotExtra != "1" {
		t.Errorf("X-Test = %q", gotExtra)
	}

	if _, err := Get(context.Background(), srv.URL, WithCookie("SID=abc")); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotCookie != "SID=abc" {
		t.Errorf("per-request Cookie = %q, want SID=abc", gotCookie)
	}
}

func TestPostJSON(t *testing.T) {
	initTestEngine(t)
	var gotType, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		gotMethod = r.Method
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	data, err := PostJSON(context.Background(), srv.URL, map[string]string{"videoId": "abc"})
	if err != nil {
		t.Fatalf("PostJSON: %v", err)
	}
	if gotMethod != http.MethodPost || gotType != "application/json" {
		t.Errorf("method=%s content-type=%s", gotMethod, gotType)
	}
	if string(data) != `{"ok":true}` {
		t.Errorf("body = %s", data)
	}
}

func TestGetCanceledContext(t *testing.T) {
	initTestEngine(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Get(ctx, srv.URL); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
