package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"scribe/internal/core/videoid"
)

const testVideo = videoid.ID("dQw4w9WgXcQ")

func TestRapidAPI_NotConfigured(t *testing.T) {
	t.Parallel()

	p := NewRapidAPI(RapidAPIOptions{})
	res := p.Fetch(context.Background(), testVideo, "en")
	if res.OK() {
		t.Fatal("expected failure without a key")
	}
	if res.Reason != ReasonNotConfigured {
		t.Fatalf("reason = %q want %q", res.Reason, ReasonNotConfigured)
	}
}

func TestRapidAPI_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transcript" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("video_id"); got != testVideo.String() {
			t.Errorf("video_id = %q", got)
		}
		if got := r.Header.Get("x-rapidapi-key"); got != "k" {
			t.Errorf("x-rapidapi-key = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"transcription":[
			{"subtitle":"hello","start":0,"dur":1.5},
			{"subtitle":"world","start":"1.6","dur":"2"},
			{"subtitle":"broken","start":"x","dur":1}
		]}]`))
	}))
	defer srv.Close()

	p := NewRapidAPI(RapidAPIOptions{BaseURL: srv.URL, Key: "k"})
	res := p.Fetch(context.Background(), testVideo, "en")
	if !res.OK() {
		t.Fatalf("expected success, got reason %q", res.Reason)
	}
	if len(res.Snippets) != 2 {
		t.Fatalf("snippets = %d want 2 (malformed entry dropped)", len(res.Snippets))
	}
	if res.Snippets[0].Text != "hello" || res.Snippets[1].Start != 1.6 {
		t.Fatalf("unexpected snippets %#v", res.Snippets)
	}
	if res.Language != "en" {
		t.Fatalf("language = %q want en", res.Language)
	}
}

func TestRapidAPI_UpstreamErrorPayload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message":"quota exhausted"}`))
	}))
	defer srv.Close()

	p := NewRapidAPI(RapidAPIOptions{BaseURL: srv.URL, Key: "k"})
	res := p.Fetch(context.Background(), testVideo, "en")
	if res.OK() {
		t.Fatal("expected failure")
	}
	if res.Reason == "" {
		t.Fatal("expected reason")
	}
}

func TestRapidAPI_EmptyList(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"transcription":[]}]`))
	}))
	defer srv.Close()

	p := NewRapidAPI(RapidAPIOptions{BaseURL: srv.URL, Key: "k"})
	res := p.Fetch(context.Background(), testVideo, "en")
	if res.Reason != ReasonEmpty {
		t.Fatalf("reason = %q want %q", res.Reason, ReasonEmpty)
	}
}

func TestRapidAPI_GarbageShape(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>definitely not json</html>`))
	}))
	defer srv.Close()

	p := NewRapidAPI(RapidAPIOptions{BaseURL: srv.URL, Key: "k"})
	res := p.Fetch(context.Background(), testVideo, "en")
	if res.OK() {
		t.Fatal("expected failure on garbage shape")
	}
}

func TestRapidAPI_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	p := NewRapidAPI(RapidAPIOptions{BaseURL: srv.URL, Key: "k", Timeout: 50 * time.Millisecond})
	res := p.Fetch(context.Background(), testVideo, "en")
	if res.Reason != ReasonTimeout {
		t.Fatalf("reason = %q want %q", res.Reason, ReasonTimeout)
	}
}
