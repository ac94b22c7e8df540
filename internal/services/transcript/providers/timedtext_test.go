package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// watchPage builds a minimal watch page embedding a caption track list
// whose track URLs point back at the given base
func watchPage(base string) string {
	return fmt.Sprintf(`<html><script>var ytInitialPlayerResponse = {"captions":`+
		`{"playerCaptionsTracklistRenderer":{"captionTracks":[`+
		`{"baseUrl":"%s/api/timedtext?lang=en","languageCode":"en","kind":""},`+
		`{"baseUrl":"%s/api/timedtext?lang=en&kind=asr","languageCode":"en","kind":"asr"}`+
		`]}},"videoDetails":{"videoId":"x"}};</script></html>`, base, base)
}

func TestTimedText_Success(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/watch":
			fmt.Fprint(w, watchPage(srv.URL))
		case "/api/timedtext":
			if r.URL.Query().Get("kind") == "asr" {
				t.Errorf("manual track should win over asr")
			}
			fmt.Fprint(w, `<?xml version="1.0"?><transcript>`+
				`<text start="0" dur="1.5">hello &amp;amp; hi</text>`+
				`<text start="1.6" dur="2">world</text>`+
				`<text start="bad" dur="2">dropped</text>`+
				`</transcript>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewTimedText(TimedTextOptions{BaseURL: srv.URL})
	res := p.Fetch(context.Background(), testVideo, "en")
	if !res.OK() {
		t.Fatalf("expected success, got reason %q", res.Reason)
	}
	if len(res.Snippets) != 2 {
		t.Fatalf("snippets = %d want 2", len(res.Snippets))
	}
	if res.Snippets[0].Text != "hello &amp;amp; hi" {
		t.Fatalf("adapter must not decode entities, got %q", res.Snippets[0].Text)
	}
	if res.Language != "en" {
		t.Fatalf("language = %q want en", res.Language)
	}
}

func TestTimedText_NoCaptionsBlob(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>plain watch page, nothing embedded</html>`)
	}))
	defer srv.Close()

	p := NewTimedText(TimedTextOptions{BaseURL: srv.URL})
	res := p.Fetch(context.Background(), testVideo, "en")
	if res.OK() {
		t.Fatal("expected failure")
	}
	if res.Reason != "no captions on watch page" {
		t.Fatalf("reason = %q", res.Reason)
	}
}

func TestTimedText_EmptyTrackXML(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/watch":
			fmt.Fprint(w, watchPage(srv.URL))
		case "/api/timedtext":
			fmt.Fprint(w, `<?xml version="1.0"?><transcript></transcript>`)
		}
	}))
	defer srv.Close()

	p := NewTimedText(TimedTextOptions{BaseURL: srv.URL})
	res := p.Fetch(context.Background(), testVideo, "en")
	if res.Reason != ReasonEmpty {
		t.Fatalf("reason = %q want %q", res.Reason, ReasonEmpty)
	}
}

func TestTimedText_WatchPageStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewTimedText(TimedTextOptions{BaseURL: srv.URL})
	res := p.Fetch(context.Background(), testVideo, "en")
	if res.OK() {
		t.Fatal("expected failure")
	}
	if res.Reason != "watch page status 503" {
		t.Fatalf("reason = %q", res.Reason)
	}
}

func TestTimedText_ContextCancelled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewTimedText(TimedTextOptions{BaseURL: srv.URL})
	res := p.Fetch(ctx, testVideo, "en")
	if res.OK() {
		t.Fatal("expected failure on cancelled context")
	}
}
