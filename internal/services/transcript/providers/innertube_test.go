package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestInnerTube_Success(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/watch":
			fmt.Fprint(w, watchPage(srv.URL))
		case "/api/timedtext":
			if got := r.URL.Query().Get("fmt"); got != "json3" {
				t.Errorf("fmt = %q want json3", got)
			}
			fmt.Fprint(w, `{"events":[`+
				`{"tStartMs":0,"dDurationMs":1500,"segs":[{"utf8":"hel"},{"utf8":"lo"}]},`+
				`{"tStartMs":1600,"dDurationMs":2000,"segs":[{"utf8":"wor\nld"}]},`+
				`{"tStartMs":9000,"dDurationMs":100}`+
				`]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewInnerTube(InnerTubeOptions{BaseURL: srv.URL})
	res := p.Fetch(context.Background(), testVideo, "en")
	if !res.OK() {
		t.Fatalf("expected success, got reason %q", res.Reason)
	}
	// segless event dropped
	if len(res.Snippets) != 2 {
		t.Fatalf("snippets = %d want 2", len(res.Snippets))
	}
	if res.Snippets[0].Text != "hello" {
		t.Fatalf("segments not joined, got %q", res.Snippets[0].Text)
	}
	if res.Snippets[0].Start != 0 || res.Snippets[0].Dur != 1.5 {
		t.Fatalf("milliseconds not converted, got %+v", res.Snippets[0])
	}
	if res.Snippets[1].Text != "wor ld" {
		t.Fatalf("newlines not flattened, got %q", res.Snippets[1].Text)
	}
}

func TestInnerTube_GarbageBody(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/watch":
			fmt.Fprint(w, watchPage(srv.URL))
		case "/api/timedtext":
			fmt.Fprint(w, `<!doctype html><html>error page</html>`)
		}
	}))
	defer srv.Close()

	p := NewInnerTube(InnerTubeOptions{BaseURL: srv.URL})
	res := p.Fetch(context.Background(), testVideo, "en")
	if res.Reason != "unparseable json3 body" {
		t.Fatalf("reason = %q", res.Reason)
	}
}

func TestInnerTube_NoEvents(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/watch":
			fmt.Fprint(w, watchPage(srv.URL))
		case "/api/timedtext":
			fmt.Fprint(w, `{"events":[]}`)
		}
	}))
	defer srv.Close()

	p := NewInnerTube(InnerTubeOptions{BaseURL: srv.URL})
	res := p.Fetch(context.Background(), testVideo, "en")
	if res.Reason != ReasonEmpty {
		t.Fatalf("reason = %q want %q", res.Reason, ReasonEmpty)
	}
}
