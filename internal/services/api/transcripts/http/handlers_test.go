package http

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	perr "scribe/internal/platform/errors"
	pnet "scribe/internal/platform/net"
	phttp "scribe/internal/platform/net/http"
	kdom "scribe/internal/services/keys/domain"
	tdom "scribe/internal/services/transcript/domain"
)

type fakeResolver struct {
	t       tdom.Transcript
	err     error
	bulk    tdom.BulkResult
	bulkErr error
}

func (f fakeResolver) Resolve(_ context.Context, _ tdom.Request) (tdom.Transcript, error) {
	return f.t, f.err
}

func (f fakeResolver) ResolveBulk(_ context.Context, _ []string, _ string) (tdom.BulkResult, error) {
	return f.bulk, f.bulkErr
}

type fakeGate struct {
	events []kdom.UsageEvent
}

func (f *fakeGate) Admit(_ context.Context, _, _, _ string) (kdom.Key, error) {
	return kdom.Key{ID: "key-1", ClientName: "acme"}, nil
}

func (f *fakeGate) RecordUsage(_ context.Context, ev kdom.UsageEvent) error {
	f.events = append(f.events, ev)
	return nil
}

// serve mounts the handlers on a bare router with an admitted key on the ctx
func serve(t *testing.T, svc tdom.ServicePort, gate kdom.AdmitPort, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := phttp.AdaptChi(chi.NewMux())
	Register(r, svc, gate)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ctx := pnet.WithRequest(req.Context(), "req-1", "key-1")
	ctx = pnet.WithClient(ctx, "acme")
	rr := httptest.NewRecorder()
	r.Mux().ServeHTTP(rr, req.WithContext(ctx))
	return rr
}

func TestFetch_SuccessBillsAndReturnsMethod(t *testing.T) {
	svc := fakeResolver{t: tdom.Transcript{
		VideoID:    "dQw4w9WgXcQ",
		Language:   "en",
		FullText:   "hello there",
		MethodUsed: "timedtext",
	}}
	gate := &fakeGate{}

	rr := serve(t, svc, gate, "POST", "/", `{"video_url":"https://youtu.be/dQw4w9WgXcQ"}`)

	if rr.Code != 200 {
		t.Fatalf("status = %d body %s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	if !strings.Contains(body, `"full_text":"hello there"`) || !strings.Contains(body, `"method":"timedtext"`) {
		t.Fatalf("unexpected body %s", body)
	}
	if len(gate.events) != 1 {
		t.Fatalf("events = %d want 1", len(gate.events))
	}
	ev := gate.events[0]
	if ev.StatusCode != 200 || ev.VideoID != "dQw4w9WgXcQ" || ev.KeyID != "key-1" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if !strings.Contains(ev.Notes, "timedtext") {
		t.Fatalf("notes should name the winning method, got %q", ev.Notes)
	}
}

func TestFetch_UpstreamFailureBillsWithStatus(t *testing.T) {
	svc := fakeResolver{err: perr.Upstreamf("no provider produced a transcript")}
	gate := &fakeGate{}

	rr := serve(t, svc, gate, "POST", "/", `{"video_url":"https://youtu.be/dQw4w9WgXcQ"}`)

	if rr.Code != 502 {
		t.Fatalf("status = %d want 502", rr.Code)
	}
	if len(gate.events) != 1 {
		t.Fatalf("events = %d want 1", len(gate.events))
	}
	if gate.events[0].StatusCode != 502 {
		t.Fatalf("event status = %d want 502", gate.events[0].StatusCode)
	}
	if gate.events[0].VideoID != "dQw4w9WgXcQ" {
		t.Fatalf("event should carry the extracted video id, got %q", gate.events[0].VideoID)
	}
}

func TestFetch_MissingURLRejectedWithoutBilling(t *testing.T) {
	gate := &fakeGate{}
	rr := serve(t, fakeResolver{}, gate, "POST", "/", `{}`)

	if rr.Code != 400 {
		t.Fatalf("status = %d want 400", rr.Code)
	}
	if len(gate.events) != 0 {
		t.Fatalf("validation failures should not bill, got %d events", len(gate.events))
	}
}

func TestBulk_MixedOutcomesRendersReportAndBillsPerItem(t *testing.T) {
	ok := tdom.Transcript{VideoID: "dQw4w9WgXcQ", Language: "en", FullText: "first transcript", MethodUsed: "rapidapi"}
	svc := fakeResolver{bulk: tdom.BulkResult{
		Items: []tdom.BulkItem{
			{Source: "https://youtu.be/dQw4w9WgXcQ", Transcript: &ok, Status: 200},
			{Source: "junk", Err: "could not extract a video id", Status: 400},
		},
		Succeeded: 1,
		Failed:    1,
	}}
	gate := &fakeGate{}

	rr := serve(t, svc, gate, "POST", "/bulk", `{"video_urls":["https://youtu.be/dQw4w9WgXcQ","junk"]}`)

	if rr.Code != 200 {
		t.Fatalf("status = %d body %s", rr.Code, rr.Body.String())
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "transcripts.txt") {
		t.Fatalf("disposition = %q", cd)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Successfully fetched: 1 transcript(s).") {
		t.Fatalf("missing summary in %q", body)
	}
	if !strings.Contains(body, "URL: junk") || !strings.Contains(body, "could not extract a video id") {
		t.Fatalf("missing failure detail in %q", body)
	}
	if !strings.HasSuffix(body, "first transcript") {
		t.Fatalf("transcript text should close the attachment, got %q", body)
	}
	if len(gate.events) != 2 {
		t.Fatalf("events = %d want 2", len(gate.events))
	}
	if gate.events[0].StatusCode != 200 || gate.events[1].StatusCode != 400 {
		t.Fatalf("event statuses = %d, %d", gate.events[0].StatusCode, gate.events[1].StatusCode)
	}
}

func TestBulk_AllFailedIsAnErrorAttachment(t *testing.T) {
	svc := fakeResolver{bulk: tdom.BulkResult{
		Items:  []tdom.BulkItem{{Source: "junk", Err: "no dice", Status: 502}},
		Failed: 1,
	}}
	gate := &fakeGate{}

	rr := serve(t, svc, gate, "POST", "/bulk", `{"video_urls":["junk"]}`)

	if rr.Code != 400 {
		t.Fatalf("status = %d want 400", rr.Code)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "transcript_errors.txt") {
		t.Fatalf("disposition = %q", cd)
	}
	if !strings.Contains(rr.Body.String(), "no dice") {
		t.Fatalf("missing failure reason in %q", rr.Body.String())
	}
}
