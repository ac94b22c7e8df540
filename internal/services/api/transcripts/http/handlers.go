// Package http provides the keyed transcript endpoints
package http

import (
	"fmt"
	stdhttp "net/http"
	"strings"

	"scribe/internal/core/videoid"
	"scribe/internal/modkit/httpkit"
	perr "scribe/internal/platform/errors"
	"scribe/internal/platform/logger"
	phttp "scribe/internal/platform/net/http"
	"scribe/internal/platform/net/http/bind"
	"scribe/internal/services/api/transcripts/domain"
	kdom "scribe/internal/services/keys/domain"
	tdom "scribe/internal/services/transcript/domain"
)

// Register mounts the keyed transcript endpoints on an authed router
func Register(r httpkit.Router, svc tdom.ServicePort, gate kdom.AdmitPort) {
	h := &handlers{svc: svc, gate: gate}
	httpkit.PostJSON[domain.FetchInput](r, "/", h.fetch)
	r.Post("/bulk", h.bulk)
}

type handlers struct {
	svc  tdom.ServicePort
	gate kdom.AdmitPort
}

// bill records one usage event, best effort
func (h *handlers) bill(r *stdhttp.Request, path string, status int, videoID, notes string) {
	ev := kdom.UsageEvent{
		KeyID:      httpkit.MustKeyID(r),
		Path:       path,
		StatusCode: status,
		VideoID:    videoID,
		Notes:      notes,
	}
	if err := h.gate.RecordUsage(r.Context(), ev); err != nil {
		logger.C(r.Context()).Warn().Err(err).Msg("usage event not recorded")
	}
}

// swagger:route POST /transcripts Transcripts transcriptsFetch
// @Summary Fetch one video transcript
// @Tags Transcripts
// @Accept json
// @Produce json
// @Param payload body domain.FetchInput true "Video reference"
// @Success 200 {object} domain.Transcript "ok"
// @Security ApiKeyAuth
// @Router /transcripts [post]
func (h *handlers) fetch(r *stdhttp.Request, in domain.FetchInput) (any, error) {
	t, err := h.svc.Resolve(r.Context(), tdom.Request{Source: in.VideoURL, Lang: in.Lang})
	if err != nil {
		vid, _ := videoid.Extract(in.VideoURL)
		h.bill(r, "/transcripts", perr.HTTPStatus(err), vid.String(), "failed: "+err.Error())
		return nil, err
	}
	h.bill(r, "/transcripts", 200, t.VideoID, successNote(t))
	return domain.Transcript{
		VideoID:  t.VideoID,
		Language: t.Language,
		FullText: t.FullText,
		Method:   t.MethodUsed,
	}, nil
}

// swagger:route POST /transcripts/bulk Transcripts transcriptsBulk
// @Summary Fetch many transcripts as a text attachment
// @Tags Transcripts
// @Accept json
// @Produce plain
// @Param payload body domain.BulkInput true "Video references"
// @Success 200 {string} string "transcripts.txt"
// @Security ApiKeyAuth
// @Router /transcripts/bulk [post]
func (h *handlers) bulk(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	in, err := bind.ParseJSON[domain.BulkInput](r)
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}

	res, err := h.svc.ResolveBulk(r.Context(), in.VideoURLs, in.Lang)
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	for _, item := range res.Items {
		if item.Transcript != nil {
			h.bill(r, "/transcripts/bulk", item.Status, item.Transcript.VideoID, successNote(*item.Transcript))
			continue
		}
		vid, _ := videoid.Extract(item.Source)
		h.bill(r, "/transcripts/bulk", item.Status, vid.String(), "failed: "+item.Err)
	}

	body := bulkText(res)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if res.Succeeded == 0 {
		w.Header().Set("Content-Disposition", `attachment; filename="transcript_errors.txt"`)
		w.WriteHeader(stdhttp.StatusBadRequest)
	} else {
		w.Header().Set("Content-Disposition", `attachment; filename="transcripts.txt"`)
		w.WriteHeader(stdhttp.StatusOK)
	}
	_, _ = w.Write([]byte(body))
}

// successNote keeps the losing providers' reasons in the stored usage
// record without ever surfacing them in a success payload
func successNote(t tdom.Transcript) string {
	note := "success via " + t.MethodUsed
	if t.FailureDetail != "" {
		note += " (" + t.FailureDetail + ")"
	}
	return note
}

// bulkText renders the attachment: a failure report first when anything
// failed, then the successful transcripts separated by blank lines
func bulkText(res tdom.BulkResult) string {
	var b strings.Builder

	if res.Failed > 0 {
		fmt.Fprintf(&b, "Bulk Transcript Fetch Summary:\n")
		fmt.Fprintf(&b, "Successfully fetched: %d transcript(s).\n", res.Succeeded)
		fmt.Fprintf(&b, "Failed to fetch: %d transcript(s).\n\n", res.Failed)
		b.WriteString("Details for failures:\n")
		for _, item := range res.Items {
			if item.Transcript != nil {
				continue
			}
			b.WriteString("-------------------------------------\n")
			b.WriteString("URL: " + item.Source + "\n")
			if vid, ok := videoid.Extract(item.Source); ok {
				b.WriteString("Video ID: " + vid.String() + "\n")
			}
			b.WriteString("Error: " + item.Err + "\n")
		}
		b.WriteString("-------------------------------------\n\n")
	}

	texts := make([]string, 0, res.Succeeded)
	for _, item := range res.Items {
		if item.Transcript != nil {
			texts = append(texts, item.Transcript.FullText)
		}
	}
	b.WriteString(strings.Join(texts, "\n\n"))

	return strings.TrimSpace(b.String())
}
