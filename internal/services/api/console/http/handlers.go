// Package http provides the unkeyed UI transcript endpoint
package http

import (
	stdhttp "net/http"

	"scribe/internal/modkit/httpkit"
	"scribe/internal/services/api/transcripts/domain"
	tdom "scribe/internal/services/transcript/domain"
)

// Register mounts the console endpoint
// no api key, no usage logging, and the winning method stays hidden
func Register(r httpkit.Router, svc tdom.ServicePort) {
	h := &handlers{svc: svc}
	httpkit.PostJSON[domain.FetchInput](r, "/", h.fetch)
}

type handlers struct{ svc tdom.ServicePort }

// swagger:route POST /transcript Console consoleFetch
// @Summary Fetch one video transcript for the web UI
// @Tags Console
// @Accept json
// @Produce json
// @Param payload body domain.FetchInput true "Video reference"
// @Success 200 {object} domain.ConsoleTranscript "ok"
// @Router /transcript [post]
func (h *handlers) fetch(r *stdhttp.Request, in domain.FetchInput) (any, error) {
	t, err := h.svc.Resolve(r.Context(), tdom.Request{Source: in.VideoURL, Lang: in.Lang})
	if err != nil {
		return nil, err
	}
	return domain.ConsoleTranscript{
		Transcript: t.FullText,
		VideoID:    t.VideoID,
		Language:   t.Language,
	}, nil
}
