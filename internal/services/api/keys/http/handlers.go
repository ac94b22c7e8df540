// Package http provides the admin key management endpoints
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"scribe/internal/modkit/httpkit"
	"scribe/internal/services/keys/domain"
)

// Register mounts the key management endpoints
// the router is expected to sit behind the admin password guard
func Register(r httpkit.Router, svc domain.ManagePort) {
	h := &handlers{svc: svc}
	httpkit.Get(r, "/", h.list)
	httpkit.PostJSON[domain.CreateInput](r, "/", h.create)
	httpkit.PutJSON[domain.UpdateInput](r, "/{id}", h.update)
	httpkit.Delete(r, "/{id}", h.remove)
}

type handlers struct{ svc domain.ManagePort }

// swagger:route GET /admin/keys Keys keysList
// @Summary List issued api keys
// @Tags Keys
// @Produce json
// @Success 200 {array} domain.Key "ok"
// @Router /admin/keys [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context())
}

// swagger:route POST /admin/keys Keys keysCreate
// @Summary Mint a new api key
// @Tags Keys
// @Accept json
// @Produce json
// @Param payload body domain.CreateInput true "Key details"
// @Success 200 {object} domain.Key "ok"
// @Router /admin/keys [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	return h.svc.Create(r.Context(), in)
}

// swagger:route PUT /admin/keys/{id} Keys keysUpdate
// @Summary Update an api key
// @Tags Keys
// @Accept json
// @Produce json
// @Param id path string true "Key id"
// @Param payload body domain.UpdateInput true "Fields to change"
// @Success 200 {object} domain.Key "ok"
// @Router /admin/keys/{id} [put]
func (h *handlers) update(r *stdhttp.Request, in domain.UpdateInput) (any, error) {
	return h.svc.Update(r.Context(), chi.URLParam(r, "id"), in)
}

// swagger:route DELETE /admin/keys/{id} Keys keysDelete
// @Summary Delete an api key
// @Tags Keys
// @Produce json
// @Param id path string true "Key id"
// @Success 200 {object} map[string]string "ok"
// @Router /admin/keys/{id} [delete]
func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Delete(r.Context(), id); err != nil {
		return nil, err
	}
	return map[string]string{"message": "api key deleted", "id": id}, nil
}
