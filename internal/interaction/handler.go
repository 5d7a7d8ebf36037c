package interaction

import (
	"net/http"

	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/transport"
	"github.com/frahmantamala/cxm/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     service,
	}
}

// ListInteractions handles GET /api/interactions
func (h *Handler) ListInteractions(w http.ResponseWriter, r *http.Request) {
	limit, offset := transport.Page(r, 50, 200)
	q := r.URL.Query()

	items, err := h.Service.List(r.Context(), internal.IdentityFromRequest(r), Filter{
		CustomerID: q.Get("customer_id"),
		Type:       q.Get("type"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		h.HandleServiceError(w, r, err, "ListInteractions")
		return
	}
	if items == nil {
		items = []*Interaction{}
	}
	h.WriteSuccess(w, http.StatusOK, items)
}

// CreateInteraction handles POST /api/interactions
func (h *Handler) CreateInteraction(w http.ResponseWriter, r *http.Request) {
	var dto CreateInteractionDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err, "CreateInteraction")
		return
	}

	i, err := h.Service.Create(r.Context(), internal.IdentityFromRequest(r), dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "CreateInteraction")
		return
	}
	h.WriteSuccess(w, http.StatusCreated, i)
}

// DeleteInteraction handles DELETE /api/interactions/{id}
func (h *Handler) DeleteInteraction(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "DeleteInteraction")
		return
	}

	if err := h.Service.Delete(r.Context(), internal.IdentityFromRequest(r), id); err != nil {
		h.HandleServiceError(w, r, err, "DeleteInteraction")
		return
	}
	h.WriteMessage(w, http.StatusOK, "تعامل با موفقیت حذف شد")
}
