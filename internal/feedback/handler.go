package feedback

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

// ListFeedback handles GET /api/feedback
func (h *Handler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	limit, offset := transport.Page(r, 50, 200)
	q := r.URL.Query()

	items, err := h.Service.List(r.Context(), internal.IdentityFromRequest(r), Filter{
		CustomerID: q.Get("customer_id"),
		Type:       q.Get("type"),
		Status:     q.Get("status"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		h.HandleServiceError(w, r, err, "ListFeedback")
		return
	}
	if items == nil {
		items = []*Feedback{}
	}
	h.WriteSuccess(w, http.StatusOK, items)
}

// GetFeedback handles GET /api/feedback/{id}
func (h *Handler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "GetFeedback")
		return
	}

	fb, err := h.Service.Get(r.Context(), internal.IdentityFromRequest(r), id)
	if err != nil {
		h.HandleServiceError(w, r, err, "GetFeedback")
		return
	}
	h.WriteSuccess(w, http.StatusOK, fb)
}

// CreateFeedback handles POST /api/feedback
func (h *Handler) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	var dto CreateFeedbackDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err, "CreateFeedback")
		return
	}

	fb, err := h.Service.Create(r.Context(), internal.IdentityFromRequest(r), dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "CreateFeedback")
		return
	}
	h.WriteSuccess(w, http.StatusCreated, fb)
}

// ChangeStatus handles PATCH /api/feedback/{id}/status
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "ChangeFeedbackStatus")
		return
	}

	var dto StatusDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err, "ChangeFeedbackStatus")
		return
	}

	fb, err := h.Service.ChangeStatus(r.Context(), internal.IdentityFromRequest(r), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "ChangeFeedbackStatus")
		return
	}
	h.WriteSuccess(w, http.StatusOK, fb)
}

// DeleteFeedback handles DELETE /api/feedback/{id}
func (h *Handler) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "DeleteFeedback")
		return
	}

	if err := h.Service.Delete(r.Context(), internal.IdentityFromRequest(r), id); err != nil {
		h.HandleServiceError(w, r, err, "DeleteFeedback")
		return
	}
	h.WriteMessage(w, http.StatusOK, "بازخورد با موفقیت حذف شد")
}

// Stats handles GET /api/feedback/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context(), internal.IdentityFromRequest(r), r.URL.Query().Get("customer_id"))
	if err != nil {
		h.HandleServiceError(w, r, err, "FeedbackStats")
		return
	}
	h.WriteSuccess(w, http.StatusOK, stats)
}
