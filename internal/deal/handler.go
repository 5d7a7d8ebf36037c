package deal

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

// ListDeals handles GET /api/deals
func (h *Handler) ListDeals(w http.ResponseWriter, r *http.Request) {
	limit, offset := transport.Page(r, 50, 200)
	q := r.URL.Query()

	deals, err := h.Service.List(r.Context(), internal.IdentityFromRequest(r), Filter{
		CustomerID: q.Get("customer_id"),
		Stage:      q.Get("stage"),
		Search:     q.Get("search"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		h.HandleServiceError(w, r, err, "ListDeals")
		return
	}
	if deals == nil {
		deals = []*Deal{}
	}
	h.WriteSuccess(w, http.StatusOK, deals)
}

// GetDeal handles GET /api/deals/{id}
func (h *Handler) GetDeal(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "GetDeal")
		return
	}

	d, err := h.Service.Get(r.Context(), internal.IdentityFromRequest(r), id)
	if err != nil {
		h.HandleServiceError(w, r, err, "GetDeal")
		return
	}
	h.WriteSuccess(w, http.StatusOK, d)
}

// CreateDeal handles POST /api/deals
func (h *Handler) CreateDeal(w http.ResponseWriter, r *http.Request) {
	var dto CreateDealDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err, "CreateDeal")
		return
	}

	d, err := h.Service.Create(r.Context(), internal.IdentityFromRequest(r), dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "CreateDeal")
		return
	}
	h.WriteSuccess(w, http.StatusCreated, d)
}

// UpdateDeal handles PUT /api/deals/{id}
func (h *Handler) UpdateDeal(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "UpdateDeal")
		return
	}

	var dto UpdateDealDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err, "UpdateDeal")
		return
	}

	d, err := h.Service.Update(r.Context(), internal.IdentityFromRequest(r), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "UpdateDeal")
		return
	}
	h.WriteSuccess(w, http.StatusOK, d)
}

// ChangeStage handles PATCH /api/deals/{id}/stage
func (h *Handler) ChangeStage(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "ChangeStage")
		return
	}

	var dto StageDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err, "ChangeStage")
		return
	}

	d, err := h.Service.ChangeStage(r.Context(), internal.IdentityFromRequest(r), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "ChangeStage")
		return
	}
	h.WriteSuccess(w, http.StatusOK, d)
}

// DeleteDeal handles DELETE /api/deals/{id}
func (h *Handler) DeleteDeal(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "DeleteDeal")
		return
	}

	if err := h.Service.Delete(r.Context(), internal.IdentityFromRequest(r), id); err != nil {
		h.HandleServiceError(w, r, err, "DeleteDeal")
		return
	}
	h.WriteMessage(w, http.StatusOK, "معامله با موفقیت حذف شد")
}

// Pipeline handles GET /api/deals/pipeline
func (h *Handler) Pipeline(w http.ResponseWriter, r *http.Request) {
	totals, err := h.Service.Pipeline(r.Context(), internal.IdentityFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, r, err, "Pipeline")
		return
	}
	h.WriteSuccess(w, http.StatusOK, totals)
}
