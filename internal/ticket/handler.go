package ticket

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

// ListTickets handles GET /api/tickets
func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	limit, offset := transport.Page(r, 50, 200)
	q := r.URL.Query()

	tickets, err := h.Service.List(r.Context(), internal.IdentityFromRequest(r), Filter{
		CustomerID: q.Get("customer_id"),
		Status:     q.Get("status"),
		Priority:   q.Get("priority"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		h.HandleServiceError(w, r, err, "ListTickets")
		return
	}
	if tickets == nil {
		tickets = []*Ticket{}
	}
	h.WriteSuccess(w, http.StatusOK, tickets)
}

// GetTicket handles GET /api/tickets/{id}
func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "GetTicket")
		return
	}

	t, err := h.Service.Get(r.Context(), internal.IdentityFromRequest(r), id)
	if err != nil {
		h.HandleServiceError(w, r, err, "GetTicket")
		return
	}
	h.WriteSuccess(w, http.StatusOK, t)
}

// CreateTicket handles POST /api/tickets
func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var dto CreateTicketDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err, "CreateTicket")
		return
	}

	t, err := h.Service.Create(r.Context(), internal.IdentityFromRequest(r), dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "CreateTicket")
		return
	}
	h.WriteSuccess(w, http.StatusCreated, t)
}

// UpdateTicket handles PUT /api/tickets/{id}
func (h *Handler) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "UpdateTicket")
		return
	}

	var dto UpdateTicketDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err, "UpdateTicket")
		return
	}

	t, err := h.Service.Update(r.Context(), internal.IdentityFromRequest(r), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "UpdateTicket")
		return
	}
	h.WriteSuccess(w, http.StatusOK, t)
}

// ChangeStatus handles PATCH /api/tickets/{id}/status
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "ChangeStatus")
		return
	}

	var dto StatusDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err, "ChangeStatus")
		return
	}

	t, err := h.Service.ChangeStatus(r.Context(), internal.IdentityFromRequest(r), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "ChangeStatus")
		return
	}
	h.WriteSuccess(w, http.StatusOK, t)
}

// AssignTicket handles PATCH /api/tickets/{id}/assign
func (h *Handler) AssignTicket(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "AssignTicket")
		return
	}

	var dto AssignDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err, "AssignTicket")
		return
	}

	t, err := h.Service.Assign(r.Context(), internal.IdentityFromRequest(r), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "AssignTicket")
		return
	}
	h.WriteSuccess(w, http.StatusOK, t)
}

// DeleteTicket handles DELETE /api/tickets/{id}
func (h *Handler) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "DeleteTicket")
		return
	}

	if err := h.Service.Delete(r.Context(), internal.IdentityFromRequest(r), id); err != nil {
		h.HandleServiceError(w, r, err, "DeleteTicket")
		return
	}
	h.WriteMessage(w, http.StatusOK, "تیکت با موفقیت حذف شد")
}
