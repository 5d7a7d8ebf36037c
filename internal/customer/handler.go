package customer

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

// ListCustomers handles GET /api/customers
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	actor := internal.IdentityFromRequest(r)
	limit, offset := transport.Page(r, 50, 200)
	q := r.URL.Query()

	customers, err := h.Service.List(r.Context(), actor, Filter{
		Search: q.Get("search"),
		Status: q.Get("status"),
		Type:   q.Get("type"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.HandleServiceError(w, r, err, "ListCustomers")
		return
	}
	if customers == nil {
		customers = []*Customer{}
	}
	h.WriteSuccess(w, http.StatusOK, customers)
}

// GetCustomer handles GET /api/customers/{id}
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "GetCustomer")
		return
	}

	c, err := h.Service.Get(r.Context(), internal.IdentityFromRequest(r), id)
	if err != nil {
		h.HandleServiceError(w, r, err, "GetCustomer")
		return
	}
	h.WriteSuccess(w, http.StatusOK, c)
}

// CreateCustomer handles POST /api/customers
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var dto CreateCustomerDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err, "CreateCustomer")
		return
	}

	c, err := h.Service.Create(r.Context(), internal.IdentityFromRequest(r), dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "CreateCustomer")
		return
	}
	h.WriteSuccess(w, http.StatusCreated, c)
}

// UpdateCustomer handles PUT /api/customers/{id}
func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "UpdateCustomer")
		return
	}

	var dto UpdateCustomerDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err, "UpdateCustomer")
		return
	}

	c, err := h.Service.Update(r.Context(), internal.IdentityFromRequest(r), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "UpdateCustomer")
		return
	}
	h.WriteSuccess(w, http.StatusOK, c)
}

// DeleteCustomer handles DELETE /api/customers/{id}
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "DeleteCustomer")
		return
	}

	if err := h.Service.Delete(r.Context(), internal.IdentityFromRequest(r), id); err != nil {
		h.HandleServiceError(w, r, err, "DeleteCustomer")
		return
	}
	h.WriteMessage(w, http.StatusOK, "مشتری با موفقیت حذف شد")
}

// CustomerSummary handles GET /api/customers/{id}/summary
func (h *Handler) CustomerSummary(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "CustomerSummary")
		return
	}

	sum, err := h.Service.Summary(r.Context(), internal.IdentityFromRequest(r), id)
	if err != nil {
		h.HandleServiceError(w, r, err, "CustomerSummary")
		return
	}
	h.WriteSuccess(w, http.StatusOK, sum)
}
