package product

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

// ListProducts handles GET /api/products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	all := r.URL.Query().Get("all") == "true"

	products, err := h.Service.List(r.Context(), internal.IdentityFromRequest(r), all)
	if err != nil {
		h.HandleServiceError(w, r, err, "ListProducts")
		return
	}
	h.WriteSuccess(w, http.StatusOK, products)
}

// GetProduct handles GET /api/products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "GetProduct")
		return
	}

	p, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err, "GetProduct")
		return
	}
	h.WriteSuccess(w, http.StatusOK, p)
}

// CreateProduct handles POST /api/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var dto CreateProductDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err, "CreateProduct")
		return
	}

	p, err := h.Service.Create(r.Context(), internal.IdentityFromRequest(r), dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "CreateProduct")
		return
	}
	h.WriteSuccess(w, http.StatusCreated, p)
}

// UpdateProduct handles PUT /api/products/{id}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "UpdateProduct")
		return
	}

	var dto UpdateProductDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err, "UpdateProduct")
		return
	}

	p, err := h.Service.Update(r.Context(), internal.IdentityFromRequest(r), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "UpdateProduct")
		return
	}
	h.WriteSuccess(w, http.StatusOK, p)
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "DeleteProduct")
		return
	}

	if err := h.Service.Delete(r.Context(), internal.IdentityFromRequest(r), id); err != nil {
		h.HandleServiceError(w, r, err, "DeleteProduct")
		return
	}
	h.WriteMessage(w, http.StatusOK, "محصول غیرفعال شد")
}
