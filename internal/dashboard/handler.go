package dashboard

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

// Stats handles GET /api/dashboard/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Service.Stats(r.Context(), internal.IdentityFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, r, err, "DashboardStats")
		return
	}
	h.WriteSuccess(w, http.StatusOK, st)
}
