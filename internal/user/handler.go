package user

import (
	"net/http"

	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/auth"
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

// GetProfile handles GET /api/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.Service.Profile(r.Context(), internal.IdentityFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, r, err, "GetProfile")
		return
	}
	h.WriteSuccess(w, http.StatusOK, u)
}

// UpdateProfile handles PUT /api/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var dto ProfileDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err, "UpdateProfile")
		return
	}

	u, err := h.Service.UpdateProfile(r.Context(), internal.IdentityFromRequest(r), dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "UpdateProfile")
		return
	}
	h.WriteSuccess(w, http.StatusOK, u)
}

// ChangePassword handles PUT /api/profile/password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var dto PasswordDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err, "ChangePassword")
		return
	}

	if err := h.Service.ChangePassword(r.Context(), internal.IdentityFromRequest(r), dto); err != nil {
		h.HandleServiceError(w, r, err, "ChangePassword")
		return
	}
	h.WriteMessage(w, http.StatusOK, "رمز عبور با موفقیت تغییر کرد")
}

// ListUsers handles GET /api/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List(r.Context(), internal.IdentityFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, r, err, "ListUsers")
		return
	}
	if users == nil {
		users = []*auth.User{}
	}
	h.WriteSuccess(w, http.StatusOK, users)
}

// ChangeRole handles PUT /api/users/{id}/role
func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "ChangeRole")
		return
	}

	var dto RoleDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err, "ChangeRole")
		return
	}

	u, err := h.Service.ChangeRole(r.Context(), internal.IdentityFromRequest(r), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "ChangeRole")
		return
	}
	h.WriteSuccess(w, http.StatusOK, u)
}

// GetPermissions handles GET /api/users/{id}/permissions
func (h *Handler) GetPermissions(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "GetPermissions")
		return
	}

	grants, err := h.Service.Permissions(r.Context(), internal.IdentityFromRequest(r), id)
	if err != nil {
		h.HandleServiceError(w, r, err, "GetPermissions")
		return
	}
	h.WriteSuccess(w, http.StatusOK, grants)
}

// SetPermission handles PUT /api/users/{id}/permissions
func (h *Handler) SetPermission(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamUUID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err, "SetPermission")
		return
	}

	var dto GrantDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err, "SetPermission")
		return
	}

	grants, err := h.Service.SetPermission(r.Context(), internal.IdentityFromRequest(r), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "SetPermission")
		return
	}
	h.WriteSuccess(w, http.StatusOK, grants)
}

// ListModules handles GET /api/users/modules
func (h *Handler) ListModules(w http.ResponseWriter, r *http.Request) {
	mods, err := h.Service.Modules(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err, "ListModules")
		return
	}
	h.WriteSuccess(w, http.StatusOK, mods)
}
