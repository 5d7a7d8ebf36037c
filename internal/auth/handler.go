package auth

import (
	"net/http"
	"time"

	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/transport"
	"github.com/frahmantamala/cxm/pkg/logger"
)

type CookieConfig struct {
	Name   string
	Secure bool
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	cookie  CookieConfig
}

func NewHandler(svc ServiceAPI, cookie CookieConfig) *Handler {
	if cookie.Name == "" {
		cookie.Name = internal.DefaultCookieName
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     svc,
		cookie:      cookie,
	}
}

// Login handles POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err, "Login")
		return
	}

	result, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "Login")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.ExpiresAt,
		MaxAge:   int(time.Until(result.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	h.Logger.Info("Login: user signed in", "user_id", result.User.ID, "role", result.User.Role)
	h.WriteSuccess(w, http.StatusOK, result)
}

// Register handles POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err, "Register")
		return
	}

	user, err := h.Service.Register(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "Register")
		return
	}

	h.WriteSuccess(w, http.StatusCreated, user)
}

// Logout handles POST /api/auth/logout. The credential itself stays valid until exp.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	h.WriteMessage(w, http.StatusOK, "خروج با موفقیت انجام شد")
}

// Me handles GET /api/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity := internal.IdentityFromRequest(r)

	user, err := h.Service.Me(r.Context(), identity.ID)
	if err != nil {
		h.HandleServiceError(w, r, err, "Me")
		return
	}
	h.WriteSuccess(w, http.StatusOK, user)
}
