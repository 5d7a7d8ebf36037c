package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/auth"
	"github.com/frahmantamala/cxm/internal/transport"
)

// RequireRoles rejects callers whose role is not in the allow-list with a 403 envelope.
func RequireRoles(lg *slog.Logger, allowed ...string) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(lg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := internal.IdentityFromRequest(r)
			if identity.IsZero() {
				base.WriteError(w, http.StatusUnauthorized, internal.MsgUnauthorized)
				return
			}

			if !auth.HasPermission(identity.Role, allowed) {
				base.Logger.Warn("RequireRoles: access denied",
					"user_id", identity.ID,
					"role", identity.Role,
					"path", r.URL.Path)
				base.WriteError(w, http.StatusForbidden, internal.MsgForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
