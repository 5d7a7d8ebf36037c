package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/auth"
	"github.com/frahmantamala/cxm/internal/transport"
	"github.com/frahmantamala/cxm/pkg/logger"
)

type PathClass int

const (
	ClassOther PathClass = iota
	ClassPublic
	ClassBypass
	ClassDashboard
	ClassAPI
)

func (c PathClass) String() string {
	switch c {
	case ClassPublic:
		return "public"
	case ClassBypass:
		return "bypass"
	case ClassDashboard:
		return "dashboard"
	case ClassAPI:
		return "api"
	}
	return "other"
}

// TokenDecoder turns a raw credential into identity claims, or nil when it is unusable.
type TokenDecoder interface {
	Decode(token string) *auth.IdentityClaims
}

// Gatekeeper classifies every request by path and enforces credentials on dashboard pages
// and API routes before any handler runs.
type Gatekeeper struct {
	cfg        internal.GatekeeperConfig
	cookieName string
	decoder    TokenDecoder
	base       *transport.BaseHandler
}

func NewGatekeeper(cfg internal.GatekeeperConfig, cookieName string, decoder TokenDecoder, lg *slog.Logger) *Gatekeeper {
	if cookieName == "" {
		cookieName = internal.DefaultCookieName
	}
	if cfg.APIPrefix == "" {
		cfg = internal.DefaultGatekeeperConfig()
	}
	return &Gatekeeper{
		cfg:        cfg,
		cookieName: cookieName,
		decoder:    decoder,
		base:       transport.NewBaseHandler(lg),
	}
}

// Classify is evaluated in order: bypass, public, dashboard, api.
func (g *Gatekeeper) Classify(path string) PathClass {
	for _, p := range g.cfg.BypassPrefixes {
		if matchPrefix(path, p) {
			return ClassBypass
		}
	}
	for _, p := range g.cfg.PublicPrefixes {
		if matchPrefix(path, p) {
			return ClassPublic
		}
	}
	for _, p := range g.cfg.PublicPages {
		if path == p {
			return ClassPublic
		}
	}
	if path == g.cfg.DashboardPrefix || strings.HasPrefix(path, strings.TrimSuffix(g.cfg.DashboardPrefix, "/")+"/") {
		return ClassDashboard
	}
	if strings.HasPrefix(path, g.cfg.APIPrefix) {
		return ClassAPI
	}
	return ClassOther
}

// matchPrefix treats a trailing slash as a directory prefix; anything else matches exactly
// or as a parent path segment.
func matchPrefix(path, prefix string) bool {
	if strings.HasSuffix(prefix, "/") {
		return strings.HasPrefix(path, prefix)
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func (g *Gatekeeper) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch g.Classify(r.URL.Path) {
		case ClassDashboard:
			g.serveDashboard(next, w, r)
		case ClassAPI:
			g.serveAPI(next, w, r)
		default:
			next.ServeHTTP(w, stripIdentity(r))
		}
	})
}

func (g *Gatekeeper) serveDashboard(next http.Handler, w http.ResponseWriter, r *http.Request) {
	claims := g.decode(g.cookieToken(r))
	if claims == nil {
		g.base.Logger.Debug("Gatekeeper: redirecting to login", "path", r.URL.Path)
		target := g.cfg.LoginPath + "?redirect=" + url.QueryEscape(r.URL.Path)
		http.Redirect(w, r, target, http.StatusFound)
		return
	}
	next.ServeHTTP(w, withIdentity(r, claims))
}

func (g *Gatekeeper) serveAPI(next http.Handler, w http.ResponseWriter, r *http.Request) {
	token := transport.BearerToken(r)
	if token == "" {
		token = g.cookieToken(r)
	}
	if token == "" {
		g.base.Logger.Warn("Gatekeeper: missing credential", "path", r.URL.Path, "method", r.Method)
		g.base.WriteError(w, http.StatusUnauthorized, internal.MsgUnauthorized)
		return
	}

	claims := g.decode(token)
	if claims == nil {
		g.base.Logger.Warn("Gatekeeper: invalid credential", "path", r.URL.Path, "method", r.Method)
		g.base.WriteError(w, http.StatusUnauthorized, internal.MsgInvalidToken)
		return
	}
	next.ServeHTTP(w, withIdentity(r, claims))
}

func (g *Gatekeeper) cookieToken(r *http.Request) string {
	c, err := r.Cookie(g.cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func (g *Gatekeeper) decode(token string) *auth.IdentityClaims {
	if token == "" || g.decoder == nil {
		return nil
	}
	return g.decoder.Decode(token)
}

// withIdentity clones the request and overwrites any client-supplied identity headers.
func withIdentity(r *http.Request, claims *auth.IdentityClaims) *http.Request {
	id := internal.Identity{ID: claims.ID, Role: claims.Role, Email: claims.Email}
	ctx := internal.ContextWithIdentity(r.Context(), id)
	ctx = logger.With(ctx, "user_id", id.ID)

	out := r.Clone(ctx)
	out.Header.Set(internal.HeaderUserID, id.ID)
	out.Header.Set(internal.HeaderUserRole, id.Role)
	out.Header.Set(internal.HeaderUserEmail, id.Email)
	return out
}

// stripIdentity drops identity headers a client may have forged on unauthenticated paths.
func stripIdentity(r *http.Request) *http.Request {
	if r.Header.Get(internal.HeaderUserID) == "" &&
		r.Header.Get(internal.HeaderUserRole) == "" &&
		r.Header.Get(internal.HeaderUserEmail) == "" {
		return r
	}
	out := r.Clone(r.Context())
	out.Header.Del(internal.HeaderUserID)
	out.Header.Del(internal.HeaderUserRole)
	out.Header.Del(internal.HeaderUserEmail)
	return out
}
