package middleware_test

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/auth"
	"github.com/frahmantamala/cxm/internal/transport/middleware"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func token(payload string) string {
	enc := base64.RawURLEncoding.EncodeToString
	return enc([]byte(`{"alg":"HS256"}`)) + "." + enc([]byte(payload)) + ".sig"
}

type seen struct {
	called   bool
	id       string
	role     string
	email    string
	identity internal.Identity
}

func recorder(s *seen) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.called = true
		s.id = r.Header.Get("x-user-id")
		s.role = r.Header.Get("x-user-role")
		s.email = r.Header.Get("x-user-email")
		s.identity = internal.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})
}

var _ = Describe("Gatekeeper", func() {
	var (
		gk      *middleware.Gatekeeper
		handler http.Handler
		s       *seen
		valid   string
		expired string
	)

	BeforeEach(func() {
		now := time.Unix(1_700_000_000, 0)
		codec := auth.NewCodecWithClock(func() time.Time { return now })
		gk = middleware.NewGatekeeper(internal.DefaultGatekeeperConfig(), "auth-token", codec,
			slog.New(slog.NewTextHandler(io.Discard, nil)))
		s = &seen{}
		handler = gk.Middleware(recorder(s))

		valid = token(`{"id":"u-1","role":"مدیر","email":"boss@example.ir","exp":1700003600}`)
		expired = token(`{"id":"u-1","role":"ceo","email":"boss@example.ir","exp":1699999000}`)
	})

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	DescribeTable("Classify",
		func(path string, want middleware.PathClass) {
			Expect(gk.Classify(path)).To(Equal(want))
		},
		Entry("static asset", "/static/app.css", middleware.ClassPublic),
		Entry("favicon", "/favicon.ico", middleware.ClassPublic),
		Entry("login endpoint", "/api/auth/login", middleware.ClassPublic),
		Entry("register endpoint", "/api/auth/register", middleware.ClassPublic),
		Entry("logout endpoint", "/api/auth/logout", middleware.ClassPublic),
		Entry("me endpoint is protected", "/api/auth/me", middleware.ClassAPI),
		Entry("login page", "/login", middleware.ClassPublic),
		Entry("landing page", "/", middleware.ClassPublic),
		Entry("health", "/api/health", middleware.ClassPublic),
		Entry("voice analysis", "/api/voice-analysis/upload", middleware.ClassBypass),
		Entry("dashboard root", "/dashboard", middleware.ClassDashboard),
		Entry("dashboard page", "/dashboard/customers", middleware.ClassDashboard),
		Entry("dashboard lookalike", "/dashboards", middleware.ClassOther),
		Entry("api resource", "/api/customers", middleware.ClassAPI),
		Entry("login lookalike", "/api/auth/login-as", middleware.ClassAPI),
		Entry("unknown", "/something", middleware.ClassOther),
	)

	Context("public paths", func() {
		It("pass through without a credential", func() {
			rec := serve(httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
			Expect(rec.Code).To(Equal(http.StatusTeapot))
			Expect(s.called).To(BeTrue())
		})

		It("drop forged identity headers", func() {
			req := httptest.NewRequest(http.MethodGet, "/login", nil)
			req.Header.Set("x-user-role", "ceo")
			serve(req)
			Expect(s.role).To(BeEmpty())
		})
	})

	Context("voice analysis", func() {
		It("passes through without identity injection", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/voice-analysis/transcribe", nil)
			req.Header.Set("Authorization", "Bearer "+valid)
			rec := serve(req)
			Expect(rec.Code).To(Equal(http.StatusTeapot))
			Expect(s.id).To(BeEmpty())
		})
	})

	Context("dashboard pages", func() {
		It("redirect to login with the original path when the cookie is missing", func() {
			rec := serve(httptest.NewRequest(http.MethodGet, "/dashboard/customers", nil))
			Expect(rec.Code).To(Equal(http.StatusFound))
			Expect(rec.Header().Get("Location")).To(Equal("/login?redirect=%2Fdashboard%2Fcustomers"))
			Expect(s.called).To(BeFalse())
		})

		It("ignore the Authorization header", func() {
			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			req.Header.Set("Authorization", "Bearer "+valid)
			rec := serve(req)
			Expect(rec.Code).To(Equal(http.StatusFound))
		})

		It("redirect when the cookie is expired", func() {
			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			req.AddCookie(&http.Cookie{Name: "auth-token", Value: expired})
			Expect(serve(req).Code).To(Equal(http.StatusFound))
		})

		It("forward with identity when the cookie is valid", func() {
			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			req.AddCookie(&http.Cookie{Name: "auth-token", Value: valid})
			Expect(serve(req).Code).To(Equal(http.StatusTeapot))
			Expect(s.id).To(Equal("u-1"))
			Expect(s.identity.Role).To(Equal("مدیر"))
		})
	})

	Context("api routes", func() {
		It("reject a missing credential with a JSON 401", func() {
			rec := serve(httptest.NewRequest(http.MethodGet, "/api/customers", nil))
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(rec.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

			var body map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body["success"]).To(BeFalse())
			Expect(body["message"]).To(Equal(internal.MsgUnauthorized))
			Expect(s.called).To(BeFalse())
		})

		It("reject an expired credential", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
			req.Header.Set("Authorization", "Bearer "+expired)
			rec := serve(req)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(rec.Body.String()).To(ContainSubstring(internal.MsgInvalidToken))
		})

		It("reject a malformed credential", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
			req.Header.Set("Authorization", "Bearer not-a-token")
			Expect(serve(req).Code).To(Equal(http.StatusUnauthorized))
		})

		It("inject identity headers from a bearer token", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
			req.Header.Set("Authorization", "Bearer "+valid)
			Expect(serve(req).Code).To(Equal(http.StatusTeapot))
			Expect(s.id).To(Equal("u-1"))
			Expect(s.role).To(Equal("مدیر"))
			Expect(s.email).To(Equal("boss@example.ir"))
		})

		It("accept the cookie when no header is sent", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/deals", nil)
			req.AddCookie(&http.Cookie{Name: "auth-token", Value: valid})
			Expect(serve(req).Code).To(Equal(http.StatusTeapot))
			Expect(s.id).To(Equal("u-1"))
		})

		It("prefer the header over the cookie", func() {
			other := token(`{"id":"u-2","role":"support","email":"s@example.ir"}`)
			req := httptest.NewRequest(http.MethodGet, "/api/deals", nil)
			req.Header.Set("Authorization", "Bearer "+other)
			req.AddCookie(&http.Cookie{Name: "auth-token", Value: valid})
			serve(req)
			Expect(s.id).To(Equal("u-2"))
			Expect(s.role).To(Equal("support"))
		})

		It("do not fall back to the cookie when the header token is invalid", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/deals", nil)
			req.Header.Set("Authorization", "Bearer "+expired)
			req.AddCookie(&http.Cookie{Name: "auth-token", Value: valid})
			Expect(serve(req).Code).To(Equal(http.StatusUnauthorized))
		})

		It("overwrite client-supplied identity headers", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
			req.Header.Set("Authorization", "Bearer "+valid)
			req.Header.Set("x-user-id", "attacker")
			req.Header.Set("x-user-role", "ceo")
			serve(req)
			Expect(s.id).To(Equal("u-1"))
			Expect(s.role).To(Equal("مدیر"))
		})

		It("leave the inbound request headers untouched", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
			req.Header.Set("Authorization", "Bearer "+valid)
			serve(req)
			Expect(req.Header.Get("x-user-id")).To(BeEmpty())
		})
	})
})

var _ = Describe("RequireRoles", func() {
	var s *seen

	BeforeEach(func() { s = &seen{} })

	serve := func(role string) int {
		h := middleware.RequireRoles(slog.New(slog.NewTextHandler(io.Discard, nil)), auth.Managers...)(recorder(s))
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		if role != "" {
			req.Header.Set("x-user-id", "u")
			req.Header.Set("x-user-role", role)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	It("admits listed roles", func() {
		Expect(serve("مدیر فروش")).To(Equal(http.StatusTeapot))
	})

	It("forbids other roles", func() {
		Expect(serve("support")).To(Equal(http.StatusForbidden))
		Expect(s.called).To(BeFalse())
	})

	It("requires an identity", func() {
		Expect(serve("")).To(Equal(http.StatusUnauthorized))
	})
})
