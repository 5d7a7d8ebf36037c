package web_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/web"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestWeb(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Web Suite")
}

func withPage(req *http.Request, page string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("page", page)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

var _ = Describe("Handler", func() {
	var handler *web.Handler

	BeforeEach(func() {
		engine, err := web.NewEngine()
		Expect(err).NotTo(HaveOccurred())
		handler = web.NewHandler(engine)
	})

	It("renders an RTL login page that keeps dashboard redirects", func() {
		rec := httptest.NewRecorder()
		handler.Login(rec, httptest.NewRequest(http.MethodGet, "/login?redirect=/dashboard/deals", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Type")).To(HavePrefix("text/html"))
		Expect(rec.Body.String()).To(ContainSubstring(`dir="rtl"`))
		Expect(rec.Body.String()).To(ContainSubstring(`data-redirect="/dashboard/deals"`))
		Expect(rec.Body.String()).NotTo(ContainSubstring("topbar"))
	})

	It("drops redirects that leave the dashboard", func() {
		rec := httptest.NewRecorder()
		handler.Login(rec, httptest.NewRequest(http.MethodGet, "/login?redirect=https://evil.example", nil))

		Expect(rec.Body.String()).To(ContainSubstring(`data-redirect="/dashboard"`))
	})

	It("greets the signed-in user with a Persian role label", func() {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.Header.Set(internal.HeaderUserID, "u-1")
		req.Header.Set(internal.HeaderUserEmail, "agent@example.ir")
		req.Header.Set(internal.HeaderUserRole, "sales_agent")
		rec := httptest.NewRecorder()

		handler.Dashboard(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		body := rec.Body.String()
		Expect(body).To(ContainSubstring("agent@example.ir"))
		Expect(body).To(ContainSubstring("کارشناس فروش"))
		Expect(body).To(ContainSubstring(`data-stats="/api/dashboard/stats"`))
	})

	It("renders known list pages and 404s the rest", func() {
		rec := httptest.NewRecorder()
		handler.List(rec, withPage(httptest.NewRequest(http.MethodGet, "/dashboard/tickets", nil), "tickets"))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`data-endpoint="/api/tickets"`))

		rec = httptest.NewRecorder()
		handler.List(rec, withPage(httptest.NewRequest(http.MethodGet, "/dashboard/payroll", nil), "payroll"))
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("serves embedded static assets with caching", func() {
		static, err := web.Static()
		Expect(err).NotTo(HaveOccurred())

		rec := httptest.NewRecorder()
		static.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/css/app.css", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Cache-Control")).To(Equal("public, max-age=3600"))
	})
})
