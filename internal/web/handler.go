package web

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/transport"
	"github.com/frahmantamala/cxm/pkg/logger"
	assets "github.com/frahmantamala/cxm/web"
	"github.com/go-chi/chi"
)

type Column struct {
	Key   string
	Label string
}

// ListPage describes a table page filled client-side from a JSON endpoint.
type ListPage struct {
	Endpoint string
	Columns  []Column
}

var navigation = []NavItem{
	{Path: "/dashboard", Label: "داشبورد"},
	{Path: "/dashboard/customers", Label: "مشتریان"},
	{Path: "/dashboard/deals", Label: "معاملات"},
	{Path: "/dashboard/tickets", Label: "تیکت‌ها"},
	{Path: "/dashboard/feedback", Label: "بازخوردها"},
	{Path: "/dashboard/chat", Label: "گفتگوها"},
	{Path: "/dashboard/profile", Label: "پروفایل"},
}

var listPages = map[string]struct {
	title string
	page  ListPage
}{
	"customers": {"مشتریان", ListPage{Endpoint: "/api/customers", Columns: []Column{
		{"name", "نام"}, {"phone", "تلفن"}, {"company", "شرکت"}, {"status", "وضعیت"}, {"city", "شهر"},
	}}},
	"deals": {"معاملات", ListPage{Endpoint: "/api/deals", Columns: []Column{
		{"title", "عنوان"}, {"stage", "مرحله"}, {"value", "مبلغ"}, {"probability", "احتمال"}, {"expected_close_date", "تاریخ پیش‌بینی"},
	}}},
	"tickets": {"تیکت‌ها", ListPage{Endpoint: "/api/tickets", Columns: []Column{
		{"subject", "موضوع"}, {"priority", "اولویت"}, {"status", "وضعیت"}, {"category", "دسته‌بندی"}, {"created_at", "ایجاد"},
	}}},
	"feedback": {"بازخوردها", ListPage{Endpoint: "/api/feedback", Columns: []Column{
		{"type", "نوع"}, {"score", "امتیاز"}, {"channel", "کانال"}, {"status", "وضعیت"}, {"comment", "نظر"},
	}}},
}

type Handler struct {
	*transport.BaseHandler
	Engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Engine:      engine,
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	err := h.Engine.Render(w, name, TemplateData{
		Title:       title,
		CurrentPath: r.URL.Path,
		User:        internal.IdentityFromRequest(r),
		Nav:         navigation,
		Data:        data,
	})
	if err != nil {
		h.Logger.Error("render page failed", "template", name, "error", err)
		http.Error(w, internal.MsgInternal, http.StatusInternalServerError)
	}
}

// Login handles GET /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	redirect := r.URL.Query().Get("redirect")
	if !strings.HasPrefix(redirect, "/dashboard") {
		redirect = "/dashboard"
	}
	h.render(w, r, "pages/login.html", "ورود", redirect)
}

// Home handles GET /
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// Dashboard handles GET /dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/dashboard.html", "داشبورد", nil)
}

// List handles GET /dashboard/{page} for the table pages.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := listPages[chi.URLParam(r, "page")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.render(w, r, "pages/list.html", p.title, p.page)
}

// Chat handles GET /dashboard/chat
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/chat.html", "گفتگوها", nil)
}

// Profile handles GET /dashboard/profile
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/profile.html", "پروفایل", nil)
}

// Static serves embedded assets under /static/.
func Static() (http.Handler, error) {
	staticFS, err := fs.Sub(assets.Static, "static")
	if err != nil {
		return nil, err
	}
	fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		fileServer.ServeHTTP(w, r)
	}), nil
}
