package web

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/auth"
	assets "github.com/frahmantamala/cxm/web"
)

// Engine renders the embedded HTML templates.
type Engine struct {
	templates *template.Template
}

type NavItem struct {
	Path  string
	Label string
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CurrentPath string
	User        internal.Identity
	Nav         []NavItem
	Data        any
}

func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02 15:04")
		},
		"roleLabel": auth.RoleLabel,
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(assets.Templates, "templates/layouts/*.html", "templates/partials/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template with TemplateData.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return e.templates.ExecuteTemplate(w, name, data)
}
