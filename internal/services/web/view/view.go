// Package view renders the server side html pages
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"bear/internal/platform/logger"
)

//go:embed templates/*.html
var files embed.FS

// Page names a template
type Page string

const (
	Login           Page = "login"
	Dashboard       Page = "dashboard"
	SelectCompany   Page = "select_company"
	CompanySettings Page = "company"
	TenantHome      Page = "tenant_home"
	NotFound        Page = "not_found"
)

var pages = []Page{Login, Dashboard, SelectCompany, CompanySettings, TenantHome, NotFound}

// Renderer writes a page with a status
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, page Page, data any)
}

// HTML holds one parsed template set per page, each sharing the layout
type HTML struct {
	sets map[Page]*template.Template
}

// New parses every page against the shared layout
func New() (*HTML, error) {
	h := &HTML{sets: make(map[Page]*template.Template, len(pages))}
	for _, p := range pages {
		t, err := template.New("layout.html").ParseFS(files, "templates/layout.html", "templates/"+string(p)+".html")
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", p, err)
		}
		h.sets[p] = t
	}
	return h, nil
}

// MustNew is New that panics
func MustNew() *HTML {
	h, err := New()
	if err != nil {
		panic(err)
	}
	return h
}

// Render executes page into a buffer so a template error never leaves a half written body
func (h *HTML) Render(w http.ResponseWriter, r *http.Request, status int, page Page, data any) {
	t, ok := h.sets[page]
	if !ok {
		logger.C(r.Context()).Error().Str("page", string(page)).Msg("view: unknown page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		logger.C(r.Context()).Error().Err(err).Str("page", string(page)).Msg("view: render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
