// Package http provides the public tenant pages
package http

import (
	stdhttp "net/http"

	"bear/internal/modkit/httpkit"
	perr "bear/internal/platform/errors"
	"bear/internal/platform/logger"
	"bear/internal/services/companies/domain"
	"bear/internal/services/web/view"
)

// Deps are the handler dependencies
type Deps struct {
	Companies domain.ReaderPort
	View      view.Renderer
}

type handlers struct {
	d Deps
}

// Register mounts the root redirect and the /{tenantKey} pages
// static admin and api routes take precedence over the key param
func Register(r httpkit.Router, d Deps) {
	if d.Companies == nil || d.View == nil {
		panic("site http: Companies and View are required")
	}
	h := &handlers{d: d}
	r.Get("/", h.root)
	r.Get("/{tenantKey}", h.home)
	r.Get("/{tenantKey}/*", h.home)
}

func (h *handlers) root(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	stdhttp.Redirect(w, r, "/admin/login", stdhttp.StatusSeeOther)
}

// home renders the tenant landing page
// the key comes from the tenant middleware, never from the route param
func (h *handlers) home(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	key, err := httpkit.TenantKey(r)
	if err != nil {
		h.notFound(w, r)
		return
	}
	c, err := h.d.Companies.FindActiveByCode(r.Context(), key)
	switch {
	case perr.IsCode(err, perr.ErrorCodeNotFound):
		logger.C(r.Context()).Debug().Msg("site: unknown or inactive tenant")
		h.notFound(w, r)
		return
	case err != nil:
		logger.C(r.Context()).Error().Err(err).Msg("site: tenant lookup failed")
		stdhttp.Error(w, "internal error", stdhttp.StatusInternalServerError)
		return
	}
	h.d.View.Render(w, r, stdhttp.StatusOK, view.TenantHome, view.CompanyData{Company: c})
}

func (h *handlers) notFound(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	h.d.View.Render(w, r, stdhttp.StatusNotFound, view.NotFound, nil)
}
