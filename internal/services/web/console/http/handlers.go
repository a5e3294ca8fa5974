// Package http provides the tenant scoped admin console pages
package http

import (
	stdhttp "net/http"
	"strconv"

	"bear/internal/core/guard"
	"bear/internal/core/identity"
	"bear/internal/modkit/httpkit"
	perr "bear/internal/platform/errors"
	"bear/internal/platform/logger"
	"bear/internal/platform/metrics"
	"bear/internal/services/companies/domain"
	"bear/internal/services/web/view"

	"github.com/go-chi/chi/v5"
)

// Error codes carried in ?error= on console redirects
const (
	ErrAccessDenied    = "access_denied"
	ErrJWTNotSupported = "jwt_not_supported"
)

var notices = map[string]string{
	ErrAccessDenied:    "You do not have access to that company.",
	ErrJWTNotSupported: "Switching company is not supported yet. Sign in again to change company.",
}

// Deps are the handler dependencies
type Deps struct {
	Companies domain.ReaderPort
	View      view.Renderer
	Metrics   *metrics.Auth
}

type handlers struct {
	d Deps
}

// Register mounts the console routes; callers mount it inside the /admin scope
// anonymous callers are sent to the login form
func Register(r httpkit.Router, d Deps) {
	if d.Companies == nil || d.View == nil {
		panic("console http: Companies and View are required")
	}
	h := &handlers{d: d}

	toLogin := stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		stdhttp.Redirect(w, r, "/admin/login", stdhttp.StatusSeeOther)
	})
	httpkit.Protected(r, toLogin, func(pr httpkit.Router) {
		pr.Get("/", h.index)
		pr.Get("/dashboard", h.dashboard)
		pr.Get("/select-company", h.selectCompany)
		pr.Post("/switch-company", h.switchCompany)
		pr.Get("/companies/{companyID}", h.company)
	})
}

func (h *handlers) index(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	stdhttp.Redirect(w, r, "/admin/dashboard", stdhttp.StatusSeeOther)
}

func (h *handlers) dashboard(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	id := httpkit.MustIdentity(r)
	if guard.NeedsTenantSelection(id) {
		stdhttp.Redirect(w, r, "/admin/select-company", stdhttp.StatusSeeOther)
		return
	}
	if err := h.authorize(r, id, id.Tenant); err != nil {
		stdhttp.Redirect(w, r, "/admin/login", stdhttp.StatusSeeOther)
		return
	}

	companyID, _ := id.Tenant.Get()
	c, err := h.d.Companies.FindByID(r.Context(), companyID)
	if err != nil {
		h.renderErr(w, r, err)
		return
	}

	data := view.DashboardData{
		Company:    c,
		Subject:    id.Subject,
		Role:       string(id.Role),
		SuperAdmin: id.SuperAdmin(),
		Error:      notice(r),
	}
	if id.SuperAdmin() {
		if data.Companies, err = h.d.Companies.ListAll(r.Context()); err != nil {
			h.renderErr(w, r, err)
			return
		}
	}
	h.d.View.Render(w, r, stdhttp.StatusOK, view.Dashboard, data)
}

func (h *handlers) selectCompany(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	id := httpkit.MustIdentity(r)
	if !id.SuperAdmin() {
		stdhttp.Redirect(w, r, "/admin/dashboard", stdhttp.StatusSeeOther)
		return
	}
	all, err := h.d.Companies.ListAll(r.Context())
	if err != nil {
		h.renderErr(w, r, err)
		return
	}
	h.d.View.Render(w, r, stdhttp.StatusOK, view.SelectCompany, view.SelectCompanyData{
		Companies: all,
		Error:     notice(r),
	})
}

// switchCompany would need a fresh token bound to the chosen company
// until that exists a super admin is sent back to the picker
func (h *handlers) switchCompany(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	id := httpkit.MustIdentity(r)
	if !id.SuperAdmin() {
		stdhttp.Redirect(w, r, "/admin/dashboard", stdhttp.StatusSeeOther)
		return
	}
	logger.C(r.Context()).Warn().Msg("console: company switch requested, sign in again instead")
	stdhttp.Redirect(w, r, "/admin/select-company?error="+ErrJWTNotSupported, stdhttp.StatusSeeOther)
}

func (h *handlers) company(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	id := httpkit.MustIdentity(r)
	companyID, err := strconv.ParseInt(chi.URLParam(r, "companyID"), 10, 64)
	if err != nil || companyID <= 0 {
		h.d.View.Render(w, r, stdhttp.StatusNotFound, view.NotFound, nil)
		return
	}
	if err := h.authorize(r, id, identity.Tenant(companyID)); err != nil {
		stdhttp.Redirect(w, r, "/admin/dashboard?error="+ErrAccessDenied, stdhttp.StatusSeeOther)
		return
	}
	c, err := h.d.Companies.FindByID(r.Context(), companyID)
	if err != nil {
		h.renderErr(w, r, err)
		return
	}
	h.d.View.Render(w, r, stdhttp.StatusOK, view.CompanySettings, view.CompanyData{Company: c})
}

func (h *handlers) authorize(r *stdhttp.Request, id identity.Identity, target identity.TenantRef) error {
	h.d.Metrics.AuthzDecision(string(guard.Decide(id, target)))
	err := guard.Authorize(id, target)
	if err != nil {
		logger.C(r.Context()).Info().Err(err).Str("target", target.String()).Msg("console: access denied")
	}
	return err
}

func (h *handlers) renderErr(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		h.d.View.Render(w, r, stdhttp.StatusNotFound, view.NotFound, nil)
		return
	}
	logger.C(r.Context()).Error().Err(err).Msg("console: company lookup failed")
	stdhttp.Error(w, "internal error", stdhttp.StatusInternalServerError)
}

func notice(r *stdhttp.Request) string {
	code := r.URL.Query().Get("error")
	if code == "" {
		return ""
	}
	if msg, ok := notices[code]; ok {
		return msg
	}
	return "Something went wrong."
}
