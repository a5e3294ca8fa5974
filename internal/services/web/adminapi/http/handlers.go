// Package http provides the admin JSON api
package http

import (
	stdhttp "net/http"
	"strconv"
	"time"

	"bear/internal/core/guard"
	"bear/internal/core/identity"
	"bear/internal/modkit/httpkit"
	perr "bear/internal/platform/errors"
	"bear/internal/platform/logger"
	"bear/internal/platform/metrics"
	"bear/internal/services/companies/domain"

	"github.com/go-chi/chi/v5"
)

// Deps are the handler dependencies
type Deps struct {
	Companies domain.ReaderPort
	Metrics   *metrics.Auth
}

// MeResponse summarizes the calling admin
type MeResponse struct {
	AdminID              int64     `json:"adminId"`
	Subject              string    `json:"subject"`
	Role                 string    `json:"role"`
	CompanyID            *int64    `json:"companyId"`
	NeedsTenantSelection bool      `json:"needsTenantSelection"`
	ExpiresAt            time.Time `json:"expiresAt"`
}

type handlers struct {
	d Deps
}

// Register mounts the api routes
// anonymous callers get 401 and tenant mismatches 403, both as envelopes
func Register(r httpkit.Router, d Deps) {
	if d.Companies == nil {
		panic("adminapi http: Companies is required")
	}
	h := &handlers{d: d}
	httpkit.Protected(r, nil, func(pr httpkit.Router) {
		httpkit.Get(pr, "/me", h.me)
		httpkit.Get(pr, "/companies/{companyID}", h.company)
	})
}

// @Summary The calling admin
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MeResponse "ok"
// @Router /admin/me [get]
func (h *handlers) me(r *stdhttp.Request) (any, error) {
	id, err := httpkit.Identity(r)
	if err != nil {
		return nil, err
	}
	return MeResponse{
		AdminID:              id.AdminID,
		Subject:              id.Subject,
		Role:                 string(id.Role),
		CompanyID:            id.Tenant.Ptr(),
		NeedsTenantSelection: guard.NeedsTenantSelection(id),
		ExpiresAt:            id.ExpiresAt.UTC(),
	}, nil
}

// @Summary A company the caller may act on
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param companyID path int true "Company id"
// @Success 200 {object} domain.Company "ok"
// @Router /admin/companies/{companyID} [get]
func (h *handlers) company(r *stdhttp.Request) (any, error) {
	id, err := httpkit.Identity(r)
	if err != nil {
		return nil, err
	}
	companyID, err := strconv.ParseInt(chi.URLParam(r, "companyID"), 10, 64)
	if err != nil || companyID <= 0 {
		return nil, perr.NotFoundf("company not found")
	}

	target := identity.Tenant(companyID)
	h.d.Metrics.AuthzDecision(string(guard.Decide(id, target)))
	if err := guard.Authorize(id, target); err != nil {
		logger.C(r.Context()).Info().Err(err).Int64("target", companyID).Msg("adminapi: access denied")
		return nil, err
	}
	return h.d.Companies.FindByID(r.Context(), companyID)
}
