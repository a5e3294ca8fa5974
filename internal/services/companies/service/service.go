// Package service provides read access to companies
package service

import (
	"context"
	"strings"

	"bear/internal/modkit/repokit"
	perr "bear/internal/platform/errors"
	"bear/internal/services/companies/domain"
)

// Svc implements domain.ReaderPort over a bound repo
type Svc struct {
	db     repokit.Queryer
	binder repokit.Binder[domain.Repo]
}

var _ domain.ReaderPort = (*Svc)(nil)

// New constructs the company service
func New(db repokit.Queryer, binder repokit.Binder[domain.Repo]) *Svc {
	if db == nil {
		panic("companies.Service requires a non-nil Queryer")
	}
	if binder == nil {
		panic("companies.Service requires a non-nil Repo binder")
	}
	return &Svc{db: db, binder: binder}
}

// FindActiveByCode resolves a public tenant key to its company
// blank codes never reach the store
func (s *Svc) FindActiveByCode(ctx context.Context, code string) (domain.Company, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.Company{}, perr.NotFoundf("company not found")
	}
	return s.binder.Bind(s.db).FindActiveByCode(ctx, code)
}

// FindByID loads a company by id
func (s *Svc) FindByID(ctx context.Context, id int64) (domain.Company, error) {
	if id <= 0 {
		return domain.Company{}, perr.NotFoundf("company not found")
	}
	return s.binder.Bind(s.db).FindByID(ctx, id)
}

// ListAll lists every company for the super admin views
func (s *Svc) ListAll(ctx context.Context) ([]domain.Company, error) {
	return s.binder.Bind(s.db).ListAll(ctx)
}
