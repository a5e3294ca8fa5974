// Package repo provides Postgres bindings for domain.Repo
package repo

import (
	"context"
	"database/sql"

	"bear/internal/modkit/repokit"
	perr "bear/internal/platform/errors"
	"bear/internal/platform/store"
	"bear/internal/services/companies/domain"
)

type (
	// PG is a Postgres binder for domain.Repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

var _ domain.Repo = (*queries)(nil)

// NewPG returns a Postgres binder for Repo
func NewPG() repokit.Binder[domain.Repo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.Repo { return &queries{q: q} }

const selectCompany = `
	SELECT id, code, name, description, logo_url, primary_color, secondary_color,
	       address, phone, email, is_active, created_at, updated_at
	FROM company`

func scanCompany(r store.Row) (domain.Company, error) {
	var (
		c                                    domain.Company
		desc, logo, primary, secondary, addr sql.NullString
		phone, email                         sql.NullString
		updated                              sql.NullTime
	)
	if err := r.Scan(
		&c.ID, &c.Code, &c.Name, &desc, &logo, &primary, &secondary,
		&addr, &phone, &email, &c.Active, &c.CreatedAt, &updated,
	); err != nil {
		return domain.Company{}, err
	}
	c.Description = desc.String
	c.LogoURL = logo.String
	c.PrimaryColor = primary.String
	c.SecondaryColor = secondary.String
	c.Address = addr.String
	c.Phone = phone.String
	c.Email = email.String
	c.UpdatedAt = updated.Time
	return c, nil
}

// FindActiveByCode loads an active company by its URL code
func (r *queries) FindActiveByCode(ctx context.Context, code string) (domain.Company, error) {
	c, err := store.One(ctx, r.q, scanCompany, selectCompany+` WHERE code = $1 AND is_active`, code)
	if err != nil {
		return domain.Company{}, perr.FromPostgres(err, "select company by code")
	}
	return c, nil
}

// FindByID loads a company by id regardless of its active flag
func (r *queries) FindByID(ctx context.Context, id int64) (domain.Company, error) {
	c, err := store.One(ctx, r.q, scanCompany, selectCompany+` WHERE id = $1`, id)
	if err != nil {
		return domain.Company{}, perr.FromPostgres(err, "select company by id")
	}
	return c, nil
}

// ListAll returns every company ordered by name
func (r *queries) ListAll(ctx context.Context) ([]domain.Company, error) {
	cs, err := store.Many(ctx, r.q, scanCompany, selectCompany+` ORDER BY name, id`)
	if err != nil {
		return nil, perr.FromPostgres(err, "list companies")
	}
	return cs, nil
}
