// Package repo provides Postgres bindings for domain.CredentialStore
package repo

import (
	"context"
	"database/sql"
	"time"

	"bear/internal/core/identity"
	"bear/internal/modkit/repokit"
	perr "bear/internal/platform/errors"
	"bear/internal/platform/store"
	"bear/internal/services/admins/domain"
)

type (
	// PG is a Postgres binder for domain.CredentialStore
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

var _ domain.CredentialStore = (*queries)(nil)

// NewPG returns a Postgres binder for CredentialStore
func NewPG() repokit.Binder[domain.CredentialStore] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.CredentialStore { return &queries{q: q} }

func scanCredential(r store.Row) (domain.Credential, error) {
	var (
		c           domain.Credential
		role        string
		name, email sql.NullString
		companyID   sql.NullInt64
		lastLogin   sql.NullTime
	)
	if err := r.Scan(&c.ID, &c.Username, &c.PasswordHash, &name, &email, &role, &companyID, &lastLogin); err != nil {
		return domain.Credential{}, err
	}
	parsed, ok := identity.ParseRole(role)
	if !ok {
		return domain.Credential{}, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "admin %d has unknown role %q", c.ID, role), "role")
	}
	c.Role = parsed
	c.Name = name.String
	c.Email = email.String
	if companyID.Valid {
		c.Company = identity.Tenant(companyID.Int64)
	}
	c.LastLoginAt = lastLogin.Time
	return c, nil
}

// FindByUsername loads one admin by login name
func (r *queries) FindByUsername(ctx context.Context, username string) (domain.Credential, error) {
	c, err := store.One(ctx, r.q, scanCredential, `
		SELECT id, username, password_hash, name, email, role, company_id, last_login_at
		FROM admin
		WHERE username = $1`, username)
	if err != nil {
		return domain.Credential{}, perr.FromPostgres(err, "select admin by username")
	}
	return c, nil
}

// TouchLastLogin stamps the last successful login
func (r *queries) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	err := store.ExecOne(ctx, r.q, `UPDATE admin SET last_login_at = $2 WHERE id = $1`, id, at.UTC())
	return perr.FromPostgres(err, "touch admin last login")
}
