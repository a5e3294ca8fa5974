// Package domain defines admin credentials and the login port
package domain

import (
	"context"
	stderrs "errors"
	"time"

	"bear/internal/core/identity"
	perr "bear/internal/platform/errors"
)

// ErrCredentialMismatch marks a failed login (unknown user or wrong password)
// it feeds logs and metrics; the login form never says which half was wrong
var ErrCredentialMismatch = perr.Wrap(
	stderrs.New("credential mismatch"),
	perr.ErrorCodeCredentialMismatch,
	"invalid username or password",
)

// Credential is one admin row as the login flow sees it
type Credential struct {
	ID           int64
	Username     string
	PasswordHash string
	Name         string
	Email        string
	Role         identity.Role
	Company      identity.TenantRef
	LastLoginAt  time.Time
}

// Identity projects the credential onto the request identity
// timestamps stay zero until a token is issued
func (c Credential) Identity() identity.Identity {
	return identity.Identity{
		Subject: c.Username,
		AdminID: c.ID,
		Tenant:  c.Company,
		Role:    c.Role,
	}
}

// CredentialStore is the storage surface for admin credentials
// FindByUsername returns perr NotFound on a miss
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (Credential, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

// AuthenticatorPort verifies a username and password pair
// ok=false with a nil error is a credential mismatch, not a failure
type AuthenticatorPort interface {
	Login(ctx context.Context, username, password string) (id identity.Identity, ok bool, err error)
}
