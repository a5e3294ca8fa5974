// Package guard decides whether an identity may act on a tenant
package guard

import (
	"context"
	stderrs "errors"

	"bear/internal/core/identity"
	perr "bear/internal/platform/errors"
)

// ErrUnauthorized is matched by every denial
var ErrUnauthorized = stderrs.New("unauthorized")

// Decision labels an Authorize outcome for logs and metrics
type Decision string

const (
	Allowed   Decision = "allowed"
	Anonymous Decision = "anonymous"
	Forbidden Decision = "forbidden"
)

// Authorize checks id against the target tenant
// anonymous callers get a 401 class error, tenant mismatches a 403 class error
func Authorize(id identity.Identity, target identity.TenantRef) error {
	switch Decide(id, target) {
	case Allowed:
		return nil
	case Anonymous:
		return perr.Wrap(ErrUnauthorized, perr.ErrorCodeUnauthorized, "sign in required")
	default:
		return perr.Wrap(ErrUnauthorized, perr.ErrorCodeForbidden, "access to this company is not allowed")
	}
}

// Decide is Authorize without the error
func Decide(id identity.Identity, target identity.TenantRef) Decision {
	if id.Anonymous() {
		return Anonymous
	}
	if id.SuperAdmin() {
		return Allowed
	}
	want, ok := target.Get()
	if !ok {
		return Forbidden
	}
	have, ok := id.Tenant.Get()
	if !ok || have != want {
		return Forbidden
	}
	return Allowed
}

// AuthorizeContext reads the identity from ctx and authorizes it
func AuthorizeContext(ctx context.Context, target identity.TenantRef) error {
	id, _ := identity.FromContext(ctx)
	return Authorize(id, target)
}

// NeedsTenantSelection reports a super admin that has not picked a company
func NeedsTenantSelection(id identity.Identity) bool {
	return id.SuperAdmin() && !id.Tenant.Present()
}
