// Package identity holds the authenticated admin value carried per request
package identity

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// Role is the admin role carried in a token
type Role string

const (
	// RoleAdmin is bound to exactly one tenant
	RoleAdmin Role = "ADMIN"

	// RoleSuperAdmin may act on any tenant
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// ParseRole maps a stored or claimed role string to a Role
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleSuperAdmin:
		return RoleSuperAdmin, true
	default:
		return "", false
	}
}

// Valid reports whether r is a known role
func (r Role) Valid() bool { return r == RoleAdmin || r == RoleSuperAdmin }

// TenantRef is an optional tenant id
// the zero value means no tenant
type TenantRef struct {
	id int64
	ok bool
}

// Tenant returns a TenantRef bound to id
func Tenant(id int64) TenantRef { return TenantRef{id: id, ok: true} }

// NoTenant returns the empty TenantRef
func NoTenant() TenantRef { return TenantRef{} }

// Get returns the id and whether it is present
func (t TenantRef) Get() (int64, bool) { return t.id, t.ok }

// Present reports whether a tenant is bound
func (t TenantRef) Present() bool { return t.ok }

// Ptr returns a pointer copy of the id or nil
func (t TenantRef) Ptr() *int64 {
	if !t.ok {
		return nil
	}
	v := t.id
	return &v
}

// String renders the id or "none"
func (t TenantRef) String() string {
	if !t.ok {
		return "none"
	}
	return strconv.FormatInt(t.id, 10)
}

// Identity is the admin acting on one request
// the zero value is the anonymous identity
type Identity struct {
	Subject   string
	AdminID   int64
	Tenant    TenantRef
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Anonymous reports whether no admin is attached
func (i Identity) Anonymous() bool { return !i.Role.Valid() }

// SuperAdmin reports whether the identity holds the cross-tenant role
func (i Identity) SuperAdmin() bool { return i.Role == RoleSuperAdmin }

// Consistent reports whether the role and tenant binding agree
// a plain admin must always carry a tenant
func (i Identity) Consistent() bool {
	if !i.Role.Valid() || strings.TrimSpace(i.Subject) == "" {
		return false
	}
	return i.Role == RoleSuperAdmin || i.Tenant.Present()
}

type ctxKey struct{}

// WithContext attaches id to ctx
// anonymous identities are never attached
func WithContext(ctx context.Context, id Identity) context.Context {
	if id.Anonymous() {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the attached identity, if any
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok || id.Anonymous() {
		return Identity{}, false
	}
	return id, true
}
