// Package tenant derives the tenant key from a request path
package tenant

import (
	"context"
	stderrs "errors"
	"regexp"
	"strings"

	perr "bear/internal/platform/errors"
	pstrings "bear/internal/platform/strings"
)

// DefaultReserved are path prefixes that never name a tenant
var DefaultReserved = []string{
	"/admin",
	"/superadmin",
	"/css",
	"/js",
	"/images",
	"/favicon.ico",
	"/health",
	"/metrics",
	"/api",
}

var keyPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ErrTenantNotFound is returned when a key names no active company
var ErrTenantNotFound = perr.Wrap(stderrs.New("tenant not found"), perr.ErrorCodeNotFound, "not found")

// Resolver maps request paths to tenant keys
// it holds only its reserved list and is safe to share
type Resolver struct {
	reserved []string
}

// NewResolver builds a Resolver; with no prefixes DefaultReserved applies
func NewResolver(reserved ...string) Resolver {
	if len(reserved) == 0 {
		reserved = DefaultReserved
	}
	cp := make([]string, 0, len(reserved))
	for _, p := range reserved {
		if p = strings.TrimSpace(p); p != "" {
			cp = append(cp, "/"+strings.Trim(p, "/"))
		}
	}
	return Resolver{reserved: cp}
}

// Reserved returns a copy of the reserved prefixes in match order
func (r Resolver) Reserved() []string {
	return append([]string(nil), r.reserved...)
}

// Resolve returns the tenant key named by the first path segment
// reserved prefixes and segments outside [a-z0-9-] yield false
func (r Resolver) Resolve(path string) (string, bool) {
	if path == "" || path == "/" {
		return "", false
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if pstrings.HasAnyPathPrefix(path, r.reserved) {
		return "", false
	}
	seg := path[1:]
	if i := strings.IndexByte(seg, '/'); i >= 0 {
		seg = seg[:i]
	}
	if !keyPattern.MatchString(seg) {
		return "", false
	}
	return seg, true
}

// Context is the tenant a request is scoped to
type Context struct {
	Key string
}

type ctxKey struct{}

// WithContext stores tc on ctx; an empty key leaves ctx unchanged
func WithContext(ctx context.Context, tc Context) context.Context {
	if tc.Key == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, tc)
}

// FromContext returns the tenant attached to ctx
func FromContext(ctx context.Context) (Context, bool) {
	tc, ok := ctx.Value(ctxKey{}).(Context)
	return tc, ok
}
