package httpkit

import (
	"net/http"

	"bear/internal/core/identity"
	"bear/internal/core/tenant"
	perr "bear/internal/platform/errors"
	phttp "bear/internal/platform/net/http"
)

// Identity returns the admin attached to the request
func Identity(r *http.Request) (identity.Identity, error) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		return identity.Identity{}, perr.Unauthorizedf("sign in required")
	}
	return id, nil
}

// MustIdentity returns the attached admin or panics
// only use on routes behind RequireIdentity
func MustIdentity(r *http.Request) identity.Identity {
	id, err := Identity(r)
	if err != nil {
		panic(err)
	}
	return id
}

// TenantKey returns the tenant key resolved from the request path
func TenantKey(r *http.Request) (string, error) {
	tc, ok := tenant.FromContext(r.Context())
	if !ok {
		return "", tenant.ErrTenantNotFound
	}
	return tc.Key, nil
}

// RequireIdentity runs deny for anonymous callers instead of next
// a nil deny writes a 401 envelope
func RequireIdentity(deny http.Handler) func(http.Handler) http.Handler {
	if deny == nil {
		deny = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			phttp.RespondError(w, r, perr.Unauthorizedf("sign in required"))
		})
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := identity.FromContext(r.Context()); !ok {
				deny.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole answers 401 for anonymous callers and 403 for any other role
func RequireRole(role identity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := Identity(r)
			if err != nil {
				phttp.RespondError(w, r, err)
				return
			}
			if id.Role != role {
				phttp.RespondError(w, r, perr.Forbiddenf("%s only", role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
