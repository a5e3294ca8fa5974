package httpkit

import (
	"net/http"

	"bear/internal/core/tenant"
	"bear/internal/platform/logger"
)

// TenantResolver maps a request path onto a tenant key
type TenantResolver interface {
	Resolve(path string) (string, bool)
}

// ResolveTenant attaches the tenant named by the first path segment
// reserved and malformed paths pass through untouched
func ResolveTenant(res TenantResolver) func(http.Handler) http.Handler {
	if res == nil {
		panic("httpkit.ResolveTenant: nil resolver")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, ok := res.Resolve(r.URL.Path)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			ctx := tenant.WithContext(r.Context(), tenant.Context{Key: key})
			ctx = logger.WithRequest(ctx, "", key)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
