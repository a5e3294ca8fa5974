package middleware

import (
	"net/http"
	"strings"

	"bear/internal/core/identity"
	"bear/internal/platform/logger"
	pstrings "bear/internal/platform/strings"
)

// DefaultCookieName carries the token when no Authorization header is sent
const DefaultCookieName = "JWT-TOKEN"

// DefaultAuthSkip are prefixes that bypass token inspection entirely
var DefaultAuthSkip = []string{"/css", "/js", "/images", "/favicon.ico", "/admin/login"}

// TokenValidator turns a raw token into an identity
type TokenValidator interface {
	Validate(raw string) (identity.Identity, error)
}

// AuthState is the outcome of inspecting one request
type AuthState string

const (
	StateSkipped AuthState = "skipped"
	StateNoToken AuthState = "no_token"
	StateValid   AuthState = "valid"
	StateInvalid AuthState = "invalid"
)

// AuthOptions configures Authenticate
type AuthOptions struct {
	CookieName string
	Skip       []string
	Observe    func(AuthState)
}

// Authenticate attaches the caller identity when a valid token is presented
// it never writes a response; missing or bad tokens continue anonymous
func Authenticate(v TokenValidator, opt AuthOptions) func(http.Handler) http.Handler {
	if v == nil {
		panic("middleware.Authenticate: nil validator")
	}
	cookie := strings.TrimSpace(opt.CookieName)
	if cookie == "" {
		cookie = DefaultCookieName
	}
	skip := pstrings.IfEmpty(opt.Skip, DefaultAuthSkip)
	observe := opt.Observe
	if observe == nil {
		observe = func(AuthState) {}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if pstrings.HasAnyPathPrefix(r.URL.Path, skip) {
				observe(StateSkipped)
				next.ServeHTTP(w, r)
				return
			}

			raw, found := bearerOrCookie(r, cookie)
			if !found {
				observe(StateNoToken)
				next.ServeHTTP(w, r)
				return
			}

			id, err := v.Validate(raw)

			// client went away while we were validating
			if r.Context().Err() != nil {
				return
			}

			if err != nil {
				observe(StateInvalid)
				logger.C(r.Context()).Debug().
					Err(err).
					Str("path", r.URL.Path).
					Msg("auth: token rejected, continuing anonymous")
				next.ServeHTTP(w, r)
				return
			}

			observe(StateValid)
			ctx := identity.WithContext(r.Context(), id)
			ctx = logger.WithActor(ctx, id.AdminID, string(id.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerOrCookie prefers the Authorization header and only then looks at the cookie
// a Bearer scheme with no value still counts as a presented token
func bearerOrCookie(r *http.Request, cookie string) (string, bool) {
	if h := strings.TrimSpace(r.Header.Get("Authorization")); h != "" {
		scheme, rest, _ := strings.Cut(h, " ")
		if strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(rest), true
		}
	}
	if c, err := r.Cookie(cookie); err == nil && c.Value != "" {
		return c.Value, true
	}
	return "", false
}
