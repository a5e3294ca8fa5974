// Package module wires the login transport into the admin console
package module

import (
	modkit "bear/internal/modkit"
	"bear/internal/modkit/httpkit"
	"bear/internal/platform/metrics"
	"bear/internal/platform/net/middleware"

	admindom "bear/internal/services/admins/domain"
	loginhttp "bear/internal/services/web/login/http"
	"bear/internal/services/web/view"
)

// Ports declares the collaborators this module needs injected
type Ports struct {
	Auth     admindom.AuthenticatorPort
	Tokens   loginhttp.Issuer
	View     view.Renderer
	Metrics  *metrics.Auth
	Throttle *middleware.RateLimiter
}

// New constructs the login module; Auth, Tokens and View must be injected with WithPorts
// it has no prefix of its own and is mounted inside the /admin scope next to the console
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("login")}, opts...)...)

	p, _ := b.Ports.(Ports)
	if p.Auth == nil || p.Tokens == nil || p.View == nil {
		panic("login module requires Auth, Tokens and View ports")
	}
	cfg := FromConfig(deps.Cfg)
	return modkit.Routed(b, func(r httpkit.Router) {
		loginhttp.Register(r, loginhttp.Deps{
			Auth:     p.Auth,
			Tokens:   p.Tokens,
			View:     p.View,
			Cookie:   loginhttp.Cookie{Name: cfg.CookieName, Secure: cfg.CookieSecure},
			Throttle: p.Throttle,
			Metrics:  p.Metrics,
		})
	})
}
