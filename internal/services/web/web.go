// Package web mounts the admin console, the admin api and the public tenant site
package web

import (
	"context"
	"time"

	"bear/internal/core/identity"
	"bear/internal/core/tenant"
	"bear/internal/platform/config"
	"bear/internal/platform/metrics"
	phttp "bear/internal/platform/net/http"
	"bear/internal/platform/net/middleware"

	"bear/internal/modkit"
	"bear/internal/modkit/httpkit"
	"bear/internal/modkit/module"
	"bear/internal/modkit/repokit"
	"bear/internal/modkit/swaggerkit"

	admindom "bear/internal/services/admins/domain"
	adminsmod "bear/internal/services/admins/module"
	compdom "bear/internal/services/companies/domain"
	companiesmod "bear/internal/services/companies/module"
	apimod "bear/internal/services/web/adminapi/module"
	consolemod "bear/internal/services/web/console/module"
	loginmod "bear/internal/services/web/login/module"
	metamod "bear/internal/services/web/meta/module"
	sitemod "bear/internal/services/web/site/module"
	"bear/internal/services/web/view"
)

// Tokens issues and validates admin tokens; *token.Codec satisfies it
type Tokens interface {
	Issue(subject string, adminID int64, tenant identity.TenantRef, role identity.Role, now time.Time) (string, error)
	Validate(raw string) (identity.Identity, error)
	Lifetime() time.Duration
}

// Options are the web service options
type Options struct {
	Config  config.Conf
	PG      repokit.TxRunner
	Tokens  Tokens
	Metrics *metrics.Auth
	Service string

	// Auth and Companies replace the postgres backed services when set
	Auth      admindom.AuthenticatorPort
	Companies compdom.ReaderPort
}

var assetPrefixes = []string{"/health", "/metrics", "/css", "/js", "/images", "/favicon.ico"}

// Mount mounts the whole pipeline onto r
// ctx bounds background work such as the login throttle sweeper
func Mount(ctx context.Context, r phttp.Router, opt Options) {
	if opt.Tokens == nil {
		panic("web: Tokens is required")
	}
	if opt.Metrics == nil {
		opt.Metrics = metrics.NewAuth(false)
	}

	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.PG,
	}
	set := FromConfig(opt.Config)

	// storage backed modules own the ports the transports consume
	auth, companies := opt.Auth, opt.Companies
	if auth == nil {
		am := adminsmod.New(deps, adminsmod.FromConfig(deps.Cfg))
		module.Register(am.Name(), am.Ports())
		auth = module.MustPortsOf[adminsmod.Ports](am).Auth
	}
	if companies == nil {
		cm := companiesmod.New(deps)
		module.Register(cm.Name(), cm.Ports())
	} else {
		module.Register("companies", companiesmod.Ports{Reader: companies})
	}
	// injected and built readers are both resolved through the registry
	cp, ok := module.Lookup[companiesmod.Ports]("companies")
	if !ok || cp.Reader == nil {
		panic("web: companies ports are not registered")
	}
	companies = cp.Reader

	pages := view.MustNew()

	loginOpts := loginmod.FromConfig(deps.Cfg)
	var throttle *middleware.RateLimiter
	if loginOpts.LoginRate > 0 {
		throttle = middleware.NewRateLimiter(ctx, loginOpts.Limit(), loginOpts.LoginBurst)
	}

	// order matters: tenant and identity are resolved after the common stack and before any route
	r.Use(httpkit.CommonStack(middleware.AccessLogOptions{Slow: set.SlowRequest, Skip: assetPrefixes}, set.TrustedProxies)...)
	r.Use(middleware.Heartbeat("/health"))
	r.Use(httpkit.ResolveTenant(tenant.NewResolver(set.Reserved...)))
	r.Use(httpkit.Authenticate(opt.Tokens, middleware.AuthOptions{
		CookieName: loginOpts.CookieName,
		Skip:       set.AuthSkip,
		Observe: func(s middleware.AuthState) {
			opt.Metrics.TokenValidation(string(s))
		},
	}))

	r.Handle("/metrics", opt.Metrics.Handler())
	r.Handle("/css/*", view.Assets())
	swaggerkit.Mount(r, set.Swagger)
	r.Group(func(g phttp.Router) {
		g.Use(httpkit.RequireRole(identity.RoleSuperAdmin))
		phttp.MountProfiler(g, "/api/debug", set.Profiler)
	})

	admin := []module.Module{
		loginmod.New(deps, modkit.WithPorts(loginmod.Ports{
			Auth:     auth,
			Tokens:   opt.Tokens,
			View:     pages,
			Metrics:  opt.Metrics,
			Throttle: throttle,
		})),
		consolemod.New(deps, modkit.WithPorts(consolemod.Ports{
			Companies: companies,
			View:      pages,
			Metrics:   opt.Metrics,
		})),
	}
	r.Route("/admin", func(ar phttp.Router) {
		for _, m := range admin {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(ar)
		}
	})

	// credentialed cors applies to the admin api only
	api := apimod.New(deps,
		modkit.WithPorts(apimod.Ports{
			Companies: companies,
			Metrics:   opt.Metrics,
		}),
		modkit.WithMiddlewares(httpkit.APICORS(set.CORSOrigins)),
	)
	apiMods := []module.Module{metamod.New(deps, opt.Service), api}
	httpkit.MountAPIV1(r, nil, func(v1 httpkit.Router) {
		for _, m := range apiMods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(v1)
		}
	})

	site := sitemod.New(deps, modkit.WithPorts(sitemod.Ports{
		Companies: companies,
		View:      pages,
	}))
	module.Register(site.Name(), site.Ports())
	site.MountRoutes(r)
}
