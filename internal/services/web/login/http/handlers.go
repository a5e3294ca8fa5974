// Package http provides the admin sign in and sign out transport
package http

import (
	stdhttp "net/http"
	"time"

	"bear/internal/core/identity"
	"bear/internal/modkit/httpkit"
	"bear/internal/platform/logger"
	"bear/internal/platform/metrics"
	"bear/internal/platform/net/http/bind"
	"bear/internal/platform/net/middleware"
	"bear/internal/services/admins/domain"
	"bear/internal/services/web/view"
)

const (
	msgFailed    = "Invalid username or password."
	msgThrottled = "Too many sign in attempts. Try again shortly."
)

// Issuer mints the token set as the session cookie
type Issuer interface {
	Issue(subject string, adminID int64, tenant identity.TenantRef, role identity.Role, now time.Time) (string, error)
	Lifetime() time.Duration
}

// Cookie controls the token cookie attributes that vary by deployment
type Cookie struct {
	Name   string
	Secure bool
}

// Deps are the handler dependencies
type Deps struct {
	Auth     domain.AuthenticatorPort
	Tokens   Issuer
	View     view.Renderer
	Cookie   Cookie
	Throttle *middleware.RateLimiter // nil disables throttling
	Metrics  *metrics.Auth
	Now      func() time.Time
}

type loginForm struct {
	Username string `form:"username" validate:"required,max=100"`
	Password string `form:"password" validate:"required,max=100"`
}

type handlers struct {
	d Deps
}

// Register mounts the login routes; callers mount it inside the /admin scope
func Register(r httpkit.Router, d Deps) {
	if d.Auth == nil || d.Tokens == nil || d.View == nil {
		panic("login http: Auth, Tokens and View are required")
	}
	if d.Cookie.Name == "" {
		d.Cookie.Name = middleware.DefaultCookieName
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handlers{d: d}

	r.Get("/login", h.form)
	r.Group(func(g httpkit.Router) {
		if d.Throttle != nil {
			g.Use(d.Throttle.Limit(stdhttp.HandlerFunc(h.throttled)))
		}
		g.Post("/login", h.login)
	})
	r.Get("/logout", h.logout)
	r.Post("/logout", h.logout)
}

func (h *handlers) form(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	q := r.URL.Query()
	data := view.LoginData{}
	if q.Has("logout") {
		data.SignedOut = true
	}
	if q.Has("error") {
		data.Error = msgFailed
	}
	h.d.View.Render(w, r, stdhttp.StatusOK, view.Login, data)
}

func (h *handlers) login(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()
	log := logger.C(ctx)

	in, err := bind.ParseForm[loginForm](w, r, bind.FormOptions{MaxBytes: 16 << 10})
	if err != nil {
		h.d.Metrics.Login("invalid_form")
		log.Debug().Err(err).Msg("login: form rejected")
		h.fail(w, r, stdhttp.StatusOK, in.Username, msgFailed)
		return
	}

	id, ok, err := h.d.Auth.Login(ctx, in.Username, in.Password)
	switch {
	case err != nil:
		h.d.Metrics.Login("error")
		log.Error().Err(err).Msg("login: credential lookup failed")
		h.fail(w, r, stdhttp.StatusOK, in.Username, msgFailed)
		return
	case !ok:
		h.d.Metrics.Login("mismatch")
		log.Info().Err(domain.ErrCredentialMismatch).Str("username", in.Username).Msg("login: rejected")
		h.fail(w, r, stdhttp.StatusOK, in.Username, msgFailed)
		return
	}

	tok, err := h.d.Tokens.Issue(id.Subject, id.AdminID, id.Tenant, id.Role, h.d.Now())
	if err != nil {
		h.d.Metrics.Login("error")
		log.Error().Err(err).Int64("admin_id", id.AdminID).Msg("login: token issue failed")
		h.fail(w, r, stdhttp.StatusOK, in.Username, msgFailed)
		return
	}

	stdhttp.SetCookie(w, h.cookie(tok, int(h.d.Tokens.Lifetime()/time.Second)))
	h.d.Metrics.Login("success")
	log.Info().
		Int64("admin_id", id.AdminID).
		Str("role", string(id.Role)).
		Str("company_id", id.Tenant.String()).
		Msg("login: signed in")
	stdhttp.Redirect(w, r, "/admin/dashboard", stdhttp.StatusSeeOther)
}

func (h *handlers) throttled(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	h.d.Metrics.LoginThrottled()
	logger.C(r.Context()).Warn().Msg("login: throttled")
	h.fail(w, r, stdhttp.StatusTooManyRequests, "", msgThrottled)
}

func (h *handlers) logout(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	stdhttp.SetCookie(w, h.cookie("", -1))
	stdhttp.Redirect(w, r, "/admin/login?logout", stdhttp.StatusSeeOther)
}

func (h *handlers) fail(w stdhttp.ResponseWriter, r *stdhttp.Request, status int, username, msg string) {
	h.d.View.Render(w, r, status, view.Login, view.LoginData{Username: username, Error: msg})
}

// cookie builds the token cookie; a negative maxAge expires it
func (h *handlers) cookie(value string, maxAge int) *stdhttp.Cookie {
	return &stdhttp.Cookie{
		Name:     h.d.Cookie.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.d.Cookie.Secure,
		SameSite: stdhttp.SameSiteLaxMode,
	}
}
