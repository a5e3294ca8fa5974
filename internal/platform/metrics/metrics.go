// Package metrics holds the prometheus counters for the auth pipeline
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth counts authentication, authorization and login outcomes
// label values are fixed small sets; never tenant keys or usernames
type Auth struct {
	reg *prometheus.Registry

	tokenValidations *prometheus.CounterVec
	logins           *prometheus.CounterVec
	authzDecisions   *prometheus.CounterVec
	loginThrottled   prometheus.Counter
}

// NewAuth builds the counters on a private registry
// withRuntime adds the go and process collectors, which the api binary wants and tests do not
func NewAuth(withRuntime bool) *Auth {
	a := &Auth{
		reg: prometheus.NewRegistry(),
		tokenValidations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bear_token_validations_total",
				Help: "Requests seen by the authentication middleware by outcome",
			},
			[]string{"state"},
		),
		logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bear_logins_total",
				Help: "Login attempts by outcome",
			},
			[]string{"outcome"},
		),
		authzDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bear_authz_decisions_total",
				Help: "Tenant authorization decisions by result",
			},
			[]string{"decision"},
		),
		loginThrottled: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "bear_login_throttled_total",
				Help: "Login attempts rejected by the per ip limiter",
			},
		),
	}
	a.reg.MustRegister(a.tokenValidations, a.logins, a.authzDecisions, a.loginThrottled)
	if withRuntime {
		a.reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return a
}

// Registry exposes the registry for gathering in tests
func (a *Auth) Registry() *prometheus.Registry { return a.reg }

// Handler serves the registry in the prometheus text format
func (a *Auth) Handler() http.Handler {
	return promhttp.HandlerFor(a.reg, promhttp.HandlerOpts{Registry: a.reg})
}

// TokenValidation records one middleware outcome (skipped, no_token, valid, invalid)
func (a *Auth) TokenValidation(state string) {
	if a == nil {
		return
	}
	a.tokenValidations.WithLabelValues(state).Inc()
}

// Login records one login outcome (success, mismatch, invalid_form, error)
func (a *Auth) Login(outcome string) {
	if a == nil {
		return
	}
	a.logins.WithLabelValues(outcome).Inc()
}

// AuthzDecision records one guard decision (allowed, anonymous, forbidden)
func (a *Auth) AuthzDecision(decision string) {
	if a == nil {
		return
	}
	a.authzDecisions.WithLabelValues(decision).Inc()
}

// LoginThrottled records a login rejected by the limiter
func (a *Auth) LoginThrottled() {
	if a == nil {
		return
	}
	a.loginThrottled.Inc()
}
