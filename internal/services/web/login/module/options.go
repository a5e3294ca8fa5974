package module

import (
	"time"

	"bear/internal/platform/config"
	"bear/internal/platform/net/middleware"

	"golang.org/x/time/rate"
)

// Options controls the token cookie and the login throttle
type Options struct {
	CookieName   string
	CookieSecure bool

	// LoginRate is attempts per minute per client ip; zero disables throttling
	LoginRate  int
	LoginBurst int
}

// FromConfig reads AUTH_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	ac := cfg.Prefix("AUTH_")
	return Options{
		CookieName:   ac.MayString("COOKIE_NAME", middleware.DefaultCookieName),
		CookieSecure: ac.MayBool("COOKIE_SECURE", false),
		LoginRate:    ac.MayInt("LOGIN_RATE", 5),
		LoginBurst:   ac.MayInt("LOGIN_BURST", 10),
	}
}

// Limit converts LoginRate into a token bucket refill rate
func (o Options) Limit() rate.Limit {
	if o.LoginRate <= 0 {
		return rate.Inf
	}
	return rate.Every(time.Minute / time.Duration(o.LoginRate))
}
