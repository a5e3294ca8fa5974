package httpkit

import (
	"net/http"

	"bear/internal/platform/net/middleware"
)

// CommonStack returns the baseline middleware every route family shares
func CommonStack(log middleware.AccessLogOptions, trusted middleware.Proxies) []func(http.Handler) http.Handler {
	return middleware.Defaults(log, trusted)
}

// Authenticate wires token inspection with the given validator
func Authenticate(v middleware.TokenValidator, opt middleware.AuthOptions) func(http.Handler) http.Handler {
	return middleware.Authenticate(v, opt)
}

// APICORS is the cross-origin policy for the JSON API family
func APICORS(origins []string) func(http.Handler) http.Handler {
	return middleware.CORS(middleware.CORSOptions{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		MaxAge:           300,
	})
}
