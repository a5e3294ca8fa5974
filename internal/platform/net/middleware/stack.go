// Package middleware holds the http middleware shared by every route family
package middleware

import (
	"compress/flate"
	"net/http"
	"time"

	"bear/internal/platform/logger"
	pnet "bear/internal/platform/net"
	pstrings "bear/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// AccessLogOptions configures the access log
type AccessLogOptions struct {
	// Slow logs requests at warn once they take this long; zero disables it
	Slow time.Duration
	// Skip lists path prefixes that are served but never logged
	Skip []string
}

// Defaults is the stack every request passes before tenant and identity resolution
// recover sits inside the access log so a panic is logged as the 500 it becomes
// forwarding headers are honored only from trusted proxies
func Defaults(log AccessLogOptions, trusted Proxies) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		RealIP(trusted),
		chimw.RequestID,
		AccessLog(log),
		RecoverJSON,
		chimw.Timeout(60 * time.Second),
		chimw.Compress(flate.DefaultCompression),
		chimw.NoCache,
	}
}

// Heartbeat answers GET path with 200 before any routing
func Heartbeat(path string) func(http.Handler) http.Handler { return chimw.Heartbeat(path) }

// CORSOptions is the part of go-chi/cors the api exposes
type CORSOptions struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// CORS applies o, defaulting methods to GET, POST and OPTIONS
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return chicors.Handler(chicors.Options{
		AllowedOrigins:   o.AllowedOrigins,
		AllowedMethods:   pstrings.IfEmpty(o.AllowedMethods, []string{"GET", "POST", "OPTIONS"}),
		AllowedHeaders:   pstrings.IfEmpty(o.AllowedHeaders, []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"}),
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	})
}

// AccessLog writes one line per request and puts the request id on the ctx logger
func AccessLog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logger.WithRequest(r.Context(), pnet.RequestID(r.Context()), "")
			r = r.WithContext(ctx)
			if pstrings.HasAnyPathPrefix(r.URL.Path, opt.Skip) {
				next.ServeHTTP(w, r)
				return
			}

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			elapsed := time.Since(start)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			evt := logger.C(ctx).Info()
			if opt.Slow > 0 && elapsed >= opt.Slow {
				evt = logger.C(ctx).Warn()
			}
			evt.Int("status", status).
				Dur("elapsed", elapsed).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("client_ip", pnet.ClientIP(r)).
				Int("bytes", ww.BytesWritten()).
				Msg("request done")
		})
	}
}
