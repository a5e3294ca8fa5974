// Package net reads per request facts shared by the http layers
package net

import (
	"context"
	stdnet "net"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestID returns the id chi's RequestID middleware stored on ctx
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// ClientIP is RemoteAddr without its port
// middleware.RealIP rewrites it for requests relayed by a trusted proxy
func ClientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := stdnet.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
