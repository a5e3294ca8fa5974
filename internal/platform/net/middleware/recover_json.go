package middleware

import (
	"net/http"
	"runtime/debug"

	perr "bear/internal/platform/errors"
	"bear/internal/platform/logger"
	pnet "bear/internal/platform/net"
	phttp "bear/internal/platform/net/http"
)

// RecoverJSON converts panics into the standard 500 envelope and logs the stack with request id
// http.ErrAbortHandler is re-raised so net/http can drop the connection quietly
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}

			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if reqID := pnet.RequestID(r.Context()); reqID != "" {
				w.Header().Set("X-Request-ID", reqID)
			}
			phttp.RespondError(w, r, perr.PanicErrf("panic recovered"))
		}()
		next.ServeHTTP(w, r)
	})
}
