package httpkit

import "net/http"

// Protected groups routes that need an attached identity
// anonymous callers are handed to deny, or get a 401 envelope when deny is nil
func Protected(r Router, deny http.Handler, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(RequireIdentity(deny))
		fn(gr)
	})
}
