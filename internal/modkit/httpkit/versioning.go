package httpkit

import (
	"net/http"
	"strings"
)

// MountAPI mounts a scope under /api/{version}, applies mw, then lets mount register routes
//
//	httpkit.MountAPI(r, "v1", []func(http.Handler) http.Handler{httpkit.APICORS(origins)}, func(api httpkit.Router) {
//	  adminapi.MountRoutes(api)
//	})
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route("/api/"+strings.Trim(version, "/"), func(api Router) {
		if len(mw) > 0 {
			api.Use(mw...)
		}
		mount(api)
	})
}

// MountAPIV1 is MountAPI for v1
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountAPI(r, "v1", mw, mount)
}
