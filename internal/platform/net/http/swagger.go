package http

import (
	"net/http"
	"strings"

	httpSwagger "github.com/swaggo/http-swagger"
)

// MountSwagger serves doc under prefix/doc.json and the swagger ui under prefix/
// the ui is pointed at doc so the document never comes from swag's global registry
func MountSwagger(r Router, prefix string, doc http.Handler) {
	prefix = "/" + strings.Trim(prefix, "/")
	ui := httpSwagger.Handler(httpSwagger.URL(prefix + "/doc.json"))

	r.Get(prefix, func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, prefix+"/index.html", http.StatusMovedPermanently)
	})
	r.Handle(prefix+"/doc.json", doc)
	r.Get(prefix+"/*", ui)
}
