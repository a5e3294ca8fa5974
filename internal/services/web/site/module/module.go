// Package module wires the public tenant site
package module

import (
	modkit "bear/internal/modkit"
	"bear/internal/modkit/httpkit"

	compdom "bear/internal/services/companies/domain"
	sitehttp "bear/internal/services/web/site/http"
	"bear/internal/services/web/view"
)

// Ports declares the collaborators this module needs injected
type Ports struct {
	Companies compdom.ReaderPort
	View      view.Renderer
}

// New constructs the site module; it mounts at the root so tenant keys stay first in the path
func New(_ modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("site")}, opts...)...)

	p, _ := b.Ports.(Ports)
	if p.Companies == nil || p.View == nil {
		panic("site module requires Companies and View ports")
	}
	return modkit.Routed(b, func(r httpkit.Router) {
		sitehttp.Register(r, sitehttp.Deps{Companies: p.Companies, View: p.View})
	})
}
