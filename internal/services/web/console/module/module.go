// Package module wires the admin console into the /admin scope
package module

import (
	modkit "bear/internal/modkit"
	"bear/internal/modkit/httpkit"
	"bear/internal/platform/metrics"

	compdom "bear/internal/services/companies/domain"
	consolehttp "bear/internal/services/web/console/http"
	"bear/internal/services/web/view"
)

// Ports declares the collaborators this module needs injected
type Ports struct {
	Companies compdom.ReaderPort
	View      view.Renderer
	Metrics   *metrics.Auth
}

// New constructs the console module; Companies and View must be injected with WithPorts
func New(_ modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("console")}, opts...)...)

	p, _ := b.Ports.(Ports)
	if p.Companies == nil || p.View == nil {
		panic("console module requires Companies and View ports")
	}
	return modkit.Routed(b, func(r httpkit.Router) {
		consolehttp.Register(r, consolehttp.Deps{
			Companies: p.Companies,
			View:      p.View,
			Metrics:   p.Metrics,
		})
	})
}
