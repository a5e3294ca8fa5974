// Package module wires the admin json api using modkit
package module

import (
	modkit "bear/internal/modkit"
	"bear/internal/modkit/httpkit"
	"bear/internal/platform/metrics"

	compdom "bear/internal/services/companies/domain"
	apihttp "bear/internal/services/web/adminapi/http"
)

// Ports declares the collaborators this module needs injected
type Ports struct {
	Companies compdom.ReaderPort
	Metrics   *metrics.Auth
}

// New constructs the api module; Companies must be injected with WithPorts
func New(_ modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("adminapi"),
		modkit.WithPrefix("/admin"),
	}, opts...)...)

	p, _ := b.Ports.(Ports)
	if p.Companies == nil {
		panic("adminapi module requires the Companies port")
	}
	return modkit.Routed(b, func(r httpkit.Router) {
		apihttp.Register(r, apihttp.Deps{Companies: p.Companies, Metrics: p.Metrics})
	})
}
