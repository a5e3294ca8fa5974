// Package module wires the meta endpoints into the api
package module

import (
	"time"

	modkit "bear/internal/modkit"
	"bear/internal/modkit/httpkit"
	"bear/internal/modkit/module"

	metahttp "bear/internal/services/web/meta/http"
)

// New constructs the meta module; service names the binary in version and service replies
func New(deps modkit.Deps, service string, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	if service == "" {
		service = "bear-api"
	}
	// a nil TxRunner must stay an untyped nil so readiness reports it as skipped
	var pg any
	if deps.PG != nil {
		pg = deps.PG
	}
	started := time.Now()
	return modkit.Routed(b, func(r httpkit.Router) {
		metahttp.Register(r, metahttp.Deps{
			ServiceName: service,
			StartedAt:   started,
			PG:          pg,
			Modules:     module.Names,
		})
	})
}
