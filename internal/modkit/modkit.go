// Package modkit provides module wiring and core deps
package modkit

import (
	"bear/internal/modkit/httpkit"
	"bear/internal/modkit/repokit"
	"bear/internal/platform/config"
	"bear/internal/platform/logger"
)

// Module can mount routes and expose ports to other modules
type Module interface {
	MountRoutes(r httpkit.Router)
	Ports() any
	Name() string
}

// Deps holds core dependencies passed to modules
// PG is nil when the process runs without a database
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
}

// Routed returns a transport module that mounts register under b.Prefix
// it exposes no ports
func Routed(b Built, register func(httpkit.Router)) Module {
	return routed{b: b, register: register}
}

type routed struct {
	b        Built
	register func(httpkit.Router)
}

func (m routed) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.b.Prefix, m.b.Mw, m.register)
}

func (m routed) Name() string { return m.b.Name }

func (m routed) Ports() any { return nil }
