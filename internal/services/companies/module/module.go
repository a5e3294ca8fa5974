// Package module wires company lookups into modkit
package module

import (
	"bear/internal/modkit"
	"bear/internal/modkit/httpkit"
	"bear/internal/services/companies/domain"
	"bear/internal/services/companies/repo"
	"bear/internal/services/companies/service"
)

// Ports exposed by the companies module
type Ports struct {
	Reader domain.ReaderPort
}

// Module owns company reads; it mounts no routes
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the companies module
func New(deps modkit.Deps) *Module {
	svc := service.New(deps.PG, repo.NewPG())
	return &Module{deps: deps, ports: Ports{Reader: svc}}
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "companies" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(httpkit.Router) {}
