// Package module wires the credential verifier into modkit
package module

import (
	"bear/internal/modkit"
	"bear/internal/modkit/httpkit"
	"bear/internal/services/admins/domain"
	"bear/internal/services/admins/repo"
	"bear/internal/services/admins/service"
)

// Ports exposed by the admins module
type Ports struct {
	Auth domain.AuthenticatorPort
}

// Module owns the credential verifier; it mounts no routes
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the admins module
func New(deps modkit.Deps, opts Options) *Module {
	svc := service.New(deps.PG, repo.NewPG(), service.Options{
		EqualizeTiming: opts.EqualizeTiming,
	})
	return &Module{deps: deps, ports: Ports{Auth: svc}}
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "admins" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(httpkit.Router) {}
