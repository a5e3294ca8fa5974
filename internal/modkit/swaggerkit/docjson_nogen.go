//go:build !swag

package swaggerkit

import (
	"sync"

	"bear/internal/core/version"

	"github.com/swaggo/swag/v2"
)

// skeleton lists the api routes by hand; build with -tags swag after `swag init` for the full document
var skeleton = &swag.Spec{
	Title:            "Bear API",
	Description:      "Admin identity and tenant scoped company reads",
	BasePath:         "/api/v1",
	InfoInstanceName: "bear",
	SwaggerTemplate: `{
  "openapi": "3.0.3",
  "info": {"title": "{{.Title}}", "description": "{{.Description}}", "version": "{{.Version}}"},
  "paths": {
    "/admin/me": {"get": {"tags": ["Admin"], "summary": "Calling admin", "responses": {"200": {"description": "ok"}}}},
    "/admin/companies/{companyID}": {"get": {"tags": ["Admin"], "summary": "Company visible to the caller",
      "parameters": [{"name": "companyID", "in": "path", "required": true, "schema": {"type": "integer", "format": "int64"}}],
      "responses": {"200": {"description": "ok"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}},
    "/meta/ready": {"get": {"tags": ["Meta"], "summary": "Readiness with dependency checks", "responses": {"200": {"description": "ok"}}}},
    "/meta/version": {"get": {"tags": ["Meta"], "summary": "Build and version info", "responses": {"200": {"description": "ok"}}}},
    "/meta/service": {"get": {"tags": ["Meta"], "summary": "Service info, uptime and registered modules", "responses": {"200": {"description": "ok"}}}}
  }
}`,
}

// docReader is swapped in tests; Spec.ReadDoc is not safe for concurrent use, so it renders once
var docReader = sync.OnceValue(func() string {
	skeleton.Version = version.Info("bear-api").Version
	return skeleton.ReadDoc()
})
