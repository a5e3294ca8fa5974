// Package swaggerkit serves the OpenAPI document of the json api and the swagger ui
package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	perr "bear/internal/platform/errors"
	phttp "bear/internal/platform/net/http"
)

// Prefix is where the ui and doc.json are served; /api is never a tenant key
const Prefix = "/api/docs"

// Mount serves the ui and document under Prefix when enabled
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	phttp.MountSwagger(r, Prefix, serveDocJSON())
}

// serveDocJSON normalizes the document on every request so the api's shared responses are always declared
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
			http.Error(w, "openapi document parse error", http.StatusInternalServerError)
			return
		}
		ensureOAS3(spec, "/api/v1")
		ensureEnvelope(spec)
		addResponse(spec, http.StatusUnauthorized, perr.ErrorCodeUnauthorized, "sign in required")
		addResponse(spec, http.StatusInternalServerError, perr.ErrorCodeUnknown, "internal error")

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// ensureOAS3 lifts swagger 2 and 3.1 documents to 3.0.3, which the ui renders, and sets a server url
func ensureOAS3(spec map[string]any, url string) {
	if _, ok := spec["swagger"]; ok {
		delete(spec, "swagger")
		spec["openapi"] = "3.0.3"
	}
	if v, ok := spec["openapi"].(string); !ok || strings.HasPrefix(v, "3.1") {
		spec["openapi"] = "3.0.3"
	}
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": url}}
	}
}

// ensureEnvelope declares the json envelope every endpoint answers with
func ensureEnvelope(spec map[string]any) {
	schemas := child(child(spec, "components"), "schemas")
	if _, ok := schemas["Envelope"]; ok {
		return
	}
	schemas["Envelope"] = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer", "format": "int32"},
			"error":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
			"data":        map[string]any{},
		},
		"required": []any{"status_code", "status"},
	}
}

// addResponse adds an error envelope response under status to every operation that lacks one
func addResponse(spec map[string]any, status int, code perr.ErrorCode, msg string) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	key, text := strconv.Itoa(status), http.StatusText(status)
	resp := map[string]any{
		"description": text,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/Envelope"},
				"example": map[string]any{
					"status_code": status,
					"status":      text,
					"code":        code,
					"error":       msg,
				},
			},
		},
	}
	for _, item := range paths {
		ops, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for _, op := range ops {
			o, ok := op.(map[string]any)
			if !ok {
				continue
			}
			responses := child(o, "responses")
			if _, ok := responses[key]; !ok {
				responses[key] = resp
			}
		}
	}
}

func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}
