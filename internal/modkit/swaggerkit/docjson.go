//go:build swag

package swaggerkit

import (
	// generated by: swag init -g cmd/bear-api/main.go -o internal/services/web/docs --v3.1
	docs "bear/internal/services/web/docs"
)

// docReader is swapped in tests
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }
