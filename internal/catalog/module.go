// Package catalog provides the pricing catalog domain module.
package catalog

import (
	"novyrix_backend/internal/catalog/handler"
	"novyrix_backend/internal/catalog/pricing"
	apphttp "novyrix_backend/internal/http"
	"novyrix_backend/platform/currency"
)

// Module represents the pricing catalog domain module
type Module struct {
	catalog *pricing.Catalog
	handler *handler.Handler
}

// NewModule creates a new catalog module with all dependencies wired
func NewModule(catalog *pricing.Catalog, formatter *currency.Formatter) *Module {
	return &Module{
		catalog: catalog,
		handler: handler.New(catalog, formatter),
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "catalog"
}

// Catalog returns the loaded pricing catalog for other modules.
func (m *Module) Catalog() *pricing.Catalog {
	return m.catalog
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/catalog"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
