// Package crm provides the CRM domain module: persistence and dashboard
// for quote requests submitted through the consultant.
package crm

import (
	"novyrix_backend/internal/crm/handler"
	"novyrix_backend/internal/crm/repository"
	"novyrix_backend/internal/crm/service"
	apphttp "novyrix_backend/internal/http"
	"novyrix_backend/platform/currency"
	"novyrix_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the CRM domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new CRM module with all dependencies wired
func NewModule(pool *pgxpool.Pool, formatter *currency.Formatter, log *logger.Logger, appBaseURL string) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)

	return &Module{
		handler: handler.New(svc, formatter, appBaseURL),
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "crm"
}

// Service returns the service layer for external wiring (event bus,
// scheduler, archive, and the consultant's submitter port).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/quotes"))

	// Public share QR — no auth middleware
	m.handler.RegisterPublicRoutes(ctx.V1.Group("/quotes"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
