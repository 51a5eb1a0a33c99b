// Package support provides the support chat domain module.
package support

import (
	"novyrix_backend/internal/consultant/session"
	apphttp "novyrix_backend/internal/http"
	"novyrix_backend/internal/support/handler"
	"novyrix_backend/internal/support/service"
	"novyrix_backend/platform/logger"
	"novyrix_backend/platform/validator"
)

// Module represents the support domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new support module with all dependencies wired
func NewModule(sessions session.Store, log *logger.Logger, val *validator.Validator) *Module {
	svc := service.New(sessions, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "support"
}

// Service returns the service layer for external wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/support")
	group.Use(ctx.ChatRateLimiter.RateLimit())
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
