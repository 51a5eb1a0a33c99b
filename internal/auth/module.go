// Package auth provides the authentication domain module.
package auth

import (
	"novyrix_backend/internal/auth/handler"
	"novyrix_backend/internal/auth/repository"
	"novyrix_backend/internal/auth/service"
	apphttp "novyrix_backend/internal/http"
	"novyrix_backend/platform/config"
	"novyrix_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the auth domain module
type Module struct {
	handler *handler.Handler
}

// NewModule creates a new auth module with all dependencies wired
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg)

	return &Module{handler: handler.New(svc, val)}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/auth"))
	m.handler.RegisterProtectedRoutes(ctx.Protected.Group("/auth"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
