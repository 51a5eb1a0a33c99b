// Package consultant provides the AI consultant domain module: the chat
// orchestrator, session storage and quote building.
package consultant

import (
	"novyrix_backend/internal/catalog/pricing"
	"novyrix_backend/internal/consultant/agent"
	"novyrix_backend/internal/consultant/handler"
	"novyrix_backend/internal/consultant/session"
	apphttp "novyrix_backend/internal/http"
	"novyrix_backend/platform/currency"
	"novyrix_backend/platform/logger"
	"novyrix_backend/platform/validator"
)

// Module represents the consultant domain module
type Module struct {
	orchestrator *agent.Orchestrator
	handler      *handler.Handler
}

// NewModule creates a new consultant module with all dependencies wired
func NewModule(llm agent.ChatCompleter, catalog *pricing.Catalog, sessions session.Store, formatter *currency.Formatter, log *logger.Logger, val *validator.Validator, personaFile string) (*Module, error) {
	orch, err := agent.New(llm, catalog, sessions, formatter, log, personaFile)
	if err != nil {
		return nil, err
	}

	return &Module{
		orchestrator: orch,
		handler:      handler.New(orch, val),
	}, nil
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "consultant"
}

// SetQuoteSubmitter wires the CRM finalize boundary.
func (m *Module) SetQuoteSubmitter(submitter agent.QuoteSubmitter) {
	m.orchestrator.SetQuoteSubmitter(submitter)
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/consultant")
	group.Use(ctx.ChatRateLimiter.RateLimit())
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
