// Package handler exposes the AI consultant over HTTP.
package handler

import (
	"net/http"

	"novyrix_backend/internal/consultant/agent"
	"novyrix_backend/internal/consultant/transport"
	"novyrix_backend/platform/httpkit"
	"novyrix_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for the consultant chat.
type Handler struct {
	orch *agent.Orchestrator
	val  *validator.Validator
}

// New creates a new consultant handler.
func New(orch *agent.Orchestrator, val *validator.Validator) *Handler {
	return &Handler{orch: orch, val: val}
}

// RegisterRoutes registers the consultant routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/chat", h.Chat)
	rg.GET("/sessions/:id/quote", h.GetQuote)
	rg.DELETE("/sessions/:id", h.Reset)
}

// Chat handles one visitor message and returns the consultant's reply.
func (h *Handler) Chat(c *gin.Context) {
	var req transport.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Messages(err))
		return
	}

	reply, err := h.orch.Chat(c.Request.Context(), req.SessionID, req.Message)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, reply)
}

// GetQuote returns the session's active quote breakdown.
func (h *Handler) GetQuote(c *gin.Context) {
	breakdown, err := h.orch.QuoteBreakdown(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	if breakdown == nil {
		httpkit.Error(c, http.StatusNotFound, "no active quote for session", nil)
		return
	}
	httpkit.OK(c, gin.H{"quote": breakdown})
}

// Reset discards the session and its quote.
func (h *Handler) Reset(c *gin.Context) {
	if err := h.orch.Reset(c.Request.Context(), c.Param("id")); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"reset": true})
}
