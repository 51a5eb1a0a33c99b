// Package handler exposes the support widget over HTTP.
package handler

import (
	"net/http"

	"novyrix_backend/internal/support/service"
	"novyrix_backend/internal/support/transport"
	"novyrix_backend/platform/httpkit"
	"novyrix_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for the support widget.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new support handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the support routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/messages", h.ReceiveMessage)
}

// ReceiveMessage stores a support message and acknowledges it.
func (h *Handler) ReceiveMessage(c *gin.Context) {
	var req transport.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Messages(err))
		return
	}

	resp, err := h.svc.ReceiveMessage(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusAccepted, resp)
}
