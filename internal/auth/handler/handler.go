// Package handler exposes authentication over HTTP.
package handler

import (
	"net/http"

	"novyrix_backend/internal/auth/service"
	"novyrix_backend/internal/auth/transport"
	"novyrix_backend/platform/httpkit"
	"novyrix_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for authentication.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new auth handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the public auth routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
}

// RegisterProtectedRoutes registers the routes behind auth middleware.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.Me)
}

// Register creates an account and returns a signed-in session.
func (h *Handler) Register(c *gin.Context) {
	var req transport.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Messages(err))
		return
	}

	user, accessToken, err := h.svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.AuthResponse{
		User:        transport.FromUser(user),
		AccessToken: accessToken,
	})
}

// Login verifies credentials and returns an access token.
func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Messages(err))
		return
	}

	user, accessToken, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.AuthResponse{
		User:        transport.FromUser(user),
		AccessToken: accessToken,
	})
}

// Me returns the authenticated account.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.svc.Me(c.Request.Context(), userID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromUser(user))
}
