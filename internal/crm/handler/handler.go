// Package handler exposes CRM quote requests over HTTP: the authed
// dashboard plus the public share QR endpoint.
package handler

import (
	"net/http"

	"novyrix_backend/internal/crm/service"
	"novyrix_backend/internal/crm/transport"
	"novyrix_backend/platform/currency"
	"novyrix_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

const msgInvalidID = "invalid quote request id"

// Handler handles HTTP requests for CRM quote requests.
type Handler struct {
	svc        *service.Service
	formatter  *currency.Formatter
	appBaseURL string
}

// New creates a new CRM handler.
func New(svc *service.Service, formatter *currency.Formatter, appBaseURL string) *Handler {
	return &Handler{svc: svc, formatter: formatter, appBaseURL: appBaseURL}
}

// RegisterRoutes registers the authed dashboard routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
}

// RegisterPublicRoutes registers routes that need no auth.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/qr", h.ShareQR)
}

// List returns the caller's submitted quote requests.
func (h *Handler) List(c *gin.Context) {
	email := c.GetString(httpkit.ContextEmailKey)

	requests, err := h.svc.ListForEmail(c.Request.Context(), email)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.QuoteRequestListResponse{
		Requests: make([]transport.QuoteRequestResponse, 0, len(requests)),
	}
	for i := range requests {
		qr := &requests[i]
		resp.Requests = append(resp.Requests, transport.FromModel(qr, h.formatter.Format(qr.Total)))
	}
	httpkit.OK(c, resp)
}

// GetByID returns one of the caller's quote requests.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	email := c.GetString(httpkit.ContextEmailKey)

	qr, err := h.svc.GetForEmail(c.Request.Context(), id, email)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromModel(qr, h.formatter.Format(qr.Total)))
}

// ShareQR renders a PNG QR code pointing at the public quote page.
// The endpoint leaks nothing beyond the request ID already in the URL.
func (h *Handler) ShareQR(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if _, err := h.svc.Get(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}

	png, err := qrcode.Encode(h.appBaseURL+"/quotes/"+id.String(), qrcode.Medium, 256)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "could not render QR code", nil)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
