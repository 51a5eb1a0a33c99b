// Package transport defines the CRM module's response DTOs.
package transport

import (
	"time"

	"novyrix_backend/internal/consultant/quote"
	"novyrix_backend/internal/crm/repository"
)

// QuoteRequestResponse is one submitted quote request.
type QuoteRequestResponse struct {
	ID          string       `json:"id"`
	ServiceType string       `json:"serviceType"`
	ClientName  string       `json:"clientName"`
	ClientEmail string       `json:"clientEmail"`
	ClientPhone string       `json:"clientPhone,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	Items       []quote.Item `json:"items"`
	Total       int          `json:"total"`
	TotalText   string       `json:"totalText"`
	Status      string       `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// QuoteRequestListResponse wraps the dashboard list.
type QuoteRequestListResponse struct {
	Requests []QuoteRequestResponse `json:"requests"`
}

// FromModel maps a repository model to the response shape.
func FromModel(qr *repository.QuoteRequest, totalText string) QuoteRequestResponse {
	resp := QuoteRequestResponse{
		ID:          qr.ID.String(),
		ServiceType: qr.ServiceType,
		ClientName:  qr.ClientName,
		ClientEmail: qr.ClientEmail,
		Items:       qr.Items,
		Total:       qr.Total,
		TotalText:   totalText,
		Status:      qr.Status,
		CreatedAt:   qr.CreatedAt,
	}
	if qr.ClientPhone != nil {
		resp.ClientPhone = *qr.ClientPhone
	}
	if qr.Notes != nil {
		resp.Notes = *qr.Notes
	}
	return resp
}
