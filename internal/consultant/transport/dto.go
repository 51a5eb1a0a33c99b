// Package transport defines the consultant module's request/response DTOs.
package transport

// ChatRequest is one inbound visitor message.
type ChatRequest struct {
	Message   string `json:"message" validate:"required,max=4000"`
	SessionID string `json:"sessionId" validate:"required,max=128"`
}
