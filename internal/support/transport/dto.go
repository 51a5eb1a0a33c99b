// Package transport defines the support module's request/response DTOs.
package transport

// MessageRequest is one support widget message. Handoff marks the
// visitor as waiting for a human.
type MessageRequest struct {
	SessionID string `json:"sessionId" validate:"required,max=128"`
	Message   string `json:"message" validate:"required,max=4000"`
	Name      string `json:"name" validate:"max=120"`
	Email     string `json:"email" validate:"omitempty,email"`
	Handoff   bool   `json:"handoff"`
}

// MessageResponse acknowledges a stored support message.
type MessageResponse struct {
	Received bool `json:"received"`
	Handoff  bool `json:"handoff"`
}
