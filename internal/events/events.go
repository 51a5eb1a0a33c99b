// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"novyrix_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// QuoteFinalized is published when a consultant chat quote is submitted
// as a CRM quote request.
type QuoteFinalized struct {
	BaseEvent
	RequestID   uuid.UUID `json:"requestId"`
	SessionID   string    `json:"sessionId"`
	ServiceType string    `json:"serviceType"`
	ClientName  string    `json:"clientName"`
	ClientEmail string    `json:"clientEmail"`
	ClientPhone string    `json:"clientPhone,omitempty"`
	Total       int       `json:"total"`
}

func (e QuoteFinalized) EventName() string { return "crm.quote.finalized" }

// HandoffRequested is published when a support visitor asks for a human.
type HandoffRequested struct {
	BaseEvent
	SessionID string `json:"sessionId"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Message   string `json:"message"`
}

func (e HandoffRequested) EventName() string { return "support.handoff.requested" }

// QuoteFollowUpDue is published by the scheduler worker when a finalized
// quote has gone unanswered for the configured delay.
type QuoteFollowUpDue struct {
	BaseEvent
	RequestID   uuid.UUID `json:"requestId"`
	ServiceType string    `json:"serviceType"`
	ClientName  string    `json:"clientName"`
	ClientEmail string    `json:"clientEmail"`
	Total       int       `json:"total"`
}

func (e QuoteFollowUpDue) EventName() string { return "crm.quote.followup_due" }
