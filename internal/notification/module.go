package notification

import (
	"context"
	"fmt"

	"novyrix_backend/internal/events"
	"novyrix_backend/platform/currency"
	"novyrix_backend/platform/logger"
)

// Module wires domain events to outbound email. It registers no HTTP
// routes; it lives on the event bus only.
type Module struct {
	sender       Sender
	formatter    *currency.Formatter
	log          *logger.Logger
	supportInbox string
}

// NewModule creates the notification module.
func NewModule(sender Sender, formatter *currency.Formatter, log *logger.Logger, supportInbox string) *Module {
	return &Module{sender: sender, formatter: formatter, log: log, supportInbox: supportInbox}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "notification"
}

// Subscribe registers the module's event handlers on the bus.
func (m *Module) Subscribe(bus events.Bus) {
	bus.Subscribe(events.QuoteFinalized{}.EventName(), events.HandlerFunc(m.onQuoteFinalized))
	bus.Subscribe(events.HandoffRequested{}.EventName(), events.HandlerFunc(m.onHandoffRequested))
	bus.Subscribe(events.QuoteFollowUpDue{}.EventName(), events.HandlerFunc(m.onQuoteFollowUpDue))
}

func (m *Module) onQuoteFinalized(ctx context.Context, event events.Event) error {
	e, ok := event.(events.QuoteFinalized)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	err := m.sender.SendQuoteConfirmation(ctx, e.ClientEmail, QuoteEmailData{
		ClientName:  e.ClientName,
		ServiceType: e.ServiceType,
		TotalText:   m.formatter.Format(e.Total),
		RequestID:   e.RequestID.String(),
	})
	if err != nil {
		m.log.UpstreamError("smtp", err)
		return err
	}
	return nil
}

func (m *Module) onHandoffRequested(ctx context.Context, event events.Event) error {
	e, ok := event.(events.HandoffRequested)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	if m.supportInbox == "" {
		m.log.Warn("handoff requested but no support inbox configured", "session_id", e.SessionID)
		return nil
	}

	err := m.sender.SendHandoffAlert(ctx, m.supportInbox, HandoffEmailData{
		SessionID: e.SessionID,
		Name:      e.Name,
		Email:     e.Email,
		Message:   e.Message,
	})
	if err != nil {
		m.log.UpstreamError("smtp", err)
		return err
	}
	return nil
}

func (m *Module) onQuoteFollowUpDue(ctx context.Context, event events.Event) error {
	e, ok := event.(events.QuoteFollowUpDue)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	err := m.sender.SendQuoteFollowUp(ctx, e.ClientEmail, QuoteEmailData{
		ClientName:  e.ClientName,
		ServiceType: e.ServiceType,
		TotalText:   m.formatter.Format(e.Total),
		RequestID:   e.RequestID.String(),
	})
	if err != nil {
		m.log.UpstreamError("smtp", err)
		return err
	}
	return nil
}
