package notification

import (
	"context"
	"strings"
	"testing"

	"novyrix_backend/internal/events"
	"novyrix_backend/platform/currency"
	"novyrix_backend/platform/logger"

	"github.com/google/uuid"
)

type testSender struct {
	confirmations []QuoteEmailData
	followUps     []QuoteEmailData
	handoffs      []HandoffEmailData
	lastTo        string
}

func (s *testSender) SendQuoteConfirmation(_ context.Context, toEmail string, data QuoteEmailData) error {
	s.lastTo = toEmail
	s.confirmations = append(s.confirmations, data)
	return nil
}

func (s *testSender) SendQuoteFollowUp(_ context.Context, toEmail string, data QuoteEmailData) error {
	s.lastTo = toEmail
	s.followUps = append(s.followUps, data)
	return nil
}

func (s *testSender) SendHandoffAlert(_ context.Context, toEmail string, data HandoffEmailData) error {
	s.lastTo = toEmail
	s.handoffs = append(s.handoffs, data)
	return nil
}

func newTestModule(sender Sender, inbox string) *Module {
	return NewModule(sender, currency.NewFormatter("KES"), logger.New("development"), inbox)
}

func TestQuoteFinalizedSendsConfirmation(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender, "support@novyrix.example")
	requestID := uuid.New()

	err := m.onQuoteFinalized(context.Background(), events.QuoteFinalized{
		BaseEvent:   events.NewBaseEvent(),
		RequestID:   requestID,
		SessionID:   "sess-1",
		ServiceType: "website",
		ClientName:  "Wanjiku Kamau",
		ClientEmail: "wanjiku@example.co.ke",
		Total:       45000,
	})
	if err != nil {
		t.Fatalf("onQuoteFinalized returned error: %v", err)
	}

	if len(sender.confirmations) != 1 {
		t.Fatalf("expected 1 confirmation, got %d", len(sender.confirmations))
	}
	if sender.lastTo != "wanjiku@example.co.ke" {
		t.Fatalf("expected confirmation to client email, got %q", sender.lastTo)
	}
	got := sender.confirmations[0]
	if got.RequestID != requestID.String() {
		t.Fatalf("expected request ID %s, got %s", requestID, got.RequestID)
	}
	if got.TotalText != "KES 45,000" {
		t.Fatalf("expected formatted total KES 45,000, got %q", got.TotalText)
	}
}

func TestQuoteFollowUpDueSendsNudge(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender, "support@novyrix.example")

	err := m.onQuoteFollowUpDue(context.Background(), events.QuoteFollowUpDue{
		BaseEvent:   events.NewBaseEvent(),
		RequestID:   uuid.New(),
		ServiceType: "automation",
		ClientName:  "Odhiambo Otieno",
		ClientEmail: "odhiambo@example.co.ke",
		Total:       95000,
	})
	if err != nil {
		t.Fatalf("onQuoteFollowUpDue returned error: %v", err)
	}

	if len(sender.followUps) != 1 {
		t.Fatalf("expected 1 follow-up, got %d", len(sender.followUps))
	}
	if sender.followUps[0].TotalText != "KES 95,000" {
		t.Fatalf("unexpected total text %q", sender.followUps[0].TotalText)
	}
}

func TestHandoffAlertGoesToSupportInbox(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender, "support@novyrix.example")

	err := m.onHandoffRequested(context.Background(), events.HandoffRequested{
		BaseEvent: events.NewBaseEvent(),
		SessionID: "sess-9",
		Name:      "Amina",
		Email:     "amina@example.co.ke",
		Message:   "I need to talk to a person",
	})
	if err != nil {
		t.Fatalf("onHandoffRequested returned error: %v", err)
	}

	if len(sender.handoffs) != 1 {
		t.Fatalf("expected 1 handoff alert, got %d", len(sender.handoffs))
	}
	if sender.lastTo != "support@novyrix.example" {
		t.Fatalf("expected alert to support inbox, got %q", sender.lastTo)
	}
	if sender.handoffs[0].SessionID != "sess-9" {
		t.Fatalf("unexpected session ID %q", sender.handoffs[0].SessionID)
	}
}

func TestHandoffWithoutInboxIsDropped(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender, "")

	err := m.onHandoffRequested(context.Background(), events.HandoffRequested{
		BaseEvent: events.NewBaseEvent(),
		SessionID: "sess-9",
		Message:   "hello?",
	})
	if err != nil {
		t.Fatalf("expected nil error when inbox unset, got %v", err)
	}
	if len(sender.handoffs) != 0 {
		t.Fatalf("expected no alert without a configured inbox, got %d", len(sender.handoffs))
	}
}

func TestSubscribeWiresAllEvents(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender, "support@novyrix.example")
	bus := events.NewInMemoryBus(logger.New("development"))
	m.Subscribe(bus)

	bus.PublishSync(context.Background(), events.QuoteFinalized{
		BaseEvent:   events.NewBaseEvent(),
		RequestID:   uuid.New(),
		ClientName:  "Wanjiku",
		ClientEmail: "wanjiku@example.co.ke",
		Total:       15000,
	})
	bus.PublishSync(context.Background(), events.HandoffRequested{
		BaseEvent: events.NewBaseEvent(),
		SessionID: "sess-2",
		Message:   "human please",
	})
	bus.PublishSync(context.Background(), events.QuoteFollowUpDue{
		BaseEvent:   events.NewBaseEvent(),
		RequestID:   uuid.New(),
		ClientEmail: "wanjiku@example.co.ke",
		Total:       15000,
	})

	if len(sender.confirmations) != 1 || len(sender.handoffs) != 1 || len(sender.followUps) != 1 {
		t.Fatalf("expected each handler to fire once, got %d/%d/%d",
			len(sender.confirmations), len(sender.handoffs), len(sender.followUps))
	}
}

func TestRenderQuoteConfirmationTemplate(t *testing.T) {
	content, err := renderEmailTemplate("quote_confirmation", QuoteEmailData{
		ClientName:  "Wanjiku Kamau",
		ServiceType: "website",
		TotalText:   "KES 45,000",
		RequestID:   "11111111-2222-3333-4444-555555555555",
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	for _, want := range []string{"Wanjiku Kamau", "KES 45,000", "11111111-2222-3333-4444-555555555555"} {
		if !strings.Contains(content, want) {
			t.Fatalf("rendered email missing %q", want)
		}
	}
}
