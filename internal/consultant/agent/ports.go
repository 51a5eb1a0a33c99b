package agent

import (
	"context"

	"novyrix_backend/internal/consultant/quote"
)

// Lead carries the client contact details collected during the chat.
type Lead struct {
	SessionID   string
	ClientName  string
	ClientEmail string
	ClientPhone string
	Notes       string
}

// Receipt acknowledges a submitted quote request.
type Receipt struct {
	RequestID string
}

// QuoteSubmitter is the finalize boundary. The consultant only builds
// quotes; persistence and follow-up belong to the injected implementation.
type QuoteSubmitter interface {
	SubmitQuote(ctx context.Context, lead Lead, q *quote.Quote) (Receipt, error)
}
