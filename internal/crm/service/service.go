// Package service provides business logic for CRM quote requests.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"novyrix_backend/internal/consultant/agent"
	"novyrix_backend/internal/consultant/quote"
	"novyrix_backend/internal/crm/repository"
	"novyrix_backend/internal/events"
	"novyrix_backend/platform/apperr"
	"novyrix_backend/platform/logger"
	"novyrix_backend/platform/phone"

	"github.com/google/uuid"
)

// FollowUpScheduler enqueues a delayed follow-up for a quote request.
// Implemented by the asynq scheduler client; nil disables follow-ups.
type FollowUpScheduler interface {
	ScheduleQuoteFollowUp(ctx context.Context, requestID uuid.UUID, delay time.Duration) error
}

// SnapshotArchiver stores a JSON snapshot of a finalized quote request.
// Implemented by the MinIO archive; nil disables archiving.
type SnapshotArchiver interface {
	ArchiveQuoteRequest(ctx context.Context, requestID uuid.UUID, snapshot any) error
}

// Service provides business logic for quote requests
type Service struct {
	repo          *repository.Repository
	log           *logger.Logger
	bus           events.Bus
	scheduler     FollowUpScheduler
	archiver      SnapshotArchiver
	followUpDelay time.Duration
}

// New creates a new CRM service
func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// SetEventBus injects the domain event bus.
func (s *Service) SetEventBus(bus events.Bus) {
	s.bus = bus
}

// SetFollowUpScheduler injects the delayed follow-up scheduler.
func (s *Service) SetFollowUpScheduler(scheduler FollowUpScheduler, delay time.Duration) {
	s.scheduler = scheduler
	s.followUpDelay = delay
}

// SetSnapshotArchiver injects the quote snapshot archive.
func (s *Service) SetSnapshotArchiver(archiver SnapshotArchiver) {
	s.archiver = archiver
}

// SubmitQuote persists a finalized consultant quote as a quote request,
// publishes the QuoteFinalized event and schedules the follow-up. Only
// the insert is load-bearing; scheduling and archiving failures are
// logged and the submission still succeeds.
func (s *Service) SubmitQuote(ctx context.Context, lead agent.Lead, q *quote.Quote) (agent.Receipt, error) {
	qr := &repository.QuoteRequest{
		ID:          uuid.New(),
		SessionID:   lead.SessionID,
		ServiceType: string(q.ServiceType),
		ClientName:  lead.ClientName,
		ClientEmail: lead.ClientEmail,
		Items:       q.Items,
		Total:       q.Total,
		Status:      repository.StatusNew,
	}
	if lead.ClientPhone != "" {
		normalized := phone.NormalizeE164(lead.ClientPhone)
		qr.ClientPhone = &normalized
	}
	if lead.Notes != "" {
		notes := lead.Notes
		qr.Notes = &notes
	}

	if err := s.repo.Create(ctx, qr); err != nil {
		s.log.DatabaseError("create_quote_request", err)
		return agent.Receipt{}, fmt.Errorf("submit quote: %w", err)
	}

	if s.bus != nil {
		event := events.QuoteFinalized{
			BaseEvent:   events.NewBaseEvent(),
			RequestID:   qr.ID,
			SessionID:   qr.SessionID,
			ServiceType: qr.ServiceType,
			ClientName:  qr.ClientName,
			ClientEmail: qr.ClientEmail,
			Total:       qr.Total,
		}
		if qr.ClientPhone != nil {
			event.ClientPhone = *qr.ClientPhone
		}
		s.bus.Publish(ctx, event)
	}

	if s.scheduler != nil {
		if err := s.scheduler.ScheduleQuoteFollowUp(ctx, qr.ID, s.followUpDelay); err != nil {
			s.log.UpstreamError("scheduler", err)
		}
	}

	if s.archiver != nil {
		if err := s.archiver.ArchiveQuoteRequest(ctx, qr.ID, qr); err != nil {
			s.log.UpstreamError("archive", err)
		}
	}

	return agent.Receipt{RequestID: qr.ID.String()}, nil
}

// ListForEmail returns the caller's submitted quote requests.
func (s *Service) ListForEmail(ctx context.Context, email string) ([]repository.QuoteRequest, error) {
	if email == "" {
		return nil, apperr.Forbidden("no email associated with account")
	}
	return s.repo.ListByEmail(ctx, email)
}

// GetForEmail fetches one quote request, scoped to the caller's email.
// A request belonging to someone else reads as not found.
func (s *Service) GetForEmail(ctx context.Context, id uuid.UUID, email string) (*repository.QuoteRequest, error) {
	qr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if email == "" || !strings.EqualFold(qr.ClientEmail, email) {
		return nil, apperr.NotFound("quote request not found")
	}
	return qr, nil
}

// Get fetches one quote request without ownership scoping. Used by the
// scheduler worker and the public share surface.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*repository.QuoteRequest, error) {
	return s.repo.GetByID(ctx, id)
}

// MarkFollowedUp records that the follow-up email for a request went out.
func (s *Service) MarkFollowedUp(ctx context.Context, id uuid.UUID) error {
	return s.repo.UpdateStatus(ctx, id, repository.StatusFollowedUp)
}
