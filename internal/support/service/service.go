// Package service provides business logic for the support widget.
package service

import (
	"context"

	"novyrix_backend/internal/consultant/session"
	"novyrix_backend/internal/events"
	"novyrix_backend/internal/support/transport"
	"novyrix_backend/platform/apperr"
	"novyrix_backend/platform/logger"
)

// Service stores support messages alongside the consultant transcript
// and raises handoff events for the agency.
type Service struct {
	sessions session.Store
	bus      events.Bus
	log      *logger.Logger
}

// New creates a new support service
func New(sessions session.Store, log *logger.Logger) *Service {
	return &Service{sessions: sessions, log: log}
}

// SetEventBus injects the domain event bus.
func (s *Service) SetEventBus(bus events.Bus) {
	s.bus = bus
}

// ReceiveMessage appends the message to the visitor's session and, when
// asked, publishes a handoff request.
func (s *Service) ReceiveMessage(ctx context.Context, req transport.MessageRequest) (transport.MessageResponse, error) {
	sess, err := session.GetOrCreate(ctx, s.sessions, req.SessionID)
	if err != nil {
		return transport.MessageResponse{}, apperr.Wrap(apperr.KindInternal, "load session", err)
	}
	sess.Append("user", req.Message)
	if err := s.sessions.Upsert(ctx, sess); err != nil {
		return transport.MessageResponse{}, apperr.Wrap(apperr.KindInternal, "store session", err)
	}

	if req.Handoff && s.bus != nil {
		s.bus.Publish(ctx, events.HandoffRequested{
			BaseEvent: events.NewBaseEvent(),
			SessionID: req.SessionID,
			Name:      req.Name,
			Email:     req.Email,
			Message:   req.Message,
		})
		s.log.Info("support handoff requested", "session_id", req.SessionID)
	}

	return transport.MessageResponse{Received: true, Handoff: req.Handoff}, nil
}
