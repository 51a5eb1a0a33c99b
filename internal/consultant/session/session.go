// Package session stores consultant conversation state keyed by an
// opaque session ID chosen by the caller.
package session

import (
	"context"
	"time"

	"novyrix_backend/internal/consultant/quote"
)

// Message is one turn of conversation history. Only the role and text
// survive persistence; tool call plumbing is rebuilt per request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is the full consultant state for one visitor: the transcript
// so far and the quote in progress, if any.
type Session struct {
	ID        string       `json:"id"`
	Messages  []Message    `json:"messages"`
	Quote     *quote.Quote `json:"quote,omitempty"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Append records one conversation turn.
func (s *Session) Append(role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
}

// Store persists sessions by ID. Get returns (nil, nil) when the session
// does not exist; absence is not an error.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Upsert(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// GetOrCreate loads a session or returns a fresh empty one for the ID.
func GetOrCreate(ctx context.Context, store Store, id string) (*Session, error) {
	s, err := store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = &Session{ID: id}
	}
	return s, nil
}
