// Package repository provides database access for CRM quote requests.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"novyrix_backend/internal/consultant/quote"
	"novyrix_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const quoteRequestNotFoundMsg = "quote request not found"

// QuoteRequest is the database model for a finalized consultant quote.
type QuoteRequest struct {
	ID          uuid.UUID    `db:"id"`
	SessionID   string       `db:"session_id"`
	ServiceType string       `db:"service_type"`
	ClientName  string       `db:"client_name"`
	ClientEmail string       `db:"client_email"`
	ClientPhone *string      `db:"client_phone"`
	Notes       *string      `db:"notes"`
	Items       []quote.Item `db:"items"`
	Total       int          `db:"total"`
	Status      string       `db:"status"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}

// Statuses for the quote request lifecycle.
const (
	StatusNew        = "new"
	StatusContacted  = "contacted"
	StatusFollowedUp = "followed_up"
)

// Repository provides database operations for quote requests
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new CRM repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a quote request.
func (r *Repository) Create(ctx context.Context, qr *QuoteRequest) error {
	items, err := json.Marshal(qr.Items)
	if err != nil {
		return fmt.Errorf("marshal quote items: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO quote_requests (id, session_id, service_type, client_name, client_email, client_phone, notes, items, total, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		qr.ID, qr.SessionID, qr.ServiceType, qr.ClientName, qr.ClientEmail, qr.ClientPhone, qr.Notes, items, qr.Total, qr.Status,
	)
	if err != nil {
		return fmt.Errorf("insert quote request: %w", err)
	}
	return nil
}

// GetByID fetches one quote request.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*QuoteRequest, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, session_id, service_type, client_name, client_email, client_phone, notes, items, total, status, created_at, updated_at
		FROM quote_requests
		WHERE id = $1`, id)

	qr, err := scanQuoteRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(quoteRequestNotFoundMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("get quote request: %w", err)
	}
	return qr, nil
}

// ListByEmail returns the quote requests submitted with the given client
// email, newest first.
func (r *Repository) ListByEmail(ctx context.Context, email string) ([]QuoteRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, service_type, client_name, client_email, client_phone, notes, items, total, status, created_at, updated_at
		FROM quote_requests
		WHERE lower(client_email) = lower($1)
		ORDER BY created_at DESC`, email)
	if err != nil {
		return nil, fmt.Errorf("list quote requests: %w", err)
	}
	defer rows.Close()

	var result []QuoteRequest
	for rows.Next() {
		qr, err := scanQuoteRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote request: %w", err)
		}
		result = append(result, *qr)
	}
	return result, rows.Err()
}

// UpdateStatus transitions a quote request's lifecycle status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE quote_requests SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update quote request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(quoteRequestNotFoundMsg)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuoteRequest(row rowScanner) (*QuoteRequest, error) {
	var qr QuoteRequest
	var items []byte
	if err := row.Scan(
		&qr.ID, &qr.SessionID, &qr.ServiceType, &qr.ClientName, &qr.ClientEmail,
		&qr.ClientPhone, &qr.Notes, &items, &qr.Total, &qr.Status,
		&qr.CreatedAt, &qr.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &qr.Items); err != nil {
			return nil, fmt.Errorf("unmarshal quote items: %w", err)
		}
	}
	return &qr, nil
}
