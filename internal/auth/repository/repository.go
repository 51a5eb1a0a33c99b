// Package repository provides database access for user accounts.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"novyrix_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

// User is the database model for a dashboard account.
type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Name         string    `db:"name"`
	CreatedAt    time.Time `db:"created_at"`
}

// Repository provides database operations for users
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new auth repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateUser inserts a new account. A duplicate email is a conflict.
func (r *Repository) CreateUser(ctx context.Context, email, passwordHash, name string) (*User, error) {
	user := &User{ID: uuid.New(), Email: email, PasswordHash: passwordHash, Name: name}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash, name)
		VALUES ($1, lower($2), $3, $4)
		RETURNING created_at`,
		user.ID, email, passwordHash, name,
	).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, apperr.Conflict("email already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// GetUserByEmail fetches an account by email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.getUser(ctx, `
		SELECT id, email, password_hash, name, created_at
		FROM users WHERE email = lower($1)`, email)
}

// GetUserByID fetches an account by ID.
func (r *Repository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.getUser(ctx, `
		SELECT id, email, password_hash, name, created_at
		FROM users WHERE id = $1`, id)
}

func (r *Repository) getUser(ctx context.Context, query string, arg any) (*User, error) {
	var user User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}
