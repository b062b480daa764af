package repository

import (
	"context"

	"book-catalog-api/internal/domain"
)

type UserRepository interface {
	// Create fails with ErrEmailAlreadyExists when the email is taken,
	// ignoring case.
	Create(ctx context.Context, u *domain.User) error

	// FindByEmail ignores case. Returns nil on a miss.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindByID returns nil on a miss.
	FindByID(ctx context.Context, id int64) (*domain.User, error)

	SetAdmin(ctx context.Context, id int64, isAdmin bool) error
}
