package service

import (
	"context"

	"book-catalog-api/internal/domains/user/model"
)

// ServiceInterface is the account business layer.
type ServiceInterface interface {
	// Register creates the account and signs a token for it.
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	// RenewToken re-issues a token for userID from the stored account.
	RenewToken(ctx context.Context, userID int64) (*model.AuthResponse, error)

	MakeAdmin(ctx context.Context, req model.EmailRequest) error
	RemoveAdmin(ctx context.Context, req model.EmailRequest) error
}
