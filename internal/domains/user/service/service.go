package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"book-catalog-api/internal/domain"
	"book-catalog-api/internal/domains/user/model"
	"book-catalog-api/internal/domains/user/repository"
	"book-catalog-api/pkg/jwt"
)

type userService struct {
	repo           repository.UserRepository
	jwt            *jwt.Manager
	bootstrapAdmin string
	hashCost       int
}

// NewUserService returns the account service. An account registered with
// bootstrapAdmin as email starts as admin; empty disables it.
func NewUserService(repo repository.UserRepository, jm *jwt.Manager, bootstrapAdmin string) ServiceInterface {
	return &userService{
		repo:           repo,
		jwt:            jm,
		bootstrapAdmin: strings.TrimSpace(bootstrapAdmin),
		hashCost:       bcrypt.DefaultCost,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	// 1. VALIDATE INPUT
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. HASH PASSWORD
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 3. PERSIST, the unique index rejects a taken email
	u := &domain.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		IsAdmin:      s.bootstrapAdmin != "" && strings.EqualFold(req.Email, s.bootstrapAdmin),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, model.ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	log.Info().Int64("user_id", u.ID).Bool("is_admin", u.IsAdmin).Msg("User registered")
	return s.issue(u)
}

func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	// 1. VALIDATE INPUT
	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. FIND USER BY EMAIL
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return nil, model.ErrInvalidCredentials
	}

	// 3. VERIFY PASSWORD
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return s.issue(u)
}

func (s *userService) RenewToken(ctx context.Context, userID int64) (*model.AuthResponse, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return nil, model.ErrUnauthorized
	}
	return s.issue(u)
}

// ========================================
// ADMIN
// ========================================

func (s *userService) MakeAdmin(ctx context.Context, req model.EmailRequest) error {
	return s.setAdmin(ctx, req, true)
}

func (s *userService) RemoveAdmin(ctx context.Context, req model.EmailRequest) error {
	return s.setAdmin(ctx, req, false)
}

func (s *userService) setAdmin(ctx context.Context, req model.EmailRequest, isAdmin bool) error {
	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return model.ErrUserNotFound
	}

	if err := s.repo.SetAdmin(ctx, u.ID, isAdmin); err != nil {
		return fmt.Errorf("set admin: %w", err)
	}

	log.Info().Int64("user_id", u.ID).Bool("is_admin", isAdmin).Msg("Admin flag changed")
	return nil
}

func (s *userService) issue(u *domain.User) (*model.AuthResponse, error) {
	token, expiresAt, err := s.jwt.GenerateToken(u.ID, u.Email, u.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &model.AuthResponse{Token: token, Expiration: expiresAt}, nil
}
