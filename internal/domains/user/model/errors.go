package model

import (
	"errors"
	"net/http"

	"book-catalog-api/internal/shared/validation"
	"book-catalog-api/pkg/repository"
)

// Errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("incorrect login")
	ErrUnauthorized       = errors.New("unauthorized access")
)

// ToHTTPStatus maps account errors to their logical status.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUserNotFound), errors.Is(err, repository.ErrNoRowsAffected):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrEmailAlreadyExists),
		errors.Is(err, ErrInvalidCredentials),
		validation.IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
