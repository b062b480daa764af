package model

import (
	"errors"
	"net/http"

	"book-catalog-api/internal/shared/jsonpatch"
	"book-catalog-api/internal/shared/validation"
	"book-catalog-api/pkg/repository"
)

// Errors
var (
	ErrAuthorNotFound = errors.New("author not found")
	ErrInvalidID      = errors.New("invalid author id")
	ErrNameRequired   = errors.New("search name is required")
	ErrNameTaken      = errors.New("author name already exists")
)

// ToHTTPStatus maps author errors to their logical status.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrAuthorNotFound),
		errors.Is(err, repository.ErrNotFound),
		errors.Is(err, repository.ErrNoRowsAffected):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrNameRequired),
		errors.Is(err, ErrNameTaken),
		errors.Is(err, jsonpatch.ErrInvalidPatch),
		validation.IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
