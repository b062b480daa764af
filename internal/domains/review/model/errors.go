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
	ErrBookNotFound   = errors.New("book not found")
	ErrReviewNotFound = errors.New("review not found")
	ErrInvalidID      = errors.New("invalid id")
	ErrUnauthorized   = errors.New("unauthorized")
)

// ToHTTPStatus maps review errors to their logical status.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrBookNotFound),
		errors.Is(err, ErrReviewNotFound),
		errors.Is(err, repository.ErrNoRowsAffected):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidID),
		errors.Is(err, jsonpatch.ErrInvalidPatch),
		validation.IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
