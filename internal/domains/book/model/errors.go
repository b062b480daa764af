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
	ErrBookNotFound  = errors.New("book not found")
	ErrInvalidID     = errors.New("invalid book id")
	ErrAuthorMissing = errors.New("one of the authors does not exist")
	ErrNoBooks       = errors.New("there are no books")
)

// ToHTTPStatus maps book errors to their logical status.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrBookNotFound),
		errors.Is(err, ErrAuthorMissing),
		errors.Is(err, repository.ErrNotFound),
		errors.Is(err, repository.ErrNoRowsAffected):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidID),
		errors.Is(err, jsonpatch.ErrInvalidPatch),
		validation.IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
