package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"book-catalog-api/internal/domain"
	"book-catalog-api/internal/shared/hateoas"
	rules "book-catalog-api/internal/shared/validation"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// AuthorRequest is the body of create, replace and the target of patch.
type AuthorRequest struct {
	Name string `json:"name"`
}

func (r AuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.RuneLength(1, 100).Error("name must not exceed 100 characters"),
			rules.FirstCharUpper,
		),
	)
}

// Normalize trims surrounding whitespace.
func (r *AuthorRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type BookSummary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// AuthorDTO is the public shape of an author. Books is only filled on the
// detail endpoint.
type AuthorDTO struct {
	ID    int64         `json:"id"`
	Name  string        `json:"name"`
	Books []BookSummary `json:"bookList,omitempty"`
	hateoas.Resource
}

func (a *AuthorDTO) LinkID() int64 { return a.ID }

func ToAuthorDTO(a *domain.Author) *AuthorDTO {
	dto := &AuthorDTO{ID: a.ID, Name: a.Name}
	for _, b := range a.Books() {
		dto.Books = append(dto.Books, BookSummary{ID: b.ID, Title: b.Title})
	}
	return dto
}

func ToAuthorDTOs(authors []domain.Author) []AuthorDTO {
	out := make([]AuthorDTO, len(authors))
	for i := range authors {
		out[i] = *ToAuthorDTO(&authors[i])
	}
	return out
}

// ToRequest maps an author back to its editable fields.
func ToRequest(a *domain.Author) AuthorRequest {
	return AuthorRequest{Name: a.Name}
}
