package model

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"book-catalog-api/internal/domain"
	rules "book-catalog-api/internal/shared/validation"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// BookRequest is the body of create and replace.
type BookRequest struct {
	Title     string  `json:"title"`
	AuthorIDs []int64 `json:"authorsIds"`
}

func (r *BookRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
}

// ValidateCreate also requires the title to start with an uppercase letter.
func (r BookRequest) ValidateCreate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, titleRules(rules.FirstCharUpper)...),
		validation.Field(&r.AuthorIDs, authorIDRules()...),
	)
}

func (r BookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, titleRules()...),
		validation.Field(&r.AuthorIDs, authorIDRules()...),
	)
}

// BookTitle is the target of PATCH.
type BookTitle struct {
	Title string `json:"title"`
}

func (t BookTitle) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Title, titleRules()...),
	)
}

func titleRules(extra ...validation.Rule) []validation.Rule {
	return append([]validation.Rule{
		validation.Required.Error("title is required"),
		validation.RuneLength(1, 100).Error("title must not exceed 100 characters"),
	}, extra...)
}

func authorIDRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("at least one author is required"),
		validation.By(distinctPositiveIDs),
	}
}

func distinctPositiveIDs(value interface{}) error {
	ids, _ := value.([]int64)
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return errors.New("author ids must be positive")
		}
		if _, dup := seen[id]; dup {
			return errors.New("author ids must not repeat")
		}
		seen[id] = struct{}{}
	}
	return nil
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type AuthorSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ReviewSummary struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
}

// BookDTO lists authors in display order. Reviews are only filled on the
// detail endpoint.
type BookDTO struct {
	ID      int64           `json:"id"`
	Title   string          `json:"title"`
	Authors []AuthorSummary `json:"authors"`
	Reviews []ReviewSummary `json:"reviews,omitempty"`
}

func ToBookDTO(b *domain.Book) *BookDTO {
	dto := &BookDTO{ID: b.ID, Title: b.Title, Authors: []AuthorSummary{}}
	for _, a := range b.Authors() {
		dto.Authors = append(dto.Authors, AuthorSummary{ID: a.ID, Name: a.Name})
	}
	for _, r := range b.Reviews {
		dto.Reviews = append(dto.Reviews, ReviewSummary{ID: r.ID, Content: r.Content})
	}
	return dto
}

func ToBookDTOs(books []domain.Book) []BookDTO {
	out := make([]BookDTO, len(books))
	for i := range books {
		out[i] = *ToBookDTO(&books[i])
	}
	return out
}
