package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"book-catalog-api/internal/domain"
)

// ReviewRequest is the body of create and replace and the target of patch.
type ReviewRequest struct {
	Content string `json:"content"`
}

func (r *ReviewRequest) Normalize() {
	r.Content = strings.TrimSpace(r.Content)
}

func (r ReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content,
			validation.Required.Error("content is required"),
			validation.RuneLength(1, 100).Error("content must not exceed 100 characters"),
		),
	)
}

type ReviewDTO struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
	BookID  int64  `json:"bookId"`
	UserID  *int64 `json:"userId,omitempty"`
}

func ToReviewDTO(r *domain.Review) *ReviewDTO {
	return &ReviewDTO{ID: r.ID, Content: r.Content, BookID: r.BookID, UserID: r.UserID}
}

func ToReviewDTOs(reviews []domain.Review) []ReviewDTO {
	out := make([]ReviewDTO, len(reviews))
	for i := range reviews {
		out[i] = *ToReviewDTO(&reviews[i])
	}
	return out
}
