package service

import (
	"context"

	"book-catalog-api/internal/domains/review/model"
	"book-catalog-api/pkg/pagination"
	store "book-catalog-api/pkg/repository"
)

// ServiceInterface is the review business layer. Every operation is scoped
// to one book and fails with ErrBookNotFound when it does not exist.
type ServiceInterface interface {
	ListReviews(ctx context.Context, bookID int64, p pagination.Params, sink store.HeaderSink) ([]model.ReviewDTO, error)
	GetReview(ctx context.Context, bookID, id int64) (*model.ReviewDTO, error)
	// CreateReview attributes the review to userID.
	CreateReview(ctx context.Context, bookID, userID int64, req model.ReviewRequest) (*model.ReviewDTO, error)
	UpdateReview(ctx context.Context, bookID, id int64, req model.ReviewRequest) (*model.ReviewDTO, error)
	PatchReview(ctx context.Context, bookID, id int64, patch []byte) (*model.ReviewDTO, error)
	DeleteReview(ctx context.Context, bookID, id int64) error
}
