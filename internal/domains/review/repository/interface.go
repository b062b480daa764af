package repository

import (
	"context"

	"book-catalog-api/internal/domain"
	"book-catalog-api/pkg/pagination"
	store "book-catalog-api/pkg/repository"
)

type ReviewRepository interface {
	BookExists(ctx context.Context, bookID int64) (bool, error)

	// FindByID only matches a review of bookID. Returns nil on a miss.
	FindByID(ctx context.Context, bookID, id int64, tracked bool) (*domain.Review, error)

	// ListByBook returns one page of the book's reviews ordered by id.
	ListByBook(ctx context.Context, bookID int64, p *pagination.Params, sink store.HeaderSink) ([]domain.Review, error)

	Create(ctx context.Context, r *domain.Review) error
	Update(ctx context.Context, r *domain.Review) error
	Remove(ctx context.Context, r *domain.Review) error
}
