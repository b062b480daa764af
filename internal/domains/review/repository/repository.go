package repository

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"book-catalog-api/internal/domain"
	"book-catalog-api/pkg/pagination"
	store "book-catalog-api/pkg/repository"
)

type reviewRepository struct {
	*store.Repository[domain.Review]
	books *store.Repository[domain.Book]
}

func NewReviewRepository(db *goqu.Database) ReviewRepository {
	return &reviewRepository{
		Repository: store.New(db, domain.ReviewSchema),
		books:      store.New(db, domain.BookSchema),
	}
}

func (r *reviewRepository) BookExists(ctx context.Context, bookID int64) (bool, error) {
	n, err := r.books.Count(ctx, goqu.Ex{"id": bookID})
	return n > 0, err
}

func (r *reviewRepository) FindByID(ctx context.Context, bookID, id int64, tracked bool) (*domain.Review, error) {
	filter := goqu.Ex{"id": id, "book_id": bookID}
	if tracked {
		return r.Get(ctx, filter)
	}
	return r.Get(ctx, filter, store.NoTracking[domain.Review]())
}

func (r *reviewRepository) ListByBook(ctx context.Context, bookID int64, p *pagination.Params, sink store.HeaderSink) ([]domain.Review, error) {
	return r.GetAllIncluding(ctx, store.ListOptions{
		Filter:     goqu.Ex{"book_id": bookID},
		OrderBy:    goqu.C("id"),
		Pagination: p,
		Sink:       sink,
	})
}
