package repository

import (
	"context"

	"book-catalog-api/internal/domain"
	"book-catalog-api/pkg/pagination"
	store "book-catalog-api/pkg/repository"
)

// =====================================================
// BOOK REPOSITORY INTERFACE
// =====================================================

type BookRepository interface {
	// Create inserts the book and links it to authorIDs with Order 0..N-1,
	// in one transaction.
	Create(ctx context.Context, b *domain.Book, authorIDs []int64) error

	// FindByID returns nil when the book does not exist.
	FindByID(ctx context.Context, id int64, tracked bool) (*domain.Book, error)

	// FindDetail returns the book with its reviews and ordered authors.
	FindDetail(ctx context.Context, id int64) (*domain.Book, error)

	// Update writes the title. A non-nil authorIDs replaces every link in
	// the same transaction. No timestamp is touched.
	Update(ctx context.Context, b *domain.Book, authorIDs []int64) error

	// Remove deletes the book together with its links and reviews.
	Remove(ctx context.Context, b *domain.Book) error

	// List returns one page ordered by title with authors loaded.
	List(ctx context.Context, p *pagination.Params, sink store.HeaderSink) ([]domain.Book, error)

	// ListAll returns every book ordered by title with authors loaded.
	ListAll(ctx context.Context) ([]domain.Book, error)

	// CountAuthors returns how many of ids exist.
	CountAuthors(ctx context.Context, ids []int64) (int64, error)
}
