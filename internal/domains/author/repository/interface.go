package repository

import (
	"context"

	"book-catalog-api/internal/domain"
	"book-catalog-api/pkg/pagination"
	store "book-catalog-api/pkg/repository"
)

// =====================================================
// AUTHOR REPOSITORY INTERFACE
// =====================================================

type AuthorRepository interface {
	// ========================================
	// CRUD Operations
	// ========================================

	Create(ctx context.Context, a *domain.Author) error

	// FindByID returns nil when the author does not exist.
	FindByID(ctx context.Context, id int64, tracked bool) (*domain.Author, error)

	// FindDetail returns the author with its books, read through the cache.
	FindDetail(ctx context.Context, id int64) (*domain.Author, error)

	// Update overwrites the author and refreshes UpdatedAt.
	Update(ctx context.Context, a *domain.Author) error

	// Remove deletes the author and its book links.
	Remove(ctx context.Context, a *domain.Author) error

	// Save flushes tracked changes of the request session.
	Save(ctx context.Context) error

	// ========================================
	// QUERIES
	// ========================================

	// List returns one page ordered by name descending.
	List(ctx context.Context, p *pagination.Params, sink store.HeaderSink) ([]domain.Author, error)

	// FindFirstByName returns the first author whose name contains fragment,
	// ignoring case.
	FindFirstByName(ctx context.Context, fragment string) (*domain.Author, error)

	// FindAllByName returns every author whose name contains fragment,
	// ignoring case.
	FindAllByName(ctx context.Context, fragment string) ([]domain.Author, error)

	// FindByName matches the whole name, ignoring case.
	FindByName(ctx context.Context, name string) (*domain.Author, error)
}
