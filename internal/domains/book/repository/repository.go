package repository

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/rs/zerolog/log"

	"book-catalog-api/internal/domain"
	"book-catalog-api/pkg/cache"
	"book-catalog-api/pkg/pagination"
	store "book-catalog-api/pkg/repository"
)

type bookRepository struct {
	db      *goqu.Database
	books   *store.Repository[domain.Book]
	links   *store.Repository[domain.AuthorBook]
	authors *store.Repository[domain.Author]
	cache   cache.Cache
}

// NewBookRepository returns a BookRepository. Author detail entries in c
// list books, so every write here evicts them.
func NewBookRepository(db *goqu.Database, c cache.Cache) BookRepository {
	return &bookRepository{
		db:      db,
		books:   store.New(db, domain.BookSchema),
		links:   store.New(db, domain.AuthorBookSchema),
		authors: store.New(db, domain.AuthorSchema),
		cache:   c,
	}
}

func byID(id int64) goqu.Ex {
	return goqu.Ex{"id": id}
}

// =====================================================
// WRITE
// =====================================================

func (r *bookRepository) Create(ctx context.Context, b *domain.Book, authorIDs []int64) error {
	err := store.InTransaction(ctx, r.db, func(ctx context.Context) error {
		if err := r.books.Create(ctx, b); err != nil {
			return err
		}
		return r.createLinks(ctx, b, authorIDs)
	})
	if err != nil {
		return err
	}

	r.evictAuthors(ctx)
	return nil
}

func (r *bookRepository) Update(ctx context.Context, b *domain.Book, authorIDs []int64) error {
	err := store.InTransaction(ctx, r.db, func(ctx context.Context) error {
		if err := r.books.Update(ctx, b); err != nil {
			return err
		}
		if authorIDs == nil {
			return nil
		}

		// Step 1: Drop current links
		if _, err := r.links.RemoveWhere(ctx, goqu.Ex{"book_id": b.ID}); err != nil {
			return err
		}
		// Step 2: Recreate in request order
		return r.createLinks(ctx, b, authorIDs)
	})
	if err != nil {
		return err
	}

	r.evictAuthors(ctx)
	return nil
}

func (r *bookRepository) Remove(ctx context.Context, b *domain.Book) error {
	if err := r.books.Remove(ctx, b); err != nil {
		return err
	}
	r.evictAuthors(ctx)
	return nil
}

func (r *bookRepository) createLinks(ctx context.Context, b *domain.Book, authorIDs []int64) error {
	b.AuthorBooks = domain.NewAuthorBooks(b.ID, authorIDs)
	for i := range b.AuthorBooks {
		if err := r.links.Create(ctx, &b.AuthorBooks[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *bookRepository) evictAuthors(ctx context.Context) {
	if r.cache == nil {
		return
	}
	if err := r.cache.DeletePattern(ctx, cache.AuthorPattern); err != nil {
		log.Warn().Err(err).Msg("[CACHE] Author eviction after book write failed")
	}
}

// =====================================================
// READ
// =====================================================

func (r *bookRepository) FindByID(ctx context.Context, id int64, tracked bool) (*domain.Book, error) {
	if tracked {
		return r.books.Get(ctx, byID(id))
	}
	return r.books.Get(ctx, byID(id), store.NoTracking[domain.Book]())
}

func (r *bookRepository) FindDetail(ctx context.Context, id int64) (*domain.Book, error) {
	return r.books.Get(ctx, byID(id),
		store.NoTracking[domain.Book](),
		store.Including(domain.BookWithReviews(), domain.BookWithAuthors()),
	)
}

func (r *bookRepository) List(ctx context.Context, p *pagination.Params, sink store.HeaderSink) ([]domain.Book, error) {
	return r.books.GetAllIncluding(ctx, store.ListOptions{
		OrderBy:    goqu.C("title"),
		Pagination: p,
		Sink:       sink,
	}, domain.BookWithAuthors())
}

func (r *bookRepository) ListAll(ctx context.Context) ([]domain.Book, error) {
	return r.books.GetAllIncluding(ctx, store.ListOptions{
		OrderBy: goqu.C("title"),
	}, domain.BookWithAuthors())
}

func (r *bookRepository) CountAuthors(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return r.authors.Count(ctx, goqu.C("id").In(ids))
}
