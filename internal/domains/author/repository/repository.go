package repository

import (
	"context"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/rs/zerolog/log"

	"book-catalog-api/internal/domain"
	"book-catalog-api/pkg/cache"
	"book-catalog-api/pkg/pagination"
	store "book-catalog-api/pkg/repository"
)

// authorRepository implements AuthorRepository over the generic repository.
// Detail reads go through the cache when one is configured.
type authorRepository struct {
	*store.Repository[domain.Author]
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewAuthorRepository(db *goqu.Database, c cache.Cache, ttl time.Duration) AuthorRepository {
	return &authorRepository{
		Repository: store.New(db, domain.AuthorSchema),
		cache:      c,
		cacheTTL:   ttl,
	}
}

func byID(id int64) goqu.Ex {
	return goqu.Ex{"id": id}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// nameContains matches fragment literally, wildcards included.
func nameContains(fragment string) exp.Expression {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(fragment)) + "%"
	return goqu.L(`LOWER("name") LIKE ? ESCAPE '\'`, pattern)
}

func (r *authorRepository) FindByID(ctx context.Context, id int64, tracked bool) (*domain.Author, error) {
	if tracked {
		return r.Get(ctx, byID(id))
	}
	return r.Get(ctx, byID(id), store.NoTracking[domain.Author]())
}

func (r *authorRepository) FindDetail(ctx context.Context, id int64) (*domain.Author, error) {
	// Try cache first
	if r.cache != nil {
		var cached domain.Author
		found, err := r.cache.Get(ctx, cache.AuthorKey(id), &cached)
		if err != nil {
			log.Warn().Err(err).Int64("author_id", id).Msg("[CACHE] Author read failed")
		}
		if found {
			return &cached, nil
		}
	}

	a, err := r.Get(ctx, byID(id),
		store.NoTracking[domain.Author](),
		store.Including(domain.AuthorWithBooks()),
	)
	if err != nil || a == nil {
		return a, err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, cache.AuthorKey(id), a, r.cacheTTL); err != nil {
			log.Warn().Err(err).Int64("author_id", id).Msg("[CACHE] Author write failed")
		}
	}
	return a, nil
}

func (r *authorRepository) Update(ctx context.Context, a *domain.Author) error {
	if err := r.Repository.Update(ctx, a); err != nil {
		return err
	}
	r.evict(ctx, a.ID)
	return nil
}

func (r *authorRepository) Remove(ctx context.Context, a *domain.Author) error {
	if err := r.Repository.Remove(ctx, a); err != nil {
		return err
	}
	r.evict(ctx, a.ID)
	return nil
}

func (r *authorRepository) List(ctx context.Context, p *pagination.Params, sink store.HeaderSink) ([]domain.Author, error) {
	return r.GetAllIncluding(ctx, store.ListOptions{
		OrderBy:    goqu.C("name"),
		Descending: true,
		Pagination: p,
		Sink:       sink,
	})
}

func (r *authorRepository) FindFirstByName(ctx context.Context, fragment string) (*domain.Author, error) {
	return r.Get(ctx, nameContains(fragment), store.NoTracking[domain.Author]())
}

func (r *authorRepository) FindAllByName(ctx context.Context, fragment string) ([]domain.Author, error) {
	return r.GetAll(ctx, nameContains(fragment))
}

func (r *authorRepository) FindByName(ctx context.Context, name string) (*domain.Author, error) {
	return r.Get(ctx,
		goqu.Func("LOWER", goqu.C("name")).Eq(strings.ToLower(name)),
		store.NoTracking[domain.Author](),
	)
}

func (r *authorRepository) evict(ctx context.Context, id int64) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, cache.AuthorKey(id)); err != nil {
		log.Warn().Err(err).Int64("author_id", id).Msg("[CACHE] Author eviction failed")
	}
}
