package repository

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"book-catalog-api/pkg/pagination"
)

// HeaderSink receives out-of-band response headers. *gin.Context satisfies it.
type HeaderSink interface {
	Header(key, value string)
}

// Repository is the generic data access component for one entity type.
type Repository[T any] struct {
	db     *goqu.Database
	schema *Schema[T]
}

func New[T any](db *goqu.Database, schema *Schema[T]) *Repository[T] {
	return &Repository[T]{db: db, schema: schema}
}

// Schema returns the table mapping of T.
func (r *Repository[T]) Schema() *Schema[T] { return r.schema }

// DB returns the underlying goqu database.
func (r *Repository[T]) DB() *goqu.Database { return r.db }

// =====================================================
// QUERY OPTIONS
// =====================================================

type queryConfig[T any] struct {
	untracked bool
	includes  []Include[T]
}

// QueryOption shapes a Get call.
type QueryOption[T any] func(*queryConfig[T])

// NoTracking returns a detached result that Save never persists.
func NoTracking[T any]() QueryOption[T] {
	return func(c *queryConfig[T]) { c.untracked = true }
}

// Including adds eager-load directives.
func Including[T any](includes ...Include[T]) QueryOption[T] {
	return func(c *queryConfig[T]) { c.includes = append(c.includes, includes...) }
}

// ListOptions shapes a GetAllIncluding call.
type ListOptions struct {
	Filter     exp.Expression
	OrderBy    exp.Orderable
	Descending bool
	Pagination *pagination.Params
	Sink       HeaderSink
}

// =====================================================
// CREATE
// =====================================================

// Create inserts e and populates its generated identity.
func (r *Repository[T]) Create(ctx context.Context, e *T) error {
	if r.schema.BeforeCreate != nil {
		r.schema.BeforeCreate(e)
	}

	ins := r.q(ctx).Insert(r.schema.Table).Prepared(true).Rows(r.schema.insertRecord(e))

	switch {
	case r.schema.Identity == "":
		if _, err := ins.Executor().ExecContext(ctx); err != nil {
			return fmt.Errorf("insert %s: %w", r.schema.Table, err)
		}
	case r.db.Dialect() == "postgres":
		var id int64
		if _, err := ins.Returning(goqu.C(r.schema.Identity)).Executor().ScanValContext(ctx, &id); err != nil {
			return fmt.Errorf("insert %s: %w", r.schema.Table, err)
		}
		r.schema.setIdentity(e, id)
	default:
		res, err := ins.Executor().ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("insert %s: %w", r.schema.Table, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert %s: last insert id: %w", r.schema.Table, err)
		}
		r.schema.setIdentity(e, id)
	}

	if s := SessionFrom(ctx); s != nil {
		track(s, r.schema, e)
	}
	return nil
}

// =====================================================
// READ
// =====================================================

// Get returns the first row matching filter, or nil when none does.
// Results are tracked by the request session unless NoTracking is given.
func (r *Repository[T]) Get(ctx context.Context, filter exp.Expression, opts ...QueryOption[T]) (*T, error) {
	cfg := queryConfig[T]{}
	for _, opt := range opts {
		opt(&cfg)
	}

	ds := r.q(ctx).From(r.schema.Table).Prepared(true)
	if filter != nil {
		ds = ds.Where(filter)
	}

	var row T
	found, err := ds.ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", r.schema.Table, err)
	}
	if !found {
		return nil, nil
	}

	target := &row
	session := SessionFrom(ctx)
	if !cfg.untracked && session != nil {
		if existing, ok := session.lookup(r.schema.identityOf(&row)); ok {
			if tracked, ok := existing.(*T); ok {
				target = tracked
			}
		}
	}

	if err := r.include(ctx, []*T{target}, cfg.includes); err != nil {
		return nil, err
	}

	if !cfg.untracked && session != nil && target == &row {
		track(session, r.schema, target)
	}
	return target, nil
}

// MustGet is Get returning ErrNotFound instead of nil.
func (r *Repository[T]) MustGet(ctx context.Context, filter exp.Expression, opts ...QueryOption[T]) (*T, error) {
	e, err := r.Get(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrNotFound
	}
	return e, nil
}

// GetAll returns every row matching filter. The results are not tracked.
func (r *Repository[T]) GetAll(ctx context.Context, filter exp.Expression, includes ...Include[T]) ([]T, error) {
	return r.GetAllIncluding(ctx, ListOptions{Filter: filter}, includes...)
}

// GetAllIncluding adds ordering and paging to GetAll. When both a page and a
// header sink are given the total match count is written to the sink before
// the page is sliced.
func (r *Repository[T]) GetAllIncluding(ctx context.Context, opts ListOptions, includes ...Include[T]) ([]T, error) {
	ds := r.q(ctx).From(r.schema.Table).Prepared(true)
	if opts.Filter != nil {
		ds = ds.Where(opts.Filter)
	}

	if opts.Pagination != nil && opts.Sink != nil {
		total, err := ds.CountContext(ctx)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", r.schema.Table, err)
		}
		opts.Sink.Header(pagination.HeaderTotalSizeRecords, fmt.Sprint(total))
	}

	if opts.OrderBy != nil {
		if opts.Descending {
			ds = ds.Order(opts.OrderBy.Desc())
		} else {
			ds = ds.Order(opts.OrderBy.Asc())
		}
	}

	if opts.Pagination != nil {
		ds = ds.Offset(opts.Pagination.Offset()).Limit(opts.Pagination.Limit())
	}

	rows := []T{}
	if err := ds.ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.schema.Table, err)
	}

	if len(includes) > 0 && len(rows) > 0 {
		items := make([]*T, len(rows))
		for i := range rows {
			items[i] = &rows[i]
		}
		if err := r.include(ctx, items, includes); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// Count returns the number of rows matching filter.
func (r *Repository[T]) Count(ctx context.Context, filter exp.Expression) (int64, error) {
	ds := r.q(ctx).From(r.schema.Table).Prepared(true)
	if filter != nil {
		ds = ds.Where(filter)
	}
	return ds.CountContext(ctx)
}

func (r *Repository[T]) include(ctx context.Context, items []*T, includes []Include[T]) error {
	for _, inc := range includes {
		if err := inc.load(ctx, r.q(ctx), items); err != nil {
			return err
		}
	}
	return nil
}

// =====================================================
// UPDATE / REMOVE / SAVE
// =====================================================

// Update writes every non-key column of e immediately.
func (r *Repository[T]) Update(ctx context.Context, e *T) error {
	session := SessionFrom(ctx)
	if session != nil {
		if existing, ok := session.lookup(r.schema.identityOf(e)); ok && existing != any(e) {
			return ErrIdentityConflict
		}
	}

	if r.schema.BeforeUpdate != nil {
		r.schema.BeforeUpdate(e)
	}

	res, err := r.q(ctx).Update(r.schema.Table).
		Prepared(true).
		Set(r.schema.updateRecord(e)).
		Where(r.schema.keyExpr(e)).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.schema.Table, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNoRowsAffected
	}

	if session != nil {
		refresh(session, r.schema, e)
	}
	return nil
}

// Remove deletes e immediately.
func (r *Repository[T]) Remove(ctx context.Context, e *T) error {
	res, err := r.q(ctx).Delete(r.schema.Table).
		Prepared(true).
		Where(r.schema.keyExpr(e)).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.schema.Table, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNoRowsAffected
	}

	if s := SessionFrom(ctx); s != nil {
		s.forget(r.schema.identityOf(e))
	}
	return nil
}

// RemoveWhere deletes every row matching filter and returns how many went.
func (r *Repository[T]) RemoveWhere(ctx context.Context, filter exp.Expression) (int64, error) {
	res, err := r.q(ctx).Delete(r.schema.Table).
		Prepared(true).
		Where(filter).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", r.schema.Table, err)
	}
	return res.RowsAffected()
}

// Save flushes pending changes of every entity tracked by the request
// session in one transaction. Untracked results are never written. Inside an
// outer InTransaction the snapshots advance before that transaction commits.
func (r *Repository[T]) Save(ctx context.Context) error {
	session := SessionFrom(ctx)
	if session == nil || session.Len() == 0 {
		return nil
	}

	var done []func()
	err := InTransaction(ctx, r.db, func(ctx context.Context) error {
		var err error
		done, err = session.flush(ctx, r.q(ctx))
		return err
	})
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}

	for _, fn := range done {
		fn()
	}
	return nil
}
