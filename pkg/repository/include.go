package repository

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

// querier is satisfied by both *goqu.Database and *goqu.TxDatabase.
type querier interface {
	From(from ...interface{}) *goqu.SelectDataset
	Insert(table interface{}) *goqu.InsertDataset
	Update(table interface{}) *goqu.UpdateDataset
	Delete(table interface{}) *goqu.DeleteDataset
}

// Relation loads the C side of a relation for a batch of P values, attaches
// the results to the parents and returns pointers to the attached values.
type Relation[P, C any] interface {
	load(ctx context.Context, q querier, parents []*P) ([]*C, error)
}

// Include is an eager-load directive for T.
type Include[T any] struct {
	path string
	load func(ctx context.Context, q querier, items []*T) error
}

// Path names the directive, e.g. "AuthorBooks.Author".
func (i Include[T]) Path() string { return i.path }

// With loads rel for every fetched T.
func With[P, C any](rel Relation[P, C]) Include[P] {
	return Include[P]{
		path: fmt.Sprint(rel),
		load: func(ctx context.Context, q querier, items []*P) error {
			_, err := rel.load(ctx, q, items)
			return err
		},
	}
}

// WithThen loads rel and then rel's own relation then on the loaded values.
func WithThen[P, C, G any](rel Relation[P, C], then Relation[C, G]) Include[P] {
	return Include[P]{
		path: fmt.Sprint(rel) + "." + fmt.Sprint(then),
		load: func(ctx context.Context, q querier, items []*P) error {
			children, err := rel.load(ctx, q, items)
			if err != nil {
				return err
			}
			_, err = then.load(ctx, q, children)
			return err
		},
	}
}

// HasMany is a one-to-many relation: rows of C whose ForeignKey column
// equals the parent's key.
type HasMany[P, C any] struct {
	Name       string
	Table      string
	ForeignKey string
	ParentKey  func(*P) int64
	ChildKey   func(*C) int64
	Field      func(*P) *[]C
	Order      []exp.OrderedExpression
}

func (r HasMany[P, C]) String() string { return r.Name }

func (r HasMany[P, C]) load(ctx context.Context, q querier, parents []*P) ([]*C, error) {
	if len(parents) == 0 {
		return nil, nil
	}

	keys := distinct(parents, r.ParentKey)
	ds := q.From(r.Table).Prepared(true).Where(goqu.C(r.ForeignKey).In(keys))
	if len(r.Order) > 0 {
		ds = ds.Order(r.Order...)
	}

	var rows []C
	if err := ds.ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("include %s: %w", r.Name, err)
	}

	groups := make(map[int64][]C, len(keys))
	for i := range rows {
		k := r.ChildKey(&rows[i])
		groups[k] = append(groups[k], rows[i])
	}

	loaded := make([]*C, 0, len(rows))
	for _, p := range parents {
		field := r.Field(p)
		group := groups[r.ParentKey(p)]
		*field = make([]C, len(group))
		copy(*field, group)
		for i := range *field {
			loaded = append(loaded, &(*field)[i])
		}
	}
	return loaded, nil
}

// BelongsTo is a many-to-one relation: the P row referenced by the child.
type BelongsTo[C, P any] struct {
	Name       string
	Table      string
	Column     string // key column of P
	ForeignKey func(*C) int64
	ParentKey  func(*P) int64
	Field      func(*C) **P
}

func (r BelongsTo[C, P]) String() string { return r.Name }

func (r BelongsTo[C, P]) load(ctx context.Context, q querier, children []*C) ([]*P, error) {
	if len(children) == 0 {
		return nil, nil
	}

	keys := distinct(children, r.ForeignKey)
	var rows []P
	err := q.From(r.Table).
		Prepared(true).
		Where(goqu.C(r.Column).In(keys)).
		ScanStructsContext(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("include %s: %w", r.Name, err)
	}

	byKey := make(map[int64]*P, len(rows))
	loaded := make([]*P, 0, len(rows))
	for i := range rows {
		byKey[r.ParentKey(&rows[i])] = &rows[i]
		loaded = append(loaded, &rows[i])
	}
	for _, c := range children {
		*r.Field(c) = byKey[r.ForeignKey(c)]
	}
	return loaded, nil
}

func distinct[T any](items []*T, key func(*T) int64) []int64 {
	seen := make(map[int64]struct{}, len(items))
	keys := make([]int64, 0, len(items))
	for _, it := range items {
		k := key(it)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}
