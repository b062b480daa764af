package repository

import (
	"context"
	"reflect"
	"sync"

	"github.com/doug-martin/goqu/v9"
)

// Session is a per request unit of work. Entities read with tracking or
// created through a repository are registered here and flushed by Save.
type Session struct {
	mu      sync.Mutex
	order   []string
	entries map[string]entry
}

type entry interface {
	instance() any
	flush(ctx context.Context, q querier) (func(), error)
}

type trackedEntry[T any] struct {
	schema   *Schema[T]
	ptr      *T
	snapshot goqu.Record
}

func (e *trackedEntry[T]) instance() any { return e.ptr }

// flush writes only the columns that changed since the snapshot. The
// returned func advances the snapshot and must run after commit.
func (e *trackedEntry[T]) flush(ctx context.Context, q querier) (func(), error) {
	current := e.schema.updateRecord(e.ptr)
	changed := goqu.Record{}
	for col, val := range current {
		if !reflect.DeepEqual(val, e.snapshot[col]) {
			changed[col] = val
		}
	}
	if len(changed) == 0 {
		return nil, nil
	}

	_, err := q.Update(e.schema.Table).
		Prepared(true).
		Set(changed).
		Where(e.schema.keyExpr(e.ptr)).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return nil, err
	}
	return func() { e.snapshot = current }, nil
}

func NewSession() *Session {
	return &Session{entries: make(map[string]entry)}
}

type sessionKey struct{}

// WithSession returns a context carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session carried by ctx, or nil.
func SessionFrom(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}

// Len reports how many entities are tracked.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Session) lookup(id string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	return e.instance(), true
}

func track[T any](s *Session, schema *Schema[T], e *T) {
	id := schema.identityOf(e)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		s.order = append(s.order, id)
	}
	s.entries[id] = &trackedEntry[T]{schema: schema, ptr: e, snapshot: schema.updateRecord(e)}
}

func (s *Session) forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return
	}
	delete(s.entries, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// refresh resets the snapshot of a tracked instance after a direct write.
func refresh[T any](s *Session, schema *Schema[T], e *T) {
	id := schema.identityOf(e)

	s.mu.Lock()
	defer s.mu.Unlock()
	if te, ok := s.entries[id].(*trackedEntry[T]); ok && te.ptr == e {
		te.snapshot = schema.updateRecord(e)
	}
}

// flush writes pending changes of every tracked entity in registration order
// and returns the snapshot updates to apply once the writes are committed.
func (s *Session) flush(ctx context.Context, q querier) ([]func(), error) {
	s.mu.Lock()
	pending := make([]entry, 0, len(s.order))
	for _, id := range s.order {
		pending = append(pending, s.entries[id])
	}
	s.mu.Unlock()

	var done []func()
	for _, e := range pending {
		fn, err := e.flush(ctx, q)
		if err != nil {
			return nil, err
		}
		if fn != nil {
			done = append(done, fn)
		}
	}
	return done, nil
}
