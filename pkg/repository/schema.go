package repository

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/doug-martin/goqu/v9"
)

// Schema maps an entity type to its table.
//
// Columns are taken from `db` struct tags; fields tagged `db:"-"` (relations)
// are ignored.
type Schema[T any] struct {
	Table    string
	Key      []string // primary key columns
	Identity string   // generated key column, empty for natural keys

	// BeforeCreate and BeforeUpdate run right before the row is written.
	BeforeCreate func(*T)
	BeforeUpdate func(*T)

	once    sync.Once
	columns []column
}

type column struct {
	name  string
	index []int
}

// NewSchema declares table with key columns.
func NewSchema[T any](table string, key ...string) *Schema[T] {
	return &Schema[T]{Table: table, Key: key}
}

// WithIdentity marks col as generated by the store on insert.
func (s *Schema[T]) WithIdentity(col string) *Schema[T] {
	s.Identity = col
	return s
}

// OnCreate sets the BeforeCreate hook.
func (s *Schema[T]) OnCreate(fn func(*T)) *Schema[T] {
	s.BeforeCreate = fn
	return s
}

// OnUpdate sets the BeforeUpdate hook.
func (s *Schema[T]) OnUpdate(fn func(*T)) *Schema[T] {
	s.BeforeUpdate = fn
	return s
}

func (s *Schema[T]) fields() []column {
	s.once.Do(func() {
		t := reflect.TypeOf((*T)(nil)).Elem()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name, _, _ := strings.Cut(f.Tag.Get("db"), ",")
			if name == "" || name == "-" {
				continue
			}
			s.columns = append(s.columns, column{name: name, index: f.Index})
		}
	})
	return s.columns
}

func (s *Schema[T]) isKey(col string) bool {
	for _, k := range s.Key {
		if k == col {
			return true
		}
	}
	return false
}

func (s *Schema[T]) value(e *T, col string) any {
	v := reflect.ValueOf(e).Elem()
	for _, c := range s.fields() {
		if c.name == col {
			return v.FieldByIndex(c.index).Interface()
		}
	}
	return nil
}

// insertRecord holds every column except the generated identity.
func (s *Schema[T]) insertRecord(e *T) goqu.Record {
	v := reflect.ValueOf(e).Elem()
	rec := goqu.Record{}
	for _, c := range s.fields() {
		if s.Identity != "" && c.name == s.Identity {
			continue
		}
		rec[c.name] = v.FieldByIndex(c.index).Interface()
	}
	return rec
}

// updateRecord holds every non-key column.
func (s *Schema[T]) updateRecord(e *T) goqu.Record {
	v := reflect.ValueOf(e).Elem()
	rec := goqu.Record{}
	for _, c := range s.fields() {
		if s.isKey(c.name) {
			continue
		}
		rec[c.name] = v.FieldByIndex(c.index).Interface()
	}
	return rec
}

func (s *Schema[T]) keyExpr(e *T) goqu.Ex {
	ex := goqu.Ex{}
	for _, k := range s.Key {
		ex[k] = s.value(e, k)
	}
	return ex
}

// identityOf renders the table qualified key used by the session identity map.
func (s *Schema[T]) identityOf(e *T) string {
	parts := make([]string, 0, len(s.Key)+1)
	parts = append(parts, s.Table)
	for _, k := range s.Key {
		parts = append(parts, fmt.Sprint(s.value(e, k)))
	}
	return strings.Join(parts, "/")
}

func (s *Schema[T]) setIdentity(e *T, id int64) {
	v := reflect.ValueOf(e).Elem()
	for _, c := range s.fields() {
		if c.name == s.Identity {
			f := v.FieldByIndex(c.index)
			switch f.Kind() {
			case reflect.Int, reflect.Int32, reflect.Int64:
				f.SetInt(id)
			case reflect.Uint, reflect.Uint32, reflect.Uint64:
				f.SetUint(uint64(id))
			}
			return
		}
	}
}
