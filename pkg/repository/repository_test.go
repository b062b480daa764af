package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"book-catalog-api/pkg/pagination"
)

type shelf struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	UpdatedAt time.Time `db:"updated_at"`
	Slots     []slot    `db:"-"`
}

type slot struct {
	ShelfID  int64  `db:"shelf_id"`
	LabelID  int64  `db:"label_id"`
	Position int    `db:"position"`
	Label    *label `db:"-"`
}

type label struct {
	ID   int64  `db:"id"`
	Text string `db:"text"`
}

const testSchema = `
CREATE TABLE shelves (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL, updated_at DATETIME NOT NULL);
CREATE TABLE labels (id INTEGER PRIMARY KEY AUTOINCREMENT, text TEXT NOT NULL);
CREATE TABLE slots (
	shelf_id INTEGER NOT NULL REFERENCES shelves(id) ON DELETE CASCADE,
	label_id INTEGER NOT NULL REFERENCES labels(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	PRIMARY KEY (shelf_id, label_id)
);`

var (
	shelfSchema = NewSchema[shelf]("shelves", "id").WithIdentity("id")
	slotSchema  = NewSchema[slot]("slots", "shelf_id", "label_id")
	labelSchema = NewSchema[label]("labels", "id").WithIdentity("id")

	shelfSlots = HasMany[shelf, slot]{
		Name:       "Slots",
		Table:      "slots",
		ForeignKey: "shelf_id",
		ParentKey:  func(s *shelf) int64 { return s.ID },
		ChildKey:   func(s *slot) int64 { return s.ShelfID },
		Field:      func(s *shelf) *[]slot { return &s.Slots },
		Order:      []exp.OrderedExpression{goqu.C("position").Asc()},
	}
	slotLabel = BelongsTo[slot, label]{
		Name:       "Label",
		Table:      "labels",
		Column:     "id",
		ForeignKey: func(s *slot) int64 { return s.LabelID },
		ParentKey:  func(l *label) int64 { return l.ID },
		Field:      func(s *slot) **label { return &s.Label },
	}
)

type headerRecorder map[string]string

func (h headerRecorder) Header(key, value string) { h[key] = value }

func newTestDB(t *testing.T) *goqu.Database {
	t.Helper()

	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	return goqu.New("sqlite3", db)
}

func seedShelf(t *testing.T, ctx context.Context, repo *Repository[shelf], name string) *shelf {
	t.Helper()
	s := &shelf{Name: name, UpdatedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, s))
	return s
}

func TestCreatePopulatesIdentity(t *testing.T) {
	ctx := context.Background()
	repo := New(newTestDB(t), shelfSchema)

	first := seedShelf(t, ctx, repo, "Fiction")
	second := seedShelf(t, ctx, repo, "History")

	assert.NotZero(t, first.ID)
	assert.Equal(t, first.ID+1, second.ID)
}

func TestGetReturnsNilWhenNoMatch(t *testing.T) {
	ctx := context.Background()
	repo := New(newTestDB(t), shelfSchema)

	got, err := repo.Get(ctx, goqu.C("id").Eq(42))
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = repo.MustGet(ctx, goqu.C("id").Eq(42))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSavePersistsTrackedChanges(t *testing.T) {
	db := newTestDB(t)
	repo := New(db, shelfSchema)
	ctx := WithSession(context.Background(), NewSession())

	s := seedShelf(t, context.Background(), repo, "Fiction")

	tracked, err := repo.Get(ctx, goqu.C("id").Eq(s.ID))
	require.NoError(t, err)
	require.NotNil(t, tracked)

	tracked.Name = "Poetry"
	require.NoError(t, repo.Save(ctx))

	reloaded, err := repo.Get(context.Background(), goqu.C("id").Eq(s.ID))
	require.NoError(t, err)
	assert.Equal(t, "Poetry", reloaded.Name)
}

func TestSaveIgnoresUntrackedReads(t *testing.T) {
	db := newTestDB(t)
	repo := New(db, shelfSchema)
	ctx := WithSession(context.Background(), NewSession())

	s := seedShelf(t, context.Background(), repo, "Fiction")

	detached, err := repo.Get(ctx, goqu.C("id").Eq(s.ID), NoTracking[shelf]())
	require.NoError(t, err)
	require.NotNil(t, detached)

	detached.Name = "Poetry"
	require.NoError(t, repo.Save(ctx))

	reloaded, err := repo.Get(context.Background(), goqu.C("id").Eq(s.ID))
	require.NoError(t, err)
	assert.Equal(t, "Fiction", reloaded.Name)
	assert.Equal(t, 0, SessionFrom(ctx).Len())
}

func TestSaveWithoutSessionIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := New(newTestDB(t), shelfSchema)
	s := seedShelf(t, ctx, repo, "Fiction")

	got, err := repo.Get(ctx, goqu.C("id").Eq(s.ID))
	require.NoError(t, err)
	got.Name = "Poetry"
	require.NoError(t, repo.Save(ctx))

	reloaded, err := repo.Get(ctx, goqu.C("id").Eq(s.ID))
	require.NoError(t, err)
	assert.Equal(t, "Fiction", reloaded.Name)
}

func TestTrackedReadsShareInstance(t *testing.T) {
	repo := New(newTestDB(t), shelfSchema)
	ctx := WithSession(context.Background(), NewSession())
	s := seedShelf(t, context.Background(), repo, "Fiction")

	a, err := repo.Get(ctx, goqu.C("id").Eq(s.ID))
	require.NoError(t, err)
	a.Name = "Unsaved"

	b, err := repo.Get(ctx, goqu.C("id").Eq(s.ID))
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, "Unsaved", b.Name)
}

func TestUpdateRejectsDetachedTwinOfTrackedEntity(t *testing.T) {
	repo := New(newTestDB(t), shelfSchema)
	ctx := WithSession(context.Background(), NewSession())
	s := seedShelf(t, context.Background(), repo, "Fiction")

	_, err := repo.Get(ctx, goqu.C("id").Eq(s.ID))
	require.NoError(t, err)

	detached, err := repo.Get(ctx, goqu.C("id").Eq(s.ID), NoTracking[shelf]())
	require.NoError(t, err)
	detached.Name = "Poetry"

	assert.ErrorIs(t, repo.Update(ctx, detached), ErrIdentityConflict)
}

func TestUpdateRunsHookAndWritesImmediately(t *testing.T) {
	stamp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	schema := NewSchema[shelf]("shelves", "id").
		WithIdentity("id").
		OnUpdate(func(s *shelf) { s.UpdatedAt = stamp })
	repo := New(newTestDB(t), schema)
	ctx := context.Background()

	s := seedShelf(t, ctx, repo, "Fiction")
	s.Name = "Poetry"
	require.NoError(t, repo.Update(ctx, s))

	reloaded, err := repo.Get(ctx, goqu.C("id").Eq(s.ID))
	require.NoError(t, err)
	assert.Equal(t, "Poetry", reloaded.Name)
	assert.True(t, stamp.Equal(reloaded.UpdatedAt))
}

func TestUpdateMissingRow(t *testing.T) {
	repo := New(newTestDB(t), shelfSchema)
	err := repo.Update(context.Background(), &shelf{ID: 99, Name: "Ghost", UpdatedAt: time.Now()})
	assert.ErrorIs(t, err, ErrNoRowsAffected)
}

func TestRemoveUntracksAndDeletes(t *testing.T) {
	repo := New(newTestDB(t), shelfSchema)
	session := NewSession()
	ctx := WithSession(context.Background(), session)
	s := seedShelf(t, ctx, repo, "Fiction")
	require.Equal(t, 1, session.Len())

	require.NoError(t, repo.Remove(ctx, s))
	assert.Equal(t, 0, session.Len())

	got, err := repo.Get(ctx, goqu.C("id").Eq(s.ID))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetAllIncludingPagesAndReportsTotal(t *testing.T) {
	repo := New(newTestDB(t), shelfSchema)
	ctx := context.Background()
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		seedShelf(t, ctx, repo, name)
	}

	sink := headerRecorder{}
	page := pagination.New(2, 2)
	rows, err := repo.GetAllIncluding(ctx, ListOptions{
		OrderBy:    goqu.C("name"),
		Descending: true,
		Pagination: &page,
		Sink:       sink,
	})
	require.NoError(t, err)

	assert.Equal(t, "5", sink[pagination.HeaderTotalSizeRecords])
	require.Len(t, rows, 2)
	assert.Equal(t, "C", rows[0].Name)
	assert.Equal(t, "B", rows[1].Name)
}

func TestGetAllIncludingCountsFilteredRows(t *testing.T) {
	repo := New(newTestDB(t), shelfSchema)
	ctx := context.Background()
	for _, name := range []string{"Alpha", "Beta", "Alphabet"} {
		seedShelf(t, ctx, repo, name)
	}

	sink := headerRecorder{}
	page := pagination.New(1, 0)
	rows, err := repo.GetAllIncluding(ctx, ListOptions{
		Filter:     goqu.C("name").Like("Alpha%"),
		OrderBy:    goqu.C("name"),
		Pagination: &page,
		Sink:       sink,
	})
	require.NoError(t, err)
	assert.Equal(t, "2", sink[pagination.HeaderTotalSizeRecords])
	assert.Len(t, rows, 2)
}

func TestGetAllIncludingWithoutSinkSkipsHeader(t *testing.T) {
	repo := New(newTestDB(t), shelfSchema)
	ctx := context.Background()
	seedShelf(t, ctx, repo, "A")

	page := pagination.New(1, 10)
	rows, err := repo.GetAllIncluding(ctx, ListOptions{Pagination: &page})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestGetAllIncludingPastLastPageIsEmpty(t *testing.T) {
	repo := New(newTestDB(t), shelfSchema)
	ctx := context.Background()
	seedShelf(t, ctx, repo, "A")

	sink := headerRecorder{}
	page := pagination.New(1e18, 10)
	rows, err := repo.GetAllIncluding(ctx, ListOptions{
		OrderBy:    goqu.C("name"),
		Pagination: &page,
		Sink:       sink,
	})
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, "1", sink[pagination.HeaderTotalSizeRecords])
}

func TestIncludeThenInclude(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	shelves := New(db, shelfSchema)
	labels := New(db, labelSchema)
	slots := New(db, slotSchema)

	s := seedShelf(t, ctx, shelves, "Fiction")
	other := seedShelf(t, ctx, shelves, "Empty")

	red := &label{Text: "red"}
	blue := &label{Text: "blue"}
	require.NoError(t, labels.Create(ctx, red))
	require.NoError(t, labels.Create(ctx, blue))
	require.NoError(t, slots.Create(ctx, &slot{ShelfID: s.ID, LabelID: blue.ID, Position: 1}))
	require.NoError(t, slots.Create(ctx, &slot{ShelfID: s.ID, LabelID: red.ID, Position: 0}))

	got, err := shelves.Get(ctx, goqu.C("id").Eq(s.ID), Including(WithThen[shelf, slot, label](shelfSlots, slotLabel)))
	require.NoError(t, err)
	require.Len(t, got.Slots, 2)
	assert.Equal(t, "red", got.Slots[0].Label.Text)
	assert.Equal(t, "blue", got.Slots[1].Label.Text)

	all, err := shelves.GetAll(ctx, nil, With(shelfSlots))
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, sh := range all {
		if sh.ID == other.ID {
			assert.Empty(t, sh.Slots)
		} else {
			assert.Len(t, sh.Slots, 2)
			assert.Nil(t, sh.Slots[0].Label)
		}
	}

	assert.Equal(t, "Slots.Label", WithThen[shelf, slot, label](shelfSlots, slotLabel).Path())
}

func TestRemoveWhere(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	shelves := New(db, shelfSchema)
	labels := New(db, labelSchema)
	slots := New(db, slotSchema)

	s := seedShelf(t, ctx, shelves, "Fiction")
	l := &label{Text: "red"}
	require.NoError(t, labels.Create(ctx, l))
	require.NoError(t, slots.Create(ctx, &slot{ShelfID: s.ID, LabelID: l.ID}))

	n, err := slots.RemoveWhere(ctx, goqu.C("shelf_id").Eq(s.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	count, err := slots.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestInTransactionRollsBackEveryWrite(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	shelves := New(db, shelfSchema)
	labels := New(db, labelSchema)

	boom := errors.New("boom")
	err := InTransaction(ctx, db, func(ctx context.Context) error {
		seedShelf(t, ctx, shelves, "Fiction")
		require.NoError(t, labels.Create(ctx, &label{Text: "new"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, err := shelves.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = labels.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	err = InTransaction(ctx, db, func(ctx context.Context) error {
		seedShelf(t, ctx, shelves, "Fiction")
		return InTransaction(ctx, db, func(ctx context.Context) error {
			return labels.Create(ctx, &label{Text: "nested"})
		})
	})
	require.NoError(t, err)

	n, err = labels.Count(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
