package domain

import (
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"book-catalog-api/pkg/repository"
)

// Now is the clock used for audit timestamps. Microsecond precision matches
// what PostgreSQL stores.
var Now = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// =====================================================
// TABLE SCHEMAS
// =====================================================

var (
	// AuthorSchema refreshes UpdatedAt on every Update.
	AuthorSchema = repository.NewSchema[Author]("authors", "id").
			WithIdentity("id").
			OnCreate(stampAuthor).
			OnUpdate(touchAuthor)

	BookSchema = repository.NewSchema[Book]("books", "id").WithIdentity("id")

	AuthorBookSchema = repository.NewSchema[AuthorBook]("author_books", "author_id", "book_id")

	ReviewSchema = repository.NewSchema[Review]("reviews", "id").WithIdentity("id")

	UserSchema = repository.NewSchema[User]("users", "id").
			WithIdentity("id").
			OnCreate(stampUser)
)

func stampAuthor(a *Author) {
	now := Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
}

func touchAuthor(a *Author) {
	a.UpdatedAt = Now()
}

func stampUser(u *User) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = Now()
	}
}

// =====================================================
// RELATIONS
// =====================================================

var (
	AuthorLinks = repository.HasMany[Author, AuthorBook]{
		Name:       "AuthorBooks",
		Table:      "author_books",
		ForeignKey: "author_id",
		ParentKey:  func(a *Author) int64 { return a.ID },
		ChildKey:   func(ab *AuthorBook) int64 { return ab.AuthorID },
		Field:      func(a *Author) *[]AuthorBook { return &a.AuthorBooks },
		Order:      []exp.OrderedExpression{goqu.C("book_id").Asc()},
	}

	BookLinks = repository.HasMany[Book, AuthorBook]{
		Name:       "AuthorBooks",
		Table:      "author_books",
		ForeignKey: "book_id",
		ParentKey:  func(b *Book) int64 { return b.ID },
		ChildKey:   func(ab *AuthorBook) int64 { return ab.BookID },
		Field:      func(b *Book) *[]AuthorBook { return &b.AuthorBooks },
		Order:      []exp.OrderedExpression{goqu.C("order_index").Asc()},
	}

	BookReviews = repository.HasMany[Book, Review]{
		Name:       "Reviews",
		Table:      "reviews",
		ForeignKey: "book_id",
		ParentKey:  func(b *Book) int64 { return b.ID },
		ChildKey:   func(r *Review) int64 { return r.BookID },
		Field:      func(b *Book) *[]Review { return &b.Reviews },
		Order:      []exp.OrderedExpression{goqu.C("id").Asc()},
	}

	LinkAuthor = repository.BelongsTo[AuthorBook, Author]{
		Name:       "Author",
		Table:      "authors",
		Column:     "id",
		ForeignKey: func(ab *AuthorBook) int64 { return ab.AuthorID },
		ParentKey:  func(a *Author) int64 { return a.ID },
		Field:      func(ab *AuthorBook) **Author { return &ab.Author },
	}

	LinkBook = repository.BelongsTo[AuthorBook, Book]{
		Name:       "Book",
		Table:      "books",
		Column:     "id",
		ForeignKey: func(ab *AuthorBook) int64 { return ab.BookID },
		ParentKey:  func(b *Book) int64 { return b.ID },
		Field:      func(ab *AuthorBook) **Book { return &ab.Book },
	}
)

// AuthorWithBooks loads Author -> AuthorBooks -> Book.
func AuthorWithBooks() repository.Include[Author] {
	return repository.WithThen[Author, AuthorBook, Book](AuthorLinks, LinkBook)
}

// BookWithAuthors loads Book -> AuthorBooks -> Author.
func BookWithAuthors() repository.Include[Book] {
	return repository.WithThen[Book, AuthorBook, Author](BookLinks, LinkAuthor)
}

// BookWithReviews loads Book -> Reviews.
func BookWithReviews() repository.Include[Book] {
	return repository.With[Book, Review](BookReviews)
}
