package domain

import (
	"sort"
	"time"
)

// Author represents a catalog author.
type Author struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	AuthorBooks []AuthorBook `db:"-"`
}

// Books returns the loaded books of the author.
func (a *Author) Books() []Book {
	books := make([]Book, 0, len(a.AuthorBooks))
	for _, ab := range a.AuthorBooks {
		if ab.Book != nil {
			books = append(books, *ab.Book)
		}
	}
	return books
}

// Book represents a catalog book.
type Book struct {
	ID    int64  `db:"id"`
	Title string `db:"title"`

	Reviews     []Review     `db:"-"`
	AuthorBooks []AuthorBook `db:"-"`
}

// Authors returns the loaded authors in display order.
func (b *Book) Authors() []Author {
	links := make([]AuthorBook, len(b.AuthorBooks))
	copy(links, b.AuthorBooks)
	sort.SliceStable(links, func(i, j int) bool { return links[i].Order < links[j].Order })

	authors := make([]Author, 0, len(links))
	for _, ab := range links {
		if ab.Author != nil {
			authors = append(authors, *ab.Author)
		}
	}
	return authors
}

// AuthorBook links an author to a book. Order is the author's display
// position on the book.
type AuthorBook struct {
	AuthorID int64 `db:"author_id"`
	BookID   int64 `db:"book_id"`
	Order    int   `db:"order_index"`

	Author *Author `db:"-"`
	Book   *Book   `db:"-"`
}

// NewAuthorBooks builds the links of a book with Order 0..N-1 following
// the order of authorIDs.
func NewAuthorBooks(bookID int64, authorIDs []int64) []AuthorBook {
	links := make([]AuthorBook, len(authorIDs))
	for i, id := range authorIDs {
		links[i] = AuthorBook{AuthorID: id, BookID: bookID, Order: i}
	}
	return links
}

// Review is a comment on a book. UserID is nil for unattributed reviews.
type Review struct {
	ID      int64  `db:"id"`
	Content string `db:"content"`
	BookID  int64  `db:"book_id"`
	UserID  *int64 `db:"user_id"`
}

// User is an account able to obtain tokens.
type User struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	IsAdmin      bool      `db:"is_admin"`
	CreatedAt    time.Time `db:"created_at"`
}
