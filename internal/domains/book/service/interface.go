package service

import (
	"context"

	"github.com/xuri/excelize/v2"

	"book-catalog-api/internal/domains/book/model"
	"book-catalog-api/pkg/pagination"
	store "book-catalog-api/pkg/repository"
)

// ServiceInterface is the book business layer.
type ServiceInterface interface {
	ListBooks(ctx context.Context, p pagination.Params, sink store.HeaderSink) ([]model.BookDTO, error)
	GetBook(ctx context.Context, id int64) (*model.BookDTO, error)
	CreateBook(ctx context.Context, req model.BookRequest) (*model.BookDTO, error)
	UpdateBook(ctx context.Context, id int64, req model.BookRequest) (*model.BookDTO, error)
	// PatchBook applies an RFC 6902 document to the title.
	PatchBook(ctx context.Context, id int64, patch []byte) (*model.BookDTO, error)
	DeleteBook(ctx context.Context, id int64) error

	// ExportBooks builds a workbook with one row per book.
	ExportBooks(ctx context.Context) (*excelize.File, error)
}
