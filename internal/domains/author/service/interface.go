package service

import (
	"context"

	"book-catalog-api/internal/domains/author/model"
	"book-catalog-api/pkg/pagination"
	store "book-catalog-api/pkg/repository"
)

// ServiceInterface is the author business layer.
type ServiceInterface interface {
	ListAuthors(ctx context.Context, p pagination.Params, sink store.HeaderSink) ([]model.AuthorDTO, error)
	GetAuthor(ctx context.Context, id int64) (*model.AuthorDTO, error)

	// SearchFirstByName returns the first author whose name contains name.
	SearchFirstByName(ctx context.Context, name string) (*model.AuthorDTO, error)
	// SearchAllByName returns every author whose name contains name.
	SearchAllByName(ctx context.Context, name string) ([]model.AuthorDTO, error)

	CreateAuthor(ctx context.Context, req model.AuthorRequest) (*model.AuthorDTO, error)
	UpdateAuthor(ctx context.Context, id int64, req model.AuthorRequest) (*model.AuthorDTO, error)
	// PatchAuthor applies an RFC 6902 document to the editable fields.
	PatchAuthor(ctx context.Context, id int64, patch []byte) (*model.AuthorDTO, error)
	DeleteAuthor(ctx context.Context, id int64) error
}
