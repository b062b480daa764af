package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"book-catalog-api/internal/domain"
	"book-catalog-api/internal/domains/book/model"
	"book-catalog-api/internal/domains/book/repository"
	"book-catalog-api/internal/shared/jsonpatch"
	"book-catalog-api/pkg/pagination"
	store "book-catalog-api/pkg/repository"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type bookService struct {
	repo repository.BookRepository
}

func NewBookService(repo repository.BookRepository) ServiceInterface {
	return &bookService{repo: repo}
}

// =====================================================
// READ
// =====================================================

func (s *bookService) ListBooks(ctx context.Context, p pagination.Params, sink store.HeaderSink) ([]model.BookDTO, error) {
	p.Normalize()

	books, err := s.repo.List(ctx, &p, sink)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return model.ToBookDTOs(books), nil
}

func (s *bookService) GetBook(ctx context.Context, id int64) (*model.BookDTO, error) {
	if id <= 0 {
		return nil, model.ErrInvalidID
	}

	b, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	if b == nil {
		return nil, model.ErrBookNotFound
	}
	return model.ToBookDTO(b), nil
}

// =====================================================
// WRITE
// =====================================================

func (s *bookService) CreateBook(ctx context.Context, req model.BookRequest) (*model.BookDTO, error) {
	// Step 1: Validate request
	req.Normalize()
	if err := req.ValidateCreate(); err != nil {
		return nil, err
	}

	// Step 2: Every author must exist
	if err := s.ensureAuthors(ctx, req.AuthorIDs); err != nil {
		return nil, err
	}

	// Step 3: Insert book and links
	b := &domain.Book{Title: req.Title}
	if err := s.repo.Create(ctx, b, req.AuthorIDs); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	log.Info().Int64("book_id", b.ID).Ints64("author_ids", req.AuthorIDs).Msg("Book created")
	return s.GetBook(ctx, b.ID)
}

func (s *bookService) UpdateBook(ctx context.Context, id int64, req model.BookRequest) (*model.BookDTO, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAuthors(ctx, req.AuthorIDs); err != nil {
		return nil, err
	}

	b.Title = req.Title
	if err := s.repo.Update(ctx, b, req.AuthorIDs); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	log.Info().Int64("book_id", id).Msg("Book updated")
	return s.GetBook(ctx, id)
}

func (s *bookService) PatchBook(ctx context.Context, id int64, patch []byte) (*model.BookDTO, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	var target model.BookTitle
	if err := jsonpatch.Apply(model.BookTitle{Title: b.Title}, patch, &target); err != nil {
		return nil, err
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}

	b.Title = target.Title
	if err := s.repo.Update(ctx, b, nil); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	return s.GetBook(ctx, id)
}

func (s *bookService) DeleteBook(ctx context.Context, id int64) error {
	if id <= 0 {
		return model.ErrInvalidID
	}

	b, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return fmt.Errorf("get book: %w", err)
	}
	if b == nil {
		return model.ErrBookNotFound
	}

	if err := s.repo.Remove(ctx, b); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	log.Info().Int64("book_id", id).Msg("Book deleted")
	return nil
}

// =====================================================
// HELPERS
// =====================================================

func (s *bookService) load(ctx context.Context, id int64) (*domain.Book, error) {
	if id <= 0 {
		return nil, model.ErrInvalidID
	}

	b, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	if b == nil {
		return nil, model.ErrBookNotFound
	}
	return b, nil
}

func (s *bookService) ensureAuthors(ctx context.Context, ids []int64) error {
	n, err := s.repo.CountAuthors(ctx, ids)
	if err != nil {
		return fmt.Errorf("count authors: %w", err)
	}
	if n != int64(len(ids)) {
		return model.ErrAuthorMissing
	}
	return nil
}
