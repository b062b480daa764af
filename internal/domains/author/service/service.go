package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"book-catalog-api/internal/domain"
	"book-catalog-api/internal/domains/author/model"
	"book-catalog-api/internal/domains/author/repository"
	"book-catalog-api/internal/shared/jsonpatch"
	"book-catalog-api/pkg/pagination"
	store "book-catalog-api/pkg/repository"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type authorService struct {
	repo repository.AuthorRepository
}

func NewAuthorService(repo repository.AuthorRepository) ServiceInterface {
	return &authorService{repo: repo}
}

// =====================================================
// READ
// =====================================================

func (s *authorService) ListAuthors(ctx context.Context, p pagination.Params, sink store.HeaderSink) ([]model.AuthorDTO, error) {
	p.Normalize()

	authors, err := s.repo.List(ctx, &p, sink)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return model.ToAuthorDTOs(authors), nil
}

func (s *authorService) GetAuthor(ctx context.Context, id int64) (*model.AuthorDTO, error) {
	if id <= 0 {
		return nil, model.ErrInvalidID
	}

	a, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get author: %w", err)
	}
	if a == nil {
		return nil, model.ErrAuthorNotFound
	}
	return model.ToAuthorDTO(a), nil
}

func (s *authorService) SearchFirstByName(ctx context.Context, name string) (*model.AuthorDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrNameRequired
	}

	a, err := s.repo.FindFirstByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("search author: %w", err)
	}
	if a == nil {
		return nil, model.ErrAuthorNotFound
	}
	return model.ToAuthorDTO(a), nil
}

func (s *authorService) SearchAllByName(ctx context.Context, name string) ([]model.AuthorDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrNameRequired
	}

	authors, err := s.repo.FindAllByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("search authors: %w", err)
	}
	if len(authors) == 0 {
		return nil, model.ErrAuthorNotFound
	}
	return model.ToAuthorDTOs(authors), nil
}

// =====================================================
// WRITE
// =====================================================

func (s *authorService) CreateAuthor(ctx context.Context, req model.AuthorRequest) (*model.AuthorDTO, error) {
	// Step 1: Validate request
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Names are unique ignoring case
	if err := s.ensureNameFree(ctx, req.Name, 0); err != nil {
		return nil, err
	}

	// Step 3: Insert
	a := &domain.Author{Name: req.Name}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create author: %w", err)
	}

	log.Info().Int64("author_id", a.ID).Str("name", a.Name).Msg("Author created")
	return model.ToAuthorDTO(a), nil
}

func (s *authorService) UpdateAuthor(ctx context.Context, id int64, req model.AuthorRequest) (*model.AuthorDTO, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, a, req)
}

func (s *authorService) PatchAuthor(ctx context.Context, id int64, patch []byte) (*model.AuthorDTO, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	var req model.AuthorRequest
	if err := jsonpatch.Apply(model.ToRequest(a), patch, &req); err != nil {
		return nil, err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.apply(ctx, a, req)
}

func (s *authorService) DeleteAuthor(ctx context.Context, id int64) error {
	if id <= 0 {
		return model.ErrInvalidID
	}

	a, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return fmt.Errorf("get author: %w", err)
	}
	if a == nil {
		return model.ErrAuthorNotFound
	}

	if err := s.repo.Remove(ctx, a); err != nil {
		return fmt.Errorf("delete author: %w", err)
	}

	log.Info().Int64("author_id", id).Msg("Author deleted")
	return nil
}

// =====================================================
// HELPERS
// =====================================================

// load reads the author detached so Update is the only write.
func (s *authorService) load(ctx context.Context, id int64) (*domain.Author, error) {
	if id <= 0 {
		return nil, model.ErrInvalidID
	}

	a, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, fmt.Errorf("get author: %w", err)
	}
	if a == nil {
		return nil, model.ErrAuthorNotFound
	}
	return a, nil
}

func (s *authorService) apply(ctx context.Context, a *domain.Author, req model.AuthorRequest) (*model.AuthorDTO, error) {
	if !strings.EqualFold(a.Name, req.Name) {
		if err := s.ensureNameFree(ctx, req.Name, a.ID); err != nil {
			return nil, err
		}
	}

	a.Name = req.Name
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("update author: %w", err)
	}

	log.Info().Int64("author_id", a.ID).Msg("Author updated")
	return model.ToAuthorDTO(a), nil
}

func (s *authorService) ensureNameFree(ctx context.Context, name string, self int64) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return fmt.Errorf("check author name: %w", err)
	}
	if existing != nil && existing.ID != self {
		return model.ErrNameTaken
	}
	return nil
}
