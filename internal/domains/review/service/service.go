package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"book-catalog-api/internal/domain"
	"book-catalog-api/internal/domains/review/model"
	"book-catalog-api/internal/domains/review/repository"
	"book-catalog-api/internal/shared/jsonpatch"
	"book-catalog-api/pkg/pagination"
	store "book-catalog-api/pkg/repository"
)

type reviewService struct {
	reviewRepo repository.ReviewRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository) ServiceInterface {
	return &reviewService{reviewRepo: reviewRepo}
}

// =====================================================
// READ
// =====================================================

func (s *reviewService) ListReviews(ctx context.Context, bookID int64, p pagination.Params, sink store.HeaderSink) ([]model.ReviewDTO, error) {
	if err := s.ensureBook(ctx, bookID); err != nil {
		return nil, err
	}

	p.Normalize()
	reviews, err := s.reviewRepo.ListByBook(ctx, bookID, &p, sink)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return model.ToReviewDTOs(reviews), nil
}

func (s *reviewService) GetReview(ctx context.Context, bookID, id int64) (*model.ReviewDTO, error) {
	r, err := s.load(ctx, bookID, id, false)
	if err != nil {
		return nil, err
	}
	return model.ToReviewDTO(r), nil
}

// =====================================================
// WRITE
// =====================================================

func (s *reviewService) CreateReview(ctx context.Context, bookID, userID int64, req model.ReviewRequest) (*model.ReviewDTO, error) {
	// Step 1: Validate request
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if userID <= 0 {
		return nil, model.ErrUnauthorized
	}

	// Step 2: Book must exist
	if err := s.ensureBook(ctx, bookID); err != nil {
		return nil, err
	}

	// Step 3: Insert
	r := &domain.Review{Content: req.Content, BookID: bookID, UserID: &userID}
	if err := s.reviewRepo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	log.Info().Int64("review_id", r.ID).Int64("book_id", bookID).Int64("user_id", userID).Msg("Review created")
	return model.ToReviewDTO(r), nil
}

func (s *reviewService) UpdateReview(ctx context.Context, bookID, id int64, req model.ReviewRequest) (*model.ReviewDTO, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r, err := s.load(ctx, bookID, id, false)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, r, req)
}

func (s *reviewService) PatchReview(ctx context.Context, bookID, id int64, patch []byte) (*model.ReviewDTO, error) {
	r, err := s.load(ctx, bookID, id, false)
	if err != nil {
		return nil, err
	}

	var req model.ReviewRequest
	if err := jsonpatch.Apply(model.ReviewRequest{Content: r.Content}, patch, &req); err != nil {
		return nil, err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.apply(ctx, r, req)
}

func (s *reviewService) DeleteReview(ctx context.Context, bookID, id int64) error {
	r, err := s.load(ctx, bookID, id, true)
	if err != nil {
		return err
	}
	if err := s.reviewRepo.Remove(ctx, r); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	log.Info().Int64("review_id", id).Int64("book_id", bookID).Msg("Review deleted")
	return nil
}

// =====================================================
// HELPERS
// =====================================================

func (s *reviewService) ensureBook(ctx context.Context, bookID int64) error {
	if bookID <= 0 {
		return model.ErrInvalidID
	}
	ok, err := s.reviewRepo.BookExists(ctx, bookID)
	if err != nil {
		return fmt.Errorf("check book: %w", err)
	}
	if !ok {
		return model.ErrBookNotFound
	}
	return nil
}

func (s *reviewService) load(ctx context.Context, bookID, id int64, tracked bool) (*domain.Review, error) {
	if err := s.ensureBook(ctx, bookID); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, model.ErrInvalidID
	}

	r, err := s.reviewRepo.FindByID(ctx, bookID, id, tracked)
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	if r == nil {
		return nil, model.ErrReviewNotFound
	}
	return r, nil
}

func (s *reviewService) apply(ctx context.Context, r *domain.Review, req model.ReviewRequest) (*model.ReviewDTO, error) {
	r.Content = req.Content
	if err := s.reviewRepo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	return model.ToReviewDTO(r), nil
}
