package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"book-catalog-api/internal/domains/review/model"
	"book-catalog-api/internal/domains/review/service"
	"book-catalog-api/internal/shared/middleware"
	"book-catalog-api/internal/shared/response"
	"book-catalog-api/internal/shared/validation"
	"book-catalog-api/pkg/pagination"
)

// =====================================================
// REVIEW HANDLER
// =====================================================

type ReviewHandler struct {
	reviewService service.ServiceInterface
}

func NewReviewHandler(reviewService service.ServiceInterface) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// =====================================================
// HELPER FUNCTIONS
// =====================================================

func parseParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, model.ErrInvalidID
	}
	return id, nil
}

// parseIDs reads :bookId and, when withReview is set, :id.
func parseIDs(c *gin.Context, withReview bool) (bookID, id int64, err error) {
	if bookID, err = parseParam(c, "bookId"); err != nil {
		return 0, 0, err
	}
	if withReview {
		if id, err = parseParam(c, "id"); err != nil {
			return 0, 0, err
		}
	}
	return bookID, id, nil
}

func failure(err error) response.Result {
	status := model.ToHTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Review request failed")
		return response.InternalError(err)
	}
	return response.Error(status, validation.Messages(err)...)
}

// =====================================================
// ENDPOINTS
// =====================================================

// ListReviews returns one page of a book's reviews
// GET /api/books/:bookId/reviews
func (h *ReviewHandler) ListReviews(c *gin.Context) response.Result {
	bookID, _, err := parseIDs(c, false)
	if err != nil {
		return failure(err)
	}

	var p pagination.Params
	if err := c.ShouldBindQuery(&p); err != nil {
		return response.BadRequest(err.Error())
	}

	reviews, err := h.reviewService.ListReviews(c.Request.Context(), bookID, p, c)
	if err != nil {
		return failure(err)
	}
	return response.OK(reviews)
}

// GetReview returns one review of a book
// GET /api/books/:bookId/reviews/:id
func (h *ReviewHandler) GetReview(c *gin.Context) response.Result {
	bookID, id, err := parseIDs(c, true)
	if err != nil {
		return failure(err)
	}

	review, err := h.reviewService.GetReview(c.Request.Context(), bookID, id)
	if err != nil {
		return failure(err)
	}
	return response.OK(review)
}

// CreateReview adds a review by the caller
// POST /api/books/:bookId/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) response.Result {
	// Step 1: Get user ID from JWT
	userID, ok := middleware.UserID(c)
	if !ok {
		return failure(model.ErrUnauthorized)
	}

	// Step 2: Parse path and body
	bookID, _, err := parseIDs(c, false)
	if err != nil {
		return failure(err)
	}
	var req model.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}

	// Step 3: Call service
	review, err := h.reviewService.CreateReview(c.Request.Context(), bookID, userID, req)
	if err != nil {
		return failure(err)
	}
	return response.Created(fmt.Sprintf("/api/books/%d/reviews/%d", bookID, review.ID), review)
}

// UpdateReview replaces the content
// PUT /api/books/:bookId/reviews/:id
func (h *ReviewHandler) UpdateReview(c *gin.Context) response.Result {
	bookID, id, err := parseIDs(c, true)
	if err != nil {
		return failure(err)
	}

	var req model.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), bookID, id, req)
	if err != nil {
		return failure(err)
	}
	return response.OK(review)
}

// PatchReview applies a JSON Patch document to the content
// PATCH /api/books/:bookId/reviews/:id
func (h *ReviewHandler) PatchReview(c *gin.Context) response.Result {
	bookID, id, err := parseIDs(c, true)
	if err != nil {
		return failure(err)
	}

	patch, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return response.BadRequest(err.Error())
	}

	review, err := h.reviewService.PatchReview(c.Request.Context(), bookID, id, patch)
	if err != nil {
		return failure(err)
	}
	return response.Result{StatusCode: http.StatusNoContent, Data: review}
}

// DeleteReview removes a review
// DELETE /api/books/:bookId/reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) response.Result {
	bookID, id, err := parseIDs(c, true)
	if err != nil {
		return failure(err)
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), bookID, id); err != nil {
		return failure(err)
	}
	return response.NoContent()
}
