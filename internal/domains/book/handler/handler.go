package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"book-catalog-api/internal/domains/book/model"
	"book-catalog-api/internal/domains/book/service"
	"book-catalog-api/internal/shared/response"
	"book-catalog-api/internal/shared/validation"
	"book-catalog-api/pkg/pagination"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// =====================================================
// BOOK HANDLER
// =====================================================

type BookHandler struct {
	bookService service.ServiceInterface
}

func NewBookHandler(bookService service.ServiceInterface) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// =====================================================
// HELPER FUNCTIONS
// =====================================================

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, model.ErrInvalidID
	}
	return id, nil
}

func failure(err error) response.Result {
	status := model.ToHTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Book request failed")
		return response.InternalError(err)
	}
	return response.Error(status, validation.Messages(err)...)
}

// =====================================================
// ENDPOINTS
// =====================================================

// ListBooks returns one page of books
// GET /api/v1/books?page=&recordsPerPage=
func (h *BookHandler) ListBooks(c *gin.Context) response.Result {
	var p pagination.Params
	if err := c.ShouldBindQuery(&p); err != nil {
		return response.BadRequest(err.Error())
	}

	books, err := h.bookService.ListBooks(c.Request.Context(), p, c)
	if err != nil {
		return failure(err)
	}
	if len(books) == 0 {
		return response.Error(http.StatusNoContent, model.ErrNoBooks.Error())
	}
	return response.OK(books)
}

// GetBook returns a book with its authors and reviews
// GET /api/v1/books/:id
func (h *BookHandler) GetBook(c *gin.Context) response.Result {
	id, err := parseID(c)
	if err != nil {
		return failure(err)
	}

	book, err := h.bookService.GetBook(c.Request.Context(), id)
	if err != nil {
		return failure(err)
	}
	return response.OK(book)
}

// CreateBook adds a book linked to existing authors
// POST /api/v1/books
func (h *BookHandler) CreateBook(c *gin.Context) response.Result {
	var req model.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}

	book, err := h.bookService.CreateBook(c.Request.Context(), req)
	if err != nil {
		return failure(err)
	}
	return response.Created(fmt.Sprintf("/api/v1/books/%d", book.ID), book)
}

// UpdateBook replaces the title and the authors
// PUT /api/v1/books/:id
func (h *BookHandler) UpdateBook(c *gin.Context) response.Result {
	id, err := parseID(c)
	if err != nil {
		return failure(err)
	}

	var req model.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}

	book, err := h.bookService.UpdateBook(c.Request.Context(), id, req)
	if err != nil {
		return failure(err)
	}
	return response.OK(book)
}

// PatchBook applies a JSON Patch document to the title
// PATCH /api/v1/books/:id
func (h *BookHandler) PatchBook(c *gin.Context) response.Result {
	id, err := parseID(c)
	if err != nil {
		return failure(err)
	}

	patch, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return response.BadRequest(err.Error())
	}

	book, err := h.bookService.PatchBook(c.Request.Context(), id, patch)
	if err != nil {
		return failure(err)
	}
	return response.Result{StatusCode: http.StatusNoContent, Data: book}
}

// DeleteBook removes a book with its links and reviews
// DELETE /api/v1/books/:id
func (h *BookHandler) DeleteBook(c *gin.Context) response.Result {
	id, err := parseID(c)
	if err != nil {
		return failure(err)
	}

	if err := h.bookService.DeleteBook(c.Request.Context(), id); err != nil {
		return failure(err)
	}
	return response.NoContent()
}

// ExportBooks downloads every book as an xlsx workbook
// GET /api/v1/books/export
func (h *BookHandler) ExportBooks(c *gin.Context) response.Result {
	f, err := h.bookService.ExportBooks(c.Request.Context())
	if err != nil {
		return failure(err)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return failure(err)
	}

	c.Header("Content-Disposition", `attachment; filename="books.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	return response.OK(nil)
}
