package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"book-catalog-api/internal/domains/author/model"
	"book-catalog-api/internal/domains/author/service"
	"book-catalog-api/internal/shared/hateoas"
	"book-catalog-api/internal/shared/response"
	"book-catalog-api/internal/shared/validation"
	"book-catalog-api/pkg/pagination"
)

// =====================================================
// AUTHOR HANDLER
// =====================================================

type AuthorHandler struct {
	authorService service.ServiceInterface
}

func NewAuthorHandler(authorService service.ServiceInterface) *AuthorHandler {
	return &AuthorHandler{authorService: authorService}
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
		log.Error().Err(err).Msg("Author request failed")
		return response.InternalError(err)
	}
	return response.Error(status, validation.Messages(err)...)
}

func location(id int64) string {
	return fmt.Sprintf("/api/authors/%d", id)
}

// Links is the HATEOAS builder for authors. Everyone gets self, admins also
// get the update and delete actions.
func Links(_ *gin.Context, res hateoas.Linkable, isAdmin bool) []hateoas.Link {
	href := location(res.LinkID())
	links := []hateoas.Link{{Href: href, Rel: "self", Method: http.MethodGet}}
	if isAdmin {
		links = append(links,
			hateoas.Link{Href: href, Rel: "update-author", Method: http.MethodPut},
			hateoas.Link{Href: href, Rel: "delete-author", Method: http.MethodDelete},
		)
	}
	return links
}

// =====================================================
// READ ENDPOINTS
// =====================================================

// ListAuthors returns one page of authors
// GET /api/authors?page=&recordsPerPage=
func (h *AuthorHandler) ListAuthors(c *gin.Context) response.Result {
	var p pagination.Params
	if err := c.ShouldBindQuery(&p); err != nil {
		return response.BadRequest(err.Error())
	}

	authors, err := h.authorService.ListAuthors(c.Request.Context(), p, c)
	if err != nil {
		return failure(err)
	}
	return response.OK(authors)
}

// GetAuthor returns an author with its books
// GET /api/authors/:id
func (h *AuthorHandler) GetAuthor(c *gin.Context) response.Result {
	id, err := parseID(c)
	if err != nil {
		return failure(err)
	}

	author, err := h.authorService.GetAuthor(c.Request.Context(), id)
	if err != nil {
		return failure(err)
	}
	return response.OK(author)
}

// SearchFirst returns the first author matching a name fragment
// GET /api/authors/searchFirstAuthorByName/:name
func (h *AuthorHandler) SearchFirst(c *gin.Context) response.Result {
	author, err := h.authorService.SearchFirstByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		return failure(err)
	}
	return response.OK(author)
}

// SearchAll returns every author matching a name fragment
// GET /api/authors/searchAllAuthorsByName/:name
func (h *AuthorHandler) SearchAll(c *gin.Context) response.Result {
	authors, err := h.authorService.SearchAllByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		return failure(err)
	}
	return response.OK(authors)
}

// =====================================================
// WRITE ENDPOINTS
// =====================================================

// CreateAuthor adds an author
// POST /api/authors
func (h *AuthorHandler) CreateAuthor(c *gin.Context) response.Result {
	var req model.AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}

	author, err := h.authorService.CreateAuthor(c.Request.Context(), req)
	if err != nil {
		return failure(err)
	}
	return response.Created(location(author.ID), author)
}

// UpdateAuthor replaces the editable fields
// PUT /api/authors/:id
func (h *AuthorHandler) UpdateAuthor(c *gin.Context) response.Result {
	id, err := parseID(c)
	if err != nil {
		return failure(err)
	}

	var req model.AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}

	author, err := h.authorService.UpdateAuthor(c.Request.Context(), id, req)
	if err != nil {
		return failure(err)
	}
	return response.OK(author)
}

// PatchAuthor applies a JSON Patch document
// PATCH /api/authors/:id
func (h *AuthorHandler) PatchAuthor(c *gin.Context) response.Result {
	id, err := parseID(c)
	if err != nil {
		return failure(err)
	}

	patch, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return response.BadRequest(err.Error())
	}

	author, err := h.authorService.PatchAuthor(c.Request.Context(), id, patch)
	if err != nil {
		return failure(err)
	}
	return response.Result{StatusCode: http.StatusNoContent, Data: author}
}

// DeleteAuthor removes an author and its book links
// DELETE /api/authors/:id
func (h *AuthorHandler) DeleteAuthor(c *gin.Context) response.Result {
	id, err := parseID(c)
	if err != nil {
		return failure(err)
	}

	if err := h.authorService.DeleteAuthor(c.Request.Context(), id); err != nil {
		return failure(err)
	}
	return response.NoContent()
}
