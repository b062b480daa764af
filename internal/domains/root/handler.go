// Package root serves the API entry point listing what the caller can do.
package root

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"book-catalog-api/internal/shared/hateoas"
	"book-catalog-api/internal/shared/middleware"
	"book-catalog-api/internal/shared/response"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Links lists the entry points. Admins also get the create actions.
// GET /api/v1
func (h *Handler) Links(c *gin.Context) response.Result {
	links := []hateoas.Link{
		{Href: "/api/v1", Rel: "self", Method: http.MethodGet},
		{Href: "/api/authors", Rel: "authors", Method: http.MethodGet},
	}
	if middleware.IsAdmin(c) {
		links = append(links,
			hateoas.Link{Href: "/api/authors", Rel: "create-author", Method: http.MethodPost},
			hateoas.Link{Href: "/api/v1/books", Rel: "create-book", Method: http.MethodPost},
		)
	}
	return response.OK(links)
}
