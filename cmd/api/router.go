package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authorHandler "book-catalog-api/internal/domains/author/handler"
	"book-catalog-api/internal/shared/hateoas"
	"book-catalog-api/internal/shared/middleware"
	"book-catalog-api/internal/shared/response"
	"book-catalog-api/pkg/container"
)

// APIVersion is the value the x-version header must carry on versioned routes.
const APIVersion = "1"

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares. Render must come last so it sees the final result.
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.CORS.AllowedOrigins),
		middleware.LogResponse(),
		response.Render(),
	)

	router.GET("/health", response.Handle(healthCheckHandler(c)))

	api := router.Group("/api",
		middleware.UnitOfWork(),
		middleware.OptionalAuth(c.JWTManager),
	)
	{
		api.GET("/v1", response.Handle(c.RootHandler.Links))

		setupAccountRoutes(api, c)
		setupAuthorRoutes(api, c)
		setupBookRoutes(api, c)
		setupReviewRoutes(api, c)
	}

	return router
}

// ========================================
// ACCOUNT ROUTES
// ========================================
func setupAccountRoutes(api *gin.RouterGroup, c *container.Container) {
	accounts := api.Group("/accounts")
	{
		accounts.POST("/register", response.Handle(c.UserHandler.Register))
		accounts.POST("/login", response.Handle(c.UserHandler.Login))
		accounts.GET("/RenewToken", middleware.RequireAuth(), response.Handle(c.UserHandler.RenewToken))
	}

	admin := accounts.Group("", middleware.RequireAdmin())
	{
		admin.POST("/MakeAdmin", response.Handle(c.UserHandler.MakeAdmin))
		admin.POST("/DeleteAdmin", response.Handle(c.UserHandler.DeleteAdmin))
	}
}

// ========================================
// AUTHOR ROUTES
// ========================================
func setupAuthorRoutes(api *gin.RouterGroup, c *container.Container) {
	links := hateoas.Middleware(authorHandler.Links, middleware.IsAdmin)
	h := c.AuthorHandler

	// Public author routes
	authors := api.Group("/authors", middleware.APIVersion(APIVersion))
	{
		authors.GET("", links, response.Handle(h.ListAuthors))
		authors.GET("/:id", links, response.Handle(h.GetAuthor))
	}

	// Admin author routes
	admin := authors.Group("", middleware.RequireAdmin())
	{
		admin.GET("/searchFirstAuthorByName/:name", links, response.Handle(h.SearchFirst))
		admin.GET("/searchAllAuthorsByName/:name", links, response.Handle(h.SearchAll))
		admin.POST("", links, response.Handle(h.CreateAuthor))
		admin.PUT("/:id", links, response.Handle(h.UpdateAuthor))
		admin.PATCH("/:id", response.Handle(h.PatchAuthor))
		admin.DELETE("/:id", response.Handle(h.DeleteAuthor))
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(api *gin.RouterGroup, c *container.Container) {
	h := c.BookHandler

	books := api.Group("/v1/books", middleware.RequireAdmin())
	{
		books.GET("", response.Handle(h.ListBooks))
		books.GET("/export", response.Handle(h.ExportBooks))
		books.GET("/:id", response.Handle(h.GetBook))
		books.POST("", response.Handle(h.CreateBook))
		books.PUT("/:id", response.Handle(h.UpdateBook))
		books.PATCH("/:id", response.Handle(h.PatchBook))
		books.DELETE("/:id", response.Handle(h.DeleteBook))
	}
}

// ========================================
// REVIEW ROUTES
// ========================================
func setupReviewRoutes(api *gin.RouterGroup, c *container.Container) {
	h := c.ReviewHandler

	reviews := api.Group("/books/:bookId/reviews",
		middleware.APIVersion(APIVersion),
		middleware.RequireAuth(),
	)
	{
		reviews.GET("", response.Handle(h.ListReviews))
		reviews.GET("/:id", response.Handle(h.GetReview))
		reviews.POST("", response.Handle(h.CreateReview))
		reviews.PUT("/:id", response.Handle(h.UpdateReview))
		reviews.PATCH("/:id", response.Handle(h.PatchReview))
		reviews.DELETE("/:id", response.Handle(h.DeleteReview))
	}
}

// ========================================
// HEALTH
// ========================================

// healthCheckHandler pings the database and the cache. Only the database
// decides the status.
func healthCheckHandler(c *container.Container) response.HandlerFunc {
	return func(ctx *gin.Context) response.Result {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"database": "up", "cache": "disabled"}

		if c.Cache != nil {
			status["cache"] = "up"
			if err := c.Cache.Ping(pingCtx); err != nil {
				status["cache"] = "down"
			}
		}

		if err := c.DB.Ping(pingCtx); err != nil {
			status["database"] = "down"
			r := response.Error(http.StatusServiceUnavailable, err.Error())
			r.Data = status
			return r
		}
		return response.OK(status)
	}
}
