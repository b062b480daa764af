package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"book-catalog-api/internal/shared/response"
	"book-catalog-api/pkg/pagination"
	"book-catalog-api/pkg/repository"
)

const (
	requestIDKey    = "request_id"
	HeaderRequestID = "X-Request-ID"
	HeaderVersion   = "x-version"
)

// RequestID reuses an incoming X-Request-ID or generates a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// CORS allows the configured origins. "*" allows every origin.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Authorization",
			HeaderVersion, "includeHATEOAS", HeaderRequestID,
		},
		ExposeHeaders: []string{pagination.HeaderTotalSizeRecords, "Location", HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}

	for _, o := range allowedOrigins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			break
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = allowedOrigins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

// APIVersion routes only requests whose x-version header equals version.
// Anything else is answered with a 404 envelope.
func APIVersion(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.TrimSpace(c.GetHeader(HeaderVersion)) != version {
			response.Abort(c, response.NotFound("unsupported api version"))
			return
		}
		c.Next()
	}
}

// UnitOfWork gives the request its own tracking session.
func UnitOfWork() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := repository.WithSession(c.Request.Context(), repository.NewSession())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
