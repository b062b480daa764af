package middleware

import (
	"github.com/gin-gonic/gin"

	"book-catalog-api/internal/shared/response"
)

// RequireAdmin checks the IsAdmin claim set by OptionalAuth.
// Anonymous callers get 401, authenticated non-admins 403.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := ClaimsFrom(c); !ok {
			response.Abort(c, response.Unauthorized("missing authorization header"))
			return
		}

		if !IsAdmin(c) {
			response.Abort(c, response.Forbidden("Access denied: admin role required"))
			return
		}

		c.Next()
	}
}
