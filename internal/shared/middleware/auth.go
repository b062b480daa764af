package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"book-catalog-api/internal/shared/response"
	"book-catalog-api/pkg/jwt"
)

const (
	claimsKey = "claims"
	userIDKey = "userID"
)

// OptionalAuth parses a Bearer token when one is sent and stores its claims.
// Anonymous requests pass through. A malformed or invalid token is rejected
// with 401.
func OptionalAuth(jm *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Read the Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// 2. Extract the token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.Abort(c, response.Unauthorized("invalid authorization header format"))
			return
		}

		// 3. Verify and parse the JWT
		claims, err := jm.ValidateToken(parts[1])
		if err != nil {
			log.Debug().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("Rejected token")
			response.Abort(c, response.Unauthorized("invalid token"))
			return
		}

		c.Set(claimsKey, claims)
		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// RequireAuth rejects requests that OptionalAuth did not authenticate.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := ClaimsFrom(c); !ok {
			response.Abort(c, response.Unauthorized("missing authorization header"))
			return
		}
		c.Next()
	}
}

// ClaimsFrom returns the claims of the authenticated caller.
func ClaimsFrom(c *gin.Context) (*jwt.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}

// UserID returns the id of the authenticated caller.
func UserID(c *gin.Context) (int64, bool) {
	claims, ok := ClaimsFrom(c)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}

// IsAdmin reports whether the caller's token carries the IsAdmin claim.
func IsAdmin(c *gin.Context) bool {
	claims, ok := ClaimsFrom(c)
	return ok && claims.IsAdmin
}
