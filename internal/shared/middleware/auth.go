package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"staybook-backend/internal/infrastructure/auth"
)

// AuthMiddleware resolves the opaque bearer token against the server-side
// token store and puts userID and role into the gin context. These sessions
// are distinct from the signed email-verification tokens: they are revocable
// and live as long as their store entry.
func AuthMiddleware(store *auth.TokenStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(401, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(401, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}
		token := parts[1]

		userID, role, err := store.Resolve(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, auth.ErrTokenNotFound) {
				log.Error().Err(err).Msg("Token store lookup failed")
			}
			c.JSON(401, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Set("role", role)
		c.Set("authToken", token)

		c.Next()
	}
}

// AdminMiddleware rejects requests whose session role is not admin.
// Must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get("role")
		if !ok || role != "admin" {
			c.JSON(403, gin.H{
				"success": false,
				"error":   "Access denied: admin role required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
