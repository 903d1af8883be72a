package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"staybook-backend/internal/shared/utils"
)

type contextKey string

// ClientIPKey is the request-context key the extracted address lives under.
const ClientIPKey contextKey = "client_ip"

// ClientIPMiddleware extracts the client IP address from the request and
// injects it into both the gin context and the request context so services
// (e.g. the rate limiter, the payment gateway client) can reach it.
//
// Register this early in the middleware chain.
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := utils.ExtractClientIP(c)

		c.Set("client_ip", clientIP)

		ctx := context.WithValue(c.Request.Context(), ClientIPKey, clientIP)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetClientIPFromContext retrieves the client IP from a request context.
// Returns empty string if not found.
func GetClientIPFromContext(ctx context.Context) string {
	if ip := ctx.Value(ClientIPKey); ip != nil {
		if ipStr, ok := ip.(string); ok {
			return ipStr
		}
	}
	return ""
}
