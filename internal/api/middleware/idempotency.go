package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// IdempotencyContextKey is where the booking handler reads the client key.
const IdempotencyContextKey = "idempotency_key"

// IdempotencyMiddleware lifts the Idempotency-Key header into the request
// context. A missing or blank header leaves the context unset, which the
// booking flow treats as a non-idempotent request.
func IdempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := strings.TrimSpace(c.GetHeader("Idempotency-Key")); key != "" {
			c.Set(IdempotencyContextKey, key)
		}
		c.Next()
	}
}
