package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newIdempotencyTestRouter(captured *string, present *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(IdempotencyMiddleware())
	r.POST("/bookings", func(c *gin.Context) {
		_, *present = c.Get(IdempotencyContextKey)
		*captured = c.GetString(IdempotencyContextKey)
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestIdempotencyMiddleware_LiftsHeaderIntoContext(t *testing.T) {
	var key string
	var present bool
	r := newIdempotencyTestRouter(&key, &present)

	req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
	req.Header.Set("Idempotency-Key", "  key-123  ")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, present)
	assert.Equal(t, "key-123", key)
}

func TestIdempotencyMiddleware_BlankHeaderLeavesContextUnset(t *testing.T) {
	for _, header := range []string{"", "   "} {
		var key string
		var present bool
		r := newIdempotencyTestRouter(&key, &present)

		req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
		if header != "" {
			req.Header.Set("Idempotency-Key", header)
		}
		r.ServeHTTP(httptest.NewRecorder(), req)

		assert.False(t, present)
		assert.Empty(t, key)
	}
}
