package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harentsoaR/medconnect-api/internal/logger"
)

const RequestIDHeader = "X-Request-Id"

// RequestID tags each request with an id, reusing the caller's header when
// present, and puts a logger carrying that id into the request context.
func RequestID(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}

		c.Header(RequestIDHeader, id)
		ctx := logger.WithContext(c.Request.Context(), id, base.With(slog.String("request_id", id)))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
