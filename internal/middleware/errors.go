package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/medconnect-api/internal/apperror"
	"github.com/harentsoaR/medconnect-api/internal/logger"
)

// ErrorHandler renders the last error a handler attached with c.Error.
// Handlers that already wrote a response are left alone.
func ErrorHandler(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr, ok := apperror.As(err)
		if !ok {
			appErr = apperror.Internal(err, "Internal server error")
		}

		status := appErr.HTTPStatus()
		if status >= http.StatusInternalServerError {
			logger.FromContext(c.Request.Context(), base).Error("request failed",
				slog.String("kind", appErr.Kind.String()),
				slog.String("path", c.Request.URL.Path),
				slog.Any("error", err),
			)
		}

		c.JSON(status, appErr.Body())
	}
}
