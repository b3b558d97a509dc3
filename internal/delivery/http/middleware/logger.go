package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jamdate/jamdate-backend/internal/delivery/http/handler"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger logs one line per request and echoes a request id, reusing
// the caller's X-Request-ID when present.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if userID := c.GetInt(handler.UserIDKey); userID != 0 {
			attrs = append(attrs, "user_id", userID)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			logger.ErrorContext(ctx, "request failed", attrs...)
		case status >= 400:
			logger.WarnContext(ctx, "request rejected", attrs...)
		default:
			logger.InfoContext(ctx, "request handled", attrs...)
		}
	}
}
