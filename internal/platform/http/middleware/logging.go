package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger writes one structured line per request.
// Query strings are not logged since they may carry credentials.
func Logger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"request_id", GetRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
			"response_size", c.Writer.Size(),
		}

		switch {
		case status >= 500:
			log.Error("server error", attrs...)
		case status >= 400:
			log.Warn("client error", attrs...)
		default:
			log.Info("request", attrs...)
		}
	}
}
