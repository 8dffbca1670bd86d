package logging

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id, stores a child logger in the
// request context and logs the outcome once the handler returns.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		l := Logger().With().Str("request_id", requestID).Logger()
		c.Request = c.Request.WithContext(ContextWithLogger(c.Request.Context(), l))

		c.Next()

		ev := l.Info()
		if status := c.Writer.Status(); status >= 500 {
			ev = l.Error()
		} else if status >= 400 {
			ev = l.Warn()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
