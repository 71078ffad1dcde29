package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/hostelpg/internal/pkg/logger"
)

// HeaderRequestID carries the request id in both directions
const HeaderRequestID = "X-Request-ID"

// ContextRequestID is the gin context key of the request id
const ContextRequestID = "requestID"

// RequestLogger assigns a request id and logs every request once it completes
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.New().String()
		}
		c.Set(ContextRequestID, requestID)
		c.Header(HeaderRequestID, requestID)

		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		}

		event.
			Str("requestID", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("clientIP", c.ClientIP()).
			Msg("HTTP request")
	}
}
