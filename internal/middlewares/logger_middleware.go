package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"

	"genricycle/internal/logger"
	"genricycle/internal/utils"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags the request with an id and logs its outcome.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = utils.NewRequestID()
		}
		c.Set("requestId", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		log := logger.Default().With(
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
		switch {
		case c.Writer.Status() >= 500:
			log.Error("Request failed", "errors", c.Errors.String())
		case c.Writer.Status() >= 400:
			log.Warn("Request rejected")
		default:
			log.Info("Request handled")
		}
	}
}
