package middleware

import (
	"time"

	"notify-pipeline/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoggingMiddleware logs one line per request with the request identifier
// carried in the context. Server errors log at error level so operators can
// alert on them without parsing status codes out of info lines.
func LoggingMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log := l
		if log == nil {
			log = logger.GetGlobalLogger()
		}
		if log == nil {
			return
		}

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		}
		if status >= 500 {
			log.WithContext(c.Request.Context()).Error("request failed", fields...)
			return
		}
		log.WithContext(c.Request.Context()).Info("request", fields...)
	}
}
