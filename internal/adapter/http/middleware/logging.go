package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"itemtracker/pkg/logger"
)

func LoggingMiddleware(log *logger.LokiLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		if raw != "" {
			path = path + "?" + raw
		}

		status := c.Writer.Status()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.String("request_id", GetCurrent(c).RequestID),
		}

		if userID, ok := CurrentUserID(c); ok {
			fields = append(fields, zap.Int("user_id", userID))
		}

		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		entry := log.Ctx(c.Request.Context())

		switch {
		case status >= 500:
			entry.Error("HTTP Request", fields...)
		case status >= 400:
			entry.Warn("HTTP Request", fields...)
		default:
			entry.Info("HTTP Request", fields...)
		}
	}
}
