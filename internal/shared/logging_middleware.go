package shared

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	ct "usersphere/pkg/context"
)

// LoggingMiddleware emits one structured log line per request.
func LoggingMiddleware(logger *LokiLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		if raw != "" {
			path = path + "?" + raw
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.String("service", logger.serviceName),
		}

		current := ct.GetCurrent(c.Request.Context())
		if requestID, ok := current.GetString("request_id"); ok {
			fields = append(fields, zap.String("request_id", requestID))
		}

		logger.Logger.Ctx(c.Request.Context()).Info("HTTP Request", fields...)

		go logger.sendToLoki(c.Request.Context(), zapcore.InfoLevel, "HTTP Request", fields)
	}
}
