package middleware

import (
	"strings"
	"time"

	"vidstream/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger Gin访问日志中间件。
// 健康检查和文档路由不记录；媒体流请求体积大，带上响应字节数便于排查。
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/healthz" || strings.HasPrefix(path, "/swagger/") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.String("ip", c.ClientIP()),
			zap.Duration("duration", duration),
			zap.Int("bytes", c.Writer.Size()),
		}
		if userID, ok := GetCurrentUserID(c); ok {
			fields = append(fields, zap.Int64("user_id", userID))
		}

		logger.Info("HTTP request", fields...)

		for _, e := range c.Errors {
			logger.Error("Request error",
				zap.String("path", path),
				zap.String("error", e.Error()),
			)
		}
	}
}
