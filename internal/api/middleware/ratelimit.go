package middleware

import (
	"fmt"
	"time"

	"vidstream/internal/api/response"
	"vidstream/internal/config"
	infraRedis "vidstream/internal/infra/redis"
	"vidstream/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit 基于 Redis 的固定窗口限流，按客户端 IP 计数。
// Redis 出错时放行请求，限流不应该把服务打挂。
func RateLimit(cfg *config.RateLimitConfig) gin.HandlerFunc {
	window := cfg.Window()

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		// 窗口按时间片对齐，同一窗口内共享一个计数键
		slot := time.Now().Unix() / int64(cfg.WindowSeconds)
		key := fmt.Sprintf("ratelimit:%s:%d", c.ClientIP(), slot)

		count, err := infraRedis.CountRequest(c.Request.Context(), key, window)
		if err != nil {
			logger.Warn("Rate limit check failed, allowing request", zap.Error(err))
			c.Next()
			return
		}

		if count > int64(cfg.MaxRequests) {
			response.TooManyRequests(c, "too many requests, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
