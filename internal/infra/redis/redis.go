package redis

import (
	"context"
	"fmt"
	"time"

	"vidstream/internal/config"
	"vidstream/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// 播放计数去重标记和接口限流都走这个客户端
var client *redis.Client

// Init 初始化Redis客户端并验证连通性
func Init(cfg *config.RedisConfig) error {
	c := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	client = c
	logger.Info("Redis connected",
		zap.String("addr", cfg.Addr()),
		zap.Int("db", cfg.DB),
	)
	return nil
}

// Close 关闭Redis连接
func Close() error {
	if client == nil {
		return nil
	}
	logger.Info("Redis connection closed")
	return client.Close()
}

// Get 获取Redis客户端实例
func Get() *redis.Client {
	return client
}
