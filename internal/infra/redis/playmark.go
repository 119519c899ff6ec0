package redis

import (
	"context"
	"fmt"
	"time"
)

// MarkPlayed 记录一次播放计数标记，返回是否为窗口期内的首次播放。
// SETNX + TTL：键存在说明窗口内已计过数，不再重复累加。
func MarkPlayed(ctx context.Context, userID, videoID int64, window time.Duration) (bool, error) {
	key := fmt.Sprintf("play:mark:%d:%d", videoID, userID)
	ok, err := client.SetNX(ctx, key, 1, window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set play mark: %w", err)
	}
	return ok, nil
}

// CountRequest 固定窗口计数器，返回自增后的计数值（限流用）。
// 首次自增时设置过期，窗口结束后键自动消失。
func CountRequest(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to incr rate key: %w", err)
	}
	if count == 1 {
		if err := client.Expire(ctx, key, window).Err(); err != nil {
			return count, fmt.Errorf("failed to expire rate key: %w", err)
		}
	}
	return count, nil
}
