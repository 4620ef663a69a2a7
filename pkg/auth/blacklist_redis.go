package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis键前缀
const blacklistKeyPrefix = "jwt:blacklist:"

// RedisBlacklist Redis令牌黑名单，多实例共享
type RedisBlacklist struct {
	client *redis.Client
	logger *zap.SugaredLogger
}

// NewRedisBlacklist 创建Redis黑名单
func NewRedisBlacklist(client *redis.Client, logger *zap.SugaredLogger) *RedisBlacklist {
	return &RedisBlacklist{client: client, logger: logger}
}

// AddToBlacklist 将令牌添加到黑名单，TTL为令牌剩余有效期
func (b *RedisBlacklist) AddToBlacklist(token string, expireAt time.Time) error {
	duration := time.Until(expireAt)
	if duration <= 0 {
		return nil
	}

	if err := b.client.Set(context.Background(), blacklistKeyPrefix+token, "1", duration).Err(); err != nil {
		return fmt.Errorf("添加令牌到黑名单失败: %w", err)
	}
	return nil
}

// IsBlacklisted 检查令牌是否在黑名单中，Redis异常时视为未拉黑
func (b *RedisBlacklist) IsBlacklisted(token string) bool {
	n, err := b.client.Exists(context.Background(), blacklistKeyPrefix+token).Result()
	if err != nil {
		b.logger.Errorf("检查Redis黑名单失败: %v", err)
		return false
	}
	return n > 0
}
