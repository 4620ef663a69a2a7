package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss 缓存未命中
var ErrCacheMiss = errors.New("cache miss")

// Cache 缓存接口
type Cache interface {
	// Get 获取缓存，未命中返回 ErrCacheMiss
	Get(ctx context.Context, key string) (string, error)

	// Set 设置缓存
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error

	// Delete 删除缓存
	Delete(ctx context.Context, keys ...string) error

	// GetJSON 获取JSON格式的缓存并反序列化
	GetJSON(ctx context.Context, key string, dest interface{}) error

	// SetJSON 序列化为JSON并设置缓存
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// 缓存键名
const (
	ArticleHTMLKey        = "article:html:%d:%d" // 文章渲染结果，按ID和更新时间区分
	AdminDashboardKey     = "stats:admin:dashboard"
	BloomFilterUserKey    = "bloom:user:exists"
	articleHTMLKeyPattern = "article:html:%d:*"
)

// 过期时间
const (
	ArticleHTMLExpiration = 24 * time.Hour
	StatsExpiration       = 30 * time.Minute
	BloomFilterExpiration = 24 * time.Hour
)
