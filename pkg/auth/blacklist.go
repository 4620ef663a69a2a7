package auth

import (
	"sync"
	"time"
)

// Blacklist 黑名单接口
type Blacklist interface {
	// AddToBlacklist 将令牌添加到黑名单
	AddToBlacklist(token string, expireAt time.Time) error
	// IsBlacklisted 检查令牌是否在黑名单中
	IsBlacklisted(token string) bool
}

// MemoryBlacklist 内存令牌黑名单，单实例部署或未启用Redis时使用
type MemoryBlacklist struct {
	tokens map[string]time.Time
	mutex  sync.RWMutex
}

// NewMemoryBlacklist 创建内存黑名单
func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{tokens: make(map[string]time.Time)}
}

// AddToBlacklist 将令牌添加到黑名单
func (b *MemoryBlacklist) AddToBlacklist(token string, expireAt time.Time) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	now := time.Now()
	for t, exp := range b.tokens {
		if now.After(exp) {
			delete(b.tokens, t)
		}
	}
	b.tokens[token] = expireAt
	return nil
}

// IsBlacklisted 检查令牌是否在黑名单中
func (b *MemoryBlacklist) IsBlacklisted(token string) bool {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	expireAt, exists := b.tokens[token]
	return exists && time.Now().Before(expireAt)
}
