package cache

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/redis/go-redis/v9"
)

// BloomFilter 布隆过滤器，可选持久化到Redis
type BloomFilter struct {
	filter    *bloom.BloomFilter
	redisKey  string
	client    *redis.Client
	mutex     sync.RWMutex
	capacity  uint    // 预期元素数量
	errorRate float64 // 误判率
}

// NewBloomFilter 创建布隆过滤器，client 为空时只在内存中维护
func NewBloomFilter(client *redis.Client, redisKey string, capacity uint, errorRate float64) *BloomFilter {
	return &BloomFilter{
		filter:    bloom.NewWithEstimates(capacity, errorRate),
		redisKey:  redisKey,
		client:    client,
		capacity:  capacity,
		errorRate: errorRate,
	}
}

// NewUserFilter 用户名存在性过滤器，10万用户，1%误判率
func NewUserFilter(client *redis.Client) *BloomFilter {
	return NewBloomFilter(client, BloomFilterUserKey, 100000, 0.01)
}

// Add 添加元素
func (bf *BloomFilter) Add(element string) {
	bf.mutex.Lock()
	defer bf.mutex.Unlock()
	bf.filter.AddString(element)
}

// BatchAdd 批量添加元素
func (bf *BloomFilter) BatchAdd(elements []string) {
	bf.mutex.Lock()
	defer bf.mutex.Unlock()
	for _, element := range elements {
		bf.filter.AddString(element)
	}
}

// Test 元素是否可能存在，为false时一定不存在
func (bf *BloomFilter) Test(element string) bool {
	bf.mutex.RLock()
	defer bf.mutex.RUnlock()
	return bf.filter.TestString(element)
}

// SaveToRedis 保存到Redis
func (bf *BloomFilter) SaveToRedis(ctx context.Context) error {
	if bf.client == nil {
		return nil
	}
	bf.mutex.RLock()
	data, err := bf.filter.GobEncode()
	bf.mutex.RUnlock()
	if err != nil {
		return fmt.Errorf("encode bloom filter failed: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	return bf.client.Set(ctx, bf.redisKey, encoded, BloomFilterExpiration).Err()
}

// LoadFromRedis 从Redis加载，不存在时保持空过滤器
func (bf *BloomFilter) LoadFromRedis(ctx context.Context) error {
	if bf.client == nil {
		return nil
	}
	encoded, err := bf.client.Get(ctx, bf.redisKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get bloom filter from redis failed: %w", err)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("decode bloom filter data failed: %w", err)
	}
	filter := &bloom.BloomFilter{}
	if err := filter.GobDecode(data); err != nil {
		return fmt.Errorf("decode bloom filter failed: %w", err)
	}

	bf.mutex.Lock()
	defer bf.mutex.Unlock()
	if err := bf.filter.Merge(filter); err != nil {
		// 参数不一致时以Redis中的为准
		bf.filter = filter
	}
	return nil
}
