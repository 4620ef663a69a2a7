package cache

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// WarmUpUserFilter 从Redis恢复并用现有用户名预热过滤器
// Redis数据损坏时仍从数据库预热，错误一并返回
func WarmUpUserFilter(ctx context.Context, filter *BloomFilter, db *gorm.DB) (int, error) {
	var errs []error
	if err := filter.LoadFromRedis(ctx); err != nil {
		errs = append(errs, fmt.Errorf("load user bloom filter failed: %w", err))
	}

	var usernames []string
	if err := db.WithContext(ctx).Table("users").Pluck("username", &usernames).Error; err != nil {
		errs = append(errs, fmt.Errorf("get usernames failed: %w", err))
		return 0, errors.Join(errs...)
	}
	filter.BatchAdd(usernames)

	// 覆盖损坏的数据
	if err := filter.SaveToRedis(ctx); err != nil {
		errs = append(errs, fmt.Errorf("save user bloom filter failed: %w", err))
	}
	return len(usernames), errors.Join(errs...)
}
