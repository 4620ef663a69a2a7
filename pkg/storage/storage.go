package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dualpascal/blog-api/internal/config"
)

// 存储类型
const (
	TypeLocal = "local"
	TypeCOS   = "cos"
	TypeMinio = "minio"
)

// Storage 对象存储
type Storage interface {
	// Put 上传对象，返回可访问的URL
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	// Delete 删除对象
	Delete(ctx context.Context, key string) error
	// Type 存储类型
	Type() string
}

// New 根据配置创建存储
func New(cfg *config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "", TypeLocal:
		return NewLocalStorage(cfg.Local.Path, cfg.Local.URLPrefix)
	case TypeCOS:
		return NewCOSStorage(cfg.COS)
	case TypeMinio:
		return NewMinioStorage(cfg.Minio)
	default:
		return nil, fmt.Errorf("不支持的存储类型: %s", cfg.Type)
	}
}

func joinURL(prefix, key string) string {
	return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(key, "/")
}
