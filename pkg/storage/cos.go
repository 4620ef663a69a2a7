package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/dualpascal/blog-api/internal/config"
	"github.com/tencentyun/cos-go-sdk-v5"
)

// COSStorage 腾讯云COS存储
type COSStorage struct {
	client    *cos.Client
	urlPrefix string
}

// NewCOSStorage 创建COS存储
func NewCOSStorage(cfg config.COSStorage) (*COSStorage, error) {
	u, err := url.Parse(cfg.BucketURL)
	if err != nil {
		return nil, fmt.Errorf("解析COS URL失败: %v", err)
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: u}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
		},
	})

	prefix := cfg.URLPrefix
	if prefix == "" {
		prefix = cfg.BucketURL
	}
	return &COSStorage{client: client, urlPrefix: prefix}, nil
}

// Put 上传对象
func (s *COSStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	opt := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{
			ContentType:   contentType,
			ContentLength: size,
		},
	}
	if _, err := s.client.Object.Put(ctx, key, r, opt); err != nil {
		return "", fmt.Errorf("上传到腾讯云失败: %v", err)
	}
	return joinURL(s.urlPrefix, key), nil
}

// Delete 删除对象
func (s *COSStorage) Delete(ctx context.Context, key string) error {
	if _, err := s.client.Object.Delete(ctx, key); err != nil {
		return fmt.Errorf("删除腾讯云对象失败: %v", err)
	}
	return nil
}

// Type 存储类型
func (s *COSStorage) Type() string {
	return TypeCOS
}
