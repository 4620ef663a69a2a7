package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dualpascal/blog-api/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage MinIO/S3兼容存储
type MinioStorage struct {
	client    *minio.Client
	bucket    string
	urlPrefix string
}

// NewMinioStorage 连接MinIO并确保bucket存在
func NewMinioStorage(cfg config.MinioStorage) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("初始化minio客户端失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("检查bucket失败: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("创建bucket失败: %w", err)
		}
	}

	prefix := cfg.URLPrefix
	if prefix == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		prefix = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}
	return &MinioStorage{client: client, bucket: cfg.Bucket, urlPrefix: prefix}, nil
}

// Put 上传对象
func (s *MinioStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if _, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("上传对象失败: %w", err)
	}
	return joinURL(s.urlPrefix, key), nil
}

// Delete 删除对象
func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("删除对象失败: %w", err)
	}
	return nil
}

// Type 存储类型
func (s *MinioStorage) Type() string {
	return TypeMinio
}
