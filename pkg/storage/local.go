package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage 本地磁盘存储
type LocalStorage struct {
	root      string
	urlPrefix string
}

// NewLocalStorage 创建本地存储，目录不存在时自动创建
func NewLocalStorage(root, urlPrefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %v", err)
	}
	return &LocalStorage{root: root, urlPrefix: urlPrefix}, nil
}

// Root 本地根目录
func (s *LocalStorage) Root() string {
	return s.root
}

func (s *LocalStorage) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if strings.Contains(clean, "..") {
		return "", errors.New("非法的对象路径")
	}
	return filepath.Join(s.root, clean), nil
}

// Put 写入文件
func (s *LocalStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	p, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("创建目录失败: %v", err)
	}

	f, err := os.Create(p)
	if err != nil {
		return "", fmt.Errorf("创建文件失败: %v", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("写入文件失败: %v", err)
	}
	return joinURL(s.urlPrefix, key), nil
}

// Delete 删除文件，文件不存在不视为错误
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("删除文件失败: %v", err)
	}
	return nil
}

// Type 存储类型
func (s *LocalStorage) Type() string {
	return TypeLocal
}
