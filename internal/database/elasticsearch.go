package database

import (
	"context"
	"fmt"

	"github.com/dualpascal/blog-api/internal/config"
	"github.com/dualpascal/blog-api/internal/logger"
	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

// InitElasticsearch 初始化Elasticsearch连接
func InitElasticsearch() (*elasticsearch.Client, error) {
	cfg := config.GlobalConfig.Elasticsearch

	esConfig := elasticsearch.Config{
		Addresses: cfg.URLs,
	}
	if cfg.Username != "" && cfg.Password != "" {
		esConfig.Username = cfg.Username
		esConfig.Password = cfg.Password
	}

	client, err := elasticsearch.NewClient(esConfig)
	if err != nil {
		return nil, fmt.Errorf("连接elasticsearch失败: %v", err)
	}

	info, err := client.Info(client.Info.WithContext(context.Background()))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch健康检查失败: %v", err)
	}
	defer info.Body.Close()

	logger.Info("elasticsearch连接成功",
		zap.String("status", info.Status()),
		zap.Strings("addresses", cfg.URLs),
	)
	return client, nil
}
