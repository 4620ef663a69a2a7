package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"gorm.io/gorm"
)

// ESModel 定义支持Elasticsearch操作的模型接口
type ESModel interface {
	ESIndexName() string
	ESMapping() string
}

// 支持ES的模型列表
var esModels = []ESModel{
	&ESArticle{},
}

// Models 需要自动迁移的模型列表
var Models = []interface{}{
	&User{},
	&Category{},
	&Tag{},
	&Article{},
	&ArticleTag{},
	&Comment{},
	&BlogSetting{},
	&Contact{},
	&Image{},
}

// InitTables 初始化数据库表
func InitTables(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("自动迁移数据库表失败: %v", err)
	}
	return nil
}

// InitESIndices 初始化Elasticsearch索引，index为空时使用模型默认名
func InitESIndices(client *elasticsearch.Client, index string) error {
	ctx := context.Background()

	for _, m := range esModels {
		indexName := m.ESIndexName()
		if index != "" {
			indexName = index
		}

		resp, err := client.Indices.Exists([]string{indexName}, client.Indices.Exists.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("检查索引 %s 是否存在时出错: %v", indexName, err)
		}
		resp.Body.Close()
		if resp.StatusCode != 404 {
			continue
		}

		createResp, err := client.Indices.Create(
			indexName,
			client.Indices.Create.WithContext(ctx),
			client.Indices.Create.WithBody(strings.NewReader(m.ESMapping())),
		)
		if err != nil {
			return fmt.Errorf("创建索引 %s 失败: %v", indexName, err)
		}
		defer createResp.Body.Close()
		if createResp.IsError() {
			return fmt.Errorf("创建索引 %s 返回错误: %s", indexName, createResp.String())
		}
	}
	return nil
}
