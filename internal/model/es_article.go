package model

import "time"

// ESArticle Elasticsearch文章文档模型
type ESArticle struct {
	ID          string    `json:"id"`         // 格式为"article_{id}"
	ArticleID   uint      `json:"article_id"` // 数据库中的文章ID
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Locale      string    `json:"locale"`
	Status      string    `json:"status"`
	UserID      uint      `json:"user_id"`
	CategoryID  uint      `json:"category_id"`
	Tags        []string  `json:"tags"`
	PublishedAt time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ESIndexName 返回ES索引名称
func (ESArticle) ESIndexName() string {
	return "articles"
}

// ESMapping 返回ES索引映射
// title/content 的 lower 子字段用于大小写无关的子串匹配
func (ESArticle) ESMapping() string {
	return `{
		"settings": {
			"number_of_shards": 1,
			"number_of_replicas": 1,
			"analysis": {
				"normalizer": {
					"lowercase_normalizer": {
						"type": "custom",
						"filter": ["lowercase"]
					}
				}
			}
		},
		"mappings": {
			"properties": {
				"id": { "type": "keyword" },
				"article_id": { "type": "long" },
				"title": {
					"type": "text",
					"fields": {
						"lower": { "type": "keyword", "normalizer": "lowercase_normalizer", "ignore_above": 1024 }
					}
				},
				"content": {
					"type": "text",
					"fields": {
						"lower": { "type": "keyword", "normalizer": "lowercase_normalizer", "ignore_above": 32766 }
					}
				},
				"locale": { "type": "keyword" },
				"status": { "type": "keyword" },
				"user_id": { "type": "long" },
				"category_id": { "type": "long" },
				"tags": { "type": "keyword" },
				"published_at": { "type": "date" },
				"created_at": { "type": "date" },
				"updated_at": { "type": "date" }
			}
		}
	}`
}
