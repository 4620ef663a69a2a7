package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dualpascal/blog-api/internal/model"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SearchQuery 搜索条件，UserID 为空时搜索全部用户
type SearchQuery struct {
	Keyword  string
	Locale   string
	UserID   *uint
	Page     int
	PageSize int
}

// SearchService 文章搜索服务
type SearchService struct {
	db       *gorm.DB
	esClient *elasticsearch.Client
	index    string
	log      *zap.SugaredLogger
}

// NewSearchService 创建搜索服务，esClient 为nil时使用数据库搜索
func NewSearchService(db *gorm.DB, esClient *elasticsearch.Client, index string, log *zap.SugaredLogger) *SearchService {
	if index == "" {
		index = model.ESArticle{}.ESIndexName()
	}
	return &SearchService{db: db, esClient: esClient, index: index, log: log}
}

// Search 标题或正文包含关键词（不区分大小写）的已发布文章，关键词为空返回空结果
func (s *SearchService) Search(ctx context.Context, q SearchQuery) (*ArticlePage, error) {
	if q.PageSize <= 0 {
		q.PageSize = PublicPageSize
	}
	page, offset := pageOffset(q.Page, q.PageSize)
	result := &ArticlePage{Articles: []model.Article{}, Page: page, PageSize: q.PageSize}

	// 只用去空格后的结果判断是否为空，匹配时保留原样
	if strings.TrimSpace(q.Keyword) == "" || !model.ValidLocale(q.Locale) {
		return result, nil
	}

	if s.esClient != nil {
		return s.searchWithElasticsearch(ctx, q, result, offset)
	}
	return s.searchWithDB(ctx, q, result, offset)
}

// escapeLike 转义LIKE通配符，配合 ESCAPE '!'
func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}

func (s *SearchService) searchWithDB(ctx context.Context, q SearchQuery, result *ArticlePage, offset int) (*ArticlePage, error) {
	pattern := "%" + escapeLike(strings.ToLower(q.Keyword)) + "%"
	scope := func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&model.Article{}).
			Where("articles.status = ? AND articles.locale = ?", model.ArticleStatusPublished, q.Locale).
			Where("(LOWER(articles.title) LIKE ? ESCAPE '!' OR LOWER(articles.content) LIKE ? ESCAPE '!')", pattern, pattern)
		if q.UserID != nil {
			query = query.Where("articles.user_id = ?", *q.UserID)
		}
		return query
	}

	if err := scope().Count(&result.Total).Error; err != nil {
		return nil, err
	}
	if int64(offset) >= result.Total {
		return result, nil
	}

	err := scope().
		Preload("Category").
		Preload("Tags").
		Preload("User").
		Order(listingOrder).
		Offset(offset).
		Limit(q.PageSize).
		Find(&result.Articles).Error
	if err != nil {
		return nil, err
	}
	return result, loadTranslations(s.db.WithContext(ctx), result.Articles, true)
}

// escapeWildcard 转义ES通配符查询的特殊字符
func escapeWildcard(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`)
	return r.Replace(s)
}

// buildESQuery 构建与数据库搜索等价的ES查询
func (s *SearchService) buildESQuery(q SearchQuery, offset int) map[string]interface{} {
	value := "*" + escapeWildcard(strings.ToLower(q.Keyword)) + "*"
	filters := []map[string]interface{}{
		{"term": map[string]interface{}{"status": model.ArticleStatusPublished}},
		{"term": map[string]interface{}{"locale": q.Locale}},
	}
	if q.UserID != nil {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"user_id": *q.UserID},
		})
	}
	wildcard := func(field string) map[string]interface{} {
		return map[string]interface{}{
			"wildcard": map[string]interface{}{
				field: map[string]interface{}{"value": value, "case_insensitive": true},
			},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter":               filters,
				"should":               []map[string]interface{}{wildcard("title.lower"), wildcard("content.lower")},
				"minimum_should_match": 1,
			},
		},
		"sort": []map[string]interface{}{
			{"published_at": map[string]interface{}{"order": "desc"}},
			{"created_at": map[string]interface{}{"order": "desc"}},
			{"article_id": map[string]interface{}{"order": "desc"}},
		},
		"_source":          []string{"article_id"},
		"from":             offset,
		"size":             q.PageSize,
		"track_total_hits": true,
	}
}

type esSearchResult struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source struct {
				ArticleID uint `json:"article_id"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *SearchService) searchWithElasticsearch(ctx context.Context, q SearchQuery, result *ArticlePage, offset int) (*ArticlePage, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(s.buildESQuery(q, offset)); err != nil {
		return nil, err
	}

	res, err := s.esClient.Search(
		s.esClient.Search.WithContext(ctx),
		s.esClient.Search.WithIndex(s.index),
		s.esClient.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("ES搜索错误: %s", res.String())
	}

	var r esSearchResult
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}
	result.Total = r.Hits.Total.Value
	if len(r.Hits.Hits) == 0 {
		return result, nil
	}

	ids := make([]uint, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		ids = append(ids, hit.Source.ArticleID)
	}

	// 以数据库为准重新校验状态，索引可能滞后
	var articles []model.Article
	err = s.db.WithContext(ctx).
		Preload("Category").
		Preload("Tags").
		Preload("User").
		Where("id IN ? AND status = ? AND locale = ?", ids, model.ArticleStatusPublished, q.Locale).
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Article, len(articles))
	for _, a := range articles {
		byID[a.ID] = a
	}
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			result.Articles = append(result.Articles, a)
		}
	}
	return result, loadTranslations(s.db.WithContext(ctx), result.Articles, true)
}

// ArticleIndexer 维护文章搜索索引
type ArticleIndexer interface {
	Index(ctx context.Context, article *model.Article) error
	Delete(ctx context.Context, articleID uint) error
}

// ESIndexer 基于Elasticsearch的索引维护
type ESIndexer struct {
	client *elasticsearch.Client
	index  string
	db     *gorm.DB
	log    *zap.SugaredLogger
}

// NewESIndexer 创建索引维护器
func NewESIndexer(client *elasticsearch.Client, index string, db *gorm.DB, log *zap.SugaredLogger) *ESIndexer {
	if index == "" {
		index = model.ESArticle{}.ESIndexName()
	}
	return &ESIndexer{client: client, index: index, db: db, log: log}
}

// Index 写入或覆盖文章文档
func (x *ESIndexer) Index(ctx context.Context, article *model.Article) error {
	doc := article.ToSearchDocument()
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      x.index,
		DocumentID: doc.ID,
		Body:       bytes.NewReader(data),
	}
	res, err := req.Do(ctx, x.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("保存到ES失败: %s", res.String())
	}
	return nil
}

// Delete 删除文章文档，文档不存在时忽略
func (x *ESIndexer) Delete(ctx context.Context, articleID uint) error {
	req := esapi.DeleteRequest{
		Index:      x.index,
		DocumentID: (&model.Article{Base: model.Base{ID: articleID}}).ESDocID(),
	}
	res, err := req.Do(ctx, x.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("从ES删除文档失败: %s", res.String())
	}
	return nil
}

// SyncAll 全量重建索引，返回写入的文档数
func (x *ESIndexer) SyncAll(ctx context.Context) (int, error) {
	res, err := x.client.DeleteByQuery(
		[]string{x.index},
		strings.NewReader(`{"query": {"match_all": {}}}`),
		x.client.DeleteByQuery.WithContext(ctx),
		x.client.DeleteByQuery.WithRefresh(true),
	)
	if err != nil {
		return 0, err
	}
	res.Body.Close()

	count := 0
	var batch []model.Article
	err = x.db.WithContext(ctx).Preload("Tags").FindInBatches(&batch, 200, func(tx *gorm.DB, _ int) error {
		for i := range batch {
			if err := x.Index(ctx, &batch[i]); err != nil {
				x.log.Warnf("添加文章 %d 到ES失败: %v", batch[i].ID, err)
				continue
			}
			count++
		}
		return nil
	}).Error
	if err != nil {
		return count, err
	}

	refresh, err := x.client.Indices.Refresh(
		x.client.Indices.Refresh.WithContext(ctx),
		x.client.Indices.Refresh.WithIndex(x.index),
	)
	if err != nil {
		return count, err
	}
	refresh.Body.Close()
	return count, nil
}
