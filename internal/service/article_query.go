package service

import (
	"context"
	"errors"

	"github.com/dualpascal/blog-api/internal/model"
	"gorm.io/gorm"
)

// 分页大小
const (
	PublicPageSize    = 10
	DashboardPageSize = 20
)

// 公开列表排序，id 保证同一时间戳下顺序稳定
const listingOrder = "articles.published_at DESC, articles.created_at DESC, articles.id DESC"

// ArticleFilter 公开文章列表条件
type ArticleFilter struct {
	UserID     uint // 0 表示无用户，结果为空
	Locale     string
	CategoryID *uint
	TagID      *uint
	Page       int
	PageSize   int
}

// ArticlePage 一页文章
type ArticlePage struct {
	Articles []model.Article
	Total    int64
	Page     int
	PageSize int
}

// ArticleQuery 公开文章列表查询
type ArticleQuery struct {
	db *gorm.DB
}

// NewArticleQuery 创建列表查询
func NewArticleQuery(db *gorm.DB) *ArticleQuery {
	return &ArticleQuery{db: db}
}

// List 按语言、分类、标签筛选用户已发布的文章
func (q *ArticleQuery) List(ctx context.Context, f ArticleFilter) (*ArticlePage, error) {
	if f.PageSize <= 0 {
		f.PageSize = PublicPageSize
	}
	page, offset := pageOffset(f.Page, f.PageSize)
	result := &ArticlePage{Articles: []model.Article{}, Page: page, PageSize: f.PageSize}
	if f.UserID == 0 || !model.ValidLocale(f.Locale) {
		return result, nil
	}

	scope := func() *gorm.DB {
		query := q.db.WithContext(ctx).Model(&model.Article{}).
			Where("articles.user_id = ? AND articles.status = ? AND articles.locale = ?",
				f.UserID, model.ArticleStatusPublished, f.Locale)
		if f.CategoryID != nil {
			query = query.Where("articles.category_id = ?", *f.CategoryID)
		}
		if f.TagID != nil {
			// 标签必须属于列表所属用户
			query = query.Where("articles.id IN (?)",
				q.db.Table("article_tags").
					Select("article_tags.article_id").
					Joins("JOIN tags ON tags.id = article_tags.tag_id").
					Where("tags.id = ? AND tags.user_id = ?", *f.TagID, f.UserID))
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
		Order(listingOrder).
		Offset(offset).
		Limit(f.PageSize).
		Find(&result.Articles).Error
	if err != nil {
		return nil, err
	}
	if err := loadTranslations(q.db.WithContext(ctx), result.Articles, true); err != nil {
		return nil, err
	}
	return result, nil
}

// CurrentCategory 当前筛选的分类，未指定或不属于该用户/语言时返回nil
func (q *ArticleQuery) CurrentCategory(ctx context.Context, userID uint, locale string, categoryID *uint) (*model.Category, error) {
	if categoryID == nil {
		return nil, nil
	}
	var category model.Category
	err := q.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND locale = ?", *categoryID, userID, locale).
		First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// CurrentTag 当前筛选的标签，未指定或不属于该用户时返回nil
func (q *ArticleQuery) CurrentTag(ctx context.Context, userID uint, tagID *uint) (*model.Tag, error) {
	if tagID == nil {
		return nil, nil
	}
	var tag model.Tag
	err := q.db.WithContext(ctx).Where("id = ? AND user_id = ?", *tagID, userID).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// loadTranslations 一次查询加载原文的译文，publishedOnly 时忽略草稿译文
func loadTranslations(db *gorm.DB, articles []model.Article, publishedOnly bool) error {
	ids := make([]uint, 0, len(articles))
	for i := range articles {
		if articles[i].IsOriginal() {
			ids = append(ids, articles[i].ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	query := db.Where("original_article_id IN ?", ids)
	if publishedOnly {
		query = query.Where("status = ?", model.ArticleStatusPublished)
	}
	var translations []model.Article
	if err := query.Find(&translations).Error; err != nil {
		return err
	}
	byOriginal := make(map[uint]*model.Article, len(translations))
	for i := range translations {
		byOriginal[*translations[i].OriginalArticleID] = &translations[i]
	}
	for i := range articles {
		if t, ok := byOriginal[articles[i].ID]; ok {
			articles[i].Translation = t
		}
	}
	return nil
}

// loadTranslation 加载单篇原文的译文
func loadTranslation(db *gorm.DB, article *model.Article) error {
	if !article.IsOriginal() {
		return nil
	}
	var translation model.Article
	err := db.Where("original_article_id = ?", article.ID).First(&translation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		article.Translation = nil
		return nil
	}
	if err != nil {
		return err
	}
	article.Translation = &translation
	return nil
}
