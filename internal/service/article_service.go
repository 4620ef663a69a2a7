package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/model"
	"github.com/dualpascal/blog-api/pkg/cache"
	"github.com/dualpascal/blog-api/pkg/markdown"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ArticleService 文章服务
type ArticleService struct {
	db      *gorm.DB
	log     *zap.SugaredLogger
	tags    *TagService
	cache   *cache.RedisCache
	indexer ArticleIndexer
	now     func() time.Time
}

// NewArticleService 创建文章服务实例，cache 与 indexer 可为nil
func NewArticleService(db *gorm.DB, log *zap.SugaredLogger, tags *TagService, htmlCache *cache.RedisCache, indexer ArticleIndexer) *ArticleService {
	return &ArticleService{
		db:      db,
		log:     log,
		tags:    tags,
		cache:   htmlCache,
		indexer: indexer,
		now:     time.Now,
	}
}

// Create 创建原文
func (s *ArticleService) Create(ctx context.Context, userID uint, req *dto.ArticleRequest) (*model.Article, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	article := &model.Article{
		Title:      strings.TrimSpace(req.Title),
		Content:    req.Content,
		Locale:     req.Locale,
		Status:     statusOrDraft(req.Status),
		CoverImage: req.CoverImage,
		UserID:     userID,
		CategoryID: req.CategoryID,
	}
	s.markPublished(article)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkCategory(tx, userID, article.Locale, article.CategoryID); err != nil {
			return err
		}
		if err := tx.Create(article).Error; err != nil {
			return err
		}
		// 所有者已确定，再解析标签
		return s.tags.ApplyTagText(tx, article, req.TagList)
	})
	if err != nil {
		return nil, err
	}

	s.afterSave(ctx, article)
	return article, nil
}

// Update 更新文章；已配对的文章不能修改语言
func (s *ArticleService) Update(ctx context.Context, userID, articleID uint, req *dto.ArticleRequest) (*model.Article, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var article model.Article
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", articleID, userID).First(&article).Error; err != nil {
			return notFound(err)
		}
		if req.Locale != article.Locale {
			paired, err := isPaired(tx, &article)
			if err != nil {
				return err
			}
			if paired {
				return invalid("locale", "已配对的文章不能修改语言")
			}
		}
		if err := checkCategory(tx, userID, req.Locale, req.CategoryID); err != nil {
			return err
		}

		article.Title = strings.TrimSpace(req.Title)
		article.Content = req.Content
		article.Locale = req.Locale
		article.Status = statusOrDraft(req.Status)
		article.CoverImage = req.CoverImage
		article.CategoryID = req.CategoryID
		article.Category = nil
		s.markPublished(&article)

		if err := tx.Model(&article).Updates(articleColumns(&article)).Error; err != nil {
			return err
		}
		return s.tags.ApplyTagText(tx, &article, req.TagList)
	})
	if err != nil {
		return nil, err
	}

	s.afterSave(ctx, &article)
	return &article, nil
}

// Delete 删除自己的文章，删除原文时一并删除译文
func (s *ArticleService) Delete(ctx context.Context, userID, articleID uint) error {
	return s.deleteWhere(ctx, "id = ? AND user_id = ?", articleID, userID)
}

// DeleteAny 管理员删除任意文章
func (s *ArticleService) DeleteAny(ctx context.Context, articleID uint) error {
	return s.deleteWhere(ctx, "id = ?", articleID)
}

func (s *ArticleService) deleteWhere(ctx context.Context, cond string, args ...interface{}) error {
	var ids []uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var article model.Article
		if err := tx.Where(cond, args...).First(&article).Error; err != nil {
			return notFound(err)
		}
		ids = []uint{article.ID}
		if article.IsOriginal() {
			var translationIDs []uint
			if err := tx.Model(&model.Article{}).Where("original_article_id = ?", article.ID).
				Pluck("id", &translationIDs).Error; err != nil {
				return err
			}
			ids = append(ids, translationIDs...)
		}
		return deleteArticles(tx, ids)
	})
	if err != nil {
		return err
	}

	for _, id := range ids {
		s.afterDelete(ctx, id)
	}
	return nil
}

// deleteArticles 删除文章及其评论与标签关联
func deleteArticles(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("article_id IN ?", ids).Delete(&model.Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("article_id IN ?", ids).Delete(&model.ArticleTag{}).Error; err != nil {
		return err
	}
	// 先删译文，再删原文
	if err := tx.Where("id IN ? AND original_article_id IS NOT NULL", ids).Delete(&model.Article{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&model.Article{}).Error
}

// GetOwned 获取自己的文章，包含分类、标签与配对文章
func (s *ArticleService) GetOwned(ctx context.Context, userID, articleID uint) (*model.Article, error) {
	var article model.Article
	db := s.db.WithContext(ctx)
	err := db.Preload("Category").Preload("Tags").Preload("OriginalArticle").
		Where("id = ? AND user_id = ?", articleID, userID).
		First(&article).Error
	if err != nil {
		return nil, notFound(err)
	}
	if err := loadTranslation(db, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// ListDashboard 后台文章列表，只列原文，已发布在前
func (s *ArticleService) ListDashboard(ctx context.Context, userID uint, page int) (*ArticlePage, error) {
	page, offset := pageOffset(page, DashboardPageSize)
	result := &ArticlePage{Articles: []model.Article{}, Page: page, PageSize: DashboardPageSize}
	db := s.db.WithContext(ctx)

	scope := func() *gorm.DB {
		return db.Model(&model.Article{}).
			Where("user_id = ? AND original_article_id IS NULL", userID)
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
		Order("status DESC, published_at DESC, created_at DESC, id DESC").
		Offset(offset).
		Limit(DashboardPageSize).
		Find(&result.Articles).Error
	if err != nil {
		return nil, err
	}
	return result, loadTranslations(db, result.Articles, false)
}

// ListAll 管理后台全部文章
func (s *ArticleService) ListAll(ctx context.Context, page int) (*ArticlePage, error) {
	page, offset := pageOffset(page, DashboardPageSize)
	result := &ArticlePage{Articles: []model.Article{}, Page: page, PageSize: DashboardPageSize}
	db := s.db.WithContext(ctx)

	if err := db.Model(&model.Article{}).Count(&result.Total).Error; err != nil {
		return nil, err
	}
	if int64(offset) >= result.Total {
		return result, nil
	}
	err := db.Preload("User").Preload("Category").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(DashboardPageSize).
		Find(&result.Articles).Error
	return result, err
}

// GetPublic 公开文章详情：必须属于该用户、已发布且语言一致
func (s *ArticleService) GetPublic(ctx context.Context, userID uint, locale string, articleID uint) (*model.Article, error) {
	var article model.Article
	db := s.db.WithContext(ctx)
	err := db.Preload("User").Preload("Category").Preload("Tags").Preload("OriginalArticle").
		Where("id = ? AND user_id = ? AND status = ? AND locale = ?",
			articleID, userID, model.ArticleStatusPublished, locale).
		First(&article).Error
	if err != nil {
		return nil, notFound(err)
	}
	if err := loadTranslation(db, &article); err != nil {
		return nil, err
	}
	// 未发布的配对文章不公开
	if article.Translation != nil && !article.Translation.IsPublished() {
		article.Translation = nil
	}
	if article.OriginalArticle != nil && !article.OriginalArticle.IsPublished() {
		article.OriginalArticle = nil
	}
	return &article, nil
}

// RenderHTML 渲染正文，结果按ID和更新时间缓存
func (s *ArticleService) RenderHTML(ctx context.Context, article *model.Article) (string, error) {
	key := fmt.Sprintf(cache.ArticleHTMLKey, article.ID, article.UpdatedAt.UnixNano())
	if s.cache != nil {
		html, err := s.cache.Get(ctx, key)
		if err == nil {
			return html, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warnf("读取文章HTML缓存失败: %v", err)
		}
	}

	html, err := markdown.Render(article.Content)
	if err != nil {
		return "", err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, html, cache.ArticleHTMLExpiration); err != nil {
			s.log.Warnf("写入文章HTML缓存失败: %v", err)
		}
	}
	return html, nil
}

// Preview 渲染预览，渲染失败返回 ErrPreviewFailed
func (s *ArticleService) Preview(content string) (string, error) {
	html, err := markdown.Render(content)
	if err != nil {
		s.log.Warnf("预览渲染失败: %v", err)
		return "", ErrPreviewFailed
	}
	return html, nil
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[^\p{L}\p{N}\s-]`)
	whitespaceRun       = regexp.MustCompile(`\s+`)
)

// exportFilename 文件名只保留字母、数字、空白和连字符，空白替换为下划线
func exportFilename(title, locale string) string {
	safe := unsafeFilenameChars.ReplaceAllString(title, "")
	safe = strings.TrimSpace(whitespaceRun.ReplaceAllString(safe, "_"))
	safe = strings.Trim(safe, "_")
	if safe == "" {
		safe = "article"
	}
	return safe + "_" + locale + ".md"
}

// exportDate 导出使用的日期格式
const exportDate = "2006年01月02日"

// Export 导出为带元数据头的Markdown文件
func (s *ArticleService) Export(ctx context.Context, userID, articleID uint) (string, []byte, error) {
	article, err := s.GetOwned(ctx, userID, articleID)
	if err != nil {
		return "", nil, err
	}

	categoryName := "未設定"
	if article.Category != nil {
		categoryName = article.Category.Name
	}
	date := article.CreatedAt
	if article.PublishedAt != nil {
		date = *article.PublishedAt
	}

	lines := []string{
		"# " + article.Title,
		"",
		"**カテゴリ**: " + categoryName,
	}
	if len(article.Tags) > 0 {
		lines = append(lines, "**タグ**: "+strings.Join(article.TagNames(), ", "))
	}
	lines = append(lines,
		"**投稿日**: "+date.Format(exportDate),
		"",
		"---",
		"",
		article.Content,
	)
	return exportFilename(article.Title, article.Locale), []byte(strings.Join(lines, "\n")), nil
}

// markPublished 首次发布时记录发布时间，之后不再修改
func (s *ArticleService) markPublished(article *model.Article) {
	if article.Status == model.ArticleStatusPublished && article.PublishedAt == nil {
		now := s.now()
		article.PublishedAt = &now
	}
}

// afterSave 更新搜索索引，失败只记录日志
func (s *ArticleService) afterSave(ctx context.Context, article *model.Article) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.Index(ctx, article); err != nil {
		s.log.Warnf("更新文章 %d 索引失败: %v", article.ID, err)
	}
}

func (s *ArticleService) afterDelete(ctx context.Context, articleID uint) {
	if s.indexer != nil {
		if err := s.indexer.Delete(ctx, articleID); err != nil {
			s.log.Warnf("删除文章 %d 索引失败: %v", articleID, err)
		}
	}
	if s.cache != nil {
		if err := s.cache.DeleteArticleHTML(ctx, articleID); err != nil {
			s.log.Warnf("清除文章 %d 缓存失败: %v", articleID, err)
		}
	}
}

// articleColumns 可编辑字段，map 形式以便写入 NULL
func articleColumns(a *model.Article) map[string]interface{} {
	return map[string]interface{}{
		"title":        a.Title,
		"content":      a.Content,
		"locale":       a.Locale,
		"status":       a.Status,
		"cover_image":  a.CoverImage,
		"category_id":  a.CategoryID,
		"published_at": a.PublishedAt,
	}
}

func statusOrDraft(status string) string {
	if status == "" {
		return model.ArticleStatusDraft
	}
	return status
}

// checkCategory 分类必须属于同一用户且语言一致
func checkCategory(tx *gorm.DB, userID uint, locale string, categoryID *uint) error {
	if categoryID == nil {
		return nil
	}
	var count int64
	err := tx.Model(&model.Category{}).
		Where("id = ? AND user_id = ? AND locale = ?", *categoryID, userID, locale).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return invalid("category_id", "分类不存在")
	}
	return nil
}

// isPaired 是否为译文或已有译文
func isPaired(tx *gorm.DB, article *model.Article) (bool, error) {
	if article.IsTranslated() {
		return true, nil
	}
	var count int64
	err := tx.Model(&model.Article{}).Where("original_article_id = ?", article.ID).Count(&count).Error
	return count > 0, err
}
