package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TranslationService 原文与译文的配对管理
//
// 一篇原文至多一篇译文，译文语言固定为原文的另一种语言，所有者与原文一致。
type TranslationService struct {
	db       *gorm.DB
	log      *zap.SugaredLogger
	tags     *TagService
	articles *ArticleService
}

// NewTranslationService 创建译文服务
func NewTranslationService(db *gorm.DB, log *zap.SugaredLogger, tags *TagService, articles *ArticleService) *TranslationService {
	return &TranslationService{db: db, log: log, tags: tags, articles: articles}
}

// findOriginal 查找当前用户的原文
func findOriginal(tx *gorm.DB, userID, originalID uint) (*model.Article, error) {
	var original model.Article
	if err := tx.Where("id = ? AND user_id = ?", originalID, userID).First(&original).Error; err != nil {
		return nil, notFound(err)
	}
	if !original.IsOriginal() {
		return nil, invalid("original_article_id", "译文不能再翻译")
	}
	return &original, nil
}

// Draft 新建译文表单的预填内容
func (s *TranslationService) Draft(ctx context.Context, userID, originalID uint) (*dto.TranslationDraft, error) {
	db := s.db.WithContext(ctx)
	original, err := findOriginal(db.Preload("Tags"), userID, originalID)
	if err != nil {
		return nil, err
	}
	if err := loadTranslation(db, original); err != nil {
		return nil, err
	}
	if original.HasTranslation() {
		return nil, ErrTranslationExists
	}
	return &dto.TranslationDraft{
		OriginalID: original.ID,
		Title:      original.Title,
		Content:    original.Content,
		Locale:     model.CounterpartLocale(original.Locale),
		TagList:    TagText(original.Tags),
		CoverImage: original.CoverImage,
	}, nil
}

// Create 为原文创建译文，请求中的语言会被忽略
func (s *TranslationService) Create(ctx context.Context, userID, originalID uint, req *dto.TranslationRequest) (*model.Article, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var translation *model.Article
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		original, err := findOriginal(tx, userID, originalID)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&model.Article{}).Where("original_article_id = ?", original.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrTranslationExists
		}

		locale := model.CounterpartLocale(original.Locale)
		if err := checkCategory(tx, original.UserID, locale, req.CategoryID); err != nil {
			return err
		}

		translation = &model.Article{
			Title:             strings.TrimSpace(req.Title),
			Content:           req.Content,
			Locale:            locale,
			Status:            statusOrDraft(req.Status),
			CoverImage:        req.CoverImage,
			UserID:            original.UserID,
			CategoryID:        req.CategoryID,
			OriginalArticleID: &original.ID,
		}
		s.articles.markPublished(translation)

		if err := tx.Create(translation).Error; err != nil {
			// 并发创建由唯一索引拦截
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrTranslationExists
			}
			return err
		}
		return s.tags.ApplyTagText(tx, translation, req.TagList)
	})
	if err != nil {
		return nil, err
	}

	s.articles.afterSave(ctx, translation)
	return translation, nil
}

// Get 获取原文的译文
func (s *TranslationService) Get(ctx context.Context, userID, originalID uint) (*model.Article, error) {
	db := s.db.WithContext(ctx)
	original, err := findOriginal(db, userID, originalID)
	if err != nil {
		return nil, err
	}
	var translation model.Article
	err = db.Preload("Category").Preload("Tags").Preload("OriginalArticle").
		Where("original_article_id = ?", original.ID).
		First(&translation).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &translation, nil
}

// Update 更新译文，语言保持不变
func (s *TranslationService) Update(ctx context.Context, userID, originalID uint, req *dto.TranslationRequest) (*model.Article, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var translation model.Article
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		original, err := findOriginal(tx, userID, originalID)
		if err != nil {
			return err
		}
		if err := tx.Where("original_article_id = ?", original.ID).First(&translation).Error; err != nil {
			return notFound(err)
		}
		if err := checkCategory(tx, translation.UserID, translation.Locale, req.CategoryID); err != nil {
			return err
		}

		translation.Title = strings.TrimSpace(req.Title)
		translation.Content = req.Content
		translation.Status = statusOrDraft(req.Status)
		translation.CoverImage = req.CoverImage
		translation.CategoryID = req.CategoryID
		s.articles.markPublished(&translation)

		if err := tx.Model(&translation).Updates(articleColumns(&translation)).Error; err != nil {
			return err
		}
		return s.tags.ApplyTagText(tx, &translation, req.TagList)
	})
	if err != nil {
		return nil, err
	}

	s.articles.afterSave(ctx, &translation)
	return &translation, nil
}

// Delete 删除译文，原文保留
func (s *TranslationService) Delete(ctx context.Context, userID, originalID uint) error {
	var translationID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		original, err := findOriginal(tx, userID, originalID)
		if err != nil {
			return err
		}
		var translation model.Article
		if err := tx.Where("original_article_id = ?", original.ID).First(&translation).Error; err != nil {
			return notFound(err)
		}
		translationID = translation.ID
		return deleteArticles(tx, []uint{translation.ID})
	})
	if err != nil {
		return err
	}

	s.articles.afterDelete(ctx, translationID)
	return nil
}
