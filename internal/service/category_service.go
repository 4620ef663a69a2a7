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

// CategoryService 分类服务
type CategoryService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// NewCategoryService 创建分类服务实例
func NewCategoryService(db *gorm.DB, logger *zap.SugaredLogger) *CategoryService {
	return &CategoryService{db: db, logger: logger}
}

// List 用户在某语言下的分类及文章数，locale 为空时返回全部
func (s *CategoryService) List(ctx context.Context, userID uint, locale string) ([]model.Category, error) {
	query := s.db.WithContext(ctx).Model(&model.Category{}).
		Select("categories.*, (SELECT COUNT(*) FROM articles WHERE articles.category_id = categories.id) AS article_count").
		Where("categories.user_id = ?", userID)
	if locale != "" {
		query = query.Where("categories.locale = ?", locale)
	}

	var list []model.Category
	err := query.Order("categories.name ASC").Find(&list).Error
	return list, err
}

// Get 获取自己的分类
func (s *CategoryService) Get(ctx context.Context, userID, id uint) (*model.Category, error) {
	var category model.Category
	err := s.db.WithContext(ctx).
		Select("categories.*, (SELECT COUNT(*) FROM articles WHERE articles.category_id = categories.id) AS article_count").
		Where("categories.id = ? AND categories.user_id = ?", id, userID).
		First(&category).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

// Create 创建分类，同一用户同一语言下名称唯一
func (s *CategoryService) Create(ctx context.Context, userID uint, req *dto.CategoryRequest) (*model.Category, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	category := &model.Category{
		Name:        strings.TrimSpace(req.Name),
		Locale:      req.Locale,
		Description: req.Description,
		UserID:      userID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkCategoryName(tx, userID, category.Locale, category.Name, 0); err != nil {
			return err
		}
		return tx.Create(category).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, invalid("name", "分类名已存在")
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Update 更新分类
func (s *CategoryService) Update(ctx context.Context, userID, id uint, req *dto.CategoryRequest) (*model.Category, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var category model.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&category).Error; err != nil {
			return notFound(err)
		}
		name := strings.TrimSpace(req.Name)
		if err := checkCategoryName(tx, userID, req.Locale, name, id); err != nil {
			return err
		}
		if req.Locale != category.Locale {
			var count int64
			if err := tx.Model(&model.Article{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return invalid("locale", "分类下还有文章，不能修改语言")
			}
		}
		return tx.Model(&category).Updates(map[string]interface{}{
			"name":        name,
			"locale":      req.Locale,
			"description": req.Description,
		}).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, invalid("name", "分类名已存在")
	}
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

// Delete 删除分类，文章保留并清空分类
func (s *CategoryService) Delete(ctx context.Context, userID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category model.Category
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&category).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Model(&model.Article{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
}

func checkCategoryName(tx *gorm.DB, userID uint, locale, name string, excludeID uint) error {
	var count int64
	query := tx.Model(&model.Category{}).Where("user_id = ? AND locale = ? AND name = ?", userID, locale, name)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return invalid("name", "分类名已存在")
	}
	return nil
}
