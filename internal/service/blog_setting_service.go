package service

import (
	"context"
	"errors"

	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlogSettingService 博客外观设置
type BlogSettingService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// NewBlogSettingService 创建设置服务
func NewBlogSettingService(db *gorm.DB, logger *zap.SugaredLogger) *BlogSettingService {
	return &BlogSettingService{db: db, logger: logger}
}

// GetOrCreate 获取用户设置，不存在时按默认值创建，可重复调用
func (s *BlogSettingService) GetOrCreate(ctx context.Context, userID uint) (*model.BlogSetting, error) {
	db := s.db.WithContext(ctx)
	var setting model.BlogSetting
	err := db.Where("user_id = ?", userID).First(&setting).Error
	if err == nil {
		return &setting, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	setting = model.BlogSetting{
		UserID:      userID,
		ThemeColor:  model.ThemeSlate,
		LayoutStyle: model.LayoutLinear,
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&setting).Error; err != nil {
		return nil, err
	}
	if setting.ID == 0 {
		// 并发请求已创建
		if err := db.Where("user_id = ?", userID).First(&setting).Error; err != nil {
			return nil, err
		}
	}
	return &setting, nil
}

// Update 更新设置
func (s *BlogSettingService) Update(ctx context.Context, userID uint, req *dto.BlogSettingRequest) (*model.BlogSetting, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	setting, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	setting.BlogTitleJa = req.BlogTitleJa
	setting.BlogTitleEn = req.BlogTitleEn
	setting.BlogSubtitleJa = req.BlogSubtitleJa
	setting.BlogSubtitleEn = req.BlogSubtitleEn
	setting.ThemeColor = req.ThemeColor
	setting.LayoutStyle = req.LayoutStyle
	setting.ShowHeroThumbnail = req.ShowHeroThumbnail
	setting.HeaderImage = req.HeaderImage

	err = s.db.WithContext(ctx).Model(setting).Updates(map[string]interface{}{
		"blog_title_ja":       setting.BlogTitleJa,
		"blog_title_en":       setting.BlogTitleEn,
		"blog_subtitle_ja":    setting.BlogSubtitleJa,
		"blog_subtitle_en":    setting.BlogSubtitleEn,
		"theme_color":         setting.ThemeColor,
		"layout_style":        setting.LayoutStyle,
		"show_hero_thumbnail": setting.ShowHeroThumbnail,
		"header_image":        setting.HeaderImage,
	}).Error
	if err != nil {
		return nil, err
	}
	return setting, nil
}
