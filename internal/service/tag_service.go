package service

import (
	"context"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 标签名最大长度
const maxTagNameLength = 50

// TagService 标签服务
type TagService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// NewTagService 创建标签服务实例
func NewTagService(db *gorm.DB, logger *zap.SugaredLogger) *TagService {
	return &TagService{db: db, logger: logger}
}

// ParseTagNames 拆分标签文本：按逗号或空白分隔，去空、转小写、去重
func ParseTagNames(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '，' || unicode.IsSpace(r)
	})
	names := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		name := strings.ToLower(strings.TrimSpace(f))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// ResolveTags 将标签文本解析为该用户的标签，不存在的会被创建
func (s *TagService) ResolveTags(tx *gorm.DB, userID uint, text string) ([]model.Tag, error) {
	names := ParseTagNames(text)
	for _, name := range names {
		if utf8.RuneCountInString(name) > maxTagNameLength {
			return nil, invalid("tag_list", "标签长度不能超过50个字符")
		}
	}

	tags := make([]model.Tag, 0, len(names))
	for _, name := range names {
		tag, err := s.findOrCreate(tx, userID, name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

// findOrCreate 查找或创建标签，并发插入由唯一索引兜底
func (s *TagService) findOrCreate(tx *gorm.DB, userID uint, name string) (*model.Tag, error) {
	var tag model.Tag
	err := tx.Where("user_id = ? AND name = ?", userID, name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag = model.Tag{Name: name, UserID: userID}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&tag).Error; err != nil {
		return nil, err
	}
	if tag.ID == 0 {
		if err := tx.Where("user_id = ? AND name = ?", userID, name).First(&tag).Error; err != nil {
			return nil, err
		}
	}
	return &tag, nil
}

// ReplaceArticleTags 用给定标签整体替换文章的标签
func (s *TagService) ReplaceArticleTags(tx *gorm.DB, article *model.Article, tags []model.Tag) error {
	if err := tx.Where("article_id = ?", article.ID).Delete(&model.ArticleTag{}).Error; err != nil {
		return err
	}
	if len(tags) > 0 {
		links := make([]model.ArticleTag, 0, len(tags))
		for _, t := range tags {
			links = append(links, model.ArticleTag{ArticleID: article.ID, TagID: t.ID})
		}
		if err := tx.Create(&links).Error; err != nil {
			return err
		}
	}
	article.Tags = tags
	return nil
}

// ApplyTagText 解析标签文本并替换文章标签。空白文本不做任何修改
func (s *TagService) ApplyTagText(tx *gorm.DB, article *model.Article, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	tags, err := s.ResolveTags(tx, article.UserID, text)
	if err != nil {
		return err
	}
	return s.ReplaceArticleTags(tx, article, tags)
}

// ListUserTags 用户的标签及文章数
func (s *TagService) ListUserTags(ctx context.Context, userID uint) ([]dto.TagResponse, error) {
	var list []dto.TagResponse
	err := s.db.WithContext(ctx).
		Table("tags").
		Select("tags.id, tags.name, COUNT(article_tags.article_id) AS article_count").
		Joins("LEFT JOIN article_tags ON article_tags.tag_id = tags.id").
		Where("tags.user_id = ?", userID).
		Group("tags.id, tags.name").
		Order("tags.name ASC").
		Scan(&list).Error
	return list, err
}

// Delete 删除标签及其文章关联
func (s *TagService) Delete(ctx context.Context, userID, tagID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag model.Tag
		if err := tx.Where("id = ? AND user_id = ?", tagID, userID).First(&tag).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Where("tag_id = ?", tag.ID).Delete(&model.ArticleTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}

// TagText 标签名拼接为编辑表单使用的文本
func TagText(tags []model.Tag) string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}
