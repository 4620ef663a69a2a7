package model

import (
	"fmt"
	"time"
)

// 文章状态
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
)

// Article 文章模型
//
// OriginalArticleID 为空的是原文，非空的是该原文的译文。
// 唯一索引保证一篇原文至多一篇译文。
type Article struct {
	Base
	Title             string     `gorm:"type:varchar(255);not null" json:"title"`
	Content           string     `gorm:"type:text;not null" json:"content"`
	Locale            string     `gorm:"type:varchar(5);not null;default:'ja';index" json:"locale"`
	Status            string     `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	PublishedAt       *time.Time `gorm:"index" json:"published_at"`
	CoverImage        string     `gorm:"type:varchar(255)" json:"cover_image"`
	UserID            uint       `gorm:"not null;index" json:"user_id"`
	CategoryID        *uint      `gorm:"index" json:"category_id"`
	OriginalArticleID *uint      `gorm:"uniqueIndex" json:"original_article_id"`

	// 关联
	User            User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Category        *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Tags            []Tag     `gorm:"many2many:article_tags;" json:"tags,omitempty"`
	OriginalArticle *Article  `gorm:"foreignKey:OriginalArticleID" json:"original_article,omitempty"`
	// Translation 由服务层批量加载
	Translation *Article `gorm:"-" json:"translation,omitempty"`
}

// TableName 指定表名
func (Article) TableName() string {
	return "articles"
}

// IsOriginal 是否原文
func (a *Article) IsOriginal() bool {
	return a.OriginalArticleID == nil
}

// IsTranslated 是否译文
func (a *Article) IsTranslated() bool {
	return a.OriginalArticleID != nil
}

// HasTranslation 是否已有译文，需先加载 Translation
func (a *Article) HasTranslation() bool {
	return a.Translation != nil
}

// IsPublished 是否已发布
func (a *Article) IsPublished() bool {
	return a.Status == ArticleStatusPublished
}

// TagNames 标签名列表
func (a *Article) TagNames() []string {
	names := make([]string, 0, len(a.Tags))
	for _, tag := range a.Tags {
		names = append(names, tag.Name)
	}
	return names
}

// ESDocID 搜索文档ID
func (a *Article) ESDocID() string {
	return fmt.Sprintf("article_%d", a.ID)
}

// ToSearchDocument 转换为搜索文档
func (a *Article) ToSearchDocument() *ESArticle {
	doc := &ESArticle{
		ID:        a.ESDocID(),
		ArticleID: a.ID,
		Title:     a.Title,
		Content:   a.Content,
		Locale:    a.Locale,
		Status:    a.Status,
		UserID:    a.UserID,
		Tags:      a.TagNames(),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.CategoryID != nil {
		doc.CategoryID = *a.CategoryID
	}
	if a.PublishedAt != nil {
		doc.PublishedAt = *a.PublishedAt
	}
	return doc
}
