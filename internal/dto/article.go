package dto

import (
	"github.com/dualpascal/blog-api/internal/model"
	"github.com/dualpascal/blog-api/pkg/markdown"
)

// 摘要长度
const excerptLength = 100

// ArticleRequest 创建/更新文章请求
type ArticleRequest struct {
	Title      string `json:"title" binding:"required,max=255"`                  // 标题
	Content    string `json:"content" binding:"required"`                        // Markdown正文
	Locale     string `json:"locale" binding:"required,locale"`                  // 语言
	Status     string `json:"status" binding:"omitempty,oneof=draft published"`  // 状态，默认草稿
	CategoryID *uint  `json:"category_id"`                                       // 分类ID
	TagList    string `json:"tag_list" binding:"max=1000"`                       // 标签，逗号或空白分隔
	CoverImage string `json:"cover_image" binding:"max=255"`                     // 封面图片
}

// TranslationRequest 创建/更新译文请求，语言由原文决定
type TranslationRequest struct {
	Title      string `json:"title" binding:"required,max=255"`
	Content    string `json:"content" binding:"required"`
	Locale     string `json:"locale"` // 忽略
	Status     string `json:"status" binding:"omitempty,oneof=draft published"`
	CategoryID *uint  `json:"category_id"`
	TagList    string `json:"tag_list" binding:"max=1000"`
	CoverImage string `json:"cover_image" binding:"max=255"`
}

// ArticleListQuery 公开文章列表查询参数
type ArticleListQuery struct {
	PageRequest
	CategoryID *uint `form:"category_id"`
	TagID      *uint `form:"tag_id"`
}

// SearchRequest 搜索参数
type SearchRequest struct {
	PageRequest
	Keyword string `form:"q" binding:"max=100"`
}

// PreviewRequest 预览请求
type PreviewRequest struct {
	Content string `json:"content"`
}

// TagInfo 标签信息
type TagInfo struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// CategoryInfo 分类信息
type CategoryInfo struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Locale string `json:"locale"`
}

// TranslationInfo 配对文章摘要
type TranslationInfo struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Locale string `json:"locale"`
	Status string `json:"status"`
}

// ArticleListItem 文章列表项
type ArticleListItem struct {
	ID                uint             `json:"id"`
	Title             string           `json:"title"`
	Excerpt           string           `json:"excerpt"`
	Locale            string           `json:"locale"`
	Status            string           `json:"status"`
	CoverImage        string           `json:"cover_image"`
	Category          *CategoryInfo    `json:"category"`
	Tags              []TagInfo        `json:"tags"`
	IsOriginal        bool             `json:"is_original"`
	OriginalArticleID *uint            `json:"original_article_id"`
	Translation       *TranslationInfo `json:"translation"`
	PublishedAt       string           `json:"published_at"`
	CreatedAt         string           `json:"created_at"`
	UpdatedAt         string           `json:"updated_at"`
}

// ArticleDetail 文章详情
type ArticleDetail struct {
	ArticleListItem
	Content         string           `json:"content"`
	ContentHTML     string           `json:"content_html,omitempty"`
	Author          *AuthorInfo      `json:"author,omitempty"`
	OriginalArticle *TranslationInfo `json:"original_article"`
	Comments        []CommentItem    `json:"comments,omitempty"`
}

// AuthorInfo 作者信息
type AuthorInfo struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
}

// ArticleListResponse 文章列表
type ArticleListResponse struct {
	List            []ArticleListItem `json:"list"`
	Total           int64             `json:"total"`
	Page            int               `json:"page"`
	PageSize        int               `json:"page_size"`
	CurrentCategory *CategoryInfo     `json:"current_category,omitempty"`
	CurrentTag      *TagInfo          `json:"current_tag,omitempty"`
}

// TranslationDraft 新建译文表单的预填内容
type TranslationDraft struct {
	OriginalID uint   `json:"original_id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Locale     string `json:"locale"`
	TagList    string `json:"tag_list"`
	CoverImage string `json:"cover_image"`
}

// ToTagInfos 转换标签
func ToTagInfos(tags []model.Tag) []TagInfo {
	infos := make([]TagInfo, 0, len(tags))
	for _, t := range tags {
		infos = append(infos, TagInfo{ID: t.ID, Name: t.Name})
	}
	return infos
}

// ToCategoryInfo 转换分类，nil安全
func ToCategoryInfo(c *model.Category) *CategoryInfo {
	if c == nil || c.ID == 0 {
		return nil
	}
	return &CategoryInfo{ID: c.ID, Name: c.Name, Locale: c.Locale}
}

// ToTranslationInfo 转换配对文章，nil安全
func ToTranslationInfo(a *model.Article) *TranslationInfo {
	if a == nil || a.ID == 0 {
		return nil
	}
	return &TranslationInfo{ID: a.ID, Title: a.Title, Locale: a.Locale, Status: a.Status}
}

// ToArticleListItem 转换列表项
func ToArticleListItem(a *model.Article) ArticleListItem {
	excerpt, _ := markdown.Excerpt(a.Content, excerptLength)
	return ArticleListItem{
		ID:                a.ID,
		Title:             a.Title,
		Excerpt:           excerpt,
		Locale:            a.Locale,
		Status:            a.Status,
		CoverImage:        a.CoverImage,
		Category:          ToCategoryInfo(a.Category),
		Tags:              ToTagInfos(a.Tags),
		IsOriginal:        a.IsOriginal(),
		OriginalArticleID: a.OriginalArticleID,
		Translation:       ToTranslationInfo(a.Translation),
		PublishedAt:       FormatTimePtr(a.PublishedAt),
		CreatedAt:         FormatTime(a.CreatedAt),
		UpdatedAt:         FormatTime(a.UpdatedAt),
	}
}

// ToArticleListItems 批量转换
func ToArticleListItems(articles []model.Article) []ArticleListItem {
	items := make([]ArticleListItem, 0, len(articles))
	for i := range articles {
		items = append(items, ToArticleListItem(&articles[i]))
	}
	return items
}

// ToArticleDetail 转换详情，locale 决定作者展示名
func ToArticleDetail(a *model.Article, html, locale string) *ArticleDetail {
	detail := &ArticleDetail{
		ArticleListItem: ToArticleListItem(a),
		Content:         a.Content,
		ContentHTML:     html,
		OriginalArticle: ToTranslationInfo(a.OriginalArticle),
	}
	if a.User.ID != 0 {
		detail.Author = &AuthorInfo{
			ID:          a.User.ID,
			Username:    a.User.Username,
			DisplayName: a.User.DisplayName(locale),
			Avatar:      a.User.Avatar,
		}
	}
	return detail
}
