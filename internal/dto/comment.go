package dto

import "github.com/dualpascal/blog-api/internal/model"

// CommentCreateRequest 读者评论请求
type CommentCreateRequest struct {
	AuthorName string `json:"author_name" binding:"required,max=100"`
	Content    string `json:"content" binding:"required,max=5000"`
	Website    string `json:"website" binding:"omitempty,max=255,httpurl"`
}

// CommentItem 评论
type CommentItem struct {
	ID         uint             `json:"id"`
	ArticleID  uint             `json:"article_id"`
	AuthorName string           `json:"author_name"`
	Content    string           `json:"content"`
	Website    string           `json:"website"`
	Article    *TranslationInfo `json:"article,omitempty"`
	CreatedAt  string           `json:"created_at"`
}

// ToCommentItem 转换评论
func ToCommentItem(c *model.Comment) CommentItem {
	return CommentItem{
		ID:         c.ID,
		ArticleID:  c.ArticleID,
		AuthorName: c.AuthorName,
		Content:    c.Content,
		Website:    c.Website,
		Article:    ToTranslationInfo(c.Article),
		CreatedAt:  FormatTime(c.CreatedAt),
	}
}

// ToCommentItems 批量转换
func ToCommentItems(list []model.Comment) []CommentItem {
	out := make([]CommentItem, 0, len(list))
	for i := range list {
		out = append(out, ToCommentItem(&list[i]))
	}
	return out
}
