package dto

// TagResponse 标签及其文章数
type TagResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	ArticleCount int64  `json:"article_count"`
}
