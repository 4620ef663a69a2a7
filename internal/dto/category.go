package dto

import "github.com/dualpascal/blog-api/internal/model"

// CategoryRequest 创建/更新分类请求
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=50"`
	Locale      string `json:"locale" binding:"required,locale"`
	Description string `json:"description" binding:"max=500"`
}

// CategoryListQuery 分类列表参数
type CategoryListQuery struct {
	Locale string `form:"locale" binding:"omitempty,locale"`
}

// CategoryResponse 分类
type CategoryResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Locale       string `json:"locale"`
	Description  string `json:"description"`
	ArticleCount int64  `json:"article_count"`
	CreatedAt    string `json:"created_at"`
}

// ToCategoryResponse 转换分类
func ToCategoryResponse(c *model.Category) CategoryResponse {
	return CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Locale:       c.Locale,
		Description:  c.Description,
		ArticleCount: c.ArticleCount,
		CreatedAt:    FormatTime(c.CreatedAt),
	}
}

// ToCategoryResponses 批量转换
func ToCategoryResponses(list []model.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(list))
	for i := range list {
		out = append(out, ToCategoryResponse(&list[i]))
	}
	return out
}
