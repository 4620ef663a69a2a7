package dto

import "github.com/dualpascal/blog-api/internal/model"

// AdminStats 后台首页统计
type AdminStats struct {
	TotalUsers         int64  `json:"total_users"`
	TotalArticles      int64  `json:"total_articles"`
	PublishedArticles  int64  `json:"published_articles"`
	ThisMonthUsers     int64  `json:"this_month_users"`
	TotalContacts      int64  `json:"total_contacts"`
	UnresolvedContacts int64  `json:"unresolved_contacts"`
	GeneratedAt        string `json:"generated_at"`
}

// AdminUserListQuery 用户列表参数
type AdminUserListQuery struct {
	PageRequest
	Search string `form:"search" binding:"max=100"`
}

// UserStatusRequest 修改用户状态
type UserStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active suspended pending"`
}

// AdminUserItem 用户列表项
type AdminUserItem struct {
	*model.User
	ArticleCount int64  `json:"article_count"`
	CreatedAt    string `json:"created_at"`
}

// AdminUserDetail 用户详情
type AdminUserDetail struct {
	User     *model.User       `json:"user"`
	Articles []ArticleListItem `json:"articles"`
}
