package model

// Category 分类模型，同一用户同一语言下名称唯一
type Category struct {
	Base
	Name        string `gorm:"type:varchar(50);not null;uniqueIndex:idx_categories_user_locale_name,priority:3" json:"name"`
	Locale      string `gorm:"type:varchar(5);not null;uniqueIndex:idx_categories_user_locale_name,priority:2" json:"locale"`
	Description string `gorm:"type:text" json:"description"`
	UserID      uint   `gorm:"not null;uniqueIndex:idx_categories_user_locale_name,priority:1" json:"user_id"`

	// 统计字段，查询时填充
	ArticleCount int64 `gorm:"->;-:migration" json:"article_count"`
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
