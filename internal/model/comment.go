package model

// Comment 评论模型，匿名读者提交
type Comment struct {
	Base
	ArticleID  uint   `gorm:"not null;index" json:"article_id"`
	AuthorName string `gorm:"type:varchar(100);not null" json:"author_name"`
	Content    string `gorm:"type:text;not null" json:"content"`
	Website    string `gorm:"type:varchar(255)" json:"website"`

	// 关联
	Article *Article `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
}

// TableName 指定表名
func (Comment) TableName() string {
	return "comments"
}
